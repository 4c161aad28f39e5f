package get_urls

import (
	"context"

	"github.com/m04kA/SMC-ParserStorageService/internal/service/storage/models"
)

type StorageService interface {
	ListURLs(ctx context.Context) ([]*models.URLResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
