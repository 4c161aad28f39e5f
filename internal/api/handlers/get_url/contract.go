package get_url

import (
	"context"

	"github.com/m04kA/SMC-ParserStorageService/internal/service/storage/models"
)

type StorageService interface {
	GetURL(ctx context.Context, id int64) (*models.URLResponse, error)
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
