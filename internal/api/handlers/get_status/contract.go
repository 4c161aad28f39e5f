package get_status

import (
	"context"

	"github.com/m04kA/SMC-ParserStorageService/internal/service/storage/models"
)

type StorageService interface {
	GetStatistics(ctx context.Context) *models.Statistics
}

type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}
