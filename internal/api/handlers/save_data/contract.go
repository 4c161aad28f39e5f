package save_data

import (
	"context"

	"github.com/m04kA/SMC-ParserStorageService/internal/domain"
)

type StorageService interface {
	SaveBookingData(ctx context.Context, url string, records []domain.RawRecord) bool
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
