package get_data

import (
	"context"

	"github.com/m04kA/SMC-ParserStorageService/internal/infra/tablestore"
)

type StorageService interface {
	GetBookingData(ctx context.Context, limit, offset int) []tablestore.Row
}

type Logger interface {
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
