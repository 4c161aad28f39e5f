package storage

import (
	"context"

	"github.com/m04kA/SMC-ParserStorageService/internal/infra/tablestore"
)

// Переиспользуем контракт табличного хранилища
type TableStore = tablestore.Store

// ClientFactory создает клиентов табличного хранилища.
// Privileged возвращает клиента, обходящего политики RLS (service_role);
// ошибка означает, что привилегированный доступ не сконфигурирован.
type ClientFactory interface {
	Validate() error
	Standard() (TableStore, error)
	Privileged() (TableStore, error)
}

// DirectConn прямое соединение с базой, поддерживает только сырые SQL выражения
type DirectConn interface {
	Exec(ctx context.Context, stmt string) error
	Close() error
}

// DirectConnector открывает прямые подключения к PostgreSQL в обход
// табличного хранилища. Используется только протоколом восстановления прав
// и автосозданием схемы.
type DirectConnector interface {
	Connect(ctx context.Context) (DirectConn, error)
}

// Logger интерфейс логирования сервиса хранения
type Logger interface {
	Debug(format string, v ...interface{})
	Info(format string, v ...interface{})
	Warn(format string, v ...interface{})
	Error(format string, v ...interface{})
}
