package pg

import (
	"database/sql"
	"errors"

	"github.com/m04kA/SMC-ParserStorageService/internal/infra/tablestore"
)

// ErrNoConnection возвращается фабрикой без открытого подключения
var ErrNoConnection = errors.New("pg.store: database connection is not configured")

// Factory фабрика хранилищ для режима прямого подключения PostgreSQL.
// Подключение уже выполнено от имени владельца базы, поэтому отдельного
// привилегированного клиента нет: Privileged возвращает то же хранилище.
type Factory struct {
	db *sql.DB
}

// NewFactory создает фабрику поверх открытого подключения
func NewFactory(db *sql.DB) *Factory {
	return &Factory{db: db}
}

// Validate проверяет наличие подключения
func (f *Factory) Validate() error {
	if f.db == nil {
		return ErrNoConnection
	}
	return nil
}

// Standard возвращает хранилище поверх подключения фабрики
func (f *Factory) Standard() (tablestore.Store, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return NewStore(f.db), nil
}

// Privileged в режиме прямого подключения совпадает со Standard
func (f *Factory) Privileged() (tablestore.Store, error) {
	return f.Standard()
}
