package rest

import (
	"errors"
	"time"

	"github.com/m04kA/SMC-ParserStorageService/internal/infra/tablestore"
)

var (
	// ErrMissingCredentials возвращается, когда не заданы URL проекта или ключ API
	ErrMissingCredentials = errors.New("rest client: supabase url or api key is not set")

	// ErrNoServiceKey возвращается, когда привилегированный клиент запрошен
	// без ключа service_role
	ErrNoServiceKey = errors.New("rest client: service role key is not set")
)

// Factory фабрика REST клиентов для шлюза хранения.
// Стандартный клиент работает с обычным ключом API, привилегированный —
// с ключом service_role, обходящим политики RLS.
type Factory struct {
	baseURL    string
	key        string
	serviceKey string
	timeout    time.Duration
	log        Logger
}

// NewFactory создает фабрику клиентов. serviceKey может быть пустым:
// тогда привилегированный клиент недоступен.
func NewFactory(baseURL, key, serviceKey string, timeout time.Duration, log Logger) *Factory {
	return &Factory{
		baseURL:    baseURL,
		key:        key,
		serviceKey: serviceKey,
		timeout:    timeout,
		log:        log,
	}
}

// Validate проверяет, что обязательные параметры доступа заданы
func (f *Factory) Validate() error {
	if f.baseURL == "" || f.key == "" {
		return ErrMissingCredentials
	}
	return nil
}

// Standard возвращает клиента с обычным ключом API
func (f *Factory) Standard() (tablestore.Store, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return NewClient(f.baseURL, f.key, f.timeout, f.log), nil
}

// Privileged возвращает клиента с ключом service_role
func (f *Factory) Privileged() (tablestore.Store, error) {
	if f.serviceKey == "" {
		return nil, ErrNoServiceKey
	}
	return NewPrivilegedClient(f.baseURL, f.serviceKey, f.timeout, f.log), nil
}
