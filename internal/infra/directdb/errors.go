package directdb

import "errors"

var (
	// ErrNoDSN возвращается, когда строку подключения невозможно определить
	// (не задан DSN и не удалось вывести его из URL Supabase)
	ErrNoDSN = errors.New("directdb: connection string is not configured")

	// ErrConnect возвращается при ошибке установки прямого подключения
	ErrConnect = errors.New("directdb: failed to connect")

	// ErrExec возвращается при ошибке выполнения SQL выражения
	ErrExec = errors.New("directdb: failed to execute statement")
)
