package directdb

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/lib/pq"
)

// supabaseURLPattern извлекает идентификатор проекта из URL вида
// https://<project>.supabase.co
var supabaseURLPattern = regexp.MustCompile(`^https://([^.]+)\.supabase\.co`)

// Logger интерфейс логирования для прямых подключений
type Logger interface {
	Info(format string, v ...interface{})
	Error(format string, v ...interface{})
}

// Connector открывает короткоживущие прямые подключения к PostgreSQL
// в обход REST слоя. Используется только протоколом восстановления прав
// и автосозданием схемы: каждое подключение закрывается до возврата из шага.
type Connector struct {
	dsn string
	log Logger
}

// NewConnector создает коннектор с готовой строкой подключения
func NewConnector(dsn string, log Logger) *Connector {
	return &Connector{dsn: dsn, log: log}
}

// DSNFromSupabaseURL выводит строку прямого подключения из URL проекта Supabase.
// Supabase публикует PostgreSQL на db.<project>.supabase.co:5432, пароль роли
// postgres совпадает с ключом service_role.
func DSNFromSupabaseURL(supabaseURL string, serviceKey string) (string, error) {
	m := supabaseURLPattern.FindStringSubmatch(supabaseURL)
	if m == nil {
		return "", fmt.Errorf("%w: cannot extract project id from %q", ErrNoDSN, supabaseURL)
	}
	return fmt.Sprintf("host=db.%s.supabase.co port=5432 user=postgres password=%s dbname=postgres sslmode=require",
		m[1], serviceKey), nil
}

// Connect открывает прямое подключение и проверяет его ping-ом
func (c *Connector) Connect(ctx context.Context) (*Conn, error) {
	if c.dsn == "" {
		return nil, ErrNoDSN
	}

	db, err := sql.Open("postgres", c.dsn)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", ErrConnect, err)
	}

	if err := db.PingContext(ctx); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("%w: ping: %v", ErrConnect, err)
	}

	c.log.Info("directdb: direct PostgreSQL connection established")
	return &Conn{db: db}, nil
}

// Conn прямое подключение, поддерживает только выполнение сырых SQL выражений
type Conn struct {
	db *sql.DB
}

// Exec выполняет сырое SQL выражение
func (c *Conn) Exec(ctx context.Context, stmt string) error {
	if _, err := c.db.ExecContext(ctx, stmt); err != nil {
		return fmt.Errorf("%w: %v", ErrExec, err)
	}
	return nil
}

// Close закрывает подключение
func (c *Conn) Close() error {
	return c.db.Close()
}
