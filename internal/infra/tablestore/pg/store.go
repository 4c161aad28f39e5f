package pg

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sort"

	"github.com/Masterminds/squirrel"
	"github.com/lib/pq"

	"github.com/m04kA/SMC-ParserStorageService/internal/infra/tablestore"
)

// psql билдер запросов с PostgreSQL-плейсхолдерами ($1, $2, ...)
var psql = squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar)

// Store реализация tablestore.Store поверх прямого подключения PostgreSQL.
// Используется в режиме storage.mode = "postgres", когда REST слой Supabase
// не нужен или недоступен.
type Store struct {
	db *sql.DB
}

// NewStore создает новое хранилище поверх открытого подключения
func NewStore(db *sql.DB) *Store {
	return &Store{db: db}
}

// Select выполняет выборку из таблицы
func (s *Store) Select(ctx context.Context, table string, q tablestore.SelectQuery) (*tablestore.SelectResult, error) {
	if q.Count {
		count, err := s.count(ctx, table, q)
		if err != nil {
			return nil, err
		}
		return &tablestore.SelectResult{Rows: []tablestore.Row{}, Count: count}, nil
	}

	query, args, err := buildSelect(table, q)
	if err != nil {
		return nil, fmt.Errorf("%w: Select - build select query: %v", ErrBuildQuery, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapPQ(err)
	}
	defer rows.Close()

	result, err := scanRows(rows)
	if err != nil {
		return nil, err
	}
	return &tablestore.SelectResult{Rows: result}, nil
}

func (s *Store) count(ctx context.Context, table string, q tablestore.SelectQuery) (int64, error) {
	query, args, err := buildCount(table, q)
	if err != nil {
		return 0, fmt.Errorf("%w: count - build select query: %v", ErrBuildQuery, err)
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, query, args...).Scan(&count); err != nil {
		return 0, wrapPQ(err)
	}
	return count, nil
}

// Insert вставляет строки одной транзакцией и возвращает их идентификаторы.
// Транзакция сохраняет семантику пакетной вставки: либо весь пакет, либо ничего.
func (s *Store) Insert(ctx context.Context, table string, rows []tablestore.Row) ([]tablestore.Row, error) {
	if len(rows) == 0 {
		return []tablestore.Row{}, nil
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("%w: Insert - begin transaction: %v", ErrExecQuery, err)
	}

	inserted := make([]tablestore.Row, 0, len(rows))
	for _, row := range rows {
		query, args, err := buildInsert(table, row)
		if err != nil {
			_ = tx.Rollback()
			return nil, fmt.Errorf("%w: Insert - build insert query: %v", ErrBuildQuery, err)
		}

		var id int64
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&id); err != nil {
			_ = tx.Rollback()
			return nil, wrapPQ(err)
		}
		inserted = append(inserted, tablestore.Row{"id": id})
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("%w: Insert - commit transaction: %v", ErrExecQuery, err)
	}
	return inserted, nil
}

// Update обновляет строки по фильтру равенства и возвращает обновленные записи
func (s *Store) Update(ctx context.Context, table string, set map[string]any, eq map[string]any) ([]tablestore.Row, error) {
	query, args, err := buildUpdate(table, set, eq)
	if err != nil {
		return nil, fmt.Errorf("%w: Update - build update query: %v", ErrBuildQuery, err)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, wrapPQ(err)
	}
	defer rows.Close()

	return scanRows(rows)
}

// Delete удаляет строки по фильтру равенства
func (s *Store) Delete(ctx context.Context, table string, eq map[string]any) error {
	query, args, err := psql.Delete(table).
		Where(squirrel.Eq(eq)).
		ToSql()
	if err != nil {
		return fmt.Errorf("%w: Delete - build delete query: %v", ErrBuildQuery, err)
	}

	if _, err := s.db.ExecContext(ctx, query, args...); err != nil {
		return wrapPQ(err)
	}
	return nil
}

// buildSelect строит SELECT по нейтральным параметрам выборки.
// Направление сортировки переводится в синтаксис PostgreSQL здесь,
// а не на уровне шлюза.
func buildSelect(table string, q tablestore.SelectQuery) (string, []any, error) {
	columns := q.Columns
	if len(columns) == 0 {
		columns = []string{"*"}
	}

	builder := psql.Select(columns...).From(table)
	if len(q.Eq) > 0 {
		builder = builder.Where(squirrel.Eq(q.Eq))
	}
	if q.OrderBy != "" {
		direction := " ASC"
		if q.Descending {
			direction = " DESC"
		}
		builder = builder.OrderBy(q.OrderBy + direction)
	}
	if q.Limit > 0 {
		builder = builder.Limit(uint64(q.Limit))
	}
	if q.Offset > 0 {
		builder = builder.Offset(uint64(q.Offset))
	}

	return builder.ToSql()
}

func buildCount(table string, q tablestore.SelectQuery) (string, []any, error) {
	builder := psql.Select("COUNT(*)").From(table)
	if len(q.Eq) > 0 {
		builder = builder.Where(squirrel.Eq(q.Eq))
	}
	return builder.ToSql()
}

// buildInsert строит вставку одной строки. У строк пакета могут различаться
// необязательные колонки, поэтому каждая вставка строится по собственному
// набору ключей; ключи сортируются для детерминированного SQL.
func buildInsert(table string, row tablestore.Row) (string, []any, error) {
	columns := make([]string, 0, len(row))
	for col := range row {
		columns = append(columns, col)
	}
	sort.Strings(columns)

	values := make([]any, 0, len(columns))
	for _, col := range columns {
		values = append(values, row[col])
	}

	return psql.Insert(table).
		Columns(columns...).
		Values(values...).
		Suffix("RETURNING id").
		ToSql()
}

func buildUpdate(table string, set map[string]any, eq map[string]any) (string, []any, error) {
	return psql.Update(table).
		SetMap(set).
		Where(squirrel.Eq(eq)).
		Suffix("RETURNING *").
		ToSql()
}

// scanRows сканирует результат запроса в срез карт "колонка -> значение"
func scanRows(rows *sql.Rows) ([]tablestore.Row, error) {
	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("%w: scanRows - read columns: %v", ErrScanRow, err)
	}

	result := make([]tablestore.Row, 0)
	for rows.Next() {
		values := make([]any, len(columns))
		pointers := make([]any, len(columns))
		for i := range values {
			pointers[i] = &values[i]
		}

		if err := rows.Scan(pointers...); err != nil {
			return nil, fmt.Errorf("%w: scanRows - scan row: %v", ErrScanRow, err)
		}

		row := make(tablestore.Row, len(columns))
		for i, col := range columns {
			if b, ok := values[i].([]byte); ok {
				row[col] = string(b)
			} else {
				row[col] = values[i]
			}
		}
		result = append(result, row)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: scanRows - rows error: %v", ErrScanRow, err)
	}
	return result, nil
}

// wrapPQ преобразует ошибку драйвера в *tablestore.Error,
// сохраняя SQLSTATE код и детали для классификации на уровне шлюза
func wrapPQ(err error) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		return &tablestore.Error{
			Code:    string(pqErr.Code),
			Message: pqErr.Message,
			Details: pqErr.Detail,
			Hint:    pqErr.Hint,
		}
	}
	return &tablestore.Error{Message: err.Error()}
}
