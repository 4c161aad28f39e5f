package tablestore

import "context"

// Row одна строка таблицы в виде карты "колонка -> значение"
type Row map[string]any

// SelectQuery параметры выборки из таблицы.
// Сортировка задается нейтрально к реализации: колонка + направление,
// синтаксис ORDER BY каждая реализация строит сама.
type SelectQuery struct {
	Columns    []string       // пустой срез — все колонки
	Eq         map[string]any // фильтры точного равенства
	Limit      int            // 0 — без ограничения
	Offset     int
	Count      bool   // вернуть точное число строк (поле Count результата)
	OrderBy    string // колонка сортировки, пустая — без сортировки
	Descending bool
}

// SelectResult результат выборки
type SelectResult struct {
	Rows  []Row
	Count int64 // заполнено только при SelectQuery.Count = true
}

// Store узкий контракт табличного хранилища.
// Реализации: rest (Supabase PostgREST) и pg (прямое подключение PostgreSQL).
// Логика шлюза хранения зависит только от этого интерфейса и тестируется
// против in-memory реализации.
type Store interface {
	Select(ctx context.Context, table string, q SelectQuery) (*SelectResult, error)
	Insert(ctx context.Context, table string, rows []Row) ([]Row, error)
	Update(ctx context.Context, table string, set map[string]any, eq map[string]any) ([]Row, error)
	Delete(ctx context.Context, table string, eq map[string]any) error
}
