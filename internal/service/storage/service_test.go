package storage

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParserStorageService/internal/domain"
	"github.com/m04kA/SMC-ParserStorageService/internal/infra/tablestore"
)

const (
	testBookingTable = "booking_data"
	testURLTable     = "urls"
)

var errAccessDenied = &tablestore.Error{Code: "42501", Message: "permission denied for table booking_data"}

// fakeStore in-memory реализация tablestore.Store для тестов шлюза
type fakeStore struct {
	mu sync.Mutex

	denyInsert  bool   // все вставки отклоняются политикой доступа
	denySelect  bool   // все выборки отклоняются
	rejectPrice string // вставка, содержащая запись с этой ценой, отклоняется хранилищем

	bookings []tablestore.Row
	urls     []tablestore.Row
	nextID   int64

	insertCalls int
	selectCalls int
	updateCalls int
	deleteCalls int
}

func newFakeStore() *fakeStore {
	return &fakeStore{}
}

func (f *fakeStore) calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.insertCalls + f.selectCalls + f.updateCalls + f.deleteCalls
}

func (f *fakeStore) Select(_ context.Context, table string, q tablestore.SelectQuery) (*tablestore.SelectResult, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.selectCalls++

	if f.denySelect {
		return nil, errAccessDenied
	}

	rows := f.bookings
	if table == testURLTable {
		rows = f.urls
	}

	matched := make([]tablestore.Row, 0)
	for _, row := range rows {
		if rowMatches(row, q.Eq) {
			matched = append(matched, row)
		}
	}

	if q.Count {
		return &tablestore.SelectResult{Rows: []tablestore.Row{}, Count: int64(len(matched))}, nil
	}

	if q.Offset > 0 {
		if q.Offset >= len(matched) {
			matched = nil
		} else {
			matched = matched[q.Offset:]
		}
	}
	if q.Limit > 0 && len(matched) > q.Limit {
		matched = matched[:q.Limit]
	}
	return &tablestore.SelectResult{Rows: matched}, nil
}

func (f *fakeStore) Insert(_ context.Context, table string, rows []tablestore.Row) ([]tablestore.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertCalls++

	if f.denyInsert {
		return nil, errAccessDenied
	}
	for _, row := range rows {
		if f.rejectPrice != "" && row["price"] == f.rejectPrice {
			return nil, &tablestore.Error{Code: "22P02", Message: "invalid input syntax"}
		}
	}

	inserted := make([]tablestore.Row, 0, len(rows))
	for _, row := range rows {
		f.nextID++
		stored := tablestore.Row{}
		for k, v := range row {
			stored[k] = v
		}
		stored["id"] = f.nextID

		if table == testURLTable {
			f.urls = append(f.urls, stored)
		} else {
			f.bookings = append(f.bookings, stored)
		}
		inserted = append(inserted, stored)
	}
	return inserted, nil
}

func (f *fakeStore) Update(_ context.Context, table string, set map[string]any, eq map[string]any) ([]tablestore.Row, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.updateCalls++

	if f.denyInsert {
		return nil, errAccessDenied
	}

	rows := f.bookings
	if table == testURLTable {
		rows = f.urls
	}

	updated := make([]tablestore.Row, 0)
	for _, row := range rows {
		if rowMatches(row, eq) {
			for k, v := range set {
				row[k] = v
			}
			updated = append(updated, row)
		}
	}
	return updated, nil
}

func (f *fakeStore) Delete(_ context.Context, table string, eq map[string]any) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.deleteCalls++

	target := &f.bookings
	if table == testURLTable {
		target = &f.urls
	}

	kept := make([]tablestore.Row, 0, len(*target))
	for _, row := range *target {
		if !rowMatches(row, eq) {
			kept = append(kept, row)
		}
	}
	*target = kept
	return nil
}

func rowMatches(row tablestore.Row, eq map[string]any) bool {
	for col, val := range eq {
		if fmt.Sprint(row[col]) != fmt.Sprint(val) {
			return false
		}
	}
	return true
}

// fakeFactory фабрика клиентов для тестов
type fakeFactory struct {
	standard    TableStore
	privileged  TableStore
	privErr     error
	validateErr error

	events *[]string
}

func (f *fakeFactory) Validate() error { return f.validateErr }

func (f *fakeFactory) Standard() (TableStore, error) { return f.standard, nil }

func (f *fakeFactory) Privileged() (TableStore, error) {
	if f.events != nil {
		*f.events = append(*f.events, "factory:privileged")
	}
	if f.privErr != nil {
		return nil, f.privErr
	}
	return f.privileged, nil
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}

func testConfig() Config {
	return Config{
		BookingTable:    testBookingTable,
		URLTable:        testURLTable,
		BatchSize:       100,
		EscalationPause: time.Millisecond,
	}
}

func newTestService(t *testing.T, store *fakeStore) *Service {
	t.Helper()

	svc := NewService(testConfig(), &fakeFactory{standard: store}, nil, nil, nopLogger{})
	require.NoError(t, svc.Initialize(context.Background()))
	require.True(t, svc.Ready())
	require.False(t, svc.Degraded())
	return svc
}

func TestInitialize_RequiresConfiguration(t *testing.T) {
	factory := &fakeFactory{validateErr: fmt.Errorf("supabase url is not set")}
	svc := NewService(testConfig(), factory, nil, nil, nopLogger{})

	err := svc.Initialize(context.Background())

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.False(t, svc.Ready())
}

func TestInitialize_ProbeRowIsCleanedUp(t *testing.T) {
	store := newFakeStore()
	newTestService(t, store)

	// Тестовая запись проверки прав вставлена и удалена
	assert.Empty(t, store.bookings)
	assert.GreaterOrEqual(t, store.insertCalls, 1)
	assert.GreaterOrEqual(t, store.deleteCalls, 1)
}

func TestSaveBookingData_NotInitialized(t *testing.T) {
	svc := NewService(testConfig(), &fakeFactory{standard: newFakeStore()}, nil, nil, nopLogger{})

	assert.False(t, svc.SaveBookingData(context.Background(), "https://example.com", []domain.RawRecord{{}}))
}

func TestSaveBookingData_EmptyInputSucceedsWithoutStoreCalls(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)

	before := store.calls()
	assert.True(t, svc.SaveBookingData(context.Background(), "https://example.com", nil))
	assert.Equal(t, before, store.calls())
}

func TestSaveBookingData_PersistsNormalizedBatch(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)

	records := []domain.RawRecord{
		{"date": "2025-08-15", "time": "14:30", "price": "2500₽", "provider": "Корт №1"},
		{"time": "09:00", "price": "14:30"}, // цена подменена временем
		{},
	}

	ok := svc.SaveBookingData(context.Background(), "https://yclients.com/company/1", records)

	require.True(t, ok)
	require.Len(t, store.bookings, 3)
	require.Len(t, store.urls, 1)

	urlID, found := rowID(store.urls[0])
	require.True(t, found)
	for _, row := range store.bookings {
		assert.Equal(t, urlID, row["url_id"])
		assert.NotEmpty(t, row["price"])
		assert.NotEmpty(t, row["provider"])
	}
	assert.Equal(t, domain.PriceNotFound, store.bookings[1]["price"])
}

func TestSaveBookingData_PerRecordFallbackIsolatesMalformedRecord(t *testing.T) {
	store := newFakeStore()
	store.rejectPrice = "__malformed__"
	svc := newTestService(t, store)

	records := make([]domain.RawRecord, 100)
	for i := range records {
		records[i] = domain.RawRecord{"price": fmt.Sprintf("%d", 100+i), "provider": "P"}
	}
	records[56]["price"] = "__malformed__"

	ok := svc.SaveBookingData(context.Background(), "https://example.com", records)

	assert.True(t, ok)
	assert.Len(t, store.bookings, 99)
}

func TestSaveBookingData_PrivilegedRetryReplacesClient(t *testing.T) {
	standard := newFakeStore()
	privileged := newFakeStore()
	factory := &fakeFactory{standard: standard, privileged: privileged}

	svc := NewService(testConfig(), factory, nil, nil, nopLogger{})
	require.NoError(t, svc.Initialize(context.Background()))

	// Политика доступа ломается после инициализации
	standard.denyInsert = true
	standard.denySelect = true

	ok := svc.SaveBookingData(context.Background(), "https://example.com", []domain.RawRecord{
		{"price": "450", "provider": "P"},
	})

	require.True(t, ok)
	assert.Empty(t, standard.bookings)
	assert.Len(t, privileged.bookings, 1)

	// Привилегированный клиент замещает активного насовсем
	assert.Same(t, TableStore(privileged), svc.currentStore())

	before := standard.calls()
	require.True(t, svc.SaveBookingData(context.Background(), "https://example.com", []domain.RawRecord{
		{"price": "500", "provider": "P"},
	}))
	assert.Equal(t, before, standard.calls())
	assert.Len(t, privileged.bookings, 2)
}

func TestResolveURL_Idempotent(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)

	ctx := context.Background()
	first := svc.resolveURL(ctx, "https://yclients.com/company/42")
	second := svc.resolveURL(ctx, "https://yclients.com/company/42")

	assert.Equal(t, first, second)
	assert.Len(t, store.urls, 1)
}

func TestResolveURL_HashFallbackIsDeterministicAndBounded(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)
	store.denySelect = true
	store.denyInsert = true

	ctx := context.Background()
	url := "https://yclients.com/company/42"

	first := svc.resolveURL(ctx, url)
	second := svc.resolveURL(ctx, url)

	assert.Equal(t, first, second)
	assert.Equal(t, fallbackURLID(url), first)
	assert.GreaterOrEqual(t, first, int64(0))
	assert.Less(t, first, int64(fallbackIDRange))
	assert.Empty(t, store.urls)
}

func TestGetBookingData_ErrorsResolveToEmptyList(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)

	require.True(t, svc.SaveBookingData(context.Background(), "https://example.com", []domain.RawRecord{
		{"price": "450"}, {"price": "500"},
	}))

	rows := svc.GetBookingData(context.Background(), 1, 0)
	assert.Len(t, rows, 1)

	store.denySelect = true
	rows = svc.GetBookingData(context.Background(), 10, 0)
	assert.NotNil(t, rows)
	assert.Empty(t, rows)
}

func TestGetStatistics(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)

	require.True(t, svc.SaveBookingData(context.Background(), "https://example.com", []domain.RawRecord{
		{"price": "450"}, {"price": "500"},
	}))

	stats := svc.GetStatistics(context.Background())
	require.True(t, stats.Connected)
	assert.Equal(t, int64(2), stats.BookingRecords)
	assert.Equal(t, int64(1), stats.URLRecords)

	store.denySelect = true
	stats = svc.GetStatistics(context.Background())
	assert.False(t, stats.Connected)
	assert.NotEmpty(t, stats.Error)
}

func TestCreateURLAndListURLs(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)

	name := "Падел-центр"
	created, err := svc.CreateURL(context.Background(), "https://yclients.com/company/7", &name)
	require.NoError(t, err)
	assert.Equal(t, "https://yclients.com/company/7", created.URL)
	assert.Equal(t, string(domain.URLStatusActive), created.Status)
	require.NotNil(t, created.Name)
	assert.Equal(t, name, *created.Name)

	urls, err := svc.ListURLs(context.Background())
	require.NoError(t, err)
	require.Len(t, urls, 1)
	assert.Equal(t, created.ID, urls[0].ID)
}

func TestGetURL(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)

	created, err := svc.CreateURL(context.Background(), "https://yclients.com/company/7", nil)
	require.NoError(t, err)

	found, err := svc.GetURL(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)
	assert.Equal(t, "https://yclients.com/company/7", found.URL)

	_, err = svc.GetURL(context.Background(), 9999)
	assert.ErrorIs(t, err, ErrURLNotFound)
}

func TestUpdateURL(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)

	created, err := svc.CreateURL(context.Background(), "https://yclients.com/company/7", nil)
	require.NoError(t, err)

	name := "Падел-центр"
	status := string(domain.URLStatusPaused)
	updated, err := svc.UpdateURL(context.Background(), created.ID, &name, &status)
	require.NoError(t, err)
	require.NotNil(t, updated.Name)
	assert.Equal(t, name, *updated.Name)
	assert.Equal(t, status, updated.Status)

	// Пустое обновление не трогает хранилище
	before := store.updateCalls
	unchanged, err := svc.UpdateURL(context.Background(), created.ID, nil, nil)
	require.NoError(t, err)
	assert.Equal(t, before, store.updateCalls)
	assert.Equal(t, status, unchanged.Status)

	_, err = svc.UpdateURL(context.Background(), 9999, &name, nil)
	assert.ErrorIs(t, err, ErrURLNotFound)
}

func TestDeleteURL_CascadesBookingRecords(t *testing.T) {
	store := newFakeStore()
	svc := newTestService(t, store)

	require.True(t, svc.SaveBookingData(context.Background(), "https://yclients.com/company/7", []domain.RawRecord{
		{"price": "450"}, {"price": "500"},
	}))
	require.Len(t, store.urls, 1)
	require.Len(t, store.bookings, 2)

	id, ok := rowID(store.urls[0])
	require.True(t, ok)

	require.NoError(t, svc.DeleteURL(context.Background(), id))
	assert.Empty(t, store.urls)
	assert.Empty(t, store.bookings)

	assert.ErrorIs(t, svc.DeleteURL(context.Background(), id), ErrURLNotFound)
}

func TestClose_ResetsReadiness(t *testing.T) {
	svc := newTestService(t, newFakeStore())

	svc.Close()

	assert.False(t, svc.Ready())
	assert.False(t, svc.SaveBookingData(context.Background(), "https://example.com", []domain.RawRecord{{}}))
}
