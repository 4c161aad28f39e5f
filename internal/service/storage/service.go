package storage

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"sync"
	"time"

	"github.com/m04kA/SMC-ParserStorageService/internal/domain"
	"github.com/m04kA/SMC-ParserStorageService/internal/infra/tablestore"
	"github.com/m04kA/SMC-ParserStorageService/internal/normalizer"
	"github.com/m04kA/SMC-ParserStorageService/internal/service/storage/models"
	"github.com/m04kA/SMC-ParserStorageService/pkg/metrics"
)

const (
	// fallbackIDRange верхняя граница деградированного идентификатора URL
	fallbackIDRange = 1_000_000

	// probeProvider маркер тестовой записи для проверки прав на запись
	probeProvider = "__permissions_probe__"

	defaultReadLimit = 100
)

// Config конфигурация сервиса хранения
type Config struct {
	BookingTable string
	URLTable     string
	BatchSize    int

	// EscalationPause пауза перед повторной проверкой тестовой записи
	// после каждого шага восстановления прав
	EscalationPause time.Duration

	// AllowSchemaReset разрешает деструктивный шаг пересоздания таблиц.
	// Включается оператором осознанно: шаг удаляет все данные.
	AllowSchemaReset bool
}

// Service шлюз хранения данных парсера.
//
// Владеет активным клиентом табличного хранилища и выполняет пакетную запись
// нормализованных записей с изоляцией ошибок на уровне чанка и отдельной записи.
// При отказе в доступе на запись выполняет протокол восстановления прав,
// при успехе которого активный клиент может быть заменен привилегированным —
// замена видна всем последующим вызовам и защищена мьютексом.
type Service struct {
	cfg     Config
	factory ClientFactory
	direct  DirectConnector
	metrics *metrics.Metrics
	log     Logger

	mu          sync.Mutex
	store       TableStore
	initialized bool
	degraded    bool
}

// NewService создает новый сервис хранения.
// metrics может быть nil, если сбор метрик выключен.
func NewService(cfg Config, factory ClientFactory, direct DirectConnector, m *metrics.Metrics, log Logger) *Service {
	if cfg.BookingTable == "" {
		cfg.BookingTable = "booking_data"
	}
	if cfg.URLTable == "" {
		cfg.URLTable = "urls"
	}
	if cfg.BatchSize <= 0 {
		cfg.BatchSize = 100
	}
	if cfg.EscalationPause <= 0 {
		cfg.EscalationPause = time.Second
	}

	return &Service{
		cfg:     cfg,
		factory: factory,
		direct:  direct,
		metrics: m,
		log:     log,
	}
}

// Initialize устанавливает соединение с хранилищем и проверяет права на запись.
//
// Поднимает ошибку только при отсутствии конфигурации (ErrNotConfigured) или
// невозможности создать клиента (ErrConnection). Отсутствие таблиц и отказ
// в правах на запись инициализацию не прерывают: первое лечится best-effort
// созданием схемы, второе — протоколом восстановления прав; при полном
// провале сервис остается в деградированном состоянии, а запись завершается
// ошибками на уровне отдельных вызовов SaveBookingData.
func (s *Service) Initialize(ctx context.Context) error {
	if err := s.factory.Validate(); err != nil {
		return fmt.Errorf("%w: %v", ErrNotConfigured, err)
	}

	store, err := s.factory.Standard()
	if err != nil {
		return fmt.Errorf("%w: %v", ErrConnection, err)
	}

	s.swapStore(store)
	s.log.Info("Initialize: store client created")

	// Проба существования таблицы тривиальным чтением
	_, err = store.Select(ctx, s.cfg.BookingTable, tablestore.SelectQuery{
		Columns: []string{"id"},
		Limit:   1,
	})
	if err != nil {
		s.log.Warn("Initialize: table %s is not reachable, attempting to provision schema: %v", s.cfg.BookingTable, err)
		if provErr := s.provisionTables(ctx); provErr != nil {
			s.log.Warn("Initialize: automatic schema provisioning failed, tables must be created manually: %v", provErr)
		}
	}

	s.mu.Lock()
	s.initialized = true
	s.mu.Unlock()

	// Безусловная проверка прав на запись: вставка и удаление тестовой записи
	if err := s.verifyWrite(ctx); err != nil {
		s.log.Warn("Initialize: write permission probe failed, starting permission escalation: %v", err)
		if !s.runEscalation(ctx) {
			s.mu.Lock()
			s.degraded = true
			s.mu.Unlock()
			s.log.Error("Initialize: permission escalation exhausted, writes are expected to fail")
		}
	} else {
		s.log.Info("Initialize: write permission probe passed")
	}

	s.log.Info("Initialize: storage service initialized")
	return nil
}

// Ready возвращает true после успешного Initialize
func (s *Service) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.initialized
}

// Degraded возвращает true, если восстановление прав не удалось
// и запись ожидаемо завершается ошибками
func (s *Service) Degraded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.degraded
}

// SaveBookingData нормализует и сохраняет пакет сырых записей для URL.
//
// Возвращает true, если сохранена хотя бы одна запись: частичное сохранение
// считается успехом. Пустой вход — успех без обращения к хранилищу.
// Ошибки отдельных записей и чанков изолируются; отказ в доступе на весь
// пакет лечится повторной попыткой с привилегированным клиентом, который
// при успехе замещает активного клиента насовсем.
func (s *Service) SaveBookingData(ctx context.Context, url string, records []domain.RawRecord) bool {
	if !s.Ready() {
		s.log.Error("SaveBookingData: service is not initialized")
		return false
	}
	if len(records) == 0 {
		s.log.Warn("SaveBookingData: no records to save for url=%s", url)
		return true
	}

	s.log.Info("SaveBookingData: saving %d records for url=%s", len(records), url)

	urlID := s.resolveURL(ctx, url)

	rows := make([]tablestore.Row, 0, len(records))
	for _, raw := range records {
		rec := normalizer.Normalize(raw)
		rec.URLID = urlID
		s.log.Debug("SaveBookingData: record date=%v time=%v price=%s provider=%s",
			deref(rec.Date), deref(rec.Time), rec.Price, rec.Provider)
		rows = append(rows, rec.Row())
	}

	store := s.currentStore()
	total, denied := s.writeChunks(ctx, store, rows)

	// Отказ в доступе на уровне всего пакета: одна дополнительная попытка
	// привилегированным клиентом; при успехе он замещает активного клиента
	if total == 0 && denied {
		s.log.Error("SaveBookingData: access denied for the whole batch, retrying with privileged client")

		privileged, err := s.factory.Privileged()
		if err != nil {
			s.log.Error("SaveBookingData: privileged client is not available: %v", err)
		} else {
			total, _ = s.writeChunks(ctx, privileged, rows)
			if total > 0 {
				s.swapStore(privileged)
				s.log.Info("SaveBookingData: privileged client succeeded and replaced the active client")
			}
		}
	}

	s.observeBatch(total, len(rows))
	s.log.Info("SaveBookingData: saved %d of %d records for url=%s", total, len(records), url)
	return total > 0
}

// writeChunks пишет строки чанками фиксированного размера.
// Неудачная пакетная вставка чанка деградирует доповставочной записи,
// ошибки отдельных записей логируются и не прерывают чанк.
// Возвращает число сохраненных записей и признак того, что все чанки
// были отклонены политикой доступа.
func (s *Service) writeChunks(ctx context.Context, store TableStore, rows []tablestore.Row) (int, bool) {
	total := 0
	deniedChunks := 0
	chunks := 0

	for start := 0; start < len(rows); start += s.cfg.BatchSize {
		end := start + s.cfg.BatchSize
		if end > len(rows) {
			end = len(rows)
		}
		chunk := rows[start:end]
		chunks++

		inserted, err := store.Insert(ctx, s.cfg.BookingTable, chunk)
		if err == nil {
			total += len(inserted)
			s.log.Info("writeChunks: chunk %d inserted %d records", chunks, len(inserted))
			continue
		}

		s.logStoreError("writeChunks: bulk insert failed", err, chunks, len(chunk))
		if tablestore.IsAccessDenied(err) {
			deniedChunks++
		}

		// Повставочная деградация: спасаем записи, не задетые причиной отказа
		for _, row := range chunk {
			if _, rerr := store.Insert(ctx, s.cfg.BookingTable, []tablestore.Row{row}); rerr != nil {
				s.logStoreError("writeChunks: single record insert failed", rerr, chunks, 1)
				continue
			}
			total++
		}
	}

	return total, chunks > 0 && deniedChunks == chunks && total == 0
}

// resolveURL разрешает URL во внутренний идентификатор, создавая запись
// при первом появлении. Идемпотентно: один и тот же URL в рамках сессии
// разрешается в один и тот же идентификатор.
//
// При недоступности хранилища возвращает деградированный идентификатор —
// детерминированный хеш строки URL в ограниченном диапазоне. Он позволяет
// вызову продолжиться, но не сохраняется и не гарантирует уникальности
// между процессами.
func (s *Service) resolveURL(ctx context.Context, url string) int64 {
	store := s.currentStore()

	result, err := store.Select(ctx, s.cfg.URLTable, tablestore.SelectQuery{
		Columns: []string{"id"},
		Eq:      map[string]any{"url": url},
		Limit:   1,
	})
	if err == nil && len(result.Rows) > 0 {
		if id, ok := rowID(result.Rows[0]); ok {
			return id
		}
	}

	if err == nil {
		inserted, insErr := store.Insert(ctx, s.cfg.URLTable, []tablestore.Row{
			{"url": url, "status": string(domain.URLStatusActive)},
		})
		if insErr == nil && len(inserted) > 0 {
			if id, ok := rowID(inserted[0]); ok {
				s.log.Info("resolveURL: registered new url=%s id=%d", url, id)
				return id
			}
		}
		err = insErr
	}

	s.log.Error("resolveURL: falling back to hash-based id for url=%s: %v", url, err)
	if s.metrics != nil {
		s.metrics.URLFallbackIDs.Inc()
	}
	return fallbackURLID(url)
}

// GetBookingData возвращает страницу сохраненных записей.
// Ошибки хранилища разрешаются в пустой список.
func (s *Service) GetBookingData(ctx context.Context, limit, offset int) []tablestore.Row {
	if !s.Ready() {
		return []tablestore.Row{}
	}
	if limit <= 0 {
		limit = defaultReadLimit
	}

	result, err := s.currentStore().Select(ctx, s.cfg.BookingTable, tablestore.SelectQuery{
		Limit:      limit,
		Offset:     offset,
		OrderBy:    "id",
		Descending: true,
	})
	if err != nil {
		s.log.Error("GetBookingData: select failed: %v", err)
		return []tablestore.Row{}
	}
	return result.Rows
}

// GetStatistics возвращает статистику хранилища для эндпоинта статуса
func (s *Service) GetStatistics(ctx context.Context) *models.Statistics {
	if !s.Ready() {
		return &models.Statistics{Error: ErrNotInitialized.Error(), Connected: false}
	}

	store := s.currentStore()

	bookings, err := store.Select(ctx, s.cfg.BookingTable, tablestore.SelectQuery{
		Columns: []string{"id"},
		Count:   true,
	})
	if err != nil {
		s.log.Error("GetStatistics: booking count failed: %v", err)
		return &models.Statistics{Error: err.Error(), Connected: false}
	}

	urls, err := store.Select(ctx, s.cfg.URLTable, tablestore.SelectQuery{
		Columns: []string{"id"},
		Count:   true,
	})
	if err != nil {
		s.log.Error("GetStatistics: url count failed: %v", err)
		return &models.Statistics{Error: err.Error(), Connected: false}
	}

	return &models.Statistics{
		BookingRecords: bookings.Count,
		URLRecords:     urls.Count,
		Connected:      true,
	}
}

// CreateURL регистрирует новый URL источника для парсинга
func (s *Service) CreateURL(ctx context.Context, url string, name *string) (*models.URLResponse, error) {
	if !s.Ready() {
		return nil, ErrNotInitialized
	}

	row := tablestore.Row{"url": url, "status": string(domain.URLStatusActive)}
	if name != nil {
		row["name"] = *name
	}

	inserted, err := s.currentStore().Insert(ctx, s.cfg.URLTable, []tablestore.Row{row})
	if err != nil {
		return nil, fmt.Errorf("CreateURL: insert url record: %w", err)
	}
	if len(inserted) == 0 {
		return nil, fmt.Errorf("CreateURL: %w", ErrURLNotFound)
	}

	rec := urlRecordFromRow(inserted[0])
	s.log.Info("CreateURL: registered url=%s id=%d", url, rec.ID)
	return models.FromDomainURL(rec), nil
}

// ListURLs возвращает все зарегистрированные URL источников
func (s *Service) ListURLs(ctx context.Context) ([]*models.URLResponse, error) {
	if !s.Ready() {
		return nil, ErrNotInitialized
	}

	result, err := s.currentStore().Select(ctx, s.cfg.URLTable, tablestore.SelectQuery{
		OrderBy: "id",
	})
	if err != nil {
		return nil, fmt.Errorf("ListURLs: select url records: %w", err)
	}

	records := make([]*domain.URLRecord, 0, len(result.Rows))
	for _, row := range result.Rows {
		records = append(records, urlRecordFromRow(row))
	}
	return models.FromDomainURLList(records), nil
}

// GetURL возвращает зарегистрированный URL источника по идентификатору
func (s *Service) GetURL(ctx context.Context, id int64) (*models.URLResponse, error) {
	if !s.Ready() {
		return nil, ErrNotInitialized
	}

	result, err := s.currentStore().Select(ctx, s.cfg.URLTable, tablestore.SelectQuery{
		Eq:    map[string]any{"id": id},
		Limit: 1,
	})
	if err != nil {
		return nil, fmt.Errorf("GetURL: select url record: %w", err)
	}
	if len(result.Rows) == 0 {
		return nil, fmt.Errorf("GetURL: id=%d: %w", id, ErrURLNotFound)
	}

	return models.FromDomainURL(urlRecordFromRow(result.Rows[0])), nil
}

// UpdateURL обновляет имя и/или статус зарегистрированного URL.
// Пустое обновление не трогает хранилище и возвращает текущую запись.
func (s *Service) UpdateURL(ctx context.Context, id int64, name *string, status *string) (*models.URLResponse, error) {
	current, err := s.GetURL(ctx, id)
	if err != nil {
		return nil, err
	}

	set := map[string]any{}
	if name != nil {
		set["name"] = *name
	}
	if status != nil {
		set["status"] = *status
	}
	if len(set) == 0 {
		return current, nil
	}

	updated, err := s.currentStore().Update(ctx, s.cfg.URLTable, set, map[string]any{"id": id})
	if err != nil {
		return nil, fmt.Errorf("UpdateURL: update url record: %w", err)
	}
	if len(updated) == 0 {
		return nil, fmt.Errorf("UpdateURL: id=%d: %w", id, ErrURLNotFound)
	}

	s.log.Info("UpdateURL: updated url id=%d", id)
	return models.FromDomainURL(urlRecordFromRow(updated[0])), nil
}

// DeleteURL удаляет зарегистрированный URL вместе со связанными записями
// бронирования
func (s *Service) DeleteURL(ctx context.Context, id int64) error {
	if _, err := s.GetURL(ctx, id); err != nil {
		return err
	}

	store := s.currentStore()
	if err := store.Delete(ctx, s.cfg.BookingTable, map[string]any{"url_id": id}); err != nil {
		return fmt.Errorf("DeleteURL: delete booking records: %w", err)
	}
	if err := store.Delete(ctx, s.cfg.URLTable, map[string]any{"id": id}); err != nil {
		return fmt.Errorf("DeleteURL: delete url record: %w", err)
	}

	s.log.Info("DeleteURL: deleted url id=%d and its booking records", id)
	return nil
}

// Close освобождает клиента хранилища.
// REST клиент не требует явного закрытия, сбрасываем состояние сервиса.
func (s *Service) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = nil
	s.initialized = false
	s.log.Info("Close: storage service closed")
}

// verifyWrite проверяет права на запись: вставляет тестовую запись
// и немедленно удаляет ее по маркерному значению провайдера
func (s *Service) verifyWrite(ctx context.Context) error {
	return s.verifyWriteWith(ctx, s.currentStore())
}

func (s *Service) verifyWriteWith(ctx context.Context, store TableStore) error {
	probe := tablestore.Row{
		"date":     "2025-01-01",
		"time":     "10:00",
		"price":    "0",
		"provider": probeProvider,
		"duration": domain.DefaultDurationMinutes,
	}

	if _, err := store.Insert(ctx, s.cfg.BookingTable, []tablestore.Row{probe}); err != nil {
		return err
	}
	if err := store.Delete(ctx, s.cfg.BookingTable, map[string]any{"provider": probeProvider}); err != nil {
		return err
	}
	return nil
}

func (s *Service) currentStore() TableStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.store
}

// swapStore атомарно замещает активного клиента хранилища.
// Замена видна всем последующим вызовам, делящим экземпляр сервиса.
func (s *Service) swapStore(store TableStore) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.store = store
}

func (s *Service) observeBatch(saved, requested int) {
	if s.metrics == nil {
		return
	}
	s.metrics.RecordsSaved.Add(float64(saved))
	s.metrics.RecordsFailed.Add(float64(requested - saved))

	switch {
	case saved == requested:
		s.metrics.BatchesTotal.WithLabelValues("ok").Inc()
	case saved > 0:
		s.metrics.BatchesTotal.WithLabelValues("partial").Inc()
	default:
		s.metrics.BatchesTotal.WithLabelValues("failed").Inc()
	}
}

// logStoreError логирует ошибку хранилища с кодом/деталями/подсказкой,
// если реализация их предоставила
func (s *Service) logStoreError(prefix string, err error, chunk, size int) {
	var se *tablestore.Error
	if errors.As(err, &se) {
		s.log.Error("%s: chunk=%d size=%d code=%s details=%q hint=%q: %s",
			prefix, chunk, size, se.Code, se.Details, se.Hint, se.Message)
		return
	}
	s.log.Error("%s: chunk=%d size=%d: %v", prefix, chunk, size, err)
}

// fallbackURLID детерминированный хеш URL, ограниченный диапазоном
// [0, fallbackIDRange)
func fallbackURLID(url string) int64 {
	h := fnv.New32a()
	_, _ = h.Write([]byte(url))
	return int64(h.Sum32() % fallbackIDRange)
}

// rowID извлекает идентификатор из строки результата.
// REST клиент возвращает числа как float64 (JSON), прямое подключение — int64.
func rowID(row tablestore.Row) (int64, bool) {
	v, ok := row["id"]
	if !ok {
		return 0, false
	}
	switch id := v.(type) {
	case int64:
		return id, true
	case int:
		return int64(id), true
	case float64:
		return int64(id), true
	default:
		return 0, false
	}
}

func urlRecordFromRow(row tablestore.Row) *domain.URLRecord {
	rec := &domain.URLRecord{Status: domain.URLStatusActive}

	if id, ok := rowID(row); ok {
		rec.ID = id
	}
	if v, ok := row["url"].(string); ok {
		rec.URL = v
	}
	if v, ok := row["name"].(string); ok && v != "" {
		rec.Name = &v
	}
	if v, ok := row["status"].(string); ok && v != "" {
		rec.Status = domain.URLStatus(v)
	}
	rec.CreatedAt = rowTime(row, "created_at")
	rec.UpdatedAt = rowTime(row, "updated_at")

	return rec
}

func rowTime(row tablestore.Row, key string) time.Time {
	switch v := row[key].(type) {
	case time.Time:
		return v
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02T15:04:05.999999", "2006-01-02 15:04:05"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t
			}
		}
	}
	return time.Time{}
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
