package rest

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/m04kA/SMC-ParserStorageService/internal/infra/tablestore"
)

// Client клиент Supabase PostgREST, реализует tablestore.Store.
// Supabase не требует отдельного SDK: REST слой — это обычный PostgREST
// с аутентификацией по ключу в заголовках apikey/Authorization.
type Client struct {
	baseURL    string
	key        string
	privileged bool
	httpClient *http.Client
	log        Logger
}

// NewClient создает нового клиента PostgREST
func NewClient(baseURL string, key string, timeout time.Duration, log Logger) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		key:     key,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		log: log,
	}
}

// NewPrivilegedClient создает клиента с ключом service_role.
// Такой клиент обходит политики RLS, если роль service_role имеет права на таблицы.
func NewPrivilegedClient(baseURL string, serviceKey string, timeout time.Duration, log Logger) *Client {
	c := NewClient(baseURL, serviceKey, timeout, log)
	c.privileged = true
	return c
}

// Privileged возвращает true для клиента с ключом service_role
func (c *Client) Privileged() bool {
	return c.privileged
}

// Select выполняет выборку из таблицы
func (c *Client) Select(ctx context.Context, table string, q tablestore.SelectQuery) (*tablestore.SelectResult, error) {
	params := url.Values{}
	if len(q.Columns) > 0 {
		params.Set("select", strings.Join(q.Columns, ","))
	} else {
		params.Set("select", "*")
	}
	for col, val := range q.Eq {
		params.Set(col, fmt.Sprintf("eq.%v", val))
	}
	if q.Limit > 0 {
		params.Set("limit", strconv.Itoa(q.Limit))
	}
	if q.Offset > 0 {
		params.Set("offset", strconv.Itoa(q.Offset))
	}
	if q.OrderBy != "" {
		direction := "asc"
		if q.Descending {
			direction = "desc"
		}
		params.Set("order", q.OrderBy+"."+direction)
	}

	req, err := c.newRequest(ctx, http.MethodGet, table, params, nil)
	if err != nil {
		return nil, err
	}
	if q.Count {
		req.Header.Set("Prefer", "count=exact")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: Select - execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var rows []tablestore.Row
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("%w: Select - decode response: %v", ErrInvalidResponse, err)
	}

	result := &tablestore.SelectResult{Rows: rows}
	if q.Count {
		result.Count = parseContentRangeTotal(resp.Header.Get("Content-Range"))
	}
	return result, nil
}

// Insert вставляет одну или несколько строк и возвращает вставленные записи
func (c *Client) Insert(ctx context.Context, table string, rows []tablestore.Row) ([]tablestore.Row, error) {
	body, err := json.Marshal(rows)
	if err != nil {
		return nil, fmt.Errorf("%w: Insert - marshal rows: %v", ErrInternal, err)
	}

	req, err := c.newRequest(ctx, http.MethodPost, table, nil, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: Insert - execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var inserted []tablestore.Row
	if err := json.NewDecoder(resp.Body).Decode(&inserted); err != nil {
		return nil, fmt.Errorf("%w: Insert - decode response: %v", ErrInvalidResponse, err)
	}
	return inserted, nil
}

// Update обновляет строки по фильтру равенства и возвращает обновленные записи
func (c *Client) Update(ctx context.Context, table string, set map[string]any, eq map[string]any) ([]tablestore.Row, error) {
	body, err := json.Marshal(set)
	if err != nil {
		return nil, fmt.Errorf("%w: Update - marshal set: %v", ErrInternal, err)
	}

	params := url.Values{}
	for col, val := range eq {
		params.Set(col, fmt.Sprintf("eq.%v", val))
	}

	req, err := c.newRequest(ctx, http.MethodPatch, table, params, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Prefer", "return=representation")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: Update - execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	if err := c.checkStatus(resp); err != nil {
		return nil, err
	}

	var updated []tablestore.Row
	if err := json.NewDecoder(resp.Body).Decode(&updated); err != nil {
		return nil, fmt.Errorf("%w: Update - decode response: %v", ErrInvalidResponse, err)
	}
	return updated, nil
}

// Delete удаляет строки по фильтру равенства
func (c *Client) Delete(ctx context.Context, table string, eq map[string]any) error {
	params := url.Values{}
	for col, val := range eq {
		params.Set(col, fmt.Sprintf("eq.%v", val))
	}

	req, err := c.newRequest(ctx, http.MethodDelete, table, params, nil)
	if err != nil {
		return err
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("%w: Delete - execute request: %v", ErrInternal, err)
	}
	defer resp.Body.Close()

	return c.checkStatus(resp)
}

func (c *Client) newRequest(ctx context.Context, method, table string, params url.Values, body io.Reader) (*http.Request, error) {
	endpoint := fmt.Sprintf("%s/rest/v1/%s", c.baseURL, table)
	if len(params) > 0 {
		endpoint += "?" + params.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create request: %v", ErrInternal, err)
	}

	req.Header.Set("apikey", c.key)
	req.Header.Set("Authorization", "Bearer "+c.key)
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// checkStatus преобразует неуспешный HTTP ответ в *tablestore.Error
// с кодом/деталями/подсказкой из тела PostgREST
func (c *Client) checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}

	raw, _ := io.ReadAll(resp.Body)

	var body struct {
		Code    string `json:"code"`
		Message string `json:"message"`
		Details string `json:"details"`
		Hint    string `json:"hint"`
	}
	if err := json.Unmarshal(raw, &body); err != nil || body.Message == "" {
		body.Message = strings.TrimSpace(string(raw))
		if body.Message == "" {
			body.Message = http.StatusText(resp.StatusCode)
		}
	}
	if body.Code == "" {
		body.Code = strconv.Itoa(resp.StatusCode)
	}

	return &tablestore.Error{
		Code:    body.Code,
		Message: body.Message,
		Details: body.Details,
		Hint:    body.Hint,
	}
}

// parseContentRangeTotal извлекает общее число строк из заголовка
// Content-Range вида "0-24/3573" ("*/0" для пустой таблицы)
func parseContentRangeTotal(header string) int64 {
	idx := strings.LastIndex(header, "/")
	if idx < 0 {
		return 0
	}
	total, err := strconv.ParseInt(header[idx+1:], 10, 64)
	if err != nil {
		return 0
	}
	return total
}
