package models

import (
	"time"

	"github.com/m04kA/SMC-ParserStorageService/internal/domain"
)

// Statistics статистика хранилища для эндпоинта /status
type Statistics struct {
	BookingRecords int64  `json:"booking_records"`
	URLRecords     int64  `json:"url_records"`
	Connected      bool   `json:"connected"`
	Error          string `json:"error,omitempty"`
}

// URLResponse зарегистрированный URL источника в формате API
type URLResponse struct {
	ID        int64   `json:"id"`
	URL       string  `json:"url"`
	Name      *string `json:"name,omitempty"`
	Status    string  `json:"status"`
	CreatedAt string  `json:"created_at,omitempty"`
	UpdatedAt string  `json:"updated_at,omitempty"`
}

// FromDomainURL конвертирует доменную URL запись в ответ API
func FromDomainURL(u *domain.URLRecord) *URLResponse {
	resp := &URLResponse{
		ID:     u.ID,
		URL:    u.URL,
		Name:   u.Name,
		Status: string(u.Status),
	}
	if !u.CreatedAt.IsZero() {
		resp.CreatedAt = u.CreatedAt.Format(time.RFC3339)
	}
	if !u.UpdatedAt.IsZero() {
		resp.UpdatedAt = u.UpdatedAt.Format(time.RFC3339)
	}
	return resp
}

// FromDomainURLList конвертирует список доменных URL записей
func FromDomainURLList(urls []*domain.URLRecord) []*URLResponse {
	result := make([]*URLResponse, 0, len(urls))
	for _, u := range urls {
		result = append(result, FromDomainURL(u))
	}
	return result
}
