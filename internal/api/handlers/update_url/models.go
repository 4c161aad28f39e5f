package update_url

// UpdateURLRequest запрос на обновление URL источника.
// Отсутствующие поля не изменяются.
type UpdateURLRequest struct {
	Name   *string `json:"name,omitempty"`
	Status *string `json:"status,omitempty"`
}
