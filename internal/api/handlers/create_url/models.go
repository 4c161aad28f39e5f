package create_url

// CreateURLRequest запрос на регистрацию URL источника
type CreateURLRequest struct {
	URL  string  `json:"url"`
	Name *string `json:"name,omitempty"`
}
