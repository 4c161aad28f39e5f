package save_data

import "github.com/m04kA/SMC-ParserStorageService/internal/domain"

// SaveDataRequest пакет сырых записей скрапера для одного URL источника
type SaveDataRequest struct {
	URL     string             `json:"url"`
	Records []domain.RawRecord `json:"records"`
}

// SaveDataResponse результат сохранения.
// Saved=true означает "сохранена хотя бы одна запись", не "сохранены все".
type SaveDataResponse struct {
	Saved   bool   `json:"saved"`
	Message string `json:"message,omitempty"`
}
