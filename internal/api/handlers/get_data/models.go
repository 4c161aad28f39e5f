package get_data

import "github.com/m04kA/SMC-ParserStorageService/internal/infra/tablestore"

// GetDataResponse страница сохраненных записей бронирования
type GetDataResponse struct {
	Records []tablestore.Row `json:"records"`
	Count   int              `json:"count"`
	Limit   int              `json:"limit"`
	Offset  int              `json:"offset"`
}
