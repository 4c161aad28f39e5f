package middleware

import (
	"net/http"

	"github.com/gorilla/mux"

	"github.com/m04kA/SMC-ParserStorageService/internal/api/handlers"
)

const apiKeyHeader = "X-API-Key"

// APIKeyAuth проверяет ключ API в заголовке X-API-Key или параметре api_key.
// Пустой сконфигурированный ключ отключает проверку (локальная разработка).
func APIKeyAuth(apiKey string) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if apiKey == "" {
				next.ServeHTTP(w, r)
				return
			}

			provided := r.Header.Get(apiKeyHeader)
			if provided == "" {
				provided = r.URL.Query().Get("api_key")
			}

			if provided == "" {
				handlers.RespondUnauthorized(w, "API-ключ не предоставлен")
				return
			}
			if provided != apiKey {
				handlers.RespondForbidden(w, "недействительный API-ключ")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
