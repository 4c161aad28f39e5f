package directdb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParserStorageService/internal/service/storage"
)

// Соединение должно проходить как storage.DirectConn без приведения типов
var _ storage.DirectConn = (*Conn)(nil)

func TestDSNFromSupabaseURL(t *testing.T) {
	dsn, err := DSNFromSupabaseURL("https://abcdefgh.supabase.co", "service-key")

	require.NoError(t, err)
	assert.Equal(t,
		"host=db.abcdefgh.supabase.co port=5432 user=postgres password=service-key dbname=postgres sslmode=require",
		dsn)
}

func TestDSNFromSupabaseURL_RejectsForeignURLs(t *testing.T) {
	for _, url := range []string{
		"",
		"https://example.com",
		"http://abcdefgh.supabase.co", // только https
		"abcdefgh.supabase.co",
	} {
		_, err := DSNFromSupabaseURL(url, "key")
		require.Error(t, err, "url=%q", url)
		assert.ErrorIs(t, err, ErrNoDSN)
	}
}
