package pg

import (
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-ParserStorageService/internal/infra/tablestore"
)

func TestBuildSelect(t *testing.T) {
	tests := []struct {
		name     string
		query    tablestore.SelectQuery
		wantSQL  string
		wantArgs []any
	}{
		{
			name:     "all columns without filters",
			query:    tablestore.SelectQuery{},
			wantSQL:  "SELECT * FROM booking_data",
			wantArgs: nil,
		},
		{
			name: "columns, eq filter and limit",
			query: tablestore.SelectQuery{
				Columns: []string{"id", "url"},
				Eq:      map[string]any{"url": "https://example.com"},
				Limit:   1,
			},
			wantSQL:  "SELECT id, url FROM booking_data WHERE url = $1 LIMIT 1",
			wantArgs: []any{"https://example.com"},
		},
		{
			name: "descending order renders postgres syntax",
			query: tablestore.SelectQuery{
				OrderBy:    "id",
				Descending: true,
				Limit:      100,
				Offset:     5,
			},
			wantSQL:  "SELECT * FROM booking_data ORDER BY id DESC LIMIT 100 OFFSET 5",
			wantArgs: nil,
		},
		{
			name:     "ascending order by default",
			query:    tablestore.SelectQuery{OrderBy: "id"},
			wantSQL:  "SELECT * FROM booking_data ORDER BY id ASC",
			wantArgs: nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sql, args, err := buildSelect("booking_data", tt.query)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSQL, sql)
			if tt.wantArgs == nil {
				assert.Empty(t, args)
			} else {
				assert.Equal(t, tt.wantArgs, args)
			}
		})
	}
}

func TestBuildCount(t *testing.T) {
	sql, args, err := buildCount("urls", tablestore.SelectQuery{Eq: map[string]any{"status": "active"}})

	require.NoError(t, err)
	assert.Equal(t, "SELECT COUNT(*) FROM urls WHERE status = $1", sql)
	assert.Equal(t, []any{"active"}, args)
}

func TestBuildInsert_SortsColumnsDeterministically(t *testing.T) {
	row := tablestore.Row{
		"provider": "P",
		"date":     "2025-08-15",
		"price":    "450",
	}

	sql, args, err := buildInsert("booking_data", row)

	require.NoError(t, err)
	assert.Equal(t, "INSERT INTO booking_data (date,price,provider) VALUES ($1,$2,$3) RETURNING id", sql)
	assert.Equal(t, []any{"2025-08-15", "450", "P"}, args)
}

func TestBuildUpdate(t *testing.T) {
	sql, args, err := buildUpdate("urls",
		map[string]any{"status": "paused"},
		map[string]any{"id": int64(7)},
	)

	require.NoError(t, err)
	assert.Equal(t, "UPDATE urls SET status = $1 WHERE id = $2 RETURNING *", sql)
	assert.Equal(t, []any{"paused", int64(7)}, args)
}

func TestWrapPQ(t *testing.T) {
	pqErr := &pq.Error{
		Code:    "42501",
		Message: "permission denied for table booking_data",
		Detail:  "policy violation",
		Hint:    "use service_role",
	}

	err := wrapPQ(pqErr)

	var se *tablestore.Error
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "42501", se.Code)
	assert.Equal(t, "permission denied for table booking_data", se.Message)
	assert.Equal(t, "policy violation", se.Details)
	assert.Equal(t, "use service_role", se.Hint)
	assert.True(t, tablestore.IsAccessDenied(err))
}

func TestWrapPQ_PlainErrorKeepsMessage(t *testing.T) {
	err := wrapPQ(errors.New("driver: bad connection"))

	var se *tablestore.Error
	require.ErrorAs(t, err, &se)
	assert.Empty(t, se.Code)
	assert.Equal(t, "driver: bad connection", se.Message)
}
