package tablestore

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsAccessDenied(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"sqlstate 42501", &Error{Code: "42501", Message: "permission denied"}, true},
		{"postgrest jwt", &Error{Code: "PGRST301", Message: "JWT expired"}, true},
		{"http 401", &Error{Code: "401", Message: "Unauthorized"}, true},
		{"http 403", &Error{Code: "403", Message: "Forbidden"}, true},
		{"rls message without code", errors.New("new row violates row-level security policy"), true},
		{"plain permission message", errors.New("permission denied for table urls"), true},
		{"wrapped", fmt.Errorf("insert: %w", &Error{Code: "42501", Message: "permission denied"}), true},
		{"unrelated", &Error{Code: "23505", Message: "duplicate key"}, false},
		{"urls table mention is not rls", errors.New(`relation "urls" does not exist`), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsAccessDenied(tt.err))
		})
	}
}

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(&Error{Code: "42P01", Message: "relation does not exist"}))
	assert.True(t, IsNotFound(&Error{Code: "404", Message: "Not Found"}))
	assert.True(t, IsNotFound(&Error{Code: "PGRST205", Message: "Could not find the table"}))
	assert.True(t, IsNotFound(errors.New(`relation "public.booking_data" does not exist`)))
	assert.False(t, IsNotFound(nil))
	assert.False(t, IsNotFound(&Error{Code: "42501", Message: "permission denied"}))
}

func TestIsInvalidData(t *testing.T) {
	assert.True(t, IsInvalidData(&Error{Code: "22P02", Message: "invalid input syntax for type integer"}))
	assert.True(t, IsInvalidData(&Error{Code: "23502", Message: "null value in column"}))
	assert.False(t, IsInvalidData(nil))
	assert.False(t, IsInvalidData(&Error{Code: "42501", Message: "permission denied"}))
}

func TestErrorString(t *testing.T) {
	assert.Equal(t, "tablestore: [42501] permission denied", (&Error{Code: "42501", Message: "permission denied"}).Error())
	assert.Equal(t, "tablestore: boom", (&Error{Message: "boom"}).Error())
}
