package tablestore

import (
	"errors"
	"fmt"
	"strings"
)

// Error ошибка табличного хранилища с деталями, которые возвращает PostgREST
// (code/details/hint могут быть пустыми для других реализаций)
type Error struct {
	Code    string
	Message string
	Details string
	Hint    string
}

func (e *Error) Error() string {
	if e.Code != "" {
		return fmt.Sprintf("tablestore: [%s] %s", e.Code, e.Message)
	}
	return fmt.Sprintf("tablestore: %s", e.Message)
}

// IsAccessDenied определяет, отклонена ли операция политикой доступа (RLS/GRANT).
// Именно эти ошибки запускают протокол восстановления прав.
func IsAccessDenied(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		if se.Code == "42501" || se.Code == "PGRST301" || se.Code == "401" || se.Code == "403" {
			return true
		}
	}
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "permission denied") ||
		strings.Contains(msg, "row-level security")
}

// IsNotFound определяет, отсутствует ли таблица (или отношение) в хранилище
func IsNotFound(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		if se.Code == "42P01" || se.Code == "404" || se.Code == "PGRST205" {
			return true
		}
	}
	if err == nil {
		return false
	}
	msg := strings.ToLower(err.Error())
	return strings.Contains(msg, "not found") ||
		strings.Contains(msg, "does not exist")
}

// IsInvalidData определяет, отклонена ли конкретная запись из-за формата данных.
// Такие ошибки изолируются на уровне записи и не прерывают пакет.
func IsInvalidData(err error) bool {
	var se *Error
	if errors.As(err, &se) {
		// 22xxx — data exception, 23xxx — integrity constraint violation
		if strings.HasPrefix(se.Code, "22") || strings.HasPrefix(se.Code, "23") {
			return true
		}
	}
	if err == nil {
		return false
	}
	return strings.Contains(strings.ToLower(err.Error()), "invalid")
}
