package storage

import "errors"

var (
	// ErrNotConfigured возвращается, когда не заданы endpoint или ключ доступа.
	// Единственная конфигурационная ошибка, которая поднимается до вызывающего.
	ErrNotConfigured = errors.New("storage.service: endpoint URL or access key is not configured")

	// ErrConnection возвращается при ошибке установки соединения с хранилищем
	ErrConnection = errors.New("storage.service: failed to establish store connection")

	// ErrNotInitialized возвращается при обращении к сервису до Initialize
	ErrNotInitialized = errors.New("storage.service: service is not initialized")

	// ErrURLNotFound возвращается, когда URL запись не найдена
	ErrURLNotFound = errors.New("storage.service: url record not found")
)
