package main

import (
	storageService "github.com/m04kA/SMC-ParserStorageService/internal/service/storage"
)

// Адаптер прямого подключения обязан удовлетворять контракту сервиса хранения:
// без него каскад восстановления прав и автосоздание схемы остаются без проводки
var _ storageService.DirectConnector = directConnectorAdapter{}
