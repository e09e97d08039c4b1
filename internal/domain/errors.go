package domain

import "errors"

// ErrCorrupted сигнализирует, что запись в хранилище не декодируется.
// Отличается от ошибок транспорта: такую запись можно только удалить.
var ErrCorrupted = errors.New("corrupted record")
