package models

import "errors"

// Общие ошибки доменного уровня. Репозитории и сервисы возвращают их
// через errors.Is, обработчики маппят на HTTP-статусы.
var (
	ErrNotFound       = errors.New("item not found")
	ErrUnauthorized   = errors.New("unauthorized")
	ErrEmptyContent   = errors.New("content cannot be empty")
	ErrCorruptedData  = errors.New("creation content is corrupted")
	ErrUnknownType    = errors.New("unknown creation type")
	ErrAlreadyExists  = errors.New("item already exists")
	ErrProfileMissing = errors.New("user profile not found")
)
