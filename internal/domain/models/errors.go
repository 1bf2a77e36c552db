package models

import "errors"

var (
	// ErrAuth введён неверный ключ доступа.
	ErrAuth = errors.New("invalid API key")
	// ErrPortSelection порт не выбран или список портов пуст.
	ErrPortSelection = errors.New("please select a valid COM port first")
	// ErrNotConnected команда отправлена без открытого соединения.
	ErrNotConnected = errors.New("connect to the device first")
	// ErrEmptyPayload пустое (после обрезки пробелов) сообщение для TX.
	ErrEmptyPayload = errors.New("message is empty")
)
