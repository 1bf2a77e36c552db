package controller

import (
	"errors"

	"laserlink/internal/domain/models"
	"laserlink/pkg/linkport"
)

// NoticeLevel вид модального сообщения.
type NoticeLevel int

const (
	NoticeError NoticeLevel = iota
	NoticeWarning
)

// Notice модальное сообщение для оператора.
type Notice struct {
	Title string
	Text  string
	Level NoticeLevel
}

// NoticeFor переводит ошибку действия оператора в текст модального окна.
func NoticeFor(err error) Notice {
	var connErr *linkport.ConnectionError
	switch {
	case errors.Is(err, models.ErrAuth):
		return Notice{Title: "Auth Error", Text: "Invalid API Key!", Level: NoticeError}
	case errors.Is(err, models.ErrPortSelection):
		return Notice{Title: "Connection Failed", Text: "Please select a valid COM port first.", Level: NoticeError}
	case errors.As(err, &connErr):
		return Notice{Title: "Connection Failed", Text: err.Error(), Level: NoticeError}
	case errors.Is(err, models.ErrNotConnected):
		return Notice{Title: "Not Connected", Text: "Connect to the device first.", Level: NoticeWarning}
	case errors.Is(err, models.ErrEmptyPayload):
		return Notice{Title: "Transmit Message", Text: "Message is empty, nothing was sent.", Level: NoticeWarning}
	default:
		return Notice{Title: "Error", Text: err.Error(), Level: NoticeError}
	}
}
