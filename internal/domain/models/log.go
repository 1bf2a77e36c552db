package models

import (
	"fmt"
	"time"
)

// TimestampLayout формат метки времени в журнале (локальное время).
const TimestampLayout = "15:04:05"

// LogEntry одна строка журнала оператора.
type LogEntry struct {
	Time time.Time
	Text string
}

// String возвращает строку в виде "[HH:MM:SS] text".
func (e LogEntry) String() string {
	return fmt.Sprintf("[%s] %s", e.Time.Format(TimestampLayout), e.Text)
}
