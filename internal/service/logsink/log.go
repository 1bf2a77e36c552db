// Package logsink хранит журнал оператора: отправленные команды и строки от устройства.
package logsink

import (
	"sync"
	"time"

	"laserlink/internal/domain/models"
)

// Log журнал только на добавление. Размер не ограничен, на диск не пишется.
type Log struct {
	mu          sync.Mutex
	now         func() time.Time
	entries     []models.LogEntry
	subscribers []func(models.LogEntry)
}

// New создаёт журнал с локальным временем.
func New() *Log {
	return NewWithClock(time.Now)
}

// NewWithClock создаёт журнал с заданными часами (для тестов).
func NewWithClock(now func() time.Time) *Log {
	return &Log{now: now}
}

// Append добавляет запись с текущим временем и уведомляет подписчиков.
func (l *Log) Append(text string) models.LogEntry {
	l.mu.Lock()
	entry := models.LogEntry{Time: l.now().Local(), Text: text}
	l.entries = append(l.entries, entry)
	subs := make([]func(models.LogEntry), len(l.subscribers))
	copy(subs, l.subscribers)
	l.mu.Unlock()

	for _, fn := range subs {
		fn(entry)
	}
	return entry
}

// Subscribe регистрирует обработчик новых записей. Окно по нему прокручивает журнал вниз.
func (l *Log) Subscribe(fn func(models.LogEntry)) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.subscribers = append(l.subscribers, fn)
}

// Entries копия всех записей по порядку.
func (l *Log) Entries() []models.LogEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]models.LogEntry(nil), l.entries...)
}

// Lines записи в виде "[HH:MM:SS] text".
func (l *Log) Lines() []string {
	entries := l.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.String()
	}
	return out
}

// Texts только тексты записей, без времени.
func (l *Log) Texts() []string {
	entries := l.Entries()
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Text
	}
	return out
}

// Len количество записей.
func (l *Log) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.entries)
}
