package command

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laserlink/internal/domain/models"
	"laserlink/internal/service/logsink"
)

type fakeLink struct {
	connected bool
	written   []byte
	err       error
}

func (f *fakeLink) IsConnected() bool { return f.connected }

func (f *fakeLink) WriteLine(line string) error {
	if f.err != nil {
		return f.err
	}
	f.written = append(f.written, line+"\n"...)
	return nil
}

func TestCalibrateWritesCAL(t *testing.T) {
	link := &fakeLink{connected: true}
	log := logsink.New()
	d := NewDispatcher(link, log)

	require.NoError(t, d.Calibrate())
	assert.Equal(t, []byte("CAL\n"), link.written)
	assert.Equal(t, []string{"> CAL"}, log.Texts())
}

func TestReceiveWritesRX(t *testing.T) {
	link := &fakeLink{connected: true}
	log := logsink.New()

	require.NoError(t, NewDispatcher(link, log).Receive())
	assert.Equal(t, []byte("RX\n"), link.written)
	assert.Equal(t, []string{"> RX"}, log.Texts())
}

func TestTransmit(t *testing.T) {
	link := &fakeLink{connected: true}
	log := logsink.New()
	d := NewDispatcher(link, log)

	require.NoError(t, d.Transmit("hello"))
	assert.Equal(t, []byte("TX hello\n"), link.written)

	link.written = nil
	require.NoError(t, d.Transmit("  spaced out  "))
	assert.Equal(t, []byte("TX spaced out\n"), link.written)
	assert.Equal(t, []string{"> TX hello", "> TX spaced out"}, log.Texts())
}

func TestTransmitRejectsBlankPayload(t *testing.T) {
	link := &fakeLink{connected: true}
	log := logsink.New()
	d := NewDispatcher(link, log)

	for _, payload := range []string{"", "   ", "\t\n"} {
		assert.ErrorIs(t, d.Transmit(payload), models.ErrEmptyPayload)
	}
	assert.Empty(t, link.written)
	assert.Zero(t, log.Len())
}

func TestCommandsWhileDisconnected(t *testing.T) {
	link := &fakeLink{}
	log := logsink.New()
	d := NewDispatcher(link, log)

	assert.ErrorIs(t, d.Calibrate(), models.ErrNotConnected)
	assert.ErrorIs(t, d.Receive(), models.ErrNotConnected)
	assert.ErrorIs(t, d.Transmit("hello"), models.ErrNotConnected)
	assert.ErrorIs(t, d.Transmit(""), models.ErrNotConnected)
	assert.Empty(t, link.written)
	assert.Zero(t, log.Len())
}

func TestWriteFailureIsNotLogged(t *testing.T) {
	boom := errors.New("write failed")
	link := &fakeLink{connected: true, err: boom}
	log := logsink.New()

	assert.ErrorIs(t, NewDispatcher(link, log).Calibrate(), boom)
	assert.Zero(t, log.Len())
}
