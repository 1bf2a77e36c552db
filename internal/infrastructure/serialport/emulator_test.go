package serialport

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laserlink/internal/domain/ports"
	"laserlink/pkg/linkport"
)

func TestEmulatorListAndOpen(t *testing.T) {
	em := NewEmulator("COM3", "COM4")
	assert.Equal(t, []string{"COM3", "COM4"}, em.ListPorts())

	p, err := em.Open("COM3", linkport.Mode{BaudRate: 9600})
	require.NoError(t, err)
	assert.Equal(t, 9600, em.Port("COM3").BaudRate())

	_, err = em.Open("COM3", linkport.Mode{BaudRate: 9600})
	assert.ErrorIs(t, err, ErrPortBusy)

	_, err = em.Open("COM9", linkport.Mode{BaudRate: 9600})
	assert.ErrorIs(t, err, ErrPortNotFound)

	require.NoError(t, p.Close())
	assert.Nil(t, em.Port("COM3"))

	_, err = em.Open("COM3", linkport.Mode{BaudRate: 9600})
	assert.NoError(t, err, "closed port can be reopened")
}

func TestEmulatorFailOpen(t *testing.T) {
	em := NewEmulator("COM3")
	denied := errors.New("access denied")
	em.FailOpen("COM3", denied)

	_, err := em.Open("COM3", linkport.Mode{})
	assert.ErrorIs(t, err, denied)
}

func TestEmulatedPortReadTimeout(t *testing.T) {
	em := NewEmulator("COM3")
	p, err := em.Open("COM3", linkport.Mode{})
	require.NoError(t, err)
	require.NoError(t, p.SetReadTimeout(20*time.Millisecond))

	buf := make([]byte, 8)
	start := time.Now()
	n, err := p.Read(buf)
	assert.NoError(t, err)
	assert.Zero(t, n)
	assert.GreaterOrEqual(t, time.Since(start), 15*time.Millisecond)
}

func TestEmulatedPortSplitsLargeChunks(t *testing.T) {
	em := NewEmulator("COM3")
	p, err := em.Open("COM3", linkport.Mode{})
	require.NoError(t, err)
	require.NoError(t, em.Port("COM3").Inject("abcdef"))

	buf := make([]byte, 4)
	n, err := p.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "abcd", string(buf[:n]))

	n, err = p.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "ef", string(buf[:n]))
}

func TestEmulatedPortDeviceReplies(t *testing.T) {
	em := NewEmulator("COM3")
	p, err := em.Open("COM3", linkport.Mode{})
	require.NoError(t, err)

	_, err = p.Write([]byte("TX hello\nRX\n"))
	require.NoError(t, err)
	assert.Equal(t, "TX hello\nRX\n", string(em.Port("COM3").Written()))

	buf := make([]byte, 64)
	n, err := p.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "TX OK\r\n", string(buf[:n]))
	n, err = p.Read(buf)
	require.NoError(t, err)
	assert.Equal(t, "RX hello\r\n", string(buf[:n]))
}

func TestEmulatedPortCloseUnblocksRead(t *testing.T) {
	em := NewEmulator("COM3")
	p, err := em.Open("COM3", linkport.Mode{})
	require.NoError(t, err)
	require.NoError(t, p.SetReadTimeout(time.Minute))

	errCh := make(chan error, 1)
	go func() {
		_, err := p.Read(make([]byte, 4))
		errCh <- err
	}()

	time.Sleep(10 * time.Millisecond)
	require.NoError(t, p.Close())

	select {
	case err := <-errCh:
		assert.Error(t, err)
	case <-time.After(time.Second):
		t.Fatal("read was not unblocked by Close")
	}

	_, err = p.Write([]byte("CAL\n"))
	assert.Error(t, err)
}

func TestDeviceReplies(t *testing.T) {
	reply := DeviceReplies()
	assert.Equal(t, []string{"CAL OK"}, reply("CAL"))
	assert.Equal(t, []string{"RX EMPTY"}, reply("RX"))
	assert.Equal(t, []string{"TX OK"}, reply("TX ping"))
	assert.Equal(t, []string{"RX ping"}, reply("RX"))
	assert.Equal(t, []string{"ERR FOO"}, reply("FOO"))
}

func TestSystemImplementsPorts(t *testing.T) {
	var _ linkport.Opener = NewSystem(nil)
	var _ ports.PortLister = NewSystem(nil)
	var _ linkport.Opener = NewEmulator()
	var _ ports.PortLister = NewEmulator()
}

func TestWriteDoesNotBlockOnFullInput(t *testing.T) {
	em := NewEmulator("COM3")
	p, err := em.Open("COM3", linkport.Mode{})
	require.NoError(t, err)
	defer p.Close()

	port := em.Port("COM3")
	for i := 0; i < inboundDepth; i++ {
		require.NoError(t, port.Inject("X\n"))
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		n, err := p.Write([]byte("CAL\n"))
		assert.NoError(t, err)
		assert.Equal(t, 4, n)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Write blocked on a full input buffer")
	}
	assert.Equal(t, "CAL\n", string(port.Written()))
}
