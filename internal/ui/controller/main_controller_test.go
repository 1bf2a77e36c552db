package controller

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"laserlink/internal/domain/models"
	"laserlink/internal/infrastructure/logger"
	"laserlink/internal/infrastructure/serialport"
	"laserlink/internal/service/auth"
	"laserlink/internal/service/connection"
	"laserlink/internal/service/logsink"
	"laserlink/internal/ui/viewmodel"
	"laserlink/pkg/linkport"
)

const testKey = "bench-key"

type fixture struct {
	ctrl    *MainController
	em      *serialport.Emulator
	conn    *connection.ConnectionService
	journal *logsink.Log
}

func newFixture(t *testing.T, portNames ...string) *fixture {
	t.Helper()
	em := serialport.NewEmulator(portNames...)
	em.SetReply(nil)
	log := logger.Discard()
	conn := connection.NewConnectionService(em, em, linkport.Config{ReadTimeout: 20 * time.Millisecond}, log)
	journal := logsink.New()
	ctrl := NewMainController(viewmodel.NewMainViewModel(), auth.NewGate(auth.ExactKey(testKey)), conn, journal, log)
	ctrl.Initialize()
	t.Cleanup(ctrl.Shutdown)
	return &fixture{ctrl: ctrl, em: em, conn: conn, journal: journal}
}

func waitForTexts(t *testing.T, journal *logsink.Log, want []string) {
	t.Helper()
	assert.Eventually(t, func() bool {
		got := journal.Texts()
		if len(got) < len(want) {
			return false
		}
		tail := got[len(got)-len(want):]
		for i := range want {
			if tail[i] != want[i] {
				return false
			}
		}
		return true
	}, 2*time.Second, 5*time.Millisecond, "journal: %v", journal.Texts())
}

func TestInitializeDoesNotLog(t *testing.T) {
	f := newFixture(t, "COM3", "COM4")

	vm := f.ctrl.ViewModel()
	assert.Equal(t, []string{"COM3", "COM4"}, vm.Ports.Items)
	assert.Equal(t, "COM3", vm.Ports.Selected)
	assert.Zero(t, f.journal.Len())
}

func TestRefreshPortsResetsSelection(t *testing.T) {
	f := newFixture(t, "COM3", "COM4")
	f.ctrl.SelectPort("COM4")
	require.Equal(t, "COM4", f.ctrl.ViewModel().Ports.Selected)

	f.em.SetPorts("COM5", "COM6")
	f.ctrl.RefreshPorts()

	vm := f.ctrl.ViewModel()
	assert.Equal(t, []string{"COM5", "COM6"}, vm.Ports.Items)
	assert.Equal(t, "COM5", vm.Ports.Selected)
	assert.Equal(t, []string{"[Ports refreshed]"}, f.journal.Texts())
}

func TestWrongKeyNeverOpensSession(t *testing.T) {
	f := newFixture(t, "COM3")

	for _, key := range []string{"", "ABC123", "bench-key ", "BENCH-KEY"} {
		err := f.ctrl.Connect(key)
		assert.ErrorIs(t, err, models.ErrAuth)
		assert.Nil(t, f.em.Port("COM3"), "no port opened for key %q", key)
	}
	assert.False(t, f.conn.IsConnected())
	assert.Zero(t, f.journal.Len())
}

func TestNoPortsSentinelRejected(t *testing.T) {
	f := newFixture(t)

	vm := f.ctrl.ViewModel()
	assert.Equal(t, []string{models.NoPortsSentinel}, vm.Ports.Items)

	err := f.ctrl.Connect(testKey)
	assert.ErrorIs(t, err, models.ErrPortSelection)
	assert.False(t, f.conn.IsConnected())
}

func TestConnectFailureSurfacesPlatformMessage(t *testing.T) {
	f := newFixture(t, "COM3")
	f.em.FailOpen("COM3", errors.New("Access is denied."))

	err := f.ctrl.Connect(testKey)
	require.Error(t, err)
	n := NoticeFor(err)
	assert.Equal(t, "Connection Failed", n.Title)
	assert.Contains(t, n.Text, "Access is denied.")
	assert.Equal(t, "Status: Disconnected", f.ctrl.ViewModel().StatusText)
}

func TestConnectUpdatesStatus(t *testing.T) {
	f := newFixture(t, "COM3")
	updates := 0
	f.ctrl.SetOnUpdate(func() { updates++ })

	require.NoError(t, f.ctrl.Connect(testKey))

	vm := f.ctrl.ViewModel()
	assert.True(t, vm.IsConnected)
	assert.Equal(t, "Status: Connected to COM3", vm.StatusText)
	assert.Equal(t, []string{"[Connected to COM3]"}, f.journal.Texts())
	assert.Positive(t, updates)
}

func TestCommandsWhileClosedWriteNothing(t *testing.T) {
	f := newFixture(t, "COM3")

	assert.ErrorIs(t, f.ctrl.Calibrate(), models.ErrNotConnected)
	assert.ErrorIs(t, f.ctrl.Receive(), models.ErrNotConnected)
	assert.ErrorIs(t, f.ctrl.Transmit("hello"), models.ErrNotConnected)
	assert.ErrorIs(t, f.ctrl.RequireConnection(), models.ErrNotConnected)
	assert.Equal(t, NoticeWarning, NoticeFor(models.ErrNotConnected).Level)
	assert.Zero(t, f.journal.Len())

	require.NoError(t, f.ctrl.Connect(testKey))
	require.NoError(t, f.ctrl.Disconnect())
	port := f.em.Port("COM3")
	assert.Nil(t, port)
	assert.ErrorIs(t, f.ctrl.Calibrate(), models.ErrNotConnected)
}

func TestCommandsWriteExactBytes(t *testing.T) {
	f := newFixture(t, "COM3")
	require.NoError(t, f.ctrl.Connect(testKey))
	port := f.em.Port("COM3")

	require.NoError(t, f.ctrl.Calibrate())
	assert.Equal(t, "CAL\n", string(port.Written()))

	require.NoError(t, f.ctrl.Transmit("hello"))
	require.NoError(t, f.ctrl.Receive())
	assert.Equal(t, "CAL\nTX hello\nRX\n", string(port.Written()))

	assert.ErrorIs(t, f.ctrl.Transmit(""), models.ErrEmptyPayload)
	assert.ErrorIs(t, f.ctrl.Transmit("   "), models.ErrEmptyPayload)
	assert.Equal(t, "CAL\nTX hello\nRX\n", string(port.Written()))

	assert.Equal(t, []string{"[Connected to COM3]", "> CAL", "> TX hello", "> RX"}, f.journal.Texts())
}

func TestLogOrderCommandThenReply(t *testing.T) {
	f := newFixture(t, "COM3")
	require.NoError(t, f.ctrl.Connect(testKey))

	require.NoError(t, f.ctrl.Calibrate())
	time.Sleep(10 * time.Millisecond)
	require.NoError(t, f.em.Port("COM3").Inject("ACK\n"))

	waitForTexts(t, f.journal, []string{"> CAL", "ACK"})
}

func TestReconnectDropsOldSessionLines(t *testing.T) {
	f := newFixture(t, "COM3", "COM4")
	require.NoError(t, f.ctrl.Connect(testKey))
	oldPort := f.em.Port("COM3")

	f.ctrl.SelectPort("COM4")
	require.NoError(t, f.ctrl.Connect(testKey))
	assert.True(t, oldPort.IsClosed())
	assert.Error(t, oldPort.Inject("STALE\n"))

	require.NoError(t, f.em.Port("COM4").Inject("FRESH\n"))
	waitForTexts(t, f.journal, []string{"FRESH"})
	assert.NotContains(t, f.journal.Texts(), "STALE")
	assert.Equal(t, "Status: Connected to COM4", f.ctrl.ViewModel().StatusText)
}

func TestStaleGenerationIsDropped(t *testing.T) {
	f := newFixture(t, "COM3")
	require.NoError(t, f.ctrl.Connect(testKey))

	before := f.journal.Len()
	f.ctrl.deliver(f.conn.Generation()+1, "FROM THE FUTURE")
	f.ctrl.deliver(0, "NO SESSION")
	assert.Equal(t, before, f.journal.Len())

	f.ctrl.deliver(f.conn.Generation(), "CURRENT")
	assert.Equal(t, "CURRENT", f.journal.Texts()[before])
}

func TestPosterMarshalsLines(t *testing.T) {
	f := newFixture(t, "COM3")
	queue := make(chan func(), 16)
	f.ctrl.SetPoster(func(fn func()) { queue <- fn })
	require.NoError(t, f.ctrl.Connect(testKey))

	require.NoError(t, f.em.Port("COM3").Inject("PING\n"))

	select {
	case fn := <-queue:
		assert.NotContains(t, f.journal.Texts(), "PING", "line is applied only on the UI thread")
		fn()
	case <-time.After(2 * time.Second):
		t.Fatal("nothing posted")
	}
	assert.Contains(t, f.journal.Texts(), "PING")
}

func TestDisconnectLogsOnlyWhenConnected(t *testing.T) {
	f := newFixture(t, "COM3")
	require.NoError(t, f.ctrl.Disconnect())
	assert.Zero(t, f.journal.Len())

	require.NoError(t, f.ctrl.Connect(testKey))
	require.NoError(t, f.ctrl.Disconnect())
	assert.Equal(t, []string{"[Connected to COM3]", "[Disconnected from COM3]"}, f.journal.Texts())
	assert.False(t, f.ctrl.ViewModel().IsConnected)
}

func TestShutdownClosesPort(t *testing.T) {
	f := newFixture(t, "COM3")
	require.NoError(t, f.ctrl.Connect(testKey))
	port := f.em.Port("COM3")

	f.ctrl.Shutdown()
	assert.True(t, port.IsClosed())
	assert.False(t, f.conn.IsConnected())
	f.ctrl.Shutdown()
}

func TestFailedSwitchKeepsLiveSession(t *testing.T) {
	f := newFixture(t, "COM3", "COM4")
	require.NoError(t, f.ctrl.Connect(testKey))
	oldPort := f.em.Port("COM3")

	f.em.FailOpen("COM4", errors.New("Access is denied."))
	f.ctrl.SelectPort("COM4")
	err := f.ctrl.Connect(testKey)
	var connErr *linkport.ConnectionError
	require.ErrorAs(t, err, &connErr)

	assert.False(t, oldPort.IsClosed())
	assert.True(t, f.conn.IsConnected())
	vm := f.ctrl.ViewModel()
	assert.True(t, vm.IsConnected)
	assert.Equal(t, "Status: Connected to COM3", vm.StatusText)
	assert.Equal(t, []string{"[Connected to COM3]"}, f.journal.Texts())

	// строки старой сессии по-прежнему доходят до журнала
	require.NoError(t, oldPort.Inject("STILL HERE\n"))
	waitForTexts(t, f.journal, []string{"STILL HERE"})
	require.NoError(t, f.ctrl.Calibrate())
	assert.Equal(t, "CAL\n", string(oldPort.Written()))
}

func TestFailedReconnectToSamePortLogsDisconnect(t *testing.T) {
	f := newFixture(t, "COM3")
	require.NoError(t, f.ctrl.Connect(testKey))
	oldPort := f.em.Port("COM3")

	f.em.FailOpen("COM3", errors.New("Access is denied."))
	require.Error(t, f.ctrl.Connect(testKey))

	assert.True(t, oldPort.IsClosed())
	assert.False(t, f.conn.IsConnected())
	assert.Equal(t, "Status: Disconnected", f.ctrl.ViewModel().StatusText)
	assert.Equal(t, []string{"[Connected to COM3]", "[Disconnected from COM3]"}, f.journal.Texts())
}

func TestSwitchPortLogsDisconnect(t *testing.T) {
	f := newFixture(t, "COM3", "COM4")
	require.NoError(t, f.ctrl.Connect(testKey))

	f.ctrl.SelectPort("COM4")
	require.NoError(t, f.ctrl.Connect(testKey))
	assert.Equal(t, []string{"[Connected to COM3]", "[Disconnected from COM3]", "[Connected to COM4]"}, f.journal.Texts())

	require.NoError(t, f.ctrl.Connect(testKey))
	assert.Equal(t, []string{
		"[Connected to COM3]", "[Disconnected from COM3]", "[Connected to COM4]",
		"[Disconnected from COM4]", "[Connected to COM4]",
	}, f.journal.Texts())
}
