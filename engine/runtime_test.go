package engine

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/hexlade/multiworld/assert"
	"github.com/hexlade/multiworld/system"
	"github.com/hexlade/multiworld/worldstage"
)

type stubWorld struct {
	id      string
	name    string
	systems []system.Entry
	logger  zerolog.Logger
	stage   *worldstage.Manager
}

func newStubWorld(id string, systems ...system.Entry) *stubWorld {
	return &stubWorld{
		id:      id,
		name:    "stub-" + id,
		systems: systems,
		logger:  zerolog.Nop(),
		stage:   worldstage.NewManager(),
	}
}

func (w *stubWorld) InstanceID() string         { return w.id }
func (w *stubWorld) Name() string               { return w.name }
func (w *stubWorld) Systems() []system.Entry    { return w.systems }
func (w *stubWorld) Logger() *zerolog.Logger    { return &w.logger }
func (w *stubWorld) Stage() *worldstage.Manager { return w.stage }

func TestRegisterWorldExactlyOnce(t *testing.T) {
	r := NewRuntime(system.NewRegistry())
	w := newStubWorld("w1")

	assert.NilError(t, r.RegisterWorld(w))
	assert.Equal(t, worldstage.Registered, w.Stage().Current())

	err := r.RegisterWorld(w)
	assert.IsError(t, err, "registering the same world twice must fail")
	assert.Len(t, r.Worlds(), 1)
}

func TestRuntimeTicksRegisteredWorld(t *testing.T) {
	var ran atomic.Uint64
	counter := system.Entry{
		ID:    "test.counter",
		Name:  "CounterSystem",
		Stage: system.StageSimulation,
		Run: func(system.Context) error {
			ran.Add(1)
			return nil
		},
	}

	tickCh := make(chan time.Time, 3)
	tickDone := make(chan uint64)
	r := NewRuntime(system.NewRegistry(), WithTickChannel(tickCh), WithTickDoneChannel(tickDone))

	w := newStubWorld("w1", counter)
	assert.NilError(t, r.RegisterWorld(w))
	assert.NilError(t, r.Start())

	for i := 0; i < 3; i++ {
		tickCh <- time.Now()
		<-tickDone
	}
	r.Shutdown()

	assert.Equal(t, uint64(3), ran.Load())
	assert.Equal(t, worldstage.ShutDown, w.Stage().Current())
}

func TestSystemErrorStopsWorldLoop(t *testing.T) {
	failing := system.Entry{
		ID:    "test.failing",
		Name:  "FailingSystem",
		Stage: system.StageSimulation,
		Run: func(system.Context) error {
			return assertableErr
		},
	}

	tickCh := make(chan time.Time, 1)
	r := NewRuntime(system.NewRegistry(), WithTickChannel(tickCh))

	w := newStubWorld("w1", failing)
	assert.NilError(t, r.RegisterWorld(w))
	assert.NilError(t, r.Start())

	tickCh <- time.Now()
	waitForStage(t, w.Stage(), worldstage.ShutDown)
	r.Shutdown()
}

func TestStartTwiceFails(t *testing.T) {
	r := NewRuntime(system.NewRegistry())
	assert.NilError(t, r.Start())
	assert.IsError(t, r.Start())
	r.Shutdown()
}

var assertableErr = errTick{}

type errTick struct{}

func (errTick) Error() string { return "tick error" }

func waitForStage(t *testing.T, m *worldstage.Manager, want worldstage.Stage) {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if m.Current() == want {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("world never reached stage %s (current: %s)", want, m.Current())
}
