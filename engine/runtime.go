package engine

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/rotisserie/eris"
	"github.com/rs/zerolog/log"

	mwlog "github.com/hexlade/multiworld/log"
	"github.com/hexlade/multiworld/statsd"
	"github.com/hexlade/multiworld/system"
	"github.com/hexlade/multiworld/worldstage"
)

const defaultTickInterval = time.Second

var _ Registry = &Runtime{}

// Runtime is the in-process execution loop. Worlds register with it exactly
// once; once started, each world ticks independently on its own goroutine.
type Runtime struct {
	systems *system.Registry

	mu     sync.Mutex
	worlds []World
	byID   map[string]World

	tickInterval    time.Duration
	tickChannel     <-chan time.Time
	tickDoneChannel chan<- uint64

	running  atomic.Bool
	shutdown chan struct{}
	wg       sync.WaitGroup
}

func NewRuntime(systems *system.Registry, opts ...Option) *Runtime {
	r := &Runtime{
		systems:      systems,
		byID:         make(map[string]World),
		tickInterval: defaultTickInterval,
		shutdown:     make(chan struct{}),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

func (r *Runtime) GetCatalog(kind system.SimulationKind) ([]system.Entry, error) {
	return r.systems.GetCatalog(kind)
}

func (r *Runtime) Sort(entries []system.Entry) []system.Entry {
	return system.Sort(entries)
}

// RegisterWorld registers a world with the execution loop. A world can only
// ever be registered once; the Created -> Registered stage transition is the
// guard. If the loop is already running, the world starts ticking
// immediately.
func (r *Runtime) RegisterWorld(w World) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byID[w.InstanceID()]; ok {
		return eris.Errorf("world %q is already registered", w.Name())
	}
	if ok := w.Stage().CompareAndSwap(worldstage.Created, worldstage.Registered); !ok {
		return eris.Errorf("world %q is not in the Created stage: %s", w.Name(), w.Stage().Current())
	}

	r.byID[w.InstanceID()] = w
	r.worlds = append(r.worlds, w)

	if r.running.Load() {
		r.startWorldLoop(w)
	}
	return nil
}

// Worlds returns the worlds registered so far, in registration order.
func (r *Runtime) Worlds() []World {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]World, len(r.worlds))
	copy(out, r.worlds)
	return out
}

// Start begins ticking every registered world. Worlds registered after Start
// begin ticking as they arrive.
func (r *Runtime) Start() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if !r.running.CompareAndSwap(false, true) {
		return eris.New("runtime has already been started")
	}
	log.Info().Int("worlds", len(r.worlds)).Msg("Execution loop started")
	for _, w := range r.worlds {
		r.startWorldLoop(w)
	}
	return nil
}

// Shutdown stops all world loops and blocks until they have exited.
func (r *Runtime) Shutdown() {
	if !r.running.CompareAndSwap(true, false) {
		return
	}
	log.Info().Msg("Shutting down execution loop.")
	close(r.shutdown)
	r.wg.Wait()
	log.Info().Msg("Execution loop shut down.")
}

func (r *Runtime) startWorldLoop(w World) {
	r.wg.Add(1)
	go r.runWorld(w)
}

func (r *Runtime) runWorld(w World) {
	defer r.wg.Done()

	tickCh := r.tickChannel
	if tickCh == nil {
		ticker := time.NewTicker(r.tickInterval)
		defer ticker.Stop()
		tickCh = ticker.C
	}

	w.Stage().Store(worldstage.Running)
	w.Logger().Info().Msg("World loop started")

	var tick uint64
loop:
	for {
		select {
		case _, ok := <-tickCh:
			if !ok {
				w.Logger().Error().Msg("tick channel closed; stopping world loop")
				break loop
			}
			if err := r.doTick(w, tick); err != nil {
				w.Logger().Error().Msgf("tick failed: %s", eris.ToString(err, true))
				break loop
			}
			tick++
			if r.tickDoneChannel != nil {
				r.tickDoneChannel <- tick
			}
		case <-r.shutdown:
			w.Stage().Store(worldstage.ShuttingDown)
			break loop
		}
	}
	w.Stage().Store(worldstage.ShutDown)
	w.Logger().Info().Msg("World loop stopped")
}

// doTick runs the world's systems in catalog order. The system set is
// immutable after registration, so no locking is needed here.
func (r *Runtime) doTick(w World, tick uint64) error {
	startTime := time.Now()
	for _, entry := range w.Systems() {
		sysLogger := mwlog.CreateSystemLogger(w.Logger(), entry.Name)
		err := entry.Run(system.Context{Tick: tick, Logger: sysLogger})
		if err != nil {
			return eris.Wrapf(err, "system %s generated an error", entry.Name)
		}
	}
	statsd.EmitTickStat(startTime, w.Name())
	return nil
}
