package worldstage

import (
	"sync/atomic"
)

type Stage string

const (
	Created      Stage = "Created"      // The world exists but has not been handed to the execution loop
	Registered   Stage = "Registered"   // The world has been registered with the execution loop exactly once
	Running      Stage = "Running"      // The execution loop is ticking this world
	ShuttingDown Stage = "ShuttingDown" // The world received a shutdown signal
	ShutDown     Stage = "ShutDown"     // The world's loop has exited
)

type Manager struct {
	current *atomic.Value
}

func NewManager() *Manager {
	m := &Manager{
		current: &atomic.Value{},
	}
	m.Store(Created)
	return m
}

func (m *Manager) CompareAndSwap(oldStage, newStage Stage) (swapped bool) {
	return m.current.CompareAndSwap(oldStage, newStage)
}

func (m *Manager) Current() Stage {
	return m.current.Load().(Stage)
}

func (m *Manager) Store(val Stage) {
	m.current.Store(val)
}

func (m *Manager) Swap(newStage Stage) (oldStage Stage) {
	return m.current.Swap(newStage).(Stage)
}
