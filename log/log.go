package log

import (
	"github.com/rs/zerolog"
)

type Loggable interface {
	Name() string
	KindName() string
	GetRegisteredSystems() []string
}

func loadSystemsIntoEvent(zeroLoggerEvent *zerolog.Event, target Loggable) *zerolog.Event {
	systems := target.GetRegisteredSystems()
	zeroLoggerEvent.Int("total_systems", len(systems))
	arrayLogger := zerolog.Arr()
	for _, sysName := range systems {
		arrayLogger = arrayLogger.Str(sysName)
	}
	return zeroLoggerEvent.Array("systems", arrayLogger)
}

// World logs everything about a world: its name, role kind, and system set.
func World(logger *zerolog.Logger, target Loggable, level zerolog.Level) {
	zeroLoggerEvent := logger.WithLevel(level)
	zeroLoggerEvent = zeroLoggerEvent.Str("world", target.Name())
	zeroLoggerEvent = zeroLoggerEvent.Str("kind", target.KindName())
	zeroLoggerEvent = loadSystemsIntoEvent(zeroLoggerEvent, target)
	zeroLoggerEvent.Send()
}

// CreateWorldLogger creates a sub logger with the entry {"world": worldName}.
func CreateWorldLogger(logger *zerolog.Logger, worldName string) *zerolog.Logger {
	newLogger := logger.With().Str("world", worldName).Logger()
	return &newLogger
}

// CreateSystemLogger creates a sub logger with the entry {"system": systemName}.
func CreateSystemLogger(logger *zerolog.Logger, systemName string) *zerolog.Logger {
	newLogger := logger.With().Str("system", systemName).Logger()
	return &newLogger
}
