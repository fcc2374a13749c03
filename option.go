package multiworld

import (
	"github.com/rs/zerolog"

	"github.com/hexlade/multiworld/engine"
)

// BootstrapOption augments how a Bootstrap is constructed.
type BootstrapOption func(b *Bootstrap)

// WithEngine sets the execution engine the bootstrap registers worlds with.
// The default is an in-process Runtime over the stock system catalogs.
func WithEngine(reg engine.Registry) BootstrapOption {
	return func(b *Bootstrap) {
		b.engine = reg
	}
}

// WithConfig supplies the resolved configuration directly, bypassing the
// environment resolver. Tests use this for fine-grained control over the
// role selection.
func WithConfig(cfg ResolvedConfig) BootstrapOption {
	return func(b *Bootstrap) {
		b.cfg = cfg
		b.cfgSet = true
	}
}

// WithCapabilities declares which roles this host build can satisfy. The
// default allows both client and server worlds.
func WithCapabilities(caps Capabilities) BootstrapOption {
	return func(b *Bootstrap) {
		b.caps = caps
	}
}

// WithLogger sets the base logger; worlds derive their sub-loggers from it.
func WithLogger(logger zerolog.Logger) BootstrapOption {
	return func(b *Bootstrap) {
		b.logger = logger
	}
}
