package multiworld

import "github.com/rotisserie/eris"

var (
	// ErrConfigResolution means the startup configuration could not be
	// resolved. No worlds are created; the process should exit non-zero.
	ErrConfigResolution = eris.New("configuration resolution failed")

	// ErrAddressParse means a configured host could not be parsed into a
	// usable endpoint. There is no valid fallback address, so the roles
	// depending on the endpoint cannot be built.
	ErrAddressParse = eris.New("address parse error")

	// ErrRoleUnavailable means the requested role is incompatible with this
	// host environment (e.g. a client world on a dedicated-server build).
	// Other roles may still proceed.
	ErrRoleUnavailable = eris.New("role unavailable in this host environment")

	// ErrCatalogRetrieval means the engine could not produce a system catalog
	// for a role. A world cannot run without systems.
	ErrCatalogRetrieval = eris.New("catalog retrieval failed")
)
