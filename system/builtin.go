package system

// Builtin generic world-configuration systems. These ship with every catalog
// so a bare world can configure its own networking, but the bootstrap always
// supersedes them with explicit role wiring: FilterCatalog removes them by ID
// before a world is built. They must never run in a bootstrapped world or the
// network configuration would be applied twice.
const (
	BuiltinConfigureClientWorld     ID = "builtin.configure_client_world"
	BuiltinConfigureServerWorld     ID = "builtin.configure_server_world"
	BuiltinConfigureThinClientWorld ID = "builtin.configure_thin_client_world"
)

// IsBuiltinConfigure reports whether id names one of the builtin generic
// world-configuration systems.
func IsBuiltinConfigure(id ID) bool {
	switch id {
	case BuiltinConfigureClientWorld, BuiltinConfigureServerWorld, BuiltinConfigureThinClientWorld:
		return true
	}
	return false
}

func noopRun(Context) error { return nil }

func builtinConfigureEntries() []Entry {
	return []Entry{
		{ID: BuiltinConfigureClientWorld, Name: "ConfigureClientWorldSystem", Stage: StageNetwork, Run: noopRun},
		{ID: BuiltinConfigureServerWorld, Name: "ConfigureServerWorldSystem", Stage: StageNetwork, Run: noopRun},
		{ID: BuiltinConfigureThinClientWorld, Name: "ConfigureThinClientWorldSystem", Stage: StageNetwork, Run: noopRun},
	}
}

// DefaultRegistry returns a registry populated with the stock catalogs: the
// builtin configure systems plus the baseline simulation and presentation
// systems for each kind. Games register their own systems on top of this.
func DefaultRegistry() *Registry {
	r := NewRegistry()

	mustRegister := func(kind SimulationKind, entries ...Entry) {
		if err := r.Register(kind, entries...); err != nil {
			panic(err)
		}
	}

	builtins := builtinConfigureEntries()

	mustRegister(SimulationClient, builtins...)
	mustRegister(SimulationClient,
		Entry{ID: "sim.client", Name: "ClientSimulationSystem", Stage: StageSimulation, Run: noopRun},
		Entry{ID: "sim.prediction", Name: "PredictionSystem", Stage: StageSimulation, Run: noopRun},
		Entry{ID: "presentation.render", Name: "PresentationSystem", Stage: StagePresentation, Run: noopRun},
	)

	mustRegister(SimulationServer, builtins...)
	mustRegister(SimulationServer,
		Entry{ID: "sim.server", Name: "ServerSimulationSystem", Stage: StageSimulation, Run: noopRun},
		Entry{ID: "sim.authority", Name: "AuthoritativeStateSystem", Stage: StageSimulation, Run: noopRun},
	)

	mustRegister(SimulationThinClient, builtins...)
	mustRegister(SimulationThinClient,
		Entry{ID: "sim.thin_client", Name: "ThinClientSimulationSystem", Stage: StageSimulation, Run: noopRun},
	)

	// The deployment catalog is the package catalog only. Ad-hoc systems a
	// game registers under other kinds are never picked up here.
	mustRegister(SimulationDeployment, builtins...)
	mustRegister(SimulationDeployment,
		Entry{ID: "deployment.heartbeat", Name: "DeploymentHeartbeatSystem", Stage: StageStartup, Run: noopRun},
	)

	return r
}
