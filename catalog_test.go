package multiworld

import (
	"strings"
	"testing"

	"github.com/hexlade/multiworld/assert"
	"github.com/hexlade/multiworld/system"
)

var denyListedNames = []string{
	"ConfigureThinClientWorldSystem",
	"ConfigureClientWorldSystem",
	"ConfigureServerWorldSystem",
}

func assertNoBuiltinConfigure(t *testing.T, entries []system.Entry) {
	t.Helper()
	for _, entry := range entries {
		assert.False(t, system.IsBuiltinConfigure(entry.ID),
			"entry %q must have been filtered out", entry.ID)
		for _, deny := range denyListedNames {
			assert.False(t, strings.Contains(entry.Name, deny),
				"entry name %q matches deny-listed %q", entry.Name, deny)
		}
	}
}

func TestFilterCatalogRemovesBuiltinsForAllRoles(t *testing.T) {
	registry := system.DefaultRegistry()
	kinds := map[WorldKind]system.SimulationKind{
		WorldKindGameClient:     system.SimulationClient,
		WorldKindGameServer:     system.SimulationServer,
		WorldKindGameThinClient: system.SimulationThinClient,
	}
	for kind, simKind := range kinds {
		catalog, err := registry.GetCatalog(simKind)
		assert.NilError(t, err)

		filtered := FilterCatalog(catalog, kind, false, NetworkEndpoint{})
		assertNoBuiltinConfigure(t, filtered)
		assert.Equal(t, len(catalog)-3, len(filtered),
			"exactly the three builtins should have been removed for %s", kind)
	}
}

func TestFilterCatalogAppendsAutoConnectAfterRemoval(t *testing.T) {
	registry := system.DefaultRegistry()
	catalog, err := registry.GetCatalog(system.SimulationClient)
	assert.NilError(t, err)

	connect := NetworkEndpoint{Host: "127.0.0.1", Port: 7979}
	filtered := FilterCatalog(catalog, WorldKindGameClient, true, connect)

	assertNoBuiltinConfigure(t, filtered)

	autoConnectCount := 0
	for _, entry := range filtered {
		if entry.ID == AutoConnectSystemID {
			autoConnectCount++
		}
	}
	assert.Equal(t, 1, autoConnectCount)
	assert.Equal(t, AutoConnectSystemID, filtered[len(filtered)-1].ID,
		"auto-connect is appended after the deny-list removal")
}

func TestFilterCatalogAlreadyFilteredIsNoop(t *testing.T) {
	catalog := []system.Entry{
		{ID: "sim.a", Name: "ASystem", Stage: system.StageSimulation},
		{ID: "sim.b", Name: "BSystem", Stage: system.StageSimulation},
	}
	filtered := FilterCatalog(catalog, WorldKindGameServer, false, NetworkEndpoint{})
	assert.Len(t, filtered, 2)

	filtered = FilterCatalog(catalog, WorldKindGameServer, true, NetworkEndpoint{Host: "127.0.0.1", Port: 1})
	assert.Len(t, filtered, 3)
}

func TestFilterCatalogDoesNotMutateInput(t *testing.T) {
	catalog := []system.Entry{
		{ID: system.BuiltinConfigureClientWorld, Name: "ConfigureClientWorldSystem", Stage: system.StageNetwork},
		{ID: "sim.a", Name: "ASystem", Stage: system.StageSimulation},
	}
	_ = FilterCatalog(catalog, WorldKindGameClient, false, NetworkEndpoint{})
	assert.Len(t, catalog, 2)
	assert.Equal(t, system.BuiltinConfigureClientWorld, catalog[0].ID)
}
