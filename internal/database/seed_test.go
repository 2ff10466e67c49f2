package database

import (
	"testing"

	"deadsignal/pkg/sensor"
)

func TestGhostCatalog_ContentIsPlayable(t *testing.T) {
	names := map[string]bool{}
	for _, g := range GhostCatalog {
		if names[g.Name] {
			t.Fatalf("duplicate ghost %q", g.Name)
		}
		names[g.Name] = true
		if g.Words.Len() == 0 {
			t.Errorf("%s has no spirit box words", g.Name)
		}
		if len(g.Manifestations) == 0 {
			t.Errorf("%s has no manifestations", g.Name)
		}
		for _, m := range g.Manifestations {
			if m.Probability <= 0 || m.Probability > 1 {
				t.Errorf("%s manifestation %s has probability %v", g.Name, m.Primary, m.Probability)
			}
		}
		sig := g.SpiritBox()
		if !sig.Locked(sensor.SpiritBoxKnobs{KnobA: sig.KnobA, KnobB: sig.KnobB}) {
			t.Errorf("%s cannot be tuned to its own signature", g.Name)
		}
	}
}
