package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"

	_ "github.com/dh85/SpotifyWebAPI-sub002/pkg/client"
)

func TestRegistry(t *testing.T) {
	if Registry == nil {
		t.Error("Registry should not be nil")
	}

	if Registry != prometheus.DefaultRegisterer {
		t.Error("Registry should be the default Prometheus registerer")
	}
}

func TestLibraryMetricsRegistered(t *testing.T) {
	// Importing pkg/client registers its metrics via promauto; gathering
	// from the default registry must surface them.
	families, err := prometheus.DefaultGatherer.Gather()
	if err != nil {
		t.Fatalf("Gather failed: %v", err)
	}

	for _, mf := range families {
		if strings.HasPrefix(mf.GetName(), "spotify_") {
			return
		}
	}
	t.Error("no spotify_ metrics registered on the default registry")
}
