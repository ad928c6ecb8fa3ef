package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.uber.org/multierr"
)

// SetupPrometheus creates the registry served on the metrics endpoint: build info,
// go runtime and process collectors plus any extra ones (e.g. the db pool collector).
func SetupPrometheus(extra ...prometheus.Collector) (*prometheus.Registry, error) {
	promRegistry := prometheus.NewRegistry()

	promRegistry.MustRegister(
		collectors.NewBuildInfoCollector(),
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	var err error
	for i, c := range extra {
		if rErr := promRegistry.Register(c); rErr != nil {
			err = multierr.Append(err, fmt.Errorf("register extra collector %d: %w", i, rErr))
		}
	}

	return promRegistry, err
}
