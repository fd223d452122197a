package metrics

import (
	"fmt"
	"io"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/common/expfmt"
)

// WriteText writes every metric in the scoreboard registry to w using the
// Prometheus text exposition format.
func WriteText(w io.Writer) error {
	return writeText(w, customRegistry)
}

func writeText(w io.Writer, g prometheus.Gatherer) error {
	families, err := g.Gather()
	if err != nil {
		return fmt.Errorf("%w: gather: %w", ErrObserveFailed, err)
	}
	for _, mf := range families {
		if _, err := expfmt.MetricFamilyToText(w, mf); err != nil {
			return fmt.Errorf("%w: encode %s: %w", ErrObserveFailed, mf.GetName(), err)
		}
	}
	return nil
}
