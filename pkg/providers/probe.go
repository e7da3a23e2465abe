package providers

import (
	"context"
	"time"

	"github.com/Ramsey-B/clover/pkg/tracing"
)

// ProbeResult is one provider's outcome in a discovery sweep. A failed probe
// carries a warning instead of items and never affects its siblings.
type ProbeResult struct {
	Provider  string           `json:"provider"`
	OK        bool             `json:"ok"`
	CheckedAt time.Time        `json:"checkedAt"`
	Count     int              `json:"count,omitempty"`
	Warning   string           `json:"warning,omitempty"`
	Models    []map[string]any `json:"models,omitempty"`
}

// Probe is a single independent provider check.
type Probe struct {
	Name string
	Run  func(ctx context.Context) (int, []map[string]any, error)
}

// RunProbes executes each probe in order, collecting a tagged result per
// probe. One probe's failure never cancels the others.
func RunProbes(ctx context.Context, checkedAt time.Time, probes []Probe) []ProbeResult {
	ctx, span := tracing.StartSpan(ctx, "providers.RunProbes")
	defer span.End()

	results := make([]ProbeResult, 0, len(probes))
	for _, probe := range probes {
		count, models, err := probe.Run(ctx)
		if err != nil {
			results = append(results, ProbeResult{
				Provider:  probe.Name,
				OK:        false,
				CheckedAt: checkedAt,
				Warning:   err.Error(),
			})
			continue
		}
		results = append(results, ProbeResult{
			Provider:  probe.Name,
			OK:        true,
			CheckedAt: checkedAt,
			Count:     count,
			Models:    models,
		})
	}
	return results
}
