package pipeline

import (
	"context"
	"log/slog"

	"github.com/couchcryptid/asteroid-impact-sim/internal/domain"
	"github.com/couchcryptid/asteroid-impact-sim/internal/observability"
)

// batchSessionID tags impacts produced by the pipeline rather than a client
// session.
const batchSessionID = "batch"

// ScenarioTransformer implements Transformer by parsing a ScenarioRequest,
// estimating it and serializing the resulting impact.
type ScenarioTransformer struct {
	logger  *slog.Logger
	metrics *observability.Metrics
}

// NewTransformer creates a ScenarioTransformer.
func NewTransformer(logger *slog.Logger, metrics *observability.Metrics) *ScenarioTransformer {
	return &ScenarioTransformer{logger: logger, metrics: metrics}
}

func (t *ScenarioTransformer) Transform(_ context.Context, raw domain.RawEvent) (domain.OutputEvent, error) {
	req, err := domain.ParseScenario(raw)
	if err != nil {
		return domain.OutputEvent{}, err
	}

	at, params, err := req.Resolve()
	if err != nil {
		return domain.OutputEvent{}, err
	}

	sessionID := batchSessionID
	if req.ID != "" {
		sessionID = batchSessionID + ":" + req.ID
	}
	impact := domain.NewImpact(sessionID, domain.VariantBatch, at, params, nil)

	t.metrics.Simulations.WithLabelValues(domain.VariantBatch).Inc()
	t.metrics.ImpactEnergy.Observe(impact.Estimate.EnergyMegatons)
	t.logger.Debug("scenario estimated", "scenario_id", req.ID, "impact_id", impact.ID, "energy_mt", impact.Display.EnergyMegatons)

	return domain.SerializeImpact(impact)
}
