package telemetry

import (
	"context"

	"github.com/petasbytes/moviebot/internal/metrics"
)

// EmitLocalFeatures records size features of the user's message, never its text.
func EmitLocalFeatures(ctx context.Context, user string) {
	if !(FeaturesEnabled() && ObserveEnabled()) {
		return
	}
	f := metrics.CountFeatures(user)
	Emit(ctx, "local_features", map[string]any{
		"features_version": "2",
		"user": map[string]any{
			"bytes":    f.Bytes,
			"runes":    f.Runes,
			"words":    f.Words,
			"lines":    f.Lines,
			"imdb_ids": f.IMDbIDs,
		},
	})
}
