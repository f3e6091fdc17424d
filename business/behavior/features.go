package behavior

import (
	"shopTrace/domain"
)

// FeatureVector is the fixed set of per-session signals the score engine
// works with. Recomputed from scratch on every analysis, never persisted on
// its own.
type FeatureVector struct {
	SessionDuration float64 `json:"session_duration"`
	TotalEvents     float64 `json:"total_events"`
	ProductViews    float64 `json:"product_views"`
	ImageClicks     float64 `json:"image_clicks"`
	VideoPlays      float64 `json:"video_plays"`
	UniqueProducts  float64 `json:"unique_products"`
	AvgTimePerEvent float64 `json:"avg_time_per_event"`
}

// ExtractFeatures derives the feature vector from a session's duration and
// its full ordered event list. Pure function; an empty event list yields
// zero counts and a zero average, no division happens.
func ExtractFeatures(durationSeconds int, events []domain.UserEvent) FeatureVector {
	f := FeatureVector{
		SessionDuration: float64(durationSeconds),
		TotalEvents:     float64(len(events)),
	}

	seen := make(map[uint64]struct{})
	for _, e := range events {
		switch e.EventType {
		case domain.EventTypeProductView:
			f.ProductViews++
		case domain.EventTypeImageClick:
			f.ImageClicks++
		case domain.EventTypeVideoPlay:
			f.VideoPlays++
		}

		// distinct products across all event types, not just views
		if e.ProductID != nil {
			seen[*e.ProductID] = struct{}{}
		}
	}
	f.UniqueProducts = float64(len(seen))

	if len(events) > 0 {
		f.AvgTimePerEvent = float64(durationSeconds) / float64(len(events))
	}

	return f
}
