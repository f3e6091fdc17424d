package behavior

import (
	"math"
)

// ScoreConfig holds the engagement weights and normalization ceilings. It is
// an immutable value handed to the free scoring function; the service never
// mutates it after construction.
type ScoreConfig struct {
	WeightSessionDuration float64
	WeightTotalEvents     float64
	WeightProductViews    float64
	WeightImageClicks     float64
	WeightVideoPlays      float64
	WeightUniqueProducts  float64

	CeilingSessionDuration float64
	CeilingTotalEvents     float64
	CeilingProductViews    float64
	CeilingImageClicks     float64
	CeilingVideoPlays      float64
	CeilingUniqueProducts  float64
}

const (
	defaultWeightSessionDuration = 0.20
	defaultWeightTotalEvents     = 0.15
	defaultWeightProductViews    = 0.20
	defaultWeightImageClicks     = 0.15
	defaultWeightVideoPlays      = 0.20
	defaultWeightUniqueProducts  = 0.10

	defaultCeilingSessionDuration = 300 // 5 minutes
	defaultCeilingTotalEvents     = 20
	defaultCeilingProductViews    = 10
	defaultCeilingImageClicks     = 15
	defaultCeilingVideoPlays      = 5
	defaultCeilingUniqueProducts  = 8

	// returned when the config cannot produce a trustworthy score;
	// "assume average" rather than failing the analysis
	neutralScore = 50.0
)

func DefaultScoreConfig() ScoreConfig {
	return ScoreConfig{
		WeightSessionDuration: defaultWeightSessionDuration,
		WeightTotalEvents:     defaultWeightTotalEvents,
		WeightProductViews:    defaultWeightProductViews,
		WeightImageClicks:     defaultWeightImageClicks,
		WeightVideoPlays:      defaultWeightVideoPlays,
		WeightUniqueProducts:  defaultWeightUniqueProducts,

		CeilingSessionDuration: defaultCeilingSessionDuration,
		CeilingTotalEvents:     defaultCeilingTotalEvents,
		CeilingProductViews:    defaultCeilingProductViews,
		CeilingImageClicks:     defaultCeilingImageClicks,
		CeilingVideoPlays:      defaultCeilingVideoPlays,
		CeilingUniqueProducts:  defaultCeilingUniqueProducts,
	}
}

// valid checks that ceilings are positive and weights sum to 1.
func (c ScoreConfig) valid() bool {
	ceilings := []float64{
		c.CeilingSessionDuration, c.CeilingTotalEvents, c.CeilingProductViews,
		c.CeilingImageClicks, c.CeilingVideoPlays, c.CeilingUniqueProducts,
	}
	for _, ceil := range ceilings {
		if ceil <= 0 {
			return false
		}
	}

	sum := c.WeightSessionDuration + c.WeightTotalEvents + c.WeightProductViews +
		c.WeightImageClicks + c.WeightVideoPlays + c.WeightUniqueProducts
	return math.Abs(sum-1.0) < 1e-9
}

// EngagementScore computes the 0-100 weighted engagement score for a feature
// vector. Each raw value is normalized by its ceiling and clamped to [0,1],
// so values past the ceiling saturate instead of inflating the score. A
// misconfigured ScoreConfig degrades to the neutral 50.0, never an error.
func EngagementScore(cfg ScoreConfig, f FeatureVector) float64 {
	if !cfg.valid() {
		return neutralScore
	}

	score := cfg.WeightSessionDuration*normalize(f.SessionDuration, cfg.CeilingSessionDuration) +
		cfg.WeightTotalEvents*normalize(f.TotalEvents, cfg.CeilingTotalEvents) +
		cfg.WeightProductViews*normalize(f.ProductViews, cfg.CeilingProductViews) +
		cfg.WeightImageClicks*normalize(f.ImageClicks, cfg.CeilingImageClicks) +
		cfg.WeightVideoPlays*normalize(f.VideoPlays, cfg.CeilingVideoPlays) +
		cfg.WeightUniqueProducts*normalize(f.UniqueProducts, cfg.CeilingUniqueProducts)

	return math.Round(score*100*100) / 100
}

func normalize(value, ceiling float64) float64 {
	v := value / ceiling
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
