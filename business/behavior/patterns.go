package behavior

// Pattern is one of the fixed behavior labels a session can be classified
// into.
type Pattern string

const (
	PatternHighEngagement     Pattern = "high_engagement"
	PatternVideoInterested    Pattern = "video_interested"
	PatternBrowsingIntensive  Pattern = "browsing_intensive"
	PatternModerateEngagement Pattern = "moderate_engagement"
	PatternBounce             Pattern = "bounce"
	PatternLowEngagement      Pattern = "low_engagement"

	// PatternUnknown marks a session whose data could not be loaded at all.
	PatternUnknown Pattern = "unknown"
)

type patternRule struct {
	matches func(f FeatureVector, score float64) bool
	label   Pattern
}

// patternRules is evaluated top-down, first match wins. The final rule is a
// catch-all so classification always yields a label.
var patternRules = []patternRule{
	{
		matches: func(_ FeatureVector, score float64) bool { return score >= 80 },
		label:   PatternHighEngagement,
	},
	{
		matches: func(f FeatureVector, score float64) bool { return score >= 50 && f.VideoPlays > 2 },
		label:   PatternVideoInterested,
	},
	{
		matches: func(f FeatureVector, score float64) bool { return score >= 50 && f.UniqueProducts > 5 },
		label:   PatternBrowsingIntensive,
	},
	{
		matches: func(_ FeatureVector, score float64) bool { return score >= 50 },
		label:   PatternModerateEngagement,
	},
	{
		matches: func(f FeatureVector, _ float64) bool { return f.SessionDuration < 30 },
		label:   PatternBounce,
	},
	{
		matches: func(FeatureVector, float64) bool { return true },
		label:   PatternLowEngagement,
	},
}

// ClassifyPattern is a deterministic pure function of its inputs.
func ClassifyPattern(f FeatureVector, score float64) Pattern {
	for _, rule := range patternRules {
		if rule.matches(f, score) {
			return rule.label
		}
	}
	return PatternLowEngagement
}
