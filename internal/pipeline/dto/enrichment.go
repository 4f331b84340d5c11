package dto

import (
	"encoding/json"
	"strings"

	"golang-news-analyzer/internal/entity"
)

// EnrichmentResult is the structured-field set the enrichment model must
// return for one news item. The model is an untrusted oracle: every field is
// normalized before the result is committed.
type EnrichmentResult struct {
	Fingerprint    string  `json:"fingerprint"`
	Source         string  `json:"source"`
	Region         string  `json:"region"`
	Subject        string  `json:"subject"`
	AssetClass     string  `json:"asset_class"`
	Sector         string  `json:"sector"`
	SentimentScore float64 `json:"sentiment_score"`
	ImpactWeight   int     `json:"impact_weight"`
	TrendSignal    int     `json:"trend_signal"`
	EventType      string  `json:"event_type"`
	DriverFactor   string  `json:"driver_factor"`
	KeyMetrics     string  `json:"key_metrics"`
}

// RawJSON serializes the result for the raw_enrichment audit column.
func (r *EnrichmentResult) RawJSON() ([]byte, error) {
	return json.Marshal(r)
}

// Normalize clamps numeric fields into their contractual ranges and replaces
// missing text fields with the "Unknown" marker so no structured column is
// ever persisted as null.
func (r *EnrichmentResult) Normalize() {
	if r.SentimentScore < -1 {
		r.SentimentScore = -1
	}
	if r.SentimentScore > 1 {
		r.SentimentScore = 1
	}

	if r.ImpactWeight < 1 {
		r.ImpactWeight = 1
	}
	if r.ImpactWeight > 5 {
		r.ImpactWeight = 5
	}

	if r.TrendSignal < -1 {
		r.TrendSignal = -1
	}
	if r.TrendSignal > 1 {
		r.TrendSignal = 1
	}

	r.AssetClass = canonicalAssetClass(r.AssetClass)

	fill := func(s *string) {
		if strings.TrimSpace(*s) == "" {
			*s = entity.UnknownField
		}
	}
	fill(&r.Source)
	fill(&r.Region)
	fill(&r.Subject)
	fill(&r.Sector)
	fill(&r.EventType)
	fill(&r.DriverFactor)
	fill(&r.KeyMetrics)
}

// canonicalAssetClass folds model output into the fixed asset class set.
func canonicalAssetClass(s string) string {
	s = strings.TrimSpace(s)
	for _, class := range entity.AssetClasses {
		if strings.EqualFold(s, class) {
			return class
		}
	}
	return entity.AssetClassOther
}
