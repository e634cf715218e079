package model

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// ClimateResult is the structured climate report produced by the upstream
// analysis agent for a completed job. It is derived from the raw result
// text once per job and never persisted.
//
// Upstream emits loosely-typed JSON: numeric fields may arrive as numbers
// or numeric strings, and several trend fields are either a plain string
// summary or a mapping keyed by sub-metric. The flexible types below absorb
// whatever shape arrives; an individual field never fails the report, only
// the envelope parse can.
type ClimateResult struct {
	AgentID         string                 `json:"agent_id"`
	MeasurementType string                 `json:"measurement_type"`
	Timestamp       int64                  `json:"timestamp"`
	Location        ResultLocation         `json:"location"`
	DataHash        string                 `json:"data_hash"`
	Measurements    map[string]MetricValue `json:"measurements"`
	Verification    VerificationData       `json:"verification"`
	ProtocolVersion string                 `json:"protocol_version"`
	Network         string                 `json:"network"`
	Signature       string                 `json:"signature"`
	TrendAnalysis   TrendAnalysis          `json:"trend_analysis"`
	HealthAssess    HealthAssessment       `json:"health_assessment"`
}

// ResultLocation identifies the monitored location in the report envelope.
type ResultLocation struct {
	Lat     string `json:"lat"`
	Lon     string `json:"lon"`
	Name    string `json:"name"`
	Country string `json:"country"`
}

// VerificationData carries the data-quality and anomaly metadata produced by
// the upstream verification pass.
type VerificationData struct {
	VeracityScore      MetricValue `json:"veracity_score,omitempty"`
	Confidence         FlexString  `json:"confidence,omitempty"`
	Status             string      `json:"status"`
	ContextualAnalysis string      `json:"contextual_analysis"`
	DataQuality        string      `json:"data_quality"`
	AnomalyDetected    bool        `json:"anomaly_detected"`
	Anomalies          []string    `json:"anomalies"`
	Sources            []string    `json:"sources"`
}

// TrendAnalysis compares current readings against history and forecasts the
// next 24 hours. Each TrendField is polymorphic upstream.
type TrendAnalysis struct {
	TrendDirection    TrendField `json:"trend_direction"`
	TrendMagnitude    TrendField `json:"trend_magnitude"`
	HistoricalAverage TrendField `json:"historical_average"`
	CurrentVsAverage  TrendField `json:"current_vs_average"`
	Prediction24h     TrendField `json:"prediction_24h"`
	Confidence        FlexString `json:"confidence,omitempty"`
	Analysis          string     `json:"analysis"`
}

// HealthAssessment is the health impact section of the report.
type HealthAssessment struct {
	AQIOverall              int        `json:"aqi_overall"`
	RiskLevel               RiskLevel  `json:"risk_level"`
	RiskCategory            string     `json:"risk_category"`
	HealthRecommendations   []string   `json:"health_recommendations"`
	SensitiveGroupsAdvice   []string   `json:"sensitive_groups_advice"`
	OutdoorActivityGuidance TrendField `json:"outdoor_activity_guidance"`
	ProtectiveMeasures      []string   `json:"protective_measures"`
}

// TrendFieldKind discriminates the two upstream shapes of a TrendField.
type TrendFieldKind int

const (
	// TrendFieldUnset means the field was absent or null.
	TrendFieldUnset TrendFieldKind = iota
	// TrendFieldText means the field was a plain string summary.
	TrendFieldText
	// TrendFieldByMetric means the field was a mapping keyed by sub-metric.
	TrendFieldByMetric
)

// TrendField is a tagged variant for fields that upstream emits either as a
// plain string summary or as a per-metric mapping. Consumers switch on Kind
// instead of probing JSON shapes.
type TrendField struct {
	Kind     TrendFieldKind
	Text     string
	ByMetric map[string]string
}

// UnmarshalJSON implements json.Unmarshaler for TrendField.
func (f *TrendField) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*f = TrendField{}
		return nil
	}

	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		*f = TrendField{Kind: TrendFieldText, Text: s}
		return nil
	}

	if strings.HasPrefix(trimmed, "{") {
		// Values can themselves be strings or numbers; normalize to strings.
		var raw map[string]FlexString
		if err := json.Unmarshal(data, &raw); err != nil {
			*f = TrendField{}
			return nil
		}
		byMetric := make(map[string]string, len(raw))
		for k, v := range raw {
			byMetric[k] = string(v)
		}
		*f = TrendField{Kind: TrendFieldByMetric, ByMetric: byMetric}
		return nil
	}

	// The agent also emits string arrays here for guidance-style fields;
	// fold them into a single text summary.
	if strings.HasPrefix(trimmed, "[") {
		var items []FlexString
		if err := json.Unmarshal(data, &items); err != nil {
			*f = TrendField{}
			return nil
		}
		parts := make([]string, 0, len(items))
		for _, it := range items {
			parts = append(parts, string(it))
		}
		*f = TrendField{Kind: TrendFieldText, Text: strings.Join(parts, "; ")}
		return nil
	}

	// Bare tokens (numbers, booleans) also show up; keep the literal text.
	*f = TrendField{Kind: TrendFieldText, Text: trimmed}
	return nil
}

// MarshalJSON implements json.Marshaler for TrendField.
func (f TrendField) MarshalJSON() ([]byte, error) {
	switch f.Kind {
	case TrendFieldUnset:
		return []byte("null"), nil
	case TrendFieldText:
		return json.Marshal(f.Text)
	case TrendFieldByMetric:
		return json.Marshal(f.ByMetric)
	default:
		return nil, fmt.Errorf("trend field: unknown kind %d", f.Kind)
	}
}

// MetricValue is a numeric reading that upstream may encode as a JSON number
// or as a numeric string. Non-numeric values (placeholders like "n/a")
// decode as zero; consumers that care can inspect the raw status text.
type MetricValue float64

// UnmarshalJSON implements json.Unmarshaler for MetricValue.
func (v *MetricValue) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	*v = 0
	if trimmed == "null" {
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return nil
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		if err != nil {
			return nil
		}
		*v = MetricValue(parsed)
		return nil
	}

	var f float64
	if err := json.Unmarshal(data, &f); err != nil {
		return nil
	}
	*v = MetricValue(f)
	return nil
}

// FlexString is a string that tolerates any other JSON value on the wire;
// numbers, booleans, and nested structures keep their literal text.
type FlexString string

// UnmarshalJSON implements json.Unmarshaler for FlexString.
func (s *FlexString) UnmarshalJSON(data []byte) error {
	trimmed := strings.TrimSpace(string(data))
	if trimmed == "null" {
		*s = ""
		return nil
	}
	if strings.HasPrefix(trimmed, `"`) {
		var str string
		if err := json.Unmarshal(data, &str); err != nil {
			return err
		}
		*s = FlexString(str)
		return nil
	}

	*s = FlexString(trimmed)
	return nil
}
