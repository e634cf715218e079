package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTrendField_UnmarshalString(t *testing.T) {
	var f TrendField
	require.NoError(t, json.Unmarshal([]byte(`"increasing"`), &f))
	assert.Equal(t, TrendFieldText, f.Kind)
	assert.Equal(t, "increasing", f.Text)
	assert.Nil(t, f.ByMetric)
}

func TestTrendField_UnmarshalMapping(t *testing.T) {
	var f TrendField
	require.NoError(t, json.Unmarshal([]byte(`{"pm25":"rising","co":"stable"}`), &f))
	assert.Equal(t, TrendFieldByMetric, f.Kind)
	assert.Equal(t, map[string]string{"pm25": "rising", "co": "stable"}, f.ByMetric)
}

func TestTrendField_UnmarshalMappingWithNumbers(t *testing.T) {
	var f TrendField
	require.NoError(t, json.Unmarshal([]byte(`{"pm25":12.4}`), &f))
	assert.Equal(t, TrendFieldByMetric, f.Kind)
	assert.Equal(t, "12.4", f.ByMetric["pm25"])
}

func TestTrendField_UnmarshalNull(t *testing.T) {
	f := TrendField{Kind: TrendFieldText, Text: "stale"}
	require.NoError(t, json.Unmarshal([]byte(`null`), &f))
	assert.Equal(t, TrendFieldUnset, f.Kind)
}

func TestTrendField_UnmarshalStringArray(t *testing.T) {
	var f TrendField
	require.NoError(t, json.Unmarshal([]byte(`["stay indoors","close windows"]`), &f))
	assert.Equal(t, TrendFieldText, f.Kind)
	assert.Equal(t, "stay indoors; close windows", f.Text)
}

func TestTrendField_UnmarshalBareNumber(t *testing.T) {
	var f TrendField
	require.NoError(t, json.Unmarshal([]byte(`3.2`), &f))
	assert.Equal(t, TrendFieldText, f.Kind)
	assert.Equal(t, "3.2", f.Text)
}

func TestTrendField_MarshalRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		field TrendField
		want  string
	}{
		{"unset", TrendField{}, `null`},
		{"text", TrendField{Kind: TrendFieldText, Text: "stable"}, `"stable"`},
		{"by metric", TrendField{Kind: TrendFieldByMetric, ByMetric: map[string]string{"co": "falling"}}, `{"co":"falling"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out, err := json.Marshal(tt.field)
			require.NoError(t, err)
			assert.JSONEq(t, tt.want, string(out))
		})
	}
}

func TestMetricValue_UnmarshalNumberAndString(t *testing.T) {
	var m map[string]MetricValue
	input := `{"pm25": 12, "co": "0.4", "humidity": null, "temperature": ""}`
	require.NoError(t, json.Unmarshal([]byte(input), &m))
	assert.InDelta(t, 12.0, float64(m["pm25"]), 0.001)
	assert.InDelta(t, 0.4, float64(m["co"]), 0.001)
	assert.Zero(t, float64(m["humidity"]))
	assert.Zero(t, float64(m["temperature"]))
}

func TestMetricValue_UnmarshalPlaceholderString(t *testing.T) {
	var v MetricValue
	require.NoError(t, json.Unmarshal([]byte(`"n/a"`), &v))
	assert.Zero(t, float64(v))

	v = 7
	require.NoError(t, json.Unmarshal([]byte(`true`), &v))
	assert.Zero(t, float64(v))
}

func TestFlexString_UnmarshalNumber(t *testing.T) {
	var s FlexString
	require.NoError(t, json.Unmarshal([]byte(`0.92`), &s))
	assert.Equal(t, FlexString("0.92"), s)

	require.NoError(t, json.Unmarshal([]byte(`"high"`), &s))
	assert.Equal(t, FlexString("high"), s)
}

func TestClimateResult_UnmarshalFullReport(t *testing.T) {
	payload := `{
		"agent_id": "climate-agent-7",
		"measurement_type": "air_quality",
		"timestamp": 1717171717,
		"location": {"lat": "52.52", "lon": "13.40", "name": "Berlin", "country": "DE"},
		"data_hash": "abc123",
		"measurements": {"pm25": "18.5", "co": 0.3, "temperature": 21, "humidity": "44"},
		"verification": {
			"veracity_score": "0.97",
			"confidence": 0.9,
			"status": "verified",
			"contextual_analysis": "readings consistent with nearby stations",
			"data_quality": "good",
			"anomaly_detected": false,
			"anomalies": [],
			"sources": ["openaq"]
		},
		"protocol_version": "1.0",
		"network": "Preprod",
		"signature": "sig",
		"trend_analysis": {
			"trend_direction": {"pm25": "rising", "co": "stable"},
			"trend_magnitude": "slight",
			"historical_average": {"pm25": "15.1"},
			"current_vs_average": "above average",
			"prediction_24h": "improving",
			"confidence": "medium",
			"analysis": "weekend traffic reduction expected"
		},
		"health_assessment": {
			"aqi_overall": 62,
			"risk_level": "moderate",
			"risk_category": "Moderate",
			"health_recommendations": ["limit prolonged outdoor exertion"],
			"sensitive_groups_advice": ["asthmatics should carry inhalers"],
			"outdoor_activity_guidance": {"morning": "fine", "evening": "avoid"},
			"protective_measures": []
		}
	}`

	var result ClimateResult
	require.NoError(t, json.Unmarshal([]byte(payload), &result))

	assert.Equal(t, "climate-agent-7", result.AgentID)
	assert.InDelta(t, 18.5, float64(result.Measurements["pm25"]), 0.001)
	assert.InDelta(t, 0.3, float64(result.Measurements["co"]), 0.001)
	assert.Equal(t, FlexString("0.9"), result.Verification.Confidence)
	assert.Equal(t, TrendFieldByMetric, result.TrendAnalysis.TrendDirection.Kind)
	assert.Equal(t, "rising", result.TrendAnalysis.TrendDirection.ByMetric["pm25"])
	assert.Equal(t, TrendFieldText, result.TrendAnalysis.TrendMagnitude.Kind)
	assert.Equal(t, "slight", result.TrendAnalysis.TrendMagnitude.Text)
	assert.Equal(t, 62, result.HealthAssess.AQIOverall)
	assert.Equal(t, RiskLevelModerate, result.HealthAssess.RiskLevel)
	assert.Equal(t, TrendFieldByMetric, result.HealthAssess.OutdoorActivityGuidance.Kind)
}
