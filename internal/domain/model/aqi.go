package model

// RiskLevel is the categorical health risk band derived from an AQI score.
type RiskLevel string

const (
	// RiskLevelGood covers AQI 0-50.
	RiskLevelGood RiskLevel = "good"
	// RiskLevelModerate covers AQI 51-100.
	RiskLevelModerate RiskLevel = "moderate"
	// RiskLevelUnhealthySensitive covers AQI 101-150.
	RiskLevelUnhealthySensitive RiskLevel = "unhealthy_sensitive"
	// RiskLevelUnhealthy covers AQI 151-200.
	RiskLevelUnhealthy RiskLevel = "unhealthy"
	// RiskLevelVeryUnhealthy covers AQI 201-300.
	RiskLevelVeryUnhealthy RiskLevel = "very_unhealthy"
	// RiskLevelHazardous covers AQI above 300.
	RiskLevelHazardous RiskLevel = "hazardous"
)

// Valid returns true if the RiskLevel is one of the known bands.
func (r RiskLevel) Valid() bool {
	switch r {
	case RiskLevelGood, RiskLevelModerate, RiskLevelUnhealthySensitive,
		RiskLevelUnhealthy, RiskLevelVeryUnhealthy, RiskLevelHazardous:
		return true
	default:
		return false
	}
}

// RiskLevelForAQI maps an AQI score to its EPA band. Breakpoints are
// inclusive upper bounds: 50 is good, 51 is moderate, and so on.
func RiskLevelForAQI(aqi int) RiskLevel {
	switch {
	case aqi <= 50:
		return RiskLevelGood
	case aqi <= 100:
		return RiskLevelModerate
	case aqi <= 150:
		return RiskLevelUnhealthySensitive
	case aqi <= 200:
		return RiskLevelUnhealthy
	case aqi <= 300:
		return RiskLevelVeryUnhealthy
	default:
		return RiskLevelHazardous
	}
}
