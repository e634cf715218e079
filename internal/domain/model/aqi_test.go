package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRiskLevelForAQI_Boundaries(t *testing.T) {
	tests := []struct {
		aqi  int
		want RiskLevel
	}{
		{0, RiskLevelGood},
		{50, RiskLevelGood},
		{51, RiskLevelModerate},
		{100, RiskLevelModerate},
		{101, RiskLevelUnhealthySensitive},
		{150, RiskLevelUnhealthySensitive},
		{151, RiskLevelUnhealthy},
		{200, RiskLevelUnhealthy},
		{201, RiskLevelVeryUnhealthy},
		{300, RiskLevelVeryUnhealthy},
		{301, RiskLevelHazardous},
		{487, RiskLevelHazardous},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, RiskLevelForAQI(tt.aqi), "aqi=%d", tt.aqi)
	}
}

func TestRiskLevel_Valid(t *testing.T) {
	assert.True(t, RiskLevelGood.Valid())
	assert.True(t, RiskLevelHazardous.Valid())
	assert.False(t, RiskLevel("severe").Valid())
}
