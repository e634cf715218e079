package service

import (
	"encoding/json"
	"strings"

	"github.com/clearskies/climatewatch/internal/domain/model"
	apperrors "github.com/clearskies/climatewatch/internal/errors"
	"github.com/clearskies/climatewatch/internal/util"
)

// climateMetadataLabel is the CIP-20 Cardano metadata label under which the
// agent nests the climate report.
const climateMetadataLabel = "674"

// ParseClimateResult extracts the climate report from a completed job's raw
// result string. The agent wraps its JSON in a markdown code fence and nests
// the report under the CIP-20 metadata label; both layers are peeled here.
// All failures return parse errors carrying a snippet of the offending input.
func ParseClimateResult(raw string) (*model.ClimateResult, error) {
	cleaned := stripCodeFence(raw)
	if cleaned == "" {
		return nil, apperrors.Parse("empty result payload")
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal([]byte(cleaned), &envelope); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeParse,
			"malformed result payload: %s", util.Truncate(cleaned, 120))
	}

	nested, ok := envelope[climateMetadataLabel]
	if !ok || len(nested) == 0 || string(nested) == "null" {
		return nil, apperrors.Parse(`climate data not found in result (missing "674" key)`)
	}

	var result model.ClimateResult
	if err := json.Unmarshal(nested, &result); err != nil {
		return nil, apperrors.Wrapf(err, apperrors.ErrCodeParse,
			"malformed climate report: %s", util.Truncate(string(nested), 120))
	}
	return &result, nil
}

// stripCodeFence removes a wrapping markdown code fence, tolerating the
// ```json language tag and missing trailing newline before the closer.
func stripCodeFence(raw string) string {
	s := strings.TrimSpace(raw)
	if !strings.HasPrefix(s, "```") {
		return s
	}

	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
