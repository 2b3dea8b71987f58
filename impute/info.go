package impute

import "github.com/ezoic/creditprep/core/table"

// Status values reported by FeatureInfo.
const (
	StatusFitted    = "fitted"
	StatusNotFitted = "not fitted"
)

// FeatureInfo is a read-only summary of fitted imputation state.
type FeatureInfo struct {
	Status                  string                 `json:"status"`
	Fitted                  bool                   `json:"is_fitted"`
	FitID                   string                 `json:"fit_id,omitempty"`
	FlaggedFeatures         []string               `json:"features_flagged_for_missing,omitempty"`
	ImputationValues        map[string]table.Value `json:"imputation_values,omitempty"`
	GroupImputationFeatures []string               `json:"group_imputation_features,omitempty"`
	ZeroImputationFeatures  []string               `json:"zero_imputation_features,omitempty"`
	MissingFlagThreshold    float64                `json:"missing_flag_threshold"`
}

// NotFittedInfo is the FeatureInfo of an estimator that has not been fitted.
func NotFittedInfo() FeatureInfo {
	return FeatureInfo{Status: StatusNotFitted}
}

// Info summarizes p. All slices and maps are copies.
func (p *FittedParameters) Info() FeatureInfo {
	return FeatureInfo{
		Status:                  StatusFitted,
		Fitted:                  true,
		FitID:                   p.id,
		FlaggedFeatures:         p.Flagged(),
		ImputationValues:        p.Scalars(),
		GroupImputationFeatures: p.GroupFeatures(),
		ZeroImputationFeatures:  p.ZeroFill(),
		MissingFlagThreshold:    p.threshold,
	}
}
