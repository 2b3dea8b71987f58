package config

import "github.com/ezoic/creditprep/impute"

// Credit bureau enquiry counts. A missing count means no enquiry was made.
var CreditBureauColumns = []string{
	"AMT_REQ_CREDIT_BUREAU_HOUR",
	"AMT_REQ_CREDIT_BUREAU_DAY",
	"AMT_REQ_CREDIT_BUREAU_WEEK",
	"AMT_REQ_CREDIT_BUREAU_MON",
	"AMT_REQ_CREDIT_BUREAU_QRT",
	"AMT_REQ_CREDIT_BUREAU_YEAR",
}

// Social circle observation counts.
var SocialCircleColumns = []string{
	"OBS_30_CNT_SOCIAL_CIRCLE",
	"DEF_30_CNT_SOCIAL_CIRCLE",
	"OBS_60_CNT_SOCIAL_CIRCLE",
	"DEF_60_CNT_SOCIAL_CIRCLE",
}

// ExternalSourceColumns are the normalized external credit scores.
var ExternalSourceColumns = []string{"EXT_SOURCE_1", "EXT_SOURCE_2", "EXT_SOURCE_3"}

// ColumnsToRemove are dropped before modelling.
var ColumnsToRemove = []string{"CODE_GENDER"}

// Default returns the credit-risk application defaults.
func Default() *Config {
	zero := make([]string, 0, len(CreditBureauColumns)+len(SocialCircleColumns))
	zero = append(zero, CreditBureauColumns...)
	zero = append(zero, SocialCircleColumns...)

	strategies := []StrategyConfig{
		{Feature: "CNT_FAM_MEMBERS", Strategy: impute.StrategyMode},
		{Feature: "NAME_TYPE_SUITE", Strategy: "Unaccompanied"},
		{Feature: "DAYS_LAST_PHONE_CHANGE", Strategy: impute.StrategyMedian},
		{
			Feature:  "YEARS_EMPLOYED_IMPUTED",
			Strategy: impute.StrategyGroupMedian,
			GroupBy:  []string{"NAME_EDUCATION_TYPE", "CODE_GENDER"},
		},
	}
	for _, f := range ExternalSourceColumns {
		strategies = append(strategies, StrategyConfig{
			Feature:  f,
			Strategy: impute.StrategyMeanAcrossFeatures,
			GroupBy:  append([]string(nil), ExternalSourceColumns...),
		})
	}

	return &Config{
		Imputation: ImputationConfig{
			ZeroFill:             zero,
			Strategies:           strategies,
			MissingFlagThreshold: impute.DefaultMissingFlagThreshold,
		},
		Features: FeaturesConfig{
			Enabled:     true,
			DropColumns: append([]string(nil), ColumnsToRemove...),
			Scaler:      ScalerStandard,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "console",
		},
	}
}
