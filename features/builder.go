// Package features derives credit-risk features from an imputed applicant
// table: affordability ratios, age and employment indicators, and household
// indicators.
package features

import (
	"math"
	"sort"
	"sync"

	"github.com/ezoic/creditprep/core/model"
	"github.com/ezoic/creditprep/core/table"
	"github.com/ezoic/creditprep/pkg/errors"
	"github.com/ezoic/creditprep/pkg/log"
)

// Input columns.
const (
	ColIncome       = "AMT_INCOME_TOTAL"
	ColCredit       = "AMT_CREDIT"
	ColAnnuity      = "AMT_ANNUITY"
	ColChildren     = "CNT_CHILDREN"
	ColFamMembers   = "CNT_FAM_MEMBERS"
	ColFamilyStatus = "NAME_FAMILY_STATUS"
	ColDaysBirth    = "DAYS_BIRTH"
	ColDaysEmployed = "DAYS_EMPLOYED"
	ColAgeYears     = "age_years"
	ColEmployYears  = "employment_years"
)

// SingleStatus is the NAME_FAMILY_STATUS value of unmarried applicants.
const SingleStatus = "Single / not married"

// Career stage bins, right-inclusive: (0,25], (25,35], ...
var (
	CareerStageEdges  = []float64{0, 25, 35, 50, 65, 100}
	CareerStageLabels = []string{"Early", "Establishing", "Peak", "Senior", "Retirement"}
)

// Builder appends derived features. Fit learns the low-income cut-off from
// the training table so Transform treats every later table the same way.
type Builder struct {
	model.BaseEstimator

	// DropColumns are removed from the output after derivation.
	DropColumns []string

	mu        sync.RWMutex
	incomeCut float64
	hasCut    bool
}

// NewBuilder returns a Builder that drops the given columns.
func NewBuilder(drop ...string) *Builder {
	b := &Builder{DropColumns: append([]string(nil), drop...)}
	b.ModelType = "FeatureBuilder"
	b.SetLogger(log.GetLoggerWithName("features").With(log.ModelNameKey, "FeatureBuilder"))
	return b
}

// Fit learns the first income quartile. Without income values the
// low_income_large_family feature is skipped at transform time.
func (b *Builder) Fit(t *table.Table) error {
	if t == nil {
		return errors.NewValueError("FeatureBuilder.Fit", "table must not be nil")
	}
	b.mu.Lock()
	defer b.mu.Unlock()
	b.hasCut = false
	if col, ok := t.Column(ColIncome); ok {
		b.incomeCut, b.hasCut = firstQuartile(col.Numbers())
	}
	if !b.hasCut {
		b.Logger().Warn("no income values, low income indicator disabled", log.ColumnKey, ColIncome)
	}
	b.SetFitted()
	return nil
}

// firstQuartile is the 0.25 quantile, linearly interpolated between the
// closest ranks: position (n-1)*0.25 in sorted order.
func firstQuartile(nums []float64) (float64, bool) {
	return quantile(nums, 0.25)
}

func quantile(nums []float64, q float64) (float64, bool) {
	if len(nums) == 0 {
		return 0, false
	}
	sorted := make([]float64, len(nums))
	copy(sorted, nums)
	sort.Float64s(sorted)

	pos := float64(len(sorted)-1) * q
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	return sorted[lo] + (pos-float64(lo))*(sorted[hi]-sorted[lo]), true
}

// IncomeCut returns the fitted low-income cut-off.
func (b *Builder) IncomeCut() (float64, bool) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.incomeCut, b.hasCut
}

// Transform returns a copy of t with every derivable feature appended.
// Features whose inputs are missing are skipped with a warning.
func (b *Builder) Transform(t *table.Table) (*table.Table, error) {
	if !b.IsFitted() {
		return nil, errors.NewNotFittedError("FeatureBuilder", "Transform")
	}
	if t == nil {
		return nil, errors.NewValueError("FeatureBuilder.Transform", "table must not be nil")
	}
	out := t.Clone()
	cut, hasCut := b.IncomeCut()

	for _, d := range derivations(cut, hasCut) {
		if d.ifAbsent && out.Has(d.name) {
			continue
		}
		if !d.apply(out) {
			b.Logger().Warn("inputs missing, feature skipped",
				log.FeatureKey, d.name,
				log.ColumnKey, d.missing(out),
			)
		}
	}
	out.Drop(b.DropColumns...)

	b.Logger().Debug("Features derived",
		log.OperationKey, log.OperationTransform,
		log.SamplesKey, out.Rows(),
		log.FeaturesKey, out.Width(),
	)
	return out, nil
}

// FitTransform is Fit followed by Transform.
func (b *Builder) FitTransform(t *table.Table) (*table.Table, error) {
	if err := b.Fit(t); err != nil {
		return nil, err
	}
	return b.Transform(t)
}

var _ model.Transformer = (*Builder)(nil)
