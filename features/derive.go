package features

import (
	"github.com/ezoic/creditprep/core/table"
)

const daysPerYear = 365.0

type derivation struct {
	name   string
	inputs []string
	row    func(in []table.Value) table.Value

	// ifAbsent derivations never replace an existing column.
	ifAbsent bool
}

// apply writes the derived column into t. It reports false when an input
// column is absent.
func (d derivation) apply(t *table.Table) bool {
	cols := make([]*table.Column, len(d.inputs))
	for j, name := range d.inputs {
		c, ok := t.Column(name)
		if !ok {
			return false
		}
		cols[j] = c
	}
	vals := make([]table.Value, t.Rows())
	in := make([]table.Value, len(cols))
	for i := range vals {
		for j, c := range cols {
			in[j] = c.Values[i]
		}
		vals[i] = d.row(in)
	}
	_ = t.Set(table.NewColumn(d.name, vals...))
	return true
}

func (d derivation) missing(t *table.Table) []string {
	var out []string
	for _, name := range d.inputs {
		if !t.Has(name) {
			out = append(out, name)
		}
	}
	return out
}

// derivations lists every feature in dependency order. age_years and
// employment_years are only derived when the table lacks them.
func derivations(incomeCut float64, hasCut bool) []derivation {
	ds := []derivation{
		{name: "debt_to_income", inputs: []string{ColCredit, ColIncome}, row: func(in []table.Value) table.Value {
			return ratio(in[0], in[1])
		}},
		{name: "payment_to_income_ratio", inputs: []string{ColAnnuity, ColIncome}, row: func(in []table.Value) table.Value {
			return ratio(scale(in[0], 12), in[1])
		}},
		{name: "residual_income", inputs: []string{ColIncome, ColAnnuity}, row: func(in []table.Value) table.Value {
			inc, ok1 := in[0].Float()
			ann, ok2 := in[1].Float()
			if !ok1 || !ok2 {
				return table.Null()
			}
			return table.Number(inc - ann*12)
		}},
		{name: ColAgeYears, inputs: []string{ColDaysBirth}, row: daysToYears, ifAbsent: true},
		{name: ColEmployYears, inputs: []string{ColDaysEmployed}, row: daysToYears, ifAbsent: true},
		{name: "career_stage", inputs: []string{ColAgeYears}, row: func(in []table.Value) table.Value {
			return careerStage(in[0])
		}},
		{name: "employment_stability", inputs: []string{ColEmployYears, ColAgeYears}, row: func(in []table.Value) table.Value {
			return ratio(in[0], in[1])
		}},
		{name: "years_to_retirement", inputs: []string{ColAgeYears}, row: func(in []table.Value) table.Value {
			age, ok := in[0].Float()
			if !ok {
				return table.Null()
			}
			return table.Number(65 - age)
		}},
		{name: "young_high_credit", inputs: []string{ColAgeYears, "debt_to_income"}, row: func(in []table.Value) table.Value {
			age, ok1 := in[0].Float()
			dti, ok2 := in[1].Float()
			return indicator(ok1 && ok2 && age < 30 && dti > 5)
		}},
		{name: "children_ratio", inputs: []string{ColChildren, ColFamMembers}, row: func(in []table.Value) table.Value {
			return ratio(in[0], in[1])
		}},
		{name: "income_per_family_member", inputs: []string{ColIncome, ColFamMembers}, row: func(in []table.Value) table.Value {
			return ratio(in[0], in[1])
		}},
		{name: "large_family", inputs: []string{ColFamMembers}, row: func(in []table.Value) table.Value {
			n, ok := in[0].Float()
			return indicator(ok && n >= 5)
		}},
		{name: "single_parent", inputs: []string{ColChildren, ColFamilyStatus}, row: func(in []table.Value) table.Value {
			n, ok := in[0].Float()
			return indicator(ok && n > 0 && in[1].Kind == table.KindString && in[1].Str == SingleStatus)
		}},
	}
	if hasCut {
		ds = append(ds, derivation{
			name:   "low_income_large_family",
			inputs: []string{ColIncome, ColFamMembers},
			row: func(in []table.Value) table.Value {
				inc, ok1 := in[0].Float()
				n, ok2 := in[1].Float()
				return indicator(ok1 && ok2 && inc < incomeCut && n >= 4)
			},
		})
	}
	ds = append(ds, derivation{
		name:   "credit_per_family_member",
		inputs: []string{ColCredit, ColFamMembers},
		row: func(in []table.Value) table.Value {
			return ratio(in[0], in[1])
		},
	})
	return ds
}

// ratio is null when either side is null or the denominator is zero.
func ratio(num, den table.Value) table.Value {
	n, ok1 := num.Float()
	d, ok2 := den.Float()
	if !ok1 || !ok2 || d == 0 {
		return table.Null()
	}
	return table.Number(n / d)
}

func scale(v table.Value, k float64) table.Value {
	f, ok := v.Float()
	if !ok {
		return table.Null()
	}
	return table.Number(f * k)
}

func indicator(b bool) table.Value {
	if b {
		return table.Int(1)
	}
	return table.Int(0)
}

func daysToYears(in []table.Value) table.Value {
	d, ok := in[0].Float()
	if !ok {
		return table.Null()
	}
	return table.Number(-d / daysPerYear)
}

func careerStage(age table.Value) table.Value {
	a, ok := age.Float()
	if !ok {
		return table.Null()
	}
	for i := 1; i < len(CareerStageEdges); i++ {
		if a > CareerStageEdges[i-1] && a <= CareerStageEdges[i] {
			return table.String(CareerStageLabels[i-1])
		}
	}
	return table.Null()
}
