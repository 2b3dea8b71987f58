package main

import (
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezoic/creditprep/config"
	"github.com/ezoic/creditprep/core/model"
	"github.com/ezoic/creditprep/core/table"
	"github.com/ezoic/creditprep/dataset"
	"github.com/ezoic/creditprep/features"
	"github.com/ezoic/creditprep/impute"
	"github.com/ezoic/creditprep/pipeline"
	"github.com/ezoic/creditprep/pkg/errors"
	"github.com/ezoic/creditprep/preprocessing"
)

type imputeOptions struct {
	in         string
	apply      string
	out        string
	params     string
	saveParams string
	features   bool
}

func newImputeCmd(a *app) *cobra.Command {
	var opts imputeOptions

	cmd := &cobra.Command{
		Use:   "impute",
		Short: "Fit imputation on a training table and write the cleaned output",
		Long: `Fit the imputer (and any configured feature steps) on --in, then write
either the transformed training table or, with --apply, the transformed
--apply table to --out. Fit values always come from --in.

With --params the imputer is not refitted: the saved parameters are used as is.`,
		Example: `  creditprep impute --in train.csv --out train_clean.csv --save-params params.json
  creditprep impute --in train.csv --apply test.xlsx --out test_clean.csv --features`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if cmd.Flags().Changed("features") {
				a.cfg.Features.Enabled = opts.features
			}
			return runImpute(cmd.OutOrStdout(), a.cfg, opts)
		},
	}

	cmd.Flags().StringVarP(&opts.in, "in", "i", "", "training table (.csv or .xlsx)")
	cmd.Flags().StringVar(&opts.apply, "apply", "", "table to transform with parameters fitted on --in")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output table (.csv or .xlsx)")
	cmd.Flags().StringVar(&opts.params, "params", "", "previously saved imputation parameters (JSON)")
	cmd.Flags().StringVar(&opts.saveParams, "save-params", "", "write fitted imputation parameters to this file")
	cmd.Flags().BoolVar(&opts.features, "features", false, "derive engineered features after imputation")
	_ = cmd.MarkFlagRequired("in")
	_ = cmd.MarkFlagRequired("out")
	return cmd
}

func runImpute(w io.Writer, cfg *config.Config, opts imputeOptions) error {
	train, err := dataset.Load(opts.in)
	if err != nil {
		return err
	}

	imp, err := impute.NewImputer(cfg.ImputeConfig())
	if err != nil {
		return err
	}
	var imputeStep model.Transformer = imp
	if opts.params != "" {
		p, err := readParams(opts.params)
		if err != nil {
			return err
		}
		if err := imp.UseParams(p); err != nil {
			return err
		}
		imputeStep = fittedStep{imp}
	}

	p := pipeline.New(buildSteps(cfg, imputeStep)...)
	p.Verbose = true

	out, err := p.FitTransform(train)
	if err != nil {
		return err
	}
	if opts.apply != "" {
		test, err := dataset.Load(opts.apply)
		if err != nil {
			return err
		}
		if out, err = p.Transform(test); err != nil {
			return err
		}
	}

	if opts.saveParams != "" {
		if err := writeParams(opts.saveParams, imp.Params()); err != nil {
			return err
		}
		printSuccess(w, "saved imputation parameters to %s", opts.saveParams)
	}
	if err := dataset.Write(opts.out, out); err != nil {
		return err
	}

	printSummary(w, imp, out, opts.out)
	return nil
}

// buildSteps assembles the pipeline: imputation, then the optional feature,
// encoding and scaling steps.
func buildSteps(cfg *config.Config, imputeStep model.Transformer) []pipeline.Step {
	steps := []pipeline.Step{{Name: "impute", Transformer: imputeStep}}
	fc := cfg.Features
	if fc.Enabled {
		steps = append(steps, pipeline.Step{Name: "features", Transformer: features.NewBuilder(fc.DropColumns...)})
	}
	if len(fc.OneHot) > 0 {
		steps = append(steps, pipeline.Step{Name: "one_hot", Transformer: preprocessing.NewOneHotEncoder(fc.OneHot)})
	}
	if len(fc.Scale) > 0 {
		var scaler model.Transformer = preprocessing.NewStandardScalerDefault(fc.Scale)
		if fc.Scaler == config.ScalerMinMax {
			scaler = preprocessing.NewMinMaxScalerDefault(fc.Scale)
		}
		steps = append(steps, pipeline.Step{Name: "scale", Transformer: scaler})
	}
	return steps
}

// fittedStep runs an already fitted transformer inside a pipeline without
// refitting it.
type fittedStep struct {
	model.Transformer
}

func (fittedStep) Fit(*table.Table) error { return nil }

func (f fittedStep) FitTransform(t *table.Table) (*table.Table, error) {
	return f.Transform(t)
}

func readParams(path string) (*impute.FittedParameters, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open parameters file")
	}
	defer f.Close()
	return impute.LoadParams(f)
}

func writeParams(path string, p *impute.FittedParameters) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return errors.Wrap(err, "failed to create parameters file")
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = errors.Wrap(cerr, "failed to close parameters file")
		}
	}()
	return impute.SaveParams(f, p)
}

func printSummary(w io.Writer, imp *impute.Imputer, out *table.Table, path string) {
	printSuccess(w, "wrote %d rows x %d columns to %s", out.Rows(), out.Width(), path)
	info := imp.FeatureInfo()
	if len(info.FlaggedFeatures) > 0 {
		printInfo(w, "missing flags: %s", strings.Join(info.FlaggedFeatures, ", "))
	}
	if p := imp.Params(); p != nil {
		for _, warn := range p.Warnings() {
			printWarning(w, "%s", warn)
		}
	}
}
