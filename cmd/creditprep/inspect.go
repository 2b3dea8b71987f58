package main

import (
	"encoding/json"
	"io"

	"github.com/spf13/cobra"

	"github.com/ezoic/creditprep/config"
	"github.com/ezoic/creditprep/dataset"
	"github.com/ezoic/creditprep/pkg/errors"
	"github.com/ezoic/creditprep/report"
)

func newInspectCmd(a *app) *cobra.Command {
	var (
		in        string
		plotPath  string
		threshold float64
		all       bool
	)

	cmd := &cobra.Command{
		Use:   "inspect",
		Short: "Report missing values per column",
		Example: `  creditprep inspect --in train.csv
  creditprep inspect --in train.csv --threshold 0.5 --plot missing.png`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if !cmd.Flags().Changed("threshold") {
				threshold = a.cfg.Imputation.MissingFlagThreshold
			}
			return runInspect(cmd.OutOrStdout(), in, threshold, plotPath, all)
		},
	}

	cmd.Flags().StringVarP(&in, "in", "i", "", "table to inspect (.csv or .xlsx)")
	cmd.Flags().StringVar(&plotPath, "plot", "", "write a bar chart of missing rates (.png, .svg, .pdf)")
	cmd.Flags().Float64Var(&threshold, "threshold", 0, "flag threshold (default from config)")
	cmd.Flags().BoolVar(&all, "all", false, "include columns without missing values")
	_ = cmd.MarkFlagRequired("in")
	return cmd
}

func runInspect(w io.Writer, in string, threshold float64, plotPath string, all bool) error {
	t, err := dataset.Load(in)
	if err != nil {
		return err
	}
	r, err := report.Missingness(t, threshold)
	if err != nil {
		return err
	}
	if err := r.Render(w, all); err != nil {
		return err
	}
	if plotPath != "" {
		if err := r.SavePlot(plotPath); err != nil {
			return err
		}
		printSuccess(w, "saved plot to %s", plotPath)
	}
	return nil
}

func newInfoCmd(a *app) *cobra.Command {
	var params string

	cmd := &cobra.Command{
		Use:   "info",
		Short: "Print a summary of saved imputation parameters as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := readParams(params)
			if err != nil {
				return err
			}
			enc := json.NewEncoder(cmd.OutOrStdout())
			enc.SetIndent("", "  ")
			if err := enc.Encode(p.Info()); err != nil {
				return errors.Wrap(err, "failed to encode feature info")
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&params, "params", "", "imputation parameters file (JSON)")
	_ = cmd.MarkFlagRequired("params")
	return cmd
}

func newConfigCmd(a *app) *cobra.Command {
	var defaults bool

	cmd := &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration as YAML",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := a.cfg
			if defaults {
				cfg = config.Default()
			}
			return config.Write(cmd.OutOrStdout(), cfg)
		},
	}
	cmd.Flags().BoolVar(&defaults, "defaults", false, "print the built-in defaults instead")
	return cmd
}
