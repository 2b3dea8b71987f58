// Command creditprep cleans credit-risk application tables: it imputes
// missing values, adds missingness flags and derives modelling features.
//
//	creditprep impute --in application_train.csv --out train_clean.csv --save-params params.json
//	creditprep impute --in application_train.csv --apply application_test.csv --out test_clean.csv
//	creditprep inspect --in application_train.csv --plot missing.png
package main

import (
	"os"

	"github.com/ezoic/creditprep/pkg/log"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		log.LogError(err, "creditprep failed")
		printError(os.Stderr, "%v", err)
		os.Exit(1)
	}
}
