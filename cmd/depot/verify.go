package main

import (
	"github.com/spf13/cobra"
)

var verifyConcurrency int

func init() {
	verifyCmd.Flags().IntVar(&verifyConcurrency, "concurrency", 8, "parallel blob checks")
}

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that every version record has a backing artifact",
	Long: `Verify sweeps the catalog and reports version records whose artifact
is missing from blob storage. Such records can only result from a
publish whose blob write and compensating release both failed.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		reg, err := openRegistry()
		if err != nil {
			return err
		}
		defer reg.Close()

		report, err := reg.Reconcile(cmd.Context(), verifyConcurrency)
		if err != nil {
			return err
		}
		return printJSON(report)
	},
}
