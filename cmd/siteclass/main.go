package main

import (
	"os"

	"SiteClass/internal/calc/siteclass"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:          "siteclass",
		Short:        "Seismic site class from a layered soil profile (IS 1893 : 2025)",
		SilenceUsage: true,
	}

	rootCmd.AddCommand(calcCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(reportCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// profileFlags are shared by every command that reads a profile.
type profileFlags struct {
	maxLayers int
	depth     float64
}

func (f *profileFlags) register(cmd *cobra.Command) {
	cmd.Flags().IntVar(&f.maxLayers, "max-layers", siteclass.DefaultMaxLayers, "maximum number of layers accepted")
	cmd.Flags().Float64Var(&f.depth, "depth", 0, "depth of influence in m (required for .xlsx profiles)")
}

func calcCmd() *cobra.Command {
	var (
		flags  profileFlags
		asJSON bool
	)
	cmd := &cobra.Command{
		Use:   "calc [profile]",
		Short: "Calculate the weighted shear wave velocity and site class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(cmd.OutOrStdout(), args[0], flags, asJSON)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the result as JSON")
	return cmd
}

func validateCmd() *cobra.Command {
	var flags profileFlags
	cmd := &cobra.Command{
		Use:   "validate [profile]",
		Short: "Check a profile without calculating it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd.OutOrStdout(), args[0], flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func reportCmd() *cobra.Command {
	var (
		flags   profileFlags
		xlsxOut string
		pdfOut  string
		meta    metaFlags
	)
	cmd := &cobra.Command{
		Use:   "report [profile]",
		Short: "Write the calculation sheet as xlsx and optionally pdf",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runReport(cmd.OutOrStdout(), args[0], flags, xlsxOut, pdfOut, meta)
		},
	}
	flags.register(cmd)
	cmd.Flags().StringVarP(&xlsxOut, "output", "o", "site-class-report.xlsx", "xlsx output path")
	cmd.Flags().StringVar(&pdfOut, "pdf", "", "also write a pdf report to this path")
	cmd.Flags().StringVar(&meta.project, "project", "", "project name for the report header")
	cmd.Flags().StringVar(&meta.location, "location", "", "site location for the report header")
	cmd.Flags().StringVar(&meta.author, "author", "", "report author")
	return cmd
}
