package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "elecdesign",
		Short: "Residential electrical design calculator",
	}

	rootCmd.AddCommand(calcCmd())
	rootCmd.AddCommand(tablesCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func calcCmd() *cobra.Command {
	var opts calcOptions

	cmd := &cobra.Command{
		Use:   "calc [project.yaml]",
		Short: "Run the full design pipeline on a project file",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCalc(cmd.Context(), args[0], opts, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&opts.normsPath, "norms", "n", "", "YAML file overriding the built-in norm tables")
	cmd.Flags().StringVarP(&opts.outPath, "out", "o", "", "write the JSON result to this file instead of stdout")
	cmd.Flags().StringVar(&opts.ruleSet, "rule-set", "default", "rule-set version reported in metadata")
	cmd.Flags().BoolVarP(&opts.verbose, "verbose", "v", false, "log each stage")
	return cmd
}

func tablesCmd() *cobra.Command {
	var normsPath string

	cmd := &cobra.Command{
		Use:   "tables",
		Short: "Print the active norm parameters and reference tables as YAML",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runTables(normsPath, cmd.OutOrStdout())
		},
	}

	cmd.Flags().StringVarP(&normsPath, "norms", "n", "", "YAML file overriding the built-in norm tables")
	return cmd
}
