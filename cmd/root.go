package cmd

import (
	"github.com/spf13/cobra"
)

var outDir string

var rootCmd = &cobra.Command{
	Use:   "ldplc",
	Short: "ldplc — LDPL 4.4 to C++ compiler",
	Long: `ldplc translates LDPL 4.4 source into a self-contained C++ translation unit.

Commands:
  init   Scaffold a new LDPL source file
  build  Compile a (.ldpl) source file into (.cpp), optionally building and running it
  check  Run lexing/parsing/analysis only and report diagnostics
`,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&outDir, "out", "o", "out", "output directory for build artifacts")

	rootCmd.AddCommand(InitCmd, BuildCmd, CheckCmd)
}
