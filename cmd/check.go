package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	compiler "github.com/ldpl-lang/ldplc/internal/compiler"
)

var checkIncludeDirs []string

// CheckCmd runs the pipeline through parsing only and reports
// diagnostics without emitting C++, for editor tooling
// (SPEC_FULL.md's CLI surface section).
var CheckCmd = &cobra.Command{
	Use:   "check <source.ldpl>",
	Short: "Run lexing/parsing/analysis only and report diagnostics",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := compiler.Check(args[0], checkIncludeDirs); err != nil {
			return err
		}
		fmt.Println("no errors")
		return nil
	},
}

func init() {
	CheckCmd.Flags().StringArrayVarP(&checkIncludeDirs, "include", "i", nil, "directory to search for INCLUDE targets (repeatable)")
}
