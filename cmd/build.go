package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	compiler "github.com/ldpl-lang/ldplc/internal/compiler"
	"github.com/ldpl-lang/ldplc/internal/compiler/toolchain"
)

var (
	includeDirs []string
	flags       []string
	runAfter    bool
)

// BuildCmd runs the full pipeline (preprocess → parse → emit → write)
// and, with -r, additionally invokes the host C++ compiler and runs the
// resulting binary, propagating its exit code (SPEC_FULL.md's CLI
// surface section).
var BuildCmd = &cobra.Command{
	Use:   "build <source.ldpl>",
	Short: "Compile a .ldpl source file into .cpp",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		srcPath := args[0]
		fmt.Printf("↪ compiling %s ...\n", srcPath)

		outFile, err := compiler.CompileAndWrite(srcPath, outDir, includeDirs)
		if err != nil {
			return err
		}
		fmt.Printf("↪ wrote %s\n", outFile)

		if !runAfter {
			return nil
		}
		fmt.Println("↪ invoking host C++ compiler ...")
		code, err := toolchain.BuildAndRun(outFile, nil, flags)
		if err != nil {
			return err
		}
		os.Exit(code)
		return nil
	},
}

func init() {
	BuildCmd.Flags().StringArrayVarP(&includeDirs, "include", "i", nil, "directory to search for INCLUDE targets (repeatable)")
	BuildCmd.Flags().StringArrayVarP(&flags, "flag", "f", nil, "extra flag passed through to the host C++ compiler invocation (repeatable)")
	BuildCmd.Flags().BoolVarP(&runAfter, "run", "r", false, "also invoke the host C++ compiler and run the result")
}
