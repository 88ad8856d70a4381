// Package compiler wires the pipeline together: preprocess → parse →
// emit → write, the single entry point cmd/build.go and cmd/check.go
// call into. Grounded on the teacher's own root-level driver.go, which
// has the same four-step shape for its COBOL pipeline.
package compiler

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/ldpl-lang/ldplc/internal/compiler/ast"
	"github.com/ldpl-lang/ldplc/internal/compiler/emitter"
	"github.com/ldpl-lang/ldplc/internal/compiler/parser"
	"github.com/ldpl-lang/ldplc/internal/compiler/preprocess"
	"github.com/ldpl-lang/ldplc/internal/compiler/source"
)

// CompileAndWrite compiles the LDPL unit rooted at srcPath and writes the
// generated C++ translation unit into outDir, returning the written
// file's path. An INCLUDE path is read as given (relative to the current
// directory, not to the including file); if that fails, includeDirs are
// searched in order (`ldplc build -i dir` repeatable flag). Diagnostics
// (lex/parse/name/type/shape/statement errors, spec §7) are returned as
// a single combined error; the first one found still lets the rest of
// the unit be walked (accumulate-don't-bail, spec §7), so the error text
// may list several.
func CompileAndWrite(srcPath, outDir string, includeDirs []string) (string, error) {
	if err := validateExtension(srcPath); err != nil {
		return "", err
	}

	spliced, err := preprocess.Splice(srcPath, includeReader(includeDirs))
	if err != nil {
		return "", fmt.Errorf("include: %w", err)
	}

	prog, err := parseProgram(spliced, srcPath)
	if err != nil {
		return "", err
	}

	cpp, err := emitCpp(prog)
	if err != nil {
		return "", err
	}

	return writeOutput(cpp, srcPath, outDir)
}

// Check runs the pipeline through parsing only, for `ldplc check` (spec's
// CLI surface): no C++ is generated, only diagnostics are reported.
func Check(srcPath string, includeDirs []string) error {
	if err := validateExtension(srcPath); err != nil {
		return err
	}
	spliced, err := preprocess.Splice(srcPath, includeReader(includeDirs))
	if err != nil {
		return fmt.Errorf("include: %w", err)
	}
	_, err = parseProgram(spliced, srcPath)
	return err
}

func validateExtension(path string) error {
	if filepath.Ext(path) != ".ldpl" {
		return fmt.Errorf("source must have .ldpl extension")
	}
	return nil
}

// includeReader returns a preprocess.ReadFileFunc that reads path
// directly if it exists, falling back to each of includeDirs in order
// (`ldplc build -i dir`).
func includeReader(includeDirs []string) preprocess.ReadFileFunc {
	return func(path string) (string, error) {
		if b, err := os.ReadFile(path); err == nil {
			return string(b), nil
		}
		var lastErr error
		for _, dir := range includeDirs {
			b, err := os.ReadFile(filepath.Join(dir, path))
			if err == nil {
				return string(b), nil
			}
			lastErr = err
		}
		if lastErr != nil {
			return "", lastErr
		}
		b, err := os.ReadFile(path) // original error, no include dirs configured
		return string(b), err
	}
}

// registerUnits assigns diagnostic file ids to every distinct file that
// contributed to the spliced unit (the root source plus anything pulled
// in by INCLUDE), so a multi-file compilation's diagnostic summary can
// report how many files were actually involved.
func registerUnits(spliced *preprocess.Result, rootFile string) *source.Set {
	s := source.NewSet()
	seen := map[string]bool{rootFile: true}
	s.Add(rootFile, spliced.Text)
	for _, o := range spliced.Origins {
		if o.File == "" || seen[o.File] {
			continue
		}
		seen[o.File] = true
		s.Add(o.File, "")
	}
	return s
}

func parseProgram(spliced *preprocess.Result, rootFile string) (*ast.Program, error) {
	units := registerUnits(spliced, rootFile)

	p := parser.NewParser(spliced.Text, 0, rootFile, spliced.Origins)
	prog, diags := p.ParseProgram()
	if len(diags) > 0 {
		var b strings.Builder
		for _, d := range diags {
			b.WriteString(d.String())
			b.WriteByte('\n')
		}
		if units.Len() > 1 {
			fmt.Fprintf(&b, "(%d source files participated in this compilation: %s)\n", units.Len(), strings.Join(unitPaths(units), ", "))
		}
		return nil, fmt.Errorf("%s", b.String())
	}
	return prog, nil
}

func unitPaths(units *source.Set) []string {
	paths := make([]string, 0, units.Len())
	for i := 0; i < units.Len(); i++ {
		paths = append(paths, units.Path(i))
	}
	return paths
}

func emitCpp(prog *ast.Program) (string, error) {
	em := emitter.New(prog)
	cpp, errs := em.Emit()
	if len(errs) > 0 {
		return "", fmt.Errorf("emitter errors: %v", errs)
	}
	return cpp, nil
}

func writeOutput(cpp, srcPath, outDir string) (string, error) {
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", err
	}
	outFile := filepath.Join(outDir, strings.TrimSuffix(filepath.Base(srcPath), ".ldpl")+".cpp")
	return outFile, os.WriteFile(outFile, []byte(cpp), 0o644)
}
