package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestInitCmdScaffoldsFile(t *testing.T) {
	dir := t.TempDir()
	cwd, _ := os.Getwd()
	defer os.Chdir(cwd)
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	if err := InitCmd.RunE(InitCmd, []string{"greeter"}); err != nil {
		t.Fatalf("InitCmd.RunE: %v", err)
	}
	content, err := os.ReadFile(filepath.Join(dir, "greeter.ldpl"))
	if err != nil {
		t.Fatalf("expected greeter.ldpl to be written: %v", err)
	}
	if !strings.Contains(string(content), "DATA:") || !strings.Contains(string(content), "PROCEDURE:") {
		t.Errorf("expected a DATA:/PROCEDURE: skeleton, got:\n%s", content)
	}
	if !strings.Contains(string(content), "greeter") {
		t.Errorf("expected scaffolded content to mention the program name, got:\n%s", content)
	}
}

func TestInitCmdRefusesToOverwrite(t *testing.T) {
	dir := t.TempDir()
	cwd, _ := os.Getwd()
	defer os.Chdir(cwd)
	if err := os.Chdir(dir); err != nil {
		t.Fatal(err)
	}

	if err := os.WriteFile("existing.ldpl", []byte("PROCEDURE:\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := InitCmd.RunE(InitCmd, []string{"existing"}); err == nil {
		t.Error("expected InitCmd to refuse overwriting an existing file")
	}
}

func TestBuildCmdCompilesSource(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.ldpl")
	if err := os.WriteFile(src, []byte("PROCEDURE:\nDISPLAY \"hi\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	outDir = filepath.Join(dir, "out")
	includeDirs = nil
	flags = nil
	runAfter = false
	defer func() { outDir = "out"; includeDirs = nil; flags = nil; runAfter = false }()

	if err := BuildCmd.RunE(BuildCmd, []string{src}); err != nil {
		t.Fatalf("BuildCmd.RunE: %v", err)
	}
	if _, err := os.Stat(filepath.Join(outDir, "prog.cpp")); err != nil {
		t.Errorf("expected prog.cpp to be written: %v", err)
	}
}

func TestCheckCmdReportsSuccess(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "prog.ldpl")
	if err := os.WriteFile(src, []byte("PROCEDURE:\nDISPLAY \"hi\"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	checkIncludeDirs = nil

	if err := CheckCmd.RunE(CheckCmd, []string{src}); err != nil {
		t.Errorf("CheckCmd.RunE: unexpected error: %v", err)
	}
}

func TestCheckCmdReportsDiagnosticError(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "bad.ldpl")
	if err := os.WriteFile(src, []byte("PROCEDURE:\nDISPLAY nope\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	checkIncludeDirs = nil

	if err := CheckCmd.RunE(CheckCmd, []string{src}); err == nil {
		t.Error("expected an error for an undeclared identifier")
	}
}
