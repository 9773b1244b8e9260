package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func writeTestConfig(t *testing.T, dir string, historyEnabled bool) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	content := `[sorting]
workers = 2

[logging]
format = "json"
level = "debug"

[history]
enabled = false
`
	if historyEnabled {
		content = strings.Replace(content, "enabled = false", "enabled = true", 1)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func writeTestFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", path, err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	cmd.SetArgs(append([]string{"--config", configPath}, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestCLIRunSortsFiles(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base, false)
	root := filepath.Join(base, "root")
	writeTestFile(t, filepath.Join(root, "a.txt"), "alpha")
	writeTestFile(t, filepath.Join(root, "b.jpg"), "beta")

	out, _, err := runCLI(t, configPath, "run", root)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !strings.Contains(out, "Moved") {
		t.Fatalf("summary table missing from output: %q", out)
	}
	if _, err := os.Stat(filepath.Join(root, "txt", "a.txt")); err != nil {
		t.Fatalf("a.txt not sorted: %v", err)
	}
	if _, err := os.Stat(filepath.Join(root, "jpg", "b.jpg")); err != nil {
		t.Fatalf("b.jpg not sorted: %v", err)
	}
}

func TestCLIRunJSONSummary(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base, false)
	root := filepath.Join(base, "root")
	writeTestFile(t, filepath.Join(root, "a.txt"), "same")
	writeTestFile(t, filepath.Join(root, "b.txt"), "same")

	out, _, err := runCLI(t, configPath, "run", "--json", root)
	if err != nil {
		t.Fatalf("run --json: %v", err)
	}

	var summary struct {
		Moved      int `json:"moved"`
		Duplicates int `json:"duplicates"`
	}
	if err := json.Unmarshal([]byte(out), &summary); err != nil {
		t.Fatalf("decode summary: %v\noutput: %q", err, out)
	}
	if summary.Moved != 1 || summary.Duplicates != 1 {
		t.Fatalf("unexpected summary: %+v", summary)
	}
}

func TestCLIRunEmptyRootFails(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base, false)
	root := filepath.Join(base, "empty")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	_, _, err := runCLI(t, configPath, "run", root)
	if err == nil {
		t.Fatal("expected error for empty root")
	}
	if !strings.Contains(err.Error(), "no files") {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestCLIRunMissingRootFails(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base, false)

	_, _, err := runCLI(t, configPath, "run", filepath.Join(base, "nope"))
	if err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestCLILedgerListsRecordedPaths(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base, false)
	root := filepath.Join(base, "root")
	writeTestFile(t, filepath.Join(root, "a.txt"), "alpha")

	if _, _, err := runCLI(t, configPath, "run", root); err != nil {
		t.Fatalf("run: %v", err)
	}

	out, _, err := runCLI(t, configPath, "ledger", root)
	if err != nil {
		t.Fatalf("ledger: %v", err)
	}
	if !strings.Contains(out, "Recorded paths: 1") {
		t.Fatalf("unexpected ledger output: %q", out)
	}
	if !strings.Contains(out, "a.txt") {
		t.Fatalf("ledger output missing entry: %q", out)
	}
}

func TestCLIReportShowsOutcomes(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base, true)
	root := filepath.Join(base, "root")
	writeTestFile(t, filepath.Join(root, "a.txt"), "alpha")
	writeTestFile(t, filepath.Join(root, "b.txt"), "alpha")

	if _, _, err := runCLI(t, configPath, "run", root); err != nil {
		t.Fatalf("run: %v", err)
	}

	out, _, err := runCLI(t, configPath, "report", root)
	if err != nil {
		t.Fatalf("report: %v", err)
	}
	if !strings.Contains(out, "moved") || !strings.Contains(out, "duplicate") {
		t.Fatalf("report missing outcomes: %q", out)
	}
}

func TestCLIReportWithoutHistoryFails(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base, false)
	root := filepath.Join(base, "root")
	if err := os.MkdirAll(root, 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	_, _, err := runCLI(t, configPath, "report", root)
	if err == nil {
		t.Fatal("expected error when no history exists")
	}
}

func TestCLIConfigShowPrintsEffectiveValues(t *testing.T) {
	base := t.TempDir()
	configPath := writeTestConfig(t, base, false)

	out, _, err := runCLI(t, configPath, "config", "show")
	if err != nil {
		t.Fatalf("config show: %v", err)
	}
	if !strings.Contains(out, "sorting.workers") || !strings.Contains(out, "no_extension") {
		t.Fatalf("unexpected config show output: %q", out)
	}
}
