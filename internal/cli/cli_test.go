package cli

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/charmbracelet/log"

	geoerrors "github.com/matzehuels/geofig/pkg/errors"
	"github.com/matzehuels/geofig/pkg/pipeline"
)

const testBank = `Question 1.
[FIGURE]
type: circle_tangent
description: Tangent TA at A; chord AB; angle TAB = 32°
elements:
  - circle: {center: O, radius: 3, points: [A, B, P]}
  - tangent: {circle: O, point: A, external_point: T}
  - line: {points: [A, B]}
given_values: {TAB: 32°}
find_values: [APB]
[/FIGURE]

Question 2.
[FIGURE]
type: triangle_properties
description: Triangle ABC with a line to a point that is never defined
elements:
  - triangle: {vertices: [A, B, C]}
  - line: {points: [A, Z]}
[/FIGURE]
`

// testEnv writes a bank and an empty config into a temp dir.
func testEnv(t *testing.T) (dir, bank, cfg string) {
	t.Helper()
	dir = t.TempDir()
	bank = filepath.Join(dir, "paper.txt")
	cfg = filepath.Join(dir, "geofig.toml")
	if err := os.WriteFile(bank, []byte(testBank), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(cfg, []byte("[render]\nformats = [\"svg\"]\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, bank, cfg
}

// execute runs the root command with args and returns the log output.
func execute(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var logs bytes.Buffer
	c := New(&logs, log.DebugLevel)
	root := c.RootCommand()
	root.SetArgs(args)
	root.SetOut(&bytes.Buffer{})
	root.SetErr(&bytes.Buffer{})
	err := root.ExecuteContext(context.Background())
	return logs.String(), err
}

func TestRootCommandRegistersSubcommands(t *testing.T) {
	root := New(&bytes.Buffer{}, LogInfo).RootCommand()
	want := []string{"render", "batch", "validate", "smoke", "graph", "watch", "completion"}
	for _, name := range want {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("subcommand %q not registered", name)
		}
	}
	if root.PersistentFlags().Lookup("config") == nil {
		t.Error("--config flag missing")
	}
}

func TestSplitList(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"svg", []string{"svg"}},
		{"svg, png,,pdf ", []string{"svg", "png", "pdf"}},
		{"", nil},
	}
	for _, tt := range tests {
		got := splitList(tt.in)
		if strings.Join(got, "|") != strings.Join(tt.want, "|") {
			t.Errorf("splitList(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestSelectBlocks(t *testing.T) {
	jobs := []pipeline.Job{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	got, err := selectBlocks(jobs, []int{3, 1})
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("selectBlocks kept %v", got)
	}
	if all, _ := selectBlocks(jobs, nil); len(all) != 3 {
		t.Errorf("empty selection kept %d jobs", len(all))
	}
	if _, err := selectBlocks(jobs, []int{4}); err == nil {
		t.Error("out of range block should fail")
	}
}

func TestExpandInputsAndLoadJobs(t *testing.T) {
	dir := t.TempDir()
	for _, p := range []string{"a/paper.txt", "b/paper.txt", "b/notes.pdf"} {
		path := filepath.Join(dir, p)
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(path, []byte(testBank), 0o644); err != nil {
			t.Fatal(err)
		}
	}

	files, err := expandInputs([]string{dir, filepath.Join(dir, "a", "paper.txt")})
	if err != nil {
		t.Fatal(err)
	}
	if len(files) != 2 {
		t.Fatalf("expandInputs = %v, want the two .txt files once each", files)
	}

	jobs, err := loadJobs(files)
	if err != nil {
		t.Fatal(err)
	}
	if len(jobs) != 4 {
		t.Fatalf("got %d jobs, want 4", len(jobs))
	}
	seen := map[string]bool{}
	for _, j := range jobs {
		if seen[j.ID] {
			t.Errorf("duplicate job id %q", j.ID)
		}
		seen[j.ID] = true
	}
	if !seen["paper-01"] || !seen["b-paper-01"] {
		t.Errorf("unexpected ids %v", seen)
	}
}

func TestExpandInputs_EmptyDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "notes.pdf"), []byte("%PDF"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, err := expandInputs([]string{dir})
	if !geoerrors.Is(err, geoerrors.ErrCodeInvalidInput) {
		t.Fatalf("err = %v, want INVALID_INPUT", err)
	}
	if _, err := execute(t, "validate", dir); err == nil {
		t.Error("validate of a directory without banks should fail")
	}
}

func TestRenderCommand(t *testing.T) {
	dir, bank, cfg := testEnv(t)
	out := filepath.Join(dir, "out")

	if _, err := execute(t, "render", bank, "--config", cfg, "-o", out, "-f", "svg,json"); err != nil {
		t.Fatalf("render: %v", err)
	}
	for _, name := range []string{"paper-01.svg", "paper-01.json", "paper-01.meta.json", "paper-02.svg", "paper-02.meta.json"} {
		if _, err := os.Stat(filepath.Join(out, name)); err != nil {
			t.Errorf("missing %s: %v", name, err)
		}
	}
}

func TestRenderCommand_SelectBlock(t *testing.T) {
	dir, bank, cfg := testEnv(t)
	out := filepath.Join(dir, "out")

	if _, err := execute(t, "render", bank, "--config", cfg, "-o", out, "--block", "2"); err != nil {
		t.Fatalf("render: %v", err)
	}
	if _, err := os.Stat(filepath.Join(out, "paper-01.svg")); !os.IsNotExist(err) {
		t.Error("block 1 should not have been rendered")
	}
	if _, err := os.Stat(filepath.Join(out, "paper-02.svg")); err != nil {
		t.Errorf("block 2 placeholder missing: %v", err)
	}
}

func TestRenderCommand_BadConfig(t *testing.T) {
	dir, bank, _ := testEnv(t)
	bad := filepath.Join(dir, "bad.toml")
	if err := os.WriteFile(bad, []byte("[canvas]\nwidht = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "render", bank, "--config", bad); err == nil {
		t.Fatal("unknown config key should fail")
	}
}

func TestBatchCommand(t *testing.T) {
	dir, bank, cfg := testEnv(t)
	out := filepath.Join(dir, "figures")
	metrics := filepath.Join(dir, "geofig.prom")

	logs, err := execute(t, "batch", bank, "--config", cfg, "-o", out, "--no-tui", "-w", "2", "--metrics", metrics)
	if err != nil {
		t.Fatalf("batch: %v", err)
	}
	if !strings.Contains(logs, "batch start") || !strings.Contains(logs, "placeholder") {
		t.Errorf("logs missing batch lines:\n%s", logs)
	}

	data, err := os.ReadFile(metrics)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(data), "geofig_figures_total") {
		t.Errorf("metrics textfile missing counters:\n%s", data)
	}

	if _, err := execute(t, "batch", bank, "--config", cfg, "-o", out, "--no-tui", "--strict"); err == nil {
		t.Error("--strict should fail when a figure fails")
	}
}

func TestValidateCommand(t *testing.T) {
	dir, bank, _ := testEnv(t)
	if _, err := execute(t, "validate", bank); err == nil {
		t.Error("validate should fail on the dangling reference")
	}

	good := filepath.Join(dir, "good.txt")
	block := testBank[:strings.Index(testBank, "Question 2.")]
	if err := os.WriteFile(good, []byte(block), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := execute(t, "validate", "-q", good); err != nil {
		t.Errorf("validate good bank: %v", err)
	}
}

func TestGraphCommand(t *testing.T) {
	dir, bank, _ := testEnv(t)
	out := filepath.Join(dir, "refs.dot")

	if _, err := execute(t, "graph", bank, "--format", "dot", "-o", out); err != nil {
		t.Fatalf("graph: %v", err)
	}
	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "digraph") {
		t.Errorf("output is not DOT: %q", data)
	}

	if _, err := execute(t, "graph", bank, "--block", "9"); err == nil {
		t.Error("out of range block should fail")
	}
	if _, err := execute(t, "graph", bank, "--format", "gif"); err == nil {
		t.Error("unknown format should fail")
	}
}

func TestSmokeCommand(t *testing.T) {
	dir, _, cfg := testEnv(t)
	out := filepath.Join(dir, "smoke")

	if _, err := execute(t, "smoke", out, "--config", cfg); err != nil {
		t.Fatalf("smoke: %v", err)
	}
	entries, err := os.ReadDir(out)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) == 0 {
		t.Error("smoke wrote nothing")
	}
}
