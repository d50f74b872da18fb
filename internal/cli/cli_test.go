package cli

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/graphgazer/graphgazer/pkg/cache"
	"github.com/graphgazer/graphgazer/pkg/graph"
)

// writeTestGraph writes a small positioned snapshot and returns its path.
func writeTestGraph(t *testing.T) string {
	t.Helper()
	g := graph.New()
	nodes := []graph.Node{
		{ID: "n1", Label: "Auth Service", Cluster: "backend", X: 10, Y: 20, Placed: true},
		{ID: "n2", Label: "Core API", Cluster: "backend", X: 30, Y: 40, Placed: true},
		{ID: "n3", Label: "Web UI", Cluster: "frontend", X: 50, Y: 60, Placed: true},
	}
	for _, n := range nodes {
		if err := g.AddNode(n); err != nil {
			t.Fatalf("AddNode: %v", err)
		}
	}
	if err := g.AddEdge(graph.Edge{ID: "e1", Source: "n1", Target: "n2"}); err != nil {
		t.Fatalf("AddEdge: %v", err)
	}

	path := filepath.Join(t.TempDir(), "graph.json")
	if err := graph.WriteFile(g, path); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

// runCommand executes the root command with args and captures stdout.
func runCommand(t *testing.T, args ...string) (string, error) {
	t.Helper()

	old := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("pipe: %v", err)
	}
	os.Stdout = w

	c := New(io.Discard, LogInfo)
	root := c.RootCommand()
	root.SetArgs(args)
	execErr := root.Execute()

	w.Close()
	os.Stdout = old
	out, _ := io.ReadAll(r)
	return string(out), execErr
}

func TestStatsCommand(t *testing.T) {
	path := writeTestGraph(t)

	out, err := runCommand(t, "stats", path)
	if err != nil {
		t.Fatalf("stats: %v", err)
	}

	for _, want := range []string{"3", "1", "backend (2)", "frontend (1)"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
}

func TestStatsCommandMissingFile(t *testing.T) {
	_, err := runCommand(t, "stats", filepath.Join(t.TempDir(), "missing.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestSummarizeCommand(t *testing.T) {
	path := writeTestGraph(t)

	out, err := runCommand(t, "summarize", path)
	if err != nil {
		t.Fatalf("summarize: %v", err)
	}
	if !strings.Contains(out, "The graph contains 3 nodes and 1 edges.") {
		t.Errorf("unexpected summary:\n%s", out)
	}
	if !strings.Contains(out, "Top influencer: Auth Service") {
		t.Errorf("summary missing top influencer:\n%s", out)
	}
}

func TestSummarizeCommandViewport(t *testing.T) {
	path := writeTestGraph(t)

	out, err := runCommand(t, "summarize", path, "--viewport", "n1,n2")
	if err != nil {
		t.Fatalf("summarize --viewport: %v", err)
	}
	if !strings.Contains(out, "The user is looking at 2 nodes.") {
		t.Errorf("unexpected viewport summary:\n%s", out)
	}
	if !strings.Contains(out, "Dominant cluster in view: backend (2 nodes).") {
		t.Errorf("viewport summary missing dominant cluster:\n%s", out)
	}
}

func TestSummarizeCommandEmptyViewport(t *testing.T) {
	path := writeTestGraph(t)

	out, err := runCommand(t, "summarize", path, "--viewport", " ")
	if err != nil {
		t.Fatalf("summarize --viewport: %v", err)
	}
	if !strings.Contains(out, "User is staring into the void. No nodes visible.") {
		t.Errorf("expected empty viewport sentinel:\n%s", out)
	}
}

func TestLayoutCommand(t *testing.T) {
	path := writeTestGraph(t)
	out := filepath.Join(t.TempDir(), "laid.json")

	if _, err := runCommand(t, "layout", path, "--mode", "circle", "-o", out); err != nil {
		t.Fatalf("layout: %v", err)
	}

	g, _, err := graph.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if g.NodeCount() != 3 {
		t.Errorf("node count = %d, want 3", g.NodeCount())
	}
	for _, n := range g.Nodes() {
		if n.X == 0 && n.Y == 0 {
			t.Errorf("node %s not positioned", n.ID)
		}
	}
}

func TestLayoutCommandInvalidMode(t *testing.T) {
	path := writeTestGraph(t)

	if _, err := runCommand(t, "layout", path, "--mode", "spiral"); err == nil {
		t.Fatal("expected error for invalid mode")
	}
}

func TestExportCommandJSON(t *testing.T) {
	path := writeTestGraph(t)
	out := filepath.Join(t.TempDir(), "out.json")

	if _, err := runCommand(t, "export", path, "-f", "json", "-o", out); err != nil {
		t.Fatalf("export: %v", err)
	}

	g, _, err := graph.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if g.NodeCount() != 3 || g.EdgeCount() != 1 {
		t.Errorf("round-trip = %d nodes / %d edges, want 3 / 1", g.NodeCount(), g.EdgeCount())
	}
}

func TestExportCommandDOT(t *testing.T) {
	path := writeTestGraph(t)
	out := filepath.Join(t.TempDir(), "out.dot")

	if _, err := runCommand(t, "export", path, "-f", "dot", "-o", out); err != nil {
		t.Fatalf("export: %v", err)
	}

	data, err := os.ReadFile(out)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	dot := string(data)
	if !strings.Contains(dot, "graph G {") {
		t.Errorf("missing graph header:\n%s", dot)
	}
	if !strings.Contains(dot, `"n1"`) {
		t.Errorf("missing node n1:\n%s", dot)
	}
}

func TestRenderCachedServesStoredArtifact(t *testing.T) {
	path := writeTestGraph(t)
	g, _, err := graph.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}

	store, err := cache.NewFileCache(t.TempDir())
	if err != nil {
		t.Fatalf("NewFileCache: %v", err)
	}
	defer store.Close()

	// Seed the artifact under the key renderCached derives, so the
	// renderer itself is never invoked.
	snap, err := graph.Marshal(g)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	seeded := []byte("<svg>cached</svg>")
	key := cache.GraphKey(cache.Hash(snap), "svg")
	if err := store.Set(context.Background(), key, seeded, cache.DefaultTTL); err != nil {
		t.Fatalf("Set: %v", err)
	}

	got, err := renderCached(context.Background(), store, g, "svg")
	if err != nil {
		t.Fatalf("renderCached: %v", err)
	}
	if string(got) != string(seeded) {
		t.Errorf("renderCached = %q, want seeded artifact", got)
	}
}

func TestExportCommandInvalidFormat(t *testing.T) {
	path := writeTestGraph(t)

	if _, err := runCommand(t, "export", path, "-f", "gif"); err == nil {
		t.Fatal("expected error for invalid format")
	}
}

func TestCacheDir(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "")
	os.Unsetenv("XDG_CACHE_HOME")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}

	home, _ := os.UserHomeDir()
	if dir != filepath.Join(home, ".cache", appName) {
		t.Errorf("cacheDir() = %q", dir)
	}
}

func TestCacheDirXDG(t *testing.T) {
	t.Setenv("XDG_CACHE_HOME", "/tmp/xdg-cache")

	dir, err := cacheDir()
	if err != nil {
		t.Fatalf("cacheDir() error: %v", err)
	}
	if dir != filepath.Join("/tmp/xdg-cache", appName) {
		t.Errorf("cacheDir() = %q", dir)
	}
}
