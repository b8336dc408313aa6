package export

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/costarhq/costar/pkg/discovery"
)

func sampleRanking() discovery.Ranking {
	return discovery.Ranking{
		{Repo: "org/repoA", Count: 2},
		{Repo: "x/y", Count: 1},
	}
}

func TestWriteRanking(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteRanking(&buf, sampleRanking()); err != nil {
		t.Fatalf("WriteRanking error: %v", err)
	}

	out := buf.String()
	if !strings.HasSuffix(out, "\n") {
		t.Error("output should end with a newline")
	}
	// Keys must appear in rank order, not alphabetically.
	first := strings.Index(out, "org/repoA")
	second := strings.Index(out, "x/y")
	if first == -1 || second == -1 || first > second {
		t.Errorf("keys out of rank order:\n%s", out)
	}
	if !strings.Contains(out, "  \"org/repoA\": 2") {
		t.Errorf("expected 2-space indented entry, got:\n%s", out)
	}
}

func TestExportRankingCreatesParentDirs(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results", "nested", "popular_repos.json")
	if err := ExportRanking(path, sampleRanking()); err != nil {
		t.Fatalf("ExportRanking error: %v", err)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("output file missing: %v", err)
	}
}

func TestExportRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ranking.json")
	want := sampleRanking()
	if err := ExportRanking(path, want); err != nil {
		t.Fatalf("ExportRanking error: %v", err)
	}

	got, err := LoadRanking(path)
	if err != nil {
		t.Fatalf("LoadRanking error: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("loaded %d entries, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("entry %d = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestLoadRankingErrors(t *testing.T) {
	if _, err := LoadRanking(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Error("expected error for missing file")
	}

	bad := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(bad, []byte("not json"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadRanking(bad); err == nil {
		t.Error("expected error for malformed file")
	}
}

func TestRepoURL(t *testing.T) {
	if got := RepoURL("org/repo"); got != "https://github.com/org/repo" {
		t.Errorf("RepoURL = %q", got)
	}
}

func TestRepoURLs(t *testing.T) {
	urls := RepoURLs(sampleRanking())
	want := []string{
		"https://github.com/org/repoA",
		"https://github.com/x/y",
	}
	if len(urls) != len(want) {
		t.Fatalf("got %d urls, want %d", len(urls), len(want))
	}
	for i := range want {
		if urls[i] != want[i] {
			t.Errorf("url %d = %q, want %q", i, urls[i], want[i])
		}
	}
}
