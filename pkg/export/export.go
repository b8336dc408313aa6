// Package export writes discovery rankings to disk and turns repository
// notation into clone-ready URLs.
package export

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/costarhq/costar/pkg/discovery"
)

// WriteRanking writes the ranking to w as an indented JSON object with a
// trailing newline, keys in rank order.
func WriteRanking(w io.Writer, r discovery.Ranking) error {
	data, err := json.MarshalIndent(r, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ranking: %w", err)
	}
	if _, err := w.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("write ranking: %w", err)
	}
	return nil
}

// ExportRanking writes the ranking to path, creating parent directories
// as needed and overwriting an existing file.
func ExportRanking(path string, r discovery.Ranking) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create output file: %w", err)
	}
	defer f.Close()

	if err := WriteRanking(f, r); err != nil {
		return err
	}
	return f.Close()
}

// LoadRanking reads a ranking previously written by ExportRanking.
func LoadRanking(path string) (discovery.Ranking, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read ranking file: %w", err)
	}
	var r discovery.Ranking
	if err := json.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parse ranking file %s: %w", path, err)
	}
	return r, nil
}

// RepoURL turns "owner/name" notation into a github.com URL.
func RepoURL(notation string) string {
	return "https://github.com/" + notation
}

// RepoURLs returns clone URLs for every entry, in rank order.
func RepoURLs(r discovery.Ranking) []string {
	urls := make([]string, len(r))
	for i, e := range r {
		urls[i] = RepoURL(e.Repo)
	}
	return urls
}
