package discovery

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
)

// Entry is one ranked repository with the number of distinct seed
// stargazers who starred it.
type Entry struct {
	Repo  string
	Count int
}

// Ranking is an ordered list of repositories, most popular first.
// Entries with equal counts order lexicographically by repository id so
// that a ranking is reproducible for the same input data.
//
// A Ranking marshals to an ordered JSON object ("owner/name" → count),
// the interchange format consumed by downstream tooling.
type Ranking []Entry

// rankCounts turns a popularity counter into a deterministic ranking.
func rankCounts(counts map[string]int) Ranking {
	r := make(Ranking, 0, len(counts))
	for repo, count := range counts {
		r = append(r, Entry{Repo: repo, Count: count})
	}
	sort.Slice(r, func(i, j int) bool {
		if r[i].Count != r[j].Count {
			return r[i].Count > r[j].Count
		}
		return r[i].Repo < r[j].Repo
	})
	return r
}

// Top returns the first n entries (all of them if n exceeds the length).
func (r Ranking) Top(n int) Ranking {
	if n < 0 || n >= len(r) {
		return r
	}
	return r[:n]
}

// Counts returns the ranking as a plain map.
func (r Ranking) Counts() map[string]int {
	m := make(map[string]int, len(r))
	for _, e := range r {
		m[e.Repo] = e.Count
	}
	return m
}

// MarshalJSON encodes the ranking as a JSON object whose keys appear in
// rank order. encoding/json randomizes map key order, so the object is
// assembled by hand.
func (r Ranking) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, e := range r {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(e.Repo)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		fmt.Fprintf(&buf, "%d", e.Count)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a ranking object preserving key order.
func (r *Ranking) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("ranking: expected JSON object, got %v", tok)
	}

	var out Ranking
	for dec.More() {
		keyTok, err := dec.Token()
		if err != nil {
			return err
		}
		repo, ok := keyTok.(string)
		if !ok {
			return fmt.Errorf("ranking: expected string key, got %v", keyTok)
		}
		var count int
		if err := dec.Decode(&count); err != nil {
			return fmt.Errorf("ranking: count for %s: %w", repo, err)
		}
		out = append(out, Entry{Repo: repo, Count: count})
	}

	if _, err := dec.Token(); err != nil {
		return err
	}
	*r = out
	return nil
}
