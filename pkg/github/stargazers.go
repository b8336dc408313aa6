package github

import (
	"context"
	"encoding/json"
	"fmt"
)

// stargazerEntity is one element of a stargazer listing page.
type stargazerEntity struct {
	Login string `json:"login"`
}

// Stargazers fetches the set of distinct usernames that starred repo
// (in "owner/name" notation).
//
// Pages are fetched from index 0 until an empty page is returned or the
// index passes pageLimit; the bound is inclusive, so up to pageLimit+1
// pages are read. An unrecognized page is logged and skipped rather than
// aborting the whole repository. A "Not Found" response means the
// repository is unresolvable and returns [ErrNotFound].
func (c *Client) Stargazers(ctx context.Context, repo string, pageLimit int) (map[string]struct{}, error) {
	resource := fmt.Sprintf("/repos/%s/stargazers", repo)
	result := make(map[string]struct{})

	for page := 0; page <= pageLimit; page++ {
		p, err := c.fetchPage(ctx, resource, page)
		if err != nil {
			return nil, fmt.Errorf("stargazers of %s, page %d: %w", repo, page, err)
		}

		switch p.kind {
		case pageEmpty:
			return result, nil
		case pageNotFound:
			return nil, fmt.Errorf("%w: repository %s", ErrNotFound, repo)
		case pageUnrecognized:
			c.logger.Warn("skipping unrecognized stargazers page",
				"repo", repo, "page", page, "body", truncate(p.body, 200))
			continue
		}

		for _, item := range p.items {
			var e stargazerEntity
			if err := json.Unmarshal(item, &e); err != nil || e.Login == "" {
				continue
			}
			result[e.Login] = struct{}{}
		}
	}
	return result, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
