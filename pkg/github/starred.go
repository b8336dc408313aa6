package github

import (
	"context"
	"encoding/json"
	"fmt"
)

// starredEntity is one element of a starred-repositories listing page.
type starredEntity struct {
	FullName string `json:"full_name"`
}

// Starred fetches the set of repository notations ("owner/name") that
// user has starred.
//
// Pagination follows the same discipline as [Client.Stargazers], with one
// difference: some accounts disable this endpoint, so a "Not Found"
// response terminates cleanly with whatever was accumulated instead of
// failing. An unrecognized page is retried (it can mask a rate limit the
// transport recovers from by rotating tokens); after the per-page retry
// budget it fails the user, which the aggregator treats as an empty set.
func (c *Client) Starred(ctx context.Context, user string, pageLimit int) (map[string]struct{}, error) {
	resource := fmt.Sprintf("/users/%s/starred", user)
	result := make(map[string]struct{})

	retries := 0
	for page := 0; page <= pageLimit; page++ {
		p, err := c.fetchPage(ctx, resource, page)
		if err != nil {
			return nil, fmt.Errorf("starred of %s, page %d: %w", user, page, err)
		}

		switch p.kind {
		case pageEmpty, pageNotFound:
			return result, nil
		case pageUnrecognized:
			retries++
			if retries > c.RetryAttempts {
				return nil, fmt.Errorf("starred of %s, page %d: persistently unrecognized response: %s",
					user, page, truncate(p.body, 200))
			}
			c.logger.Warn("retrying unrecognized starred page",
				"user", user, "page", page, "attempt", retries)
			page-- // reissue the same page
			continue
		}
		retries = 0

		for _, item := range p.items {
			var e starredEntity
			if err := json.Unmarshal(item, &e); err != nil || e.FullName == "" {
				continue
			}
			result[e.FullName] = struct{}{}
		}
	}
	return result, nil
}
