// Package discovery implements the fan-out aggregation at the heart of
// costar: fetch the stargazers of each seed repository, fetch the starred
// set of every stargazer not seen before, and count how many distinct
// seed stargazers starred each candidate repository.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/costarhq/costar/pkg/cache"
)

// ErrConfig marks invalid run configuration, reported before any network
// activity and distinguishable from a run that failed mid-flight.
var ErrConfig = errors.New("invalid configuration")

// Collector fetches stargazer and starred sets. *github.Client satisfies
// it; tests plug in instrumented fakes.
type Collector interface {
	Stargazers(ctx context.Context, repo string, pageLimit int) (map[string]struct{}, error)
	Starred(ctx context.Context, user string, pageLimit int) (map[string]struct{}, error)
}

// Options configures one discovery run.
type Options struct {
	// Sources are the seed repositories in "owner/name" notation,
	// processed in input order.
	Sources []string

	// MaxResults caps the returned ranking.
	MaxResults int

	// PageLimit bounds pages fetched per resource.
	PageLimit int

	// Workers sizes the starred-set worker pool.
	Workers int

	// Refresh bypasses cache reads (results are still written back).
	Refresh bool

	// CacheTTL expires cache entries; 0 keeps them forever.
	CacheTTL time.Duration
}

func (o Options) validate() error {
	if len(o.Sources) == 0 {
		return fmt.Errorf("%w: no seed repositories", ErrConfig)
	}
	if o.MaxResults <= 0 {
		return fmt.Errorf("%w: max results must be positive, got %d", ErrConfig, o.MaxResults)
	}
	if o.PageLimit < 0 {
		return fmt.Errorf("%w: page limit must not be negative, got %d", ErrConfig, o.PageLimit)
	}
	if o.Workers <= 0 {
		return fmt.Errorf("%w: worker count must be positive, got %d", ErrConfig, o.Workers)
	}
	return nil
}

// Engine runs discovery jobs. It owns the popularity counter and the
// acked-stargazer set for the duration of one run; the cache outlives the
// process and makes interrupted runs resumable.
//
// Only the dispatching goroutine touches the counter and the cache.
// Workers receive usernames over a task channel and send back
// (user, starred set) pairs over a result channel with no shared state.
type Engine struct {
	collector Collector
	cache     cache.Cache
	logger    *log.Logger
}

// NewEngine creates an engine. A nil cache disables memoization; a nil
// logger falls back to the default logger.
func NewEngine(collector Collector, c cache.Cache, logger *log.Logger) *Engine {
	if c == nil {
		c = cache.NewNullCache()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Engine{collector: collector, cache: c, logger: logger}
}

// starredResult is what a worker sends back for one stargazer.
type starredResult struct {
	user    string
	starred map[string]struct{}
	err     error
}

// Discover runs one discovery job to completion and returns the ranked
// mapping of repository to distinct-stargazer count.
//
// Per seed source, in input order: fetch its stargazers, subtract the
// stargazers already counted in this run, fan the remainder out across
// the worker pool, and fold every returned starred set into the counter.
// A source whose stargazers cannot be resolved is logged and skipped; a
// failed worker contributes an empty set. The final ranking is counts
// descending, ties broken by repository id ascending, truncated to
// MaxResults.
func (e *Engine) Discover(ctx context.Context, opts Options) (Ranking, error) {
	if err := opts.validate(); err != nil {
		return nil, err
	}

	logger := e.logger.With("run", uuid.NewString()[:8])

	runKey := cache.Key("discover", opts.Sources, opts.PageLimit, opts.MaxResults)
	if !opts.Refresh {
		var cached Ranking
		if hit, _ := cache.GetJSON(ctx, e.cache, runKey, &cached); hit {
			logger.Info("serving ranking from cache", "sources", len(opts.Sources))
			return cached, nil
		}
	}

	counts := make(map[string]int)
	acked := make(map[string]struct{})

	for _, source := range opts.Sources {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		gazers, err := e.stargazers(ctx, source, opts)
		if err != nil {
			logger.Warn("skipping source repository", "repo", source, "err", err)
			continue
		}

		selection := subtract(gazers, acked)
		logger.Info("fanning out",
			"repo", source, "stargazers", len(gazers), "new", len(selection))

		e.fanOut(ctx, selection, opts, counts, logger)

		for user := range selection {
			acked[user] = struct{}{}
		}
	}

	ranking := rankCounts(counts).Top(opts.MaxResults)
	if err := cache.SetJSON(ctx, e.cache, runKey, ranking, opts.CacheTTL); err != nil {
		logger.Warn("could not cache ranking", "err", err)
	}

	logger.Info("discovery complete",
		"repos", len(counts), "ranked", len(ranking), "stargazers", len(acked))
	return ranking, nil
}

// stargazers fetches a source's stargazer set through the cache.
func (e *Engine) stargazers(ctx context.Context, repo string, opts Options) (map[string]struct{}, error) {
	key := cache.Key("stargazers", repo, opts.PageLimit)

	if !opts.Refresh {
		var cached []string
		if hit, _ := cache.GetJSON(ctx, e.cache, key, &cached); hit {
			return toSet(cached), nil
		}
	}

	gazers, err := e.collector.Stargazers(ctx, repo, opts.PageLimit)
	if err != nil {
		return nil, err
	}
	if err := cache.SetJSON(ctx, e.cache, key, toSorted(gazers), opts.CacheTTL); err != nil {
		e.logger.Warn("could not cache stargazers", "repo", repo, "err", err)
	}
	return gazers, nil
}

// fanOut dispatches starred-set collection for every user in selection
// across the worker pool and folds results into counts as they arrive.
// The cache is consulted and updated here, on the dispatching side only,
// so concurrent workers never race on cache writes.
func (e *Engine) fanOut(ctx context.Context, selection map[string]struct{}, opts Options, counts map[string]int, logger *log.Logger) {
	pending := make([]string, 0, len(selection))
	for user := range selection {
		key := cache.Key("starred", user, opts.PageLimit)
		var cached []string
		if !opts.Refresh {
			if hit, _ := cache.GetJSON(ctx, e.cache, key, &cached); hit {
				for _, repo := range cached {
					counts[repo]++
				}
				continue
			}
		}
		pending = append(pending, user)
	}
	if len(pending) == 0 {
		return
	}
	sort.Strings(pending)

	tasks := make(chan string)
	results := make(chan starredResult)

	var g errgroup.Group
	for w := 0; w < min(opts.Workers, len(pending)); w++ {
		g.Go(func() error {
			for user := range tasks {
				starred, err := e.collector.Starred(ctx, user, opts.PageLimit)
				results <- starredResult{user: user, starred: starred, err: err}
			}
			return nil
		})
	}

	go func() {
		defer close(tasks)
		for _, user := range pending {
			select {
			case tasks <- user:
			case <-ctx.Done():
				return
			}
		}
	}()

	go func() {
		_ = g.Wait()
		close(results)
	}()

	for res := range results {
		if res.err != nil {
			// A failed worker must not abort its siblings; the user
			// contributes an empty starred set.
			logger.Warn("starred-set fetch failed", "user", res.user, "err", res.err)
			continue
		}
		for repo := range res.starred {
			counts[repo]++
		}
		key := cache.Key("starred", res.user, opts.PageLimit)
		if err := cache.SetJSON(ctx, e.cache, key, toSorted(res.starred), opts.CacheTTL); err != nil {
			logger.Warn("could not cache starred set", "user", res.user, "err", err)
		}
	}
}

func subtract(a, b map[string]struct{}) map[string]struct{} {
	out := make(map[string]struct{}, len(a))
	for k := range a {
		if _, ok := b[k]; !ok {
			out[k] = struct{}{}
		}
	}
	return out
}

func toSet(items []string) map[string]struct{} {
	set := make(map[string]struct{}, len(items))
	for _, it := range items {
		set[it] = struct{}{}
	}
	return set
}

func toSorted(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for k := range set {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
