package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/costarhq/costar/pkg/discovery"
	"github.com/costarhq/costar/pkg/export"
	"github.com/costarhq/costar/pkg/github"
)

// discoverOpts holds the command-line flags for the discover command.
type discoverOpts struct {
	sources    []string // seed repositories ("owner/name")
	tokens     []string // GitHub API tokens
	count      int      // maximum ranking size
	pageLimit  int      // pages fetched per resource
	workers    int      // starred-set worker pool size
	output     string   // ranking output path
	configPath string   // config file override
	noCache    bool
	refresh    bool
}

// discoverCommand creates the discover command.
//
// Default options:
//   - count: 100 ranked repositories
//   - page-limit: 400 pages per resource
//   - workers: 6 concurrent starred-set fetches
func (c *CLI) discoverCommand() *cobra.Command {
	opts := discoverOpts{
		count:     100,
		pageLimit: 400,
		workers:   6,
		output:    "results/popular_repos.json",
	}

	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Rank repositories by shared stargazers of your seed repos",
		Long: `Discover repositories that are popular among the stargazers of your
seed repositories.

For each seed, costar fetches its stargazers, then fetches everything each
new stargazer has starred, and counts how many distinct stargazers starred
each candidate repository. The ranking is written as a JSON object mapping
"owner/name" to that count, most popular first.

Examples:
  costar discover --source golang/go
  costar discover --source org/repoA --source org/repoB --count 50
  costar discover --source golang/go --token ghp_xxx --token ghp_yyy`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runDiscover(cmd.Context(), cmd, &opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.sources, "source", "s", nil, "seed repository in owner/name notation (repeatable)")
	cmd.Flags().StringArrayVar(&opts.tokens, "token", nil, "GitHub API token for credential rotation (repeatable)")
	cmd.Flags().IntVar(&opts.count, "count", opts.count, "maximum number of ranked repositories")
	cmd.Flags().IntVar(&opts.pageLimit, "page-limit", opts.pageLimit, "maximum pages fetched per repository or user")
	cmd.Flags().IntVar(&opts.workers, "workers", opts.workers, "concurrent starred-set fetches")
	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "ranking output file")
	cmd.Flags().StringVar(&opts.configPath, "config", "", "config file (default ~/.config/costar/config.toml)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the response cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "bypass cache reads, still write results back")

	return cmd
}

func (c *CLI) runDiscover(ctx context.Context, cmd *cobra.Command, opts *discoverOpts) error {
	cfg, err := loadConfig(opts.configPath)
	if err != nil {
		return err
	}
	applyConfig(cmd, opts, cfg)

	sources := opts.sources
	if len(sources) == 0 {
		sources = cfg.Sources
	}
	if len(sources) == 0 {
		return fmt.Errorf("no seed repositories: pass --source or set sources in the config file")
	}
	for i, src := range sources {
		ref, err := github.ParseRepoRef(src)
		if err != nil {
			return err
		}
		sources[i] = ref
	}

	tokens := resolveTokens(opts.tokens, cfg)
	if len(tokens) == 0 {
		c.Logger.Warn("no API tokens configured, running unauthenticated with low rate limits")
	}

	store, err := newCache(ctx, opts.noCache, cfg.Cache)
	if err != nil {
		return err
	}
	defer store.Close()

	client := github.NewClient(github.NewTokenPool(tokens), c.Logger)
	engine := discovery.NewEngine(client, store, c.Logger)

	prog := newProgress(c.Logger)
	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Discovering across %d seed repositories", len(sources)))
	spinner.Start()

	ranking, err := engine.Discover(ctx, discovery.Options{
		Sources:    sources,
		MaxResults: opts.count,
		PageLimit:  opts.pageLimit,
		Workers:    opts.workers,
		Refresh:    opts.refresh,
	})
	spinner.Stop()
	if err != nil {
		return err
	}
	prog.done(fmt.Sprintf("Ranked %d repositories", len(ranking)))

	if err := export.ExportRanking(opts.output, ranking); err != nil {
		return err
	}

	printSuccess("Discovery complete")
	for i, entry := range ranking.Top(10) {
		printEntry(i+1, entry.Count, entry.Repo)
	}
	if len(ranking) > 10 {
		printDetail("… %d more in %s", len(ranking)-10, opts.output)
	}
	printFile(opts.output)
	printNextStep("List clone URLs", fmt.Sprintf("costar urls --load %s", opts.output))
	return nil
}

// applyConfig fills defaults from the config file for numeric flags the
// user did not set explicitly.
func applyConfig(cmd *cobra.Command, opts *discoverOpts, cfg Config) {
	flags := cmd.Flags()
	if cfg.Count > 0 && !flags.Changed("count") {
		opts.count = cfg.Count
	}
	if cfg.PageLimit > 0 && !flags.Changed("page-limit") {
		opts.pageLimit = cfg.PageLimit
	}
	if cfg.Workers > 0 && !flags.Changed("workers") {
		opts.workers = cfg.Workers
	}
}
