package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/costarhq/costar/pkg/export"
)

// urlsCommand creates the urls command, which prints clone-ready URLs for
// a previously exported ranking. Output is one plain URL per line so it
// pipes cleanly into xargs or a clone script.
func (c *CLI) urlsCommand() *cobra.Command {
	var load string

	cmd := &cobra.Command{
		Use:   "urls",
		Short: "Print clone URLs for an exported ranking",
		Long: `Print one https://github.com/<owner>/<name> URL per ranking entry, in
rank order.

Examples:
  costar urls --load results/popular_repos.json
  costar urls | xargs -n1 git clone`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ranking, err := export.LoadRanking(load)
			if err != nil {
				return err
			}
			for _, url := range export.RepoURLs(ranking) {
				fmt.Println(url)
			}
			return nil
		},
	}

	cmd.Flags().StringVar(&load, "load", "results/popular_repos.json", "ranking file to read")

	return cmd
}
