// internal/cli/rank.go
package cli

import (
	"github.com/spf13/cobra"

	"roommate-finder/internal/matching"
	"roommate-finder/internal/models"
)

func newRankCommand(opts *options) *cobra.Command {
	var (
		userFile     string
		listingsFile string
		top          int
		parallelism  int
	)

	cmd := &cobra.Command{
		Use:   "rank",
		Short: "Score a set of listings for a user and print them best first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var user models.User
			if err := readDocument(userFile, &user); err != nil {
				return err
			}
			var listings []models.Listing
			if err := readDocument(listingsFile, &listings); err != nil {
				return err
			}

			ranked := matching.NewRanker(parallelism).Rank(cmd.Context(), &user, listings)
			if top > 0 && len(ranked) > top {
				ranked = ranked[:top]
			}
			opts.logger.Debug("ranked listings", map[string]interface{}{
				"candidates": len(listings),
				"returned":   len(ranked),
			})
			return opts.render(cmd.OutOrStdout(), ranked)
		},
	}

	cmd.Flags().StringVarP(&userFile, "user", "u", "", "user profile file (JSON or YAML)")
	cmd.Flags().StringVarP(&listingsFile, "listings", "l", "", "file holding a list of listings (JSON or YAML)")
	cmd.Flags().IntVar(&top, "top", 0, "print only the best N listings")
	cmd.Flags().IntVar(&parallelism, "parallelism", 1, "scoring goroutines")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("listings")
	return cmd
}
