// internal/cli/score.go
package cli

import (
	"github.com/spf13/cobra"

	"roommate-finder/internal/matching"
	"roommate-finder/internal/models"
)

func newScoreCommand(opts *options) *cobra.Command {
	var userFile, listingFile string

	cmd := &cobra.Command{
		Use:   "score",
		Short: "Print the compatibility of one listing for one user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			var user models.User
			if err := readDocument(userFile, &user); err != nil {
				return err
			}
			var listing models.Listing
			if err := readDocument(listingFile, &listing); err != nil {
				return err
			}

			result := matching.Score(&user, &listing)
			opts.logger.Debug("scored listing", map[string]interface{}{
				"listingId": listing.ID,
				"score":     result.Score,
			})
			return opts.render(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().StringVarP(&userFile, "user", "u", "", "user profile file (JSON or YAML)")
	cmd.Flags().StringVarP(&listingFile, "listing", "l", "", "listing file (JSON or YAML)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("listing")
	return cmd
}
