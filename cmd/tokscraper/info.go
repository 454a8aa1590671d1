package main

import (
	"github.com/spf13/cobra"

	"tokscraper/pkg/ui"
)

var infoCmd = &cobra.Command{
	Use:   "info",
	Short: "Look up a user profile or hashtag without collecting posts",
}

var infoUserCmd = &cobra.Command{
	Use:   "user <username>",
	Short: "Show a user's full profile record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := newScraper()
		if err != nil {
			return err
		}
		profile, err := s.GetUserProfileInfo(cmd.Context(), args[0])
		if err != nil {
			ui.PrintError("Lookup failed", err)
			return err
		}
		ui.PrintProfile(profile)
		return nil
	},
}

var infoHashtagCmd = &cobra.Command{
	Use:   "hashtag <name>",
	Short: "Show a hashtag's full challenge record",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := newScraper()
		if err != nil {
			return err
		}
		info, err := s.GetHashtagInfo(cmd.Context(), args[0])
		if err != nil {
			ui.PrintError("Lookup failed", err)
			return err
		}
		ui.PrintHashtag(info)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	infoCmd.AddCommand(infoUserCmd)
	infoCmd.AddCommand(infoHashtagCmd)
}
