package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var signCmd = &cobra.Command{
	Use:   "sign <url>",
	Short: "Generate the request signature for a listing URL",
	Long: `Bootstrap a session and print the signature token for a literal
listing URL. The token is printed alone on stdout so it can be piped
into other tools.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, _, err := newScraper()
		if err != nil {
			return err
		}
		sig, err := s.SignURL(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		fmt.Println(sig)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(signCmd)
}
