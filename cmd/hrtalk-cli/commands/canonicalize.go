package commands

import (
	"fmt"

	"hrtalk-scraper/lib/scrapers/hrtalk"

	"github.com/spf13/cobra"
)

var canonicalizePage *int

func init() {
	canonicalizePage = canonicalizeCmd.Flags().Int("page", 1, "Print the url of this page instead of page 1.")
	rootCmd.AddCommand(canonicalizeCmd)
}

var canonicalizeCmd = &cobra.Command{
	Use:   "canonicalize <url>... [--page <n>]",
	Short: "Prints the canonical topic url of each url, without fetching anything.",
	Args:  cobra.MinimumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		for _, url := range args {
			fmt.Println(hrtalk.PageURL(hrtalk.Canonicalize(url), *canonicalizePage))
		}
	},
}
