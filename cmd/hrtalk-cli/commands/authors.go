package commands

import (
	"hrtalk-scraper/lib/scrapers/hrtalk"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var authorsFlags *clientFlags

func init() {
	authorsFlags = addClientFlags(authorsCmd)
	rootCmd.AddCommand(authorsCmd)
}

var authorsCmd = &cobra.Command{
	Use:   "authors <topic url>",
	Short: "Walks a topic and prints how many posts each author made, in order of first post.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		walker := createWalker(cmd, authorsFlags)

		posts, err := walker.WalkAll(cmd.Context(), args[0])
		if err != nil {
			exit("walk stopped", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"author", "posts", "first post"})
		for _, author := range hrtalk.GroupByAuthor(posts) {
			t.AppendRow(table.Row{author.Url, author.PostCount(), author.Posts[0].Url})
		}
		t.AppendFooter(table.Row{"total", len(posts), ""})
		t.Render()
	},
}
