package commands

import (
	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

var pagesFlags *clientFlags

func init() {
	pagesFlags = addClientFlags(pagesCmd)
	rootCmd.AddCommand(pagesCmd)
}

var pagesCmd = &cobra.Command{
	Use:   "pages <topic url>",
	Short: "Prints the url of every page of a topic.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		walker := createWalker(cmd, pagesFlags)

		pages, err := walker.Pages(cmd.Context(), args[0])
		if err != nil {
			exit("failed to read page count", err)
		}

		t := newTable()
		t.AppendHeader(table.Row{"page", "url"})
		for i, page := range pages {
			t.AppendRow(table.Row{i + 1, page})
		}
		t.AppendFooter(table.Row{"total", len(pages)})
		t.Render()
	},
}
