package commands

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"time"

	"hrtalk-scraper/lib/htmlutil"
	"hrtalk-scraper/lib/scrapers/hrtalk"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"
)

const contentColumnWidth = 60

var (
	walkFlags  *clientFlags
	walkFormat *string
)

func init() {
	walkFlags = addClientFlags(walkCmd)
	walkFormat = walkCmd.Flags().String("format", "jsonl", "The output format, either jsonl or table.")
	rootCmd.AddCommand(walkCmd)
}

type postWriter interface {
	Write(post hrtalk.Post) error
	Flush()
}

type jsonlWriter struct {
	encoder *json.Encoder
}

func (w jsonlWriter) Write(post hrtalk.Post) error {
	return w.encoder.Encode(post)
}

func (w jsonlWriter) Flush() {}

type tableWriter struct {
	t table.Writer
}

func newTableWriter() tableWriter {
	t := newTable()
	t.AppendHeader(table.Row{"#", "published", "author", "post", "content"})
	return tableWriter{t: t}
}

// postRow renders a post as a single line table row.
func postRow(number int, post hrtalk.Post) table.Row {
	return table.Row{
		number,
		post.PublishedAt.Format(time.DateTime),
		post.AuthorUrl,
		post.Url,
		htmlutil.Truncate(htmlutil.Normalize(post.Content), contentColumnWidth),
	}
}

func (w tableWriter) Write(post hrtalk.Post) error {
	w.t.AppendRow(postRow(w.t.Length()+1, post))
	return nil
}

func (w tableWriter) Flush() {
	w.t.Render()
}

func newPostWriter(format string) (postWriter, error) {
	switch format {
	case "jsonl":
		return jsonlWriter{encoder: json.NewEncoder(os.Stdout)}, nil
	case "table":
		return newTableWriter(), nil
	default:
		return nil, fmt.Errorf("unknown format %q", format)
	}
}

var walkCmd = &cobra.Command{
	Use:   "walk <topic url> [--format jsonl|table] [--skip-malformed] [--timeout 30s] [--dump-http <dir>]",
	Short: "Walks every page of a topic and prints its posts.",
	Args:  cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		out, err := newPostWriter(*walkFormat)
		if err != nil {
			exit("invalid arguments", err)
		}
		walker := createWalker(cmd, walkFlags)

		t1 := time.Now()
		count := 0
		var walkErr error
		for post, err := range walker.Walk(cmd.Context(), args[0]) {
			if err != nil {
				walkErr = err
				break
			}
			if err := out.Write(post); err != nil {
				walkErr = err
				break
			}
			count++
		}
		out.Flush()

		slog.Info(
			"walk finished",
			"topic", hrtalk.Canonicalize(args[0]),
			"posts", count,
			"seconds", time.Since(t1).Seconds(),
		)
		if walkErr != nil {
			exit("walk stopped", walkErr)
		}
	},
}
