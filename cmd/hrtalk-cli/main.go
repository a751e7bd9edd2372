package main

import (
	"context"

	"hrtalk-scraper/cmd/hrtalk-cli/commands"
	"hrtalk-scraper/lib/util/serviceutil"
)

func main() {
	ctx, cancel := serviceutil.SignalContext(context.Background())
	defer cancel()
	commands.ExecuteContext(ctx)
}
