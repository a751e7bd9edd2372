package hrtalk

import (
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/metric"
)

const (
	report_client_fetch       = "client.fetch"
	report_walker_fetch_page  = "walker.fetch-page"
	report_walker_parse_page  = "walker.parse-page"
	report_walker_page_count  = "walker.page-count"
	report_walker_extract     = "walker.extract-post"
	report_walker_skip_post   = "walker.skip-post"
	report_walker_walk_finish = "walker.walk-finished"
)

var tracer = otel.Tracer("hrtalk-scraper/lib/scrapers/hrtalk")
var meter = otel.Meter("hrtalk-scraper/lib/scrapers/hrtalk")

var pagesFetched, _ = meter.Int64Counter(
	"hrtalk.pages_fetched",
	metric.WithDescription("topic pages fetched and parsed"),
)
var postsExtracted, _ = meter.Int64Counter(
	"hrtalk.posts_extracted",
	metric.WithDescription("posts emitted by topic walks"),
)
var postsSkipped, _ = meter.Int64Counter(
	"hrtalk.posts_skipped",
	metric.WithDescription("malformed posts skipped in lenient mode"),
)
