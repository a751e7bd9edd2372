package hrtalk

import (
	"context"
	"fmt"
	"time"

	"hrtalk-scraper/internal/assert"
	"hrtalk-scraper/internal/components/telemetry"
	"hrtalk-scraper/lib/restyutil"
	oteltelemetry "hrtalk-scraper/lib/telemetry"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
)

// Fetcher resolves a url to the raw document served at it.
//
// note: fault injection point
type Fetcher interface {
	Fetch(ctx context.Context, url string) ([]byte, error)
}

const (
	DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/123.0.0.0 Safari/537.36"
	DefaultTimeout   = time.Second * 30
)

type ClientOptions struct {
	// UserAgent defaults to DefaultUserAgent
	UserAgent string
	// Timeout is applied to each request, defaults to DefaultTimeout
	Timeout time.Duration
	// HttpDump receives a full dump of every request when non-nil
	HttpDump restyutil.InstrumentOutput
}

// Client is the resty based Fetcher.
type Client struct {
	Http *resty.Client
	tel  telemetry.API
}

func NewClient(tel telemetry.API, opts ClientOptions) *Client {
	assert.NotNil(tel)
	tel = telemetry.NewScopedAPI("hrtalk_client", tel)

	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}

	httpClient := resty.New()
	httpClient.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(httpClient.GetClient().Transport)
	httpClient.SetHeader("user-agent", opts.UserAgent)
	httpClient.SetRedirectPolicy(resty.FlexibleRedirectPolicy(10))
	httpClient.SetTimeout(opts.Timeout)

	telemetry.InstrumentResty(httpClient, tel)
	oteltelemetry.InstrumentResty(httpClient, "hrtalk-scraper/lib/scrapers/hrtalk/http")
	restyutil.InstrumentClient(httpClient, opts.HttpDump)

	return &Client{Http: httpClient, tel: tel}
}

func (c *Client) Fetch(ctx context.Context, url string) ([]byte, error) {
	res, err := c.Http.R().
		SetContext(ctx).
		Get(url)
	if err != nil {
		c.tel.ReportBroken(report_client_fetch, fmt.Errorf("request: %w", err), url)
		return nil, &TransportError{Url: url, Err: err}
	}
	if res.StatusCode() < 200 || res.StatusCode() >= 300 {
		c.tel.ReportBroken(report_client_fetch, fmt.Errorf("unexpected status: %s", res.Status()), url)
		return nil, &TransportError{Url: url, StatusCode: res.StatusCode()}
	}
	return res.Body(), nil
}
