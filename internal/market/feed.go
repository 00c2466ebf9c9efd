package market

import (
	"context"                         // Request scoped cancellation
	"finance_sandbox/internal/domain" // Domain errors
	"net/http"                        // Status codes
	"strings"                         // Symbol normalization
	"time"                            // Client timeout

	"github.com/go-resty/resty/v2" // HTTP client
	"github.com/pkg/errors"        // Error wrapping
)

// FeedQuoter fetches quotes from an external HTTP feed serving
// GET {base}/quotes/{symbol} -> {"price": 1.0, "change": 0.5}
type FeedQuoter struct {
	client *resty.Client
}

// NewFeedQuoter returns a quoter reading from baseURL
func NewFeedQuoter(baseURL string, timeout time.Duration) *FeedQuoter {
	client := resty.New().
		SetBaseURL(strings.TrimRight(baseURL, "/")).
		SetTimeout(timeout).
		SetHeader("Accept", "application/json")
	return &FeedQuoter{client: client}
}

// Quote fetches the current quote of symbol
func (f *FeedQuoter) Quote(ctx context.Context, symbol string) (Quote, error) {
	var quote Quote
	resp, err := f.client.R().
		SetContext(ctx).
		SetPathParam("symbol", strings.ToUpper(symbol)).
		SetResult(&quote).
		Get("/quotes/{symbol}")
	if err != nil {
		return Quote{}, errors.Wrap(err, "market feed")
	}
	switch {
	case resp.StatusCode() == http.StatusNotFound:
		return Quote{}, errors.Wrapf(domain.ErrUnknownSymbol, "%q", symbol)
	case resp.IsError():
		return Quote{}, errors.Errorf("market feed: status %d", resp.StatusCode())
	}
	if quote.Price <= 0 {
		return Quote{}, errors.Errorf("market feed: non-positive price for %s", symbol)
	}
	return quote, nil
}
