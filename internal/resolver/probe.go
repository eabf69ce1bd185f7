package resolver

import (
	"context"
	"fmt"
	"net/http"

	"github.com/charmbracelet/log"
	"github.com/dustin/go-humanize"

	"github.com/wenslauce/Music-Wave/internal/logging"
)

// HTTPProber checks stream reachability with HEAD requests.
type HTTPProber struct {
	httpClient *http.Client
	logger     *log.Logger
}

// NewHTTPProber creates a prober. A nil client selects http.DefaultClient;
// per-request deadlines come from the context.
func NewHTTPProber(hc *http.Client, logger *log.Logger) *HTTPProber {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTPProber{httpClient: hc, logger: logging.OrDiscard(logger)}
}

// Probe returns nil if a HEAD request for rawURL answers 2xx.
func (p *HTTPProber) Probe(ctx context.Context, rawURL string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	if resp.ContentLength > 0 {
		p.logger.Debug("stream reachable", "url", rawURL, "size", humanize.IBytes(uint64(resp.ContentLength)))
	}
	return nil
}
