package acousticbrainz

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/kailas-cloud/abmeta/internal/domain"
	"github.com/kailas-cloud/abmeta/internal/metrics"
)

// DefaultBaseURL is the public AcousticBrainz API root.
const DefaultBaseURL = "https://acousticbrainz.org/"

// Levels are fetched in order and merged into one document.
var Levels = []string{"/low-level", "/high-level"}

const maxBodySize = 16 << 20

// Request outcome labels.
const (
	statusOK       = "ok"
	statusNotFound = "not_found"
	statusInvalid  = "invalid"
	statusError    = "error"
)

// Client fetches recording documents from AcousticBrainz.
type Client struct {
	baseURL string
	http    *http.Client
	logger  *zap.Logger
}

// Config holds the client settings.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// NewClient creates an AcousticBrainz client.
func NewClient(cfg *Config) *Client {
	base := cfg.BaseURL
	if base == "" {
		base = DefaultBaseURL
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}

	hc := cfg.HTTPClient
	if hc == nil {
		hc = &http.Client{Timeout: cfg.Timeout}
	}

	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	return &Client{baseURL: base, http: hc, logger: logger}
}

// Fetch implements domain.DocumentFetcher. It requests every level and
// merges the top-level keys, later levels winning. A missing recording or
// any failed level yields an empty document and no error.
func (c *Client) Fetch(ctx context.Context, mbid string) (domain.Document, error) {
	merged := make(domain.Document)
	for _, level := range Levels {
		doc, ok := c.fetchLevel(ctx, mbid, level)
		if !ok {
			return domain.Document{}, nil
		}
		merged.Merge(doc)
	}
	return merged, nil
}

func (c *Client) fetchLevel(ctx context.Context, mbid, level string) (domain.Document, bool) {
	url := c.baseURL + mbid + level

	start := time.Now()
	status, doc := c.get(ctx, url)
	metrics.AcousticBrainzRequestsTotal.WithLabelValues(level, status).Inc()
	metrics.AcousticBrainzRequestDuration.WithLabelValues(level).Observe(time.Since(start).Seconds())

	switch status {
	case statusOK:
		return doc, true
	case statusNotFound:
		c.logger.Info("Recording ID not found", zap.String("mbid", mbid), zap.String("level", level))
	case statusInvalid:
		c.logger.Debug("Invalid response", zap.String("mbid", mbid), zap.String("url", url))
	default:
		c.logger.Info("Request failed", zap.String("mbid", mbid), zap.String("url", url))
	}
	return nil, false
}

func (c *Client) get(ctx context.Context, url string) (string, domain.Document) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, http.NoBody)
	if err != nil {
		return statusError, nil
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return statusError, nil
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		return statusNotFound, nil
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return statusInvalid, nil
	}

	doc, err := domain.DecodeDocument(io.LimitReader(resp.Body, maxBodySize))
	if err != nil {
		return statusInvalid, nil
	}
	return statusOK, doc
}

// HealthCheck verifies the API root is reachable.
func (c *Client) HealthCheck(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, c.baseURL, http.NoBody)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("head %s: %w", c.baseURL, err)
	}
	_ = resp.Body.Close()
	if resp.StatusCode >= 500 {
		return fmt.Errorf("head %s: status %d", c.baseURL, resp.StatusCode)
	}
	return nil
}
