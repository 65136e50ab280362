package persondirectory

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/sony/gobreaker/v2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/pkg/observability"
)

// Config holds the upstream connection settings.
type Config struct {
	BaseURL      string
	TokenURL     string
	ClientID     string
	ClientSecret string
	Timeout      time.Duration
}

// Client is an HTTP client for the person directory with an OAuth2
// client-credentials token source and a circuit breaker in front of the
// upstream.
type Client struct {
	baseURL    string
	httpClient *http.Client
	breaker    *gobreaker.CircuitBreaker[PersonSummary]
	logger     *slog.Logger
	metrics    observability.Metrics
}

// NewClient creates a directory client. The http.Client refreshes tokens
// transparently via the client-credentials grant.
func NewClient(cfg Config, logger *slog.Logger, metrics observability.Metrics) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	if metrics == nil {
		metrics = observability.NoopMetrics{}
	}

	oauthConfig := clientcredentials.Config{
		ClientID:     cfg.ClientID,
		ClientSecret: cfg.ClientSecret,
		TokenURL:     cfg.TokenURL,
	}
	httpClient := oauthConfig.Client(context.Background())
	httpClient.Timeout = cfg.Timeout

	breaker := gobreaker.NewCircuitBreaker[PersonSummary](gobreaker.Settings{
		Name:    "person-directory",
		Timeout: 30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.Warn("person directory circuit state changed",
				"from", from.String(),
				"to", to.String(),
			)
			if to == gobreaker.StateOpen {
				metrics.Counter(observability.MetricPersonCircuitOpened, 1)
			}
		},
	})

	return &Client{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		httpClient: httpClient,
		breaker:    breaker,
		logger:     logger,
		metrics:    metrics,
	}
}

// Lookup resolves a CRN. Upstream errors, open circuits and unknown CRNs all
// degrade to an Unknown summary so callers never fail on directory trouble.
func (c *Client) Lookup(ctx context.Context, crn string) PersonSummary {
	c.metrics.Counter(observability.MetricPersonLookups, 1)

	summary, err := c.breaker.Execute(func() (PersonSummary, error) {
		return c.fetch(ctx, crn)
	})
	if err != nil {
		c.metrics.Counter(observability.MetricPersonLookupErrors, 1)
		c.logger.Warn("person directory lookup degraded to unknown",
			"crn", crn,
			"error", err,
		)
		return UnknownSummary(crn)
	}
	return summary
}

type personResponse struct {
	CRN                string `json:"crn"`
	FirstName          string `json:"firstName"`
	Surname            string `json:"surname"`
	CurrentRestriction bool   `json:"currentRestriction"`
	CurrentExclusion   bool   `json:"currentExclusion"`
}

func (c *Client) fetch(ctx context.Context, crn string) (PersonSummary, error) {
	url := c.baseURL + "/persons/" + crn
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return PersonSummary{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return PersonSummary{}, err
	}
	defer resp.Body.Close()

	switch resp.StatusCode {
	case http.StatusOK:
		// fall through to decode
	case http.StatusNotFound:
		return UnknownSummary(crn), nil
	case http.StatusForbidden:
		return RestrictedSummary(crn), nil
	default:
		io.Copy(io.Discard, resp.Body)
		return PersonSummary{}, fmt.Errorf("person directory returned status %d", resp.StatusCode)
	}

	var body personResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return PersonSummary{}, fmt.Errorf("decoding person response: %w", err)
	}

	if body.CurrentRestriction || body.CurrentExclusion {
		return RestrictedSummary(crn), nil
	}
	return FullSummary(crn, strings.TrimSpace(body.FirstName+" "+body.Surname)), nil
}
