package persondirectory_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/internal/integrations/persondirectory"
	"github.com/ministryofjustice/hmpps-approved-premises-api-sub012/pkg/observability"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) (*persondirectory.Client, *observability.InMemoryMetrics) {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/token", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"access_token":"test-token","token_type":"Bearer","expires_in":3600}`))
	})
	mux.HandleFunc("/persons/", handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	metrics := observability.NewInMemoryMetrics()
	client := persondirectory.NewClient(persondirectory.Config{
		BaseURL:      server.URL,
		TokenURL:     server.URL + "/token",
		ClientID:     "ap-engine",
		ClientSecret: "secret",
		Timeout:      5 * time.Second,
	}, nil, metrics)
	return client, metrics
}

func TestClient_Lookup(t *testing.T) {
	t.Run("returns full summary with name", func(t *testing.T) {
		client, metrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			require.Equal(t, "Bearer test-token", r.Header.Get("Authorization"))
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"crn":"X320741","firstName":"Gwen","surname":"Stacy"}`))
		})

		summary := client.Lookup(context.Background(), "X320741")

		assert.Equal(t, persondirectory.SummaryFull, summary.Kind)
		assert.Equal(t, "X320741", summary.CRN)
		assert.Equal(t, "Gwen Stacy", summary.Name)
		assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricPersonLookups))
		assert.Zero(t, metrics.GetCounter(observability.MetricPersonLookupErrors))
	})

	t.Run("returns restricted summary for limited access offenders", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`{"crn":"X320741","firstName":"Gwen","surname":"Stacy","currentRestriction":true}`))
		})

		summary := client.Lookup(context.Background(), "X320741")

		assert.Equal(t, persondirectory.SummaryRestricted, summary.Kind)
		assert.Empty(t, summary.Name)
	})

	t.Run("returns restricted summary on forbidden", func(t *testing.T) {
		client, _ := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
		})

		summary := client.Lookup(context.Background(), "X320741")
		assert.Equal(t, persondirectory.SummaryRestricted, summary.Kind)
	})

	t.Run("returns unknown summary for unknown crn", func(t *testing.T) {
		client, metrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusNotFound)
		})

		summary := client.Lookup(context.Background(), "Z999999")

		assert.Equal(t, persondirectory.SummaryUnknown, summary.Kind)
		assert.Zero(t, metrics.GetCounter(observability.MetricPersonLookupErrors))
	})

	t.Run("degrades to unknown on upstream failure", func(t *testing.T) {
		client, metrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		summary := client.Lookup(context.Background(), "X320741")

		assert.Equal(t, persondirectory.SummaryUnknown, summary.Kind)
		assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricPersonLookupErrors))
	})

	t.Run("opens the circuit after consecutive failures", func(t *testing.T) {
		client, metrics := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		})

		for range 6 {
			summary := client.Lookup(context.Background(), "X320741")
			assert.Equal(t, persondirectory.SummaryUnknown, summary.Kind)
		}
		assert.Equal(t, int64(1), metrics.GetCounter(observability.MetricPersonCircuitOpened))
	})
}

func TestNoopDirectory(t *testing.T) {
	summary := persondirectory.NoopDirectory{}.Lookup(context.Background(), "X320741")
	assert.Equal(t, persondirectory.SummaryUnknown, summary.Kind)
	assert.Equal(t, "X320741", summary.CRN)
}
