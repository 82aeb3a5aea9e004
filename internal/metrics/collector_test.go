package metrics

import (
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
)

func TestCollector_Counters(t *testing.T) {
	c := NewCollector()

	c.RequestStarted()
	c.RequestStarted()
	c.RequestFinished("GET", "/items", 200)

	stats := c.Stats()
	if stats.TotalRequests != 2 {
		t.Errorf("TotalRequests: got %d, want 2", stats.TotalRequests)
	}
	if stats.ActiveRequests != 1 {
		t.Errorf("ActiveRequests: got %d, want 1", stats.ActiveRequests)
	}
}

func TestCollector_Concurrent(t *testing.T) {
	c := NewCollector()

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c.RequestStarted()
			c.RequestFinished("POST", "/item", 200)
		}()
	}
	wg.Wait()

	stats := c.Stats()
	if stats.TotalRequests != 50 {
		t.Errorf("TotalRequests: got %d, want 50", stats.TotalRequests)
	}
	if stats.ActiveRequests != 0 {
		t.Errorf("ActiveRequests: got %d, want 0", stats.ActiveRequests)
	}
}

func TestPrometheusHandler(t *testing.T) {
	c := NewCollector()
	c.RequestStarted()
	c.RequestFinished("GET", "/items", 200)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest("GET", "/metrics", nil)
	PrometheusHandler(c)(rec, req)

	body := rec.Body.String()
	if !strings.Contains(body, "tradepost_requests_total 1") {
		t.Errorf("missing total counter:\n%s", body)
	}
	if !strings.Contains(body, `tradepost_http_requests_total{method="GET",route="/items",status="200"} 1`) {
		t.Errorf("missing labeled counter:\n%s", body)
	}
	if ct := rec.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/plain") {
		t.Errorf("Content-Type: got %q", ct)
	}
}
