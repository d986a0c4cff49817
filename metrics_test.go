package restclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func newTestCollector() *MetricsCollector {
	return NewMetricsCollectorWithRegistry(prometheus.NewRegistry())
}

func TestMetricsCollectorRecordRequest(t *testing.T) {
	mc := newTestCollector()

	mc.RecordRequest("GET", "example.com/", 200, 10*time.Millisecond)
	mc.RecordRequest("GET", "example.com/", 200, 20*time.Millisecond)

	count := testutil.ToFloat64(mc.requestsTotal.WithLabelValues("GET", "200", "example.com/"))
	if count != 2 {
		t.Errorf("Expected 2 requests recorded, got %v", count)
	}
}

func TestMetricsCollectorInFlight(t *testing.T) {
	mc := newTestCollector()

	mc.RecordRequestStart("GET", "example.com/")
	mc.RecordRequestStart("GET", "example.com/")
	mc.RecordRequestEnd("GET", "example.com/")

	inFlight := testutil.ToFloat64(mc.requestsInFlight.WithLabelValues("GET", "example.com/"))
	if inFlight != 1 {
		t.Errorf("Expected 1 in flight, got %v", inFlight)
	}
}

func TestMetricsCollectorCacheCounters(t *testing.T) {
	mc := newTestCollector()

	mc.RecordCacheHit("GET", "example.com/")
	mc.RecordCacheMiss("GET", "example.com/")
	mc.RecordCacheMiss("GET", "example.com/")
	mc.RecordCacheSize("default", 7)

	if hits := testutil.ToFloat64(mc.cacheHits.WithLabelValues("GET", "example.com/")); hits != 1 {
		t.Errorf("Expected 1 cache hit, got %v", hits)
	}
	if misses := testutil.ToFloat64(mc.cacheMisses.WithLabelValues("GET", "example.com/")); misses != 2 {
		t.Errorf("Expected 2 cache misses, got %v", misses)
	}
	if size := testutil.ToFloat64(mc.cacheSize.WithLabelValues("default")); size != 7 {
		t.Errorf("Expected cache size 7, got %v", size)
	}
}

func TestMetricsCollectorGateCounters(t *testing.T) {
	mc := newTestCollector()

	mc.RecordGateCancelled("GET", "example.com/")
	mc.RecordGateWait("GET", "example.com/", 5*time.Millisecond)

	if cancelled := testutil.ToFloat64(mc.gateCancelled.WithLabelValues("GET", "example.com/")); cancelled != 1 {
		t.Errorf("Expected 1 cancellation, got %v", cancelled)
	}
}

func TestNilMetricsCollectorIsNoOp(t *testing.T) {
	var mc *MetricsCollector

	// None of these may panic
	mc.RecordRequest("GET", "e", 200, time.Millisecond)
	mc.RecordRequestStart("GET", "e")
	mc.RecordRequestEnd("GET", "e")
	mc.RecordCacheHit("GET", "e")
	mc.RecordCacheMiss("GET", "e")
	mc.RecordCacheSize("default", 1)
	mc.RecordGateWait("GET", "e", time.Millisecond)
	mc.RecordGateCancelled("GET", "e")
	mc.RecordDeduplicationHit("GET", "e")
	mc.RecordError("Transport", "GET", "e")
}

func TestClientRecordsCacheMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if _, err := w.Write([]byte("ok")); err != nil {
			t.Errorf("Failed to write response: %v", err)
		}
	}))
	defer server.Close()

	mc := newTestCollector()
	client := New(WithCache(), WithMetricsCollector(mc))

	ctx := context.Background()
	if _, err := client.Get(ctx, server.URL); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if _, err := client.Get(ctx, server.URL); err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	endpoint := endpointFromURL(server.URL)
	if hits := testutil.ToFloat64(mc.cacheHits.WithLabelValues("GET", endpoint)); hits != 1 {
		t.Errorf("Expected 1 cache hit, got %v", hits)
	}
	if misses := testutil.ToFloat64(mc.cacheMisses.WithLabelValues("GET", endpoint)); misses != 1 {
		t.Errorf("Expected 1 cache miss, got %v", misses)
	}
}

func TestClientRecordsErrorMetrics(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer server.Close()

	mc := newTestCollector()
	client := New(WithMetricsCollector(mc))

	if _, err := client.Get(context.Background(), server.URL); err == nil {
		t.Fatal("Expected error for 503 response")
	}

	endpoint := endpointFromURL(server.URL)
	if count := testutil.ToFloat64(mc.errorsTotal.WithLabelValues("HTTP", "GET", endpoint)); count != 1 {
		t.Errorf("Expected 1 HTTP error recorded, got %v", count)
	}
}
