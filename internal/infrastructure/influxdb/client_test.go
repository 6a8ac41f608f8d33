package influxdb_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/nerrad567/gray-logic-scanner/internal/infrastructure/config"
	"github.com/nerrad567/gray-logic-scanner/internal/infrastructure/influxdb"
)

// fakeInflux answers /ping and records line protocol posted to /api/v2/write.
type fakeInflux struct {
	mu         sync.Mutex
	bodies     []string
	queries    []string
	writeCode  int
	pingStatus int
}

func newFakeInflux(t *testing.T) (*fakeInflux, *httptest.Server) {
	t.Helper()
	f := &fakeInflux{writeCode: http.StatusNoContent, pingStatus: http.StatusNoContent}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/ping":
			w.WriteHeader(f.pingStatus)
		case "/api/v2/write":
			body, _ := io.ReadAll(r.Body) //nolint:errcheck // test server
			f.mu.Lock()
			f.bodies = append(f.bodies, string(body))
			f.queries = append(f.queries, r.URL.RawQuery)
			code := f.writeCode
			f.mu.Unlock()
			if code != http.StatusNoContent {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(code)
				_, _ = w.Write([]byte(`{"code":"invalid","message":"rejected by test"}`))
				return
			}
			w.WriteHeader(code)
		default:
			http.NotFound(w, r)
		}
	}))
	t.Cleanup(srv.Close)
	return f, srv
}

func (f *fakeInflux) written() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return strings.Join(f.bodies, "\n")
}

func testConfig(url string) config.InfluxDBConfig {
	return config.InfluxDBConfig{
		Enabled:       true,
		URL:           url,
		Token:         "cardscan-test-token",
		Org:           "cardscan",
		Bucket:        "scans",
		BatchSize:     10,
		FlushInterval: 1,
	}
}

// waitFor polls cond until it holds or the deadline passes.
func waitFor(t *testing.T, cond func() bool) bool {
	t.Helper()
	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if cond() {
			return true
		}
		time.Sleep(20 * time.Millisecond)
	}
	return cond()
}

// =============================================================================
// Connection Tests
// =============================================================================

func TestConnect(t *testing.T) {
	_, srv := newFakeInflux(t)

	client, err := influxdb.Connect(context.Background(), testConfig(srv.URL))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	if !client.IsConnected() {
		t.Error("IsConnected() = false after Connect()")
	}
	if err := client.HealthCheck(context.Background()); err != nil {
		t.Errorf("HealthCheck() error = %v", err)
	}
}

func TestConnect_Disabled(t *testing.T) {
	cfg := testConfig("http://127.0.0.1:8086")
	cfg.Enabled = false

	_, err := influxdb.Connect(context.Background(), cfg)
	if !errors.Is(err, influxdb.ErrDisabled) {
		t.Errorf("Connect() error = %v, want ErrDisabled", err)
	}
}

func TestConnect_Unreachable(t *testing.T) {
	_, srv := newFakeInflux(t)
	url := srv.URL
	srv.Close()

	_, err := influxdb.Connect(context.Background(), testConfig(url))
	if !errors.Is(err, influxdb.ErrConnectionFailed) {
		t.Errorf("Connect() error = %v, want ErrConnectionFailed", err)
	}
}

func TestConnect_DefaultBatchSettings(t *testing.T) {
	_, srv := newFakeInflux(t)
	cfg := testConfig(srv.URL)
	cfg.BatchSize = -5
	cfg.FlushInterval = 0

	client, err := influxdb.Connect(context.Background(), cfg)
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	if !client.IsConnected() {
		t.Error("IsConnected() = false with default batch settings")
	}
}

// =============================================================================
// Write Tests
// =============================================================================

func TestWriteScan(t *testing.T) {
	fake, srv := newFakeInflux(t)

	client, err := influxdb.Connect(context.Background(), testConfig(srv.URL))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	client.WriteScan(influxdb.ScanPoint{
		GameID:     "ABCD",
		Suit:       "HEARTS",
		Rank:       "FIVE",
		Outcome:    "accepted",
		StatusCode: 200,
		Latency:    12 * time.Millisecond,
		Time:       time.Unix(1700000000, 0),
	})
	client.Flush()

	if !waitFor(t, func() bool { return fake.written() != "" }) {
		t.Fatal("no points written")
	}

	line := fake.written()
	for _, want := range []string{
		"card_scans,",
		"game_id=ABCD",
		"suit=HEARTS",
		"rank=FIVE",
		"outcome=accepted",
		"status_code=200i",
		"latency_ms=12i",
		"1700000000000000000",
	} {
		if !strings.Contains(line, want) {
			t.Errorf("line protocol %q missing %q", line, want)
		}
	}

	fake.mu.Lock()
	query := fake.queries[0]
	fake.mu.Unlock()
	if !strings.Contains(query, "bucket=scans") || !strings.Contains(query, "org=cardscan") {
		t.Errorf("write query = %q", query)
	}
}

func TestWriteScan_ErrorCallback(t *testing.T) {
	fake, srv := newFakeInflux(t)
	fake.writeCode = http.StatusBadRequest

	client, err := influxdb.Connect(context.Background(), testConfig(srv.URL))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}
	defer client.Close()

	var (
		mu       sync.Mutex
		writeErr error
	)
	client.SetOnError(func(err error) {
		mu.Lock()
		writeErr = err
		mu.Unlock()
	})

	client.WriteScan(influxdb.ScanPoint{GameID: "ABCD", Suit: "CLUBS", Rank: "ACE", Outcome: "accepted"})
	client.Flush()

	got := waitFor(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return writeErr != nil
	})
	if !got {
		t.Fatal("error callback not invoked")
	}

	mu.Lock()
	defer mu.Unlock()
	if !errors.Is(writeErr, influxdb.ErrWriteFailed) {
		t.Errorf("callback error = %v, want ErrWriteFailed", writeErr)
	}
}

// =============================================================================
// Close Tests
// =============================================================================

func TestClose(t *testing.T) {
	fake, srv := newFakeInflux(t)

	client, err := influxdb.Connect(context.Background(), testConfig(srv.URL))
	if err != nil {
		t.Fatalf("Connect() error = %v", err)
	}

	client.WriteScan(influxdb.ScanPoint{GameID: "ABCD", Suit: "SPADES", Rank: "KING", Outcome: "rejected", StatusCode: 400})

	if err := client.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
	if client.IsConnected() {
		t.Error("IsConnected() = true after Close()")
	}
	if !waitFor(t, func() bool { return strings.Contains(fake.written(), "outcome=rejected") }) {
		t.Errorf("Close() did not flush pending points, got %q", fake.written())
	}

	// Writes and health checks after Close are no-ops / errors
	client.WriteScan(influxdb.ScanPoint{GameID: "ABCD"})
	client.Flush()
	if err := client.HealthCheck(context.Background()); !errors.Is(err, influxdb.ErrNotConnected) {
		t.Errorf("HealthCheck() after Close error = %v, want ErrNotConnected", err)
	}
	if err := client.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
}

func TestClose_Nil(t *testing.T) {
	var client *influxdb.Client
	if err := client.Close(); err != nil {
		t.Errorf("Close() on nil client error = %v", err)
	}
	if client.IsConnected() {
		t.Error("IsConnected() on nil client = true")
	}
}
