package server

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/nao1215/scholarshield/internal/database"
	"github.com/nao1215/scholarshield/internal/dataset"
	"github.com/nao1215/scholarshield/internal/model"
	"github.com/nao1215/scholarshield/internal/pipeline"
)

func testDataset() *dataset.Dataset {
	return dataset.New([]string{"scholarships.gov.in"}, []string{"scam123.xyz"})
}

func newTestServer(t *testing.T, opts ...Option) (*Server, *httptest.Server) {
	t.Helper()

	opts = append([]Option{WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil)))}, opts...)
	s := New(testDataset(), opts...)
	ts := httptest.NewServer(s)
	t.Cleanup(ts.Close)
	return s, ts
}

func newTestHistory(t *testing.T) *database.HistoryDB {
	t.Helper()

	db, err := database.Open(t.TempDir(), database.DefaultOptions())
	if err != nil {
		t.Fatalf("failed to open database: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	return db
}

func post(t *testing.T, url, body string) *http.Response {
	t.Helper()

	resp, err := http.Post(url, "application/json", strings.NewReader(body)) //nolint:noctx // test helper
	if err != nil {
		t.Fatalf("POST %s failed: %v", url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func get(t *testing.T, url string) *http.Response {
	t.Helper()

	resp, err := http.Get(url) //nolint:noctx // test helper
	if err != nil {
		t.Fatalf("GET %s failed: %v", url, err)
	}
	t.Cleanup(func() { _ = resp.Body.Close() })
	return resp
}

func decode(t *testing.T, resp *http.Response, v any) {
	t.Helper()

	if err := json.NewDecoder(resp.Body).Decode(v); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
}

// TestHealth tests the liveness endpoint.
func TestHealth(t *testing.T) {
	t.Parallel()

	_, ts := newTestServer(t)

	resp := get(t, ts.URL+"/healthz")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	var body HealthResponse
	decode(t, resp, &body)
	if body.Status != "ok" || body.VerifiedDomains != 1 || body.KnownScamDomains != 1 {
		t.Errorf("unexpected health response: %+v", body)
	}
	want := strings.Join([]string{pipeline.StepURL, pipeline.StepContent, pipeline.StepVerdict}, ",")
	if got := strings.Join(body.Steps, ","); got != want {
		t.Errorf("Steps = %q, want %q", got, want)
	}
}

// TestScan tests the single scan endpoint.
func TestScan(t *testing.T) {
	t.Parallel()

	t.Run("scores a known scam as danger", func(t *testing.T) {
		t.Parallel()

		_, ts := newTestServer(t)

		resp := post(t, ts.URL+"/api/v1/scan", `{"url":"https://scam123.xyz","content":"Pay registration fee today"}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}
		if ct := resp.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected application/json, got %q", ct)
		}

		var report model.ScanReport
		decode(t, resp, &report)

		if report.URL == nil || report.URL.RiskScore != model.MaxURLScore {
			t.Fatalf("expected URL score %d, got %+v", model.MaxURLScore, report.URL)
		}
		// fee pattern plus short text
		if report.Content == nil || report.Content.RiskScore != 16 {
			t.Fatalf("expected content score 16, got %+v", report.Content)
		}
		if report.Verdict == nil || report.Verdict.TotalScore != 76 || report.Verdict.Level != model.LevelDanger {
			t.Errorf("unexpected verdict: %+v", report.Verdict)
		}
		if report.Headline == "" || report.Recommendation == "" {
			t.Error("expected headline and recommendation")
		}
	})

	t.Run("content only is accepted", func(t *testing.T) {
		t.Parallel()

		_, ts := newTestServer(t)

		resp := post(t, ts.URL+"/api/v1/scan", `{"content":"Congratulations you have been selected"}`)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		var report model.ScanReport
		decode(t, resp, &report)
		if report.URL == nil || report.URL.Tags[0] != "Invalid URL" {
			t.Errorf("expected invalid URL analysis, got %+v", report.URL)
		}
	})

	errorCases := []struct {
		name   string
		body   string
		status int
	}{
		{name: "invalid JSON", body: `{"url":`, status: http.StatusBadRequest},
		{name: "wrong type", body: `{"url":42}`, status: http.StatusBadRequest},
		{name: "empty input", body: `{"url":"  ","content":""}`, status: http.StatusBadRequest},
	}

	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, ts := newTestServer(t)

			resp := post(t, ts.URL+"/api/v1/scan", tc.body)
			if resp.StatusCode != tc.status {
				t.Fatalf("expected %d, got %d", tc.status, resp.StatusCode)
			}

			var body map[string]string
			decode(t, resp, &body)
			if body["error"] == "" {
				t.Error("expected error message in body")
			}
		})
	}

	t.Run("body over the limit is rejected", func(t *testing.T) {
		t.Parallel()

		_, ts := newTestServer(t, WithMaxBodySize(32))

		body := `{"url":"https://example.com","content":"` + strings.Repeat("a", 64) + `"}`
		resp := post(t, ts.URL+"/api/v1/scan", body)
		if resp.StatusCode != http.StatusRequestEntityTooLarge {
			t.Fatalf("expected 413, got %d", resp.StatusCode)
		}
	})
}

// TestScanBatch tests the batch endpoint.
func TestScanBatch(t *testing.T) {
	t.Parallel()

	t.Run("keeps input order", func(t *testing.T) {
		t.Parallel()

		_, ts := newTestServer(t, WithConcurrency(2))

		body := `[
			{"url":"https://scam123.xyz"},
			{"url":"https://scholarships.gov.in"},
			{"url":"http://192.168.10.20"}
		]`
		resp := post(t, ts.URL+"/api/v1/scan/batch", body)
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		var reports []*model.ScanReport
		decode(t, resp, &reports)

		want := []string{"scam123.xyz", "scholarships.gov.in", "192.168.10.20"}
		if len(reports) != len(want) {
			t.Fatalf("expected %d reports, got %d", len(want), len(reports))
		}
		for i, domain := range want {
			if got := reports[i].Domain(); got != domain {
				t.Errorf("report %d: expected domain %q, got %q", i, domain, got)
			}
		}
	})

	errorCases := []struct {
		name string
		body string
	}{
		{name: "not an array", body: `{"url":"https://example.com"}`},
		{name: "empty array", body: `[]`},
		{name: "empty item", body: `[{"url":"https://example.com"},{}]`},
		{name: "too many items", body: "[" + strings.TrimSuffix(strings.Repeat(`{"url":"a.com"},`, MaxBatchItems+1), ",") + "]"},
	}

	for _, tc := range errorCases {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			_, ts := newTestServer(t)

			resp := post(t, ts.URL+"/api/v1/scan/batch", tc.body)
			if resp.StatusCode != http.StatusBadRequest {
				t.Fatalf("expected 400, got %d", resp.StatusCode)
			}
		})
	}
}

// TestHistory tests that scans are stored and listed per domain.
func TestHistory(t *testing.T) {
	t.Parallel()

	t.Run("lists stored scans", func(t *testing.T) {
		t.Parallel()

		history := newTestHistory(t)
		_, ts := newTestServer(t, WithHistory(history))

		post(t, ts.URL+"/api/v1/scan", `{"url":"https://scam123.xyz","content":"Call 9876543210 on WhatsApp"}`)
		post(t, ts.URL+"/api/v1/scan", `{"url":"https://SCAM123.xyz/apply"}`)

		resp := get(t, ts.URL+"/api/v1/history/Scam123.XYZ")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		var body HistoryResponse
		decode(t, resp, &body)
		if body.Domain != "scam123.xyz" {
			t.Errorf("expected normalized domain, got %q", body.Domain)
		}
		if len(body.Scans) != 2 {
			t.Fatalf("expected 2 scans, got %d", len(body.Scans))
		}
		for _, scan := range body.Scans {
			if scan.Level == "" || scan.ScanID == "" {
				t.Errorf("incomplete metadata: %+v", scan)
			}
		}

		// the stored report must not keep the page text
		stored, err := history.GetLatestScanReport(context.Background(), "scam123.xyz")
		if err != nil || stored == nil {
			t.Fatalf("expected stored report, got %v, %v", stored, err)
		}
		if stored.Input.Content != "" {
			t.Error("expected content to be stripped from history")
		}
	})

	t.Run("unknown domain returns empty list", func(t *testing.T) {
		t.Parallel()

		_, ts := newTestServer(t, WithHistory(newTestHistory(t)))

		resp := get(t, ts.URL+"/api/v1/history/never-scanned.org")
		if resp.StatusCode != http.StatusOK {
			t.Fatalf("expected 200, got %d", resp.StatusCode)
		}

		raw, _ := io.ReadAll(resp.Body)
		if !bytes.Contains(raw, []byte(`"scans":[]`)) {
			t.Errorf("expected empty scans array, got %s", raw)
		}
	})

	t.Run("disabled history returns 404", func(t *testing.T) {
		t.Parallel()

		_, ts := newTestServer(t)

		resp := get(t, ts.URL+"/api/v1/history/example.com")
		if resp.StatusCode != http.StatusNotFound {
			t.Fatalf("expected 404, got %d", resp.StatusCode)
		}
	})
}

// TestMetrics tests the Prometheus endpoint.
func TestMetrics(t *testing.T) {
	t.Parallel()

	_, ts := newTestServer(t)

	post(t, ts.URL+"/api/v1/scan", `{"url":"https://scam123.xyz","content":"Pay registration fee today"}`)
	post(t, ts.URL+"/api/v1/scan", `{"url":`)

	resp := get(t, ts.URL+"/metrics")
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("failed to read metrics: %v", err)
	}
	output := string(raw)

	wants := []string{
		`scholarshield_scans_total{level="danger"} 1`,
		`scholarshield_scans_total{level="safe"} 0`,
		`scholarshield_scan_score_count 1`,
		`scholarshield_http_request_duration_seconds_count{method="POST",route="/api/v1/scan",status="200"} 1`,
		`scholarshield_http_request_duration_seconds_count{method="POST",route="/api/v1/scan",status="400"} 1`,
	}
	for _, want := range wants {
		if !strings.Contains(output, want) {
			t.Errorf("expected metrics to contain %q", want)
		}
	}
}

// TestRun tests that Run stops when the context is cancelled.
func TestRun(t *testing.T) {
	t.Parallel()

	s := New(testDataset(),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
		WithShutdownTimeout(time.Second),
	)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- s.Run(ctx, "127.0.0.1:0")
	}()

	time.Sleep(50 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Errorf("expected nil error, got %v", err)
		}
	case <-time.After(5 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
}
