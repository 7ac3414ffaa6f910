package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/nao1215/scholarshield/internal/database"
	"github.com/nao1215/scholarshield/internal/model"
	"github.com/nao1215/scholarshield/internal/pipeline"
)

// Error messages returned to clients.
var (
	errEmptyInput    = errors.New("url or content is required")
	errEmptyBatch    = errors.New("batch must contain at least one item")
	errBatchTooLarge = fmt.Errorf("batch must not contain more than %d items", MaxBatchItems)
	errNoHistory     = errors.New("history is disabled")
)

// HealthResponse is the body of GET /healthz.
type HealthResponse struct {
	Status           string `json:"status"`
	VerifiedDomains  int    `json:"verifiedDomains"`
	KnownScamDomains int    `json:"knownScamDomains"`

	// Steps are the pipeline steps every scan runs, in order.
	Steps []string `json:"steps"`
}

// HistoryResponse is the body of GET /api/v1/history/{domain}.
type HistoryResponse struct {
	Domain string                        `json:"domain"`
	Scans  []database.ScanReportMetadata `json:"scans"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// decodeBody decodes the request body into v and writes a 400 or 413
// response on failure.
func decodeBody(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(r.Body).Decode(v); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			writeError(w, http.StatusRequestEntityTooLarge, fmt.Sprintf("request body exceeds %d bytes", maxErr.Limit))
			return false
		}
		writeError(w, http.StatusBadRequest, "invalid JSON: "+err.Error())
		return false
	}
	return true
}

func isEmptyInput(in model.ScanInput) bool {
	return strings.TrimSpace(in.URL) == "" && strings.TrimSpace(in.Content) == ""
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:           "ok",
		VerifiedDomains:  len(s.dataset.VerifiedDomains),
		KnownScamDomains: len(s.dataset.KnownScamDomains),
		Steps:            s.newPipeline().StepNames(),
	})
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	var input model.ScanInput
	if !decodeBody(w, r, &input) {
		return
	}
	if isEmptyInput(input) {
		writeError(w, http.StatusBadRequest, errEmptyInput.Error())
		return
	}

	report, err := s.newPipeline().Scan(r.Context(), input)
	if err != nil {
		s.logger.Warn("scan failed", "url", input.URL, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	s.record(r.Context(), report)
	writeJSON(w, http.StatusOK, report)
}

func (s *Server) handleScanBatch(w http.ResponseWriter, r *http.Request) {
	var inputs []model.ScanInput
	if !decodeBody(w, r, &inputs) {
		return
	}
	switch {
	case len(inputs) == 0:
		writeError(w, http.StatusBadRequest, errEmptyBatch.Error())
		return
	case len(inputs) > MaxBatchItems:
		writeError(w, http.StatusBadRequest, errBatchTooLarge.Error())
		return
	}
	for i, in := range inputs {
		if isEmptyInput(in) {
			writeError(w, http.StatusBadRequest, fmt.Sprintf("item %d: %s", i, errEmptyInput))
			return
		}
	}

	bp := pipeline.NewBatchProcessor(
		s.newPipeline,
		pipeline.WithConcurrency(s.concurrency),
		pipeline.WithBatchLogger(s.logger),
	)

	reports, err := bp.ProcessBatch(r.Context(), inputs)
	if err != nil {
		s.logger.Warn("batch scan failed", "items", len(inputs), "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	for _, report := range reports {
		s.record(r.Context(), report)
	}
	writeJSON(w, http.StatusOK, reports)
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	if s.history == nil {
		writeError(w, http.StatusNotFound, errNoHistory.Error())
		return
	}

	domain := strings.ToLower(strings.TrimSpace(chi.URLParam(r, "domain")))

	scans, err := s.history.GetScanHistoryWithMetadata(r.Context(), domain)
	if err != nil {
		s.logger.Warn("failed to read history", "domain", domain, "error", err)
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if scans == nil {
		scans = []database.ScanReportMetadata{}
	}

	writeJSON(w, http.StatusOK, HistoryResponse{Domain: domain, Scans: scans})
}
