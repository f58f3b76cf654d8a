package server

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/sells-group/callprep/internal/store"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := s.store.Ping(r.Context()); err != nil {
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	writeJSON(w, code, map[string]string{"status": status})
}

func (s *Server) handleLocation(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")
	summary, gen, err := s.builder.BuildLocation(r.Context(), leadID)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.Header().Set("X-Prep-Generation", strconv.FormatUint(gen, 10))
	writeJSON(w, http.StatusOK, summary)
}

func (s *Server) handleOffer(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")
	low, high, ok := s.parseDiscounts(w, r)
	if !ok {
		return
	}
	rng, gen, err := s.builder.BuildOffer(r.Context(), leadID, low, high)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.Header().Set("X-Prep-Generation", strconv.FormatUint(gen, 10))
	writeJSON(w, http.StatusOK, rng)
}

func (s *Server) handleScript(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")
	low, high, ok := s.parseDiscounts(w, r)
	if !ok {
		return
	}
	scr, gen, err := s.builder.BuildScript(r.Context(), leadID, low, high)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.Header().Set("X-Prep-Generation", strconv.FormatUint(gen, 10))
	writeJSON(w, http.StatusOK, scr)
}

func (s *Server) handlePrepPack(w http.ResponseWriter, r *http.Request) {
	leadID := chi.URLParam(r, "leadID")
	low, high, ok := s.parseDiscounts(w, r)
	if !ok {
		return
	}
	pack, err := s.builder.BuildPack(r.Context(), leadID, low, high)
	if err != nil {
		s.writeStoreError(w, err)
		return
	}
	w.Header().Set("X-Prep-Generation", strconv.FormatUint(pack.Generation, 10))
	writeJSON(w, http.StatusOK, pack)
}

// parseDiscounts reads discount_low/discount_high, applying the configured
// defaults when absent. Non-numeric input is a 400; range clamping and swap
// are the calculator's job, not the handler's.
func (s *Server) parseDiscounts(w http.ResponseWriter, r *http.Request) (low, high float64, ok bool) {
	low, high = s.defLow, s.defHigh

	if raw := r.URL.Query().Get("discount_low"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_parameter", "discount_low must be a number")
			return 0, 0, false
		}
		low = v
	}
	if raw := r.URL.Query().Get("discount_high"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid_parameter", "discount_high must be a number")
			return 0, 0, false
		}
		high = v
	}
	return low, high, true
}

// writeStoreError maps boundary errors onto the HTTP taxonomy: not-found is
// 404, upstream failure is 503 so the client retries with backoff, anything
// else is a 500.
func (s *Server) writeStoreError(w http.ResponseWriter, err error) {
	switch {
	case store.IsNotFound(err):
		writeError(w, http.StatusNotFound, "not_found", err.Error())
	case store.IsUpstream(err):
		zap.L().Warn("server: upstream failure", zap.Error(err))
		writeError(w, http.StatusServiceUnavailable, "upstream_unavailable", "snapshot store unavailable")
	default:
		zap.L().Error("server: internal error", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "internal", "internal error")
	}
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, code int, reason, msg string) {
	writeJSON(w, code, map[string]string{"error": msg, "reason": reason})
}
