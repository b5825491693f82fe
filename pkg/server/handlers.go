package server

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/srinathmkce/imagetoken/pkg/batch"
	"github.com/srinathmkce/imagetoken/pkg/dimensions"
	"github.com/srinathmkce/imagetoken/pkg/processing/costs"
	"github.com/srinathmkce/imagetoken/pkg/processing/tokens"
	"github.com/srinathmkce/imagetoken/pkg/registry"
	"github.com/srinathmkce/imagetoken/pkg/telemetry/logging"
	"github.com/srinathmkce/imagetoken/pkg/telemetry/tracing"
)

// maxBodyBytes bounds request bodies; data URLs are the largest legitimate ones.
const maxBodyBytes = 16 << 20

// TokensRequest is the body of POST /v1/tokens. Either Width and Height or
// URL must be set. URL may be an http(s) URL or a base64 data URL.
type TokensRequest struct {
	Model        string `json:"model"`
	Width        int    `json:"width,omitempty"`
	Height       int    `json:"height,omitempty"`
	URL          string `json:"url,omitempty"`
	PrefixTokens *int   `json:"prefix_tokens,omitempty"`
}

// CostRequest is the body of POST /v1/cost.
type CostRequest struct {
	Model         string `json:"model"`
	InputTokens   int    `json:"input_tokens"`
	OutputTokens  int    `json:"output_tokens"`
	InputModality string `json:"input_modality,omitempty"`
}

// ModelInfo is one entry of GET /v1/models.
type ModelInfo struct {
	Name     string               `json:"name"`
	Provider registry.Provider    `json:"provider"`
	Family   registry.Family      `json:"family"`
	Config   registry.ModelConfig `json:"config"`
}

// ModelsResponse is the body of GET /v1/models.
type ModelsResponse struct {
	Version string      `json:"version"`
	Models  []ModelInfo `json:"models"`
}

func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	var req TokensRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, errorTypeInvalidRequest, err.Error())
		return
	}
	ctx := logging.WithModel(r.Context(), req.Model)
	span := tracing.SpanFromContext(ctx)

	// Resolve the model first so a bad name never costs a download.
	cfg, err := s.estimator.Registry().Get(req.Model)
	if err != nil {
		s.metrics.RecordEstimateError(batch.ErrorReason(err))
		writeErr(w, r, err)
		return
	}
	tracing.SetModelAttributes(span, req.Model, string(cfg.Provider()), cfg.Family().String())

	width, height := req.Width, req.Height
	sourceKind := "dimensions"
	if req.URL != "" {
		var dims dimensions.Dimensions
		switch {
		case dimensions.IsURL(req.URL):
			sourceKind = dimensions.SourceURL
			dims, err = s.reader.FromURL(ctx, req.URL)
		case dimensions.IsDataURL(req.URL):
			sourceKind = dimensions.SourceDataURL
			dims, err = s.reader.FromDataURL(req.URL)
		default:
			err = fmt.Errorf("%w: url must be http(s) or a data URL", batch.ErrInvalidInput)
		}
		if err != nil {
			s.metrics.RecordEstimateError(batch.ErrorReason(err))
			logging.FromContext(ctx, s.logger).Warn("failed to read image", "error", err)
			writeErr(w, r, err)
			return
		}
		width, height = dims.Width, dims.Height
	}
	tracing.SetImageAttributes(span, width, height, sourceKind)

	prefix := s.estimator.PrefixTokens()
	if req.PrefixTokens != nil {
		prefix = *req.PrefixTokens
	}

	start := time.Now()
	est, err := s.estimator.EstimateWithPrefix(req.Model, width, height, prefix)
	if err != nil {
		s.metrics.RecordEstimateError(batch.ErrorReason(err))
		writeErr(w, r, err)
		return
	}
	s.metrics.RecordEstimate(est.Model, est.Family.String(), est.ImageTokens, time.Since(start))
	tracing.SetTokenAttributes(span, est.ImageTokens, est.PrefixTokens, est.TotalTokens)

	writeJSON(w, http.StatusOK, est)
}

func (s *Server) handleCost(w http.ResponseWriter, r *http.Request) {
	var req CostRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, errorTypeInvalidRequest, err.Error())
		return
	}

	modality := req.InputModality
	if modality == "" {
		modality = s.modality
	}

	cost, err := s.calculator.ComputeCost(req.InputTokens, req.OutputTokens, req.Model, modality)
	if err != nil {
		writeErr(w, r, err)
		return
	}
	s.metrics.RecordCost(cost.Provider, cost.Model, cost.PricingTier, cost.TotalCost)
	tracing.SetCostAttributes(tracing.SpanFromContext(r.Context()),
		cost.InputTokens, cost.OutputTokens, cost.TotalCost, cost.PricingTier, cost.Modality)

	writeJSON(w, http.StatusOK, cost)
}

func (s *Server) handleModels(w http.ResponseWriter, r *http.Request) {
	table := s.estimator.Registry().Table()

	resp := ModelsResponse{Version: table.Version()}
	for _, cfg := range table.Configs() {
		resp.Models = append(resp.Models, ModelInfo{
			Name:     cfg.ModelName(),
			Provider: cfg.Provider(),
			Family:   cfg.Family(),
			Config:   cfg,
		})
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":    "ok",
		"models":    s.estimator.Registry().Table().Len(),
		"timestamp": time.Now().Unix(),
	})
}

func decodeJSON(r *http.Request, v any) error {
	dec := json.NewDecoder(io.LimitReader(r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("invalid request body: %w", err)
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeErr maps domain errors to HTTP responses.
func writeErr(w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, registry.ErrUnknownModel), errors.Is(err, registry.ErrUnsupportedModel):
		writeError(w, r, http.StatusNotFound, errorTypeNotFound, err.Error())
	case errors.Is(err, tokens.ErrInvalidDimensions),
		errors.Is(err, tokens.ErrInvalidPrefixTokens),
		errors.Is(err, costs.ErrInvalidTokenCount),
		errors.Is(err, batch.ErrInvalidInput),
		errors.Is(err, dimensions.ErrInvalidDataURL),
		errors.Is(err, dimensions.ErrDecode):
		writeError(w, r, http.StatusBadRequest, errorTypeInvalidRequest, err.Error())
	case errors.Is(err, dimensions.ErrFetch):
		writeError(w, r, http.StatusBadGateway, errorTypeBadGateway, err.Error())
	default:
		writeError(w, r, http.StatusInternalServerError, errorTypeServer, err.Error())
	}
}
