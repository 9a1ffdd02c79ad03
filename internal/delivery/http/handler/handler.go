package handler

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/akazwz/extract/internal/delivery/http/request"
	"github.com/akazwz/extract/internal/delivery/http/response"
	"github.com/akazwz/extract/internal/usecase"
)

type Handler struct {
	inventoryManager usecase.InventoryManager
}

func NewHandler(inventoryManager usecase.InventoryManager) *Handler {
	return &Handler{
		inventoryManager: inventoryManager,
	}
}

func (h *Handler) HandleSubmitExtract(w http.ResponseWriter, r *http.Request) {
	var req request.SubmitExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.writeJSONError(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	if _, err := url.ParseRequestURI(req.URL); err != nil {
		h.writeJSONError(w, "Invalid URL format", http.StatusBadRequest)
		return
	}

	requestID, err := h.inventoryManager.Submit(r.Context(), req.URL, req.Force)
	if err != nil {
		if errors.Is(err, usecase.ErrURLRecentlyExtracted) {
			h.writeJSONError(w, err.Error(), http.StatusConflict)
			return
		}
		slog.Error("Failed to submit URL", "url", req.URL, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := response.SubmitExtractResponse{
		Status:           "success",
		Message:          "URL submitted for image extraction",
		ExtractRequestID: requestID,
	}
	h.writeJSON(w, http.StatusAccepted, resp)
}

func (h *Handler) HandleGetStatus(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		h.writeJSONError(w, "URL query parameter is required", http.StatusBadRequest)
		return
	}

	if _, err := url.ParseRequestURI(rawURL); err != nil {
		h.writeJSONError(w, "Invalid URL format in query parameter", http.StatusBadRequest)
		return
	}

	status, err := h.inventoryManager.GetStatus(r.Context(), rawURL)
	if err != nil {
		slog.Error("Failed to get extraction status", "url", rawURL, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	if status.CurrentStatus == "not_found" {
		h.writeJSONError(w, "Extraction status not found for the given URL", http.StatusNotFound)
		return
	}

	resp := response.ExtractionStatusResponse{
		URL:             status.URL,
		CurrentStatus:   status.CurrentStatus,
		LastExtractedAt: status.LastExtractedAt,
		NextRetryAt:     status.NextRetryAt,
		FailureReason:   status.FailureReason,
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleGetImages(w http.ResponseWriter, r *http.Request) {
	rawURL := r.URL.Query().Get("url")
	if rawURL == "" {
		h.writeJSONError(w, "URL query parameter is required", http.StatusBadRequest)
		return
	}

	inv, err := h.inventoryManager.GetImages(r.Context(), rawURL)
	if err != nil {
		if errors.Is(err, usecase.ErrInventoryNotFound) {
			h.writeJSONError(w, err.Error(), http.StatusNotFound)
			return
		}
		slog.Error("Failed to get image inventory", "url", rawURL, "error", err)
		h.writeJSONError(w, "Internal server error", http.StatusInternalServerError)
		return
	}

	resp := response.ImagesResponse{
		URL:          inv.URL,
		PageTitle:    inv.PageTitle,
		Images:       inv.Images,
		ImageCount:   inv.ImageCount,
		DecodedCount: inv.DecodedCount,
		ExtractedAt:  inv.ExtractedTimestamp,
	}

	h.writeJSON(w, http.StatusOK, resp)
}

func (h *Handler) HandleHealthCheck(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Error("Failed to write JSON response", "error", err)
	}
}

func (h *Handler) writeJSONError(w http.ResponseWriter, message string, status int) {
	h.writeJSON(w, status, map[string]string{"error": message})
}
