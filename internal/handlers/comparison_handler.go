package handlers

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"time"

	"github.com/senyabanana/tender-engine/internal/models"
	"github.com/senyabanana/tender-engine/internal/services"
	"github.com/senyabanana/tender-engine/internal/utils"
)

// ComparisonHandler - структура для обработки HTTP-запросов сравнения предложений.
type ComparisonHandler struct {
	Service *services.ComparisonService
	Logger  *log.Logger
	Timeout time.Duration
}

// NewComparisonHandler создает новый экземпляр ComparisonHandler.
func NewComparisonHandler(service *services.ComparisonService, logger *log.Logger, timeout time.Duration) *ComparisonHandler {
	return &ComparisonHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// compareRequest - необязательные веса для прогона сравнения.
type compareRequest struct {
	Weights *models.ScoringWeights `json:"weights,omitempty"`
}

// Compare обрабатывает запросы на прогон сравнения предложений тендера.
func (h *ComparisonHandler) Compare(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderID := r.PathValue("tenderId")

	var req compareRequest
	if r.Body != nil && r.ContentLength > 0 {
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			utils.SendErrorResponse(w, models.NewErrorResponse(http.StatusBadRequest, models.ErrBadRequest, "invalid request body"))
			return
		}
	}

	result, err := h.Service.Compare(ctx, tenderID, req.Weights)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse)
			return
		}
		h.Logger.Println(err)
		utils.SendInternalError(w, "failed to compare offers")
		return
	}

	if err = utils.SendJSON(w, http.StatusOK, result); err != nil {
		h.Logger.Println(err)
	}
}

// GetComparisons обрабатывает запросы сохраненных снимков сравнений тендера.
func (h *ComparisonHandler) GetComparisons(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderID := r.PathValue("tenderId")
	results, err := h.Service.GetComparisons(ctx, tenderID)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse)
			return
		}
		h.Logger.Println(err)
		utils.SendInternalError(w, "failed to fetch comparisons")
		return
	}

	if err = utils.SendJSON(w, http.StatusOK, results); err != nil {
		h.Logger.Println(err)
	}
}
