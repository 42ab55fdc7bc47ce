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

// AwardHandler - структура для обработки HTTP-запросов проверки и награждения.
type AwardHandler struct {
	Awards    *services.AwardService
	PreChecks *services.PreCheckService
	Logger    *log.Logger
	Timeout   time.Duration
}

// NewAwardHandler создает новый экземпляр AwardHandler.
func NewAwardHandler(awards *services.AwardService, prechecks *services.PreCheckService, logger *log.Logger, timeout time.Duration) *AwardHandler {
	return &AwardHandler{
		Awards:    awards,
		PreChecks: prechecks,
		Logger:    logger,
		Timeout:   timeout,
	}
}

// precheckRequest - тело запроса комплаенс-проверки.
type precheckRequest struct {
	VendorID string `json:"vendorId"`
}

// PreCheck обрабатывает запросы комплаенс-проверки поставщика по тендеру.
func (h *AwardHandler) PreCheck(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderID := r.PathValue("tenderId")

	var req precheckRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, models.NewErrorResponse(http.StatusBadRequest, models.ErrBadRequest, "invalid request body"))
		return
	}

	result, err := h.PreChecks.PreCheck(ctx, req.VendorID, tenderID)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse)
			return
		}
		h.Logger.Println(err)
		utils.SendInternalError(w, "failed to run precheck")
		return
	}

	if err = utils.SendJSON(w, http.StatusOK, result); err != nil {
		h.Logger.Println(err)
	}
}

// Award обрабатывает запросы финализации награждения.
func (h *AwardHandler) Award(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderID := r.PathValue("tenderId")

	var req models.AwardRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		utils.SendErrorResponse(w, models.NewErrorResponse(http.StatusBadRequest, models.ErrBadRequest, "invalid request body"))
		return
	}

	award, err := h.Awards.Award(ctx, tenderID, req)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse)
			return
		}
		h.Logger.Println(err)
		utils.SendInternalError(w, "failed to award tender")
		return
	}

	if err = utils.SendJSON(w, http.StatusOK, award); err != nil {
		h.Logger.Println(err)
	}
}

// GetAward обрабатывает запросы аудита награды, включая след override.
func (h *AwardHandler) GetAward(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderID := r.PathValue("tenderId")
	award, err := h.Awards.GetAward(ctx, tenderID)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse)
			return
		}
		h.Logger.Println(err)
		utils.SendInternalError(w, "failed to fetch award")
		return
	}

	if err = utils.SendJSON(w, http.StatusOK, award); err != nil {
		h.Logger.Println(err)
	}
}
