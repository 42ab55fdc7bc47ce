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

// TenderHandler - структура для обработки HTTP-запросов жизненного цикла тендера.
type TenderHandler struct {
	Service *services.TenderService
	Logger  *log.Logger
	Timeout time.Duration
}

// NewTenderHandler создает новый экземпляр TenderHandler.
func NewTenderHandler(service *services.TenderService, logger *log.Logger, timeout time.Duration) *TenderHandler {
	return &TenderHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// CreateTender обрабатывает запросы для создания тендера с приглашениями.
func (h *TenderHandler) CreateTender(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var tenderReq models.TenderRequest
	if err := json.NewDecoder(r.Body).Decode(&tenderReq); err != nil {
		utils.SendErrorResponse(w, models.NewErrorResponse(http.StatusBadRequest, models.ErrBadRequest, "invalid request body"))
		return
	}

	created, err := h.Service.CreateTender(ctx, tenderReq)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse)
			return
		}
		h.Logger.Println(err)
		utils.SendInternalError(w, "failed to create tender")
		return
	}

	if err = utils.SendJSON(w, http.StatusOK, created); err != nil {
		h.Logger.Println(err)
	}
}

// GetTenderStatus обрабатывает запросы статуса тендера; истечение вычисляется на чтении.
func (h *TenderHandler) GetTenderStatus(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderID := r.PathValue("tenderId")
	status, err := h.Service.GetTenderStatus(ctx, tenderID)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse)
			return
		}
		h.Logger.Println(err)
		utils.SendInternalError(w, "failed to fetch tender status")
		return
	}

	if err = utils.SendJSON(w, http.StatusOK, map[string]models.TenderStatus{"status": status}); err != nil {
		h.Logger.Println(err)
	}
}

// CancelTender обрабатывает запросы отмены открытого тендера.
func (h *TenderHandler) CancelTender(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	tenderID := r.PathValue("tenderId")
	if err := h.Service.CancelTender(ctx, tenderID); err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse)
			return
		}
		h.Logger.Println(err)
		utils.SendInternalError(w, "failed to cancel tender")
		return
	}

	if err := utils.SendJSON(w, http.StatusOK, map[string]models.TenderStatus{"status": models.CancelledTender}); err != nil {
		h.Logger.Println(err)
	}
}
