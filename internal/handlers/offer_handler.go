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

// OfferHandler - структура для обработки HTTP-запросов подачи предложений.
type OfferHandler struct {
	Service *services.OfferService
	Logger  *log.Logger
	Timeout time.Duration
}

// NewOfferHandler создает новый экземпляр OfferHandler.
func NewOfferHandler(service *services.OfferService, logger *log.Logger, timeout time.Duration) *OfferHandler {
	return &OfferHandler{
		Service: service,
		Logger:  logger,
		Timeout: timeout,
	}
}

// SubmitOffer обрабатывает запросы подачи предложения по токену доступа.
func (h *OfferHandler) SubmitOffer(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), h.Timeout)
	defer cancel()

	var offerReq models.OfferRequest
	if err := json.NewDecoder(r.Body).Decode(&offerReq); err != nil {
		utils.SendErrorResponse(w, models.NewErrorResponse(http.StatusBadRequest, models.ErrBadRequest, "invalid request body"))
		return
	}

	submitted, err := h.Service.SubmitOffer(ctx, offerReq)
	if err != nil {
		if errorResponse, ok := err.(*models.ErrorResponse); ok {
			h.Logger.Println(err)
			utils.SendErrorResponse(w, errorResponse)
			return
		}
		h.Logger.Println(err)
		utils.SendInternalError(w, "failed to submit offer")
		return
	}

	if err = utils.SendJSON(w, http.StatusOK, submitted); err != nil {
		h.Logger.Println(err)
	}
}
