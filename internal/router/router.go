package router

import (
	"net/http"

	"github.com/senyabanana/tender-engine/internal/handlers"
)

func InitRoutes(tenderHandler *handlers.TenderHandler, offerHandler *handlers.OfferHandler, comparisonHandler *handlers.ComparisonHandler, awardHandler *handlers.AwardHandler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /api/ping", handlers.PingHandler)

	mux.HandleFunc("POST /api/tenders/new", tenderHandler.CreateTender)
	mux.HandleFunc("GET /api/tenders/{tenderId}/status", tenderHandler.GetTenderStatus)
	mux.HandleFunc("PUT /api/tenders/{tenderId}/cancel", tenderHandler.CancelTender)

	mux.HandleFunc("POST /api/offers/submit", offerHandler.SubmitOffer)

	mux.HandleFunc("POST /api/tenders/{tenderId}/compare", comparisonHandler.Compare)
	mux.HandleFunc("GET /api/tenders/{tenderId}/comparisons", comparisonHandler.GetComparisons)

	mux.HandleFunc("POST /api/tenders/{tenderId}/precheck", awardHandler.PreCheck)
	mux.HandleFunc("POST /api/tenders/{tenderId}/award", awardHandler.Award)
	mux.HandleFunc("GET /api/tenders/{tenderId}/award", awardHandler.GetAward)

	return mux
}
