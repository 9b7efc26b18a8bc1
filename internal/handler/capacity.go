package handler

import (
	"net/http"

	"github.com/osse101/Atelier_Go/internal/capacity"
	"github.com/osse101/Atelier_Go/internal/domain"
)

// CapacityResponse is the fleet-wide capacity analysis
type CapacityResponse struct {
	Summary *domain.CapacitySummary `json:"summary"`
	Reports []domain.CapacityReport `json:"reports"`
}

// HandleGetCapacity returns the capacity summary and the per-product reports in catalog order
func HandleGetCapacity(svc capacity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		summary, reports, err := svc.Report(r.Context())
		if err != nil {
			respondServiceError(w, r, OpCapacityReport, err)
			return
		}

		respondJSON(w, http.StatusOK, CapacityResponse{Summary: summary, Reports: reports})
	}
}

// HandleGetProductCapacity returns the capacity report of a single product
func HandleGetProductCapacity(svc capacity.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		productID, ok := GetPathParam(r, w, ParamProductID)
		if !ok {
			return
		}

		report, err := svc.ProductReport(r.Context(), productID)
		if err != nil {
			respondServiceError(w, r, OpProductReport, err)
			return
		}

		respondJSON(w, http.StatusOK, report)
	}
}
