package handler

import (
	"net/http"
	"strings"

	"github.com/osse101/Atelier_Go/internal/domain"
	"github.com/osse101/Atelier_Go/internal/logger"
	"github.com/osse101/Atelier_Go/internal/production"
)

// ProductionRequest asks for a number of units of one product
type ProductionRequest struct {
	ProductID string `json:"product_id" validate:"required,max=64,excludesall=\x00\n\r\t"`
	Units     int    `json:"units" validate:"required,min=1,max=100000"`
}

// ProductionResponse carries the run whatever its outcome
type ProductionResponse struct {
	Message string                `json:"message"`
	Run     *domain.ProductionRun `json:"run"`
	Error   string                `json:"error,omitempty"`
}

// StockAdjustmentRequest corrects the balance of one raw material
type StockAdjustmentRequest struct {
	Kind   string  `json:"kind" validate:"required,resource_kind"`
	Name   string  `json:"name" validate:"required,max=200,excludesall=\x00\n\r\t"`
	Delta  float64 `json:"delta" validate:"required,ne=0"`
	Reason string  `json:"reason" validate:"max=500"`
}

// HandleExecuteProduction runs a production request.
// A rejected run is returned with the status of its rejection error so clients
// see which requirement fell short.
func HandleExecuteProduction(svc production.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req ProductionRequest
		if err := DecodeAndValidateRequest(r, w, &req, OpProduction); err != nil {
			return
		}

		log := logger.FromContext(r.Context())
		log.Debug("Request details", "product_id", req.ProductID, "units", req.Units)

		run, err := svc.Execute(r.Context(), req.ProductID, req.Units)
		if err != nil {
			if run == nil {
				respondServiceError(w, r, OpProduction, err)
				return
			}
			status, message := mapServiceErrorToUserMessage(err)
			log.Warn(OpProduction+" rejected", "run_id", run.ID, "reason", run.RejectionReason, "status", status)
			respondJSON(w, status, ProductionResponse{
				Message: MsgProductionRejected,
				Run:     run,
				Error:   message,
			})
			return
		}

		respondJSON(w, http.StatusCreated, ProductionResponse{Message: MsgProductionCommitted, Run: run})
	}
}

// HandleAdjustStock applies a manual correction to a raw-material balance
func HandleAdjustStock(svc production.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req StockAdjustmentRequest
		if err := DecodeAndValidateRequest(r, w, &req, OpAdjustStock); err != nil {
			return
		}

		kind := domain.ResourceKind(strings.ToLower(req.Kind))
		rec, err := svc.AdjustStock(r.Context(), kind, req.Name, req.Delta, req.Reason)
		if err != nil {
			respondServiceError(w, r, OpAdjustStock, err)
			return
		}

		respondJSON(w, http.StatusOK, DataResponse{Message: MsgStockAdjusted, Data: rec})
	}
}
