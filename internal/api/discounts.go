package api

import (
	"net/http"

	"discount-system/vitrina/internal/constants"
	"discount-system/vitrina/internal/logging"
	"discount-system/vitrina/internal/models/dtos"
	"discount-system/vitrina/internal/services"
)

// GetDiscounts handles GET /api/discounts
//
// @Summary      Discount lookup
// @Description  Returns the discounts for one complex, property type and payment type, in percent.
// @Description  The body is not wrapped in the API envelope; the dashboard script reads it directly.
// @Tags         Discounts
// @Produce      json
// @Param        complex_id       query  int  true  "Complex ID"
// @Param        type_id          query  int  true  "Property type ID"
// @Param        payment_type_id  query  int  true  "Payment type ID"
// @Success      200  {object}  dtos.DiscountValues
// @Failure      400  {object}  responses.APIResponse[any]
// @Router       /api/discounts [get]
func (h *Handlers) GetDiscounts() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		complexID, ok1 := positiveID(r, "complex_id")
		typeID, ok2 := positiveID(r, "type_id")
		paymentTypeID, ok3 := positiveID(r, "payment_type_id")
		if !ok1 || !ok2 || !ok3 {
			respondWithError(w, http.StatusBadRequest, constants.MsgMissingParams)
			return
		}

		values, err := h.deps.Services.Discounts.GetDiscount(r.Context(), complexID, typeID, paymentTypeID)
		if err != nil {
			logging.Error("Discount lookup failed",
				"complex_id", complexID,
				"type_id", typeID,
				"payment_type_id", paymentTypeID,
				"error", err,
			)
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch discounts")
			return
		}

		respondWithJSON(w, http.StatusOK, services.ScaleForDisplay(values))
	}
}

// GetDiscountMatrix handles GET /api/discounts/matrix
//
// @Summary      Discount matrix
// @Description  Lists stored discount rows with complex, type and payment type names.
// @Tags         Discounts
// @Produce      json
// @Param        complex_id  query  int  false  "Restrict to one complex"
// @Success      200  {object}  responses.APIResponse[[]dtos.DiscountMatrixRow]
// @Failure      400  {object}  responses.APIResponse[any]
// @Router       /api/discounts/matrix [get]
func (h *Handlers) GetDiscountMatrix() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var complexID uint
		if r.URL.Query().Get("complex_id") != "" {
			id, ok := positiveID(r, "complex_id")
			if !ok {
				respondWithError(w, http.StatusBadRequest, "complex_id must be a positive integer")
				return
			}
			complexID = id
		}

		rows, err := h.deps.Services.Discounts.Matrix(r.Context(), complexID)
		if err != nil {
			logging.Error("Discount matrix query failed", "complex_id", complexID, "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to fetch discount matrix")
			return
		}
		if rows == nil {
			rows = []dtos.DiscountMatrixRow{}
		}

		respondWithSuccess(w, http.StatusOK, "", &rows)
	}
}

// GetDashboard handles GET /api/dashboard
// Returns the catalogs, the newest comment and the last successful sync.
func (h *Handlers) GetDashboard() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		view, err := h.deps.Services.Dashboard.Load(r.Context())
		if err != nil {
			logging.Error("Dashboard load failed", "error", err)
			respondWithError(w, http.StatusInternalServerError, "Failed to load dashboard")
			return
		}
		respondWithSuccess(w, http.StatusOK, "", view)
	}
}
