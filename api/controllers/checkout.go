package controllers

import (
	"net/http"

	"github.com/shoploop/shoploop-backend/api/responses"
	"github.com/shoploop/shoploop-backend/api/validators"
	"github.com/shoploop/shoploop-backend/internal/checkout"
	pkgerrors "github.com/shoploop/shoploop-backend/pkg/errors"
	"github.com/shoploop/shoploop-backend/pkg/logger"
)

// Checkout converts the cart into an order and returns the payment hand-off.
func Checkout(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, err := currentUserID(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var body checkout.Input
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Execute(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
