package controllers

import (
	"math"
	"net/http"

	"github.com/google/uuid"

	"github.com/angelmondragon/storefront-configurator/api/middleware"
	"github.com/angelmondragon/storefront-configurator/api/responses"
	"github.com/angelmondragon/storefront-configurator/api/validators"
	"github.com/angelmondragon/storefront-configurator/internal/editsessions"
	"github.com/angelmondragon/storefront-configurator/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront-configurator/pkg/errors"
	"github.com/angelmondragon/storefront-configurator/pkg/logger"
)

type openSessionRequest struct {
	ProductID *string `json:"product_id,omitempty" validate:"omitempty,uuid"`
	Shape     *string `json:"shape,omitempty" validate:"omitempty,oneof=simple variable bundle"`
}

func (r openSessionRequest) toInput() (editsessions.OpenInput, error) {
	var input editsessions.OpenInput
	if r.ProductID != nil {
		id, err := uuid.Parse(*r.ProductID)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product id")
		}
		input.ProductID = &id
	}
	if r.Shape != nil {
		shape, err := enums.ParseProductShape(*r.Shape)
		if err != nil {
			return input, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid product shape")
		}
		input.Shape = &shape
	}
	return input, nil
}

// SessionOpen starts an edit session, empty or seeded from a stored product.
func SessionOpen(svc editsessions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "edit session service unavailable"))
			return
		}

		var payload openSessionRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		input, err := payload.toInput()
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		view, err := svc.Open(r.Context(), input)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, view)
	}
}

// SessionGet returns the current aggregate and its summary.
func SessionGet(svc editsessions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r, logg)
		if !ok {
			return
		}
		view, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, view)
	}
}

// SessionCancel discards the session without persisting anything.
func SessionCancel(svc editsessions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r, logg)
		if !ok {
			return
		}
		if err := svc.Cancel(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteNoContent(w)
	}
}

// SessionCommand applies one edit command. Rejected commands still answer 200 with
// applied=false.
func SessionCommand(svc editsessions.Service, maxBodyBytes int64, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r, logg)
		if !ok {
			return
		}
		raw, err := validators.ReadBody(r, maxBodyBytes)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		result, err := svc.Apply(r.Context(), id, raw)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// SessionValueRemoval previews how many variants removing an option value would delete.
// The returned affected_variants is the confirm_count a remove_value command must carry.
func SessionValueRemoval(svc editsessions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r, logg)
		if !ok {
			return
		}
		axis, err := validators.RequireQueryInt(r, "axis", 0, math.MaxInt32)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		value, err := validators.RequireQueryInt(r, "value", 0, math.MaxInt32)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		plan, err := svc.PreviewValueRemoval(r.Context(), id, axis, value)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, plan)
	}
}

// SessionSubmit persists the aggregate and closes the session.
func SessionSubmit(svc editsessions.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, ok := sessionID(w, r, logg)
		if !ok {
			return
		}
		result, err := svc.Submit(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, result)
	}
}

// SessionOperations lists the command ops accepted by SessionCommand.
func SessionOperations() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		responses.WriteSuccess(w, map[string][]string{"operations": editsessions.Operations()})
	}
}

func sessionID(w http.ResponseWriter, r *http.Request, logg *logger.Logger) (uuid.UUID, bool) {
	id, ok := middleware.SessionIDFromContext(r.Context())
	if !ok {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeValidation, "session id missing"))
		return uuid.Nil, false
	}
	return id, true
}
