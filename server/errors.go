package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/leafprotocol/leafgate/types"
)

type errorPayload struct {
	Kind    string `json:"kind"`
	Code    string `json:"code,omitempty"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorPayload `json:"error"`
}

// respondError maps the gateway error taxonomy onto HTTP statuses. Payment
// denials (403) stay distinct from ledger unavailability (503) so a caller
// can tell "your payment did not check out" from "try again in a moment".
func respondError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	payload := errorPayload{Kind: string(types.KindInternal), Message: "internal server error"}

	var ge *types.GateError
	if errors.As(err, &ge) {
		payload = errorPayload{Kind: string(ge.Kind), Code: ge.Code, Message: ge.Message}
		switch ge.Kind {
		case types.KindInput:
			status = http.StatusBadRequest
		case types.KindDenied:
			status = http.StatusForbidden
		case types.KindNotFound:
			status = http.StatusNotFound
		case types.KindTransient:
			status = http.StatusServiceUnavailable
		case types.KindInternal:
			status = http.StatusInternalServerError
		}
	}

	c.AbortWithStatusJSON(status, errorResponse{Error: payload})
}
