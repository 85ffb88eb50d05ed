package handlers

import (
	"net/http"

	"github.com/spineai/backend/services"
	"github.com/spineai/backend/utils"
	"go.uber.org/zap"
)

// HandleServiceError maps domain errors to HTTP responses
func HandleServiceError(w http.ResponseWriter, err error, logger *zap.Logger) {
	if err == nil {
		return
	}

	switch {
	case services.IsUnauthorizedError(err):
		logger.Warn("unauthorized request",
			zap.String("reason", string(services.GetUnauthorizedReason(err))),
			zap.Error(err))
		if err := utils.WriteUnauthorized(w, ""); err != nil {
			logger.Error("failed to write unauthorized response", zap.Error(err))
		}

	default:
		// Log internal errors but return generic message
		logger.Error("internal server error", zap.Error(err))
		if err := utils.WriteInternalServerError(w, "An internal error occurred"); err != nil {
			logger.Error("failed to write internal error response", zap.Error(err))
		}
	}
}
