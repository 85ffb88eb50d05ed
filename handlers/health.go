package handlers

import (
	"fmt"
	"net/http"

	"github.com/spineai/backend/app"
	"github.com/spineai/backend/utils"
	"go.uber.org/zap"
)

// HealthResponse represents the health check response
type HealthResponse struct {
	Status string `json:"status"`
}

// RootHandler reports that the API is up
func RootHandler(deps *app.Dependencies) http.HandlerFunc {
	message := fmt.Sprintf("%s API is running", deps.Config.ServiceName)
	return func(w http.ResponseWriter, r *http.Request) {
		if err := utils.WriteOK(w, utils.MessageResponse{Message: message}); err != nil {
			deps.Logger.Error("failed to write root response", zap.Error(err))
		}
	}
}

// HealthCheck always returns healthy while the process is serving
func HealthCheck(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := utils.WriteOK(w, HealthResponse{Status: "healthy"}); err != nil {
			deps.Logger.Error("failed to write health response", zap.Error(err))
		}
	}
}
