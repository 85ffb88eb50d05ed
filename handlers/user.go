package handlers

import (
	"net/http"

	"github.com/spineai/backend/app"
	"github.com/spineai/backend/middleware"
	"github.com/spineai/backend/utils"
	"go.uber.org/zap"
)

// GetCurrentUserHandler returns the profile of the authenticated user.
// Must be mounted behind RequireAuth.
func GetCurrentUserHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		profile, err := deps.Users.Profile(middleware.GetIdentityFromContext(r.Context()))
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		if err := utils.WriteOK(w, profile); err != nil {
			deps.Logger.Error("failed to write profile response", zap.Error(err))
		}
	}
}

// GetDashboardHandler returns dashboard data for the authenticated user.
// Must be mounted behind RequireAuth.
func GetDashboardHandler(deps *app.Dependencies) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		dashboard, err := deps.Users.Dashboard(middleware.GetIdentityFromContext(r.Context()))
		if err != nil {
			HandleServiceError(w, err, deps.Logger)
			return
		}
		if err := utils.WriteOK(w, dashboard); err != nil {
			deps.Logger.Error("failed to write dashboard response", zap.Error(err))
		}
	}
}
