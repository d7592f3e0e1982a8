package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/hearth-storefront/api/middleware"
	"github.com/angelmondragon/hearth-storefront/api/responses"
	"github.com/angelmondragon/hearth-storefront/internal/workspace"
	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/logger"
)

// Workspaces hands out the live state of a browser session.
type Workspaces interface {
	Get(ctx context.Context, sessionID string) (*workspace.Workspace, error)
}

func sessionWorkspace(w http.ResponseWriter, r *http.Request, spaces Workspaces, logg *logger.Logger) (*workspace.Workspace, bool) {
	if spaces == nil {
		responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "workspaces unavailable"))
		return nil, false
	}
	ws, err := spaces.Get(r.Context(), middleware.SessionIDFromContext(r.Context()))
	if err != nil {
		responses.WriteError(r.Context(), logg, w, err)
		return nil, false
	}
	return ws, true
}
