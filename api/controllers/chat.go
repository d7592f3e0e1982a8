package controllers

import (
	"context"
	"net/http"

	"github.com/angelmondragon/hearth-storefront/api/responses"
	"github.com/angelmondragon/hearth-storefront/api/validators"
	"github.com/angelmondragon/hearth-storefront/internal/chat"
	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/logger"
)

const maxChatMessageLen = 1000

type ChatService interface {
	Welcome() chat.Reply
	Ask(ctx context.Context, message string) (*chat.Reply, error)
}

type chatRequest struct {
	Message string `json:"message" validate:"required"`
}

func ChatWelcome(svc ChatService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "chat unavailable"))
			return
		}
		responses.WriteSuccess(w, svc.Welcome())
	}
}

func ChatAsk(svc ChatService, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "chat unavailable"))
			return
		}
		var payload chatRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		reply, err := svc.Ask(r.Context(), validators.SanitizeString(payload.Message, maxChatMessageLen))
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteSuccess(w, reply)
	}
}
