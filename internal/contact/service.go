// Package contact forwards the public contact form to the hotel API.
package contact

import (
	"context"
	"net/http"
	"reflect"
	"strings"

	"github.com/angelmondragon/hearth-storefront/pkg/backend"
	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/logger"
	"github.com/go-playground/validator/v10"
)

const (
	msgSent        = "Your message has been sent. We'll get back to you soon."
	msgServerError = "Server error. Please try again later."
	msgSendFailed  = "Failed to send message."
	msgInvalidForm = "Please fill in all fields with a valid email address."
)

// Message is the contact form.
type Message struct {
	Name    string `json:"name" validate:"required,max=120"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required,max=200"`
	Message string `json:"message" validate:"required,max=5000"`
}

type contactClient interface {
	SendContact(ctx context.Context, payload backend.ContactRequest) (*backend.MessageResult, error)
}

type Service struct {
	client   contactClient
	validate *validator.Validate
	logg     *logger.Logger
}

func NewService(client contactClient, logg *logger.Logger) (*Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "contact client required")
	}
	if logg == nil {
		logg = logger.Nop()
	}
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		return strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
	})
	return &Service{client: client, validate: v, logg: logg}, nil
}

// Send validates msg and posts it. The returned string is the confirmation
// shown to the guest.
func (s *Service) Send(ctx context.Context, msg Message) (string, error) {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(msg.Email)
	msg.Subject = strings.TrimSpace(msg.Subject)
	msg.Message = strings.TrimSpace(msg.Message)

	if err := s.validate.Struct(msg); err != nil {
		details := map[string]string{}
		if errs, ok := err.(validator.ValidationErrors); ok {
			for _, fe := range errs {
				details[fe.Field()] = fe.Tag()
			}
		}
		return "", pkgerrors.New(pkgerrors.CodeValidation, msgInvalidForm).WithDetails(details)
	}

	_, err := s.client.SendContact(ctx, backend.ContactRequest{
		Name:    msg.Name,
		Email:   msg.Email,
		Subject: msg.Subject,
		Message: msg.Message,
	})
	if err != nil {
		s.logg.Error(ctx, "send contact message failed", err)
		return "", sendError(err)
	}
	return msgSent, nil
}

func sendError(err error) error {
	status, _ := backend.StatusOf(err)
	msg := backend.MessageOf(err)
	switch {
	case status == http.StatusBadRequest && msg != "":
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, msg)
	case status == http.StatusNotFound && msg != "":
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, msg)
	case status == http.StatusInternalServerError:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msgServerError)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msgSendFailed)
	}
}
