// Package account handles guest sign-up and email verification.
package account

import (
	"context"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/angelmondragon/hearth-storefront/pkg/backend"
	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/angelmondragon/hearth-storefront/pkg/logger"
	"github.com/angelmondragon/hearth-storefront/pkg/types"
	"github.com/go-playground/validator/v10"
)

const (
	msgFillRequired    = "Please fill in all required fields."
	msgInvalidUsername = "Username must be at least 3 characters and contain only letters, numbers, or underscores."
	msgInvalidEmail    = "Please enter a valid email address."
	msgInvalidPassword = "Password must be at least 6 characters and include at least 1 letter and 1 number."
	msgInvalidPhone    = "Phone number is invalid. Use international format e.g. +2547XXXXXXX."
	msgRegistered      = "Registration successful! Check your email for verification."
	msgServerError     = "Server error. Please try again later."
	msgRegisterFailed  = "Registration failed."
	msgMissingToken    = "Missing or invalid token."
	msgEmailVerified   = "Email verified successfully!"
	msgVerifyFailed    = "Verification failed. Try again."
	defaultVerifyDelay = 4 * time.Second
	loginPath          = "/login"
	tagUsername        = "username"
	tagPassword        = "password"
	tagPhone           = "phone"
	tagEmailShape      = "email_shape"
)

var (
	usernamePattern = regexp.MustCompile(`^[a-zA-Z0-9_]{3,}$`)
	emailPattern    = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	passwordPattern = regexp.MustCompile(`^[A-Za-z\d]{6,}$`)
	letterPattern   = regexp.MustCompile(`[A-Za-z]`)
	digitPattern    = regexp.MustCompile(`\d`)
	phonePattern    = regexp.MustCompile(`^\+?\d{7,15}$`)
)

// RegisterInput is the sign-up form.
type RegisterInput struct {
	UserName    string `json:"userName" validate:"required,username"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email" validate:"required,email_shape"`
	Password    string `json:"password" validate:"required,password"`
	Phone       string `json:"phone" validate:"required,phone"`
	Nationality string `json:"nationality" validate:"required"`
}

// Result is a confirmation shown to the guest.
type Result struct {
	Message  string          `json:"message"`
	Redirect *types.Redirect `json:"redirect,omitempty"`
}

type accountClient interface {
	Register(ctx context.Context, payload backend.RegisterRequest) (*backend.MessageResult, error)
	VerifyEmail(ctx context.Context, token string) (*backend.MessageResult, error)
}

// Service runs sign-up and verification against the hotel API.
type Service struct {
	client      accountClient
	validate    *validator.Validate
	logg        *logger.Logger
	verifyDelay time.Duration
}

func NewService(client accountClient, verifyDelay time.Duration, logg *logger.Logger) (*Service, error) {
	if client == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "account client required")
	}
	if verifyDelay <= 0 {
		verifyDelay = defaultVerifyDelay
	}
	if logg == nil {
		logg = logger.Nop()
	}
	return &Service{
		client:      client,
		validate:    newValidator(),
		logg:        logg,
		verifyDelay: verifyDelay,
	}, nil
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation(tagUsername, func(fl validator.FieldLevel) bool {
		return usernamePattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation(tagEmailShape, func(fl validator.FieldLevel) bool {
		return emailPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation(tagPassword, func(fl validator.FieldLevel) bool {
		pw := fl.Field().String()
		return passwordPattern.MatchString(pw) && letterPattern.MatchString(pw) && digitPattern.MatchString(pw)
	})
	_ = v.RegisterValidation(tagPhone, func(fl validator.FieldLevel) bool {
		return phonePattern.MatchString(fl.Field().String())
	})
	return v
}

// ValidateRegistration returns the first problem with the form as the
// message the sign-up page shows.
func (s *Service) ValidateRegistration(in RegisterInput) error {
	in = trimInput(in)
	err := s.validate.Struct(in)
	if err == nil {
		return nil
	}
	errs, ok := err.(validator.ValidationErrors)
	if !ok || len(errs) == 0 {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, msgFillRequired)
	}
	for _, fe := range errs {
		if fe.Tag() == "required" {
			return pkgerrors.New(pkgerrors.CodeValidation, msgFillRequired)
		}
	}
	var msg string
	switch errs[0].Tag() {
	case tagUsername:
		msg = msgInvalidUsername
	case tagEmailShape:
		msg = msgInvalidEmail
	case tagPassword:
		msg = msgInvalidPassword
	case tagPhone:
		msg = msgInvalidPhone
	default:
		msg = msgFillRequired
	}
	return pkgerrors.New(pkgerrors.CodeValidation, msg).WithDetails(map[string]string{"field": errs[0].Field()})
}

// Register validates the form and creates the account.
func (s *Service) Register(ctx context.Context, in RegisterInput) (*Result, error) {
	if err := s.ValidateRegistration(in); err != nil {
		return nil, err
	}
	in = trimInput(in)
	_, err := s.client.Register(ctx, backend.RegisterRequest{
		UserName:    in.UserName,
		FirstName:   in.FirstName,
		LastName:    in.LastName,
		Email:       in.Email,
		Phone:       in.Phone,
		Nationality: in.Nationality,
		Password:    in.Password,
	})
	if err != nil {
		s.logg.Error(ctx, "register failed", err)
		return nil, registerError(err)
	}
	return &Result{Message: msgRegistered}, nil
}

func registerError(err error) error {
	status, _ := backend.StatusOf(err)
	msg := backend.MessageOf(err)
	switch {
	case status == http.StatusBadRequest && msg != "":
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, msg)
	case status == http.StatusInternalServerError:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msgServerError)
	default:
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, msgRegisterFailed)
	}
}

// VerifyEmail confirms the address behind token and sends the guest to the
// login page once the message has been read.
func (s *Service) VerifyEmail(ctx context.Context, token string) (*Result, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, msgMissingToken)
	}
	res, err := s.client.VerifyEmail(ctx, token)
	if err != nil {
		s.logg.Error(ctx, "verify email failed", err)
		msg := backend.MessageOf(err)
		if msg == "" {
			msg = msgVerifyFailed
		}
		code := pkgerrors.CodeDependency
		if typed := pkgerrors.As(err); typed != nil {
			code = typed.Code()
		}
		return nil, pkgerrors.Wrap(code, err, msg)
	}
	msg := msgEmailVerified
	if res != nil && strings.TrimSpace(res.Message) != "" {
		msg = res.Message
	}
	return &Result{
		Message:  msg,
		Redirect: &types.Redirect{To: loginPath, AfterMS: s.verifyDelay.Milliseconds()},
	}, nil
}

func trimInput(in RegisterInput) RegisterInput {
	in.UserName = strings.TrimSpace(in.UserName)
	in.FirstName = strings.TrimSpace(in.FirstName)
	in.LastName = strings.TrimSpace(in.LastName)
	in.Email = strings.TrimSpace(in.Email)
	in.Phone = strings.TrimSpace(in.Phone)
	in.Nationality = strings.TrimSpace(in.Nationality)
	return in
}
