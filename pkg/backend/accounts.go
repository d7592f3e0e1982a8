package backend

import (
	"context"
	"net/http"
	"strings"

	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
)

// RegisterRequest is the body of POST /api/user/register.
type RegisterRequest struct {
	UserName    string `json:"userName"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Email       string `json:"email"`
	Phone       string `json:"phone"`
	Nationality string `json:"nationality"`
	Password    string `json:"password"`
}

// MessageResult carries the confirmation message most endpoints answer with.
type MessageResult struct {
	StatusCode int    `json:"-"`
	Message    string `json:"message"`
}

// LoginResult is the session credential issued by the hotel API.
type LoginResult struct {
	Message string `json:"message"`
	Token   string `json:"token"`
}

// ContactRequest is the body of POST /api/user/contact.
type ContactRequest struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
	Message string `json:"message"`
}

func (c *Client) postMessage(ctx context.Context, operation, path string, payload any) (*MessageResult, error) {
	req, err := jsonRequest(operation, http.MethodPost, path, "", payload)
	if err != nil {
		return nil, err
	}
	var result MessageResult
	status, err := c.do(ctx, req, &result)
	if err != nil {
		return nil, err
	}
	result.StatusCode = status
	return &result, nil
}

// Register creates a guest account. The API answers 201 and sends a
// verification email.
func (c *Client) Register(ctx context.Context, payload RegisterRequest) (*MessageResult, error) {
	return c.postMessage(ctx, "register", "/api/user/register", payload)
}

// VerifyEmail redeems the token from the verification email.
func (c *Client) VerifyEmail(ctx context.Context, token string) (*MessageResult, error) {
	if strings.TrimSpace(token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "verification token is required")
	}
	return c.postMessage(ctx, "verify_email", "/api/user/verify-email", map[string]string{"token": token})
}

// SendContact forwards a contact-form message.
func (c *Client) SendContact(ctx context.Context, payload ContactRequest) (*MessageResult, error) {
	return c.postMessage(ctx, "contact", "/api/user/contact", payload)
}

// Login exchanges credentials for a session token.
func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	req, err := jsonRequest("login", http.MethodPost, "/api/user/login", "", map[string]string{
		"email":    email,
		"password": password,
	})
	if err != nil {
		return nil, err
	}
	var result LoginResult
	if _, err := c.do(ctx, req, &result); err != nil {
		return nil, err
	}
	if strings.TrimSpace(result.Token) == "" {
		return nil, pkgerrors.New(pkgerrors.CodeDependency, "login response missing token")
	}
	return &result, nil
}
