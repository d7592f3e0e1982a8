package account

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/angelmondragon/hearth-storefront/pkg/backend"
	pkgerrors "github.com/angelmondragon/hearth-storefront/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubAccounts struct {
	registerErr error
	verifyRes   *backend.MessageResult
	verifyErr   error
	registered  *backend.RegisterRequest
	verifyCalls int
}

func (s *stubAccounts) Register(_ context.Context, payload backend.RegisterRequest) (*backend.MessageResult, error) {
	s.registered = &payload
	if s.registerErr != nil {
		return nil, s.registerErr
	}
	return &backend.MessageResult{StatusCode: 201, Message: "created"}, nil
}

func (s *stubAccounts) VerifyEmail(context.Context, string) (*backend.MessageResult, error) {
	s.verifyCalls++
	return s.verifyRes, s.verifyErr
}

func validInput() RegisterInput {
	return RegisterInput{
		UserName:    "jane_doe",
		FirstName:   "Jane",
		LastName:    "Doe",
		Email:       "jane@example.com",
		Password:    "abc123",
		Phone:       "+254700000000",
		Nationality: "Kenya",
	}
}

func statusErr(code pkgerrors.Code, status int, msg string) error {
	return pkgerrors.Wrap(code, &backend.StatusError{StatusCode: status, Message: msg}, "request failed")
}

func TestValidateRegistrationMessages(t *testing.T) {
	t.Parallel()
	svc, err := NewService(&stubAccounts{}, 0, nil)
	require.NoError(t, err)

	cases := []struct {
		name   string
		mutate func(*RegisterInput)
		want   string
	}{
		{"missing nationality", func(in *RegisterInput) { in.Nationality = "" }, msgFillRequired},
		{"short username", func(in *RegisterInput) { in.UserName = "jd" }, msgInvalidUsername},
		{"username symbols", func(in *RegisterInput) { in.UserName = "jane-doe" }, msgInvalidUsername},
		{"email", func(in *RegisterInput) { in.Email = "jane@example" }, msgInvalidEmail},
		{"password without digit", func(in *RegisterInput) { in.Password = "abcdef" }, msgInvalidPassword},
		{"password too short", func(in *RegisterInput) { in.Password = "a1" }, msgInvalidPassword},
		{"phone", func(in *RegisterInput) { in.Phone = "12-34" }, msgInvalidPhone},
	}
	for _, tc := range cases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			in := validInput()
			tc.mutate(&in)
			err := svc.ValidateRegistration(in)
			require.Error(t, err)
			typed := pkgerrors.As(err)
			require.NotNil(t, typed)
			assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
			assert.Equal(t, tc.want, typed.Message())
		})
	}

	assert.NoError(t, svc.ValidateRegistration(validInput()))
}

func TestRegisterMapsBackendErrors(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	cases := []struct {
		err  error
		want string
	}{
		{statusErr(pkgerrors.CodeValidation, 400, "Email already registered"), "Email already registered"},
		{statusErr(pkgerrors.CodeDependency, 500, "boom"), msgServerError},
		{statusErr(pkgerrors.CodeConflict, 409, "dup"), msgRegisterFailed},
		{errors.New("network"), msgRegisterFailed},
	}
	for _, tc := range cases {
		svc, _ := NewService(&stubAccounts{registerErr: tc.err}, 0, nil)
		_, err := svc.Register(ctx, validInput())
		require.Error(t, err)
		assert.Equal(t, tc.want, pkgerrors.As(err).Message())
	}
}

func TestRegisterSuccess(t *testing.T) {
	t.Parallel()
	client := &stubAccounts{}
	svc, _ := NewService(client, 0, nil)
	in := validInput()
	in.Email = "  jane@example.com "

	res, err := svc.Register(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, msgRegistered, res.Message)
	require.NotNil(t, client.registered)
	assert.Equal(t, "jane@example.com", client.registered.Email)
}

func TestVerifyEmail(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	client := &stubAccounts{}
	svc, _ := NewService(client, 4*time.Second, nil)
	_, err := svc.VerifyEmail(ctx, " ")
	require.Error(t, err)
	assert.Equal(t, msgMissingToken, pkgerrors.As(err).Message())
	assert.Zero(t, client.verifyCalls)

	client.verifyRes = &backend.MessageResult{StatusCode: 200, Message: "Email verified"}
	res, err := svc.VerifyEmail(ctx, "tok")
	require.NoError(t, err)
	assert.Equal(t, "Email verified", res.Message)
	require.NotNil(t, res.Redirect)
	assert.Equal(t, "/login", res.Redirect.To)
	assert.Equal(t, int64(4000), res.Redirect.AfterMS)

	client.verifyRes = nil
	client.verifyErr = statusErr(pkgerrors.CodeValidation, 400, "Token expired")
	_, err = svc.VerifyEmail(ctx, "tok")
	assert.Equal(t, "Token expired", pkgerrors.As(err).Message())
	assert.True(t, pkgerrors.IsCode(err, pkgerrors.CodeValidation))

	client.verifyErr = errors.New("network")
	_, err = svc.VerifyEmail(ctx, "tok")
	assert.Equal(t, msgVerifyFailed, pkgerrors.As(err).Message())
}
