package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	deliverycontext "accounts/internal/delivery/context"
	httpmiddleware "accounts/internal/delivery/http/middleware"
	"accounts/internal/domain/entity"
	domainerrors "accounts/internal/domain/errors"
	mockUsecase "accounts/internal/mocks/usecase"
	"accounts/internal/usecase"

	"github.com/google/uuid"
	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

type handlerFixtures struct {
	echo    *echo.Echo
	handler *UserHandler
	uc      *mockUsecase.MockAccountUsecase
}

func createTestUserHandler(t *testing.T) handlerFixtures {
	uc := mockUsecase.NewMockAccountUsecase(t)
	e := echo.New()
	e.HTTPErrorHandler = httpmiddleware.NewErrorMiddleware(slog.New(slog.NewTextHandler(io.Discard, nil)), nil).HandleHTTPError

	return handlerFixtures{
		echo:    e,
		handler: NewUserHandler(UserHandlerParams{Usecase: uc}),
		uc:      uc,
	}
}

// serve runs h through echo so returned errors reach the error handler.
func (fx handlerFixtures) serve(method, target, body string, callerID uuid.UUID, h echo.HandlerFunc) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	}
	rec := httptest.NewRecorder()
	c := fx.echo.NewContext(req, rec)
	if callerID != uuid.Nil {
		deliverycontext.SetUser(c, &entity.User{ID: callerID})
	}

	if err := h(c); err != nil {
		fx.echo.HTTPErrorHandler(err, c)
	}

	return rec
}

func TestUserHandler_Register(t *testing.T) {
	fx := createTestUserHandler(t)

	fx.uc.EXPECT().
		Register(mock.Anything, &usecase.RegisterInput{
			Email:    "ann@example.com",
			Username: "ann",
			Password: "secret1",
			Color:    "#fff",
		}).
		Return(nil)

	rec := fx.serve(http.MethodPost, "/users/register",
		`{"email":"ann@example.com","username":"ann","password":"secret1","color":"#fff"}`, uuid.Nil, fx.handler.Register)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"Success! User created"`, rec.Body.String())
}

func TestUserHandler_Register_Conflict(t *testing.T) {
	fx := createTestUserHandler(t)

	fx.uc.EXPECT().
		Register(mock.Anything, mock.AnythingOfType("*usecase.RegisterInput")).
		Return(domainerrors.NewAccumulatedError(domainerrors.ErrConflict, "Email already exists", "Username already exists"))

	rec := fx.serve(http.MethodPost, "/users/register", `{"email":"ann@example.com"}`, uuid.Nil, fx.handler.Register)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"errors":["Email already exists","Username already exists"]}`, rec.Body.String())
}

func TestUserHandler_Register_MalformedBody(t *testing.T) {
	fx := createTestUserHandler(t)

	rec := fx.serve(http.MethodPost, "/users/register", `{"email":`, uuid.Nil, fx.handler.Register)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.JSONEq(t, `{"errors":["Invalid request body"]}`, rec.Body.String())
}

func TestUserHandler_Login(t *testing.T) {
	fx := createTestUserHandler(t)
	id := uuid.New()
	at := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

	fx.uc.EXPECT().
		Login(mock.Anything, &usecase.LoginInput{Email: "ann@example.com", Password: "secret1"}).
		Return(&usecase.LoginOutput{
			Success: true,
			Token:   "Bearer abc",
			User: &entity.UserView{
				Username:  "ann",
				Email:     "ann@example.com",
				CreatedAt: at,
				UpdatedAt: at,
				Roles:     []string{},
				Color:     "#fff",
				ID:        id,
			},
		}, nil)

	rec := fx.serve(http.MethodPost, "/users/login", `{"email":"ann@example.com","password":"secret1"}`, uuid.Nil, fx.handler.Login)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{
		"success": true,
		"token": "Bearer abc",
		"user": {
			"username": "ann",
			"email": "ann@example.com",
			"createdAt": "2024-05-01T12:00:00Z",
			"updatedAt": "2024-05-01T12:00:00Z",
			"roles": [],
			"imageUrl": "",
			"color": "#fff",
			"_id": "`+id.String()+`"
		}
	}`, rec.Body.String())
}

func TestUserHandler_GetProfile(t *testing.T) {
	fx := createTestUserHandler(t)
	id := uuid.New()

	fx.uc.EXPECT().GetProfile(mock.Anything, id).Return(&entity.UserView{ID: id, Username: "ann", Roles: []string{}}, nil)

	rec := fx.serve(http.MethodGet, "/users", "", id, fx.handler.GetProfile)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"_id":"`+id.String()+`"`)
	assert.NotContains(t, rec.Body.String(), "password")
}

func TestUserHandler_UpdateProfile(t *testing.T) {
	fx := createTestUserHandler(t)
	id := uuid.New()

	fx.uc.EXPECT().
		UpdateProfile(mock.Anything, id, id.String(), mock.AnythingOfType("*usecase.UpdateProfileInput")).
		Run(func(_ context.Context, _ uuid.UUID, _ string, input *usecase.UpdateProfileInput) {
			assert.Nil(t, input.Email)
			assert.Nil(t, input.Username)
			if assert.NotNil(t, input.Color) {
				assert.Equal(t, "#000", *input.Color)
			}
		}).
		Return(&entity.UserView{ID: id, Color: "#000", Roles: []string{}}, nil)

	rec := fx.serve(http.MethodPost, "/users?id="+id.String(), `{"color":"#000"}`, id, fx.handler.UpdateProfile)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"color":"#000"`)
}

func TestUserHandler_UpdateProfile_NotOwner(t *testing.T) {
	fx := createTestUserHandler(t)
	caller := uuid.New()
	other := uuid.NewString()

	fx.uc.EXPECT().
		UpdateProfile(mock.Anything, caller, other, mock.AnythingOfType("*usecase.UpdateProfileInput")).
		Return(nil, domainerrors.NewAccumulatedError(domainerrors.ErrAuthorizationFailed, "You can only update your own user information."))

	rec := fx.serve(http.MethodPost, "/users?id="+other, `{"color":"#000"}`, caller, fx.handler.UpdateProfile)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.JSONEq(t, `{"errors":["You can only update your own user information."]}`, rec.Body.String())
}

func TestUserHandler_ChangePassword(t *testing.T) {
	fx := createTestUserHandler(t)
	id := uuid.New()

	fx.uc.EXPECT().
		ChangePassword(mock.Anything, id, id.String(), &usecase.ChangePasswordInput{Password: "newsecret", ConfirmPassword: "newsecret"}).
		Return(&usecase.TokenOutput{Success: true, Token: "Bearer fresh"}, nil)

	rec := fx.serve(http.MethodPost, "/users/password?id="+id.String(),
		`{"password":"newsecret","password2":"newsecret"}`, id, fx.handler.ChangePassword)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"token":"Bearer fresh"}`, rec.Body.String())
}

func TestHealthCheck(t *testing.T) {
	fx := createTestUserHandler(t)

	rec := fx.serve(http.MethodGet, "/health", "", uuid.Nil, HealthCheck)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
