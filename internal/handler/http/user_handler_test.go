package http_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	userHandler "github.com/vasiliy-maslov/course-manager/internal/handler/http"
	"github.com/vasiliy-maslov/course-manager/internal/user"
)

type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) CreateUser(ctx context.Context, u *user.User, plainPassword string) (*user.User, error) {
	args := m.Called(ctx, u, plainPassword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) ListUsers(ctx context.Context) ([]user.User, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]user.User), args.Error(1)
}

func (m *MockUserService) GetUserByID(ctx context.Context, id int64) (*user.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) GetUserByEmail(ctx context.Context, email string) (*user.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) UpdateUser(ctx context.Context, id int64, input user.UpdateInput) (*user.User, error) {
	args := m.Called(ctx, id, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) DeleteUser(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, plainPassword string) (*user.User, error) {
	args := m.Called(ctx, email, plainPassword)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*user.User), args.Error(1)
}

func (m *MockUserService) ChangePassword(ctx context.Context, id int64, currentPassword, newPassword string) error {
	args := m.Called(ctx, id, currentPassword, newPassword)
	return args.Error(0)
}

func newUserRouter(svc user.Service) *chi.Mux {
	router := chi.NewRouter()
	userHandler.NewUserHandler(svc).RegisterRoutes(router)
	userHandler.NewAuthHandler(svc).RegisterRoutes(router)
	return router
}

func serve(router http.Handler, method, target string, body []byte) *httptest.ResponseRecorder {
	var req *http.Request
	if body != nil {
		req = httptest.NewRequest(method, target, bytes.NewBuffer(body))
		req.Header.Set("Content-Type", "application/json")
	} else {
		req = httptest.NewRequest(method, target, nil)
	}
	rr := httptest.NewRecorder()
	router.ServeHTTP(rr, req)
	return rr
}

func decodeError(t *testing.T, rr *httptest.ResponseRecorder) string {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body), "Failed to decode error body")
	msg, ok := body["error"].(string)
	require.True(t, ok, "error body must carry an error message")
	return msg
}

func sampleUser() *user.User {
	now := time.Now().UTC().Truncate(time.Second)
	return &user.User{
		ID:           1,
		FirstName:    "Piotr",
		Surname:      "Kafelkowanie",
		Age:          23,
		Email:        "Peter@gmail.com",
		PasswordHash: "hashed_password_from_service",
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

func TestUserHandler_handleListUsers(t *testing.T) {
	mockService := new(MockUserService)
	mockService.On("ListUsers", mock.Anything).Return([]user.User{*sampleUser()}, nil).Once()

	rr := serve(newUserRouter(mockService), http.MethodGet, "/api/users", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var response []userHandler.UserResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
	require.Len(t, response, 1)
	assert.Equal(t, "Peter@gmail.com", response[0].Email)
	assert.NotContains(t, rr.Body.String(), "hashed_password_from_service")
	mockService.AssertExpectations(t)
}

func TestUserHandler_handleGetUserByID_Success(t *testing.T) {
	mockService := new(MockUserService)
	expected := sampleUser()
	mockService.On("GetUserByID", mock.Anything, int64(1)).Return(expected, nil).Once()

	rr := serve(newUserRouter(mockService), http.MethodGet, "/api/users/1", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var actualResponse userHandler.UserResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&actualResponse), "Failed to decode response body")
	assert.Equal(t, expected.ID, actualResponse.ID, "ID mismatch")
	assert.Equal(t, expected.FirstName, actualResponse.FirstName, "FirstName mismatch")
	assert.Equal(t, expected.Surname, actualResponse.Surname, "Surname mismatch")
	assert.Equal(t, expected.Email, actualResponse.Email, "Email mismatch")
	assert.WithinDuration(t, expected.CreatedAt, actualResponse.CreatedAt, time.Second, "CreatedAt mismatch")
	mockService.AssertExpectations(t)
}

func TestUserHandler_handleGetUserByID_NotFound(t *testing.T) {
	mockService := new(MockUserService)
	mockService.On("GetUserByID", mock.Anything, int64(404)).Return(nil, user.ErrNotFound).Once()

	rr := serve(newUserRouter(mockService), http.MethodGet, "/api/users/404", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	assert.Equal(t, "User not found", decodeError(t, rr))
	mockService.AssertExpectations(t)
}

func TestUserHandler_handleGetUserByID_InvalidID(t *testing.T) {
	mockService := new(MockUserService)

	for _, target := range []string{"/api/users/abc", "/api/users/-1", "/api/users/0"} {
		rr := serve(newUserRouter(mockService), http.MethodGet, target, nil)
		require.Equal(t, http.StatusBadRequest, rr.Code, target)
	}
	mockService.AssertNotCalled(t, "GetUserByID", mock.Anything, mock.Anything)
}

func TestUserHandler_handleGetUserByEmail(t *testing.T) {
	mockService := new(MockUserService)
	mockService.On("GetUserByEmail", mock.Anything, "Peter@gmail.com").Return(sampleUser(), nil).Once()
	mockService.On("GetUserByEmail", mock.Anything, "ghost@example.com").Return(nil, user.ErrNotFound).Once()

	router := newUserRouter(mockService)

	rr := serve(router, http.MethodGet, "/api/users/email/Peter@gmail.com", nil)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = serve(router, http.MethodGet, "/api/users/email/ghost@example.com", nil)
	require.Equal(t, http.StatusNotFound, rr.Code)
	mockService.AssertExpectations(t)
}

func TestUserHandler_handleGetUserByEmail_Escaped(t *testing.T) {
	mockService := new(MockUserService)
	mockService.On("GetUserByEmail", mock.Anything, "a@b.pl").Return(sampleUser(), nil).Once()
	mockService.On("GetUserByEmail", mock.Anything, "a+b@x.pl").Return(sampleUser(), nil).Once()

	router := newUserRouter(mockService)

	rr := serve(router, http.MethodGet, "/api/users/email/a%40b.pl", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

	rr = serve(router, http.MethodGet, "/api/users/email/a%2Bb@x.pl", nil)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	mockService.AssertExpectations(t)
}

func TestUserHandler_handleUpdateUser_Success(t *testing.T) {
	mockService := new(MockUserService)

	updated := sampleUser()
	updated.FirstName = "Peter"

	mockService.On("UpdateUser", mock.Anything, int64(1), mock.MatchedBy(func(in user.UpdateInput) bool {
		return in.FirstName != nil && *in.FirstName == "Peter" &&
			in.Surname == nil && in.Email == nil && in.Password == nil
	})).Return(updated, nil).Once()

	rr := serve(newUserRouter(mockService), http.MethodPut, "/api/users/1", []byte(`{"firstname":"Peter"}`))
	require.Equal(t, http.StatusOK, rr.Code)

	var actualResponse userHandler.UserResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&actualResponse))
	assert.Equal(t, "Peter", actualResponse.FirstName)
	mockService.AssertExpectations(t)
}

func TestUserHandler_handleUpdateUser_MalformedPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "broken json", body: `{"firstname":`},
		{name: "unknown field", body: `{"nickname":"pete"}`},
		{name: "invalid email", body: `{"email":"not-an-email"}`},
		{name: "short password", body: `{"password":"short"}`},
		{name: "age out of range", body: `{"age":200}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockUserService)

			rr := serve(newUserRouter(mockService), http.MethodPut, "/api/users/1", []byte(tt.body))
			require.Equal(t, http.StatusBadRequest, rr.Code)
			assert.NotEmpty(t, decodeError(t, rr))
			mockService.AssertNotCalled(t, "UpdateUser", mock.Anything, mock.Anything, mock.Anything)
		})
	}
}

func TestUserHandler_handleUpdateUser_ServiceErrors(t *testing.T) {
	tests := []struct {
		name        string
		serviceErr  error
		wantStatus  int
		wantMessage string
	}{
		{name: "not found", serviceErr: user.ErrNotFound, wantStatus: http.StatusBadRequest, wantMessage: "User not found"},
		{name: "email exists", serviceErr: user.ErrEmailExists, wantStatus: http.StatusBadRequest, wantMessage: "Email already exists"},
		{name: "organizer demotion", serviceErr: user.ErrOrganizesEvents, wantStatus: http.StatusBadRequest, wantMessage: "User organizes events and must stay an organizer"},
		{name: "age below enrolled event", serviceErr: user.ErrTooYoungForEvents, wantStatus: http.StatusBadRequest, wantMessage: "Age is below the minimum age of an event the user is enrolled in"},
		{name: "unexpected", serviceErr: assert.AnError, wantStatus: http.StatusInternalServerError, wantMessage: "Failed to update user"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockUserService)
			mockService.On("UpdateUser", mock.Anything, int64(1), mock.Anything).Return(nil, tt.serviceErr).Once()

			rr := serve(newUserRouter(mockService), http.MethodPut, "/api/users/1", []byte(`{"email":"taken@example.com"}`))
			require.Equal(t, tt.wantStatus, rr.Code)
			assert.Equal(t, tt.wantMessage, decodeError(t, rr))
			mockService.AssertExpectations(t)
		})
	}
}

func TestUserHandler_handleDeleteUser(t *testing.T) {
	tests := []struct {
		name       string
		serviceErr error
		wantStatus int
	}{
		{name: "success", wantStatus: http.StatusNoContent},
		{name: "not found", serviceErr: user.ErrNotFound, wantStatus: http.StatusBadRequest},
		{name: "organizer with events", serviceErr: user.ErrHasEvents, wantStatus: http.StatusBadRequest},
		{name: "unexpected", serviceErr: assert.AnError, wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockUserService)
			mockService.On("DeleteUser", mock.Anything, int64(3)).Return(tt.serviceErr).Once()

			rr := serve(newUserRouter(mockService), http.MethodDelete, "/api/users/3", nil)
			require.Equal(t, tt.wantStatus, rr.Code)
			if tt.wantStatus == http.StatusNoContent {
				assert.Empty(t, rr.Body.String())
			}
			mockService.AssertExpectations(t)
		})
	}
}

func TestUserHandler_handleChangePassword(t *testing.T) {
	tests := []struct {
		name       string
		body       string
		serviceErr error
		callsSvc   bool
		wantStatus int
	}{
		{name: "success", body: `{"currentPassword":"old-password","newPassword":"new-password"}`, callsSvc: true, wantStatus: http.StatusNoContent},
		{name: "wrong current password", body: `{"currentPassword":"nope","newPassword":"new-password"}`, serviceErr: user.ErrInvalidCredentials, callsSvc: true, wantStatus: http.StatusUnauthorized},
		{name: "unknown user", body: `{"currentPassword":"old-password","newPassword":"new-password"}`, serviceErr: user.ErrNotFound, callsSvc: true, wantStatus: http.StatusBadRequest},
		{name: "new password too short", body: `{"currentPassword":"old-password","newPassword":"short"}`, wantStatus: http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockUserService)
			if tt.callsSvc {
				mockService.On("ChangePassword", mock.Anything, int64(2), mock.Anything, mock.Anything).Return(tt.serviceErr).Once()
			}

			rr := serve(newUserRouter(mockService), http.MethodPut, "/api/users/2/password", []byte(tt.body))
			require.Equal(t, tt.wantStatus, rr.Code)
			mockService.AssertExpectations(t)
		})
	}
}

func TestAuthHandler_handleRegister(t *testing.T) {
	requestDTO := userHandler.RegisterRequest{
		FirstName: "Ewa",
		Surname:   "Miszak",
		Age:       25,
		Email:     "ewkaB@gmail.com",
		Password:  "IchLiebeDich223",
	}
	jsonBody, err := json.Marshal(requestDTO)
	require.NoError(t, err)

	t.Run("created", func(t *testing.T) {
		mockService := new(MockUserService)
		created := sampleUser()
		created.Email = requestDTO.Email
		mockService.On("CreateUser", mock.Anything, mock.MatchedBy(func(u *user.User) bool {
			return u.Email == requestDTO.Email && u.FirstName == requestDTO.FirstName && u.Age == 25
		}), requestDTO.Password).Return(created, nil).Once()

		rr := serve(newUserRouter(mockService), http.MethodPost, "/api/auth/register", jsonBody)
		require.Equal(t, http.StatusCreated, rr.Code)
		mockService.AssertExpectations(t)
	})

	t.Run("email exists", func(t *testing.T) {
		mockService := new(MockUserService)
		mockService.On("CreateUser", mock.Anything, mock.Anything, mock.Anything).Return(nil, user.ErrEmailExists).Once()

		rr := serve(newUserRouter(mockService), http.MethodPost, "/api/auth/register", jsonBody)
		require.Equal(t, http.StatusConflict, rr.Code)
		assert.Equal(t, "Email already exists", decodeError(t, rr))
	})

	t.Run("validation failed", func(t *testing.T) {
		mockService := new(MockUserService)

		rr := serve(newUserRouter(mockService), http.MethodPost, "/api/auth/register",
			[]byte(`{"firstname":"","surname":"X","age":0,"email":"bad","password":"123"}`))
		require.Equal(t, http.StatusBadRequest, rr.Code)

		var response userHandler.ValidationErrorResponse
		require.NoError(t, json.NewDecoder(rr.Body).Decode(&response))
		assert.Equal(t, "Validation failed", response.Error)
		assert.Contains(t, response.Details, "Field 'firstname' is required")
		assert.Contains(t, response.Details, "Field 'email' must be a valid email address")
		assert.Contains(t, response.Details, "Field 'password' must be at least 8 characters long")
		mockService.AssertNotCalled(t, "CreateUser", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestAuthHandler_handleLogin(t *testing.T) {
	mockService := new(MockUserService)
	mockService.On("Authenticate", mock.Anything, "Peter@gmail.com", "qwerty123").Return(sampleUser(), nil).Once()
	mockService.On("Authenticate", mock.Anything, "Peter@gmail.com", "wrong").Return(nil, user.ErrInvalidCredentials).Once()

	router := newUserRouter(mockService)

	rr := serve(router, http.MethodPost, "/api/auth/login", []byte(`{"email":"Peter@gmail.com","password":"qwerty123"}`))
	require.Equal(t, http.StatusOK, rr.Code)

	rr = serve(router, http.MethodPost, "/api/auth/login", []byte(`{"email":"Peter@gmail.com","password":"wrong"}`))
	require.Equal(t, http.StatusUnauthorized, rr.Code)
	mockService.AssertExpectations(t)
}
