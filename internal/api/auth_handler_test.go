package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/01072k1anhCong2/kinhkong/internal/auth"
	"github.com/01072k1anhCong2/kinhkong/internal/metrics"
)

type fakeUserStore struct {
	users map[string]*auth.User
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[string]*auth.User)}
}

func (f *fakeUserStore) CreateUser(ctx context.Context, user *auth.User) error {
	if _, ok := f.users[user.Email]; ok {
		return auth.ErrEmailInUse
	}
	f.users[user.Email] = user
	return nil
}

func (f *fakeUserStore) GetUserByEmail(ctx context.Context, email string) (*auth.User, error) {
	user, ok := f.users[email]
	if !ok {
		return nil, auth.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) Close() error { return nil }

func (f *fakeUserStore) RunMigrations(string) error { return nil }

func newTestAuthHandler() (*AuthHandler, *auth.Service) {
	svc := auth.NewService(newFakeUserStore())
	gate := auth.NewGate("admin@kingkong.com")
	return NewAuthHandler(svc, gate, metrics.NewRegistry()), svc
}

func registerBody(email, password string) []byte {
	body, _ := json.Marshal(RegisterRequestDTO{
		Name:            "Taro",
		Email:           email,
		Password:        password,
		ConfirmPassword: password,
	})
	return body
}

func tokenFromCookies(recorder *httptest.ResponseRecorder) string {
	for _, c := range recorder.Result().Cookies() {
		if c.Name == "token" {
			return c.Value
		}
	}
	return ""
}

func TestRegister_Success(t *testing.T) {
	handler, svc := newTestAuthHandler()

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/register", bytes.NewReader(registerBody("taro@example.com", "secret9")))

	handler.Register(recorder, request)

	if recorder.Code != http.StatusCreated {
		t.Fatalf("Expected status code %d, got %d", http.StatusCreated, recorder.Code)
	}

	var response SessionResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !response.Authenticated {
		t.Error("Expected authenticated session after register")
	}
	if response.IsAdmin {
		t.Error("Expected a regular account, got admin")
	}
	if response.Identity == nil || response.Identity.Email != "taro@example.com" {
		t.Errorf("Expected identity for taro@example.com, got %+v", response.Identity)
	}

	token := tokenFromCookies(recorder)
	if token == "" {
		t.Fatal("Expected a token cookie")
	}
	if svc.IdentityForToken(token) == nil {
		t.Error("Expected token to resolve to an identity")
	}
}

func TestRegister_PasswordMismatch(t *testing.T) {
	handler, _ := newTestAuthHandler()

	body, _ := json.Marshal(RegisterRequestDTO{
		Email:           "taro@example.com",
		Password:        "secret9",
		ConfirmPassword: "secret8",
	})
	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/register", bytes.NewReader(body))

	handler.Register(recorder, request)

	if recorder.Code != http.StatusBadRequest {
		t.Errorf("Expected status code %d, got %d", http.StatusBadRequest, recorder.Code)
	}

	var response ErrorResponse
	json.NewDecoder(recorder.Body).Decode(&response)
	if response.Code != "password_mismatch" {
		t.Errorf("Expected error code 'password_mismatch', got '%s'", response.Code)
	}
}

func TestRegister_Taxonomy(t *testing.T) {
	tests := []struct {
		name         string
		email        string
		password     string
		expectedHTTP int
		expectedCode string
	}{
		{"invalid email", "not-an-email", "secret9", http.StatusBadRequest, "invalid_email"},
		{"weak password", "taro@example.com", "five5", http.StatusBadRequest, "weak_password"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler, _ := newTestAuthHandler()

			recorder := httptest.NewRecorder()
			request := httptest.NewRequest("POST", "/register", bytes.NewReader(registerBody(tt.email, tt.password)))

			handler.Register(recorder, request)

			if recorder.Code != tt.expectedHTTP {
				t.Errorf("Expected status code %d, got %d", tt.expectedHTTP, recorder.Code)
			}

			var response ErrorResponse
			json.NewDecoder(recorder.Body).Decode(&response)
			if response.Code != tt.expectedCode {
				t.Errorf("Expected error code '%s', got '%s'", tt.expectedCode, response.Code)
			}
		})
	}
}

func TestRegister_EmailInUse(t *testing.T) {
	handler, _ := newTestAuthHandler()

	first := httptest.NewRecorder()
	handler.Register(first, httptest.NewRequest("POST", "/register", bytes.NewReader(registerBody("taro@example.com", "secret9"))))
	if first.Code != http.StatusCreated {
		t.Fatalf("Expected status code %d, got %d", http.StatusCreated, first.Code)
	}

	second := httptest.NewRecorder()
	handler.Register(second, httptest.NewRequest("POST", "/register", bytes.NewReader(registerBody("taro@example.com", "secret9"))))

	if second.Code != http.StatusConflict {
		t.Errorf("Expected status code %d, got %d", http.StatusConflict, second.Code)
	}

	var response ErrorResponse
	json.NewDecoder(second.Body).Decode(&response)
	if response.Code != "email_in_use" {
		t.Errorf("Expected error code 'email_in_use', got '%s'", response.Code)
	}
}

func TestLogin_InvalidCredential(t *testing.T) {
	handler, _ := newTestAuthHandler()

	register := httptest.NewRecorder()
	handler.Register(register, httptest.NewRequest("POST", "/register", bytes.NewReader(registerBody("taro@example.com", "secret9"))))

	tests := []struct {
		name     string
		email    string
		password string
	}{
		{"wrong password", "taro@example.com", "wrong-password"},
		{"unknown email", "nobody@example.com", "secret9"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			body, _ := json.Marshal(LoginRequestDTO{Email: tt.email, Password: tt.password})
			recorder := httptest.NewRecorder()
			request := httptest.NewRequest("POST", "/login", bytes.NewReader(body))

			handler.Login(recorder, request)

			if recorder.Code != http.StatusUnauthorized {
				t.Errorf("Expected status code %d, got %d", http.StatusUnauthorized, recorder.Code)
			}

			var response ErrorResponse
			json.NewDecoder(recorder.Body).Decode(&response)
			if response.Code != "invalid_credential" {
				t.Errorf("Expected error code 'invalid_credential', got '%s'", response.Code)
			}
		})
	}
}

func TestLogin_AdminFlag(t *testing.T) {
	handler, _ := newTestAuthHandler()

	register := httptest.NewRecorder()
	handler.Register(register, httptest.NewRequest("POST", "/register", bytes.NewReader(registerBody("admin@kingkong.com", "secret9"))))

	body, _ := json.Marshal(LoginRequestDTO{Email: "admin@kingkong.com", Password: "secret9"})
	recorder := httptest.NewRecorder()
	handler.Login(recorder, httptest.NewRequest("POST", "/login", bytes.NewReader(body)))

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	var response SessionResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if !response.IsAdmin {
		t.Error("Expected isAdmin true for the administrator address")
	}
}

func TestLogout_InvalidatesToken(t *testing.T) {
	handler, svc := newTestAuthHandler()

	register := httptest.NewRecorder()
	handler.Register(register, httptest.NewRequest("POST", "/register", bytes.NewReader(registerBody("taro@example.com", "secret9"))))
	token := tokenFromCookies(register)

	recorder := httptest.NewRecorder()
	request := httptest.NewRequest("POST", "/logout", nil)
	request.AddCookie(&http.Cookie{Name: "token", Value: token})

	handler.Logout(recorder, request)

	if recorder.Code != http.StatusOK {
		t.Errorf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}
	if svc.IdentityForToken(token) != nil {
		t.Error("Expected token invalidated after logout")
	}
}

func TestSession_Unauthenticated(t *testing.T) {
	handler, _ := newTestAuthHandler()

	recorder := httptest.NewRecorder()
	handler.Session(recorder, httptest.NewRequest("GET", "/session", nil))

	if recorder.Code != http.StatusOK {
		t.Fatalf("Expected status code %d, got %d", http.StatusOK, recorder.Code)
	}

	var response SessionResponse
	if err := json.NewDecoder(recorder.Body).Decode(&response); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if response.Authenticated || response.IsAdmin || response.Identity != nil {
		t.Errorf("Expected anonymous session, got %+v", response)
	}
}
