package v1_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"taskdeck/internal/services"
)

func TestHandleRegister(t *testing.T) {
	env := newTestEnv()
	env.auth.registerFn = func(email, password string) (string, error) {
		if email == "" || password == "" {
			return "", services.ErrMissingInput
		}
		if email == "taken@example.com" {
			return "", services.ErrUserAlreadyExists
		}
		return "user-new", nil
	}

	tests := []struct {
		name        string
		body        string
		wantStatus  int
		wantMessage string
	}{
		{
			name:        "success",
			body:        `{"email":"new@example.com","password":"secret"}`,
			wantStatus:  http.StatusCreated,
			wantMessage: "user registered",
		},
		{
			name:        "duplicate email is reported verbatim",
			body:        `{"email":"taken@example.com","password":"secret"}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "this email is already registered",
		},
		{
			name:        "missing fields",
			body:        `{"email":"","password":""}`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: services.ErrMissingInput.Error(),
		},
		{
			name:        "malformed body",
			body:        `{"email": 42`,
			wantStatus:  http.StatusBadRequest,
			wantMessage: "invalid request body",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/register", strings.NewReader(tt.body))
			w := httptest.NewRecorder()
			env.router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Fatalf("status = %d, want %d; body %s", w.Code, tt.wantStatus, w.Body.String())
			}

			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}
			if body["message"] != tt.wantMessage {
				t.Errorf("message = %q, want %q", body["message"], tt.wantMessage)
			}
			if tt.wantStatus == http.StatusCreated && body["userId"] != "user-new" {
				t.Errorf("userId = %q, want %q", body["userId"], "user-new")
			}
		})
	}
}

func TestHandleLoginSuccess(t *testing.T) {
	env := newTestEnv()
	env.auth.authenticateFn = func(email, password string) (*services.Identity, error) {
		return &services.Identity{UserID: "user-1", Email: email}, nil
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"a@example.com","password":"secret"}`))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body %s", w.Code, http.StatusOK, w.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body["id"] != "user-1" || body["email"] != "a@example.com" {
		t.Errorf("identity = %v, want user-1 / a@example.com", body)
	}

	cookies := cookieMap(w.Result().Cookies())
	access, ok := cookies["access_token"]
	if !ok || access.Value != "access-token" {
		t.Errorf("access_token cookie = %+v, want value %q", access, "access-token")
	}
	refresh, ok := cookies["refresh_token"]
	if !ok || refresh.Value != "refresh-token" {
		t.Errorf("refresh_token cookie = %+v, want value %q", refresh, "refresh-token")
	}
	if access != nil && !access.HttpOnly {
		t.Error("access_token cookie is not http-only")
	}
}

func TestHandleLoginCollapsesFailureModes(t *testing.T) {
	// Unknown email and wrong password must be indistinguishable.
	for _, failure := range []error{services.ErrUserNotFound, services.ErrUserPasswordMismatch} {
		t.Run(failure.Error(), func(t *testing.T) {
			env := newTestEnv()
			env.auth.authenticateFn = func(string, string) (*services.Identity, error) {
				return nil, failure
			}

			req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
				strings.NewReader(`{"email":"a@example.com","password":"wrong"}`))
			w := httptest.NewRecorder()
			env.router.ServeHTTP(w, req)

			if w.Code != http.StatusUnauthorized {
				t.Fatalf("status = %d, want %d", w.Code, http.StatusUnauthorized)
			}

			var body map[string]string
			if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
				t.Fatalf("unmarshal response: %v", err)
			}
			if body["message"] != "invalid email or password" {
				t.Errorf("message = %q, want the generic wording", body["message"])
			}
		})
	}
}

func TestHandleLoginMissingInput(t *testing.T) {
	env := newTestEnv()
	env.auth.authenticateFn = func(string, string) (*services.Identity, error) {
		return nil, services.ErrMissingInput
	}

	req := httptest.NewRequest(http.MethodPost, "/api/auth/login",
		strings.NewReader(`{"email":"","password":""}`))
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want %d", w.Code, http.StatusBadRequest)
	}
}

func TestHandleRefresh(t *testing.T) {
	t.Run("without cookie", func(t *testing.T) {
		env := newTestEnv()

		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})

	t.Run("rotates the pair", func(t *testing.T) {
		env := newTestEnv()
		env.auth.verifyRefreshFn = verifyUser("old-refresh", "user-1")

		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "old-refresh"})
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		if w.Code != http.StatusOK {
			t.Fatalf("status = %d, want %d; body %s", w.Code, http.StatusOK, w.Body.String())
		}

		cookies := cookieMap(w.Result().Cookies())
		if _, ok := cookies["access_token"]; !ok {
			t.Error("refresh did not set a new access_token cookie")
		}
		if _, ok := cookies["refresh_token"]; !ok {
			t.Error("refresh did not set a new refresh_token cookie")
		}
	})

	t.Run("rejects an invalid refresh token", func(t *testing.T) {
		env := newTestEnv()
		env.auth.verifyRefreshFn = verifyUser("old-refresh", "user-1")

		req := httptest.NewRequest(http.MethodPost, "/api/auth/refresh", nil)
		req.AddCookie(&http.Cookie{Name: "refresh_token", Value: "forged"})
		w := httptest.NewRecorder()
		env.router.ServeHTTP(w, req)

		if w.Code != http.StatusUnauthorized {
			t.Errorf("status = %d, want %d", w.Code, http.StatusUnauthorized)
		}
	})
}

func TestHandleLogout(t *testing.T) {
	env := newTestEnv()

	req := httptest.NewRequest(http.MethodPost, "/api/auth/logout", nil)
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d", w.Code, http.StatusOK)
	}

	cookies := cookieMap(w.Result().Cookies())
	for _, name := range []string{"access_token", "refresh_token"} {
		cookie, ok := cookies[name]
		if !ok {
			t.Errorf("logout did not touch the %s cookie", name)
			continue
		}
		if cookie.MaxAge >= 0 || cookie.Value != "" {
			t.Errorf("%s cookie = %+v, want expired and empty", name, cookie)
		}
	}
}

func TestHandleSession(t *testing.T) {
	env := newTestEnv()
	env.auth.verifyAccessFn = verifyUser("good-token", "user-1")
	env.auth.currentUserFn = func(userID string) (*services.Identity, error) {
		if userID != "user-1" {
			return nil, services.ErrUserNotFound
		}
		return &services.Identity{UserID: "user-1", Email: "a@example.com"}, nil
	}

	req := httptest.NewRequest(http.MethodGet, "/api/auth/session", nil)
	req.Header.Set("Authorization", "Bearer good-token")
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want %d; body %s", w.Code, http.StatusOK, w.Body.String())
	}

	var body map[string]string
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("unmarshal response: %v", err)
	}
	if body["id"] != "user-1" || body["email"] != "a@example.com" {
		t.Errorf("identity = %v, want user-1 / a@example.com", body)
	}
}

func cookieMap(cookies []*http.Cookie) map[string]*http.Cookie {
	m := make(map[string]*http.Cookie, len(cookies))
	for _, cookie := range cookies {
		m[cookie.Name] = cookie
	}
	return m
}
