package httpserver

import (
	"encoding/json"
	"net/http"
	"testing"
)

func TestRegisterBindsSession(t *testing.T) {
	env := newTestEnv(t)
	body := `{"full_name":"New Person","phone_number":"5550000","email":"new@example.com","password":"hunter2"}`
	rec := env.do(t, http.MethodPost, "/api/auth/register", body, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	token := sessionCookieValue(rec)
	if token == "" {
		t.Fatalf("expected a session cookie")
	}

	rec = env.do(t, http.MethodGet, "/api/auth/me", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 from /auth/me, got %d body=%s", rec.Code, rec.Body.String())
	}
	var resp struct {
		User userView `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.User.Email != "new@example.com" || resp.User.IsAdmin {
		t.Fatalf("unexpected user: %+v", resp.User)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	env := newTestEnv(t)
	body := `{"full_name":"Dup","phone_number":"5550000","email":"shopper@example.com","password":"hunter2"}`
	rec := env.do(t, http.MethodPost, "/api/auth/register", body, "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestLoginSuccessKeepsCart(t *testing.T) {
	env := newTestEnv(t)

	// Shop anonymously first.
	rec := env.do(t, http.MethodPost, "/api/cart/add", `{"productId":"p-apple","quantity":2}`, "")
	token := sessionCookieValue(rec)

	rec = env.do(t, http.MethodPost, "/api/auth/login", `{"email":"shopper@example.com","password":"hunter2"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	// The anonymous cart survives the login.
	rec = env.do(t, http.MethodGet, "/api/cart", "", token)
	var cartResp struct {
		Items []lineItemView `json:"items"`
		Total string         `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &cartResp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(cartResp.Items) != 1 || cartResp.Total != "6.00" {
		t.Fatalf("cart lost across login: %+v", cartResp)
	}

	// And the session is now authenticated.
	rec = env.do(t, http.MethodGet, "/api/orders", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected authenticated orders list, got %d", rec.Code)
	}
}

func TestLoginWrongPassword(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodPost, "/api/auth/login", `{"email":"shopper@example.com","password":"wrong"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestLoginSuspendedAccount(t *testing.T) {
	env := newTestEnv(t)
	env.users.users[0].Active = false
	rec := env.do(t, http.MethodPost, "/api/auth/login", `{"email":"shopper@example.com","password":"hunter2"}`, "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestMeWithoutSession(t *testing.T) {
	env := newTestEnv(t)
	rec := env.do(t, http.MethodGet, "/api/auth/me", "", "")
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestLogoutUnbindsUser(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedSession(t, "u-shopper")

	rec := env.do(t, http.MethodPost, "/api/auth/logout", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodGet, "/api/auth/me", "", token)
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 after logout, got %d", rec.Code)
	}
}

func TestUpdateProfileSelfOnly(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedSession(t, "u-shopper")

	rec := env.do(t, http.MethodPatch, "/api/users/u-admin/update-profile", `{"full_name":"X","phone_number":"1"}`, token)
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for foreign profile, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPatch, "/api/users/u-shopper/update-profile", `{"full_name":"Pat Updated","phone_number":"5559999"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var resp struct {
		User userView `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.User.FullName != "Pat Updated" {
		t.Fatalf("profile not updated: %+v", resp.User)
	}
}

func TestUpdatePassword(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedSession(t, "u-shopper")

	rec := env.do(t, http.MethodPatch, "/api/users/u-shopper/update-password", `{"newPassword":"newpass"}`, token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}

	rec = env.do(t, http.MethodPost, "/api/auth/login", `{"email":"shopper@example.com","password":"newpass"}`, "")
	if rec.Code != http.StatusOK {
		t.Fatalf("login with new password failed: %d body=%s", rec.Code, rec.Body.String())
	}
}

func TestAdminSuspendToggle(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedSession(t, "u-admin")

	rec := env.do(t, http.MethodPatch, "/api/admin/users/u-shopper/suspend", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d body=%s", rec.Code, rec.Body.String())
	}
	var resp struct {
		Message string   `json:"message"`
		User    userView `json:"user"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.User.Active || resp.Message != "User account suspended" {
		t.Fatalf("unexpected response: %+v", resp)
	}

	rec = env.do(t, http.MethodPatch, "/api/admin/users/u-shopper/suspend", "", token)
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !resp.User.Active || resp.Message != "User account activated" {
		t.Fatalf("unexpected response: %+v", resp)
	}
}

func TestAdminResetPassword(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedSession(t, "u-admin")

	rec := env.do(t, http.MethodPost, "/api/admin/users/u-shopper/reset-password", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	rec = env.do(t, http.MethodPost, "/api/admin/users/missing/reset-password", "", token)
	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestAdminListUsers(t *testing.T) {
	env := newTestEnv(t)
	token := env.seedSession(t, "u-admin")

	rec := env.do(t, http.MethodGet, "/api/admin/users", "", token)
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		Users []userView `json:"users"`
		Total int        `json:"total"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if resp.Total != 2 {
		t.Fatalf("expected both seeded accounts, got %+v", resp)
	}
}
