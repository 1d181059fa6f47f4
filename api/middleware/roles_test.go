package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/joaoo737/deliveryfront/internal/auth"
	"github.com/joaoo737/deliveryfront/pkg/enums"
)

func requestWithRole(t *testing.T, role enums.Role) *http.Request {
	t.Helper()
	session, err := auth.AuthenticatedSession(uuid.New(), role)
	if err != nil {
		t.Fatalf("build session: %v", err)
	}
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	return req.WithContext(WithSession(req.Context(), session))
}

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRequirePermissionHonorsHierarchy(t *testing.T) {
	cases := []struct {
		actor    enums.Role
		required enums.Role
		want     int
	}{
		{enums.RoleAdmin, enums.RoleCustomer, http.StatusOK},
		{enums.RoleAdmin, enums.RoleVendor, http.StatusOK},
		{enums.RoleVendor, enums.RoleVendor, http.StatusOK},
		{enums.RoleVendor, enums.RoleAdmin, http.StatusForbidden},
		{enums.RoleCustomer, enums.RoleVendor, http.StatusForbidden},
		{enums.RoleCustomer, enums.RoleCustomer, http.StatusOK},
	}

	for _, tc := range cases {
		handler := RequirePermission(tc.required, nil)(okHandler())
		resp := httptest.NewRecorder()
		handler.ServeHTTP(resp, requestWithRole(t, tc.actor))
		if resp.Code != tc.want {
			t.Fatalf("%s requiring %s: expected %d got %d", tc.actor, tc.required, tc.want, resp.Code)
		}
	}
}

func TestRequirePermissionRejectsAnonymous(t *testing.T) {
	handler := RequirePermission(enums.RoleCustomer, nil)(okHandler())
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/", nil))
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for anonymous got %d", resp.Code)
	}
}

func TestRequireRoleIsExact(t *testing.T) {
	handler := RequireRole(enums.RoleCustomer, nil)(okHandler())

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, requestWithRole(t, enums.RoleCustomer))
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for customer got %d", resp.Code)
	}

	// Admins outrank customers but must not pass an exact-role gate.
	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, requestWithRole(t, enums.RoleAdmin))
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for admin got %d", resp.Code)
	}

	resp = httptest.NewRecorder()
	handler.ServeHTTP(resp, requestWithRole(t, enums.RoleVendor))
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for vendor got %d", resp.Code)
	}
}
