package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/joaoo737/deliveryfront/internal/auth"
	"github.com/joaoo737/deliveryfront/pkg/enums"
	pkgerrors "github.com/joaoo737/deliveryfront/pkg/errors"
)

type stubAuthService struct {
	loginResp    *auth.LoginResponse
	registerResp *auth.LoginResponse
	refreshResp  *auth.TokenPair
	err          error
	lastLogin    *auth.LoginRequest
	lastLogout   struct {
		userID   uuid.UUID
		role     enums.Role
		accessID string
	}
}

func (s *stubAuthService) Login(ctx context.Context, req auth.LoginRequest) (*auth.LoginResponse, error) {
	s.lastLogin = &req
	return s.loginResp, s.err
}

func (s *stubAuthService) Register(ctx context.Context, req auth.RegisterRequest) (*auth.LoginResponse, error) {
	return s.registerResp, s.err
}

func (s *stubAuthService) Refresh(ctx context.Context, req auth.RefreshRequest) (*auth.TokenPair, error) {
	return s.refreshResp, s.err
}

func (s *stubAuthService) Logout(ctx context.Context, userID uuid.UUID, role enums.Role, accessID string) error {
	s.lastLogout.userID = userID
	s.lastLogout.role = role
	s.lastLogout.accessID = accessID
	return s.err
}

func TestAuthLoginReturnsTokens(t *testing.T) {
	svc := &stubAuthService{
		loginResp: &auth.LoginResponse{
			TokenPair: auth.TokenPair{AccessToken: "access", RefreshToken: "refresh"},
		},
	}

	body := `{"email":"customer@example.com","password":"hunter2!"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	resp := httptest.NewRecorder()
	AuthLogin(svc, nil)(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	var envelope struct {
		Data auth.LoginResponse `json:"data"`
	}
	if err := json.Unmarshal(resp.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if envelope.Data.AccessToken != "access" {
		t.Fatalf("unexpected token %q", envelope.Data.AccessToken)
	}
	if svc.lastLogin == nil || svc.lastLogin.Email != "customer@example.com" {
		t.Fatalf("unexpected login call %+v", svc.lastLogin)
	}
}

func TestAuthLoginRejectsMissingFields(t *testing.T) {
	svc := &stubAuthService{}
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(`{"email":"nope"}`))
	resp := httptest.NewRecorder()
	AuthLogin(svc, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if svc.lastLogin != nil {
		t.Fatal("service must not be called for invalid payloads")
	}
}

func TestAuthLoginMapsUnauthorized(t *testing.T) {
	svc := &stubAuthService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	body := `{"email":"customer@example.com","password":"wrong"}`
	req := httptest.NewRequest(http.MethodPost, "/login", strings.NewReader(body))
	resp := httptest.NewRecorder()
	AuthLogin(svc, nil)(resp, req)

	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestAuthRegisterCreates(t *testing.T) {
	svc := &stubAuthService{
		registerResp: &auth.LoginResponse{
			TokenPair: auth.TokenPair{AccessToken: "access", RefreshToken: "refresh"},
		},
	}
	body := `{"email":"new@example.com","password":"longenough","name":"New Customer","role":"customer"}`
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	resp := httptest.NewRecorder()
	AuthRegister(svc, nil)(resp, req)

	if resp.Code != http.StatusCreated {
		t.Fatalf("expected 201 got %d: %s", resp.Code, resp.Body.String())
	}
}

func TestAuthRegisterRejectsUnknownRole(t *testing.T) {
	svc := &stubAuthService{}
	body := `{"email":"new@example.com","password":"longenough","name":"New","role":"admin"}`
	req := httptest.NewRequest(http.MethodPost, "/register", strings.NewReader(body))
	resp := httptest.NewRecorder()
	AuthRegister(svc, nil)(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
