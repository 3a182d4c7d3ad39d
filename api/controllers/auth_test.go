package controllers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/hayyerp/pos-backend/internal/users"
	pkgAuth "github.com/hayyerp/pos-backend/pkg/auth"
	"github.com/hayyerp/pos-backend/pkg/config"
	"github.com/hayyerp/pos-backend/pkg/db/models"
	"github.com/hayyerp/pos-backend/pkg/enums"
	pkgerrors "github.com/hayyerp/pos-backend/pkg/errors"
)

type stubUserService struct {
	user *models.User
	err  error
}

func (s *stubUserService) Create(_ context.Context, _ users.CreateInput) (*models.User, error) {
	return s.user, s.err
}

func (s *stubUserService) Update(_ context.Context, _ uuid.UUID, _ users.UpdateInput) (*models.User, error) {
	return s.user, s.err
}

func (s *stubUserService) Get(_ context.Context, _ uuid.UUID) (*models.User, error) {
	return s.user, s.err
}

func (s *stubUserService) Delete(_ context.Context, _ uuid.UUID) error {
	return s.err
}

func (s *stubUserService) List(_ context.Context) ([]models.User, error) {
	if s.err != nil {
		return nil, s.err
	}
	if s.user == nil {
		return nil, nil
	}
	return []models.User{*s.user}, nil
}

func (s *stubUserService) Authenticate(_ context.Context, _, _ string) (*models.User, error) {
	return s.user, s.err
}

var testJWTConfig = config.JWTConfig{Secret: "test-secret", TTLMinutes: 30, Issuer: "hayyerp-test"}

func TestAuthLoginIssuesToken(t *testing.T) {
	user := &models.User{
		ID:       uuid.New(),
		Name:     "Administrator",
		Username: "admin",
		Role:     enums.UserRoleAdmin,
		Active:   true,
	}
	handler := AuthLogin(&stubUserService{user: user}, testJWTConfig, nil)

	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "admin123"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", rec.Code, rec.Body.String())
	}

	var envelope struct {
		Data loginResponse `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.AccessToken == "" {
		t.Fatal("expected a token")
	}
	if envelope.Data.User == nil || envelope.Data.User.Username != "admin" {
		t.Fatalf("unexpected user payload: %+v", envelope.Data.User)
	}

	claims, err := pkgAuth.ParseAccessToken(testJWTConfig, envelope.Data.AccessToken)
	if err != nil {
		t.Fatalf("parse issued token: %v", err)
	}
	if claims.UserID != user.ID || claims.Role != enums.UserRoleAdmin {
		t.Fatalf("unexpected claims: %+v", claims)
	}
}

func TestAuthLoginRejectsBadCredentials(t *testing.T) {
	stub := &stubUserService{err: pkgerrors.New(pkgerrors.CodeUnauthorized, "invalid credentials")}
	handler := AuthLogin(stub, testJWTConfig, nil)

	body, _ := json.Marshal(map[string]string{"username": "admin", "password": "wrong"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", rec.Code)
	}
}

func TestAuthLoginRequiresBothFields(t *testing.T) {
	handler := AuthLogin(&stubUserService{}, testJWTConfig, nil)

	body, _ := json.Marshal(map[string]string{"username": "admin"})
	req := httptest.NewRequest(http.MethodPost, "/api/v1/auth/login", bytes.NewReader(body))
	rec := httptest.NewRecorder()

	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", rec.Code)
	}
}
