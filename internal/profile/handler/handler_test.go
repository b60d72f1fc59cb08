package handler_test

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/suite"

	"lexid/internal/audit"
	auditstore "lexid/internal/audit/store"
	"lexid/internal/identity"
	"lexid/internal/profile/handler"
	profileservice "lexid/internal/profile/service"
	profilestore "lexid/internal/profile/store"
	"lexid/internal/token"
	id "lexid/pkg/domain"
)

const (
	signingKey = "test-signing-key"
	walletA    = "0xaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaaa"
	walletB    = "0xbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbbb"
)

type HandlerSuite struct {
	suite.Suite

	router     chi.Router
	adminToken string
}

func TestHandlerSuite(t *testing.T) {
	suite.Run(t, new(HandlerSuite))
}

func (s *HandlerSuite) SetupTest() {
	logger := slog.New(slog.DiscardHandler)
	profiles := profilestore.NewInMemoryStore()
	entries := auditstore.NewInMemoryStore()
	provider := identity.NewInMemoryProvider()
	recorder := audit.NewRecorder(entries, logger)
	svc := profileservice.New(profiles, provider, recorder, logger)
	tokens := token.NewService(signingKey)

	s.router = chi.NewRouter()
	handler.New(svc, tokens, logger).Register(s.router)

	s.adminToken = s.mintToken(id.NewProfileID(), "admin")
}

func (s *HandlerSuite) mintToken(profileID id.ProfileID, role string) string {
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, token.Claims{
		ProfileID: profileID.String(),
		Role:      role,
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
		},
	}).SignedString([]byte(signingKey))
	s.Require().NoError(err)
	return signed
}

func (s *HandlerSuite) do(method, path, bearer string, payload any) *httptest.ResponseRecorder {
	var body *bytes.Buffer
	if payload != nil {
		raw, err := json.Marshal(payload)
		s.Require().NoError(err)
		body = bytes.NewBuffer(raw)
	} else {
		body = &bytes.Buffer{}
	}

	req := httptest.NewRequest(method, path, body)
	req.Header.Set("Content-Type", "application/json")
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	return rec
}

func (s *HandlerSuite) registerProfile(email, walletAddress string) string {
	rec := s.do(http.MethodPost, "/admin/profiles", s.adminToken, map[string]string{
		"email":          email,
		"full_name":      "Dana Whitfield",
		"role":           "lawyer",
		"wallet_address": walletAddress,
	})
	s.Require().Equal(http.StatusCreated, rec.Code, rec.Body.String())

	var out map[string]string
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out))
	s.Require().NotEmpty(out["profile_id"])
	return out["profile_id"]
}

func (s *HandlerSuite) TestRegisterCreated() {
	profileID := s.registerProfile("dana@example.com", walletA)

	rec := s.do(http.MethodGet, "/admin/profiles/wallet/"+walletA, s.adminToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var profile map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &profile))
	s.Equal(profileID, profile["profile_id"])
	s.Equal("dana@example.com", profile["email"])
	s.Equal(true, profile["wallet_verified"])
}

func (s *HandlerSuite) TestRegisterRequiresToken() {
	rec := s.do(http.MethodPost, "/admin/profiles", "", map[string]string{
		"email": "dana@example.com",
	})
	s.Equal(http.StatusUnauthorized, rec.Code)
}

func (s *HandlerSuite) TestRegisterForbiddenForNonAdmin() {
	clerkToken := s.mintToken(id.NewProfileID(), "clerk")
	rec := s.do(http.MethodPost, "/admin/profiles", clerkToken, map[string]string{
		"email":          "dana@example.com",
		"full_name":      "Dana Whitfield",
		"role":           "lawyer",
		"wallet_address": walletA,
	})
	s.Equal(http.StatusForbidden, rec.Code)
}

func (s *HandlerSuite) TestRegisterValidationFailure() {
	rec := s.do(http.MethodPost, "/admin/profiles", s.adminToken, map[string]string{
		"email":          "dana@example.com",
		"full_name":      "Dana Whitfield",
		"role":           "lawyer",
		"wallet_address": "0x123",
	})
	s.Equal(http.StatusBadRequest, rec.Code)
	s.Contains(rec.Body.String(), "validation_failed")
}

func (s *HandlerSuite) TestRegisterConflict() {
	s.registerProfile("dana@example.com", walletA)

	rec := s.do(http.MethodPost, "/admin/profiles", s.adminToken, map[string]string{
		"email":          "other@example.com",
		"full_name":      "Other Person",
		"role":           "clerk",
		"wallet_address": walletA,
	})
	s.Equal(http.StatusConflict, rec.Code)
	s.Contains(rec.Body.String(), "wallet already registered")
}

func (s *HandlerSuite) TestRegisterMalformedBody() {
	req := httptest.NewRequest(http.MethodPost, "/admin/profiles", bytes.NewBufferString("{not json"))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+s.adminToken)
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestUpdateWallet() {
	profileID := s.registerProfile("dana@example.com", walletA)

	rec := s.do(http.MethodPut, fmt.Sprintf("/admin/profiles/%s/wallet", profileID), s.adminToken, map[string]string{
		"wallet_address": walletB,
		"reason":         "hardware wallet replaced",
	})
	s.Require().Equal(http.StatusNoContent, rec.Code, rec.Body.String())

	rec = s.do(http.MethodGet, "/admin/profiles/wallet/"+walletB, s.adminToken, nil)
	s.Equal(http.StatusOK, rec.Code)
}

func (s *HandlerSuite) TestUpdateWalletBadProfileID() {
	rec := s.do(http.MethodPut, "/admin/profiles/not-a-uuid/wallet", s.adminToken, map[string]string{
		"wallet_address": walletB,
	})
	s.Equal(http.StatusBadRequest, rec.Code)
}

func (s *HandlerSuite) TestUpdateWalletNotFound() {
	rec := s.do(http.MethodPut, fmt.Sprintf("/admin/profiles/%s/wallet", id.NewProfileID()), s.adminToken, map[string]string{
		"wallet_address": walletB,
	})
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestSetVerified() {
	profileID := s.registerProfile("dana@example.com", walletA)

	rec := s.do(http.MethodPut, fmt.Sprintf("/admin/profiles/%s/verification", profileID), s.adminToken, map[string]bool{
		"verified": false,
	})
	s.Require().Equal(http.StatusNoContent, rec.Code)

	rec = s.do(http.MethodGet, "/admin/profiles/wallet/"+walletA, s.adminToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var profile map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &profile))
	s.Equal(false, profile["wallet_verified"])
}

func (s *HandlerSuite) TestListProfiles() {
	s.registerProfile("dana@example.com", walletA)
	s.registerProfile("erik@example.com", walletB)

	rec := s.do(http.MethodGet, "/admin/profiles", s.adminToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var out []map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out))
	s.Len(out, 2)
}

func (s *HandlerSuite) TestFindByWalletNotFound() {
	rec := s.do(http.MethodGet, "/admin/profiles/wallet/"+walletA, s.adminToken, nil)
	s.Equal(http.StatusNotFound, rec.Code)
}

func (s *HandlerSuite) TestAuditHistory() {
	profileID := s.registerProfile("dana@example.com", walletA)

	rec := s.do(http.MethodGet, fmt.Sprintf("/admin/profiles/%s/audit", profileID), s.adminToken, nil)
	s.Require().Equal(http.StatusOK, rec.Code)

	var out []map[string]any
	s.Require().NoError(json.Unmarshal(rec.Body.Bytes(), &out))
	s.Require().Len(out, 1)
	s.Equal("wallet_added", out[0]["action"])
	s.Equal(walletA, out[0]["new_value"])
	s.NotEmpty(out[0]["changed_by"])
}

func (s *HandlerSuite) TestExpiredTokenRejected() {
	expired, err := jwt.NewWithClaims(jwt.SigningMethodHS256, token.Claims{
		ProfileID: id.NewProfileID().String(),
		Role:      "admin",
		RegisteredClaims: jwt.RegisteredClaims{
			ExpiresAt: jwt.NewNumericDate(time.Now().Add(-time.Hour)),
		},
	}).SignedString([]byte(signingKey))
	s.Require().NoError(err)

	rec := s.do(http.MethodGet, "/admin/profiles", expired, nil)
	s.Equal(http.StatusUnauthorized, rec.Code)
}
