package handler_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/paydown/finance-tracker/internal/config"
	"github.com/paydown/finance-tracker/internal/handler"
	"github.com/paydown/finance-tracker/internal/middleware"
	"github.com/paydown/finance-tracker/internal/service"
)

// newTestRouter wires the handlers behind the auth middleware the way main
// does. The repository is nil: these tests only exercise the request paths
// that reject before any persistence call.
func newTestRouter() (*mux.Router, *config.Config) {
	log := logrus.New()
	log.SetOutput(io.Discard)
	cfg := &config.Config{JWTSecret: "test-secret"}

	h := handler.NewHandler(service.NewService(nil, log, cfg), log)

	r := mux.NewRouter()
	auth := r.PathPrefix("/").Subrouter()
	auth.Use(middleware.AuthMiddleware(cfg))
	auth.HandleFunc("/projection", h.GetProjection).Methods("GET")
	auth.HandleFunc("/what-if", h.RunWhatIf).Methods("POST")
	auth.HandleFunc("/loans/{loanID}/payments", h.RecordLoanPayment).Methods("POST")
	auth.HandleFunc("/loans/{loanID}/refinance", h.AnalyzeRefinance).Methods("POST")
	return r, cfg
}

func bearerToken(t *testing.T, cfg *config.Config) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		Subject:   "7",
		ExpiresAt: jwt.NewNumericDate(time.Now().Add(time.Hour)),
	})
	signed, err := token.SignedString([]byte(cfg.JWTSecret))
	require.NoError(t, err)
	return "Bearer " + signed
}

func TestProtectedRoutesRequireToken(t *testing.T) {
	router, _ := newTestRouter()

	for _, route := range []struct{ method, path string }{
		{http.MethodGet, "/projection"},
		{http.MethodPost, "/what-if"},
		{http.MethodPost, "/loans/1/payments"},
	} {
		req := httptest.NewRequest(route.method, route.path, nil)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code, "%s %s", route.method, route.path)
	}
}

func TestRunWhatIfRejectsMalformedBody(t *testing.T) {
	router, cfg := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/what-if", strings.NewReader("{not json"))
	req.Header.Set("Authorization", bearerToken(t, cfg))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestGetProjectionRejectsInvalidMonths(t *testing.T) {
	router, cfg := newTestRouter()

	for _, months := range []string{"abc", "-3"} {
		req := httptest.NewRequest(http.MethodGet, "/projection?months="+months, nil)
		req.Header.Set("Authorization", bearerToken(t, cfg))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code, "months=%s", months)
	}
}

func TestRecordLoanPaymentValidation(t *testing.T) {
	router, cfg := newTestRouter()

	t.Run("non-numeric loan id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/loans/abc/payments", strings.NewReader(`{"amount": 50}`))
		req.Header.Set("Authorization", bearerToken(t, cfg))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("non-positive amount", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/loans/1/payments", strings.NewReader(`{"amount": 0}`))
		req.Header.Set("Authorization", bearerToken(t, cfg))
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestAnalyzeRefinanceRejectsNonPositiveTerm(t *testing.T) {
	router, cfg := newTestRouter()

	req := httptest.NewRequest(http.MethodPost, "/loans/1/refinance", strings.NewReader(`{"apr": 5, "fees": 100, "term_months": 0}`))
	req.Header.Set("Authorization", bearerToken(t, cfg))
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
