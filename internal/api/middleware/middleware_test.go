package middleware

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/kotoba/study-api/internal/api/shared"
	"github.com/kotoba/study-api/internal/platform/logger"
	"github.com/kotoba/study-api/internal/service/auth"
	"github.com/stretchr/testify/assert"
)

type stubJWTService struct {
	userID uuid.UUID
	err    error
}

func (s stubJWTService) GenerateToken(context.Context, uuid.UUID) (string, error) {
	return "token", nil
}

func (s stubJWTService) ValidateToken(_ context.Context, token string) (*auth.Claims, error) {
	if s.err != nil {
		return nil, s.err
	}
	return &auth.Claims{UserID: s.userID, TokenType: "access"}, nil
}

// echoUser writes "anonymous" or the user ID found in the context.
var echoUser = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
	userID, ok := GetUserID(r)
	if !ok {
		_, _ = w.Write([]byte("anonymous"))
		return
	}
	_, _ = w.Write([]byte(userID.String()))
})

func TestAuthMiddleware(t *testing.T) {
	t.Parallel()

	userID := uuid.New()

	tests := []struct {
		name       string
		optional   bool
		header     string
		jwtErr     error
		wantStatus int
		wantBody   string
	}{
		{"required, valid", false, "Bearer good", nil, http.StatusOK, userID.String()},
		{"required, missing", false, "", nil, http.StatusUnauthorized, ""},
		{"required, bad scheme", false, "Basic abc", nil, http.StatusUnauthorized, ""},
		{"required, expired", false, "Bearer old", auth.ErrExpiredToken, http.StatusUnauthorized, ""},
		{"required, internal", false, "Bearer x", errors.New("boom"), http.StatusInternalServerError, ""},
		{"optional, missing", true, "", nil, http.StatusOK, "anonymous"},
		{"optional, valid", true, "Bearer good", nil, http.StatusOK, userID.String()},
		{"optional, invalid", true, "Bearer bad", auth.ErrInvalidToken, http.StatusUnauthorized, ""},
		{"optional, wrong type", true, "Bearer bad", auth.ErrWrongTokenType, http.StatusUnauthorized, ""},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			m := NewAuthMiddleware(stubJWTService{userID: userID, err: tc.jwtErr})
			handler := m.Authenticate(echoUser)
			if tc.optional {
				handler = m.OptionalAuthenticate(echoUser)
			}

			r := httptest.NewRequest(http.MethodGet, "/", nil)
			if tc.header != "" {
				r.Header.Set("Authorization", tc.header)
			}
			w := httptest.NewRecorder()
			handler.ServeHTTP(w, r)

			assert.Equal(t, tc.wantStatus, w.Code)
			if tc.wantBody != "" {
				assert.Equal(t, tc.wantBody, w.Body.String())
			}
		})
	}
}

func TestTraceMiddleware(t *testing.T) {
	t.Parallel()

	log, buf := logger.NewTestLogger(t)
	var traceID string
	handler := TraceMiddleware(log)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		traceID = shared.GetTraceID(r.Context())
		logger.FromContext(r.Context()).Info("inside handler")
	}))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/health", nil))

	assert.NotEmpty(t, traceID)
	logger.AssertLogContains(t, buf, "inside handler")
	logger.AssertLogContains(t, buf, traceID)
}
