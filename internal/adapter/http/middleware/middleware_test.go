package middleware_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"taskmanager/internal/adapter/http/middleware"
	"taskmanager/internal/core/domain"
	"taskmanager/pkg/apierrors"
	"taskmanager/pkg/translator"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	translator.InitTranslator(translator.Config{
		TranslationFolder:  "../../../../pkg/translator/translation",
		SupportedLanguages: []string{translator.LanguageFr, translator.LanguageEn},
	})
	os.Exit(m.Run())
}

type staticResolver map[string]string

func (r staticResolver) ResolveIdentity(_ context.Context, token string) (domain.Identity, error) {
	userID, ok := r[token]
	if !ok {
		return domain.Identity{}, domain.ErrUnauthenticated
	}
	return domain.Identity{UserID: userID}, nil
}

func newAuthRouter() *gin.Engine {
	router := gin.New()
	router.Use(middleware.LanguageMiddleware(), middleware.AuthMiddleware(staticResolver{"good": "user-1"}))
	router.GET("/whoami", func(c *gin.Context) {
		userID, _ := middleware.GetUserID(c)
		c.String(http.StatusOK, userID)
	})
	return router
}

func TestAuthMiddleware(t *testing.T) {
	cases := []struct {
		name     string
		header   string
		lang     string
		status   int
		expected string
	}{
		{name: "valid token", header: "Bearer good", status: http.StatusOK, expected: "user-1"},
		{name: "lowercase scheme", header: "bearer good", status: http.StatusOK, expected: "user-1"},
		{name: "missing header", status: http.StatusUnauthorized, expected: "No token, authorization denied"},
		{name: "wrong scheme", header: "Basic good", status: http.StatusUnauthorized, expected: "Token is not valid"},
		{name: "empty token", header: "Bearer ", status: http.StatusUnauthorized, expected: "Token is not valid"},
		{name: "unknown token", header: "Bearer bad", status: http.StatusUnauthorized, expected: "Token is not valid"},
		{name: "translated", header: "Bearer bad", lang: "fr-FR,fr;q=0.9", status: http.StatusUnauthorized, expected: "Jeton invalide"},
	}

	router := newAuthRouter()
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			if tc.lang != "" {
				req.Header.Set("Accept-Language", tc.lang)
			}
			rec := httptest.NewRecorder()

			router.ServeHTTP(rec, req)

			require.Equal(t, tc.status, rec.Code)
			if tc.status == http.StatusOK {
				require.Equal(t, tc.expected, rec.Body.String())
				return
			}

			var got apierrors.JsonErr
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &got))
			require.Equal(t, http.StatusUnauthorized, got.ErrDetails.Code)
			require.Equal(t, tc.expected, got.ErrDetails.Message)
		})
	}
}

func TestLanguageMiddleware(t *testing.T) {
	router := gin.New()
	router.GET("/lang", middleware.LanguageMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, middleware.GetLang(c))
	})

	for header, expected := range map[string]string{
		"":                  "en",
		"fr":                "fr",
		"fr-CA,fr;q=0.9,en": "fr",
		"en-US,en;q=0.9":    "en",
	} {
		req := httptest.NewRequest(http.MethodGet, "/lang", nil)
		req.Header.Set("Accept-Language", header)
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, req)
		require.Equal(t, expected, rec.Body.String(), header)
	}
}

func TestRequestIDMiddleware(t *testing.T) {
	router := gin.New()
	router.GET("/id", middleware.RequestIDMiddleware(), func(c *gin.Context) {
		c.String(http.StatusOK, middleware.GetRequestID(c))
	})

	req := httptest.NewRequest(http.MethodGet, "/id", nil)
	req.Header.Set(middleware.RequestIDHeader, "abc-123")
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Equal(t, "abc-123", rec.Body.String())
	require.Equal(t, "abc-123", rec.Header().Get(middleware.RequestIDHeader))

	req = httptest.NewRequest(http.MethodGet, "/id", nil)
	rec = httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	require.Len(t, rec.Body.String(), 36)
	require.Equal(t, rec.Body.String(), rec.Header().Get(middleware.RequestIDHeader))
}

func TestGinZapMiddleware_LogsServerErrorsAtErrorLevel(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	logger := zap.New(core)

	router := gin.New()
	router.Use(middleware.RequestIDMiddleware(), middleware.GinZapMiddleware(logger))
	router.GET("/ok", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/boom", func(c *gin.Context) { c.Status(http.StatusInternalServerError) })

	for _, path := range []string{"/ok", "/boom"} {
		router.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, path, nil))
	}

	entries := logs.All()
	require.Len(t, entries, 2)
	require.Equal(t, zap.InfoLevel, entries[0].Level)
	require.Equal(t, zap.ErrorLevel, entries[1].Level)
	require.Equal(t, "/boom", entries[1].ContextMap()["path"])
	require.NotEmpty(t, entries[1].ContextMap()["request_id"])
}
