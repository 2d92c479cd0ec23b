package api

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/csrf"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/skinderma/internal/catalog"
	"github.com/terraincognita07/skinderma/internal/i18n"
	"github.com/terraincognita07/skinderma/internal/services"
)

const testSecretKey = "0123456789abcdef0123456789abcdef"

func newTestHandler(t *testing.T, source *catalog.Catalog) *Handler {
	t.Helper()

	if source == nil {
		builtin, err := catalog.Builtin()
		require.NoError(t, err)
		source = builtin
	}

	manager, err := i18n.NewManager("en", "")
	require.NoError(t, err)

	logger := logrus.New()
	logger.SetOutput(io.Discard)

	handler, err := NewHandler(Options{
		Diagnosis: services.NewDiagnosisService(source),
		I18n:      manager,
		Logger:    logger,
		SecretKey: testSecretKey,
	})
	require.NoError(t, err)
	return handler
}

func newTestApp(t *testing.T, handler *Handler, withCSRF bool) *fiber.App {
	t.Helper()

	app := fiber.New()
	app.Use(handler.LanguageMiddleware)
	if withCSRF {
		app.Use(csrf.New(CSRFConfig(false)))
	}
	RegisterRoutes(app, handler)
	app.Use(handler.NotFound)
	return app
}

func doRequest(t *testing.T, app *fiber.App, req *http.Request) *http.Response {
	t.Helper()
	resp, err := app.Test(req, -1)
	require.NoError(t, err)
	t.Cleanup(func() {
		_ = resp.Body.Close()
	})
	return resp
}

func readBody(t *testing.T, resp *http.Response) string {
	t.Helper()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	return string(body)
}

func decodeJSON(t *testing.T, resp *http.Response, target any) {
	t.Helper()
	require.NoError(t, json.NewDecoder(resp.Body).Decode(target))
}

func formRequest(path string, symptoms ...string) *http.Request {
	form := url.Values{}
	for _, symptom := range symptoms {
		form.Add("symptoms", symptom)
	}
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(form.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	return req
}

func jsonRequest(method string, path string, body string) *http.Request {
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")
	return req
}

func findCookie(resp *http.Response, name string) *http.Cookie {
	for _, cookie := range resp.Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}
