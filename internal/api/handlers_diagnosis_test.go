package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/skinderma/internal/catalog"
	"github.com/terraincognita07/skinderma/internal/services"
)

func TestHealthReportsCatalogSize(t *testing.T) {
	app := newTestApp(t, newTestHandler(t, nil), false)

	resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	payload := map[string]any{}
	decodeJSON(t, resp, &payload)
	assert.Equal(t, "ok", payload["status"])
	assert.EqualValues(t, 8, payload["conditions"])
}

func TestShowHomeListsLocalizedSymptoms(t *testing.T) {
	app := newTestApp(t, newTestHandler(t, nil), false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Accept-Language", "ru-RU,ru;q=0.9")
	resp := doRequest(t, app, req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	body := readBody(t, resp)
	assert.Contains(t, body, `value="Redness"`)
	assert.Contains(t, body, "Покраснение")
	assert.Contains(t, body, `lang="ru"`)

	languageCookie := findCookie(resp, languageCookieName)
	require.NotNil(t, languageCookie)
	assert.Equal(t, "ru", languageCookie.Value)
}

func TestSubmitDiagnosisWithoutSymptomsFlashesPrompt(t *testing.T) {
	app := newTestApp(t, newTestHandler(t, nil), false)

	resp := doRequest(t, app, formRequest("/diagnose"))
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	flash := findCookie(resp, flashCookieName)
	require.NotNil(t, flash)
	require.NotEmpty(t, flash.Value)

	home := httptest.NewRequest(http.MethodGet, "/", nil)
	home.AddCookie(&http.Cookie{Name: flashCookieName, Value: flash.Value})
	homeResp := doRequest(t, app, home)
	body := readBody(t, homeResp)
	assert.Contains(t, body, "Please select at least one symptom.")

	cleared := findCookie(homeResp, flashCookieName)
	require.NotNil(t, cleared)
	assert.Empty(t, cleared.Value)
}

func TestSubmitDiagnosisIgnoresUnknownSymptoms(t *testing.T) {
	app := newTestApp(t, newTestHandler(t, nil), false)

	resp := doRequest(t, app, formRequest("/diagnose", "Freckles", "  "))
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))
}

func TestSubmitDiagnosisRedirectsToRenderedResult(t *testing.T) {
	app := newTestApp(t, newTestHandler(t, nil), false)

	resp := doRequest(t, app, formRequest("/diagnose", "Redness", "Dryness", "Itching", "Flaking", "Cracks"))
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	location := resp.Header.Get("Location")
	require.True(t, strings.HasPrefix(location, "/result/"), location)

	result := doRequest(t, app, httptest.NewRequest(http.MethodGet, location, nil))
	require.Equal(t, fiber.StatusOK, result.StatusCode)

	body := readBody(t, result)
	assert.Contains(t, body, "Eczema")
	assert.Contains(t, body, "Moisturize frequently")
	assert.Contains(t, body, "Apply hydrocortisone creams")
	assert.Contains(t, body, "Matched 5 of your 5 symptoms")
}

func TestShowResultPrefersEarlierConditionOnTie(t *testing.T) {
	app := newTestApp(t, newTestHandler(t, nil), false)

	resp := doRequest(t, app, formRequest("/diagnose", "Rash", "Itching", "Swelling"))
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	result := doRequest(t, app, httptest.NewRequest(http.MethodGet, resp.Header.Get("Location"), nil))
	body := readBody(t, result)
	assert.Contains(t, body, "Contact Dermatitis")
	assert.NotContains(t, body, "Urticaria")
}

func TestShowResultRendersNoMatchWarning(t *testing.T) {
	source, err := catalog.New(
		[]catalog.Symptom{{Name: "Redness"}, {Name: "Pain"}},
		[]catalog.Condition{{Name: "Rosacea", Symptoms: []catalog.Symptom{{Name: "Redness"}}, Treatment: []string{"Gentle care"}}},
	)
	require.NoError(t, err)
	app := newTestApp(t, newTestHandler(t, source), false)

	resp := doRequest(t, app, formRequest("/diagnose", "Pain"))
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)

	result := doRequest(t, app, httptest.NewRequest(http.MethodGet, resp.Header.Get("Location"), nil))
	require.Equal(t, fiber.StatusOK, result.StatusCode)
	body := readBody(t, result)
	assert.Contains(t, body, "No matching skin condition found. Please consult a professional dermatologist.")
	assert.NotContains(t, body, "Rosacea")
}

func TestShowResultRejectsBadTokens(t *testing.T) {
	handler := newTestHandler(t, nil)
	app := newTestApp(t, handler, false)

	resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/result/not-a-token", nil))
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	flash := findCookie(resp, flashCookieName)
	require.NotNil(t, flash)
	home := httptest.NewRequest(http.MethodGet, "/", nil)
	home.AddCookie(&http.Cookie{Name: flashCookieName, Value: flash.Value})
	assert.Contains(t, readBody(t, doRequest(t, app, home)), "This result link is invalid.")

	issued := time.Now().Add(-48 * time.Hour)
	expired, err := services.BuildShareToken([]byte(testSecretKey), []string{"Pain"}, time.Hour, issued)
	require.NoError(t, err)

	resp = doRequest(t, app, httptest.NewRequest(http.MethodGet, resultPath(expired), nil))
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	flash = findCookie(resp, flashCookieName)
	require.NotNil(t, flash)
	home = httptest.NewRequest(http.MethodGet, "/", nil)
	home.AddCookie(&http.Cookie{Name: flashCookieName, Value: flash.Value})
	assert.Contains(t, readBody(t, doRequest(t, app, home)), "This result link has expired.")
}

func TestShowHomeIgnoresForgedFlashCookie(t *testing.T) {
	app := newTestApp(t, newTestHandler(t, nil), false)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.AddCookie(&http.Cookie{Name: flashCookieName, Value: "v1.Zm9yZ2Vk"})
	resp := doRequest(t, app, req)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	assert.NotContains(t, readBody(t, resp), `role="alert"`)
}

func TestSetLanguageStoresCookieAndRedirectsSafely(t *testing.T) {
	app := newTestApp(t, newTestHandler(t, nil), false)

	resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/lang/ru?next=//evil.example", nil))
	require.Equal(t, fiber.StatusSeeOther, resp.StatusCode)
	assert.Equal(t, "/", resp.Header.Get("Location"))

	cookie := findCookie(resp, languageCookieName)
	require.NotNil(t, cookie)
	assert.Equal(t, "ru", cookie.Value)

	resp = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/lang/en?next=/result/abc", nil))
	assert.Equal(t, "/result/abc", resp.Header.Get("Location"))
}

func TestNotFoundRespondsByAudience(t *testing.T) {
	app := newTestApp(t, newTestHandler(t, nil), false)

	resp := doRequest(t, app, httptest.NewRequest(http.MethodGet, "/api/missing", nil))
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	payload := map[string]string{}
	decodeJSON(t, resp, &payload)
	assert.Equal(t, "not found", payload["error"])

	resp = doRequest(t, app, httptest.NewRequest(http.MethodGet, "/missing", nil))
	require.Equal(t, fiber.StatusNotFound, resp.StatusCode)
	assert.Contains(t, readBody(t, resp), "Page not found")
}

func TestCSRFProtectsFormButNotJSONAPI(t *testing.T) {
	app := newTestApp(t, newTestHandler(t, nil), true)

	resp := doRequest(t, app, formRequest("/diagnose", "Pain"))
	assert.Equal(t, fiber.StatusForbidden, resp.StatusCode)

	resp = doRequest(t, app, jsonRequest(http.MethodPost, "/api/diagnose", `{"symptoms":["Pain"]}`))
	assert.Equal(t, fiber.StatusOK, resp.StatusCode)
}
