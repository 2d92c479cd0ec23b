package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/terraincognita07/skinderma/internal/catalog"
	"github.com/terraincognita07/skinderma/internal/config"
	"github.com/terraincognita07/skinderma/internal/logging"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	chdirForTest(t, t.TempDir())
	t.Setenv("SKINDERMA_DATABASE_PATH", ":memory:")
	t.Setenv("SKINDERMA_I18N_DEFAULT_LANGUAGE", "en")

	var stdout bytes.Buffer
	cmd := NewRootCmd()
	cmd.SetOut(&stdout)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), err
}

func TestDiagnosePrintsConditionAndCarePlan(t *testing.T) {
	out, err := runCLI(t, "diagnose", "Rash", "Itching", "Swelling")
	require.NoError(t, err)

	assert.Contains(t, out, "Possible condition: Contact Dermatitis")
	assert.Contains(t, out, "Matched 3 of your 3 symptoms")
	assert.Contains(t, out, "  - Avoid allergens\n")
	assert.NotContains(t, out, "Urticaria")
}

func TestDiagnoseWithoutKnownSymptomsPromptsForSelection(t *testing.T) {
	out, err := runCLI(t, "diagnose")
	require.NoError(t, err)
	assert.Equal(t, "Please select at least one symptom.\n", out)

	out, err = runCLI(t, "diagnose", "Freckles")
	require.NoError(t, err)
	assert.Equal(t, "Please select at least one symptom.\n", out)
}

func TestDiagnoseJSONOutput(t *testing.T) {
	out, err := runCLI(t, "diagnose", "--format", "json", "pain")
	require.NoError(t, err)

	payload := diagnoseOutput{}
	require.NoError(t, json.Unmarshal([]byte(out), &payload))
	assert.Equal(t, "match", string(payload.Outcome))
	assert.Equal(t, "Herpes Simplex", payload.Condition)
	assert.Equal(t, 1, payload.Score)
	assert.Equal(t, []string{"Pain"}, payload.Selected)
	assert.Equal(t, []string{"Antiviral creams", "Medical consultation", "Avoid skin contact during flare"}, payload.Treatment)
}

func TestDiagnoseRejectsUnknownFormat(t *testing.T) {
	_, err := runCLI(t, "diagnose", "--format", "xml", "Pain")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unsupported format")
}

func TestDiagnoseHonorsLanguageFlag(t *testing.T) {
	out, err := runCLI(t, "diagnose", "--lang", "ru", "Acne")
	require.NoError(t, err)
	assert.Contains(t, out, "Acne Vulgaris")
	assert.NotContains(t, out, "Possible condition")
}

func TestSymptomsListsCatalogInOrder(t *testing.T) {
	out, err := runCLI(t, "symptoms")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, len(catalog.BuiltinSymptoms()))
	assert.Equal(t, "Redness", lines[0])
	assert.Equal(t, "Bumps", lines[len(lines)-1])
}

func TestConditionsListsSymptoms(t *testing.T) {
	out, err := runCLI(t, "conditions")
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, "Eczema: Redness, Dryness, Itching, Flaking, Cracks\n"))
	assert.Contains(t, out, "Urticaria (Hives): Rash, Itching, Swelling\n")
}

func TestServerAppServesHealthAndDiagnoseAPI(t *testing.T) {
	chdirForTest(t, t.TempDir())
	cfg, err := config.Load("")
	require.NoError(t, err)

	logger, err := logging.NewWithOutput("error", "text", io.Discard)
	require.NoError(t, err)
	source, err := catalog.Builtin()
	require.NoError(t, err)

	app, err := newServerApp(&runtime{cfg: cfg, logger: logger, catalog: source})
	require.NoError(t, err)

	resp, err := app.Test(httptest.NewRequest(http.MethodGet, "/healthz", nil), -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	req := httptest.NewRequest(http.MethodPost, "/api/diagnose", strings.NewReader(`{"symptoms":["Scaling","Redness","Dryness","Flaking"]}`))
	req.Header.Set("Content-Type", "application/json")
	resp, err = app.Test(req, -1)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	payload := map[string]any{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&payload))
	assert.Equal(t, "Psoriasis", payload["condition"])
}

func TestServerAppRejectsWeakSecret(t *testing.T) {
	chdirForTest(t, t.TempDir())
	cfg, err := config.Load("")
	require.NoError(t, err)
	cfg.Server.SecretKey = "short"

	logger, err := logging.NewWithOutput("error", "text", io.Discard)
	require.NoError(t, err)
	source, err := catalog.Builtin()
	require.NoError(t, err)

	_, err = newServerApp(&runtime{cfg: cfg, logger: logger, catalog: source})
	require.ErrorIs(t, err, config.ErrShortSecretKey)
}

// chdirForTest changes the working directory for the duration of the test
// (equivalent to testing.T.Chdir, which needs Go 1.24).
func chdirForTest(t *testing.T, dir string) {
	t.Helper()
	previous, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(previous) })
}
