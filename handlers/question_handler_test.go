package handlers_test

import (
	"context"
	"errors"
	"fmt"
	"io"
	"math/rand"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bytedance/sonic"
	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	config "github.com/dalewoodman1994/100-percent/configs"
	"github.com/dalewoodman1994/100-percent/handlers"
	"github.com/dalewoodman1994/100-percent/models"
	"github.com/dalewoodman1994/100-percent/routes"
	"github.com/dalewoodman1994/100-percent/services"
)

type stubFetcher struct {
	countries []models.Country
	err       error
}

func (f *stubFetcher) FetchEligibleCountries(ctx context.Context) ([]models.Country, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.countries, nil
}

func countryPool(n int) []models.Country {
	out := make([]models.Country, n)
	for i := range out {
		code := fmt.Sprintf("Q%03d", i)
		out[i] = models.Country{
			Name:         "Country " + code,
			Code:         code,
			FlagImageURL: "https://flagcdn.com/w320/" + strings.ToLower(code) + ".png",
			Eligible:     true,
		}
	}
	return out
}

func newTestApp(t *testing.T, fetcher services.CountryFetcher, syncLoad bool) *fiber.App {
	t.Helper()

	cfg, err := config.LoadQuizConfig("")
	require.NoError(t, err)

	cache := services.NewCountryCache(fetcher, nil)
	builder := services.NewQuestionService(services.NewTierClassifier(cfg.Tiers), cfg, rand.New(rand.NewSource(1)))
	h := handlers.NewQuizHandler(cache, builder, syncLoad, nil)

	app := fiber.New()
	routes.QuizRoutes(app, h)
	return app
}

func doGet(t *testing.T, app *fiber.App, path string) (*http.Response, []byte) {
	t.Helper()

	req := httptest.NewRequest(http.MethodGet, path, nil)
	resp, err := app.Test(req, -1)
	require.NoError(t, err)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	resp.Body.Close()
	return resp, body
}

func TestQuestionSetRejectsBadCategory(t *testing.T) {
	app := newTestApp(t, &stubFetcher{countries: countryPool(50)}, true)

	resp, body := doGet(t, app, "/api/questionset?category=capitals")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)

	var out map[string]string
	require.NoError(t, sonic.Unmarshal(body, &out))
	assert.NotEmpty(t, out["error"])
}

func TestQuestionSetRejectsBadMode(t *testing.T) {
	app := newTestApp(t, &stubFetcher{countries: countryPool(50)}, true)

	resp, _ := doGet(t, app, "/api/questionset?mode=impossible")
	assert.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}

func TestQuestionSetNotReady(t *testing.T) {
	// Synchronous loading off: an empty cache answers 503 until the
	// background refresh lands.
	app := newTestApp(t, &stubFetcher{countries: countryPool(50)}, false)

	resp, body := doGet(t, app, "/api/questionset")
	assert.Equal(t, fiber.StatusServiceUnavailable, resp.StatusCode)

	var out map[string]string
	require.NoError(t, sonic.Unmarshal(body, &out))
	assert.Contains(t, out["error"], "not loaded yet")
}

func TestQuestionSetUpstreamDown(t *testing.T) {
	app := newTestApp(t, &stubFetcher{err: errors.New("provider down")}, true)

	resp, body := doGet(t, app, "/api/questionset")
	assert.Equal(t, fiber.StatusBadGateway, resp.StatusCode)

	var out map[string]string
	require.NoError(t, sonic.Unmarshal(body, &out))
	assert.NotEmpty(t, out["error"])
}

func TestQuestionSetQuickfire(t *testing.T) {
	app := newTestApp(t, &stubFetcher{countries: countryPool(50)}, true)

	resp, body := doGet(t, app, "/api/questionset?mode=quickfire&category=flags")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	assert.Equal(t, "no-store, no-cache, must-revalidate", resp.Header.Get(fiber.HeaderCacheControl))
	assert.Equal(t, "no-cache", resp.Header.Get(fiber.HeaderPragma))
	assert.Equal(t, "0", resp.Header.Get(fiber.HeaderExpires))

	var set models.QuestionSet
	require.NoError(t, sonic.Unmarshal(body, &set))

	assert.Equal(t, "quickfire", set.Mode)
	assert.Equal(t, "flags", set.Category)
	assert.Equal(t, 30, set.TotalPlanned)
	assert.Equal(t, 50, set.TotalAvailable)
	assert.Equal(t, 30, set.TotalUsed)
	assert.False(t, set.GeneratedAt.IsZero())
	require.Len(t, set.Questions, 30)

	for _, q := range set.Questions {
		assert.Len(t, q.Choices, 4)
		assert.GreaterOrEqual(t, q.CorrectIndex, 0)
		assert.Less(t, q.CorrectIndex, len(q.Choices))
		assert.NotEmpty(t, q.PromptID)
		assert.NotEmpty(t, q.ImageURL)
	}
}

func TestQuestionSetHardmode(t *testing.T) {
	app := newTestApp(t, &stubFetcher{countries: countryPool(50)}, true)

	resp, body := doGet(t, app, "/api/questionset?mode=hardmode")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var set models.QuestionSet
	require.NoError(t, sonic.Unmarshal(body, &set))

	assert.Equal(t, "hardmode", set.Mode)
	assert.Equal(t, 195, set.TotalPlanned)
	assert.Equal(t, 50, set.TotalUsed, "hardmode runs the whole pool")
	assert.Len(t, set.Questions, 50)
}

func TestQuestionSetDefaults(t *testing.T) {
	app := newTestApp(t, &stubFetcher{countries: countryPool(50)}, true)

	resp, body := doGet(t, app, "/api/questionset")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var set models.QuestionSet
	require.NoError(t, sonic.Unmarshal(body, &set))
	assert.Equal(t, "quickfire", set.Mode)
	assert.Equal(t, "flags", set.Category)
}

func TestHealth(t *testing.T) {
	app := newTestApp(t, &stubFetcher{countries: countryPool(50)}, true)

	resp, body := doGet(t, app, "/health")
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var out map[string]any
	require.NoError(t, sonic.Unmarshal(body, &out))
	assert.Equal(t, "loading", out["status"])

	// A served request loads the cache, after which health flips to ok.
	doGet(t, app, "/api/questionset")

	_, body = doGet(t, app, "/health")
	require.NoError(t, sonic.Unmarshal(body, &out))
	assert.Equal(t, "ok", out["status"])
	assert.Equal(t, float64(50), out["countries"])
	assert.NotNil(t, out["lastRefresh"])
}
