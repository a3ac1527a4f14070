package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"hops-cache/internal/app"
	"hops-cache/internal/config"
	"hops-cache/internal/places"
	"hops-cache/internal/provider"
	"hops-cache/pkg/models"
)

type fakeProvider struct {
	raws []provider.RawBeer
	err  error
}

func (p *fakeProvider) Search(context.Context, string) ([]provider.RawBeer, error) {
	return p.raws, p.err
}

func (p *fakeProvider) ByTerm(context.Context, string) ([]provider.RawBeer, error) {
	return p.raws, p.err
}

type fakePlaces struct{}

func (fakePlaces) Nearby(_ context.Context, lat, lng float64, _ int) ([]models.Place, error) {
	return []models.Place{
		{ID: "far", Name: "The Far", Latitude: lat + 0.05, Longitude: lng},
		{ID: "near", Name: "The Near", Latitude: lat + 0.001, Longitude: lng},
	}, nil
}

func (fakePlaces) Details(_ context.Context, id string) (*models.Place, error) {
	if id == "near" {
		return &models.Place{ID: "near", Name: "The Near"}, nil
	}
	return nil, places.ErrNotFound
}

func setupTestServer(t *testing.T, p *fakeProvider, opts ...app.Option) (*gin.Engine, *app.App) {
	logger := zaptest.NewLogger(t)

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	cfg, err := config.LoadConfig()
	require.NoError(t, err)
	cfg.Local.Driver = app.DriverMemory
	cfg.Shared.Driver = app.DriverMemory

	opts = append([]app.Option{app.WithProvider(p), app.WithPlacesClient(fakePlaces{})}, opts...)
	a, err := app.Build(cfg, logger, opts...)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })

	gin.SetMode(gin.TestMode)
	router := gin.New()
	Register(router,
		NewBeerHandler(a.Search, logger),
		NewAdminHandler(a.Search, logger),
		NewPlacesHandler(a.Places, logger))

	return router, a
}

func doRequest(router *gin.Engine, method, path string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder) map[string]any {
	var body map[string]any
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body
}

func punk(id int, name string) provider.RawBeer {
	return provider.RawBeer{Kind: provider.KindPunk, Punk: &provider.PunkBeer{ID: id, Name: name, ABV: 5}}
}

func TestAPI_Search(t *testing.T) {
	router, _ := setupTestServer(t, &fakeProvider{raws: []provider.RawBeer{punk(1, "Buzz")}})

	w := doRequest(router, http.MethodGet, "/api/v1/beers/search?q=buzz")
	require.Equal(t, http.StatusOK, w.Code)

	body := decode(t, w)
	assert.Equal(t, "buzz", body["query"])
	assert.Equal(t, float64(1), body["count"])

	w = doRequest(router, http.MethodGet, "/api/v1/beers/search?q=")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(0), decode(t, w)["count"])
}

func TestAPI_SearchDegradesOnProviderFailure(t *testing.T) {
	router, _ := setupTestServer(t, &fakeProvider{err: errors.New("connection refused")})

	w := doRequest(router, http.MethodGet, "/api/v1/beers/search?q=stout")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Greater(t, decode(t, w)["count"], float64(0))
}

func TestAPI_ConfigErrorBody(t *testing.T) {
	router, _ := setupTestServer(t, &fakeProvider{err: provider.ErrConfig})

	w := doRequest(router, http.MethodGet, "/api/v1/beers/search?q=ipa")
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)

	body := decode(t, w)
	assert.Equal(t, "CONFIG_ERROR", body["error"])
	assert.NotEmpty(t, body["message"])
}

func TestAPI_BeerByIDAndRandom(t *testing.T) {
	router, a := setupTestServer(t, &fakeProvider{raws: []provider.RawBeer{punk(7, "Trashy Blonde")}})

	w := doRequest(router, http.MethodGet, "/api/v1/beers/7")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Trashy Blonde", decode(t, w)["name"])

	w = doRequest(router, http.MethodGet, "/api/v1/beers/random")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Trashy Blonde", decode(t, w)["name"])

	assert.Equal(t, 2, a.Budget.Count(context.Background()))
}

func TestAPI_BeerNotFound(t *testing.T) {
	router, _ := setupTestServer(t, &fakeProvider{err: provider.ErrNotFound})

	w := doRequest(router, http.MethodGet, "/api/v1/beers/does-not-exist")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_BrowseAndPopular(t *testing.T) {
	router, _ := setupTestServer(t, &fakeProvider{raws: []provider.RawBeer{punk(1, "A"), punk(2, "B"), punk(3, "C")}})

	w := doRequest(router, http.MethodGet, "/api/v1/beers?page=2&per_page=2")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["count"])

	w = doRequest(router, http.MethodGet, "/api/v1/beers?page=x")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/beers/popular?limit=5")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, []any{"ale"}, decode(t, w)["terms"])
}

func TestAPI_Admin(t *testing.T) {
	router, _ := setupTestServer(t, &fakeProvider{raws: []provider.RawBeer{punk(1, "Buzz")}})

	doRequest(router, http.MethodGet, "/api/v1/beers/search?q=buzz")

	w := doRequest(router, http.MethodGet, "/api/v1/admin/cache/stats")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["totalItems"])

	w = doRequest(router, http.MethodGet, "/api/v1/admin/budget")
	require.Equal(t, http.StatusOK, w.Code)
	budget := decode(t, w)
	assert.Equal(t, float64(1), budget["count"])
	assert.Equal(t, float64(449), budget["remaining"])

	w = doRequest(router, http.MethodDelete, "/api/v1/admin/cache")
	require.Equal(t, http.StatusOK, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/admin/cache/stats")
	assert.Equal(t, float64(0), decode(t, w)["totalItems"])

	w = doRequest(router, http.MethodPost, "/api/v1/admin/prewarm")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, float64(1), decode(t, w)["warmed"])

	w = doRequest(router, http.MethodGet, "/health")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "healthy", decode(t, w)["status"])
}

func TestAPI_Places(t *testing.T) {
	router, _ := setupTestServer(t, &fakeProvider{})

	w := doRequest(router, http.MethodGet, "/api/v1/places/nearby?lat=51.5&lng=-0.12")
	require.Equal(t, http.StatusOK, w.Code)
	body := decode(t, w)
	assert.Equal(t, float64(2), body["count"])
	first := body["places"].([]any)[0].(map[string]any)
	assert.Equal(t, "near", first["id"])

	w = doRequest(router, http.MethodGet, "/api/v1/places/nearby?lat=abc&lng=1")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/places/nearby?lat=95&lng=1")
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/places/near")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "The Near", decode(t, w)["name"])

	w = doRequest(router, http.MethodGet, "/api/v1/places/unknown")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = doRequest(router, http.MethodGet, "/api/v1/places/photo?ref=abc")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestAPI_PlacesPhotoKeepsKeyPrivate(t *testing.T) {
	const secret = "SERVER-SECRET"
	upstream := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, secret, r.URL.Query().Get("key"))
		if r.URL.Query().Get("photo_reference") != "ref123" {
			w.WriteHeader(http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "image/jpeg")
		_, _ = w.Write([]byte("jpeg-bytes"))
	}))
	t.Cleanup(upstream.Close)

	client := places.NewHTTPClient(&places.Config{BaseURL: upstream.URL, APIKey: secret}, zaptest.NewLogger(t))
	router, _ := setupTestServer(t, &fakeProvider{}, app.WithPlacesClient(client))

	w := doRequest(router, http.MethodGet, "/api/v1/places/photo?ref=ref123&w=400")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "image/jpeg", w.Header().Get("Content-Type"))
	assert.Equal(t, "jpeg-bytes", w.Body.String())
	assert.Empty(t, w.Header().Get("Location"))
	for name, values := range w.Header() {
		for _, v := range values {
			assert.NotContains(t, v, secret, "header %s", name)
		}
	}

	w = doRequest(router, http.MethodGet, "/api/v1/places/photo?ref=missing")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.NotContains(t, w.Body.String(), secret)
}
