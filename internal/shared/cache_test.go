package shared

import (
	"context"
	"testing"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"hops-cache/internal/docstore"
	"hops-cache/pkg/models"
)

type mockDocStore struct {
	mock.Mock
}

func (m *mockDocStore) GetDoc(ctx context.Context, collection, id string) (docstore.Document, bool, error) {
	args := m.Called(ctx, collection, id)
	doc, _ := args.Get(0).(docstore.Document)
	return doc, args.Bool(1), args.Error(2)
}

func (m *mockDocStore) SetDoc(ctx context.Context, collection, id string, doc docstore.Document, merge bool) error {
	return m.Called(ctx, collection, id, doc, merge).Error(0)
}

func (m *mockDocStore) QueryOrderedLimited(ctx context.Context, collection, orderField string, desc bool, limit int) ([]docstore.Document, error) {
	args := m.Called(ctx, collection, orderField, desc, limit)
	docs, _ := args.Get(0).([]docstore.Document)
	return docs, args.Error(1)
}

func setupSharedCache(t *testing.T) (*Cache, *docstore.MemoryStore, *clock.Mock) {
	store := docstore.NewMemoryStore()
	clk := clock.NewMock()
	clk.Set(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC))
	return NewCache(store, clk, zaptest.NewLogger(t)), store, clk
}

var beerX = models.Beer{ID: "x", Name: "Beer X", Tagline: "Hoppy", ABV: 6.2, FoodPairing: []string{"curry"}}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "ipa", Normalize("  IPA "))
	assert.Equal(t, "", Normalize("   "))
}

func TestCache_MissThenHit(t *testing.T) {
	sc, store, _ := setupSharedCache(t)
	ctx := context.Background()

	_, found := sc.GetCached(ctx, "ipa")
	assert.False(t, found)

	assert.True(t, sc.Cache(ctx, " IPA ", []models.Beer{beerX}))

	got, found := sc.GetCached(ctx, "ipa")
	require.True(t, found)
	assert.Equal(t, []models.Beer{beerX}, got)

	doc, _, err := store.GetDoc(ctx, CacheCollection, "ipa")
	require.NoError(t, err)
	assert.Equal(t, "ipa", doc.String("searchTerm"))
	assert.Equal(t, float64(2), doc.Number("hitCount"))
	assert.Equal(t, float64(time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC).UnixMilli()), doc.Number("lastAccessed"))
}

func TestCache_HitCountIncrementsByOne(t *testing.T) {
	sc, store, _ := setupSharedCache(t)
	ctx := context.Background()

	sc.Cache(ctx, "stout", []models.Beer{beerX})
	for i := 0; i < 3; i++ {
		_, found := sc.GetCached(ctx, "stout")
		require.True(t, found)
	}

	doc, _, err := store.GetDoc(ctx, CacheCollection, "stout")
	require.NoError(t, err)
	assert.Equal(t, float64(4), doc.Number("hitCount"))

	// rewriting resets the counter
	sc.Cache(ctx, "stout", []models.Beer{beerX})
	doc, _, err = store.GetDoc(ctx, CacheCollection, "stout")
	require.NoError(t, err)
	assert.Equal(t, float64(1), doc.Number("hitCount"))
}

func TestCache_EmptyResultsAreAHit(t *testing.T) {
	sc, _, _ := setupSharedCache(t)
	ctx := context.Background()

	require.True(t, sc.Cache(ctx, "zzz", nil))
	got, found := sc.GetCached(ctx, "zzz")
	assert.True(t, found)
	assert.Equal(t, []models.Beer{}, got)
}

func TestCache_StatsUpdateFailureStillReturnsResults(t *testing.T) {
	mem := docstore.NewMemoryStore()
	seed := NewCache(mem, clock.NewMock(), zaptest.NewLogger(t))
	require.True(t, seed.Cache(context.Background(), "ipa", []models.Beer{beerX}))
	doc, _, err := mem.GetDoc(context.Background(), CacheCollection, "ipa")
	require.NoError(t, err)

	store := new(mockDocStore)
	store.On("GetDoc", mock.Anything, CacheCollection, "ipa").Return(doc, true, nil)
	store.On("SetDoc", mock.Anything, CacheCollection, "ipa", mock.Anything, true).Return(docstore.ErrPermissionDenied)

	sc := NewCache(store, clock.NewMock(), zaptest.NewLogger(t))
	got, found := sc.GetCached(context.Background(), "ipa")
	assert.True(t, found)
	assert.Equal(t, []models.Beer{beerX}, got)
	store.AssertExpectations(t)
}

func TestCache_WriteFailureReturnsFalse(t *testing.T) {
	store := new(mockDocStore)
	store.On("SetDoc", mock.Anything, CacheCollection, "ipa", mock.Anything, false).Return(docstore.ErrPermissionDenied)

	sc := NewCache(store, nil, zaptest.NewLogger(t))
	assert.False(t, sc.Cache(context.Background(), "ipa", []models.Beer{beerX}))
	assert.False(t, sc.Cache(context.Background(), "  ", []models.Beer{beerX}))
}

func TestCache_ReadFailureIsMiss(t *testing.T) {
	store := new(mockDocStore)
	store.On("GetDoc", mock.Anything, CacheCollection, "ipa").Return(nil, false, docstore.ErrPermissionDenied)

	sc := NewCache(store, nil, zaptest.NewLogger(t))
	_, found := sc.GetCached(context.Background(), "ipa")
	assert.False(t, found)
}

func TestCache_PopularSearches(t *testing.T) {
	sc, _, _ := setupSharedCache(t)
	ctx := context.Background()

	sc.Cache(ctx, "ipa", []models.Beer{beerX})
	sc.Cache(ctx, "stout", []models.Beer{beerX})
	sc.Cache(ctx, "lager", []models.Beer{beerX})
	for i := 0; i < 3; i++ {
		sc.GetCached(ctx, "stout")
	}
	sc.GetCached(ctx, "ipa")

	assert.Equal(t, []string{"stout", "ipa"}, sc.PopularSearches(ctx, 2))
	assert.Len(t, sc.PopularSearches(ctx, 0), 3)
}

func TestCache_LookupRecordsStayOutOfPopular(t *testing.T) {
	sc, store, _ := setupSharedCache(t)
	ctx := context.Background()

	for _, key := range []string{"id:1", "id:2", "random:ipa", "random:stout"} {
		require.True(t, sc.Cache(ctx, key, []models.Beer{beerX}))
		sc.GetCached(ctx, key)
		sc.GetCached(ctx, key)
	}
	sc.Cache(ctx, "ipa", []models.Beer{beerX})
	sc.Cache(ctx, "stout", []models.Beer{beerX})

	assert.ElementsMatch(t, []string{"ipa", "stout"}, sc.PopularSearches(ctx, 2))

	doc, found, err := store.GetDoc(ctx, LookupCollection, "id:1")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, float64(3), doc.Number("hitCount"))

	_, found, err = store.GetDoc(ctx, CacheCollection, "id:1")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_PopularSearchesFailure(t *testing.T) {
	store := new(mockDocStore)
	store.On("QueryOrderedLimited", mock.Anything, CacheCollection, "hitCount", true, 5).Return(nil, docstore.ErrPermissionDenied)

	sc := NewCache(store, nil, zaptest.NewLogger(t))
	assert.Equal(t, []string{}, sc.PopularSearches(context.Background(), 5))
}

func TestCache_RecordSearch(t *testing.T) {
	sc, store, _ := setupSharedCache(t)
	ctx := context.Background()

	assert.True(t, sc.RecordSearch(ctx, "IPA"))
	assert.True(t, sc.RecordSearch(ctx, "ipa "))
	assert.False(t, sc.RecordSearch(ctx, " "))

	doc, found, err := store.GetDoc(ctx, PopularSearchesCollection, "ipa")
	require.NoError(t, err)
	require.True(t, found)
	assert.Equal(t, float64(2), doc.Number("searchCount"))
	assert.Equal(t, "ipa", doc.String("searchTerm"))

	// the cache tier is untouched
	_, found, err = store.GetDoc(ctx, CacheCollection, "ipa")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_RecordSearchFailure(t *testing.T) {
	store := new(mockDocStore)
	store.On("GetDoc", mock.Anything, PopularSearchesCollection, "ipa").Return(nil, false, nil)
	store.On("SetDoc", mock.Anything, PopularSearchesCollection, "ipa", mock.Anything, true).Return(docstore.ErrPermissionDenied)

	sc := NewCache(store, nil, zaptest.NewLogger(t))
	assert.False(t, sc.RecordSearch(context.Background(), "ipa"))
}
