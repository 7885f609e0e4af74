package sqlite_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/schedule-engine/catalog"
	"github.com/warp/schedule-engine/factory"
	"github.com/warp/schedule-engine/generic"
	"github.com/warp/schedule-engine/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	t.Helper()
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

func TestStore_EmptyHasNoCatalog(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	ok, err := store.HasCatalog(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = store.LoadCatalog(ctx)
	assert.True(t, generic.IsNotFound(err))

	_, err = store.CatalogInfo(ctx)
	assert.True(t, generic.IsNotFound(err))
}

func TestStore_SaveLoadPreservesCatalog(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	f := factory.NewCatalogFactory()

	// GIVEN: the default catalog is saved
	require.NoError(t, store.SaveCatalog(ctx, catalog.Default(), "default"))

	// WHEN: it is loaded back
	loaded, err := store.LoadCatalog(ctx)
	require.NoError(t, err)

	// THEN: order, display modes, cadences and labels all survive
	want, err := f.Marshal(catalog.Default())
	require.NoError(t, err)
	got, err := f.Marshal(loaded)
	require.NoError(t, err)
	assert.JSONEq(t, want, got)

	rec, err := loaded.Resolve(catalog.ProgramUltimate, "Every 6 weeks", "12-month plan")
	require.NoError(t, err)
	assert.Len(t, rec.OccurrenceLabels, 8)
	assert.Equal(t, catalog.CadenceWeeks, rec.Cadence.Unit)

	info, err := store.CatalogInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "default", info.Source)
	assert.Equal(t, catalog.Default().Len(), info.Plans)
	assert.False(t, info.SeededAt.IsZero())
}

func TestStore_DocumentRoundTripKeepsEveryProgram(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)
	f := factory.NewCatalogFactory()

	// GIVEN: a document accepted by the factory, with labels containing
	// separators and programs that reuse frequency labels
	doc := `{"programs":[
		{"name":"Z: last first","frequencies":[{"label":"Every 6 weeks","plans":[
			{"label":"6-month plan","price_per_panel":"99.50","period_weeks":6,"duration_months":6,"tests_included":2,"test_details":["a","b"]}]}]},
		{"name":"A","display":"price_and_detail","frequencies":[
			{"label":"Every 6 weeks","plans":[{"label":"Pay as you go","price_per_panel":10,"period_weeks":6}]},
			{"label":"Just once","plans":[{"label":"One-time","price_per_panel":295,"period_months":0,"duration_months":1}]}]}]}`
	saved, err := f.ParseCatalog(doc)
	require.NoError(t, err)

	// WHEN: it is saved and loaded
	require.NoError(t, store.SaveCatalog(ctx, saved, "api"))
	loaded, err := store.LoadCatalog(ctx)
	require.NoError(t, err)

	// THEN: the loaded catalog is the one that was served
	assert.Equal(t, saved.ProgramNames(), loaded.ProgramNames())
	want, err := f.Marshal(saved)
	require.NoError(t, err)
	got, err := f.Marshal(loaded)
	require.NoError(t, err)
	assert.JSONEq(t, want, got)
}

func TestStore_SaveReplacesPreviousCatalog(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	require.NoError(t, store.SaveCatalog(ctx, catalog.Default(), "default"))

	small := catalog.NewBuilder()
	small.Program("Solo", catalog.DisplayPriceOnly).
		Frequency("Monthly").
		Plan("Pay as you go", catalog.PlanRecord{PricePerOccurrence: generic.NewMoney(10), Cadence: catalog.EveryMonths(1)})
	require.NoError(t, store.SaveCatalog(ctx, small.MustBuild(), "small.json"))

	loaded, err := store.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"Solo"}, loaded.ProgramNames())
	assert.Equal(t, 1, loaded.Len())

	info, err := store.CatalogInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "small.json", info.Source)
}

func TestStore_Reset(t *testing.T) {
	ctx := context.Background()
	store := newStore(t)

	require.NoError(t, store.SaveCatalog(ctx, catalog.Legacy(), "legacy"))
	require.NoError(t, store.Reset(ctx))

	ok, err := store.HasCatalog(ctx)
	require.NoError(t, err)
	assert.False(t, ok)
}
