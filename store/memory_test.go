package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/schedule-engine/catalog"
	"github.com/warp/schedule-engine/generic"
	"github.com/warp/schedule-engine/store"
)

var _ store.CatalogStore = (*store.Memory)(nil)

func TestMemory_Lifecycle(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	// GIVEN: an empty store
	ok, err := m.HasCatalog(ctx)
	require.NoError(t, err)
	assert.False(t, ok)

	_, err = m.LoadCatalog(ctx)
	assert.True(t, generic.IsNotFound(err))
	_, err = m.CatalogInfo(ctx)
	assert.True(t, generic.IsNotFound(err))

	// WHEN: a catalog is saved
	require.NoError(t, m.SaveCatalog(ctx, catalog.Legacy(), "legacy"))

	// THEN: it is returned with its metadata
	cat, err := m.LoadCatalog(ctx)
	require.NoError(t, err)
	assert.Equal(t, catalog.Legacy().ProgramNames(), cat.ProgramNames())

	info, err := m.CatalogInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "legacy", info.Source)
	assert.Equal(t, catalog.Legacy().Len(), info.Plans)
	assert.False(t, info.SeededAt.IsZero())

	assert.NoError(t, m.Close())
}

func TestMemory_SaveReplaces(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	require.NoError(t, m.SaveCatalog(ctx, catalog.Default(), "default"))
	first, _ := m.CatalogInfo(ctx)

	b := catalog.NewBuilder()
	b.Program("Solo", catalog.DisplayPriceOnly).Frequency("Monthly").
		Plan("6-month plan", catalog.PlanRecord{PricePerOccurrence: generic.NewMoney(5), Cadence: catalog.EveryMonths(1), DurationMonths: 6})
	require.NoError(t, m.SaveCatalog(ctx, b.MustBuild(), "solo"))

	second, err := m.CatalogInfo(ctx)
	require.NoError(t, err)
	assert.Equal(t, "solo", second.Source)
	assert.Equal(t, 1, second.Plans)
	assert.False(t, second.SeededAt.Before(first.SeededAt))
}
