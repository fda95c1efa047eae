package settings

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/angelmondragon/advanced-shipping/internal/shipping"
	"github.com/angelmondragon/advanced-shipping/pkg/db/dbtest"
	pkgerrors "github.com/angelmondragon/advanced-shipping/pkg/errors"
	pkgredis "github.com/angelmondragon/advanced-shipping/pkg/redis"
	"github.com/angelmondragon/advanced-shipping/pkg/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type fakeCache struct {
	mu     sync.Mutex
	values map[string]string
	gets   int
	dels   int
}

func newFakeCache() *fakeCache {
	return &fakeCache{values: map[string]string{}}
}

func (f *fakeCache) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	v, ok := f.values[key]
	if !ok {
		return "", pkgredis.ErrNil
	}
	return v, nil
}

func (f *fakeCache) Set(_ context.Context, key string, value any, _ time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values[key] = value.(string)
	return nil
}

func (f *fakeCache) Del(_ context.Context, keys ...string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, key := range keys {
		delete(f.values, key)
	}
	f.dels++
	return nil
}

func (f *fakeCache) SettingsSnapshotKey() string { return "advship:settings:snapshot" }

func newTestService(t *testing.T, cache Cache) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{Repo: NewRepository(dbtest.Open(t)), Cache: cache})
	require.NoError(t, err)
	return svc
}

func TestNewServiceRequiresRepo(t *testing.T) {
	_, err := NewService(ServiceParams{})
	require.Error(t, err)
}

func TestSnapshotDefaultsWhenEmpty(t *testing.T) {
	svc := newTestService(t, nil)

	snap, err := svc.Snapshot(context.Background())
	require.NoError(t, err)
	assert.Empty(t, snap.Rules)
	assert.Equal(t, 0, snap.Holidays.Len())
	assert.Equal(t, shipping.DefaultTranslations(), snap.Settings.Translations)
}

func TestSaveRulesThenSnapshot(t *testing.T) {
	ctx := context.Background()
	cache := newFakeCache()
	svc := newTestService(t, cache)

	_, err := svc.SaveSettings(ctx, View{
		Holidays: []types.HolidayDocument{{Date: "2026-01-15", Label: "Founders day"}},
	})
	require.NoError(t, err)

	_, err = svc.SaveRules(ctx, map[string]types.RuleDocument{
		"flat_rate": {Type: "asap", SendingDays: []int{1, 4}, MaxShipDays: 2, Categories: []int64{10}},
	})
	require.NoError(t, err)

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Contains(t, snap.Rules, shipping.MethodID("flat_rate"))
	assert.True(t, snap.Holidays.IsHoliday(types.MustParseDate("2026-01-15")))
	assert.Contains(t, cache.values, cache.SettingsSnapshotKey())

	// Thursday 15th is a holiday, so Tuesday the 13th ships the next Monday.
	est, ok := shipping.EstimateASAP(snap.Rules["flat_rate"].(shipping.ASAPRule), snap.Holidays, shipping.CartCategories{{10}}, types.MustParseDate("2026-01-13"))
	require.True(t, ok)
	assert.Equal(t, "2026-01-19", est.ShipBy.String())
	assert.Equal(t, "2026-01-21", est.DeliverBy.String())
}

func TestSnapshotServedFromCache(t *testing.T) {
	ctx := context.Background()
	cache := newFakeCache()
	svc := newTestService(t, cache)

	_, err := svc.SaveRules(ctx, map[string]types.RuleDocument{"flat_rate": {Type: "asap", Categories: []int64{1}}})
	require.NoError(t, err)
	_, err = svc.Snapshot(ctx)
	require.NoError(t, err)

	cache.values[cache.SettingsSnapshotKey()] = `{"rules":{"cached":{"type":"by_date"}}}`
	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Contains(t, snap.Rules, shipping.MethodID("cached"))

	cache.values[cache.SettingsSnapshotKey()] = `not json`
	snap, err = svc.Snapshot(ctx)
	require.NoError(t, err)
	assert.Contains(t, snap.Rules, shipping.MethodID("flat_rate"))
}

func TestSaveRulesInvalidatesCache(t *testing.T) {
	ctx := context.Background()
	cache := newFakeCache()
	svc := newTestService(t, cache)

	_, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Contains(t, cache.values, cache.SettingsSnapshotKey())

	_, err = svc.SaveRules(ctx, map[string]types.RuleDocument{"flat_rate": {Type: "asap"}})
	require.NoError(t, err)
	assert.NotContains(t, cache.values, cache.SettingsSnapshotKey())
}

func TestSaveRulesRejectsBadDates(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.SaveRules(context.Background(), map[string]types.RuleDocument{
		"pickup": {Type: "by_date", Dates: []types.ReservationDateDocument{{Date: "31-12-2026"}}},
	})
	require.Error(t, err)
	assert.Equal(t, pkgerrors.CodeValidation, pkgerrors.As(err).Code())
}

func TestSaveSettingsRemovesRulesOfHiddenMethods(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeCache())

	_, err := svc.SaveRules(ctx, map[string]types.RuleDocument{
		"flat_rate":   {Type: "asap", Categories: []int64{1}},
		"flat_rate:2": {Type: "asap", Categories: []int64{2}},
		"pickup":      {Type: "by_date"},
	})
	require.NoError(t, err)

	view, err := svc.SaveSettings(ctx, View{
		Settings: types.SettingsDocument{HiddenMethods: []string{" flat_rate ", "flat_rate"}},
		Holidays: []types.HolidayDocument{{Date: "2026-12-25"}, {Date: "2026-01-01"}, {Date: "2026-12-25"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"flat_rate"}, view.Settings.HiddenMethods)
	assert.Equal(t, "billing", view.Settings.DisplayLocation)
	require.Len(t, view.Holidays, 2)
	assert.Equal(t, "2026-01-01", view.Holidays[0].Date)

	rules, err := svc.RuleDocuments(ctx)
	require.NoError(t, err)
	assert.Len(t, rules, 1)
	assert.Contains(t, rules, "pickup")

	stored, err := svc.SettingsView(ctx)
	require.NoError(t, err)
	assert.Equal(t, view, stored)
}

func TestSaveSettingsValidation(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.SaveSettings(context.Background(), View{
		Settings: types.SettingsDocument{DisplayLocation: "footer"},
		Holidays: []types.HolidayDocument{{Date: "Dec 25"}},
	})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
	assert.Len(t, typed.Details(), 2)
}

func TestPruneExpiredDates(t *testing.T) {
	ctx := context.Background()
	cache := newFakeCache()
	svc := newTestService(t, cache)

	_, err := svc.SaveRules(ctx, map[string]types.RuleDocument{
		"pickup": {Type: "by_date", Dates: []types.ReservationDateDocument{{Date: "2026-02-01"}, {Date: "2026-03-01"}}},
		"flat":   {Type: "asap", SendingDays: []int{1}},
	})
	require.NoError(t, err)
	_, err = svc.Snapshot(ctx)
	require.NoError(t, err)

	updated, err := svc.PruneExpiredDates(ctx, types.MustParseDate("2026-02-10"))
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.NotContains(t, cache.values, cache.SettingsSnapshotKey())

	rules, err := svc.RuleDocuments(ctx)
	require.NoError(t, err)
	require.Len(t, rules["pickup"].Dates, 1)
	assert.Equal(t, "2026-03-01", rules["pickup"].Dates[0].Date)

	updated, err = svc.PruneExpiredDates(ctx, types.MustParseDate("2026-02-10"))
	require.NoError(t, err)
	assert.Zero(t, updated)
}

func TestPruneExpiredDatesReadsInsideTransaction(t *testing.T) {
	ctx := context.Background()
	conn := dbtest.Open(t)
	svc, err := NewService(ServiceParams{Repo: NewRepository(conn)})
	require.NoError(t, err)

	_, err = svc.SaveRules(ctx, map[string]types.RuleDocument{
		"pickup": {Type: "by_date", Dates: []types.ReservationDateDocument{{Date: "2026-02-01"}}},
	})
	require.NoError(t, err)

	var reads, txReads int
	require.NoError(t, conn.Callback().Query().After("gorm:query").Register("test:rule_reads", func(db *gorm.DB) {
		if db.Statement.Table != "shipping_rules" {
			return
		}
		reads++
		if _, ok := db.Statement.ConnPool.(gorm.TxCommitter); ok {
			txReads++
		}
	}))

	updated, err := svc.PruneExpiredDates(ctx, types.MustParseDate("2026-02-10"))
	require.NoError(t, err)
	assert.Equal(t, 1, updated)
	assert.Equal(t, 1, reads)
	assert.Equal(t, reads, txReads)
}

func TestSaveSettingsPickupLocations(t *testing.T) {
	ctx := context.Background()
	svc := newTestService(t, newFakeCache())

	view, err := svc.SaveSettings(ctx, View{Settings: types.SettingsDocument{
		PickupLocations: []types.PickupLocationDocument{
			{Name: "  Kaunas   store ", MethodID: "Pickup Kaunas!", ImageURL: "https://cdn.example/kaunas.png"},
			{Name: "", MethodID: "pickup_empty"},
			{Name: "No id", MethodID: "  "},
			{Name: "Second Kaunas", MethodID: "PICKUPKAUNAS"},
		},
		MethodImages: map[string]string{"Flat_Rate:5": "https://cdn.example/flat.png", "express": " "},
	}})
	require.NoError(t, err)
	require.Len(t, view.Settings.PickupLocations, 1)
	assert.Equal(t, types.PickupLocationDocument{Name: "Kaunas store", MethodID: "pickupkaunas", ImageURL: "https://cdn.example/kaunas.png"}, view.Settings.PickupLocations[0])
	assert.Equal(t, map[string]string{"flat_rate:5": "https://cdn.example/flat.png"}, view.Settings.MethodImages)

	snap, err := svc.Snapshot(ctx)
	require.NoError(t, err)
	require.Len(t, snap.Settings.PickupLocations, 1)
	assert.Equal(t, shipping.MethodID("pickupkaunas"), snap.Settings.PickupLocations[0].MethodID)
	assert.Equal(t, "Kaunas store", snap.Settings.MethodName("pickupkaunas"))
	url, ok := snap.Settings.MethodImages.Lookup("pickupkaunas")
	require.True(t, ok)
	assert.Equal(t, "https://cdn.example/kaunas.png", url)
}

func TestSaveSettingsRejectsRelativeImageURL(t *testing.T) {
	svc := newTestService(t, nil)

	_, err := svc.SaveSettings(context.Background(), View{Settings: types.SettingsDocument{
		PickupLocations: []types.PickupLocationDocument{{Name: "Store", MethodID: "pickup_store", ImageURL: "/uploads/logo.png"}},
	}})
	typed := pkgerrors.As(err)
	require.NotNil(t, typed)
	assert.Equal(t, pkgerrors.CodeValidation, typed.Code())
}
