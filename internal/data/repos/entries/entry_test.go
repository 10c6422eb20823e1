package entries_test

import (
	"context"
	"testing"
	"time"

	"github.com/yungbote/fitrank-backend/internal/data/repos/entries"
	"github.com/yungbote/fitrank-backend/internal/data/repos/testutil"
	"github.com/yungbote/fitrank-backend/internal/types"
)

func TestApprovedValuesExcludesDeletedUsers(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	repo := entries.NewEntryRepo(gdb, testutil.Logger(t))

	cat := testutil.SeedCategory(t, ctx, gdb, "powerlifting")
	mt := testutil.SeedMeasurementType(t, ctx, gdb, cat.ID, "bench", true)

	alive := testutil.SeedUser(t, ctx, gdb, "alive@example.com", types.SexMale, 30, 180, 80)
	gone := testutil.SeedUser(t, ctx, gdb, "gone@example.com", types.SexMale, 30, 180, 80)
	testutil.SeedEntry(t, ctx, gdb, alive.ID, mt.ID, 100, types.EntryStatusApproved, 3)
	testutil.SeedEntry(t, ctx, gdb, gone.ID, mt.ID, 200, types.EntryStatusApproved, 3)

	if err := gdb.Delete(&types.User{}, "id = ?", gone.ID).Error; err != nil {
		t.Fatalf("soft-delete user: %v", err)
	}

	since := time.Now().UTC().AddDate(0, 0, -30)

	// Global sample.
	values, err := repo.ApprovedValues(ctx, nil, mt.ID, since, nil)
	if err != nil {
		t.Fatalf("ApprovedValues: %v", err)
	}
	if len(values) != 1 || values[0] != 100 {
		t.Fatalf("deleted user's entries must not count, got %v", values)
	}

	// Demographic filter.
	filtered, err := repo.ApprovedValues(ctx, nil, mt.ID, since, &entries.PopulationFilter{
		Sex:         types.SexMale,
		MinWeightKg: 70,
		MaxWeightKg: 90,
	})
	if err != nil {
		t.Fatalf("ApprovedValues filtered: %v", err)
	}
	if len(filtered) != 1 || filtered[0] != 100 {
		t.Fatalf("deleted user's entries must not count in filtered sample, got %v", filtered)
	}
}

func TestLatestApprovedPerTypeExcludesDeletedTypes(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	repo := entries.NewEntryRepo(gdb, testutil.Logger(t))

	cat := testutil.SeedCategory(t, ctx, gdb, "powerlifting")
	kept := testutil.SeedMeasurementType(t, ctx, gdb, cat.ID, "bench", true)
	retired := testutil.SeedMeasurementType(t, ctx, gdb, cat.ID, "curl", true)

	user := testutil.SeedUser(t, ctx, gdb, "user@example.com", types.SexMale, 30, 180, 80)
	testutil.SeedEntry(t, ctx, gdb, user.ID, kept.ID, 100, types.EntryStatusApproved, 3)
	testutil.SeedEntry(t, ctx, gdb, user.ID, retired.ID, 40, types.EntryStatusApproved, 3)

	if err := gdb.Delete(&types.MeasurementType{}, "id = ?", retired.ID).Error; err != nil {
		t.Fatalf("soft-delete measurement type: %v", err)
	}

	since := time.Now().UTC().AddDate(0, 0, -30)
	latest, err := repo.LatestApprovedPerType(ctx, nil, user.ID, cat.ID, since)
	if err != nil {
		t.Fatalf("LatestApprovedPerType: %v", err)
	}
	if len(latest) != 1 {
		t.Fatalf("retired measurement type must not contribute, got %d types", len(latest))
	}
	if _, ok := latest[kept.ID]; !ok {
		t.Fatalf("expected the kept type's entry, got %v", latest)
	}
}
