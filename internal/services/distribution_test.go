package services

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/yungbote/fitrank-backend/internal/data/repos/entries"
	"github.com/yungbote/fitrank-backend/internal/data/repos/testutil"
	"github.com/yungbote/fitrank-backend/internal/rating"
	"github.com/yungbote/fitrank-backend/internal/types"
)

func testOptions() rating.Options {
	o := rating.DefaultOptions()
	o.MinPopulationSize = 3
	// Serial batches: the in-memory sqlite fixture does not tolerate
	// concurrent writers.
	o.BatchConcurrency = 1
	return o
}

func TestDistributionFilteredPopulation(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)

	cat := testutil.SeedCategory(t, ctx, gdb, "powerlifting")
	mt := testutil.SeedMeasurementType(t, ctx, gdb, cat.ID, "bench", true)
	subject := testutil.SeedUser(t, ctx, gdb, "subject@example.com", types.SexMale, 30, 180, 80)

	// Three peers inside the +-10% band around 80kg, same sex.
	for i, w := range []float64{76, 80, 86} {
		peer := testutil.SeedUser(t, ctx, gdb, fmt.Sprintf("peer%d@example.com", i), types.SexMale, 28, 178, w)
		testutil.SeedEntry(t, ctx, gdb, peer.ID, mt.ID, 100+float64(i), types.EntryStatusApproved, 5)
	}
	// A far-off-band user that must be filtered out.
	heavy := testutil.SeedUser(t, ctx, gdb, "heavy@example.com", types.SexMale, 28, 178, 140)
	testutil.SeedEntry(t, ctx, gdb, heavy.ID, mt.ID, 200, types.EntryStatusApproved, 5)

	b := NewDistributionBuilder(entries.NewEntryRepo(gdb, log), log)
	dists, err := b.Build(ctx, nil, []*types.MeasurementType{mt}, subject, time.Now().UTC(), testOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	d := dists[mt.ID]
	if !d.Filtered {
		t.Fatalf("expected filtered population, got fallback: %+v", d)
	}
	if d.Attempts != 1 {
		t.Fatalf("expected first attempt to satisfy threshold, got %d", d.Attempts)
	}
	if len(d.Values) != 3 {
		t.Fatalf("expected 3 in-band values, got %v", d.Values)
	}
}

func TestDistributionWidensBand(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)

	cat := testutil.SeedCategory(t, ctx, gdb, "powerlifting")
	mt := testutil.SeedMeasurementType(t, ctx, gdb, cat.ID, "bench", true)
	subject := testutil.SeedUser(t, ctx, gdb, "subject@example.com", types.SexMale, 30, 180, 80)

	// Peers 15-18% off the subject's weight: outside +-10%, inside +-20%.
	for i, w := range []float64{66, 68, 94} {
		peer := testutil.SeedUser(t, ctx, gdb, fmt.Sprintf("peer%d@example.com", i), types.SexMale, 28, 178, w)
		testutil.SeedEntry(t, ctx, gdb, peer.ID, mt.ID, 100+float64(i), types.EntryStatusApproved, 5)
	}

	b := NewDistributionBuilder(entries.NewEntryRepo(gdb, log), log)
	dists, err := b.Build(ctx, nil, []*types.MeasurementType{mt}, subject, time.Now().UTC(), testOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	d := dists[mt.ID]
	if !d.Filtered {
		t.Fatalf("expected widened filter to hold, got fallback: %+v", d)
	}
	if d.Attempts != 2 {
		t.Fatalf("expected second attempt, got %d", d.Attempts)
	}
}

func TestDistributionGlobalFallback(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)

	cat := testutil.SeedCategory(t, ctx, gdb, "powerlifting")
	mt := testutil.SeedMeasurementType(t, ctx, gdb, cat.ID, "bench", true)
	subject := testutil.SeedUser(t, ctx, gdb, "subject@example.com", types.SexFemale, 30, 165, 60)

	// Only opposite-sex entries exist: every filtered attempt is empty.
	for i := 0; i < 4; i++ {
		peer := testutil.SeedUser(t, ctx, gdb, fmt.Sprintf("peer%d@example.com", i), types.SexMale, 28, 178, 80)
		testutil.SeedEntry(t, ctx, gdb, peer.ID, mt.ID, 100+float64(i), types.EntryStatusApproved, 5)
	}

	b := NewDistributionBuilder(entries.NewEntryRepo(gdb, log), log)
	dists, err := b.Build(ctx, nil, []*types.MeasurementType{mt}, subject, time.Now().UTC(), testOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	d := dists[mt.ID]
	if d.Filtered {
		t.Fatalf("expected global fallback, got filtered: %+v", d)
	}
	if len(d.Values) != 4 {
		t.Fatalf("expected global sample of 4, got %v", d.Values)
	}
}

func TestDistributionEmptyPopulation(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)

	cat := testutil.SeedCategory(t, ctx, gdb, "powerlifting")
	mt := testutil.SeedMeasurementType(t, ctx, gdb, cat.ID, "bench", true)
	subject := testutil.SeedUser(t, ctx, gdb, "subject@example.com", types.SexMale, 30, 180, 80)

	b := NewDistributionBuilder(entries.NewEntryRepo(gdb, log), log)
	dists, err := b.Build(ctx, nil, []*types.MeasurementType{mt}, subject, time.Now().UTC(), testOptions())
	if err != nil {
		t.Fatalf("Build must not error on empty population: %v", err)
	}
	d := dists[mt.ID]
	if len(d.Values) != 0 {
		t.Fatalf("expected empty distribution, got %v", d.Values)
	}
	if d.Filtered {
		t.Fatalf("empty distribution must be flagged as fallback")
	}
}

func TestDistributionIgnoresStaleAndUnapproved(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	log := testutil.Logger(t)

	cat := testutil.SeedCategory(t, ctx, gdb, "powerlifting")
	mt := testutil.SeedMeasurementType(t, ctx, gdb, cat.ID, "bench", true)
	subject := testutil.SeedUser(t, ctx, gdb, "subject@example.com", types.SexMale, 30, 180, 80)

	peer := testutil.SeedUser(t, ctx, gdb, "peer@example.com", types.SexMale, 28, 178, 80)
	testutil.SeedEntry(t, ctx, gdb, peer.ID, mt.ID, 100, types.EntryStatusPending, 5)
	testutil.SeedEntry(t, ctx, gdb, peer.ID, mt.ID, 105, types.EntryStatusRejected, 5)
	testutil.SeedEntry(t, ctx, gdb, peer.ID, mt.ID, 110, types.EntryStatusApproved, 400)

	b := NewDistributionBuilder(entries.NewEntryRepo(gdb, log), log)
	dists, err := b.Build(ctx, nil, []*types.MeasurementType{mt}, subject, time.Now().UTC(), testOptions())
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if n := len(dists[mt.ID].Values); n != 0 {
		t.Fatalf("pending/rejected/stale entries must not count, got %d values", n)
	}
}
