package services

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/fitrank-backend/internal/data/repos/events"
	"github.com/yungbote/fitrank-backend/internal/data/repos/testutil"
	errs "github.com/yungbote/fitrank-backend/internal/pkg/errors"
	"github.com/yungbote/fitrank-backend/internal/types"
)

func newTestEventService(t *testing.T, gdb *gorm.DB) (RatingEventService, events.EventRepo) {
	t.Helper()
	log := testutil.Logger(t)
	repo := events.NewEventRepo(gdb, log)
	return NewRatingEventService(gdb, log, repo), repo
}

func TestRecordMetadataRoundTrip(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	svc, _ := newTestEventService(t, gdb)

	user := testutil.SeedUser(t, ctx, gdb, "user@example.com", types.SexFemale, 28, 165, 60)
	cat := testutil.SeedCategory(t, ctx, gdb, "powerlifting")

	meta := map[string]any{
		"old_tier":          "intermediate",
		"population_size":   float64(17),
		"adjustment":        true,
		"contributing_type": []any{"bench", "squat"},
	}
	catID := cat.ID
	created, err := svc.Record(ctx, nil, ChangeEvent{
		UserID:     user.ID,
		CategoryID: &catID,
		EventType:  types.EventTypeRatingChange,
		OldValue:   500,
		NewValue:   662.2,
		Metadata:   meta,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if math.Abs(created.Delta-162.2) > 1e-9 {
		t.Fatalf("expected delta 162.2, got %v", created.Delta)
	}

	listed, err := svc.ListByUser(ctx, user.ID, 0, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(listed) != 1 {
		t.Fatalf("expected 1 event, got %d", len(listed))
	}
	var got map[string]any
	if err := json.Unmarshal(listed[0].Metadata, &got); err != nil {
		t.Fatalf("unmarshal metadata: %v", err)
	}
	for k, want := range meta {
		switch w := want.(type) {
		case []any:
			g, ok := got[k].([]any)
			if !ok || len(g) != len(w) {
				t.Fatalf("metadata key %q did not round-trip: %v", k, got[k])
			}
		default:
			if got[k] != want {
				t.Fatalf("metadata key %q: got %v want %v", k, got[k], want)
			}
		}
	}
}

func TestRecordRejectsUnknownType(t *testing.T) {
	gdb := testutil.DB(t)
	svc, _ := newTestEventService(t, gdb)

	_, err := svc.Record(context.Background(), nil, ChangeEvent{
		UserID:    uuid.New(),
		EventType: "rating_exploded",
	})
	if !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestListRecentFiltersByType(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	svc, _ := newTestEventService(t, gdb)

	user := testutil.SeedUser(t, ctx, gdb, "user@example.com", types.SexMale, 30, 180, 80)
	for _, et := range []string{
		types.EventTypeRatingChange,
		types.EventTypeTierChange,
		types.EventTypeRatingChange,
	} {
		if _, err := svc.Record(ctx, nil, ChangeEvent{UserID: user.ID, EventType: et, OldValue: 500, NewValue: 510}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	all, err := svc.ListRecent(ctx, "", 0, 0)
	if err != nil {
		t.Fatalf("ListRecent: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("expected 3 events, got %d", len(all))
	}
	tierOnly, err := svc.ListRecent(ctx, types.EventTypeTierChange, 0, 0)
	if err != nil {
		t.Fatalf("ListRecent filtered: %v", err)
	}
	if len(tierOnly) != 1 {
		t.Fatalf("expected 1 tier_change event, got %d", len(tierOnly))
	}
}

func TestListByCategoryScopesEvents(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	svc, _ := newTestEventService(t, gdb)

	user := testutil.SeedUser(t, ctx, gdb, "user@example.com", types.SexMale, 30, 180, 80)
	catA := testutil.SeedCategory(t, ctx, gdb, "powerlifting")
	catB := testutil.SeedCategory(t, ctx, gdb, "running")

	for _, cat := range []*types.Category{catA, catA, catB} {
		id := cat.ID
		if _, err := svc.Record(ctx, nil, ChangeEvent{UserID: user.ID, CategoryID: &id, EventType: types.EventTypeRatingChange, OldValue: 500, NewValue: 510}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	scoped, err := svc.ListByCategory(ctx, catA.ID, 0, 0)
	if err != nil {
		t.Fatalf("ListByCategory: %v", err)
	}
	if len(scoped) != 2 {
		t.Fatalf("expected 2 events in category, got %d", len(scoped))
	}
	for _, e := range scoped {
		if e.CategoryID == nil || *e.CategoryID != catA.ID {
			t.Fatalf("event leaked from another category: %+v", e)
		}
	}
}

func TestUserStats(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	svc, _ := newTestEventService(t, gdb)

	user := testutil.SeedUser(t, ctx, gdb, "user@example.com", types.SexMale, 30, 180, 80)
	changes := []struct {
		old, new float64
		et       string
	}{
		{500, 550, types.EventTypeRatingChange}, // +50
		{550, 530, types.EventTypeRatingChange}, // -20
		{530, 1010, types.EventTypeTierChange},  // +480
	}
	for _, c := range changes {
		if _, err := svc.Record(ctx, nil, ChangeEvent{UserID: user.ID, EventType: c.et, OldValue: c.old, NewValue: c.new}); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	stats, err := svc.UserStats(ctx, user.ID, 30)
	if err != nil {
		t.Fatalf("UserStats: %v", err)
	}
	if math.Abs(stats.TotalChange-510) > 1e-9 {
		t.Fatalf("expected total change 510, got %v", stats.TotalChange)
	}
	if math.Abs(stats.AverageChange-170) > 1e-9 {
		t.Fatalf("expected average change 170, got %v", stats.AverageChange)
	}
	if math.Abs(stats.BestGain-480) > 1e-9 {
		t.Fatalf("expected best gain 480, got %v", stats.BestGain)
	}
	if math.Abs(stats.WorstLoss-(-20)) > 1e-9 {
		t.Fatalf("expected worst loss -20, got %v", stats.WorstLoss)
	}
	if stats.EventCount != 3 {
		t.Fatalf("expected 3 events, got %d", stats.EventCount)
	}
	if stats.TierChangeCount != 1 {
		t.Fatalf("expected 1 tier change, got %d", stats.TierChangeCount)
	}
}

func TestChangeLeaderboardOrdering(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	svc, _ := newTestEventService(t, gdb)

	climber := testutil.SeedUser(t, ctx, gdb, "climber@example.com", types.SexMale, 30, 180, 80)
	steady := testutil.SeedUser(t, ctx, gdb, "steady@example.com", types.SexMale, 30, 180, 80)
	faller := testutil.SeedUser(t, ctx, gdb, "faller@example.com", types.SexMale, 30, 180, 80)

	seed := func(userID uuid.UUID, deltas ...float64) {
		v := 500.0
		for _, d := range deltas {
			if _, err := svc.Record(ctx, nil, ChangeEvent{UserID: userID, EventType: types.EventTypeRatingChange, OldValue: v, NewValue: v + d}); err != nil {
				t.Fatalf("Record: %v", err)
			}
			v += d
		}
	}
	seed(climber.ID, 100, 150)
	seed(steady.ID, 30)
	seed(faller.ID, -80)

	rows, err := svc.ChangeLeaderboard(ctx, 30, 10)
	if err != nil {
		t.Fatalf("ChangeLeaderboard: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected 3 rows, got %d", len(rows))
	}
	if rows[0].UserID != climber.ID || math.Abs(rows[0].TotalChange-250) > 1e-9 {
		t.Fatalf("expected climber first with +250, got %+v", rows[0])
	}
	if rows[2].UserID != faller.ID {
		t.Fatalf("expected faller last, got %+v", rows[2])
	}
}

func TestCleanupDeletesOnlyOldEvents(t *testing.T) {
	gdb := testutil.DB(t)
	ctx := context.Background()
	svc, repo := newTestEventService(t, gdb)

	user := testutil.SeedUser(t, ctx, gdb, "user@example.com", types.SexMale, 30, 180, 80)

	// One ancient event, one fresh.
	old := &types.RatingEvent{
		ID:        uuid.New(),
		UserID:    user.ID,
		EventType: types.EventTypeRatingChange,
		OldValue:  500, NewValue: 510, Delta: 10,
		CreatedAt: time.Now().UTC().AddDate(0, 0, -400),
	}
	if _, err := repo.Create(ctx, nil, old); err != nil {
		t.Fatalf("seed old event: %v", err)
	}
	if _, err := svc.Record(ctx, nil, ChangeEvent{UserID: user.ID, EventType: types.EventTypeRatingChange, OldValue: 510, NewValue: 520}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	deleted, err := svc.Cleanup(ctx, 365)
	if err != nil {
		t.Fatalf("Cleanup: %v", err)
	}
	if deleted != 1 {
		t.Fatalf("expected 1 deleted event, got %d", deleted)
	}
	remaining, err := svc.ListByUser(ctx, user.ID, 0, 0)
	if err != nil {
		t.Fatalf("ListByUser: %v", err)
	}
	if len(remaining) != 1 {
		t.Fatalf("expected 1 remaining event, got %d", len(remaining))
	}

	if _, err := svc.Cleanup(ctx, 0); !errors.Is(err, errs.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument for non-positive retention, got %v", err)
	}
}
