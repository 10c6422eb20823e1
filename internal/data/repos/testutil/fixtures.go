package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/yungbote/fitrank-backend/internal/types"
)

// SeedUser creates a user with a complete demographic profile.
func SeedUser(tb testing.TB, ctx context.Context, tx *gorm.DB, email, sex string, age int, heightCm, weightKg float64) *types.User {
	tb.Helper()
	dob := time.Now().AddDate(-age, 0, -1)
	u := &types.User{
		ID:          uuid.New(),
		Email:       email,
		FirstName:   "A",
		LastName:    "B",
		SexAtBirth:  sex,
		DateOfBirth: &dob,
		HeightCm:    heightCm,
		WeightKg:    weightKg,
	}
	if err := tx.WithContext(ctx).Create(u).Error; err != nil {
		tb.Fatalf("seed user: %v", err)
	}
	return u
}

func SeedCategory(tb testing.TB, ctx context.Context, tx *gorm.DB, slug string) *types.Category {
	tb.Helper()
	c := &types.Category{
		ID:             uuid.New(),
		Name:           slug,
		Slug:           slug,
		BaselineRating: 500,
	}
	if err := tx.WithContext(ctx).Create(c).Error; err != nil {
		tb.Fatalf("seed category: %v", err)
	}
	return c
}

func SeedMeasurementType(tb testing.TB, ctx context.Context, tx *gorm.DB, categoryID uuid.UUID, name string, higherIsBetter bool) *types.MeasurementType {
	tb.Helper()
	mt := &types.MeasurementType{
		ID:             uuid.New(),
		CategoryID:     categoryID,
		Name:           name,
		Unit:           "kg",
		HigherIsBetter: higherIsBetter,
		Weight:         1,
	}
	if err := tx.WithContext(ctx).Create(mt).Error; err != nil {
		tb.Fatalf("seed measurement type: %v", err)
	}
	return mt
}

func SeedRating(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, categoryID uuid.UUID, value float64) *types.Rating {
	tb.Helper()
	r := &types.Rating{
		ID:         uuid.New(),
		UserID:     userID,
		CategoryID: categoryID,
		Value:      value,
	}
	if err := tx.WithContext(ctx).Create(r).Error; err != nil {
		tb.Fatalf("seed rating: %v", err)
	}
	return r
}

// SeedEntry creates a measurement entry with an explicit status and
// age in days.
func SeedEntry(tb testing.TB, ctx context.Context, tx *gorm.DB, userID, typeID uuid.UUID, value float64, status string, ageDays int) *types.MeasurementEntry {
	tb.Helper()
	created := time.Now().UTC().AddDate(0, 0, -ageDays)
	e := &types.MeasurementEntry{
		ID:                uuid.New(),
		UserID:            userID,
		MeasurementTypeID: typeID,
		Value:             value,
		Status:            status,
		CreatedAt:         created,
		UpdatedAt:         created,
	}
	if err := tx.WithContext(ctx).Create(e).Error; err != nil {
		tb.Fatalf("seed entry: %v", err)
	}
	return e
}
