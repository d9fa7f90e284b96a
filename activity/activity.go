// Package activity defines the activity record persisted by the service and the
// repository contract used to store and query it.
//
// Activities are standalone documents: each belongs to exactly one user, is
// created through Repository.Save, mutated only by saving it again, and removed
// only by Repository.DeleteByID. Lookups that match nothing are not errors;
// they return empty results.
package activity

import (
	"context"
	"time"
)

type (
	// Activity is a single tracked workout.
	//
	// Contract:
	// - ID is assigned by the store on first save and never changes afterwards.
	// - UserID is required and identifies the owner; many activities may share it.
	// - Fields other than ID and UserID are opaque to the persistence layer.
	Activity struct {
		// ID is the store-generated identifier (hex encoded ObjectID).
		ID string `json:"id,omitempty"`
		// UserID identifies the owning user.
		UserID string `json:"userId" validate:"required"`
		// Type is the kind of activity.
		Type Type `json:"type,omitempty"`
		// Duration is the length of the activity in minutes.
		Duration int `json:"duration"`
		// CaloriesBurned is the energy estimate reported by the client.
		CaloriesBurned int `json:"caloriesBurned"`
		// StartTime records when the activity started.
		StartTime time.Time `json:"startTime"`
		// AdditionalMetrics stores free-form metrics (distance, heart rate, ...).
		AdditionalMetrics map[string]any `json:"additionalMetrics,omitempty"`
		// CreatedAt is set by the store when the activity is first saved.
		CreatedAt time.Time `json:"createdAt"`
		// UpdatedAt is set by the store every time the activity is saved.
		UpdatedAt time.Time `json:"updatedAt"`
	}

	// Repository persists activities.
	//
	// Implementations must be safe for concurrent use. Operations are
	// independent: no ordering or transaction spans more than one call.
	Repository interface {
		// Save inserts the activity when ID is empty and replaces the stored
		// document otherwise. It returns the activity as stored.
		Save(ctx context.Context, a Activity) (Activity, error)
		// FindByID returns the activity with the given ID. The boolean is false
		// when no such activity exists.
		FindByID(ctx context.Context, id string) (Activity, bool, error)
		// FindAll returns every stored activity in store order.
		FindAll(ctx context.Context) ([]Activity, error)
		// FindByUserID returns the activities owned by userID in store order.
		FindByUserID(ctx context.Context, userID string) ([]Activity, error)
		// DeleteByID removes the activity with the given ID. Deleting a missing
		// activity is not an error.
		DeleteByID(ctx context.Context, id string) error
		// Count returns the number of stored activities.
		Count(ctx context.Context) (int64, error)
		// ExistsByID reports whether an activity with the given ID is stored.
		ExistsByID(ctx context.Context, id string) (bool, error)
	}

	// Type identifies the kind of activity.
	Type string
)

// Known activity types. Type values outside this set are stored unchanged.
const (
	TypeRunning        Type = "RUNNING"
	TypeWalking        Type = "WALKING"
	TypeCycling        Type = "CYCLING"
	TypeSwimming       Type = "SWIMMING"
	TypeWeightTraining Type = "WEIGHT_TRAINING"
	TypeYoga           Type = "YOGA"
	TypeHIIT           Type = "HIIT"
	TypeCardio         Type = "CARDIO"
	TypeStretching     Type = "STRETCHING"
	TypeOther          Type = "OTHER"
)

// Types lists every known activity type.
func Types() []Type {
	return []Type{
		TypeRunning, TypeWalking, TypeCycling, TypeSwimming, TypeWeightTraining,
		TypeYoga, TypeHIIT, TypeCardio, TypeStretching, TypeOther,
	}
}

// Normalize returns a copy of a with times converted to UTC and truncated to
// the millisecond precision of the document store.
func Normalize(a Activity) Activity {
	a.StartTime = normalizeTime(a.StartTime)
	a.CreatedAt = normalizeTime(a.CreatedAt)
	a.UpdatedAt = normalizeTime(a.UpdatedAt)
	a.AdditionalMetrics = CloneMetrics(a.AdditionalMetrics)
	return a
}

// CloneMetrics returns a shallow copy of src, or nil when src is empty.
func CloneMetrics(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for k, v := range src {
		dst[k] = v
	}
	return dst
}

// Now returns the current time as stored by repositories.
func Now() time.Time {
	return normalizeTime(time.Now())
}

func normalizeTime(t time.Time) time.Time {
	if t.IsZero() {
		return time.Time{}
	}
	return t.UTC().Truncate(time.Millisecond)
}
