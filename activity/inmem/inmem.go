// Package inmem provides an in-memory implementation of activity.Repository
// for tests and local tooling.
package inmem

import (
	"context"
	"fmt"
	"sync"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/fitness-app/activityservice/activity"
)

// Repository stores activities in memory. It mirrors the document store
// semantics: ObjectID identifiers, auditing timestamps and insertion order.
type Repository struct {
	mu    sync.RWMutex
	docs  map[string]activity.Activity
	order []string
}

var _ activity.Repository = (*Repository)(nil)

// New returns an empty Repository.
func New() *Repository {
	return &Repository{docs: make(map[string]activity.Activity)}
}

// Save inserts or replaces the activity.
func (r *Repository) Save(_ context.Context, a activity.Activity) (activity.Activity, error) {
	if err := activity.Validate(a); err != nil {
		return activity.Activity{}, err
	}
	if a.ID != "" {
		if _, err := primitive.ObjectIDFromHex(a.ID); err != nil {
			return activity.Activity{}, fmt.Errorf("%w: id %q is not a valid object id", activity.ErrInvalidActivity, a.ID)
		}
	}
	a = activity.Normalize(a)
	now := activity.Now()

	r.mu.Lock()
	defer r.mu.Unlock()
	if a.ID == "" {
		a.ID = primitive.NewObjectID().Hex()
	}
	if existing, ok := r.docs[a.ID]; ok {
		a.CreatedAt = existing.CreatedAt
	} else {
		a.CreatedAt = now
		r.order = append(r.order, a.ID)
	}
	a.UpdatedAt = now
	r.docs[a.ID] = a
	return clone(a), nil
}

// FindByID returns the activity with the given id.
func (r *Repository) FindByID(_ context.Context, id string) (activity.Activity, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.docs[id]
	if !ok {
		return activity.Activity{}, false, nil
	}
	return clone(a), true, nil
}

// FindAll returns all activities in insertion order.
func (r *Repository) FindAll(_ context.Context) ([]activity.Activity, error) {
	return r.filter(func(activity.Activity) bool { return true }), nil
}

// FindByUserID returns the activities owned by userID in insertion order.
func (r *Repository) FindByUserID(_ context.Context, userID string) ([]activity.Activity, error) {
	return r.filter(func(a activity.Activity) bool { return a.UserID == userID }), nil
}

// DeleteByID removes the activity if present.
func (r *Repository) DeleteByID(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.docs[id]; !ok {
		return nil
	}
	delete(r.docs, id)
	for i, existing := range r.order {
		if existing == id {
			r.order = append(r.order[:i], r.order[i+1:]...)
			break
		}
	}
	return nil
}

// Count returns the number of stored activities.
func (r *Repository) Count(_ context.Context) (int64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return int64(len(r.docs)), nil
}

// ExistsByID reports whether id is stored.
func (r *Repository) ExistsByID(_ context.Context, id string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.docs[id]
	return ok, nil
}

// Reset clears all stored activities.
func (r *Repository) Reset() {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.docs = make(map[string]activity.Activity)
	r.order = nil
}

func (r *Repository) filter(keep func(activity.Activity) bool) []activity.Activity {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]activity.Activity, 0, len(r.order))
	for _, id := range r.order {
		a := r.docs[id]
		if keep(a) {
			out = append(out, clone(a))
		}
	}
	return out
}

func clone(a activity.Activity) activity.Activity {
	a.AdditionalMetrics = activity.CloneMetrics(a.AdditionalMetrics)
	return a
}
