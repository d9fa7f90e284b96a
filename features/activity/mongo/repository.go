package mongo

import (
	"context"
	"errors"

	"github.com/fitness-app/activityservice/activity"
	clientsmongo "github.com/fitness-app/activityservice/features/activity/mongo/clients/mongo"
)

// Repository implements activity.Repository by delegating to the Mongo client.
type Repository struct {
	client clientsmongo.Client
}

var _ activity.Repository = (*Repository)(nil)

// NewRepository builds a Repository using the provided client.
func NewRepository(client clientsmongo.Client) (*Repository, error) {
	if client == nil {
		return nil, errors.New("client is required")
	}
	return &Repository{client: client}, nil
}

// Save inserts or replaces the activity.
func (r *Repository) Save(ctx context.Context, a activity.Activity) (activity.Activity, error) {
	return r.client.Save(ctx, a)
}

// FindByID loads a single activity.
func (r *Repository) FindByID(ctx context.Context, id string) (activity.Activity, bool, error) {
	return r.client.FindByID(ctx, id)
}

// FindAll lists every activity.
func (r *Repository) FindAll(ctx context.Context) ([]activity.Activity, error) {
	return r.client.FindAll(ctx)
}

// FindByUserID lists the activities of one user.
func (r *Repository) FindByUserID(ctx context.Context, userID string) ([]activity.Activity, error) {
	return r.client.FindByUserID(ctx, userID)
}

// DeleteByID removes an activity.
func (r *Repository) DeleteByID(ctx context.Context, id string) error {
	return r.client.DeleteByID(ctx, id)
}

// Count returns the number of stored activities.
func (r *Repository) Count(ctx context.Context) (int64, error) {
	return r.client.Count(ctx)
}

// ExistsByID reports whether the activity is stored.
func (r *Repository) ExistsByID(ctx context.Context, id string) (bool, error) {
	return r.client.ExistsByID(ctx, id)
}
