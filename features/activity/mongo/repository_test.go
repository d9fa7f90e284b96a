package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/fitness-app/activityservice/activity"
	mockmongo "github.com/fitness-app/activityservice/features/activity/mongo/clients/mongo/mocks"
)

func TestNewRepositoryRequiresClient(t *testing.T) {
	_, err := NewRepository(nil)
	require.EqualError(t, err, "client is required")
}

func TestSaveDelegatesToClient(t *testing.T) {
	mockClient := mockmongo.NewClient(t)
	now := time.Now().UTC().Truncate(time.Millisecond)
	in := activity.Activity{UserID: "u1", Type: activity.TypeCardio}
	expected := in
	expected.ID = "65f1c2d3e4a5b6c7d8e9f001"
	expected.CreatedAt = now
	expected.UpdatedAt = now
	mockClient.AddSave(func(ctx context.Context, a activity.Activity) (activity.Activity, error) {
		require.Equal(t, in, a)
		return expected, nil
	})
	repo, err := NewRepository(mockClient)
	require.NoError(t, err)

	out, err := repo.Save(context.Background(), in)
	require.NoError(t, err)
	require.Equal(t, expected, out)
	require.False(t, mockClient.HasMore())
}

func TestFindByUserIDDelegatesToClient(t *testing.T) {
	mockClient := mockmongo.NewClient(t)
	expected := []activity.Activity{{ID: "a", UserID: "u1"}, {ID: "b", UserID: "u1"}}
	mockClient.AddFindByUserID(func(ctx context.Context, userID string) ([]activity.Activity, error) {
		require.Equal(t, "u1", userID)
		return expected, nil
	})
	repo, err := NewRepository(mockClient)
	require.NoError(t, err)

	out, err := repo.FindByUserID(context.Background(), "u1")
	require.NoError(t, err)
	require.Equal(t, expected, out)
	require.False(t, mockClient.HasMore())
}

func TestFindByIDDelegatesToClient(t *testing.T) {
	mockClient := mockmongo.NewClient(t)
	mockClient.AddFindByID(func(ctx context.Context, id string) (activity.Activity, bool, error) {
		require.Equal(t, "missing", id)
		return activity.Activity{}, false, nil
	})
	repo, err := NewRepository(mockClient)
	require.NoError(t, err)

	_, ok, err := repo.FindByID(context.Background(), "missing")
	require.NoError(t, err)
	require.False(t, ok)
	require.False(t, mockClient.HasMore())
}

func TestRemainingOperationsDelegateToClient(t *testing.T) {
	mockClient := mockmongo.NewClient(t)
	mockClient.AddFindAll(func(ctx context.Context) ([]activity.Activity, error) {
		return []activity.Activity{{ID: "a", UserID: "u1"}}, nil
	})
	mockClient.AddDeleteByID(func(ctx context.Context, id string) error {
		require.Equal(t, "a", id)
		return nil
	})
	mockClient.AddCount(func(ctx context.Context) (int64, error) {
		return 0, nil
	})
	mockClient.AddExistsByID(func(ctx context.Context, id string) (bool, error) {
		return false, nil
	})
	repo, err := NewRepository(mockClient)
	require.NoError(t, err)
	ctx := context.Background()

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	require.NoError(t, repo.DeleteByID(ctx, "a"))
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
	exists, err := repo.ExistsByID(ctx, "a")
	require.NoError(t, err)
	require.False(t, exists)
	require.False(t, mockClient.HasMore())
}

func TestErrorsPassThrough(t *testing.T) {
	mockClient := mockmongo.NewClient(t)
	cause := &activity.PersistenceError{Op: "findAll", Err: errors.New("connection reset")}
	mockClient.AddFindAll(func(ctx context.Context) ([]activity.Activity, error) {
		return nil, cause
	})
	repo, err := NewRepository(mockClient)
	require.NoError(t, err)

	_, err = repo.FindAll(context.Background())
	require.ErrorIs(t, err, cause)
	require.True(t, activity.IsPersistence(err))
	require.False(t, mockClient.HasMore())
}
