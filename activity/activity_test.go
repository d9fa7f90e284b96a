package activity_test

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/codes"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"

	"github.com/fitness-app/activityservice/activity"
	"github.com/fitness-app/activityservice/activity/inmem"
)

func TestValidateRequiresUserID(t *testing.T) {
	err := activity.Validate(activity.Activity{Type: activity.TypeYoga})
	require.ErrorIs(t, err, activity.ErrInvalidActivity)
	require.Contains(t, err.Error(), "UserID")

	require.NoError(t, activity.Validate(activity.Activity{UserID: "u1"}))
}

func TestNormalize(t *testing.T) {
	in := activity.Activity{
		StartTime:         time.Date(2024, 1, 2, 3, 4, 5, 678912345, time.FixedZone("X", -7200)),
		AdditionalMetrics: map[string]any{"hr": 140},
	}
	out := activity.Normalize(in)
	require.Equal(t, time.UTC, out.StartTime.Location())
	require.Equal(t, 678000000, out.StartTime.Nanosecond())
	require.True(t, out.StartTime.Equal(in.StartTime.Truncate(time.Millisecond)))
	require.True(t, out.CreatedAt.IsZero())

	out.AdditionalMetrics["hr"] = 0
	require.Equal(t, 140, in.AdditionalMetrics["hr"])
	require.Nil(t, activity.Normalize(activity.Activity{AdditionalMetrics: map[string]any{}}).AdditionalMetrics)
}

func TestTypes(t *testing.T) {
	require.Len(t, activity.Types(), 10)
	require.Contains(t, activity.Types(), activity.TypeHIIT)
}

func TestPersistenceError(t *testing.T) {
	cause := errors.New("connection reset")
	err := activity.NewPersistenceError("find", cause)
	require.ErrorIs(t, err, cause)
	require.True(t, activity.IsPersistence(err))
	require.EqualError(t, err, "activity find: connection reset")

	wrapped := fmt.Errorf("outer: %w", err)
	require.Same(t, wrapped, activity.NewPersistenceError("save", wrapped))
	require.NoError(t, activity.NewPersistenceError("save", nil))
}

func TestConfigurationError(t *testing.T) {
	err := error(&activity.ConfigurationError{Field: "uri", Err: errors.New("bad scheme")})
	require.True(t, activity.IsConfiguration(err))
	require.False(t, activity.IsPersistence(err))
	require.EqualError(t, err, `invalid configuration "uri": bad scheme`)
}

func TestInstrumentRequiresRepository(t *testing.T) {
	_, err := activity.Instrument(nil)
	require.EqualError(t, err, "repository is required")
}

func TestInstrumentPassesThrough(t *testing.T) {
	ctx := context.Background()
	repo, err := activity.Instrument(inmem.New())
	require.NoError(t, err)

	saved, err := repo.Save(ctx, activity.Activity{UserID: "u1", Type: activity.TypeCycling})
	require.NoError(t, err)
	require.NotEmpty(t, saved.ID)

	found, ok, err := repo.FindByID(ctx, saved.ID)
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, saved, found)

	byUser, err := repo.FindByUserID(ctx, "u1")
	require.NoError(t, err)
	require.Len(t, byUser, 1)

	all, err := repo.FindAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)

	exists, err := repo.ExistsByID(ctx, saved.ID)
	require.NoError(t, err)
	require.True(t, exists)

	require.NoError(t, repo.DeleteByID(ctx, saved.ID))
	n, err := repo.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)

	_, err = repo.Save(ctx, activity.Activity{})
	require.ErrorIs(t, err, activity.ErrInvalidActivity)
}

func TestInstrumentReturnsErrorsUnchanged(t *testing.T) {
	cause := &activity.PersistenceError{Op: "count", Err: errors.New("down")}
	repo, err := activity.Instrument(failingRepository{err: cause})
	require.NoError(t, err)

	_, err = repo.Count(context.Background())
	require.Same(t, cause, err)
	_, err = repo.FindAll(context.Background())
	require.Same(t, cause, err)
}

func TestInstrumentRecordsSpansAndOperations(t *testing.T) {
	ctx := context.Background()
	spans := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(spans))
	reader := sdkmetric.NewManualReader()
	mp := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader))
	opts := []activity.InstrumentOption{activity.WithTracerProvider(tp), activity.WithMeterProvider(mp)}

	repo, err := activity.Instrument(inmem.New(), opts...)
	require.NoError(t, err)
	_, err = repo.Save(ctx, activity.Activity{UserID: "u1"})
	require.NoError(t, err)
	_, err = repo.Save(ctx, activity.Activity{})
	require.ErrorIs(t, err, activity.ErrInvalidActivity)

	down, err := activity.Instrument(failingRepository{err: activity.NewPersistenceError("count", errors.New("down"))}, opts...)
	require.NoError(t, err)
	_, err = down.Count(ctx)
	require.Error(t, err)

	ended := spans.Ended()
	require.Len(t, ended, 3)
	require.Equal(t, "activity.Save", ended[0].Name())
	require.Equal(t, codes.Unset, ended[0].Status().Code)
	require.Equal(t, "activity.Save", ended[1].Name())
	require.Equal(t, codes.Error, ended[1].Status().Code)
	require.Contains(t, ended[1].Status().Description, "UserID")
	require.Equal(t, "activity.Count", ended[2].Name())
	require.Equal(t, codes.Error, ended[2].Status().Code)
	require.Contains(t, ended[2].Status().Description, "down")

	var rm metricdata.ResourceMetrics
	require.NoError(t, reader.Collect(ctx, &rm))
	require.Equal(t, map[string]int64{
		"Save/ok":      1,
		"Save/invalid": 1,
		"Count/error":  1,
	}, operationCounts(t, rm))
}

// operationCounts sums the repository operation counter by "op/outcome".
func operationCounts(t *testing.T, rm metricdata.ResourceMetrics) map[string]int64 {
	t.Helper()
	out := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "activity.repository.operations" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			require.True(t, ok, "unexpected data type %T", m.Data)
			for _, dp := range sum.DataPoints {
				op, _ := dp.Attributes.Value("op")
				outcome, _ := dp.Attributes.Value("outcome")
				out[op.AsString()+"/"+outcome.AsString()] += dp.Value
			}
		}
	}
	return out
}

type failingRepository struct {
	activity.Repository
	err error
}

func (f failingRepository) Count(context.Context) (int64, error) { return 0, f.err }

func (f failingRepository) FindAll(context.Context) ([]activity.Activity, error) { return nil, f.err }
