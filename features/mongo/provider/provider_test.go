package provider

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	mongodriver "go.mongodb.org/mongo-driver/mongo"

	"github.com/fitness-app/activityservice/activity"
)

// unreachableURI points at a port nothing listens on.
const unreachableURI = "mongodb://127.0.0.1:1/fitnessactivity?serverSelectionTimeoutMS=200&connectTimeoutMS=200"

func TestNewClientRejectsMalformedURI(t *testing.T) {
	for _, uri := range []string{"", "   ", "localhost:27017", "http://localhost:27017/db", "mongodb://"} {
		_, err := NewClient(context.Background(), uri)
		require.Error(t, err, uri)
		require.True(t, activity.IsConfiguration(err), uri)
	}
}

func TestNewClientIsLazy(t *testing.T) {
	client, err := NewClient(context.Background(), unreachableURI)
	require.NoError(t, err)
	require.NotNil(t, client)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })
}

func TestFirstQueryFailsWhenUnreachable(t *testing.T) {
	p := New(unreachableURI)
	t.Cleanup(func() { _ = p.Close(context.Background()) })
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.Error(t, p.Ping(ctx))
}

func TestDatabaseFromURI(t *testing.T) {
	db, err := DatabaseFromURI("mongodb://localhost:27017/fitnessactivity")
	require.NoError(t, err)
	require.Equal(t, "fitnessactivity", db)

	db, err = DatabaseFromURI("mongodb://localhost:27017")
	require.NoError(t, err)
	require.Empty(t, db)

	_, err = DatabaseFromURI("not a uri")
	require.True(t, activity.IsConfiguration(err))
}

func TestNewQueryContextValidation(t *testing.T) {
	_, err := NewQueryContext(nil, "db")
	require.True(t, activity.IsConfiguration(err))

	client, err := NewClient(context.Background(), unreachableURI)
	require.NoError(t, err)
	t.Cleanup(func() { _ = client.Disconnect(context.Background()) })

	_, err = NewQueryContext(client, " ")
	require.True(t, activity.IsConfiguration(err))

	qc, err := NewQueryContext(client, "fitnessactivity")
	require.NoError(t, err)
	require.Same(t, client, qc.Client())
	require.Equal(t, "fitnessactivity", qc.Database().Name())
	require.Equal(t, "activity", qc.Collection("activity").Name())
}

func TestProviderReusesClient(t *testing.T) {
	p := New(unreachableURI, WithAppName("activityservice-test"))
	t.Cleanup(func() { _ = p.Close(context.Background()) })

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		handles = make(map[*mongodriver.Client]struct{})
	)
	for i := 0; i < 16; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			c, err := p.Client(context.Background())
			require.NoError(t, err)
			mu.Lock()
			handles[c] = struct{}{}
			mu.Unlock()
		}()
	}
	wg.Wait()
	require.Len(t, handles, 1)

	qc, err := p.QueryContext(context.Background(), "")
	require.NoError(t, err)
	require.Equal(t, "fitnessactivity", qc.Database().Name())
	for c := range handles {
		require.Same(t, c, qc.Client())
	}

	qc, err = p.QueryContext(context.Background(), "other")
	require.NoError(t, err)
	require.Equal(t, "other", qc.Database().Name())
}

func TestProviderCloseBeforeFirstUse(t *testing.T) {
	p := New(unreachableURI)
	require.NoError(t, p.Close(context.Background()))
	_, err := p.Client(context.Background())
	require.ErrorIs(t, err, ErrClosed)
	_, err = p.QueryContext(context.Background(), "db")
	require.ErrorIs(t, err, ErrClosed)
}

func TestProviderCloseConcurrentWithFirstUse(t *testing.T) {
	p := New(unreachableURI)
	var wg sync.WaitGroup
	wg.Add(2)
	go func() {
		defer wg.Done()
		c, err := p.Client(context.Background())
		if err != nil {
			require.ErrorIs(t, err, ErrClosed)
			return
		}
		require.NotNil(t, c)
	}()
	go func() {
		defer wg.Done()
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		require.NoError(t, p.Close(ctx))
	}()
	wg.Wait()
}

func TestProviderReportsConfigurationError(t *testing.T) {
	p := New("bogus://")
	_, err := p.Client(context.Background())
	require.True(t, activity.IsConfiguration(err))
	_, err = p.QueryContext(context.Background(), "db")
	require.True(t, activity.IsConfiguration(err))
	require.NoError(t, p.Close(context.Background()))
	require.Equal(t, "mongo", p.Name())
}

func TestProviderQueryContextRequiresDatabase(t *testing.T) {
	p := New("mongodb://127.0.0.1:1/?serverSelectionTimeoutMS=200")
	t.Cleanup(func() { _ = p.Close(context.Background()) })
	_, err := p.QueryContext(context.Background(), "")
	require.True(t, activity.IsConfiguration(err))
}
