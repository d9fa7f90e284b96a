// Package provider owns the process-wide MongoDB client handle and binds it to
// database namespaces.
//
// A Provider creates its client at most once; every caller shares the same
// handle, which multiplexes connections internally and is safe for concurrent
// use. Connections are established lazily, so building a client never fails
// because the server is unreachable: the first failure surfaces on the first
// query.
package provider

import (
	"context"
	"errors"
	"strings"
	"sync"

	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"
	"go.mongodb.org/mongo-driver/x/mongo/driver/connstring"

	"goa.design/clue/health"

	"github.com/fitness-app/activityservice/activity"
)

const providerName = "mongo"

type (
	// Provider lazily creates and then reuses a single client handle.
	Provider struct {
		uri     string
		options []*options.ClientOptions

		once   sync.Once
		client *mongodriver.Client
		err    error
	}

	// QueryContext binds a client handle to one database namespace.
	QueryContext struct {
		client *mongodriver.Client
		db     *mongodriver.Database
	}

	// Option customizes the client options used by a Provider.
	Option func(*options.ClientOptions)
)

// ErrClosed is returned by Client when the Provider was closed before the
// client was created.
var ErrClosed = errors.New("mongo provider is closed")

var _ health.Pinger = (*Provider)(nil)

// New returns a Provider for uri. The client is not created until Client or
// QueryContext is first called.
func New(uri string, opts ...Option) *Provider {
	co := options.Client()
	for _, opt := range opts {
		opt(co)
	}
	return &Provider{uri: uri, options: []*options.ClientOptions{co}}
}

// WithAppName sets the application name reported to the server.
func WithAppName(name string) Option {
	return func(o *options.ClientOptions) { o.SetAppName(name) }
}

// NewClient parses uri and returns a client handle for the addressed
// deployment. A malformed URI yields an *activity.ConfigurationError.
func NewClient(ctx context.Context, uri string, opts ...*options.ClientOptions) (*mongodriver.Client, error) {
	if _, err := parseURI(uri); err != nil {
		return nil, err
	}
	all := append([]*options.ClientOptions{options.Client().ApplyURI(uri)}, opts...)
	client, err := mongodriver.Connect(ctx, all...)
	if err != nil {
		return nil, &activity.ConfigurationError{Field: "uri", Err: err}
	}
	return client, nil
}

// NewQueryContext binds client to the database named database. It performs no
// I/O.
func NewQueryContext(client *mongodriver.Client, database string) (*QueryContext, error) {
	if client == nil {
		return nil, &activity.ConfigurationError{Field: "client", Err: errors.New("mongo client is required")}
	}
	if strings.TrimSpace(database) == "" {
		return nil, &activity.ConfigurationError{Field: "database", Err: errors.New("database name is required")}
	}
	return &QueryContext{client: client, db: client.Database(database)}, nil
}

// DatabaseFromURI returns the database named in the path of uri, if any.
func DatabaseFromURI(uri string) (string, error) {
	return parseURI(uri)
}

// Client returns the shared client handle, creating it on first use.
func (p *Provider) Client(ctx context.Context) (*mongodriver.Client, error) {
	p.once.Do(func() {
		p.client, p.err = NewClient(ctx, p.uri, p.options...)
	})
	return p.client, p.err
}

// QueryContext returns a QueryContext for database on the shared client. An
// empty database selects the database named in the URI.
func (p *Provider) QueryContext(ctx context.Context, database string) (*QueryContext, error) {
	client, err := p.Client(ctx)
	if err != nil {
		return nil, err
	}
	if database == "" {
		if database, err = DatabaseFromURI(p.uri); err != nil {
			return nil, err
		}
	}
	return NewQueryContext(client, database)
}

// Close disconnects the client if it was created. A Provider closed before
// its first use never creates a client: Client returns ErrClosed.
func (p *Provider) Close(ctx context.Context) error {
	// Waits for an in-flight first Client call before reading the handle.
	p.once.Do(func() { p.err = ErrClosed })
	if p.client == nil {
		return nil
	}
	return p.client.Disconnect(ctx)
}

// Name implements health.Pinger.
func (p *Provider) Name() string {
	return providerName
}

// Ping implements health.Pinger.
func (p *Provider) Ping(ctx context.Context) error {
	client, err := p.Client(ctx)
	if err != nil {
		return err
	}
	return client.Ping(ctx, readpref.Primary())
}

// Client returns the bound client handle.
func (q *QueryContext) Client() *mongodriver.Client {
	return q.client
}

// Database returns the bound database.
func (q *QueryContext) Database() *mongodriver.Database {
	return q.db
}

// Collection returns the named collection in the bound database.
func (q *QueryContext) Collection(name string) *mongodriver.Collection {
	return q.db.Collection(name)
}

// parseURI validates uri and returns the database named in its path.
func parseURI(uri string) (string, error) {
	if strings.TrimSpace(uri) == "" {
		return "", &activity.ConfigurationError{Field: "uri", Err: errors.New("connection uri is required")}
	}
	cs, err := connstring.ParseAndValidate(uri)
	if err != nil {
		return "", &activity.ConfigurationError{Field: "uri", Err: err}
	}
	return cs.Database, nil
}
