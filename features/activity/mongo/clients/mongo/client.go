// Package mongo hosts the MongoDB client used by the activity repository.
package mongo

//go:generate cmg gen .

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	mongodriver "go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
	"go.mongodb.org/mongo-driver/mongo/readpref"

	"goa.design/clue/health"

	"github.com/fitness-app/activityservice/activity"
	"github.com/fitness-app/activityservice/features/mongo/provider"
)

const (
	// DefaultCollection is the collection name derived from the entity type.
	DefaultCollection = "activity"

	defaultOpTimeout   = 5 * time.Second
	activityClientName = "activity-mongo"
	userIDIndexName    = "userId_1"
)

// Client exposes Mongo-backed operations on activity documents.
type Client interface {
	health.Pinger

	EnsureIndexes(ctx context.Context) error

	Save(ctx context.Context, a activity.Activity) (activity.Activity, error)
	FindByID(ctx context.Context, id string) (activity.Activity, bool, error)
	FindAll(ctx context.Context) ([]activity.Activity, error)
	FindByUserID(ctx context.Context, userID string) ([]activity.Activity, error)
	DeleteByID(ctx context.Context, id string) error
	Count(ctx context.Context) (int64, error)
	ExistsByID(ctx context.Context, id string) (bool, error)
}

// Options configures the Mongo activity client.
type Options struct {
	// Query binds the shared client handle to the activity database.
	Query *provider.QueryContext
	// Collection overrides DefaultCollection.
	Collection string
	// Timeout bounds each operation. Defaults to 5s.
	Timeout time.Duration
}

type client struct {
	mongo      *mongodriver.Client
	activities collection
	timeout    time.Duration
}

// New returns a Client backed by MongoDB. It performs no I/O; call
// EnsureIndexes at startup to create the userId index.
func New(opts Options) (Client, error) {
	if opts.Query == nil {
		return nil, errors.New("query context is required")
	}
	name := opts.Collection
	if name == "" {
		name = DefaultCollection
	}
	coll := mongoCollection{coll: opts.Query.Collection(name)}
	return newClientWithCollection(opts.Query.Client(), coll, opts.Timeout)
}

func (c *client) Name() string {
	return activityClientName
}

func (c *client) Ping(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.mongo == nil {
		return errors.New("mongo client is not configured")
	}
	return c.mongo.Ping(ctx, readpref.Primary())
}

func (c *client) EnsureIndexes(ctx context.Context) error {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	return activity.NewPersistenceError("ensureIndexes", ensureIndexes(ctx, c.activities))
}

func (c *client) Save(ctx context.Context, a activity.Activity) (activity.Activity, error) {
	if err := activity.Validate(a); err != nil {
		return activity.Activity{}, err
	}
	now := activity.Now()
	doc, err := fromActivity(activity.Normalize(a))
	if err != nil {
		return activity.Activity{}, err
	}

	if a.ID == "" {
		doc.ID = primitive.NewObjectID()
		doc.CreatedAt = now
		doc.UpdatedAt = now
		stored, err := doc.stored()
		if err != nil {
			return activity.Activity{}, err
		}
		ctxWithTimeout, cancel := c.withTimeout(ctx)
		defer cancel()
		if _, err := c.activities.InsertOne(ctxWithTimeout, doc); err != nil {
			return activity.Activity{}, activity.NewPersistenceError("save", err)
		}
		return stored.toActivity(), nil
	}

	if _, err := doc.stored(); err != nil {
		return activity.Activity{}, err
	}
	ctxWithTimeout, cancel := c.withTimeout(ctx)
	defer cancel()
	filter := bson.M{"_id": doc.ID}
	update := bson.M{
		// createdAt only appears in $setOnInsert so a replace never rewrites it.
		"$set": bson.M{
			"userId":            doc.UserID,
			"type":              doc.Type,
			"duration":          doc.Duration,
			"caloriesBurned":    doc.CaloriesBurned,
			"startTime":         doc.StartTime,
			"additionalMetrics": doc.AdditionalMetrics,
			"updatedAt":         now,
		},
		"$setOnInsert": bson.M{
			"createdAt": now,
		},
	}
	if _, err := c.activities.UpdateOne(ctxWithTimeout, filter, update, options.Update().SetUpsert(true)); err != nil {
		return activity.Activity{}, activity.NewPersistenceError("save", err)
	}

	out, ok, err := c.FindByID(ctx, a.ID)
	if err != nil {
		return activity.Activity{}, activity.NewPersistenceError("save", err)
	}
	if !ok {
		return activity.Activity{}, activity.NewPersistenceError("save", fmt.Errorf("activity %s vanished after save", a.ID))
	}
	return out, nil
}

func (c *client) FindByID(ctx context.Context, id string) (activity.Activity, bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return activity.Activity{}, false, nil
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	var doc activityDocument
	if err := c.activities.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongodriver.ErrNoDocuments) {
			return activity.Activity{}, false, nil
		}
		return activity.Activity{}, false, activity.NewPersistenceError("findById", err)
	}
	return doc.toActivity(), true, nil
}

func (c *client) FindAll(ctx context.Context) ([]activity.Activity, error) {
	out, err := c.find(ctx, bson.M{})
	return out, activity.NewPersistenceError("findAll", err)
}

func (c *client) FindByUserID(ctx context.Context, userID string) ([]activity.Activity, error) {
	out, err := c.find(ctx, bson.M{"userId": userID})
	return out, activity.NewPersistenceError("findByUserId", err)
}

func (c *client) DeleteByID(ctx context.Context, id string) error {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return nil
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	if _, err := c.activities.DeleteOne(ctx, bson.M{"_id": oid}); err != nil {
		return activity.NewPersistenceError("deleteById", err)
	}
	return nil
}

func (c *client) Count(ctx context.Context) (int64, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	n, err := c.activities.CountDocuments(ctx, bson.M{})
	if err != nil {
		return 0, activity.NewPersistenceError("count", err)
	}
	return n, nil
}

func (c *client) ExistsByID(ctx context.Context, id string) (bool, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return false, nil
	}
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	n, err := c.activities.CountDocuments(ctx, bson.M{"_id": oid}, options.Count().SetLimit(1))
	if err != nil {
		return false, activity.NewPersistenceError("existsById", err)
	}
	return n > 0, nil
}

func (c *client) find(ctx context.Context, filter bson.M) ([]activity.Activity, error) {
	ctx, cancel := c.withTimeout(ctx)
	defer cancel()
	cur, err := c.activities.Find(ctx, filter)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = cur.Close(ctx)
	}()
	out := make([]activity.Activity, 0)
	for cur.Next(ctx) {
		var doc activityDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, err
		}
		out = append(out, doc.toActivity())
	}
	if err := cur.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *client) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if c.timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, c.timeout)
}

type activityDocument struct {
	ID                primitive.ObjectID `bson:"_id"`
	UserID            string             `bson:"userId"`
	Type              string             `bson:"type"`
	Duration          int                `bson:"duration"`
	CaloriesBurned    int                `bson:"caloriesBurned"`
	StartTime         time.Time          `bson:"startTime"`
	AdditionalMetrics map[string]any     `bson:"additionalMetrics"`
	CreatedAt         time.Time          `bson:"createdAt"`
	UpdatedAt         time.Time          `bson:"updatedAt"`
}

func fromActivity(a activity.Activity) (activityDocument, error) {
	doc := activityDocument{
		UserID:            a.UserID,
		Type:              string(a.Type),
		Duration:          a.Duration,
		CaloriesBurned:    a.CaloriesBurned,
		StartTime:         a.StartTime,
		AdditionalMetrics: activity.CloneMetrics(a.AdditionalMetrics),
		CreatedAt:         a.CreatedAt,
		UpdatedAt:         a.UpdatedAt,
	}
	if a.ID != "" {
		oid, err := primitive.ObjectIDFromHex(a.ID)
		if err != nil {
			return activityDocument{}, fmt.Errorf("%w: id %q is not a valid object id", activity.ErrInvalidActivity, a.ID)
		}
		doc.ID = oid
	}
	return doc, nil
}

// stored returns doc as it reads back from the server. BSON narrows metric
// values (int to int32, []any to primitive.A) so the encoded form is
// authoritative.
func (doc activityDocument) stored() (activityDocument, error) {
	raw, err := bson.Marshal(doc)
	if err != nil {
		return activityDocument{}, fmt.Errorf("%w: %v", activity.ErrInvalidActivity, err)
	}
	var out activityDocument
	if err := bson.Unmarshal(raw, &out); err != nil {
		return activityDocument{}, fmt.Errorf("%w: %v", activity.ErrInvalidActivity, err)
	}
	return out, nil
}

func (doc activityDocument) toActivity() activity.Activity {
	return activity.Normalize(activity.Activity{
		ID:                doc.ID.Hex(),
		UserID:            doc.UserID,
		Type:              activity.Type(doc.Type),
		Duration:          doc.Duration,
		CaloriesBurned:    doc.CaloriesBurned,
		StartTime:         doc.StartTime,
		AdditionalMetrics: doc.AdditionalMetrics,
		CreatedAt:         doc.CreatedAt,
		UpdatedAt:         doc.UpdatedAt,
	})
}

func ensureIndexes(ctx context.Context, activities collection) error {
	userIndex := mongodriver.IndexModel{
		Keys:    bson.D{{Key: "userId", Value: 1}},
		Options: options.Index().SetName(userIDIndexName),
	}
	if _, err := activities.Indexes().CreateOne(ctx, userIndex); err != nil {
		return err
	}
	return nil
}

func newClientWithCollection(mongoClient *mongodriver.Client, activities collection, timeout time.Duration) (*client, error) {
	if activities == nil {
		return nil, errors.New("collection is required")
	}
	if timeout <= 0 {
		timeout = defaultOpTimeout
	}
	return &client{
		mongo:      mongoClient,
		activities: activities,
		timeout:    timeout,
	}, nil
}

type collection interface {
	FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) singleResult
	Find(ctx context.Context, filter any, opts ...*options.FindOptions) (cursor, error)
	InsertOne(ctx context.Context, document any,
		opts ...*options.InsertOneOptions) (*mongodriver.InsertOneResult, error)
	UpdateOne(ctx context.Context, filter any, update any,
		opts ...*options.UpdateOptions) (*mongodriver.UpdateResult, error)
	DeleteOne(ctx context.Context, filter any,
		opts ...*options.DeleteOptions) (*mongodriver.DeleteResult, error)
	CountDocuments(ctx context.Context, filter any, opts ...*options.CountOptions) (int64, error)
	Indexes() indexView
}

type indexView interface {
	CreateOne(ctx context.Context, model mongodriver.IndexModel,
		opts ...*options.CreateIndexesOptions) (string, error)
}

type singleResult interface {
	Decode(val any) error
}

type cursor interface {
	Close(ctx context.Context) error
	Decode(val any) error
	Err() error
	Next(ctx context.Context) bool
}

type mongoCollection struct {
	coll *mongodriver.Collection
}

func (c mongoCollection) FindOne(ctx context.Context, filter any, opts ...*options.FindOneOptions) singleResult {
	return mongoSingleResult{res: c.coll.FindOne(ctx, filter, opts...)}
}

func (c mongoCollection) Find(ctx context.Context, filter any, opts ...*options.FindOptions) (cursor, error) {
	cur, err := c.coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, err
	}
	return mongoCursor{cur: cur}, nil
}

func (c mongoCollection) InsertOne(ctx context.Context, document any,
	opts ...*options.InsertOneOptions) (*mongodriver.InsertOneResult, error) {
	return c.coll.InsertOne(ctx, document, opts...)
}

func (c mongoCollection) UpdateOne(ctx context.Context, filter any, update any,
	opts ...*options.UpdateOptions) (*mongodriver.UpdateResult, error) {
	return c.coll.UpdateOne(ctx, filter, update, opts...)
}

func (c mongoCollection) DeleteOne(ctx context.Context, filter any,
	opts ...*options.DeleteOptions) (*mongodriver.DeleteResult, error) {
	return c.coll.DeleteOne(ctx, filter, opts...)
}

func (c mongoCollection) CountDocuments(ctx context.Context, filter any, opts ...*options.CountOptions) (int64, error) {
	return c.coll.CountDocuments(ctx, filter, opts...)
}

func (c mongoCollection) Indexes() indexView {
	return mongoIndexView{view: c.coll.Indexes()}
}

type mongoIndexView struct {
	view mongodriver.IndexView
}

func (v mongoIndexView) CreateOne(ctx context.Context, model mongodriver.IndexModel,
	opts ...*options.CreateIndexesOptions) (string, error) {
	return v.view.CreateOne(ctx, model, opts...)
}

type mongoSingleResult struct {
	res *mongodriver.SingleResult
}

func (r mongoSingleResult) Decode(val any) error {
	return r.res.Decode(val)
}

type mongoCursor struct {
	cur *mongodriver.Cursor
}

func (c mongoCursor) Close(ctx context.Context) error {
	return c.cur.Close(ctx)
}

func (c mongoCursor) Decode(val any) error {
	return c.cur.Decode(val)
}

func (c mongoCursor) Err() error {
	return c.cur.Err()
}

func (c mongoCursor) Next(ctx context.Context) bool {
	return c.cur.Next(ctx)
}
