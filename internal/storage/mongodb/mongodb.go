// Package mongodb implements storage.Storage on a MongoDB collection.
//
// One *mongo.Client (itself a connection pool) is created at startup and
// shared by every request; each operation runs under its own timeout so
// a hung server cannot hang a request forever.
package mongodb

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/aanand-mishra/persons-app/internal/config"
	"github.com/aanand-mishra/persons-app/internal/storage"
	"github.com/aanand-mishra/persons-app/internal/types"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// personDocument is the stored shape of a Person.
//
// Age is decoded loosely: older records were written with the age as
// the raw form string, newer ones as an integer.
type personDocument struct {
	ID     primitive.ObjectID `bson:"_id,omitempty"`
	Name   string             `bson:"name"`
	Age    any                `bson:"age"`
	Gender string             `bson:"gender"`
	Mobile string             `bson:"mobile"`
}

func (d personDocument) person() types.Person {
	return types.Person{
		ID:     d.ID.Hex(),
		Name:   d.Name,
		Age:    ageOf(d.Age),
		Gender: d.Gender,
		Mobile: d.Mobile,
	}
}

func ageOf(v any) int {
	switch a := v.(type) {
	case int32:
		return int(a)
	case int64:
		return int(a)
	case float64:
		return int(a)
	case string:
		n, _ := strconv.Atoi(a)
		return n
	}
	return 0
}

type MongoDB struct {
	client  *mongo.Client
	col     *mongo.Collection
	timeout time.Duration
}

// New connects to the server described by cfg.Storage.Mongo, pings it and
// returns a store bound to the configured collection.
func New(ctx context.Context, cfg *config.Config) (*MongoDB, error) {
	mc := cfg.Storage.Mongo

	connectCtx, cancel := context.WithTimeout(ctx, mc.Timeout)
	defer cancel()

	client, err := mongo.Connect(connectCtx, options.Client().ApplyURI(mc.ConnectionURI()))
	if err != nil {
		return nil, fmt.Errorf("mongodb.New: connect: %w", err)
	}
	if err := client.Ping(connectCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, fmt.Errorf("mongodb.New: ping: %w", err)
	}

	col := client.Database(mc.Database).Collection(mc.Collection)
	return &MongoDB{client: client, col: col, timeout: mc.Timeout}, nil
}

// NewWithCollection wraps an existing collection. The caller owns the
// client: Close on the returned store does not disconnect it.
func NewWithCollection(col *mongo.Collection, timeout time.Duration) *MongoDB {
	return &MongoDB{col: col, timeout: timeout}
}

func (m *MongoDB) opContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if m.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, m.timeout)
}

func objectID(id string) (primitive.ObjectID, error) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, storage.ErrInvalidID
	}
	return oid, nil
}

func (m *MongoDB) CreatePerson(ctx context.Context, p types.Person) (string, error) {
	ctx, cancel := m.opContext(ctx)
	defer cancel()

	doc := personDocument{Name: p.Name, Age: p.Age, Gender: p.Gender, Mobile: p.Mobile}
	res, err := m.col.InsertOne(ctx, doc)
	if err != nil {
		return "", fmt.Errorf("CreatePerson: insert: %w", err)
	}

	oid, ok := res.InsertedID.(primitive.ObjectID)
	if !ok {
		return "", fmt.Errorf("CreatePerson: unexpected id type %T", res.InsertedID)
	}
	return oid.Hex(), nil
}

func (m *MongoDB) GetPersonByID(ctx context.Context, id string) (types.Person, error) {
	oid, err := objectID(id)
	if err != nil {
		return types.Person{}, err
	}

	ctx, cancel := m.opContext(ctx)
	defer cancel()

	var doc personDocument
	if err := m.col.FindOne(ctx, bson.M{"_id": oid}).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return types.Person{}, storage.ErrNotFound
		}
		return types.Person{}, fmt.Errorf("GetPersonByID: find: %w", err)
	}
	return doc.person(), nil
}

func (m *MongoDB) GetPersons(ctx context.Context) ([]types.Person, error) {
	ctx, cancel := m.opContext(ctx)
	defer cancel()

	cur, err := m.col.Find(ctx, bson.M{})
	if err != nil {
		return nil, fmt.Errorf("GetPersons: find: %w", err)
	}
	defer cur.Close(ctx)

	out := make([]types.Person, 0)
	for cur.Next(ctx) {
		var doc personDocument
		if err := cur.Decode(&doc); err != nil {
			return nil, fmt.Errorf("GetPersons: decode: %w", err)
		}
		out = append(out, doc.person())
	}
	if err := cur.Err(); err != nil {
		return nil, fmt.Errorf("GetPersons: cursor: %w", err)
	}
	return out, nil
}

func (m *MongoDB) UpdatePersonByID(ctx context.Context, id string, p types.Person) (storage.UpdateResult, error) {
	oid, err := objectID(id)
	if err != nil {
		return storage.UpdateResult{}, err
	}

	ctx, cancel := m.opContext(ctx)
	defer cancel()

	set := bson.M{"name": p.Name, "age": p.Age, "gender": p.Gender, "mobile": p.Mobile}
	res, err := m.col.UpdateOne(ctx, bson.M{"_id": oid}, bson.M{"$set": set})
	if err != nil {
		return storage.UpdateResult{}, fmt.Errorf("UpdatePersonByID: update: %w", err)
	}
	return storage.UpdateResult{Matched: res.MatchedCount, Modified: res.ModifiedCount}, nil
}

func (m *MongoDB) DeletePersonByID(ctx context.Context, id string) (int64, error) {
	oid, err := objectID(id)
	if err != nil {
		return 0, err
	}

	ctx, cancel := m.opContext(ctx)
	defer cancel()

	res, err := m.col.DeleteOne(ctx, bson.M{"_id": oid})
	if err != nil {
		return 0, fmt.Errorf("DeletePersonByID: delete: %w", err)
	}
	return res.DeletedCount, nil
}

func (m *MongoDB) Close(ctx context.Context) error {
	if m.client == nil {
		return nil
	}
	return m.client.Disconnect(ctx)
}
