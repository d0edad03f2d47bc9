package mongodb

import (
	"context"
	"testing"
	"time"

	"github.com/aanand-mishra/persons-app/internal/storage"
	"github.com/aanand-mishra/persons-app/internal/types"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"
)

var _ storage.Storage = (*MongoDB)(nil)

const ns = "test.persondatas"

func TestMongoDB(t *testing.T) {
	mt := mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
	ctx := context.Background()

	mt.Run("create returns object id", func(mt *mtest.T) {
		s := NewWithCollection(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		id, err := s.CreatePerson(ctx, types.Person{Name: "Ann", Age: 30, Gender: "F", Mobile: "555"})
		require.NoError(mt, err)
		_, err = primitive.ObjectIDFromHex(id)
		require.NoError(mt, err)
	})

	mt.Run("create surfaces write errors", func(mt *mtest.T) {
		s := NewWithCollection(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index: 0, Code: 11000, Message: "duplicate key error",
		}))

		_, err := s.CreatePerson(ctx, types.Person{Name: "Ann"})
		require.Error(mt, err)
	})

	mt.Run("get by id", func(mt *mtest.T) {
		s := NewWithCollection(mt.Coll, time.Second)
		oid := primitive.NewObjectID()
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{
			{Key: "_id", Value: oid},
			{Key: "name", Value: "Ann"},
			{Key: "age", Value: int32(30)},
			{Key: "gender", Value: "F"},
			{Key: "mobile", Value: "555"},
		}))

		p, err := s.GetPersonByID(ctx, oid.Hex())
		require.NoError(mt, err)
		require.Equal(mt, types.Person{ID: oid.Hex(), Name: "Ann", Age: 30, Gender: "F", Mobile: "555"}, p)
	})

	mt.Run("get by id not found", func(mt *mtest.T) {
		s := NewWithCollection(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		_, err := s.GetPersonByID(ctx, primitive.NewObjectID().Hex())
		require.ErrorIs(mt, err, storage.ErrNotFound)
	})

	mt.Run("malformed id never reaches the server", func(mt *mtest.T) {
		s := NewWithCollection(mt.Coll, time.Second)

		_, err := s.GetPersonByID(ctx, "not-an-object-id")
		require.ErrorIs(mt, err, storage.ErrInvalidID)
		_, err = s.UpdatePersonByID(ctx, "zzz", types.Person{})
		require.ErrorIs(mt, err, storage.ErrInvalidID)
		_, err = s.DeletePersonByID(ctx, "")
		require.ErrorIs(mt, err, storage.ErrInvalidID)
	})

	mt.Run("list decodes integer and legacy string ages", func(mt *mtest.T) {
		s := NewWithCollection(mt.Coll, time.Second)
		first := mtest.CreateCursorResponse(1, ns, mtest.FirstBatch,
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "Ann"}, {Key: "age", Value: int32(30)}},
			bson.D{{Key: "_id", Value: primitive.NewObjectID()}, {Key: "name", Value: "Bob"}, {Key: "age", Value: "41"}},
		)
		killCursors := mtest.CreateCursorResponse(0, ns, mtest.NextBatch)
		mt.AddMockResponses(first, killCursors)

		list, err := s.GetPersons(ctx)
		require.NoError(mt, err)
		require.Len(mt, list, 2)
		require.Equal(mt, 30, list[0].Age)
		require.Equal(mt, "Bob", list[1].Name)
		require.Equal(mt, 41, list[1].Age)
	})

	mt.Run("list on empty collection", func(mt *mtest.T) {
		s := NewWithCollection(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, ns, mtest.FirstBatch))

		list, err := s.GetPersons(ctx)
		require.NoError(mt, err)
		require.NotNil(mt, list)
		require.Empty(mt, list)
	})

	mt.Run("list surfaces command errors", func(mt *mtest.T) {
		s := NewWithCollection(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateCommandErrorResponse(mtest.CommandError{
			Code: 2, Name: "BadValue", Message: "boom",
		}))

		_, err := s.GetPersons(ctx)
		require.Error(mt, err)
	})

	mt.Run("update reports matched and modified", func(mt *mtest.T) {
		s := NewWithCollection(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 1},
			bson.E{Key: "nModified", Value: 1},
		))

		res, err := s.UpdatePersonByID(ctx, primitive.NewObjectID().Hex(), types.Person{Name: "Ann", Age: 31})
		require.NoError(mt, err)
		require.Equal(mt, storage.UpdateResult{Matched: 1, Modified: 1}, res)
	})

	mt.Run("update with no match", func(mt *mtest.T) {
		s := NewWithCollection(mt.Coll, time.Second)
		mt.AddMockResponses(mtest.CreateSuccessResponse(
			bson.E{Key: "n", Value: 0},
			bson.E{Key: "nModified", Value: 0},
		))

		res, err := s.UpdatePersonByID(ctx, primitive.NewObjectID().Hex(), types.Person{Name: "Ann"})
		require.NoError(mt, err)
		require.Equal(mt, storage.UpdateResult{}, res)
	})

	mt.Run("delete counts", func(mt *mtest.T) {
		s := NewWithCollection(mt.Coll, time.Second)
		mt.AddMockResponses(
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 1}),
			mtest.CreateSuccessResponse(bson.E{Key: "n", Value: 0}),
		)

		n, err := s.DeletePersonByID(ctx, primitive.NewObjectID().Hex())
		require.NoError(mt, err)
		require.EqualValues(mt, 1, n)

		n, err = s.DeletePersonByID(ctx, primitive.NewObjectID().Hex())
		require.NoError(mt, err)
		require.Zero(mt, n)
	})

	mt.Run("close without owned client", func(mt *mtest.T) {
		s := NewWithCollection(mt.Coll, time.Second)
		require.NoError(mt, s.Close(ctx))
	})
}

func TestAgeOf(t *testing.T) {
	require.Equal(t, 30, ageOf(int32(30)))
	require.Equal(t, 30, ageOf(int64(30)))
	require.Equal(t, 30, ageOf(float64(30)))
	require.Equal(t, 31, ageOf("31"))
	require.Equal(t, 0, ageOf("abc"))
	require.Equal(t, 0, ageOf(nil))
}
