package repository

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"mealplan/internal/db"
	apperrors "mealplan/internal/errors"
	"mealplan/internal/model"
)

func newMockMongo(t *testing.T) *mtest.T {
	return mtest.New(t, mtest.NewOptions().ClientType(mtest.Mock))
}

func updated(n int) bson.D {
	return mtest.CreateSuccessResponse(bson.E{Key: "n", Value: n}, bson.E{Key: "nModified", Value: n})
}

// counted answers the CountDocuments aggregate issued after an update matched nothing.
func counted(collection string, n int) bson.D {
	ns := mtest.TestDb + "." + collection
	if n == 0 {
		return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch)
	}
	return mtest.CreateCursorResponse(0, ns, mtest.FirstBatch, bson.D{{Key: "n", Value: n}})
}

func TestPantryRepository_Mongo(t *testing.T) {
	mt := newMockMongo(t)
	ctx := context.Background()

	mt.Run("missing pantry reads as nil", func(mt *mtest.T) {
		repo := NewPantryRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, mtest.TestDb+"."+db.PantriesCollection, mtest.FirstBatch))

		pantry, err := repo.Get(ctx, "user-1")
		require.NoError(mt, err)
		assert.Nil(mt, pantry)
	})

	mt.Run("add item with taken id is a duplicate", func(mt *mtest.T) {
		repo := NewPantryRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: pantries index: userId_1",
		}))

		err := repo.AddItem(ctx, "user-1", model.PantryItem{ID: "42", Name: "rice", Quantity: 1})
		assert.ErrorIs(mt, err, apperrors.ErrDuplicateItem)

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "update", evt.CommandName)
		assert.Equal(mt, "42", evt.Command.Lookup("updates", "0", "q", "items.id", "$ne").StringValue())
		assert.True(mt, evt.Command.Lookup("updates", "0", "upsert").Boolean())
	})

	mt.Run("add item", func(mt *mtest.T) {
		repo := NewPantryRepository(mt.DB)
		mt.AddMockResponses(updated(1))

		require.NoError(mt, repo.AddItem(ctx, "user-1", model.PantryItem{ID: "42", Name: "rice", Quantity: 1}))
	})

	mt.Run("remove item without pantry", func(mt *mtest.T) {
		repo := NewPantryRepository(mt.DB)
		mt.AddMockResponses(updated(0), counted(db.PantriesCollection, 0))

		err := repo.RemoveItem(ctx, "user-1", "42")
		assert.ErrorIs(mt, err, apperrors.ErrPantryNotFound)
	})

	mt.Run("remove unknown item", func(mt *mtest.T) {
		repo := NewPantryRepository(mt.DB)
		mt.AddMockResponses(updated(0), counted(db.PantriesCollection, 1))

		err := repo.RemoveItem(ctx, "user-1", "42")
		assert.ErrorIs(mt, err, apperrors.ErrItemNotFound)
	})

	mt.Run("remove item", func(mt *mtest.T) {
		repo := NewPantryRepository(mt.DB)
		mt.AddMockResponses(updated(1))

		require.NoError(mt, repo.RemoveItem(ctx, "user-1", "42"))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "42", evt.Command.Lookup("updates", "0", "u", "$pull", "items", "id").StringValue())
		// a matched update needs no follow-up count
		assert.Nil(mt, mt.GetStartedEvent())
	})

	mt.Run("clear expiration unsets the field", func(mt *mtest.T) {
		repo := NewPantryRepository(mt.DB)
		mt.AddMockResponses(updated(1))

		require.NoError(mt, repo.SetExpiration(ctx, "user-1", "42", nil))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		_, err := evt.Command.LookupErr("updates", "0", "u", "$unset", "items.$.expirationDate")
		assert.NoError(mt, err)
	})

	mt.Run("set expiration on unknown item", func(mt *mtest.T) {
		repo := NewPantryRepository(mt.DB)
		mt.AddMockResponses(updated(0), counted(db.PantriesCollection, 1))

		exp := time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC)
		err := repo.SetExpiration(ctx, "user-1", "42", &exp)
		assert.ErrorIs(mt, err, apperrors.ErrItemNotFound)
	})
}

func TestCartRepository_Mongo(t *testing.T) {
	mt := newMockMongo(t)
	ctx := context.Background()

	mt.Run("remove item without cart", func(mt *mtest.T) {
		repo := NewCartRepository(mt.DB)
		mt.AddMockResponses(updated(0), counted(db.CartsCollection, 0))

		err := repo.RemoveItem(ctx, "user-1", "7")
		assert.ErrorIs(mt, err, apperrors.ErrCartNotFound)
	})

	mt.Run("remove unknown item", func(mt *mtest.T) {
		repo := NewCartRepository(mt.DB)
		mt.AddMockResponses(updated(0), counted(db.CartsCollection, 1))

		err := repo.RemoveItem(ctx, "user-1", "7")
		assert.ErrorIs(mt, err, apperrors.ErrItemNotFound)
	})

	mt.Run("remove item", func(mt *mtest.T) {
		repo := NewCartRepository(mt.DB)
		mt.AddMockResponses(updated(1))

		assert.NoError(mt, repo.RemoveItem(ctx, "user-1", "7"))
	})

	mt.Run("add item upserts the cart", func(mt *mtest.T) {
		repo := NewCartRepository(mt.DB)
		mt.AddMockResponses(updated(1))

		require.NoError(mt, repo.AddItem(ctx, "user-1", model.CartItem{ID: "7", Name: "milk", Quantity: 2}))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.True(mt, evt.Command.Lookup("updates", "0", "upsert").Boolean())
		assert.Equal(mt, "milk", evt.Command.Lookup("updates", "0", "u", "$push", "items", "name").StringValue())
	})
}

func TestPreferencesRepository_Mongo(t *testing.T) {
	mt := newMockMongo(t)
	ctx := context.Background()

	mt.Run("set list replaces the field with an upsert", func(mt *mtest.T) {
		repo := NewPreferencesRepository(mt.DB)
		mt.AddMockResponses(updated(1))

		submitted := []string{"Italian", "italian", " Greek"}
		require.NoError(mt, repo.SetList(ctx, "user-1", model.FieldCuisineLike, submitted))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		assert.Equal(mt, "update", evt.CommandName)
		assert.Equal(mt, "user-1", evt.Command.Lookup("updates", "0", "q", "userId").StringValue())
		assert.True(mt, evt.Command.Lookup("updates", "0", "upsert").Boolean())

		var stored []string
		require.NoError(mt, evt.Command.Lookup("updates", "0", "u", "$set", "cuisineLike").Unmarshal(&stored))
		assert.Equal(mt, submitted, stored)

		_, err := evt.Command.LookupErr("updates", "0", "u", "$setOnInsert", "createdAt")
		assert.NoError(mt, err)
	})

	mt.Run("set list with nil stores an empty array", func(mt *mtest.T) {
		repo := NewPreferencesRepository(mt.DB)
		mt.AddMockResponses(updated(1))

		require.NoError(mt, repo.SetList(ctx, "user-1", model.FieldIntolerances, nil))

		evt := mt.GetStartedEvent()
		require.NotNil(mt, evt)
		values, err := evt.Command.Lookup("updates", "0", "u", "$set", string(model.FieldIntolerances)).Array().Values()
		require.NoError(mt, err)
		assert.Empty(mt, values)
	})
}
