package repository_test

import (
	"context"
	"testing"

	"github.com/kendall-kelly/car-rent-api/models"
	"github.com/kendall-kelly/car-rent-api/repository"
	"github.com/kendall-kelly/car-rent-api/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCatalog(t *testing.T) (*repository.CatalogStore, *models.User, *models.CarModel) {
	t.Helper()

	db := testutil.NewTestDB(t)
	store := repository.NewCatalogStore(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "auth0|owner", models.RolePerson)

	brand := &models.Brand{Title: "Toyota"}
	require.NoError(t, store.CreateBrand(ctx, brand))

	model := &models.CarModel{
		Title:           "Camry",
		Drive:           models.DriveFWD,
		Gearbox:         models.GearboxAutomatic,
		BodyType:        models.BodySedan,
		FuelType:        models.FuelAI95,
		FuelConsumption: 8.1,
		HP:              181,
		BrandID:         brand.ID,
	}
	require.NoError(t, store.CreateCarModel(ctx, model))

	return store, owner, model
}

func TestCatalogStore_GetCar(t *testing.T) {
	store, owner, model := newCatalog(t)
	ctx := context.Background()

	car := &models.Car{
		CarModelID: model.ID,
		Color:      "black",
		Price:      5000,
		OwnerID:    owner.ID,
		Status:     models.CarStatusVerified,
		Photos:     []models.CarPhoto{{S3Key: "cars/1/front.png"}, {S3Key: "cars/1/back.png"}},
		Options:    []models.CarOption{{Option: "child seat"}},
	}
	require.NoError(t, store.CreateCar(ctx, car))

	got, err := store.GetCar(ctx, car.ID)
	require.NoError(t, err)
	assert.Equal(t, owner.ID, got.OwnerID)
	assert.True(t, got.IsOrderable())
	assert.Nil(t, got.CarModel, "GetCar does not load relations")

	details, err := store.GetCarDetails(ctx, car.ID)
	require.NoError(t, err)
	require.NotNil(t, details.CarModel)
	require.NotNil(t, details.CarModel.Brand)
	assert.Equal(t, "Toyota", details.CarModel.Brand.Title)
	require.Len(t, details.Photos, 2)
	assert.Equal(t, "cars/1/front.png", details.Photos[0].S3Key)
	require.Len(t, details.Options, 1)
	assert.Equal(t, "child seat", details.Options[0].Option)

	_, err = store.GetCar(ctx, 4242)
	assert.ErrorIs(t, err, repository.ErrCarNotFound)
	_, err = store.GetCarDetails(ctx, 4242)
	assert.ErrorIs(t, err, repository.ErrCarNotFound)
}

func TestCatalogStore_DeleteReferencedRecords(t *testing.T) {
	store, owner, model := newCatalog(t)
	ctx := context.Background()

	car := &models.Car{CarModelID: model.ID, Color: "red", Price: 2000, OwnerID: owner.ID, Status: models.CarStatusVerified}
	require.NoError(t, store.CreateCar(ctx, car))

	// The brand is used by the model, the model by the car
	assert.ErrorIs(t, store.DeleteBrand(ctx, model.BrandID), repository.ErrRecordReferenced)
	assert.ErrorIs(t, store.DeleteCarModel(ctx, model.ID), repository.ErrRecordReferenced)
}

func TestCatalogStore_DeleteUnreferencedRecords(t *testing.T) {
	store, _, model := newCatalog(t)
	ctx := context.Background()

	require.NoError(t, store.DeleteCarModel(ctx, model.ID))
	require.NoError(t, store.DeleteBrand(ctx, model.BrandID))

	assert.ErrorIs(t, store.DeleteBrand(ctx, model.BrandID), repository.ErrRecordNotFound)
	assert.ErrorIs(t, store.DeleteCarModel(ctx, model.ID), repository.ErrRecordNotFound)
}
