package repository_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/kendall-kelly/car-rent-api/models"
	"github.com/kendall-kelly/car-rent-api/repository"
	"github.com/kendall-kelly/car-rent-api/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOrderRepository_CreateDuplicate(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewOrderRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "auth0|owner", models.RolePerson)
	renter := testutil.CreateUser(t, db, "auth0|renter", models.RolePerson)
	car := testutil.CreateCar(t, db, owner.ID, models.CarStatusVerified)

	start, finish := testutil.Window(10)
	first := &models.Order{CarID: car.ID, RenterID: renter.ID, DesiredStart: start, DesiredFinish: finish, Status: models.OrderStatusUnderConsideration}
	require.NoError(t, repo.Create(ctx, first))
	assert.NotZero(t, first.ID)

	start, finish = testutil.Window(12)
	second := &models.Order{CarID: car.ID, RenterID: renter.ID, DesiredStart: start, DesiredFinish: finish, Status: models.OrderStatusUnderConsideration}
	err := repo.Create(ctx, second)
	assert.ErrorIs(t, err, repository.ErrDuplicateOrder)

	// A different renter may still order the same car
	other := testutil.CreateUser(t, db, "auth0|other", models.RolePerson)
	third := &models.Order{CarID: car.ID, RenterID: other.ID, DesiredStart: start, DesiredFinish: finish, Status: models.OrderStatusUnderConsideration}
	assert.NoError(t, repo.Create(ctx, third))
}

func TestOrderRepository_GetByID(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewOrderRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "auth0|owner", models.RolePerson)
	renter := testutil.CreateUser(t, db, "auth0|renter", models.RolePerson)
	car := testutil.CreateCar(t, db, owner.ID, models.CarStatusVerified)
	order := testutil.CreateOrder(t, db, renter.ID, car.ID, models.OrderStatusAccepted)

	got, err := repo.GetByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, models.OrderStatusAccepted, got.Status)

	err = repo.WithTx(ctx, func(ctx context.Context) error {
		locked, err := repo.GetByIDForUpdate(ctx, order.ID)
		if err != nil {
			return err
		}
		assert.Equal(t, order.ID, locked.ID)
		return nil
	})
	assert.NoError(t, err)

	_, err = repo.GetByID(ctx, 9999)
	assert.ErrorIs(t, err, repository.ErrOrderNotFound)
}

func TestOrderRepository_UpdateCompareAndSwap(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewOrderRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "auth0|owner", models.RolePerson)
	renter := testutil.CreateUser(t, db, "auth0|renter", models.RolePerson)
	car := testutil.CreateCar(t, db, owner.ID, models.CarStatusVerified)
	order := testutil.CreateOrder(t, db, renter.ID, car.ID, models.OrderStatusAccepted)

	now := time.Date(2030, time.June, 1, 9, 0, 0, 0, time.UTC)
	order.Status = models.OrderStatusInProgress
	order.IsRenterConfirmedStart = true
	order.IsLessorConfirmedStart = true
	order.StartRentTime = &now
	require.NoError(t, repo.Update(ctx, order, models.OrderStatusAccepted))

	stored := testutil.ReloadOrder(t, db, order.ID)
	assert.Equal(t, models.OrderStatusInProgress, stored.Status)
	assert.True(t, stored.IsRenterConfirmedStart)
	assert.True(t, stored.IsLessorConfirmedStart)
	require.NotNil(t, stored.StartRentTime)
	assert.True(t, now.Equal(*stored.StartRentTime))

	// The stored status is no longer ACCEPTED, so a stale writer loses
	order.Status = models.OrderStatusCanceled
	err := repo.Update(ctx, order, models.OrderStatusAccepted)
	assert.ErrorIs(t, err, repository.ErrOrderChanged)
	assert.Equal(t, models.OrderStatusInProgress, testutil.ReloadOrder(t, db, order.ID).Status)
}

func TestOrderRepository_WithTxRollsBack(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewOrderRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "auth0|owner", models.RolePerson)
	renter := testutil.CreateUser(t, db, "auth0|renter", models.RolePerson)
	car := testutil.CreateCar(t, db, owner.ID, models.CarStatusVerified)
	order := testutil.CreateOrder(t, db, renter.ID, car.ID, models.OrderStatusUnderConsideration)

	boom := errors.New("boom")
	err := repo.WithTx(ctx, func(ctx context.Context) error {
		order.Status = models.OrderStatusAccepted
		if err := repo.Update(ctx, order, models.OrderStatusUnderConsideration); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)
	assert.Equal(t, models.OrderStatusUnderConsideration, testutil.ReloadOrder(t, db, order.ID).Status)
}

func TestOrderRepository_Lists(t *testing.T) {
	db := testutil.NewTestDB(t)
	repo := repository.NewOrderRepository(db)
	ctx := context.Background()

	owner := testutil.CreateUser(t, db, "auth0|owner", models.RolePerson)
	otherOwner := testutil.CreateUser(t, db, "auth0|other-owner", models.RolePerson)
	renterA := testutil.CreateUser(t, db, "auth0|renter-a", models.RolePerson)
	renterB := testutil.CreateUser(t, db, "auth0|renter-b", models.RolePerson)

	carOne := testutil.CreateCar(t, db, owner.ID, models.CarStatusVerified)
	carTwo := testutil.CreateCar(t, db, owner.ID, models.CarStatusVerified)
	foreignCar := testutil.CreateCar(t, db, otherOwner.ID, models.CarStatusVerified)

	o1 := testutil.CreateOrder(t, db, renterA.ID, carOne.ID, models.OrderStatusUnderConsideration)
	o2 := testutil.CreateOrder(t, db, renterB.ID, carOne.ID, models.OrderStatusAccepted)
	o3 := testutil.CreateOrder(t, db, renterA.ID, carTwo.ID, models.OrderStatusRejected)
	o4 := testutil.CreateOrder(t, db, renterA.ID, foreignCar.ID, models.OrderStatusUnderConsideration)

	ids := func(orders []models.Order) []uint {
		out := make([]uint, 0, len(orders))
		for _, o := range orders {
			out = append(out, o.ID)
		}
		return out
	}

	byOwner, err := repo.ListByOwner(ctx, owner.ID, nil)
	require.NoError(t, err)
	assert.Equal(t, []uint{o1.ID, o2.ID, o3.ID}, ids(byOwner))

	byCar, err := repo.ListByOwner(ctx, owner.ID, &carOne.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{o1.ID, o2.ID}, ids(byCar))

	// Filtering by someone else's car yields nothing
	none, err := repo.ListByOwner(ctx, owner.ID, &foreignCar.ID)
	require.NoError(t, err)
	assert.Empty(t, none)

	byRenter, err := repo.ListByRenter(ctx, renterA.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{o1.ID, o3.ID, o4.ID}, ids(byRenter))
}
