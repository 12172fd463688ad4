package jobs

import (
	"context"
	"testing"
	"time"

	"carrent-backend/internal/config"
	"carrent-backend/internal/domain"
	"carrent-backend/internal/repository/memory"
	"carrent-backend/internal/service"
	"carrent-backend/internal/utils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReconcileAvailability_FixesStaleFlags(t *testing.T) {
	ctx := context.Background()
	store := memory.NewStore()
	booking := service.NewBookingService(store, &store.Repos, domain.DefaultTransitionPolicy())

	newCar := func(available bool) int32 {
		car := &domain.Car{Make: "Skoda", Model: "Octavia", VehicleClass: "Midsize", Transmission: "Manual",
			Year: 2021, DailyRateCents: 8000, Available: available, Catalog: domain.CatalogRegular}
		require.NoError(t, store.Cars.Create(ctx, car))
		return car.ID
	}
	u := &domain.User{Username: "maria", PasswordHash: "x", Roles: []domain.Role{domain.RoleClient}}
	require.NoError(t, store.Users.Create(ctx, u))
	c := &domain.Customer{UserID: u.ID, FullName: "Maria"}
	require.NoError(t, store.Customers.Create(ctx, c))

	booked := newCar(true)
	_, err := booking.Book(ctx, booked, c.ID, day(t, "2099-06-01"), day(t, "2099-06-03"))
	require.NoError(t, err)
	// Drift the flags by hand.
	require.NoError(t, store.Cars.SetAvailability(ctx, booked, true))
	idle := newCar(false)
	fine := newCar(true)

	runner := NewJobRunner(store.Cars, booking, &config.Config{})
	res := runner.reconcile(ctx)
	assert.Equal(t, ReconcileResult{Checked: 3, Changed: 2}, res)

	for id, want := range map[int32]bool{booked: false, idle: true, fine: true} {
		car, err := store.Cars.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, want, car.Available, "car %d", id)
	}

	// A second pass has nothing to fix.
	assert.Equal(t, ReconcileResult{Checked: 3}, runner.reconcile(ctx))

	assert.NotPanics(t, runner.RunAllNightlyJobs)
}

func day(t *testing.T, s string) time.Time {
	t.Helper()
	parsed, err := utils.ParseDate(s)
	require.NoError(t, err)
	return parsed
}
