package storage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/magabrotheeeer/cards-api/internal/migrations"
	"github.com/magabrotheeeer/cards-api/internal/models"
)

// setupTestDatabase поднимает PostgreSQL в контейнере и применяет миграции.
func setupTestDatabase(t *testing.T) *Storage {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping postgres integration test in short mode")
	}
	ctx := context.Background()

	pgContainer, err := postgres.Run(ctx,
		"postgres:15-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	require.NoError(t, err, "failed to start container")

	dsn, err := pgContainer.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)

	storage, err := New(ctx, dsn)
	require.NoError(t, err)
	require.NoError(t, migrations.Run(storage.DB))

	t.Cleanup(func() {
		_ = storage.Close()
		if err := pgContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %s", err)
		}
	})
	return storage
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

// testDataFactory создаёт тестовые записи через само хранилище.
type testDataFactory struct {
	t       *testing.T
	storage *Storage
}

func (f testDataFactory) subscription(name string) int64 {
	f.t.Helper()
	id, err := f.storage.CreateSubscription(context.Background(), models.Subscription{
		Name:   name,
		Slogan: name + " slogan",
	})
	require.NoError(f.t, err)
	return id
}

func (f testDataFactory) user(email, apiKey string, subscriptionID int64) int64 {
	f.t.Helper()
	id, err := f.storage.CreateUser(context.Background(), models.User{
		Firstname:      strPtr("Ada"),
		Email:          email,
		APIKey:         apiKey,
		CreatedAt:      time.Now().UTC().Truncate(time.Microsecond),
		Roles:          models.DefaultRoles(),
		SubscriptionID: subscriptionID,
	})
	require.NoError(f.t, err)
	return id
}

func (f testDataFactory) card(number string, userID int64) int64 {
	f.t.Helper()
	id, err := f.storage.CreateCard(context.Background(), models.Card{
		Name:             "main",
		CreditCardType:   "visa",
		CreditCardNumber: number,
		CurrencyCode:     "EUR",
		Value:            int64Ptr(100),
		UserID:           userID,
	})
	require.NoError(f.t, err)
	return id
}
