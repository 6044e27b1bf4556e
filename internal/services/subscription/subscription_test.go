package subscription

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/cards-api/internal/models"
	"github.com/magabrotheeeer/cards-api/internal/patch"
	"github.com/magabrotheeeer/cards-api/internal/validation"
)

type RepoMock struct{ mock.Mock }

func (m *RepoMock) GetSubscription(ctx context.Context, id int64) (*models.Subscription, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Subscription), args.Error(1)
}

func (m *RepoMock) ListSubscriptions(ctx context.Context) ([]models.Subscription, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.Subscription), args.Error(1)
}

func (m *RepoMock) ListSubscriptionIDs(ctx context.Context) ([]int64, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]int64), args.Error(1)
}

func (m *RepoMock) CreateSubscription(ctx context.Context, sub models.Subscription) (int64, error) {
	args := m.Called(ctx, sub)
	return args.Get(0).(int64), args.Error(1)
}

func (m *RepoMock) UpdateSubscription(ctx context.Context, sub models.Subscription) error {
	return m.Called(ctx, sub).Error(0)
}

func (m *RepoMock) DeleteSubscription(ctx context.Context, id int64) error {
	return m.Called(ctx, id).Error(0)
}

func (m *RepoMock) CountSubscriptionUsers(ctx context.Context, id int64) (int, error) {
	args := m.Called(ctx, id)
	return args.Int(0), args.Error(1)
}

func (m *RepoMock) ListUsersBySubscription(ctx context.Context, id int64) ([]models.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]models.User), args.Error(1)
}

type CacheMock struct{ mock.Mock }

func (m *CacheMock) Get(ctx context.Context, key string, result any) (bool, error) {
	args := m.Called(ctx, key, result)
	return args.Bool(0), args.Error(1)
}

func (m *CacheMock) Set(ctx context.Context, key string, value any, expiration time.Duration) error {
	return m.Called(ctx, key, value, expiration).Error(0)
}

func (m *CacheMock) Invalidate(ctx context.Context, keys ...string) error {
	return m.Called(ctx, keys).Error(0)
}

func newNoopLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))
}

func input(t *testing.T, body string) patch.Input {
	t.Helper()
	var in patch.Input
	require.NoError(t, json.Unmarshal([]byte(body), &in))
	return in
}

func gold() *models.Subscription {
	url := "https://gold.example.com"
	return &models.Subscription{ID: 1, Name: "Gold", Slogan: "Shine on", URL: &url}
}

func TestService_Get(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		wantErr    error
	}{
		{
			name: "cache hit",
			setupMocks: func(_ *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, "subscription:1", mock.Anything).
					Run(func(args mock.Arguments) {
						*args.Get(2).(*models.Subscription) = *gold()
					}).Return(true, nil).Once()
			},
		},
		{
			name: "cache miss loads and stores",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, "subscription:1", mock.Anything).Return(false, nil).Once()
				r.On("GetSubscription", mock.Anything, int64(1)).Return(gold(), nil).Once()
				c.On("Set", mock.Anything, "subscription:1", mock.Anything, time.Minute).Return(nil).Once()
			},
		},
		{
			name: "cache failure falls back to repository",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, "subscription:1", mock.Anything).Return(false, errors.New("redis down")).Once()
				r.On("GetSubscription", mock.Anything, int64(1)).Return(gold(), nil).Once()
				c.On("Set", mock.Anything, "subscription:1", mock.Anything, time.Minute).Return(errors.New("redis down")).Once()
			},
		},
		{
			name: "not found",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				c.On("Get", mock.Anything, "subscription:1", mock.Anything).Return(false, nil).Once()
				r.On("GetSubscription", mock.Anything, int64(1)).Return(nil, models.ErrNotFound).Once()
			},
			wantErr: models.ErrNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, c := new(RepoMock), new(CacheMock)
			tt.setupMocks(r, c)

			sub, err := New(r, c, time.Minute, newNoopLogger()).Get(context.Background(), 1)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, gold(), sub)
			r.AssertExpectations(t)
			c.AssertExpectations(t)
		})
	}
}

func TestService_Create(t *testing.T) {
	t.Run("url omitted", func(t *testing.T) {
		r, c := new(RepoMock), new(CacheMock)
		r.On("CreateSubscription", mock.Anything, models.Subscription{Name: "Gold", Slogan: "Shine on"}).
			Return(int64(4), nil).Once()

		sub, err := New(r, c, time.Minute, newNoopLogger()).Create(context.Background(),
			input(t, `{"name":"Gold","slogan":"Shine on"}`))
		require.NoError(t, err)
		assert.Equal(t, int64(4), sub.ID)
		assert.Nil(t, sub.URL)
	})

	t.Run("blank fields", func(t *testing.T) {
		r, c := new(RepoMock), new(CacheMock)

		_, err := New(r, c, time.Minute, newNoopLogger()).Create(context.Background(),
			input(t, `{"name":"","url":"`+longURL()+`"}`))
		var verr *validation.Error
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, []validation.Violation{
			{Property: "name", Message: "This value should not be blank."},
			{Property: "slogan", Message: "This value should not be blank."},
			{Property: "url", Message: "This value is too long. It should have 255 characters or less."},
		}, verr.Violations)
		r.AssertNotCalled(t, "CreateSubscription", mock.Anything, mock.Anything)
	})
}

func longURL() string {
	b := make([]byte, 256)
	for i := range b {
		b[i] = 'u'
	}
	return string(b)
}

func TestService_Update(t *testing.T) {
	r, c := new(RepoMock), new(CacheMock)
	r.On("GetSubscription", mock.Anything, int64(1)).Return(gold(), nil).Once()
	r.On("UpdateSubscription", mock.Anything, mock.MatchedBy(func(s models.Subscription) bool {
		return s.Name == "Platinum" && s.Slogan == "Shine on" && s.URL != nil
	})).Return(nil).Once()
	c.On("Invalidate", mock.Anything, []string{"subscription:1"}).Return(nil).Once()
	r.On("ListUsersBySubscription", mock.Anything, int64(1)).Return([]models.User{{ID: 2}}, nil).Once()

	res, err := New(r, c, time.Minute, newNoopLogger()).Update(context.Background(), 1, input(t, `{"name":"Platinum"}`))
	require.NoError(t, err)
	assert.Equal(t, "Platinum", res.Subscription.Name)
	assert.Len(t, res.Users, 1)
	r.AssertExpectations(t)
	c.AssertExpectations(t)
}

func TestService_Delete(t *testing.T) {
	tests := []struct {
		name       string
		setupMocks func(r *RepoMock, c *CacheMock)
		wantErr    error
	}{
		{
			name: "has users",
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("GetSubscription", mock.Anything, int64(1)).Return(gold(), nil).Once()
				r.On("CountSubscriptionUsers", mock.Anything, int64(1)).Return(2, nil).Once()
			},
			wantErr: models.ErrHasUsers,
		},
		{
			name: "no users",
			setupMocks: func(r *RepoMock, c *CacheMock) {
				r.On("GetSubscription", mock.Anything, int64(1)).Return(gold(), nil).Once()
				r.On("CountSubscriptionUsers", mock.Anything, int64(1)).Return(0, nil).Once()
				r.On("DeleteSubscription", mock.Anything, int64(1)).Return(nil).Once()
				c.On("Invalidate", mock.Anything, []string{"subscription:1"}).Return(nil).Once()
			},
		},
		{
			name: "not found",
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("GetSubscription", mock.Anything, int64(1)).Return(nil, models.ErrNotFound).Once()
			},
			wantErr: models.ErrNotFound,
		},
		{
			name: "user added concurrently",
			setupMocks: func(r *RepoMock, _ *CacheMock) {
				r.On("GetSubscription", mock.Anything, int64(1)).Return(gold(), nil).Once()
				r.On("CountSubscriptionUsers", mock.Anything, int64(1)).Return(0, nil).Once()
				r.On("DeleteSubscription", mock.Anything, int64(1)).Return(models.ErrHasUsers).Once()
			},
			wantErr: models.ErrHasUsers,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, c := new(RepoMock), new(CacheMock)
			tt.setupMocks(r, c)

			err := New(r, c, time.Minute, newNoopLogger()).Delete(context.Background(), 1)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				c.AssertNotCalled(t, "Invalidate", mock.Anything, mock.Anything)
				return
			}
			require.NoError(t, err)
			r.AssertExpectations(t)
			c.AssertExpectations(t)
		})
	}
}

func TestService_GetWithUsersAndIDs(t *testing.T) {
	r, c := new(RepoMock), new(CacheMock)
	r.On("GetSubscription", mock.Anything, int64(1)).Return(gold(), nil).Once()
	r.On("ListUsersBySubscription", mock.Anything, int64(1)).Return([]models.User{}, nil).Once()
	r.On("ListSubscriptionIDs", mock.Anything).Return([]int64{1, 3}, nil).Once()
	svc := New(r, c, time.Minute, newNoopLogger())

	res, err := svc.GetWithUsers(context.Background(), 1)
	require.NoError(t, err)
	assert.Equal(t, "Gold", res.Subscription.Name)
	assert.Empty(t, res.Users)

	ids, err := svc.IDs(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []int64{1, 3}, ids)
}
