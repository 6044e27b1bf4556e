// Package subscription реализует операции над тарифными подписками с кешированием чтения.
package subscription

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/cards-api/internal/lib/sl"
	"github.com/magabrotheeeer/cards-api/internal/models"
	"github.com/magabrotheeeer/cards-api/internal/patch"
	"github.com/magabrotheeeer/cards-api/internal/validation"
)

// Repository определяет методы для работы с подписками в хранилище.
type Repository interface {
	GetSubscription(ctx context.Context, id int64) (*models.Subscription, error)
	ListSubscriptions(ctx context.Context) ([]models.Subscription, error)
	ListSubscriptionIDs(ctx context.Context) ([]int64, error)
	CreateSubscription(ctx context.Context, sub models.Subscription) (int64, error)
	UpdateSubscription(ctx context.Context, sub models.Subscription) error
	DeleteSubscription(ctx context.Context, id int64) error
	CountSubscriptionUsers(ctx context.Context, id int64) (int, error)
	ListUsersBySubscription(ctx context.Context, id int64) ([]models.User, error)
}

// Cache описывает методы для кэширования данных.
type Cache interface {
	Get(ctx context.Context, key string, result any) (bool, error)
	Set(ctx context.Context, key string, value any, expiration time.Duration) error
	Invalidate(ctx context.Context, keys ...string) error
}

// Service реализует бизнес-логику работы с подписками, включая кеширование.
type Service struct {
	repo     Repository
	cache    Cache
	ttl      time.Duration
	validate *validation.Engine
	log      *slog.Logger
}

// New создает новый экземпляр Service. ttl задаёт время жизни записи в кеше.
func New(repo Repository, cache Cache, ttl time.Duration, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		cache:    cache,
		ttl:      ttl,
		validate: validation.New(),
		log:      log,
	}
}

// WithUsers подписка вместе с пользователями.
type WithUsers struct {
	Subscription models.Subscription
	Users        []models.User
}

var fields = []patch.Field[models.Subscription]{
	patch.String("name", func(s *models.Subscription, v string) { s.Name = v }),
	patch.String("slogan", func(s *models.Subscription, v string) { s.Slogan = v }),
	patch.OptionalString("url", func(s *models.Subscription, v *string) { s.URL = v }),
}

func cacheKey(id int64) string {
	return fmt.Sprintf("subscription:%d", id)
}

// List возвращает все подписки.
func (s *Service) List(ctx context.Context) ([]models.Subscription, error) {
	const op = "subscription.List"
	subs, err := s.repo.ListSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return subs, nil
}

// IDs возвращает id всех подписок.
func (s *Service) IDs(ctx context.Context) ([]int64, error) {
	const op = "subscription.IDs"
	ids, err := s.repo.ListSubscriptionIDs(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return ids, nil
}

// Get возвращает подписку по id, используя кеш или репозиторий.
func (s *Service) Get(ctx context.Context, id int64) (*models.Subscription, error) {
	const op = "subscription.Get"
	key := cacheKey(id)

	var cached models.Subscription
	found, err := s.cache.Get(ctx, key, &cached)
	if err != nil {
		s.log.Warn("failed to read from cache", slog.String("key", key), sl.Err(err))
	}
	if found {
		return &cached, nil
	}

	sub, err := s.repo.GetSubscription(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := s.cache.Set(ctx, key, sub, s.ttl); err != nil {
		s.log.Warn("failed to cache subscription", slog.String("key", key), sl.Err(err))
	}
	return sub, nil
}

// GetWithUsers возвращает подписку вместе с её пользователями.
func (s *Service) GetWithUsers(ctx context.Context, id int64) (*WithUsers, error) {
	const op = "subscription.GetWithUsers"
	sub, err := s.repo.GetSubscription(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	users, err := s.repo.ListUsersBySubscription(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &WithUsers{Subscription: *sub, Users: users}, nil
}

// Create создаёт подписку.
func (s *Service) Create(ctx context.Context, in patch.Input) (*models.Subscription, error) {
	const op = "subscription.Create"

	var candidate models.Subscription
	applied, err := patch.Apply(ctx, &candidate, in, fields)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := validation.Collect(applied, s.validate.Validate(candidate)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	id, err := s.repo.CreateSubscription(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	candidate.ID = id
	s.log.Info("subscription created", slog.Int64("id", id))
	return &candidate, nil
}

// Update частично обновляет подписку и инвалидирует кеш.
func (s *Service) Update(ctx context.Context, id int64, in patch.Input) (*WithUsers, error) {
	const op = "subscription.Update"

	stored, err := s.repo.GetSubscription(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	candidate := *stored
	applied, err := patch.Apply(ctx, &candidate, in, fields)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if err := validation.Collect(applied, s.validate.Validate(candidate)); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.repo.UpdateSubscription(ctx, candidate); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, id)
	s.log.Info("subscription updated", slog.Int64("id", id))

	users, err := s.repo.ListUsersBySubscription(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &WithUsers{Subscription: candidate, Users: users}, nil
}

// Delete удаляет подписку. Подписка с пользователями не удаляется: models.ErrHasUsers.
func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "subscription.Delete"

	if _, err := s.repo.GetSubscription(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	n, err := s.repo.CountSubscriptionUsers(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if n > 0 {
		return fmt.Errorf("%s: %w", op, models.ErrHasUsers)
	}

	if err := s.repo.DeleteSubscription(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.invalidate(ctx, id)
	s.log.Info("subscription deleted", slog.Int64("id", id))
	return nil
}

func (s *Service) invalidate(ctx context.Context, id int64) {
	key := cacheKey(id)
	if err := s.cache.Invalidate(ctx, key); err != nil {
		s.log.Warn("failed to remove from cache", slog.String("key", key), sl.Err(err))
	}
}
