// Package card реализует операции над платёжными картами для администратора
// и для владельца карты.
//
// Операции владельца никогда не раскрывают чужие карты: чужая карта
// неотличима от несуществующей и возвращается как models.ErrNotFound.
package card

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/cards-api/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/cards-api/internal/lib/sl"
	"github.com/magabrotheeeer/cards-api/internal/models"
	"github.com/magabrotheeeer/cards-api/internal/patch"
	"github.com/magabrotheeeer/cards-api/internal/storage"
	"github.com/magabrotheeeer/cards-api/internal/validation"
)

// MsgNumberUsed сообщение о занятом номере карты.
const MsgNumberUsed = "This credit card number is already used"

// Repository описывает методы хранилища, нужные сервису.
type Repository interface {
	GetCard(ctx context.Context, id int64) (*models.Card, error)
	GetCardByNumber(ctx context.Context, number string) (*models.Card, error)
	ListCards(ctx context.Context) ([]models.Card, error)
	ListCardsByUser(ctx context.Context, userID int64) ([]models.Card, error)
	CreateCard(ctx context.Context, c models.Card) (int64, error)
	UpdateCard(ctx context.Context, c models.Card) error
	DeleteCard(ctx context.Context, id int64) error
	UserExists(ctx context.Context, id int64) (bool, error)
}

// Publisher публикует доменные события.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event rabbitmq.Event) error
}

// Service бизнес-логика карт.
type Service struct {
	repo     Repository
	events   Publisher
	validate *validation.Engine
	log      *slog.Logger
	now      func() time.Time
}

// New создаёт Service.
func New(repo Repository, events Publisher, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		events:   events,
		validate: validation.New(),
		log:      log,
		now:      time.Now,
	}
}

func (s *Service) fields(withUser bool) []patch.Field[models.Card] {
	fields := []patch.Field[models.Card]{
		patch.String("name", func(c *models.Card, v string) { c.Name = v }),
		patch.String("creditCardType", func(c *models.Card, v string) { c.CreditCardType = v }),
		patch.String("creditCardNumber", func(c *models.Card, v string) { c.CreditCardNumber = v }),
		patch.String("currencyCode", func(c *models.Card, v string) { c.CurrencyCode = v }),
		patch.Int("value", func(c *models.Card, v int64) { c.Value = &v }),
	}
	if withUser {
		fields = append(fields, patch.Reference("userId", s.repo.UserExists,
			func(c *models.Card, v int64) { c.UserID = v }))
	}
	return fields
}

// List возвращает все карты.
func (s *Service) List(ctx context.Context) ([]models.Card, error) {
	const op = "card.List"
	cards, err := s.repo.ListCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cards, nil
}

// Get возвращает карту по id.
func (s *Service) Get(ctx context.Context, id int64) (*models.Card, error) {
	const op = "card.Get"
	c, err := s.repo.GetCard(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// Create создаёт карту для любого пользователя (userId из тела запроса).
func (s *Service) Create(ctx context.Context, in patch.Input) (*models.Card, error) {
	const op = "card.Create"
	c, err := s.create(ctx, models.Card{}, in, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// Update частично обновляет карту.
func (s *Service) Update(ctx context.Context, id int64, in patch.Input) (*models.Card, error) {
	const op = "card.Update"
	stored, err := s.repo.GetCard(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c, err := s.update(ctx, *stored, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// Delete удаляет карту.
func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "card.Delete"
	stored, err := s.repo.GetCard(ctx, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.delete(ctx, *stored); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

// ListOwned возвращает карты вызывающего.
func (s *Service) ListOwned(ctx context.Context, p models.Principal) ([]models.Card, error) {
	const op = "card.ListOwned"
	cards, err := s.repo.ListCardsByUser(ctx, p.UserID)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return cards, nil
}

// GetOwned возвращает карту вызывающего. Чужая карта возвращается как models.ErrNotFound.
func (s *Service) GetOwned(ctx context.Context, p models.Principal, id int64) (*models.Card, error) {
	const op = "card.GetOwned"
	c, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// CreateOwned создаёт карту, принадлежащую вызывающему.
func (s *Service) CreateOwned(ctx context.Context, p models.Principal, in patch.Input) (*models.Card, error) {
	const op = "card.CreateOwned"
	c, err := s.create(ctx, models.Card{UserID: p.UserID}, in, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// UpdateOwned частично обновляет карту вызывающего.
func (s *Service) UpdateOwned(ctx context.Context, p models.Principal, id int64, in patch.Input) (*models.Card, error) {
	const op = "card.UpdateOwned"
	stored, err := s.owned(ctx, p, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	c, err := s.update(ctx, *stored, in)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return c, nil
}

// DeleteOwned удаляет карту вызывающего.
func (s *Service) DeleteOwned(ctx context.Context, p models.Principal, id int64) error {
	const op = "card.DeleteOwned"
	stored, err := s.owned(ctx, p, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err := s.delete(ctx, *stored); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}

func (s *Service) owned(ctx context.Context, p models.Principal, id int64) (*models.Card, error) {
	c, err := s.repo.GetCard(ctx, id)
	if err != nil {
		return nil, err
	}
	if !p.Owns(*c) {
		return nil, models.ErrNotFound
	}
	return c, nil
}

func (s *Service) create(ctx context.Context, candidate models.Card, in patch.Input, withUser bool) (*models.Card, error) {
	applied, err := patch.Apply(ctx, &candidate, in, s.fields(withUser))
	if err != nil {
		return nil, err
	}
	if err := s.check(ctx, candidate, applied); err != nil {
		return nil, err
	}

	id, err := s.repo.CreateCard(ctx, candidate)
	if err != nil {
		return nil, recast(err)
	}
	candidate.ID = id
	s.log.Info("card created", slog.Int64("id", id), slog.Int64("user_id", candidate.UserID))
	s.publish(ctx, rabbitmq.KeyCardCreated, candidate)
	return &candidate, nil
}

func (s *Service) update(ctx context.Context, candidate models.Card, in patch.Input) (*models.Card, error) {
	applied, err := patch.Apply(ctx, &candidate, in, s.fields(false))
	if err != nil {
		return nil, err
	}
	if err := s.check(ctx, candidate, applied); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateCard(ctx, candidate); err != nil {
		return nil, recast(err)
	}
	s.log.Info("card updated", slog.Int64("id", candidate.ID))
	return &candidate, nil
}

func (s *Service) delete(ctx context.Context, c models.Card) error {
	if err := s.repo.DeleteCard(ctx, c.ID); err != nil {
		return err
	}
	s.log.Info("card deleted", slog.Int64("id", c.ID))
	s.publish(ctx, rabbitmq.KeyCardDeleted, c)
	return nil
}

func (s *Service) check(ctx context.Context, candidate models.Card, applied []validation.Violation) error {
	violations := s.validate.Validate(candidate)

	var conflicts []validation.Violation
	if candidate.CreditCardNumber != "" {
		other, err := s.repo.GetCardByNumber(ctx, candidate.CreditCardNumber)
		switch {
		case err == nil && other.ID != candidate.ID:
			conflicts = append(conflicts, validation.Conflict("creditCardNumber", MsgNumberUsed))
		case err != nil && !errors.Is(err, models.ErrNotFound):
			return err
		}
	}
	return validation.Collect(applied, violations, conflicts)
}

func recast(err error) error {
	var ue *storage.UniqueError
	if errors.As(err, &ue) && ue.Field == "creditCardNumber" {
		return validation.Collect([]validation.Violation{validation.Conflict("creditCardNumber", MsgNumberUsed)})
	}
	return err
}

func (s *Service) publish(ctx context.Context, key string, c models.Card) {
	err := s.events.Publish(ctx, key, rabbitmq.Event{
		Type:       key,
		UserID:     c.UserID,
		CardID:     c.ID,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		s.log.Warn("failed to publish event", slog.String("key", key), sl.Err(err))
	}
}
