// Package user реализует операции над учётными записями: регистрацию, администрирование,
// профиль владельца и аутентификацию по API-ключу.
//
// Каждая изменяющая операция строит кандидата (копию сохранённой сущности или новую),
// применяет к нему поля запроса, валидирует, проверяет уникальность email и apiKey
// и только после этого сохраняет.
package user

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/magabrotheeeer/cards-api/internal/lib/apikey"
	"github.com/magabrotheeeer/cards-api/internal/lib/rabbitmq"
	"github.com/magabrotheeeer/cards-api/internal/lib/sl"
	"github.com/magabrotheeeer/cards-api/internal/models"
	"github.com/magabrotheeeer/cards-api/internal/patch"
	"github.com/magabrotheeeer/cards-api/internal/storage"
	"github.com/magabrotheeeer/cards-api/internal/validation"
)

// Сообщения о конфликтах уникальности.
const (
	MsgEmailUsed  = "This email is already used"
	MsgAPIKeyUsed = "This apiKey is already used"
)

// Repository описывает методы хранилища, нужные сервису.
type Repository interface {
	GetUser(ctx context.Context, id int64) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByAPIKey(ctx context.Context, apiKey string) (*models.User, error)
	ListUsers(ctx context.Context) ([]models.User, error)
	CreateUser(ctx context.Context, u models.User) (int64, error)
	UpdateUser(ctx context.Context, u models.User) error
	DeleteUser(ctx context.Context, id int64) error
	ListCards(ctx context.Context) ([]models.Card, error)
	ListCardsByUser(ctx context.Context, userID int64) ([]models.Card, error)
	CountCardsByUser(ctx context.Context, userID int64) (int, error)
	GetSubscription(ctx context.Context, id int64) (*models.Subscription, error)
	ListSubscriptions(ctx context.Context) ([]models.Subscription, error)
	SubscriptionExists(ctx context.Context, id int64) (bool, error)
}

// Publisher публикует доменные события.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, event rabbitmq.Event) error
}

// Account пользователь вместе с подпиской и картами.
type Account struct {
	User         models.User
	Subscription *models.Subscription
	Cards        []models.Card
}

// Service бизнес-логика пользователей.
type Service struct {
	repo     Repository
	events   Publisher
	validate *validation.Engine
	log      *slog.Logger
	now      func() time.Time
	newKey   func() (string, error)
}

// New создаёт Service.
func New(repo Repository, events Publisher, log *slog.Logger) *Service {
	return &Service{
		repo:     repo,
		events:   events,
		validate: validation.New(),
		log:      log,
		now:      time.Now,
		newKey:   apikey.New,
	}
}

func (s *Service) fields(withAPIKey bool) []patch.Field[models.User] {
	fields := []patch.Field[models.User]{
		patch.OptionalString("firstname", func(u *models.User, v *string) { u.Firstname = v }),
		patch.OptionalString("lastname", func(u *models.User, v *string) { u.Lastname = v }),
		patch.String("email", func(u *models.User, v string) { u.Email = v }),
	}
	if withAPIKey {
		fields = append(fields, patch.String("apiKey", func(u *models.User, v string) { u.APIKey = v }))
	}
	return append(fields,
		patch.OptionalString("address", func(u *models.User, v *string) { u.Address = v }),
		patch.OptionalString("country", func(u *models.User, v *string) { u.Country = v }),
		patch.Reference("subscriptionId", s.repo.SubscriptionExists,
			func(u *models.User, v int64) { u.SubscriptionID = v }),
	)
}

// List возвращает всех пользователей.
func (s *Service) List(ctx context.Context) ([]models.User, error) {
	const op = "user.List"
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return users, nil
}

// Get возвращает пользователя с подпиской и картами.
func (s *Service) Get(ctx context.Context, id int64) (*Account, error) {
	const op = "user.Get"
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	acc, err := s.account(ctx, *u)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return acc, nil
}

// ListAccounts возвращает всех пользователей с подписками и картами.
// Подписки и карты читаются одним запросом каждые и раскладываются по пользователям.
func (s *Service) ListAccounts(ctx context.Context) ([]Account, error) {
	const op = "user.ListAccounts"
	users, err := s.repo.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	subs, err := s.repo.ListSubscriptions(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	cards, err := s.repo.ListCards(ctx)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	subsByID := make(map[int64]*models.Subscription, len(subs))
	for i := range subs {
		subsByID[subs[i].ID] = &subs[i]
	}
	cardsByUser := make(map[int64][]models.Card, len(users))
	for _, c := range cards {
		cardsByUser[c.UserID] = append(cardsByUser[c.UserID], c)
	}

	res := make([]Account, 0, len(users))
	for _, u := range users {
		userCards := cardsByUser[u.ID]
		if userCards == nil {
			userCards = []models.Card{}
		}
		res = append(res, Account{
			User:         u,
			Subscription: subsByID[u.SubscriptionID],
			Cards:        userCards,
		})
	}
	return res, nil
}

// Profile возвращает учётную запись вызывающего.
func (s *Service) Profile(ctx context.Context, p models.Principal) (*Account, error) {
	return s.Get(ctx, p.UserID)
}

func (s *Service) account(ctx context.Context, u models.User) (*Account, error) {
	acc := &Account{User: u}

	sub, err := s.repo.GetSubscription(ctx, u.SubscriptionID)
	switch {
	case err == nil:
		acc.Subscription = sub
	case errors.Is(err, models.ErrNotFound):
	default:
		return nil, err
	}

	cards, err := s.repo.ListCardsByUser(ctx, u.ID)
	if err != nil {
		return nil, err
	}
	acc.Cards = cards
	return acc, nil
}

// Register создаёт пользователя из тела запроса. apiKey, createdAt и роли выставляет сервер.
func (s *Service) Register(ctx context.Context, in patch.Input) (*Account, error) {
	const op = "user.Register"

	key, err := s.newKey()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	candidate := models.User{
		APIKey:    key,
		CreatedAt: s.now().UTC(),
		Roles:     models.DefaultRoles(),
	}
	applied, err := patch.Apply(ctx, &candidate, in, s.fields(false))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if err := s.create(ctx, &candidate, applied); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user registered", slog.Int64("id", candidate.ID))

	acc, err := s.account(ctx, candidate)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return acc, nil
}

// AdminUpdate частично обновляет пользователя, включая apiKey.
func (s *Service) AdminUpdate(ctx context.Context, id int64, in patch.Input) (*Account, error) {
	const op = "user.AdminUpdate"
	acc, err := s.update(ctx, id, in, true)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return acc, nil
}

// UpdateProfile частично обновляет учётную запись вызывающего. apiKey изменить нельзя.
func (s *Service) UpdateProfile(ctx context.Context, p models.Principal, in patch.Input) (*Account, error) {
	const op = "user.UpdateProfile"
	acc, err := s.update(ctx, p.UserID, in, false)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return acc, nil
}

func (s *Service) update(ctx context.Context, id int64, in patch.Input, withAPIKey bool) (*Account, error) {
	stored, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	candidate := *stored
	applied, err := patch.Apply(ctx, &candidate, in, s.fields(withAPIKey))
	if err != nil {
		return nil, err
	}

	if err := s.check(ctx, candidate, applied); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateUser(ctx, candidate); err != nil {
		return nil, recast(err)
	}
	s.log.Info("user updated", slog.Int64("id", id))
	return s.account(ctx, candidate)
}

// Delete удаляет пользователя вместе с его картами.
func (s *Service) Delete(ctx context.Context, id int64) error {
	const op = "user.Delete"
	if err := s.repo.DeleteUser(ctx, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user deleted", slog.Int64("id", id))
	s.publish(ctx, rabbitmq.KeyUserDeleted, id)
	return nil
}

// Authenticate находит пользователя по API-ключу.
func (s *Service) Authenticate(ctx context.Context, key string) (*models.User, error) {
	const op = "user.Authenticate"
	if key == "" {
		return nil, fmt.Errorf("%s: %w", op, models.ErrNotFound)
	}
	u, err := s.repo.GetUserByAPIKey(ctx, key)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// FindByEmail возвращает пользователя по email.
func (s *Service) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "user.FindByEmail"
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return u, nil
}

// CountCards возвращает количество карт пользователя с данным email.
func (s *Service) CountCards(ctx context.Context, email string) (int, error) {
	const op = "user.CountCards"
	u, err := s.repo.GetUserByEmail(ctx, email)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	n, err := s.repo.CountCardsByUser(ctx, u.ID)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// ProvisionAdmin создаёт администратора из подготовленного кандидата.
func (s *Service) ProvisionAdmin(ctx context.Context, candidate models.User) (*models.User, error) {
	const op = "user.ProvisionAdmin"

	key, err := s.newKey()
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	candidate.ID = 0
	candidate.APIKey = key
	candidate.CreatedAt = s.now().UTC()
	candidate.Roles = models.AdminRoles()

	if err := s.create(ctx, &candidate, nil); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("admin provisioned", slog.Int64("id", candidate.ID))
	return &candidate, nil
}

// Promote добавляет пользователю роль администратора.
func (s *Service) Promote(ctx context.Context, id int64) (*models.User, error) {
	const op = "user.Promote"
	u, err := s.repo.GetUser(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if u.HasRole(models.RoleAdmin) {
		return u, nil
	}
	if !u.HasRole(models.RoleUser) {
		u.Roles = append(u.Roles, models.RoleUser)
	}
	u.Roles = append(u.Roles, models.RoleAdmin)
	if err := s.repo.UpdateUser(ctx, *u); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	s.log.Info("user promoted to admin", slog.Int64("id", id))
	return u, nil
}

func (s *Service) create(ctx context.Context, candidate *models.User, applied []validation.Violation) error {
	if err := s.check(ctx, *candidate, applied); err != nil {
		return err
	}
	id, err := s.repo.CreateUser(ctx, *candidate)
	if err != nil {
		return recast(err)
	}
	candidate.ID = id
	s.publish(ctx, rabbitmq.KeyUserCreated, id)
	return nil
}

// check объединяет ошибки применения, валидации и конфликтов уникальности.
func (s *Service) check(ctx context.Context, candidate models.User, applied []validation.Violation) error {
	violations := s.validate.Validate(candidate)
	conflicts, err := s.conflicts(ctx, candidate)
	if err != nil {
		return err
	}
	return validation.Collect(applied, violations, conflicts)
}

func (s *Service) conflicts(ctx context.Context, candidate models.User) ([]validation.Violation, error) {
	var res []validation.Violation

	if candidate.Email != "" {
		other, err := s.repo.GetUserByEmail(ctx, candidate.Email)
		switch {
		case err == nil && other.ID != candidate.ID:
			res = append(res, validation.Conflict("email", MsgEmailUsed))
		case err != nil && !errors.Is(err, models.ErrNotFound):
			return nil, err
		}
	}
	if candidate.APIKey != "" {
		other, err := s.repo.GetUserByAPIKey(ctx, candidate.APIKey)
		switch {
		case err == nil && other.ID != candidate.ID:
			res = append(res, validation.Conflict("apiKey", MsgAPIKeyUsed))
		case err != nil && !errors.Is(err, models.ErrNotFound):
			return nil, err
		}
	}
	return res, nil
}

// recast превращает нарушение уникального ограничения в ошибку валидации.
func recast(err error) error {
	var ue *storage.UniqueError
	if !errors.As(err, &ue) {
		return err
	}
	switch ue.Field {
	case "email":
		return validation.Collect([]validation.Violation{validation.Conflict("email", MsgEmailUsed)})
	case "apiKey":
		return validation.Collect([]validation.Violation{validation.Conflict("apiKey", MsgAPIKeyUsed)})
	}
	return err
}

func (s *Service) publish(ctx context.Context, key string, userID int64) {
	err := s.events.Publish(ctx, key, rabbitmq.Event{
		Type:       key,
		UserID:     userID,
		OccurredAt: s.now().UTC(),
	})
	if err != nil {
		s.log.Warn("failed to publish event", slog.String("key", key), sl.Err(err))
	}
}
