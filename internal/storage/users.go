package storage

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/magabrotheeeer/cards-api/internal/models"
)

const userColumns = `id, firstname, lastname, email, api_key, created_at, address, country,
	roles, subscription_id`

func scanUser(row scanner) (*models.User, error) {
	var u models.User
	var roles string
	if err := row.Scan(&u.ID, &u.Firstname, &u.Lastname, &u.Email, &u.APIKey, &u.CreatedAt,
		&u.Address, &u.Country, &roles, &u.SubscriptionID); err != nil {
		return nil, err
	}
	u.Roles = models.SplitRoles(roles)
	return &u, nil
}

func (s *Storage) queryUsers(ctx context.Context, op, query string, args ...any) ([]models.User, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.User{}
	for rows.Next() {
		u, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *u)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetUser возвращает пользователя по id.
func (s *Storage) GetUser(ctx context.Context, id int64) (*models.User, error) {
	const op = "storage.GetUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE id = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, wrap(op, err)
	}
	return u, nil
}

// GetUserByEmail возвращает пользователя по email.
func (s *Storage) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	const op = "storage.GetUserByEmail"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE email = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, email))
	if err != nil {
		return nil, wrap(op, err)
	}
	return u, nil
}

// GetUserByAPIKey возвращает пользователя по API-ключу.
func (s *Storage) GetUserByAPIKey(ctx context.Context, apiKey string) (*models.User, error) {
	const op = "storage.GetUserByAPIKey"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	query := `SELECT ` + userColumns + ` FROM users WHERE api_key = $1`
	u, err := scanUser(s.DB.QueryRowContext(ctx, query, apiKey))
	if err != nil {
		return nil, wrap(op, err)
	}
	return u, nil
}

// ListUsers возвращает всех пользователей в порядке id.
func (s *Storage) ListUsers(ctx context.Context) ([]models.User, error) {
	const op = "storage.ListUsers"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	return s.queryUsers(ctx, op, `SELECT `+userColumns+` FROM users ORDER BY id`)
}

// ListUsersBySubscription возвращает пользователей подписки.
func (s *Storage) ListUsersBySubscription(ctx context.Context, subscriptionID int64) ([]models.User, error) {
	const op = "storage.ListUsersBySubscription"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	return s.queryUsers(ctx, op,
		`SELECT `+userColumns+` FROM users WHERE subscription_id = $1 ORDER BY id`, subscriptionID)
}

// CountSubscriptionUsers возвращает количество пользователей подписки.
func (s *Storage) CountSubscriptionUsers(ctx context.Context, subscriptionID int64) (int, error) {
	const op = "storage.CountSubscriptionUsers"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	var n int
	err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM users WHERE subscription_id = $1`, subscriptionID).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// UserExists сообщает, существует ли пользователь с данным id.
func (s *Storage) UserExists(ctx context.Context, id int64) (bool, error) {
	const op = "storage.UserExists"
	if err := checkCtx(ctx, op); err != nil {
		return false, err
	}

	var exists bool
	err := s.DB.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM users WHERE id = $1)`, id).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("%s: %w", op, err)
	}
	return exists, nil
}

// CreateUser сохраняет нового пользователя и возвращает его id.
func (s *Storage) CreateUser(ctx context.Context, u models.User) (int64, error) {
	const op = "storage.CreateUser"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	query := `INSERT INTO users (firstname, lastname, email, api_key, created_at, address,
			      country, roles, subscription_id)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
			  RETURNING id`
	var id int64
	err := s.DB.QueryRowContext(ctx, query,
		u.Firstname, u.Lastname, u.Email, u.APIKey, u.CreatedAt, u.Address, u.Country,
		models.JoinRoles(u.Roles), u.SubscriptionID).Scan(&id)
	if err != nil {
		return 0, wrap(op, err)
	}
	return id, nil
}

// UpdateUser сохраняет все изменяемые поля пользователя. created_at не меняется.
func (s *Storage) UpdateUser(ctx context.Context, u models.User) error {
	const op = "storage.UpdateUser"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE users
			  SET firstname = $1, lastname = $2, email = $3, api_key = $4, address = $5,
			      country = $6, roles = $7, subscription_id = $8
			  WHERE id = $9`
	res, err := s.DB.ExecContext(ctx, query,
		u.Firstname, u.Lastname, u.Email, u.APIKey, u.Address, u.Country,
		models.JoinRoles(u.Roles), u.SubscriptionID, u.ID)
	if err != nil {
		return wrap(op, err)
	}
	return affected(op, res)
}

// DeleteUser удаляет карты пользователя и самого пользователя в одной транзакции.
func (s *Storage) DeleteUser(ctx context.Context, id int64) (err error) {
	const op = "storage.DeleteUser"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	tx, err := s.DB.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	if _, err = tx.ExecContext(ctx, `DELETE FROM cards WHERE user_id = $1`, id); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	res, err := tx.ExecContext(ctx, `DELETE FROM users WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if err = affected(op, res); err != nil {
		return err
	}
	if err = tx.Commit(); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return nil
}
