package storage

import (
	"context"
	"fmt"

	"github.com/magabrotheeeer/cards-api/internal/models"
)

const cardColumns = `id, name, credit_card_type, credit_card_number, currency_code, value, user_id`

func scanCard(row scanner) (*models.Card, error) {
	var c models.Card
	var value int64
	if err := row.Scan(&c.ID, &c.Name, &c.CreditCardType, &c.CreditCardNumber,
		&c.CurrencyCode, &value, &c.UserID); err != nil {
		return nil, err
	}
	c.Value = &value
	return &c, nil
}

func (s *Storage) queryCards(ctx context.Context, op, query string, args ...any) ([]models.Card, error) {
	rows, err := s.DB.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer func() {
		_ = rows.Close()
	}()

	result := []models.Card{}
	for rows.Next() {
		c, err := scanCard(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		result = append(result, *c)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return result, nil
}

// GetCard возвращает карту по id.
func (s *Storage) GetCard(ctx context.Context, id int64) (*models.Card, error) {
	const op = "storage.GetCard"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	c, err := scanCard(s.DB.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE id = $1`, id))
	if err != nil {
		return nil, wrap(op, err)
	}
	return c, nil
}

// GetCardByNumber возвращает карту по номеру.
func (s *Storage) GetCardByNumber(ctx context.Context, number string) (*models.Card, error) {
	const op = "storage.GetCardByNumber"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}

	c, err := scanCard(s.DB.QueryRowContext(ctx,
		`SELECT `+cardColumns+` FROM cards WHERE credit_card_number = $1`, number))
	if err != nil {
		return nil, wrap(op, err)
	}
	return c, nil
}

// ListCards возвращает все карты.
func (s *Storage) ListCards(ctx context.Context) ([]models.Card, error) {
	const op = "storage.ListCards"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	return s.queryCards(ctx, op, `SELECT `+cardColumns+` FROM cards ORDER BY id`)
}

// ListCardsByUser возвращает карты пользователя.
func (s *Storage) ListCardsByUser(ctx context.Context, userID int64) ([]models.Card, error) {
	const op = "storage.ListCardsByUser"
	if err := checkCtx(ctx, op); err != nil {
		return nil, err
	}
	return s.queryCards(ctx, op,
		`SELECT `+cardColumns+` FROM cards WHERE user_id = $1 ORDER BY id`, userID)
}

// CountCardsByUser возвращает количество карт пользователя.
func (s *Storage) CountCardsByUser(ctx context.Context, userID int64) (int, error) {
	const op = "storage.CountCardsByUser"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	var n int
	if err := s.DB.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM cards WHERE user_id = $1`, userID).Scan(&n); err != nil {
		return 0, fmt.Errorf("%s: %w", op, err)
	}
	return n, nil
}

// CreateCard сохраняет карту и возвращает её id.
func (s *Storage) CreateCard(ctx context.Context, c models.Card) (int64, error) {
	const op = "storage.CreateCard"
	if err := checkCtx(ctx, op); err != nil {
		return 0, err
	}

	query := `INSERT INTO cards (name, credit_card_type, credit_card_number, currency_code,
			      value, user_id)
			  VALUES ($1, $2, $3, $4, $5, $6)
			  RETURNING id`
	var id int64
	err := s.DB.QueryRowContext(ctx, query,
		c.Name, c.CreditCardType, c.CreditCardNumber, c.CurrencyCode, c.Value, c.UserID).Scan(&id)
	if err != nil {
		return 0, wrap(op, err)
	}
	return id, nil
}

// UpdateCard сохраняет все поля карты.
func (s *Storage) UpdateCard(ctx context.Context, c models.Card) error {
	const op = "storage.UpdateCard"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	query := `UPDATE cards
			  SET name = $1, credit_card_type = $2, credit_card_number = $3, currency_code = $4,
			      value = $5, user_id = $6
			  WHERE id = $7`
	res, err := s.DB.ExecContext(ctx, query,
		c.Name, c.CreditCardType, c.CreditCardNumber, c.CurrencyCode, c.Value, c.UserID, c.ID)
	if err != nil {
		return wrap(op, err)
	}
	return affected(op, res)
}

// DeleteCard удаляет карту.
func (s *Storage) DeleteCard(ctx context.Context, id int64) error {
	const op = "storage.DeleteCard"
	if err := checkCtx(ctx, op); err != nil {
		return err
	}

	res, err := s.DB.ExecContext(ctx, `DELETE FROM cards WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	return affected(op, res)
}
