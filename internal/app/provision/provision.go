// Package provision реализует административные консольные команды:
// создание или повышение администратора и подсчёт карт пользователя.
package provision

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"

	"github.com/magabrotheeeer/cards-api/internal/lib/sl"
	"github.com/magabrotheeeer/cards-api/internal/models"
	"github.com/magabrotheeeer/cards-api/internal/validation"
)

const maxFieldLength = 255

var (
	// ErrInputClosed возвращается, когда ввод закончился раньше, чем получен ответ.
	ErrInputClosed = errors.New("input closed")
	// ErrUsage возвращается при неизвестной команде или неверных аргументах.
	ErrUsage = errors.New("usage: cards-admin add-admin | count-cards <email>")
)

// UserService операции над пользователями, нужные командам.
type UserService interface {
	FindByEmail(ctx context.Context, email string) (*models.User, error)
	ProvisionAdmin(ctx context.Context, candidate models.User) (*models.User, error)
	Promote(ctx context.Context, id int64) (*models.User, error)
	CountCards(ctx context.Context, email string) (int, error)
}

// SubscriptionService отдаёт идентификаторы существующих подписок.
type SubscriptionService interface {
	IDs(ctx context.Context) ([]int64, error)
}

// Provisioner ведёт диалог с оператором через in/out.
type Provisioner struct {
	users UserService
	subs  SubscriptionService
	v     *validation.Engine
	in    *bufio.Scanner
	out   io.Writer
	log   *slog.Logger
}

// New создаёт Provisioner.
func New(users UserService, subs SubscriptionService, in io.Reader, out io.Writer, log *slog.Logger) *Provisioner {
	return &Provisioner{
		users: users,
		subs:  subs,
		v:     validation.New(),
		in:    bufio.NewScanner(in),
		out:   out,
		log:   log,
	}
}

// Run выполняет команду по аргументам командной строки.
func (p *Provisioner) Run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		return ErrUsage
	}
	switch args[0] {
	case "add-admin":
		if len(args) != 1 {
			return ErrUsage
		}
		return p.AddAdmin(ctx)
	case "count-cards":
		if len(args) != 2 {
			return ErrUsage
		}
		return p.CountCards(ctx, args[1])
	default:
		return ErrUsage
	}
}

// CountCards печатает количество карт пользователя с данным email.
func (p *Provisioner) CountCards(ctx context.Context, email string) error {
	const op = "provision.CountCards"

	n, err := p.users.CountCards(ctx, email)
	if errors.Is(err, models.ErrNotFound) {
		p.println("User not found")
		return nil
	}
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	p.printf("This user has %d cards.\n", n)
	return nil
}

// AddAdmin создаёт нового администратора или выдаёт роль существующему пользователю.
func (p *Provisioner) AddAdmin(ctx context.Context) error {
	const op = "provision.AddAdmin"
	log := p.log.With(slog.String("op", op))

	email, err := p.askEmail()
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}

	existing, err := p.users.FindByEmail(ctx, email)
	switch {
	case err == nil:
		return p.promote(ctx, existing)
	case !errors.Is(err, models.ErrNotFound):
		return fmt.Errorf("%s: %w", op, err)
	}

	ok, err := p.confirm("This user does not exist yet. Do you want to create it ? [y/n] ")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return nil
	}

	candidate, err := p.askCandidate(ctx, email)
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	created, err := p.users.ProvisionAdmin(ctx, candidate)
	if err != nil {
		var verr *validation.Error
		if errors.As(err, &verr) {
			for _, v := range verr.Violations {
				p.printf("%s: %s\n", v.Property, v.Message)
			}
		}
		log.Error("failed to create admin", sl.Err(err))
		return fmt.Errorf("%s: %w", op, err)
	}
	p.printf("User created! API key : %s\n", created.APIKey)
	return nil
}

func (p *Provisioner) promote(ctx context.Context, u *models.User) error {
	const op = "provision.promote"

	if u.HasRole(models.RoleAdmin) {
		p.println("This user is already an admin.")
		return nil
	}
	ok, err := p.confirm("This user already exists. Do you want to give it the admin role ? [y/n] ")
	if err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	if !ok {
		return nil
	}
	if _, err := p.users.Promote(ctx, u.ID); err != nil {
		return fmt.Errorf("%s: %w", op, err)
	}
	p.printf("User %s is now an admin.\n", u.Email)
	return nil
}

func (p *Provisioner) askCandidate(ctx context.Context, email string) (models.User, error) {
	firstname, err := p.askRequired("Enter the firstname of this new admin user: ", "firstname")
	if err != nil {
		return models.User{}, err
	}
	lastname, err := p.askRequired("Enter the lastname of this new admin user: ", "lastname")
	if err != nil {
		return models.User{}, err
	}
	country, err := p.askOptional("Enter the country of this new admin user (optional): ", "country")
	if err != nil {
		return models.User{}, err
	}
	address, err := p.askOptional("Enter the address of this new admin user (optional): ", "address")
	if err != nil {
		return models.User{}, err
	}
	subscriptionID, err := p.askSubscription(ctx)
	if err != nil {
		return models.User{}, err
	}
	return models.User{
		Firstname:      &firstname,
		Lastname:       &lastname,
		Email:          email,
		Country:        country,
		Address:        address,
		SubscriptionID: subscriptionID,
	}, nil
}

func (p *Provisioner) askEmail() (string, error) {
	for {
		email, err := p.ask("Enter the email address of the new admin user: ")
		if err != nil {
			return "", err
		}
		switch {
		case email == "":
			p.println("You must specify an email address!")
		case len(p.v.Var("email", email, "email")) > 0:
			p.println("This email address is not valid")
		default:
			return email, nil
		}
	}
}

func (p *Provisioner) askRequired(prompt, field string) (string, error) {
	for {
		value, err := p.ask(prompt)
		if err != nil {
			return "", err
		}
		switch {
		case value == "":
			p.printf("You must enter a %s\n", field)
		case p.tooLong(field, value):
			p.printf("The %s cannot exceed %d characters\n", field, maxFieldLength)
		default:
			return value, nil
		}
	}
}

func (p *Provisioner) askOptional(prompt, field string) (*string, error) {
	for {
		value, err := p.ask(prompt)
		if err != nil {
			return nil, err
		}
		if p.tooLong(field, value) {
			p.printf("The %s cannot exceed %d characters\n", field, maxFieldLength)
			continue
		}
		if value == "" {
			return nil, nil
		}
		return &value, nil
	}
}

func (p *Provisioner) askSubscription(ctx context.Context) (int64, error) {
	ids, err := p.subs.IDs(ctx)
	if err != nil {
		return 0, err
	}
	listed := make([]string, 0, len(ids))
	for _, id := range ids {
		listed = append(listed, strconv.FormatInt(id, 10))
	}
	prompt := fmt.Sprintf("Enter the subscription ID of this new admin user (available IDs: %s): ", strings.Join(listed, ", "))

	for {
		raw, err := p.ask(prompt)
		if err != nil {
			return 0, err
		}
		id, err := strconv.ParseInt(raw, 10, 64)
		if err == nil && slices.Contains(ids, id) {
			return id, nil
		}
		p.println("This ID is not valid.")
	}
}

func (p *Provisioner) tooLong(field, value string) bool {
	return len(p.v.Var(field, value, "max=255")) > 0
}

func (p *Provisioner) confirm(prompt string) (bool, error) {
	answer, err := p.ask(prompt)
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}

// ask печатает вопрос и возвращает ответ без крайних пробелов.
func (p *Provisioner) ask(prompt string) (string, error) {
	fmt.Fprint(p.out, prompt)
	if !p.in.Scan() {
		if err := p.in.Err(); err != nil {
			return "", err
		}
		return "", ErrInputClosed
	}
	return strings.TrimSpace(p.in.Text()), nil
}

func (p *Provisioner) printf(format string, a ...any) {
	fmt.Fprintf(p.out, format, a...)
}

func (p *Provisioner) println(s string) {
	fmt.Fprintln(p.out, s)
}
