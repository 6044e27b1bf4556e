package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/cards-api/internal/models"
)

func ptr[T any](v T) *T { return &v }

func TestEngine_Validate_User(t *testing.T) {
	engine := New()

	tests := []struct {
		name string
		user models.User
		want []Violation
	}{
		{
			name: "valid user",
			user: models.User{
				Firstname:      ptr("Ada"),
				Email:          "ada@example.com",
				APIKey:         "0123456789abcdef0123456789abcdef",
				SubscriptionID: 1,
			},
			want: nil,
		},
		{
			name: "blank email and missing subscription",
			user: models.User{APIKey: "key"},
			want: []Violation{
				{Property: "email", Message: "This value should not be blank."},
				{Property: "subscriptionId", Message: "This value should not be blank."},
			},
		},
		{
			name: "whitespace email is blank and invalid",
			user: models.User{Email: "   ", APIKey: "key", SubscriptionID: 1},
			want: []Violation{
				{Property: "email", Message: "This value should not be blank."},
				{Property: "email", Message: "This value is not a valid email address."},
			},
		},
		{
			name: "too long firstname and invalid email fire together",
			user: models.User{
				Firstname:      ptr(strings.Repeat("a", 256)),
				Email:          "not-an-email",
				APIKey:         "key",
				SubscriptionID: 1,
			},
			want: []Violation{
				{Property: "firstname", Message: "This value is too long. It should have 255 characters or less."},
				{Property: "email", Message: "This value is not a valid email address."},
			},
		},
		{
			name: "length is counted in characters",
			user: models.User{
				Country:        ptr(strings.Repeat("é", 255)),
				Email:          "ada@example.com",
				APIKey:         "key",
				SubscriptionID: 1,
			},
			want: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := engine.Validate(tt.user)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestEngine_Validate_Card(t *testing.T) {
	engine := New()

	got := engine.Validate(&models.Card{
		Name:             "main",
		CreditCardType:   "visa",
		CreditCardNumber: "4111111111111111",
		CurrencyCode:     "EURO",
	})

	assert.Equal(t, []Violation{
		{Property: "currencyCode", Message: "This value is too long. It should have 3 characters or less."},
		{Property: "value", Message: "This value should not be blank."},
		{Property: "userId", Message: "This value should not be blank."},
	}, got)
}

func TestEngine_Validate_ZeroValueIsPresent(t *testing.T) {
	engine := New()

	got := engine.Validate(models.Card{
		Name:             "main",
		CreditCardType:   "visa",
		CreditCardNumber: "4111111111111111",
		CurrencyCode:     "EUR",
		Value:            ptr(int64(0)),
		UserID:           1,
	})

	assert.Empty(t, got)
}

func TestEngine_Validate_Subscription(t *testing.T) {
	engine := New()

	got := engine.Validate(models.Subscription{Name: "Gold"})

	assert.Equal(t, []Violation{
		{Property: "slogan", Message: "This value should not be blank."},
	}, got)
}

func TestEngine_Var(t *testing.T) {
	engine := New()

	assert.Empty(t, engine.Var("email", "admin@example.com", "notblank,email"))
	assert.Equal(t, []Violation{{Property: "email", Message: "This value is not a valid email address."}},
		engine.Var("email", "admin", "notblank,email"))
	assert.Equal(t, []Violation{{Property: "email", Message: "This value should not be blank."}},
		engine.Var("email", nil, "notblank,email"))
}

func TestCollect(t *testing.T) {
	require.NoError(t, Collect(nil, []Violation{}))

	err := Collect(
		[]Violation{{Property: "email", Message: "This value should not be blank."}},
		nil,
		[]Violation{Conflict("apiKey", "This apiKey is already used")},
	)
	var verr *Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, []Violation{
		{Property: "email", Message: "This value should not be blank."},
		{Property: "apiKey", Message: "This apiKey is already used"},
	}, verr.Violations)
	assert.Contains(t, err.Error(), "apiKey: This apiKey is already used")
}

func TestTypeMessage(t *testing.T) {
	assert.Equal(t, "This value should be of type integer.", TypeMessage("integer"))
}
