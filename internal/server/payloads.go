package server

import (
	stderrors "errors"
	"html"
	"regexp"
	"strings"
	"time"

	validation "github.com/go-ozzo/ozzo-validation"
	"github.com/go-ozzo/ozzo-validation/is"
	"github.com/moneta-app/moneta/internal/store"
)

var (
	hasDigit  = regexp.MustCompile(`\d`)
	hasLower  = regexp.MustCompile(`[a-z]`)
	hasUpper  = regexp.MustCompile(`[A-Z]`)
	hasSymbol = regexp.MustCompile(`[^\w\s]`)
)

// dateLayouts are the accepted shapes for transaction dates.
var dateLayouts = []string{time.RFC3339, "2006-01-02"}

// RegisterPayload is the registration form body.
type RegisterPayload struct {
	FirstName       string `form:"first_name" json:"first_name"`
	LastName        string `form:"last_name" json:"last_name"`
	Email           string `form:"email" json:"email"`
	Password        string `form:"password" json:"password"`
	ConfirmPassword string `form:"confirm_password" json:"confirm_password"`
}

// Sanitize trims inputs and normalizes the email before validation.
func (r *RegisterPayload) Sanitize() {
	r.FirstName = strings.TrimSpace(r.FirstName)
	r.LastName = strings.TrimSpace(r.LastName)
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
	r.Password = strings.TrimSpace(r.Password)
	r.ConfirmPassword = strings.TrimSpace(r.ConfirmPassword)
}

// Validate will validate the payload
func (r RegisterPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.FirstName, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.LastName, validation.Required, validation.Length(2, 200)),
		validation.Field(&r.Email, validation.Required, validation.Length(6, 100), is.Email),
		validation.Field(&r.Password,
			validation.Required,
			validation.Length(8, 100),
			validation.Match(hasDigit).Error("must contain at least one number"),
			validation.Match(hasLower).Error("must contain at least one lowercase letter"),
			validation.Match(hasUpper).Error("must contain at least one uppercase letter"),
			validation.Match(hasSymbol).Error("must contain at least one symbol"),
		),
		validation.Field(
			&r.ConfirmPassword,
			validation.Required,
			validation.By(ValidateStringEquals(r.Password)),
		),
	)
}

// Escape neutralizes markup in free-text fields after validation.
func (r *RegisterPayload) Escape() {
	r.FirstName = html.EscapeString(r.FirstName)
	r.LastName = html.EscapeString(r.LastName)
}

// LoginPayload is the login form body.
type LoginPayload struct {
	Email    string `form:"email" json:"email"`
	Password string `form:"password" json:"password"`
}

func (r *LoginPayload) Sanitize() {
	r.Email = strings.ToLower(strings.TrimSpace(r.Email))
}

// Validate will run validation rules
func (r LoginPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Email, validation.Required, is.Email),
		validation.Field(&r.Password, validation.Required),
	)
}

// CategoryPayload is the create/rename body for categories.
type CategoryPayload struct {
	Name string `form:"name" json:"name"`
}

func (r *CategoryPayload) Sanitize() {
	r.Name = strings.TrimSpace(r.Name)
}

func (r CategoryPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Name, validation.Required, validation.Length(2, 100)),
	)
}

func (r *CategoryPayload) Escape() {
	r.Name = html.EscapeString(r.Name)
}

// TransactionPayload is the create/update body for transactions.
type TransactionPayload struct {
	Amount      float64 `form:"amount" json:"amount"`
	Description string  `form:"description" json:"description"`
	CategoryID  int64   `form:"category_id" json:"category_id"`
	Date        string  `form:"date" json:"date"`
	Type        string  `form:"type" json:"type"`
}

func (r *TransactionPayload) Sanitize() {
	r.Description = strings.TrimSpace(r.Description)
	r.Date = strings.TrimSpace(r.Date)
	r.Type = strings.ToUpper(strings.TrimSpace(r.Type))
}

func (r TransactionPayload) Validate() error {
	return validation.ValidateStruct(&r,
		validation.Field(&r.Amount,
			validation.Required.Error("is required"),
			validation.Min(0.0).Exclusive().Error("must be a positive number"),
		),
		validation.Field(&r.Description, validation.Required),
		validation.Field(&r.CategoryID,
			validation.Required.Error("is required"),
			validation.Min(1).Error("must be a valid category id"),
		),
		validation.Field(&r.Date,
			validation.Required,
			validation.By(validateISODate),
		),
		validation.Field(&r.Type,
			validation.Required,
			validation.In(store.TransactionIncome, store.TransactionExpense).Error("must be INCOME or EXPENSE"),
		),
	)
}

func (r *TransactionPayload) Escape() {
	r.Description = html.EscapeString(r.Description)
}

// ParsedDate returns the transaction date; call only after Validate.
func (r TransactionPayload) ParsedDate() time.Time {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, r.Date); err == nil {
			return t
		}
	}
	return time.Time{}
}

// ValidateStringEquals will check that both values match
func ValidateStringEquals(str string) validation.RuleFunc {
	return func(value any) error {
		s, _ := value.(string)
		if s != str {
			return stderrors.New("passwords do not match")
		}
		return nil
	}
}

func validateISODate(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	for _, layout := range dateLayouts {
		if _, err := time.Parse(layout, s); err == nil {
			return nil
		}
	}
	return stderrors.New("invalid date format")
}
