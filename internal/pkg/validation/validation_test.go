package validation

import (
	"testing"

	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/apperr"

	"github.com/go-playground/validator/v10"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email       string `json:"email" validate:"required,email"`
	Password    string `json:"password" validate:"password"`
	PhoneNumber string `json:"phone_number" validate:"omitempty,phone"`
	CountryCode string `json:"country_code" validate:"omitempty,country_code"`
	Beds        []bed  `json:"beds" validate:"dive"`
}

type bed struct {
	Count int `json:"count" validate:"min=1"`
}

type stay struct {
	Long    bool `json:"long"`
	Nights  *int `json:"nights"`
	Weekly  *int `json:"weekly"`
	Monthly *int `json:"monthly"`
}

func fields(t *testing.T, err error) map[string]string {
	t.Helper()
	e, ok := apperr.As(err)
	require.True(t, ok, "expected apperr, got %v", err)
	assert.Equal(t, apperr.KindValidation, e.Kind)
	assert.Equal(t, MessageFailed, e.Message)
	return e.Fields
}

func TestValidate_FieldPaths(t *testing.T) {
	v := New()
	err := v.Validate(signup{Email: "nope", Password: "abc", PhoneNumber: "12", CountryCode: "x", Beds: []bed{{Count: 1}, {Count: 0}}})
	f := fields(t, err)
	assert.Equal(t, "must be a valid email address", f["email"])
	assert.Contains(t, f, "password")
	assert.Equal(t, "must be a valid phone number", f["phone_number"])
	assert.Equal(t, "must be a valid country code", f["country_code"])
	assert.Equal(t, "must be at least 1", f["beds[1].count"])

	assert.NoError(t, v.Validate(signup{Email: "a@b.co", Password: "abc123", PhoneNumber: "501234567", CountryCode: "+971"}))
}

func TestStructRules(t *testing.T) {
	v := New()
	v.RegisterStructRule(func(sl validator.StructLevel) {
		s := sl.Current().Interface().(stay)
		RequireWhen(sl, s.Long, s.Nights != nil, "nights", "long is true")
		RequireExactlyOne(sl, s.Weekly != nil, s.Monthly != nil, "weekly", "monthly")
	}, stay{})

	n := 3
	f := fields(t, v.Validate(stay{Long: true}))
	assert.Equal(t, "is required when long is true", f["nights"])
	assert.Equal(t, "exactly one of weekly,monthly must be provided", f["weekly"])
	assert.Equal(t, "exactly one of weekly,monthly must be provided", f["monthly"])

	f = fields(t, v.Validate(stay{Weekly: &n, Monthly: &n}))
	assert.Contains(t, f, "weekly")
	assert.NotContains(t, f, "nights")

	assert.NoError(t, v.Validate(stay{Long: true, Nights: &n, Monthly: &n}))
}

func TestPredicates(t *testing.T) {
	assert.True(t, IsValidEmail("host@roomz.ae"))
	assert.False(t, IsValidEmail("host@roomz"))
	assert.True(t, IsValidPassword("abc123"))
	assert.False(t, IsValidPassword("abcdef"))
	assert.False(t, IsValidPassword("123456"))
	assert.False(t, IsValidPassword("a1b2c3d4e5f6g7h8"))
	assert.True(t, IsValidPhone("501234567"))
	assert.False(t, IsValidPhone("50-123"))
}

func TestNormalize(t *testing.T) {
	assert.Equal(t, "501234567", NormalizePhone(" 0501 234 567"))
	assert.Equal(t, "+971", NormalizeCountryCode("971"))
	assert.Equal(t, "+971", NormalizeCountryCode(" +971 "))
	assert.Equal(t, "", NormalizeCountryCode(""))
}
