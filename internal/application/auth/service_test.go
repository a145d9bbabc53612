package auth

import (
	"context"
	"testing"
	"time"

	"github.com/MobileCoderzTechnologies/roomz-backend/internal/domain"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/infrastructure/otp"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/apperr"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/token"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/testutil"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func strPtr(s string) *string { return &s }

type fixture struct {
	svc    *Service
	db     *gorm.DB
	tokens *token.Issuer
	mr     *miniredis.Miniredis
	codes  map[string]string
}

func setup(t *testing.T) *fixture {
	db := testutil.OpenDB(t)
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	codes := map[string]string{}
	store := otp.NewRedisStore(rdb)
	store.Deliver = func(_ context.Context, phone, code string) error {
		codes[phone] = code
		return nil
	}
	tokens, err := token.NewIssuer("0123456789abcdef0123", time.Hour)
	require.NoError(t, err)
	return &fixture{svc: NewService(db, store, tokens, "https://cdn.example.com"), db: db, tokens: tokens, mr: mr, codes: codes}
}

func (f *fixture) register(t *testing.T, in RegisterInput) *Session {
	t.Helper()
	s, err := f.svc.Register(context.Background(), in)
	require.NoError(t, err)
	return s
}

func TestCheckAccount_NeitherEmailNorPhone(t *testing.T) {
	f := setup(t)
	_, err := f.svc.CheckAccount(context.Background(), CheckAccountInput{})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, e.Kind)
	assert.Equal(t, MsgEmailOrPhone, e.Message)
}

func TestCheckAccount_Email(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.CheckAccount(ctx, CheckAccountInput{Email: "new@example.com"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	f.register(t, RegisterInput{Email: "Jane@Example.com", FirstName: "Jane", LastName: "Doe", Password: strPtr("secret1"), LoginType: "email"})
	res, err := f.svc.CheckAccount(ctx, CheckAccountInput{Email: "jane@example.com"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeExisting, res.Outcome)
	assert.Equal(t, "Welcome back, Jane", res.Message)
}

func TestCheckAccount_UnknownPhoneSendsOTP(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	res, err := f.svc.CheckAccount(ctx, CheckAccountInput{CountryCode: "91", PhoneNumber: "09876543210"})
	require.NoError(t, err)
	assert.Equal(t, OutcomeOTPSent, res.Outcome)
	assert.NotEmpty(t, res.OTPSid)
	code := f.codes["+919876543210"]
	require.Len(t, code, 6)

	_, err = f.svc.ResendOTP(ctx, PhoneInput{CountryCode: "+91", PhoneNumber: "9876543210"})
	assert.True(t, apperr.Is(err, apperr.KindUpstream), "resend inside the throttle window")

	got, err := f.svc.VerifyOTP(ctx, VerifyOTPInput{CountryCode: "+91", PhoneNumber: "9876543210", OTP: code})
	require.NoError(t, err)
	assert.True(t, got.Valid)
	assert.Equal(t, otp.StatusApproved, got.Status)
}

func TestVerifyOTP_IncorrectAndExpired(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.ResendOTP(ctx, PhoneInput{CountryCode: "+1", PhoneNumber: "5550001111"})
	require.NoError(t, err)
	wrong := "000000"
	if f.codes["+15550001111"] == wrong {
		wrong = "111111"
	}
	_, err = f.svc.VerifyOTP(ctx, VerifyOTPInput{CountryCode: "+1", PhoneNumber: "5550001111", OTP: wrong})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, apperr.KindValidation, e.Kind)
	assert.Equal(t, MsgIncorrectOTP, e.Message)

	f.mr.FastForward(time.Hour)
	_, err = f.svc.VerifyOTP(ctx, VerifyOTPInput{CountryCode: "+1", PhoneNumber: "5550001111", OTP: f.codes["+15550001111"]})
	assert.True(t, apperr.Is(err, apperr.KindGone))
}

func TestRegister_ValidationAndDuplicates(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.Register(ctx, RegisterInput{Email: "a@example.com", FirstName: "A", LastName: "B", LoginType: "EMAIL"})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Contains(t, e.Fields, "password")

	_, err = f.svc.Register(ctx, RegisterInput{Email: "a@example.com", FirstName: "A", LastName: "B", LoginType: "GOOGLE"})
	e, ok = apperr.As(err)
	require.True(t, ok)
	assert.Contains(t, e.Fields, "social_id")

	s := f.register(t, RegisterInput{
		Email: "a@example.com", FirstName: "A", LastName: "B", Password: strPtr("secret1"),
		LoginType: "PHONE", CountryCode: strPtr("+91"), PhoneNumber: strPtr("9876543210"),
	})
	require.NotNil(t, s.User.Username)
	assert.Equal(t, "919876543210", *s.User.Username)
	assert.True(t, s.User.IsVerified)
	claims, err := f.tokens.Parse(s.AccessToken)
	require.NoError(t, err)
	assert.Equal(t, s.User.UID, claims.Subject)
	assert.Equal(t, token.RoleUser, claims.Role)

	_, err = f.svc.Register(ctx, RegisterInput{Email: "A@example.com", FirstName: "A", LastName: "B", Password: strPtr("secret1"), LoginType: "EMAIL"})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	_, err = f.svc.Register(ctx, RegisterInput{
		Email: "b@example.com", FirstName: "A", LastName: "B", Password: strPtr("secret1"),
		LoginType: "PHONE", CountryCode: strPtr("91"), PhoneNumber: strPtr("09876543210"),
	})
	e, ok = apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, MsgPhoneExists, e.Message)
}

func TestLogin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()
	f.register(t, RegisterInput{
		Email: "jane@example.com", FirstName: "Jane", LastName: "Doe", Password: strPtr("secret1"),
		LoginType: "EMAIL", CountryCode: strPtr("+44"), PhoneNumber: strPtr("7700900123"),
	})

	s, err := f.svc.Login(ctx, LoginInput{Email: "jane@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.NotEmpty(t, s.AccessToken)

	_, err = f.svc.Login(ctx, LoginInput{CountryCode: "44", PhoneNumber: "07700900123", Password: "secret1"})
	require.NoError(t, err)

	_, err = f.svc.Login(ctx, LoginInput{Email: "jane@example.com", Password: "wrong1"})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))

	_, err = f.svc.Login(ctx, LoginInput{Password: "secret1"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	require.NoError(t, f.db.Model(&domain.User{}).Where("email = ?", "jane@example.com").Update("is_deleted", true).Error)
	_, err = f.svc.Login(ctx, LoginInput{Email: "jane@example.com", Password: "secret1"})
	assert.True(t, apperr.Is(err, apperr.KindForbidden))
}

func TestLogin_InactiveUser(t *testing.T) {
	f := setup(t)
	f.register(t, RegisterInput{Email: "jane@example.com", FirstName: "Jane", LastName: "Doe", Password: strPtr("secret1"), LoginType: "EMAIL"})
	require.NoError(t, f.db.Model(&domain.User{}).Where("email = ?", "jane@example.com").Update("is_active", false).Error)

	_, err := f.svc.Login(context.Background(), LoginInput{Email: "jane@example.com", Password: "secret1"})
	e, ok := apperr.As(err)
	require.True(t, ok)
	assert.Equal(t, MsgInactive, e.Message)
}

func TestSocialLogin(t *testing.T) {
	f := setup(t)
	ctx := context.Background()

	_, err := f.svc.SocialLogin(ctx, SocialLoginInput{LoginType: "GOOGLE", SocialID: "g-1"})
	assert.True(t, apperr.Is(err, apperr.KindNotFound))

	reg := f.register(t, RegisterInput{Email: "jane@example.com", FirstName: "Jane", LastName: "Doe", Password: strPtr("secret1"), LoginType: "EMAIL"})

	s, err := f.svc.SocialLogin(ctx, SocialLoginInput{LoginType: "google", SocialID: "g-1", SocialToken: strPtr("tok"), Email: strPtr("jane@example.com")})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, s.User.ID)

	var u domain.User
	require.NoError(t, f.db.First(&u, reg.User.ID).Error)
	require.NotNil(t, u.GoogleID)
	assert.Equal(t, "g-1", *u.GoogleID)

	s, err = f.svc.SocialLogin(ctx, SocialLoginInput{LoginType: "GOOGLE", SocialID: "g-1"})
	require.NoError(t, err)
	assert.Equal(t, reg.User.ID, s.User.ID)
}
