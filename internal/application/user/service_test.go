package user

import (
	"bytes"
	"context"
	"io"
	"testing"

	"github.com/MobileCoderzTechnologies/roomz-backend/internal/application/uploads"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/domain"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/infrastructure/otp"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/pkg/apperr"
	"github.com/MobileCoderzTechnologies/roomz-backend/internal/testutil"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOTP struct {
	code string
}

func (f *fakeOTP) Send(context.Context, string) (string, error) { return "VE1", nil }

func (f *fakeOTP) Verify(_ context.Context, _ string, code string) (otp.Result, error) {
	if code == f.code {
		return otp.Result{Status: otp.StatusApproved, Valid: true}, nil
	}
	return otp.Result{Status: otp.StatusPending}, nil
}

type memStore struct {
	objects map[string][]byte
}

func (m *memStore) Put(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	data, err := io.ReadAll(r)
	m.objects[key] = data
	return err
}

func (m *memStore) Remove(_ context.Context, key string) error {
	delete(m.objects, key)
	return nil
}

func fileUpload(name string, data []byte) uploads.Upload {
	return uploads.Upload{
		FileName: name,
		Size:     int64(len(data)),
		Open:     func() (io.ReadCloser, error) { return io.NopCloser(bytes.NewReader(data)), nil },
	}
}

func TestProfile(t *testing.T) {
	db := testutil.OpenDB(t)
	u := testutil.CreateUser(t, db, "me@example.com")
	s := NewService(db, nil, &fakeOTP{}, "https://cdn.example.com")

	got, err := s.Profile(context.Background(), u.ID)
	require.NoError(t, err)
	assert.Equal(t, u.UID, got.UID)

	_, err = s.Profile(context.Background(), 9999)
	assert.True(t, apperr.Is(err, apperr.KindNotFound))
}

func TestUpdateProfilePhoto_ReplacesPreviousObject(t *testing.T) {
	db := testutil.OpenDB(t)
	u := testutil.CreateUser(t, db, "me@example.com")
	store := &memStore{objects: map[string][]byte{}}
	s := NewService(db, uploads.NewService(store, "https://cdn.example.com"), &fakeOTP{}, "https://cdn.example.com")
	ctx := context.Background()

	first, err := s.UpdateProfilePhoto(ctx, u.ID, fileUpload("a.jpg", []byte("first")))
	require.NoError(t, err)
	assert.Contains(t, first, "https://cdn.example.com/user-profile-photos/")
	require.Len(t, store.objects, 1)

	_, err = s.UpdateProfilePhoto(ctx, u.ID, fileUpload("b.jpg", []byte("second")))
	require.NoError(t, err)
	require.Len(t, store.objects, 1)
	for _, data := range store.objects {
		assert.Equal(t, "second", string(data))
	}

	var row domain.User
	require.NoError(t, db.First(&row, u.ID).Error)
	require.NotNil(t, row.Avatar)
	assert.Contains(t, store.objects, *row.Avatar)
}

func TestUpdatePhoneNumber(t *testing.T) {
	db := testutil.OpenDB(t)
	u := testutil.CreateUser(t, db, "me@example.com")
	other := testutil.CreateUser(t, db, "other@example.com")
	require.NoError(t, db.Model(other).Updates(map[string]interface{}{"country_code": "+91", "phone_number": "9000000000"}).Error)
	s := NewService(db, nil, &fakeOTP{code: "123456"}, "")
	ctx := context.Background()

	_, err := s.UpdatePhoneNumber(ctx, u.ID, UpdatePhoneInput{CountryCode: "91", PhoneNumber: "9876543210", OTP: "654321"})
	assert.True(t, apperr.Is(err, apperr.KindValidation))

	_, err = s.UpdatePhoneNumber(ctx, u.ID, UpdatePhoneInput{CountryCode: "91", PhoneNumber: "9000000000", OTP: "123456"})
	assert.True(t, apperr.Is(err, apperr.KindConflict))

	got, err := s.UpdatePhoneNumber(ctx, u.ID, UpdatePhoneInput{CountryCode: "91", PhoneNumber: "09876543210", OTP: "123456"})
	require.NoError(t, err)
	assert.Equal(t, "+91", *got.CountryCode)
	assert.Equal(t, "9876543210", *got.PhoneNumber)
	assert.True(t, got.IsVerified)
}
