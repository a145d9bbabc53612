package otp

import (
	"context"
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

// ErrNoDelivery is returned by Send when the store has no Deliver hook.
var ErrNoDelivery = errors.New("otp: no delivery configured")

// RedisStore is a self-hosted Provider: codes are generated locally, stored
// bcrypt-hashed in Redis and handed to Deliver. Send fails without Deliver.
type RedisStore struct {
	client      *redis.Client
	keyPrefix   string
	ttl         time.Duration
	resendAfter time.Duration
	maxAttempts int
	codeDigits  int
	Deliver     func(ctx context.Context, phone, code string) error
}

type challenge struct {
	SID       string    `json:"sid"`
	CodeHash  string    `json:"codeHash"`
	ExpiresAt time.Time `json:"expiresAt"`
}

// NewRedisStore returns a store with a 10 minute code lifetime.
func NewRedisStore(client *redis.Client) *RedisStore {
	return &RedisStore{
		client:      client,
		keyPrefix:   "roomz:otp",
		ttl:         10 * time.Minute,
		resendAfter: 30 * time.Second,
		maxAttempts: 5,
		codeDigits:  6,
	}
}

// Send creates a new challenge for phone, replacing any previous one.
func (s *RedisStore) Send(ctx context.Context, phone string) (string, error) {
	phone = strings.TrimSpace(phone)
	if phone == "" {
		return "", errors.New("otp: phone is required")
	}
	if s.Deliver == nil {
		return "", ErrNoDelivery
	}
	allowed, err := s.client.SetNX(ctx, s.resendKey(phone), "1", s.resendAfter).Result()
	if err != nil {
		return "", err
	}
	if !allowed {
		return "", ErrRateLimited
	}

	code, err := generateNumericCode(s.codeDigits)
	if err != nil {
		_ = s.client.Del(ctx, s.resendKey(phone)).Err()
		return "", fmt.Errorf("generate otp code: %w", err)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(code), bcrypt.DefaultCost)
	if err != nil {
		_ = s.client.Del(ctx, s.resendKey(phone)).Err()
		return "", fmt.Errorf("hash otp code: %w", err)
	}
	c := challenge{
		SID:       "VE" + strings.ReplaceAll(uuid.NewString(), "-", ""),
		CodeHash:  string(hash),
		ExpiresAt: time.Now().UTC().Add(s.ttl),
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return "", fmt.Errorf("marshal otp challenge: %w", err)
	}
	_, err = s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Set(ctx, s.challengeKey(phone), raw, s.ttl)
		pipe.Del(ctx, s.attemptsKey(phone))
		return nil
	})
	if err != nil {
		_ = s.client.Del(ctx, s.resendKey(phone)).Err()
		return "", err
	}
	if err := s.Deliver(ctx, phone, code); err != nil {
		_ = s.client.Del(ctx, s.challengeKey(phone), s.resendKey(phone)).Err()
		return "", err
	}
	return c.SID, nil
}

// Verify checks code. Every check first takes an attempt from a counter
// shared by concurrent callers; a wrong code leaves the challenge pending
// until the counter reaches maxAttempts, a correct one consumes it.
func (s *RedisStore) Verify(ctx context.Context, phone, code string) (Result, error) {
	phone = strings.TrimSpace(phone)
	key, attemptsKey := s.challengeKey(phone), s.attemptsKey(phone)

	var incr *redis.IntCmd
	_, err := s.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		incr = pipe.Incr(ctx, attemptsKey)
		pipe.Expire(ctx, attemptsKey, s.ttl)
		return nil
	})
	if err != nil {
		return Result{}, err
	}
	attempt := int(incr.Val())
	if attempt > s.maxAttempts {
		_ = s.client.Del(ctx, key).Err()
		return Result{}, ErrExpired
	}

	raw, err := s.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return Result{}, ErrExpired
	}
	if err != nil {
		return Result{}, err
	}
	var c challenge
	if err := json.Unmarshal(raw, &c); err != nil {
		return Result{}, fmt.Errorf("unmarshal otp challenge: %w", err)
	}
	if time.Now().UTC().After(c.ExpiresAt) {
		_ = s.client.Del(ctx, key, attemptsKey).Err()
		return Result{}, ErrExpired
	}
	if bcrypt.CompareHashAndPassword([]byte(c.CodeHash), []byte(strings.TrimSpace(code))) != nil {
		if attempt >= s.maxAttempts {
			_ = s.client.Del(ctx, key).Err()
		}
		return Result{Status: StatusPending, Valid: false}, nil
	}
	if err := s.client.Del(ctx, key, attemptsKey).Err(); err != nil {
		return Result{}, err
	}
	return Result{Status: StatusApproved, Valid: true}, nil
}

// DevInbox is a Deliver hook for local development: the code is parked in
// Redis under DevInboxKey(phone) for the challenge lifetime instead of being
// sent. Codes are never written to the log.
func (s *RedisStore) DevInbox(ctx context.Context, phone, code string) error {
	key := s.DevInboxKey(phone)
	if err := s.client.Set(ctx, key, code, s.ttl).Err(); err != nil {
		return err
	}
	log.Info().Str("phone", phone).Str("inbox_key", key).Msg("otp code parked in dev inbox")
	return nil
}

// DevInboxKey is where DevInbox leaves the code for phone.
func (s *RedisStore) DevInboxKey(phone string) string {
	return fmt.Sprintf("%s:dev-inbox:%s", s.keyPrefix, strings.TrimSpace(phone))
}

func (s *RedisStore) challengeKey(phone string) string {
	return fmt.Sprintf("%s:challenge:%s", s.keyPrefix, phone)
}

func (s *RedisStore) resendKey(phone string) string {
	return fmt.Sprintf("%s:resend:%s", s.keyPrefix, phone)
}

func (s *RedisStore) attemptsKey(phone string) string {
	return fmt.Sprintf("%s:attempts:%s", s.keyPrefix, phone)
}

func generateNumericCode(digits int) (string, error) {
	var b strings.Builder
	for i := 0; i < digits; i++ {
		n, err := rand.Int(rand.Reader, big.NewInt(10))
		if err != nil {
			return "", err
		}
		b.WriteByte(byte('0' + n.Int64()))
	}
	return b.String(), nil
}

var _ Provider = (*RedisStore)(nil)
