// Package otp sends and checks one-time phone verification codes.
package otp

import (
	"context"
	"errors"
)

// Statuses reported by Verify.
const (
	StatusPending  = "pending"
	StatusApproved = "approved"
)

var (
	// ErrExpired means there is no live verification for the number.
	ErrExpired = errors.New("otp: verification expired or not found")
	// ErrRateLimited means a code was sent too recently.
	ErrRateLimited = errors.New("otp: too many requests")
)

// Result is the outcome of a verification check.
type Result struct {
	Status string `json:"status"`
	Valid  bool   `json:"valid"`
}

// Provider sends a code to a full phone number (with country code) and
// checks codes against it.
type Provider interface {
	Send(ctx context.Context, phone string) (sid string, err error)
	Verify(ctx context.Context, phone, code string) (Result, error)
}
