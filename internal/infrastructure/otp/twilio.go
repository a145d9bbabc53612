package otp

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"
)

const twilioVerifyBase = "https://verify.twilio.com/v2"

// TwilioVerify is a Provider backed by the Twilio Verify REST API.
type TwilioVerify struct {
	AccountSID string
	AuthToken  string
	ServiceSID string
	BaseURL    string // defaults to the public API
	Client     *http.Client
}

type twilioVerification struct {
	SID    string `json:"sid"`
	Status string `json:"status"`
	Valid  bool   `json:"valid"`
}

// Send starts an SMS verification and returns its sid.
func (t *TwilioVerify) Send(ctx context.Context, phone string) (string, error) {
	form := url.Values{"To": {phone}, "Channel": {"sms"}}
	var v twilioVerification
	if err := t.post(ctx, "Verifications", form, &v); err != nil {
		return "", err
	}
	return v.SID, nil
}

// Verify checks code against the pending verification of phone.
// Twilio answers 404 once the verification expired or was already approved.
func (t *TwilioVerify) Verify(ctx context.Context, phone, code string) (Result, error) {
	form := url.Values{"To": {phone}, "Code": {code}}
	var v twilioVerification
	if err := t.post(ctx, "VerificationCheck", form, &v); err != nil {
		return Result{}, err
	}
	return Result{Status: v.Status, Valid: v.Valid}, nil
}

func (t *TwilioVerify) post(ctx context.Context, resource string, form url.Values, out interface{}) error {
	if t.AccountSID == "" || t.AuthToken == "" || t.ServiceSID == "" {
		return fmt.Errorf("twilio: credentials are not set")
	}
	if t.Client == nil {
		t.Client = &http.Client{Timeout: 10 * time.Second}
	}
	base := t.BaseURL
	if base == "" {
		base = twilioVerifyBase
	}
	endpoint := fmt.Sprintf("%s/Services/%s/%s", strings.TrimRight(base, "/"), t.ServiceSID, resource)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return err
	}
	req.SetBasicAuth(t.AccountSID, t.AuthToken)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := t.Client.Do(req)
	if err != nil {
		return fmt.Errorf("twilio request: %w", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode == http.StatusNotFound {
		return ErrExpired
	}
	if resp.StatusCode == http.StatusTooManyRequests {
		return ErrRateLimited
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("twilio error: status %d body: %s", resp.StatusCode, string(body))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("twilio response decode: %w", err)
	}
	return nil
}

var _ Provider = (*TwilioVerify)(nil)
