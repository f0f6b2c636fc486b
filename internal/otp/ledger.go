// Package otp keeps the short-lived password-reset records. At most one
// record exists per email: issuing a new code overwrites the previous key.
package otp

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

// ErrNotFound indicates no live record exists for the email.
var ErrNotFound = errors.New("otp: no record for email")

// graceTTL keeps a logically expired record readable long enough for the
// protocol to classify it as expired (and delete it) before redis evicts it.
const graceTTL = time.Minute

// Record maps an email to a one-time code or, after the code is consumed by
// validation, a single-use reset token. The two never coexist.
type Record struct {
	Email      string    `json:"email"`
	Code       string    `json:"code"`
	ResetToken string    `json:"reset_token,omitempty"`
	ExpiresAt  time.Time `json:"expires_at"`
}

// Ledger stores OTP records in redis, keyed by email.
type Ledger struct {
	client *redis.Client
	ttl    time.Duration
}

// NewLedger constructs a Ledger issuing records valid for ttl.
func NewLedger(client *redis.Client, ttl time.Duration) *Ledger {
	return &Ledger{client: client, ttl: ttl}
}

// TTL reports the logical validity window of issued records.
func (l *Ledger) TTL() time.Duration {
	return l.ttl
}

func key(email string) string { return "otp:" + email }

// Issue replaces any live record for the email with a fresh code.
func (l *Ledger) Issue(ctx context.Context, email, code string) (Record, error) {
	rec := Record{Email: email, Code: code, ExpiresAt: time.Now().Add(l.ttl)}
	if err := l.put(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Get returns the live record for the email, or ErrNotFound.
func (l *Ledger) Get(ctx context.Context, email string) (Record, error) {
	raw, err := l.client.Get(ctx, key(email)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Record{}, ErrNotFound
	}
	if err != nil {
		return Record{}, err
	}

	var rec Record
	if err := json.Unmarshal(raw, &rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Promote consumes the code and stores the reset token in its place, keeping
// the record's original expiry. The code cannot validate a second time.
func (l *Ledger) Promote(ctx context.Context, rec Record, resetToken string) (Record, error) {
	rec.Code = ""
	rec.ResetToken = resetToken
	if err := l.put(ctx, rec); err != nil {
		return Record{}, err
	}
	return rec, nil
}

// Delete removes the record for the email. Deleting an absent record is not
// an error.
func (l *Ledger) Delete(ctx context.Context, email string) error {
	return l.client.Del(ctx, key(email)).Err()
}

func (l *Ledger) put(ctx context.Context, rec Record) error {
	payload, err := json.Marshal(rec)
	if err != nil {
		return err
	}

	ttl := time.Until(rec.ExpiresAt) + graceTTL
	if ttl <= 0 {
		ttl = graceTTL
	}
	return l.client.Set(ctx, key(rec.Email), payload, ttl).Err()
}
