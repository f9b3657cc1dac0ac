package service

import (
	"errors"
	"fmt"
	"strings"
)

var (
	ErrSellerNotFound     = errors.New("seller not found")
	ErrSellerNotPayable   = errors.New("seller has no connected stripe account")
	ErrBundleNotFound     = errors.New("bundle not found")
	ErrEmptyBundleContent = errors.New("bundle has no content")
	ErrMalformedEvent     = errors.New("malformed webhook event")
)

// MissingMetadataError means the checkout was created without the
// correlation keys purchase processing needs.
type MissingMetadataError struct {
	SessionID string
	Keys      []string
}

func (e *MissingMetadataError) Error() string {
	return fmt.Sprintf("checkout session %s: missing metadata %s", e.SessionID, strings.Join(e.Keys, ", "))
}

// GatewayVerificationError wraps a failed re-fetch of a checkout session
// from Stripe, or an authoritative session that does not match the event.
type GatewayVerificationError struct {
	SessionID string
	AccountID string
	Retriable bool
	Reason    string
	Err       error
}

func (e *GatewayVerificationError) Error() string {
	msg := fmt.Sprintf("verify checkout session %s on %s", e.SessionID, e.AccountID)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

func (e *GatewayVerificationError) Unwrap() error { return e.Err }

// IsRetriable reports whether the failed operation may succeed when the
// webhook is delivered again. Only transient gateway failures and errors
// that are not part of the purchase failure taxonomy (store outages) are.
func IsRetriable(err error) bool {
	if err == nil {
		return false
	}
	var gwErr *GatewayVerificationError
	if errors.As(err, &gwErr) {
		return gwErr.Retriable
	}
	var metaErr *MissingMetadataError
	switch {
	case errors.As(err, &metaErr),
		errors.Is(err, ErrSellerNotFound),
		errors.Is(err, ErrSellerNotPayable),
		errors.Is(err, ErrBundleNotFound),
		errors.Is(err, ErrEmptyBundleContent),
		errors.Is(err, ErrMalformedEvent):
		return false
	}
	return true
}
