package auth

import "errors"

var (
	// ErrEmailTaken rejects an OTP request for an already-registered email.
	ErrEmailTaken = errors.New("email already registered")
	// ErrOTPNotFound indicates no pending challenge exists for the email.
	ErrOTPNotFound = errors.New("otp expired or not found")
	// ErrOTPMismatch indicates the submitted code does not match the
	// pending challenge. The challenge is retained so the caller may retry.
	ErrOTPMismatch = errors.New("invalid otp")
	// ErrOTPExpired indicates the challenge outlived its window; it is
	// removed even when the code matched.
	ErrOTPExpired = errors.New("otp expired")
	// ErrDeliveryFailed indicates the mailer could not deliver the code.
	ErrDeliveryFailed = errors.New("otp delivery failed")
)
