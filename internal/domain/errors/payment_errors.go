package errors

import "errors"

var (
	// ErrAttemptNotFound indicates that no payment attempt matches the given id
	ErrAttemptNotFound = errors.New("payment attempt not found")

	// ErrAttemptAlreadyFailed indicates activation was requested for an
	// attempt that already failed terminally
	ErrAttemptAlreadyFailed = errors.New("payment attempt already failed")

	// ErrActivationConflict indicates the transactional activation lost a
	// concurrent conflict and rolled back; the attempt stays pending so a
	// later poll or callback can retry
	ErrActivationConflict = errors.New("activation transaction conflict")

	// ErrPaymentStillProcessing indicates the poll ceiling was reached with
	// no terminal result; the attempt stays pending and a late callback may
	// still complete it
	ErrPaymentStillProcessing = errors.New("payment still processing")

	// ErrProviderNotFound indicates the identity store has no record for the provider
	ErrProviderNotFound = errors.New("provider not found")
)
