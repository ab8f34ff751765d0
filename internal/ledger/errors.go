package ledger

import "errors"

var (
	// ErrNotFound is returned by lookups of an unknown account or transaction id.
	ErrNotFound = errors.New("not found")

	// ErrAccountNotFound is returned when a transaction references an unknown account
	// and the service rejects orphans.
	ErrAccountNotFound = errors.New("account not found")

	// ErrRecognitionFailed means the receipt recognizer could not be reached or gave up.
	ErrRecognitionFailed = errors.New("receipt recognition failed")

	// ErrMalformedReceipt means the file could not be read as a receipt.
	ErrMalformedReceipt = errors.New("malformed receipt")
)
