package types

import "errors"

// Error categories. Concrete errors wrap one of these so callers can tell them apart with errors.Is.
var (
	// ErrConfig is a configuration error, raised before any transaction is sent.
	ErrConfig = errors.New("configuration error")
	// ErrSetup is raised while constructing a generator: unreadable account list, unreachable node,
	// rejected or reverted bootstrap transactions.
	ErrSetup = errors.New("setup error")
	// ErrGeneration indicates a defect while building a transaction, e.g. an oversized parameter.
	ErrGeneration = errors.New("generation error")
	// ErrSubmission is a transport failure while submitting a transaction. Submission is never retried.
	ErrSubmission = errors.New("submission error")
)
