package model

import (
	"errors"
	"fmt"
)

type ErrorKind string

const (
	KindInvalidEvidence         ErrorKind = "InvalidEvidence"
	KindOracleTimeout           ErrorKind = "OracleTimeout"
	KindOracleMalformedResponse ErrorKind = "OracleMalformedResponse"
	KindInvalidClaimCount       ErrorKind = "InvalidClaimCount"
	KindIncompleteFindings      ErrorKind = "IncompleteFindings"
)

var (
	ErrInvalidEvidence         = errors.New("invalid evidence")
	ErrOracleTimeout           = errors.New("oracle timeout")
	ErrOracleMalformedResponse = errors.New("oracle malformed response")
	ErrInvalidClaimCount       = errors.New("invalid claim count")
	ErrIncompleteFindings      = errors.New("incomplete findings")
)

var sentinels = map[ErrorKind]error{
	KindInvalidEvidence:         ErrInvalidEvidence,
	KindOracleTimeout:           ErrOracleTimeout,
	KindOracleMalformedResponse: ErrOracleMalformedResponse,
	KindInvalidClaimCount:       ErrInvalidClaimCount,
	KindIncompleteFindings:      ErrIncompleteFindings,
}

// VerificationError carries a taxonomy kind and a human-readable reason.
// errors.Is matches it against the sentinel for its kind.
type VerificationError struct {
	Kind   ErrorKind
	Reason string
	Err    error
}

func NewError(kind ErrorKind, reason string, err error) *VerificationError {
	return &VerificationError{Kind: kind, Reason: reason, Err: err}
}

func (e *VerificationError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Reason)
}

func (e *VerificationError) Unwrap() error {
	return e.Err
}

func (e *VerificationError) Is(target error) bool {
	return sentinels[e.Kind] == target
}

// Fatal reports whether the kind aborts a run.
func (k ErrorKind) Fatal() bool {
	return k == KindInvalidClaimCount || k == KindIncompleteFindings
}
