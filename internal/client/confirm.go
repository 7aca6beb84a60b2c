package client

import "errors"

// ErrCancelled reports that the operator backed out of a destructive
// action. It is distinct from a failure: nothing was attempted.
var ErrCancelled = errors.New("cancelled by operator")

// ConfirmToken is the literal the operator must type to arm a delete.
// The comparison is case-sensitive: "delete" does not arm.
const ConfirmToken = "DELETE"

// ConfirmedDelete runs do only when the operator both confirmed and
// typed the arming token exactly. Any other combination returns
// ErrCancelled without calling do, so no request is ever made for a
// backed-out delete.
func ConfirmedDelete(confirmed bool, typedToken string, do func() error) error {
	if !confirmed || typedToken != ConfirmToken {
		return ErrCancelled
	}
	return do()
}
