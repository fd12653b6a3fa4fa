package admin

import "errors"

var (
	// ErrNotFound is returned when the targeted user or doctor does not
	// exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidStatus is returned when setting a doctor status other than
	// active or inactive.
	ErrInvalidStatus = errors.New("status must be active or inactive")

	// ErrSelfDelete is returned when an admin tries to delete their own
	// account.
	ErrSelfDelete = errors.New("cannot delete your own account")
)
