package messaging

import "errors"

var (
	// ErrValidation wraps malformed or incomplete input.
	ErrValidation = errors.New("invalid input")

	// ErrRecipientNotFound is returned when the recipient user does not
	// exist.
	ErrRecipientNotFound = errors.New("recipient not found")

	// ErrInvalidRecipient is returned when messaging a user of the same
	// role; patients talk to doctors and doctors to patients.
	ErrInvalidRecipient = errors.New("cannot message this user")
)
