package errs

import "fmt"

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidRequestBody = Error("invalid request body")
	ErrInvalidParams      = Error("invalid params")
	ErrUserNotFound       = Error("user not found")
	ErrWrongPassword      = Error("wrong password")
	ErrInvalidToken       = Error("invalid token")
	ErrUnauthorized       = Error("unauthorized")
	ErrTokenNotFound      = Error("token not found")

	ErrEmptyPartnerID       = Error("conversation partner id is empty")
	ErrEmptyMessage         = Error("message is empty")
	ErrMessageTooLong       = Error("message is too long")
	ErrSendInFlight         = Error("a message is already being sent")
	ErrViewNotMounted       = Error("conversation view is not mounted")
	ErrViewAlreadyMounted   = Error("conversation view is already mounted")
	ErrConversationNotFound = Error("conversation not found")
	ErrSelfConversation     = Error("cannot open a conversation with yourself")
	ErrEmptyResponse        = Error("empty conversation response")
)

// StatusError is returned for non-2xx responses from the messaging service.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("%s %s: unexpected status %d: %s", e.Method, e.Path, e.Code, e.Body)
}
