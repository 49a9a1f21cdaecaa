package agent

import (
	"errors"
	"fmt"
)

// Completion failure classes. Every error returned by Client.Complete matches
// exactly one of ErrUnreachable, ErrRemote or ErrMalformedResponse.
var (
	ErrUnreachable       = errors.New("completion endpoint unreachable")
	ErrRemote            = errors.New("completion endpoint error")
	ErrMalformedResponse = errors.New("malformed completion response")
	ErrMissingCredential = errors.New("missing API credential")
)

// RemoteError is returned for a non-success HTTP status. Message comes from
// the error body when present, otherwise it names the status code.
type RemoteError struct {
	StatusCode int
	Message    string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("%s: %s", ErrRemote, e.Message)
}

// Is matches ErrRemote.
func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}
