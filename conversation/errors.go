package conversation

import "errors"

// Sentinel errors for conversation mutations and decoding.
var (
	ErrEmptyText      = errors.New("message text is empty")
	ErrInvalidAuthor  = errors.New("invalid message author")
	ErrNonMonotonicID = errors.New("message id is not strictly increasing")
	ErrDecodeFailed   = errors.New("decode failed")
)
