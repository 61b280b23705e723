package attachments

import "errors"

var (
	ErrNotFound        = errors.New("attachment not found")
	ErrMissingVolume   = errors.New("missing volume id")
	ErrAlreadyAttached = errors.New("volume already attached to server")
)
