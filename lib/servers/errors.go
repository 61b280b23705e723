package servers

import "errors"

var ErrNotFound = errors.New("server not found")
