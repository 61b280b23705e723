package volumes

import "errors"

var ErrNotFound = errors.New("volume not found")
