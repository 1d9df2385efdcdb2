package hook

import "errors"

// ErrCallback is returned when a registered callback fails.
var ErrCallback = errors.New("hook: callback failed")
