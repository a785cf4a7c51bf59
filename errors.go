package mandel

import "errors"

// ErrInvalidArgument is returned for a request the core cannot serve:
// non-positive resolution or zoom factor, invalid iteration parameters
// or a degenerate region. The request is aborted and no state changes.
var ErrInvalidArgument = errors.New("invalid argument")
