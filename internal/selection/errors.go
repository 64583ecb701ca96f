package selection

import "errors"

var errClosed = errors.New("dispatch channel closed without a result")
