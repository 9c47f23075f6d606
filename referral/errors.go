package referral

import "errors"

// ErrServiceClosed indicates the service was used after Close.
var ErrServiceClosed = errors.New("referral: service closed")
