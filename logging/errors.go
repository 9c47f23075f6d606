package logging

import "errors"

// ErrInvalidLevel indicates the log level string is not recognized.
var ErrInvalidLevel = errors.New("logging: invalid level")
