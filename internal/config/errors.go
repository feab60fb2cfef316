package config

import "errors"

// ErrUnknownLevel is returned for a MOXY_LOG_LEVEL slog does not know.
var ErrUnknownLevel = errors.New("unknown log level")
