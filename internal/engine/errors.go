package engine

import "errors"

var ErrInvalidConfiguration = errors.New("role counts incompatible with player count")
var ErrIneligibleSubmitter = errors.New("submitter is eliminated, spectating, or unknown")
var ErrPhaseMismatch = errors.New("command does not apply to the current phase")
var ErrStaleVersion = errors.New("commit based on a stale snapshot version")
var ErrNotAuthority = errors.New("only the host may commit phase transitions")
var ErrUnsupportedCommand = errors.New("unsupported command")
