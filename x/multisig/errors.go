package multisig

import (
	"github.com/bhau7233/MSig/errors"
)

// multisig reserves codes 1030-1039
var (
	ErrInvalidConfig      = errors.Register(1030, "invalid configuration")
	ErrInvalidDestination = errors.Register(1031, "invalid destination")
	ErrInsufficientFunds  = errors.Register(1032, "insufficient funds")
	ErrAlreadyConfirmed   = errors.Register(1033, "already confirmed")
	ErrNotConfirmed       = errors.Register(1034, "not confirmed")
	ErrAlreadyExecuted    = errors.Register(1035, "already executed")
	ErrQuorum             = errors.Register(1036, "quorum not reached")
)
