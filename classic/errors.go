package classic

import (
	"errors"

	"github.com/libdriver/mifare-classic/frame"
)

// Kind classifies an error into the coarse-grained taxonomy the original C
// driver exposed as numeric status codes (spec §7). Callers that want the
// old switch-on-status-code ergonomics can call KindOf(err); callers that
// just want idiomatic Go should prefer errors.Is against the sentinels
// below.
type Kind uint8

const (
	KindOK Kind = iota
	KindContactlessFailed
	KindNotInitialized
	KindOutputLenInvalid
	KindCRCError
	KindBCCCheckError
	KindSAKError
	KindTypeInvalid
	KindAckError
	KindInvalidOperation
	KindValueInvalid
	KindBlockInvalid
	KindDataInvalid
	KindTimeout
	KindTrailerBlock
)

// Sentinel errors. frame's own sentinels (ErrOutputLenInvalid, ErrCRC,
// ErrBCCMismatch, ErrSAK, ErrTypeInvalid, ErrNak, ErrInvalidOperation) are
// re-exported so callers never need to import frame just to match on
// errors.Is; classic returns them unwrapped as they surface. Only
// transport failures are wrapped, as ErrContactlessFailed.
var (
	ErrNotInitialized    = errors.New("classic: handle not initialized")
	ErrContactlessFailed = errors.New("classic: contactless transport failed")
	ErrValueInvalid      = errors.New("classic: value block redundancy check failed")
	ErrBlockInvalid      = errors.New("classic: value block address check failed")
	ErrDataInvalid       = errors.New("classic: access bits redundancy check failed")
	ErrTimeout           = errors.New("classic: search exhausted its retry budget")
	ErrTrailerBlock      = errors.New("classic: operation not permitted on a sector trailer block")

	ErrOutputLenInvalid = frame.ErrOutputLenInvalid
	ErrCRC              = frame.ErrCRC
	ErrBCCMismatch      = frame.ErrBCCMismatch
	ErrSAK              = frame.ErrSAK
	ErrTypeInvalid      = frame.ErrTypeInvalid
	ErrNak              = frame.ErrNak
	ErrInvalidOperation = frame.ErrInvalidOperation
)

// KindOf maps err to its Kind by walking errors.Is against every sentinel
// above. It returns KindOK for a nil error and KindContactlessFailed for
// any error this package doesn't recognize, since an opaque transport
// error is the most common unrecognized case.
func KindOf(err error) Kind {
	switch {
	case err == nil:
		return KindOK
	case errors.Is(err, ErrNotInitialized):
		return KindNotInitialized
	case errors.Is(err, ErrOutputLenInvalid):
		return KindOutputLenInvalid
	case errors.Is(err, ErrCRC):
		return KindCRCError
	case errors.Is(err, ErrBCCMismatch):
		return KindBCCCheckError
	case errors.Is(err, ErrSAK):
		return KindSAKError
	case errors.Is(err, ErrTypeInvalid):
		return KindTypeInvalid
	case errors.Is(err, ErrInvalidOperation):
		return KindInvalidOperation
	case errors.Is(err, ErrNak):
		return KindAckError
	case errors.Is(err, ErrValueInvalid):
		return KindValueInvalid
	case errors.Is(err, ErrBlockInvalid):
		return KindBlockInvalid
	case errors.Is(err, ErrDataInvalid):
		return KindDataInvalid
	case errors.Is(err, ErrTimeout):
		return KindTimeout
	case errors.Is(err, ErrTrailerBlock):
		return KindTrailerBlock
	default:
		return KindContactlessFailed
	}
}
