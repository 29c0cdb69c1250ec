package frame

import "errors"

// Sentinel errors returned by the parse functions in this package. classic
// returns these to its callers unwrapped; callers that need the coarse
// taxonomy from the driver's original status codes can match against
// these directly with errors.Is.
var (
	// ErrOutputLenInvalid means a response's length did not match what
	// the command's framing requires.
	ErrOutputLenInvalid = errors.New("frame: output length invalid")

	// ErrCRC means a response's CRC_A did not verify.
	ErrCRC = errors.New("frame: crc mismatch")

	// ErrBCCMismatch means an anticollision response's BCC byte did not
	// equal the XOR of its four UID bytes.
	ErrBCCMismatch = errors.New("frame: bcc mismatch")

	// ErrSAK means a SELECT response carried an unrecognized SAK value.
	ErrSAK = errors.New("frame: unexpected sak value")

	// ErrTypeInvalid means an ATQA response didn't match S50 or S70.
	ErrTypeInvalid = errors.New("frame: unrecognized atqa")

	// ErrNak means an ACK response nibble was neither 0xA nor 0x4.
	ErrNak = errors.New("frame: nak")

	// ErrInvalidOperation means an arithmetic command's ACK nibble was
	// 0x4: the access bits forbid the operation.
	ErrInvalidOperation = errors.New("frame: invalid operation")
)
