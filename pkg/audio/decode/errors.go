// ABOUTME: Decoder error taxonomy
// ABOUTME: DecodeError for unparseable containers, PCMError for malformed raw fallback data
package decode

import (
	"errors"
	"fmt"
)

var (
	// ErrDecode matches every *DecodeError
	ErrDecode = errors.New("audio decode failed")

	// ErrPCM matches every *PCMError
	ErrPCM = errors.New("malformed raw pcm")

	// ErrUnsupportedFormat is wrapped when no container signature matches
	ErrUnsupportedFormat = errors.New("unrecognized audio container")
)

// DecodeError reports bytes that could not be parsed as a container
type DecodeError struct {
	Format string
	Err    error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("%s decode failed: %v", e.Format, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

// Is lets errors.Is(err, ErrDecode) match any DecodeError
func (e *DecodeError) Is(target error) bool {
	return target == ErrDecode
}

// PCMError reports raw fallback data that is not whole 16-bit samples
type PCMError struct {
	Length int
}

func (e *PCMError) Error() string {
	return fmt.Sprintf("raw pcm length %d is not a multiple of 2", e.Length)
}

// Is lets errors.Is(err, ErrPCM) match any PCMError
func (e *PCMError) Is(target error) bool {
	return target == ErrPCM
}

func newDecodeError(format string, err error) *DecodeError {
	if err == nil {
		err = errors.New("invalid data")
	}
	return &DecodeError{Format: format, Err: err}
}
