package protocol

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"

	"github.com/zero-day-ai/pathbridge/bridgeerr"
)

const (
	// NameBound is the size of a confirmation frame and the largest cell-name
	// frame, terminator included.
	NameBound = 10

	// ResultSize is the size of a result frame.
	ResultSize = 50

	// NoSolution is the sentinel the companion sends when two cells cannot
	// be connected.
	NoSolution = "Err-NoSol"
)

// Format holds the byte bounds both ends were built with.
type Format struct {
	NameBound  int
	ResultSize int
	Sentinel   string
}

// DefaultFormat returns the bounds used by the reference companion.
func DefaultFormat() Format {
	return Format{
		NameBound:  NameBound,
		ResultSize: ResultSize,
		Sentinel:   NoSolution,
	}
}

// Validate checks that the bounds can carry the sentinel and a result.
func (f Format) Validate() error {
	if f.NameBound < 2 {
		return bridgeerr.Newf("protocol", "validate", bridgeerr.ErrCodeInvalidConfig,
			"name bound %d leaves no room for a name", f.NameBound)
	}
	if len(f.Sentinel)+1 > f.NameBound {
		return bridgeerr.Newf("protocol", "validate", bridgeerr.ErrCodeInvalidConfig,
			"sentinel %q does not fit in %d bytes", f.Sentinel, f.NameBound)
	}
	if f.ResultSize < len(f.Sentinel)+1 {
		return bridgeerr.Newf("protocol", "validate", bridgeerr.ErrCodeInvalidConfig,
			"result size %d too small", f.ResultSize)
	}
	return nil
}

// EncodeName returns the cell-name frame for name. Names that are empty,
// non-ASCII, contain a NUL or do not fit in NameBound bytes with their
// terminator are rejected as protocol violations.
func (f Format) EncodeName(name string) ([]byte, error) {
	if name == "" {
		return nil, bridgeerr.New("protocol", "encode_name", bridgeerr.ErrCodeProtocolViolation,
			"empty cell name")
	}
	if len(name)+1 > f.NameBound {
		return nil, bridgeerr.Newf("protocol", "encode_name", bridgeerr.ErrCodeProtocolViolation,
			"cell name %q needs %d bytes, bound is %d", name, len(name)+1, f.NameBound).
			WithDetails(map[string]any{"name": name, "bound": f.NameBound})
	}
	for i := 0; i < len(name); i++ {
		if name[i] == 0 || name[i] > 0x7f {
			return nil, bridgeerr.Newf("protocol", "encode_name", bridgeerr.ErrCodeProtocolViolation,
				"cell name %q is not plain ASCII", name)
		}
	}
	frame := make([]byte, len(name)+1)
	copy(frame, name)
	return frame, nil
}

// EncodeConfirmation returns text NUL padded to NameBound bytes. Text longer
// than NameBound-1 is truncated.
func (f Format) EncodeConfirmation(text string) []byte {
	return pad(text, f.NameBound)
}

// DecodeConfirmation returns the text of a confirmation frame and whether it
// is the no-solution sentinel.
func (f Format) DecodeConfirmation(frame []byte) (text string, noSolution bool) {
	text = cString(frame)
	return text, text == f.Sentinel
}

// EncodeResult returns v as a result frame. The number is written with six
// integer digits and six decimals, as the reference companion does.
func (f Format) EncodeResult(v float64) []byte {
	return pad(fmt.Sprintf("%013.6f", v), f.ResultSize)
}

// EncodeNoSolutionResult returns the sentinel as a result frame.
func (f Format) EncodeNoSolutionResult() []byte {
	return pad(f.Sentinel, f.ResultSize)
}

// DecodeResult parses a result frame. A sentinel result wraps
// bridgeerr.ErrNoSolution; anything that is not a decimal number is a
// protocol violation.
func (f Format) DecodeResult(frame []byte) (float64, error) {
	text := strings.TrimSpace(cString(frame))
	if text == f.Sentinel {
		return 0, bridgeerr.New("protocol", "decode_result", bridgeerr.ErrCodeNoSolution,
			"result frame carries the no-solution sentinel").WithCause(bridgeerr.ErrNoSolution)
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, bridgeerr.Newf("protocol", "decode_result", bridgeerr.ErrCodeProtocolViolation,
			"result frame %q is not a number", text).WithCause(err)
	}
	return v, nil
}

// cString returns the bytes of frame up to the first NUL.
func cString(frame []byte) string {
	if i := bytes.IndexByte(frame, 0); i >= 0 {
		frame = frame[:i]
	}
	return string(frame)
}

func pad(text string, size int) []byte {
	frame := make([]byte, size)
	copy(frame[:size-1], text)
	return frame
}
