package sample

import (
	"errors"
	"fmt"
	"hash/fnv"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/getsentry/frameinfo/internal/errorutil"
	"github.com/getsentry/frameinfo/internal/frameinfo"
	"github.com/getsentry/frameinfo/internal/types"
)

type (
	// Frame is a sampled frame as reported by the profiling agent.
	Frame struct {
		Method types.Int64 `json:"method_id"`
		Bci    int32       `json:"bci"`
		Line   int32       `json:"line_number"`
	}

	// Stack holds the frames of one sample, leaf first.
	Stack struct {
		ThreadID uint64  `json:"thread_id"`
		Frames   []Frame `json:"frames"`
	}
)

func (f Frame) MethodID() int64 {
	return int64(f.Method)
}

func (f Frame) BCI() int32 {
	return f.Bci
}

func (f Frame) LineNumber() int32 {
	return f.Line
}

func (f *Frame) UnmarshalJSON(b []byte) error {
	var raw struct {
		Method *types.Int64 `json:"method_id"`
		Bci    *int32       `json:"bci"`
		Line   *int32       `json:"line_number"`
	}
	if err := gojson.Unmarshal(b, &raw); err != nil {
		return err
	}
	if raw.Method == nil {
		return fmt.Errorf("sample: %w: frame without method_id", errorutil.ErrDataIntegrity)
	}
	*f = Frame{
		Method: *raw.Method,
		Bci:    frameinfo.Unavailable,
		Line:   frameinfo.Unavailable,
	}
	if raw.Bci != nil {
		f.Bci = *raw.Bci
	}
	if raw.Line != nil {
		f.Line = *raw.Line
	}
	return nil
}

func (s Stack) FrameInfos() []frameinfo.FrameInfo {
	infos := make([]frameinfo.FrameInfo, 0, len(s.Frames))
	for _, f := range s.Frames {
		infos = append(infos, frameinfo.FromStackFrame(f))
	}
	return infos
}

// Fingerprint identifies the call path of the stack, regardless of the thread
// it was sampled on.
func (s Stack) Fingerprint() uint64 {
	h := fnv.New64()
	for _, f := range s.Frames {
		frameinfo.FromStackFrame(f).WriteToHash(h)
	}
	return h.Sum64()
}

// Decode reads consecutive JSON stacks from r and calls fn for each of them.
// It stops at the first error returned by fn.
func Decode(r io.Reader, fn func(Stack) error) error {
	d := gojson.NewDecoder(r)
	for i := 0; ; i++ {
		var s Stack
		err := d.Decode(&s)
		if errors.Is(err, io.EOF) {
			return nil
		}
		if err != nil {
			if errors.Is(err, errorutil.ErrDataIntegrity) {
				return fmt.Errorf("stack %d: %w", i, err)
			}
			return fmt.Errorf("sample: %w: stack %d: %v", errorutil.ErrDataIntegrity, i, err)
		}
		if err := fn(s); err != nil {
			return err
		}
	}
}
