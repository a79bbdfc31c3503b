package sample

import (
	"errors"
	"strings"
	"testing"

	"github.com/getsentry/frameinfo/internal/errorutil"
	"github.com/getsentry/frameinfo/internal/frameinfo"
	"github.com/getsentry/frameinfo/internal/testutil"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  []Stack
	}{
		{
			name:  "empty input",
			input: "",
			want:  nil,
		},
		{
			name: "one stack per line",
			input: `{"thread_id":1,"frames":[{"method_id":"42","bci":7,"line_number":100},{"method_id":43,"bci":0,"line_number":12}]}
{"thread_id":2,"frames":[{"method_id":"42","bci":7,"line_number":100}]}`,
			want: []Stack{
				{
					ThreadID: 1,
					Frames: []Frame{
						{Method: 42, Bci: 7, Line: 100},
						{Method: 43, Bci: 0, Line: 12},
					},
				},
				{
					ThreadID: 2,
					Frames: []Frame{
						{Method: 42, Bci: 7, Line: 100},
					},
				},
			},
		},
		{
			name:  "bci only frame",
			input: `{"thread_id":3,"frames":[{"method_id":"7","bci":12}]}`,
			want: []Stack{
				{
					ThreadID: 3,
					Frames: []Frame{
						{Method: 7, Bci: 12, Line: frameinfo.Unavailable},
					},
				},
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []Stack
			err := Decode(strings.NewReader(tt.input), func(s Stack) error {
				got = append(got, s)
				return nil
			})
			if err != nil {
				t.Fatalf("we should be able to decode: %v", err)
			}
			if diff := testutil.Diff(got, tt.want); diff != "" {
				t.Fatalf("Result mismatch: got - want +\n%s", diff)
			}
		})
	}
}

func TestDecodeInvalid(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{name: "missing method id", input: `{"thread_id":1,"frames":[{"bci":1,"line_number":2}]}`},
		{name: "syntax error", input: `{"thread_id":1,"frames":[}]}`},
		{name: "wrong type", input: `{"thread_id":"one"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Decode(strings.NewReader(tt.input), func(s Stack) error {
				return nil
			})
			if !errors.Is(err, errorutil.ErrDataIntegrity) {
				t.Fatalf("expected a data integrity error, got %v", err)
			}
		})
	}
}

func TestDecodeCallbackError(t *testing.T) {
	stop := errors.New("stop")
	calls := 0
	input := `{"thread_id":1,"frames":[]} {"thread_id":2,"frames":[]}`
	err := Decode(strings.NewReader(input), func(s Stack) error {
		calls++
		return stop
	})
	if !errors.Is(err, stop) {
		t.Fatalf("expected the callback error, got %v", err)
	}
	if calls != 1 {
		t.Fatalf("expected decoding to stop after 1 stack, got %d", calls)
	}
}

func TestStackFrameInfos(t *testing.T) {
	s := Stack{
		ThreadID: 1,
		Frames: []Frame{
			{Method: 1, Bci: 2, Line: 3},
			{Method: 4, Bci: frameinfo.Unavailable, Line: 6},
		},
	}
	want := []frameinfo.FrameInfo{
		frameinfo.New(1, 2, 3),
		frameinfo.New(4, frameinfo.Unavailable, 6),
	}
	if diff := testutil.Diff(s.FrameInfos(), want); diff != "" {
		t.Fatalf("Result mismatch: got - want +\n%s", diff)
	}
}

func TestStackFingerprint(t *testing.T) {
	a := Stack{ThreadID: 1, Frames: []Frame{{Method: 1, Bci: 2, Line: 3}, {Method: 4, Bci: 5, Line: 6}}}
	b := Stack{ThreadID: 2, Frames: []Frame{{Method: 1, Bci: 2, Line: 3}, {Method: 4, Bci: 5, Line: 6}}}
	c := Stack{ThreadID: 1, Frames: []Frame{{Method: 4, Bci: 5, Line: 6}, {Method: 1, Bci: 2, Line: 3}}}

	if a.Fingerprint() != b.Fingerprint() {
		t.Fatal("stacks with the same frames should share a fingerprint")
	}
	if a.Fingerprint() == c.Fingerprint() {
		t.Fatal("frame order should change the fingerprint")
	}
}
