package frameinfo

import (
	"fmt"

	gojson "github.com/goccy/go-json"

	"github.com/getsentry/frameinfo/internal/errorutil"
	"github.com/getsentry/frameinfo/internal/types"
)

type jsonFrameInfo struct {
	MethodID types.Int64 `json:"method_id"`
	BCI      int32       `json:"bci"`
	LineNr   int32       `json:"line_number"`
}

func (f FrameInfo) MarshalJSON() ([]byte, error) {
	return gojson.Marshal(jsonFrameInfo{
		MethodID: types.Int64(f.methodID),
		BCI:      f.bci,
		LineNr:   f.lineNr,
	})
}

// UnmarshalJSON requires a method_id and treats a missing bci or line_number
// as Unavailable.
func (f *FrameInfo) UnmarshalJSON(b []byte) error {
	var raw struct {
		MethodID gojson.RawMessage `json:"method_id"`
		BCI      *int32            `json:"bci"`
		LineNr   *int32            `json:"line_number"`
	}
	if err := gojson.Unmarshal(b, &raw); err != nil {
		return err
	}
	if len(raw.MethodID) == 0 || string(raw.MethodID) == "null" {
		return fmt.Errorf("frameinfo: %w: frame without method_id", errorutil.ErrDataIntegrity)
	}
	var methodID types.Int64
	if err := gojson.Unmarshal(raw.MethodID, &methodID); err != nil {
		return fmt.Errorf("frameinfo: %w: invalid method_id: %v", errorutil.ErrDataIntegrity, err)
	}
	*f = New(int64(methodID), Unavailable, Unavailable)
	if raw.BCI != nil {
		f.bci = *raw.BCI
	}
	if raw.LineNr != nil {
		f.lineNr = *raw.LineNr
	}
	return nil
}
