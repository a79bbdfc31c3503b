package types

import (
	"strconv"

	gojson "github.com/goccy/go-json"
)

type (
	// Int64 is encoded as a JSON string to keep full precision for readers
	// parsing numbers as doubles.
	Int64 int64
)

func (i Int64) MarshalJSON() ([]byte, error) {
	return gojson.Marshal(strconv.FormatInt(int64(i), 10))
}

func (i *Int64) UnmarshalJSON(b []byte) error {
	if len(b) == 0 {
		return nil
	}
	var s string
	if b[0] == '"' {
		err := gojson.Unmarshal(b, &s)
		if err != nil {
			return err
		}
	} else {
		s = string(b)
	}
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return err
	}
	*i = Int64(v)
	return nil
}
