package testutil

import (
	"math"

	"github.com/google/go-cmp/cmp"

	"github.com/getsentry/frameinfo/internal/frameinfo"
)

var (
	alwaysEqual       = cmp.Comparer(func(_, _ interface{}) bool { return true })
	defaultCmpOptions = []cmp.Option{
		// NaNs compare equal
		cmp.FilterValues(func(x, y float64) bool {
			return math.IsNaN(x) && math.IsNaN(y)
		}, alwaysEqual),
		cmp.Comparer(func(x, y frameinfo.FrameInfo) bool {
			return x.Equal(y)
		}),
	}
)

func Diff(a, b interface{}, opts ...cmp.Option) string {
	opts = append(opts, defaultCmpOptions...)
	return cmp.Diff(a, b, opts...)
}
