package calculation

import (
	"github.com/nestegg/nestegg/internal/domain"
)

// ResolveBucket returns the assumption bucket whose age range contains the
// given age. Buckets are assumed non-overlapping, so the first match wins.
// A gap in coverage returns ok=false; the projection loop skips that year
// entirely rather than failing, so scenarios must tile the full age range to
// avoid silent holes in the output.
func ResolveBucket(buckets []domain.AssumptionBucket, age int) (domain.AssumptionBucket, bool) {
	for _, b := range buckets {
		if b.Contains(age) {
			return b, true
		}
	}
	return domain.AssumptionBucket{}, false
}
