package overlay

import (
	"context"

	"screen-region-reader/src/screenshot"
)

// Selector defines a synchronous region-selection API.
// Returns (region, cancelled, error). If cancelled is true, region is undefined and err is nil.
// A zero-area selection is reported as cancelled.
type Selector interface {
	Select(ctx context.Context) (screenshot.Region, bool, error)
}
