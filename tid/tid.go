package tid

import (
	"github.com/bluesky-social/indigo/atproto/syntax"
)

var c syntax.TIDClock = syntax.NewTIDClock(0)

// TID returns a monotonically increasing timestamp identifier,
// suitable for use as an atproto record key.
func TID() string {
	return c.Next().String()
}
