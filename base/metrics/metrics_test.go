package metrics

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseTag(t *testing.T) {
	req := require.New(t)
	req.Nil(parseTag(nil))
	req.Equal([]string{"kind:InvalidPrice", "op:list"}, parseTag([]string{"kind", "InvalidPrice", "op", "list"}))
	req.Panics(func() { parseTag([]string{"dangling"}) })
}

func TestBumpWithoutAgent(t *testing.T) {
	req := require.New(t)
	met := New("test")

	req.NotPanics(func() {
		met.BumpSum("listing.created", 1)
		met.BumpAvg("price", 2.5, "currency", "eth")
		met.BumpHistogram("bytes", 10)
		met.BumpTime("op.time", "op", "list").End()
	})

	// odd tags are swallowed by the recover guard
	req.NotPanics(func() {
		met.BumpSum("listing.created", 1, "dangling")
		met.BumpTime("op.time", "dangling").End()
	})
}
