package keys

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRedisKey(t *testing.T) {
	assert.Equal(t, "listing:0xabc:1", RedisKey(PfxListing, "0xabc", "1"))
	assert.Equal(t, "a", RedisKey("a"))
}

func TestGetPrefix(t *testing.T) {
	assert.Equal(t, "listing", GetPrefix("listing:1"))
	assert.Equal(t, "listing:0xabc", GetPrefix("listing:0xabc:1"))
	assert.Equal(t, "", GetPrefix("listing"))
}
