package cache

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisKeyParserRoundTrip(t *testing.T) {
	parser := RedisKeyParser{delimiter: "__"}

	key, err := parser.EncodeViewKey("anon-123", "post-9")
	require.NoError(t, err)
	assert.Equal(t, "viewed__anon-123__post-9", key)

	viewer, post, err := parser.DecodeViewKey(key)
	require.NoError(t, err)
	assert.Equal(t, "anon-123", viewer)
	assert.Equal(t, "post-9", post)
}

func TestRedisKeyParserRejectsDelimiterInIds(t *testing.T) {
	parser := RedisKeyParser{delimiter: "__"}

	_, err := parser.EncodeViewKey("bad__token", "post-9")
	assert.Error(t, err)

	_, err = parser.EncodeViewKey("", "post-9")
	assert.Error(t, err)

	_, _, err = parser.DecodeViewKey("not-a-view-key")
	assert.Error(t, err)
}
