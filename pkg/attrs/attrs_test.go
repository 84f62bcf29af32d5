package attrs

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExtractString(t *testing.T) {
	kv := []any{"identity", "a@example.com", "profile_id", int64(3), 42, "skip"}

	assert.Equal(t, "a@example.com", ExtractString(kv, "identity"))
	assert.Equal(t, "", ExtractString(kv, "profile_id"))
	assert.Equal(t, "", ExtractString(kv, "missing"))
	assert.Equal(t, "", ExtractString([]any{"dangling"}, "dangling"))
}

func TestExtractValue(t *testing.T) {
	kv := []any{"profile_id", int64(3), "request_id", "r-1", "nothing", nil}

	assert.Equal(t, "3", ExtractValue(kv, "profile_id"))
	assert.Equal(t, "r-1", ExtractValue(kv, "request_id"))
	assert.Equal(t, "", ExtractValue(kv, "nothing"))
	assert.Equal(t, "", ExtractValue(kv, "missing"))
}
