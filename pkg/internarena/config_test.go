package internarena

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// TestDefaultConfigMatchesDocumentedDefaults checks the zero-option
// construction path matches the documented defaults (50 strings, 4096
// bytes, xxhash, a no-op logger, no metrics).
func TestDefaultConfigMatchesDocumentedDefaults(t *testing.T) {
	cfg := defaultConfig()
	assert.Equal(t, DefaultCapacity, cfg.capacity)
	assert.Equal(t, int64(0), cfg.maxBytes)
	assert.Nil(t, cfg.registry)
	assert.NotNil(t, cfg.logger)
	assert.NotNil(t, cfg.hasher)
}

// TestWithCapacityOnlyOverridesPositiveFields checks WithCapacity leaves a
// zero field at its default rather than zeroing it out.
func TestWithCapacityOnlyOverridesPositiveFields(t *testing.T) {
	cfg := applyOptions([]Option{WithCapacity(Capacity{Bytes: 99})})
	assert.Equal(t, DefaultCapacity.Strings, cfg.capacity.Strings)
	assert.Equal(t, 99, cfg.capacity.Bytes)
}

// TestWithHasherNilIsIgnored checks passing a nil Hasher keeps the default
// rather than leaving the config with an unusable nil function.
func TestWithHasherNilIsIgnored(t *testing.T) {
	cfg := applyOptions([]Option{WithHasher(nil)})
	assert.NotNil(t, cfg.hasher)
}
