package version

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsVersionGreaterThan(t *testing.T) {
	assert.True(t, IsVersionGreaterThan("0.2.0", "0.1.9"))
	assert.True(t, IsVersionGreaterThan("v1.0.0", "0.10.0"))
	assert.False(t, IsVersionGreaterThan("0.1.0", "0.1.0"))
	assert.False(t, IsVersionGreaterThan("0.1.0", "0.2.0"))
}

func TestLatest(t *testing.T) {
	assert.Equal(t, "0.10.0", Latest([]string{"0.2.0", "0.10.0", "0.9.1"}))
	assert.Equal(t, "0.1.0", Latest([]string{"garbage", "0.1.0"}))
	assert.Equal(t, "", Latest(nil))
}

func TestCurrentVersionIsValid(t *testing.T) {
	assert.True(t, IsValid(GetCurrentVersion()))
}
