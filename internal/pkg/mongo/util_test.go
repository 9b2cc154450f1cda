package mongo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitize(t *testing.T) {
	assert.Equal(t, "id", sanitize("id"))
	assert.Equal(t, "where", sanitize("$where"))
	assert.Equal(t, "", sanitize("$"))
}

func TestIndexData(t *testing.T) {
	assert.Equal(t, 2, len(indexData))
	for _, id := range indexData {
		assert.True(t, id.Unique)
	}
}

func TestNewSessionProvider_FailsNoURL(t *testing.T) {
	_, err := NewSessionProvider()
	assert.NotNil(t, err)
}
