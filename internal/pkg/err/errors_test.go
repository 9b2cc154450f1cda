package err

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
)

func TestIsNotFound(t *testing.T) {
	assert.True(t, IsNotFound(ErrNotFound))
	assert.True(t, IsNotFound(errors.Wrap(ErrNotFound, "file x")))
	assert.False(t, IsNotFound(errors.New("olia")))
	assert.False(t, IsNotFound(nil))
}
