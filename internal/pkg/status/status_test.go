package status

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestName(t *testing.T) {
	assert.Equal(t, "UPLOADED", Name(Uploaded))
	assert.Equal(t, "QUEUED", Name(Queued))
	assert.Equal(t, "PROCESSING", Name(Processing))
	assert.Equal(t, "TRANSCRIBING", Name(Transcribing))
	assert.Equal(t, "COMPLETED", Name(Completed))
	assert.Equal(t, "FAILED", Name(Failed))
	assert.Equal(t, "TRASHED", Name(Trashed))
}

func TestFrom(t *testing.T) {
	for _, s := range []Status{Uploaded, Queued, Processing, Transcribing, Completed, Failed, Trashed} {
		assert.Equal(t, s, From(Name(s)))
	}
	assert.Equal(t, Status(0), From("olia"))
	assert.Equal(t, Status(0), From(""))
}

func TestActive(t *testing.T) {
	assert.True(t, Active(Queued))
	assert.True(t, Active(Processing))
	assert.True(t, Active(Transcribing))
	assert.False(t, Active(Uploaded))
	assert.False(t, Active(Completed))
	assert.False(t, Active(Failed))
	assert.False(t, Active(Trashed))
}
