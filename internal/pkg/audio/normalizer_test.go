package audio

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize_NoTool_Passthrough(t *testing.T) {
	n := &Normalizer{cmd: "no-such-transcoder-olia", tmpDir: os.TempDir()}
	res, created := n.Normalize(context.Background(), "/data/file.wav")
	assert.Equal(t, "/data/file.wav", res)
	assert.False(t, created)
}

func TestNormalize_ToolFails_Passthrough(t *testing.T) {
	// ls is in path but fails on ffmpeg args
	n := &Normalizer{cmd: "ls", tmpDir: os.TempDir()}
	res, created := n.Normalize(context.Background(), "/data/no-file-at-all.wav")
	assert.Equal(t, "/data/no-file-at-all.wav", res)
	assert.False(t, created)
}

func TestNewNormalizer_Default(t *testing.T) {
	n := NewNormalizer()
	assert.Equal(t, "ffmpeg", n.cmd)
}
