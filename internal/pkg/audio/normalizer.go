package audio

import (
	"context"
	"os"
	"os/exec"
	"path/filepath"

	"github.com/voxscribe/voxgo/internal/pkg/cmdapp"
)

// Normalizer transcodes input audio to mp3 before sending it to the provider.
// The step is best effort - any failure falls back to the original file.
type Normalizer struct {
	cmd    string
	tmpDir string
}

// NewNormalizer creates Normalizer instance
func NewNormalizer() *Normalizer {
	res := &Normalizer{cmd: cmdapp.Config.GetString("normalizer.cmd"), tmpDir: os.TempDir()}
	if res.cmd == "" {
		res.cmd = "ffmpeg"
	}
	return res
}

// Normalize converts file to mp3 into a new temp file.
// Returns the converted file path and true when a new file was produced,
// the input path and false otherwise. The input file is never modified.
func (n *Normalizer) Normalize(ctx context.Context, file string) (string, bool) {
	if _, err := exec.LookPath(n.cmd); err != nil {
		cmdapp.Log.Warnf("No %s in path. Using original file", n.cmd)
		return file, false
	}
	out := filepath.Join(n.tmpDir, filepath.Base(file)+".norm.mp3")
	cmd := exec.CommandContext(ctx, n.cmd, "-y", "-i", file, "-vn", "-acodec", "libmp3lame", "-q:a", "4", out)
	output, err := cmd.CombinedOutput()
	if err != nil {
		cmdapp.Log.Warnf("Normalization failed, using original file. %v: %s", err, string(output))
		return file, false
	}
	cmdapp.Log.Infof("Normalized %s -> %s", file, out)
	return out, true
}
