package transcriber

import (
	"context"
	"encoding/json"
	"fmt"
	"io/ioutil"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"

	"github.com/voxscribe/voxgo/internal/pkg/cmdapp"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func initTestServer(t *testing.T, generateResp string, failState bool) (*httptest.Server, *Client) {
	t.Helper()
	var polls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.URL.Path == "/upload":
			json.NewEncoder(w).Encode(fileHandle{Name: "files/123", State: "PROCESSING"})
		case r.URL.Path == "/status/files/123":
			st := "ACTIVE"
			if atomic.AddInt32(&polls, 1) == 1 {
				st = "PROCESSING"
			}
			if failState {
				st = "FAILED"
			}
			json.NewEncoder(w).Encode(fileHandle{Name: "files/123", State: st})
		case r.URL.Path == "/generate":
			fmt.Fprint(w, generateResp)
		default:
			http.Error(w, "unknown path "+r.URL.Path, http.StatusNotFound)
		}
	}))
	t.Cleanup(srv.Close)

	cmdapp.Config.Set("transcriber.url.upload", srv.URL+"/upload")
	cmdapp.Config.Set("transcriber.url.status", srv.URL+"/status")
	cmdapp.Config.Set("transcriber.url.generate", srv.URL+"/generate")
	cmdapp.Config.Set("transcriber.key", "test-key")
	cmdapp.Config.Set("transcriber.model", "test-model")
	cmdapp.Config.Set("transcriber.pollInterval", "1ms")

	c, err := NewClient()
	require.Nil(t, err)
	return srv, c
}

func newTestFile(t *testing.T) string {
	t.Helper()
	f, err := ioutil.TempFile("", "audio*.mp3")
	require.Nil(t, err)
	f.WriteString("audio data")
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })
	return f.Name()
}

func TestTranscribe(t *testing.T) {
	_, c := initTestServer(t, "```json\n"+sampleJSON+"\n```", false)

	res, err := c.Transcribe(context.Background(), newTestFile(t))

	require.Nil(t, err)
	require.Equal(t, 2, len(res.Segments))
	assert.Equal(t, "Hello.\nWorld.", res.Text)
	assert.Equal(t, 10, res.Duration)
	assert.Equal(t, "test-model", res.Model)
	assert.False(t, res.Mock)
}

func TestTranscribe_PlainTextFallback(t *testing.T) {
	_, c := initTestServer(t, "plain text, no JSON here", false)

	res, err := c.Transcribe(context.Background(), newTestFile(t))

	require.Nil(t, err)
	assert.Equal(t, 0, len(res.Segments))
	assert.Equal(t, "plain text, no JSON here", res.Text)
	assert.Equal(t, 0, res.Duration)
}

func TestTranscribe_ProviderFailed(t *testing.T) {
	_, c := initTestServer(t, sampleJSON, true)

	res, err := c.Transcribe(context.Background(), newTestFile(t))

	assert.NotNil(t, err)
	assert.Nil(t, res)
	assert.Contains(t, err.Error(), "failed on provider side")
}

func TestTranscribe_NoFile(t *testing.T) {
	_, c := initTestServer(t, sampleJSON, false)

	res, err := c.Transcribe(context.Background(), "/no/such/file.mp3")

	assert.NotNil(t, err)
	assert.Nil(t, res)
}

func TestNewClient_Fails(t *testing.T) {
	cmdapp.Config.Set("transcriber.url.upload", "")
	_, err := NewClient()
	assert.NotNil(t, err)
}

func TestMock(t *testing.T) {
	m := NewMock()
	res, err := m.Transcribe(context.Background(), "any.mp3")

	require.Nil(t, err)
	require.Equal(t, 3, len(res.Segments))
	assert.Equal(t, 15, res.Duration)
	assert.True(t, res.Mock)
	assert.Equal(t, "00:10", res.Segments[2].Start)
	assert.Equal(t, "00:15", res.Segments[2].End)
	assert.Equal(t, JoinSegments(res.Segments), res.Text)
}
