package transcriber

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"io/ioutil"
	"mime/multipart"
	"os"
	"path/filepath"
	"time"

	"github.com/voxscribe/voxgo/internal/pkg/audio"
	"github.com/voxscribe/voxgo/internal/pkg/cmdapp"
	"github.com/voxscribe/voxgo/internal/pkg/utils"

	"github.com/pkg/errors"

	"github.com/hashicorp/go-retryablehttp"
)

const prompt = `Transcribe the audio file.
Return a JSON object in the following format:
{"segments": [{"start": "MM:SS", "end": "MM:SS", "text": "transcription segment..."}]}
1. The "text" field must contain ONLY the spoken words.
2. The "start" and "end" timestamps must be formatted as MM:SS.
3. Return ONLY the JSON object.`

const stateProcessing = "PROCESSING"
const stateFailed = "FAILED"

// Client comunicates with the remote transcription provider
type Client struct {
	httpclient   *retryablehttp.Client
	uploadURL    string
	statusURL    string
	generateURL  string
	key          string
	model        string
	pollInterval time.Duration
	timeout      time.Duration
}

// NewClient creates a transcription provider client
func NewClient() (*Client, error) {
	res := Client{}
	var err error
	res.uploadURL, err = utils.GetURLFromConfig("transcriber.url.upload")
	if err != nil {
		return nil, err
	}
	res.statusURL, err = utils.GetURLFromConfig("transcriber.url.status")
	if err != nil {
		return nil, err
	}
	res.generateURL, err = utils.GetURLFromConfig("transcriber.url.generate")
	if err != nil {
		return nil, err
	}
	res.key = cmdapp.Config.GetString("transcriber.key")
	if res.key == "" {
		return nil, errors.New("No transcriber.key setting provided")
	}
	res.model = cmdapp.Config.GetString("transcriber.model")
	res.pollInterval = cmdapp.Config.GetDuration("transcriber.pollInterval")
	if res.pollInterval <= 0 {
		res.pollInterval = time.Second
	}
	res.timeout = cmdapp.Config.GetDuration("transcriber.timeout")
	if res.timeout <= 0 {
		res.timeout = 30 * time.Minute
	}
	res.httpclient = retryablehttp.NewClient()
	res.httpclient.RetryMax = 3
	res.httpclient.Logger = nil

	return &res, nil
}

// Transcribe uploads the file, waits for the provider to process it and
// requests the segmented transcript
func (c *Client) Transcribe(ctx context.Context, file string) (*Result, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	handle, err := c.upload(ctx, file)
	if err != nil {
		return nil, errors.Wrap(err, "Can't upload file")
	}
	err = c.waitForReady(ctx, handle)
	if err != nil {
		return nil, err
	}
	raw, err := c.generate(ctx, handle)
	if err != nil {
		return nil, errors.Wrap(err, "Can't generate transcript")
	}
	segments, text := ParseResponse(raw)
	if len(segments) == 0 {
		cmdapp.Log.Warnf("No segments recovered from provider response for %s", file)
	}
	return &Result{Text: text, Segments: segments,
		Duration: audio.Duration(segments), Model: c.model}, nil
}

type fileHandle struct {
	Name  string `json:"name"`
	State string `json:"state"`
}

func (c *Client) upload(ctx context.Context, file string) (string, error) {
	cmdapp.Log.Infof("Uploading %s to %s", file, c.uploadURL)
	f, err := os.Open(file)
	if err != nil {
		return "", errors.Wrap(err, "Can't open file "+file)
	}
	defer f.Close()

	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	part, err := writer.CreateFormFile("file", filepath.Base(file))
	if err != nil {
		return "", errors.Wrap(err, "Can't add file to request")
	}
	_, err = io.Copy(part, f)
	if err != nil {
		return "", errors.Wrap(err, "Can't add file to request")
	}
	writer.Close()

	req, err := retryablehttp.NewRequest("POST", c.uploadURL, body)
	if err != nil {
		return "", err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	c.auth(req)

	resp, err := c.httpclient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if err := utils.ValidateResponse(resp); err != nil {
		return "", err
	}
	var respData fileHandle
	if err := json.NewDecoder(resp.Body).Decode(&respData); err != nil {
		return "", errors.Wrap(err, "Can't decode response")
	}
	if respData.Name == "" {
		return "", errors.New("Can't get file handle from response")
	}
	return respData.Name, nil
}

// waitForReady polls the handle state at fixed interval until it leaves
// the processing state. The wait is bounded by ctx.
func (c *Client) waitForReady(ctx context.Context, handle string) error {
	for {
		state, err := c.getState(ctx, handle)
		if err != nil {
			return errors.Wrap(err, "Can't get file state")
		}
		if state != stateProcessing {
			if state == stateFailed {
				return errors.New("audio file processing failed on provider side")
			}
			cmdapp.Log.Infof("File state: %s", state)
			return nil
		}
		cmdapp.Log.Debugf("Waiting for audio file processing")
		select {
		case <-ctx.Done():
			return errors.Wrap(ctx.Err(), "gave up waiting for provider")
		case <-time.After(c.pollInterval):
		}
	}
}

func (c *Client) getState(ctx context.Context, handle string) (string, error) {
	req, err := retryablehttp.NewRequest("GET", utils.URLJoin(c.statusURL, handle), nil)
	if err != nil {
		return "", err
	}
	req = req.WithContext(ctx)
	c.auth(req)
	resp, err := c.httpclient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if err := utils.ValidateResponse(resp); err != nil {
		return "", err
	}
	var respData fileHandle
	if err := json.NewDecoder(resp.Body).Decode(&respData); err != nil {
		return "", errors.Wrap(err, "Can't decode response")
	}
	return respData.State, nil
}

type generateRequest struct {
	File   string `json:"file"`
	Model  string `json:"model,omitempty"`
	Prompt string `json:"prompt"`
}

func (c *Client) generate(ctx context.Context, handle string) (string, error) {
	cmdapp.Log.Infof("Generating transcript for %s", handle)
	b, err := json.Marshal(generateRequest{File: handle, Model: c.model, Prompt: prompt})
	if err != nil {
		return "", err
	}
	req, err := retryablehttp.NewRequest("POST", c.generateURL, bytes.NewReader(b))
	if err != nil {
		return "", err
	}
	req = req.WithContext(ctx)
	req.Header.Set("Content-Type", "application/json")
	c.auth(req)
	resp, err := c.httpclient.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()
	if err := utils.ValidateResponse(resp); err != nil {
		return "", err
	}
	body, err := ioutil.ReadAll(resp.Body)
	if err != nil {
		return "", errors.Wrap(err, "Can't read response")
	}
	return string(body), nil
}

func (c *Client) auth(req *retryablehttp.Request) {
	req.Header.Set("Authorization", "Bearer "+c.key)
}
