package upload

import (
	"bytes"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/voxscribe/voxgo/internal/pkg/persistence"
	"github.com/voxscribe/voxgo/internal/pkg/test/mocks"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func initTestData(t *testing.T) *ServiceData {
	data := &ServiceData{}
	require.Nil(t, initMetrics(data))
	return data
}

func newUploadRequest(t *testing.T, fileName string, user string) *httptest.ResponseRecorder {
	body := &bytes.Buffer{}
	writer := multipart.NewWriter(body)
	if fileName != "" {
		part, err := writer.CreateFormFile("file", fileName)
		require.Nil(t, err)
		_, err = io.Copy(part, strings.NewReader("audio bytes"))
		require.Nil(t, err)
	}
	writer.Close()

	req := httptest.NewRequest("POST", "/upload", body)
	req.Header.Set("Content-Type", writer.FormDataContentType())
	if user != "" {
		req.Header.Set("X-User-ID", user)
	}
	return req2resp(t, req)
}

func req2resp(t *testing.T, req *http.Request) *httptest.ResponseRecorder {
	t.Helper()
	resp := httptest.NewRecorder()
	testRouter.ServeHTTP(resp, req)
	return resp
}

var (
	testRouter  *mux.Router
	storageMock *mocks.FileStorage
	jobsMock    *mocks.JobStore
)

func initTest(t *testing.T) *ServiceData {
	data := initTestData(t)
	storageMock = &mocks.FileStorage{}
	jobsMock = &mocks.JobStore{}
	data.Storage = storageMock
	data.Jobs = jobsMock
	testRouter = NewRouter(data)
	return data
}

func TestWrongPath(t *testing.T) {
	initTest(t)
	req := httptest.NewRequest("GET", "/invalid", nil)
	resp := req2resp(t, req)
	assert.Equal(t, 404, resp.Code)
}

func TestUpload(t *testing.T) {
	initTest(t)
	storageMock.On("Put", mock.Anything, mock.Anything).Return("key.mp3", nil)
	jobsMock.On("Insert", mock.Anything).Return(nil)

	resp := newUploadRequest(t, "test.mp3", "user1")

	assert.Equal(t, 200, resp.Code)
	assert.True(t, strings.HasPrefix(resp.Body.String(), `{"id":"`))
	job := jobsMock.Calls[0].Arguments.Get(0).(*persistence.Job)
	assert.Equal(t, "user1", job.UserID)
	assert.Equal(t, "UPLOADED", job.Status)
	assert.Equal(t, "test.mp3", job.OriginalFilename)
	assert.Equal(t, "key.mp3", job.StoragePath)
}

func TestUpload_NoUser(t *testing.T) {
	initTest(t)
	resp := newUploadRequest(t, "test.mp3", "")
	assert.Equal(t, 401, resp.Code)
}

func TestUpload_NoFile(t *testing.T) {
	initTest(t)
	resp := newUploadRequest(t, "", "user1")
	assert.Equal(t, 400, resp.Code)
}

func TestUpload_WrongExtension(t *testing.T) {
	initTest(t)
	resp := newUploadRequest(t, "test.txt", "user1")
	assert.Equal(t, 400, resp.Code)
}

func TestUpload_StorageFails(t *testing.T) {
	initTest(t)
	storageMock.On("Put", mock.Anything, mock.Anything).Return("", errors.New("olia"))
	resp := newUploadRequest(t, "test.mp3", "user1")
	assert.Equal(t, 500, resp.Code)
}

func TestUpload_SaveFails(t *testing.T) {
	initTest(t)
	storageMock.On("Put", mock.Anything, mock.Anything).Return("key.mp3", nil)
	jobsMock.On("Insert", mock.Anything).Return(errors.New("olia"))
	resp := newUploadRequest(t, "test.mp3", "user1")
	assert.Equal(t, 500, resp.Code)
}
