package jobs

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	verr "github.com/voxscribe/voxgo/internal/pkg/err"
	"github.com/voxscribe/voxgo/internal/pkg/messages"
	"github.com/voxscribe/voxgo/internal/pkg/persistence"
	"github.com/voxscribe/voxgo/internal/pkg/status"
	"github.com/voxscribe/voxgo/internal/pkg/test/mocks"

	"github.com/gorilla/mux"
	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

var (
	testRouter      *mux.Router
	jobsMock        *mocks.JobStore
	transcriptsMock *mocks.TranscriptStore
	senderMock      *mocks.MessageSender
	storageMock     *mocks.FileStorage
)

func initTest(t *testing.T) *ServiceData {
	data := &ServiceData{}
	require.Nil(t, initMetrics(data))
	jobsMock = &mocks.JobStore{}
	transcriptsMock = &mocks.TranscriptStore{}
	senderMock = &mocks.MessageSender{}
	storageMock = &mocks.FileStorage{}
	data.Jobs = jobsMock
	data.Transcripts = transcriptsMock
	data.MessageSender = senderMock
	data.Storage = storageMock
	testRouter = NewRouter(data)
	return data
}

func req2resp(t *testing.T, method, path string, body string) *httptest.ResponseRecorder {
	t.Helper()
	var req *http.Request
	if body != "" {
		req = httptest.NewRequest(method, path, strings.NewReader(body))
	} else {
		req = httptest.NewRequest(method, path, nil)
	}
	req.Header.Set("X-User-ID", "user1")
	resp := httptest.NewRecorder()
	testRouter.ServeHTTP(resp, req)
	return resp
}

func testJob(st status.Status) *persistence.Job {
	return &persistence.Job{ID: "id1", UserID: "user1", Status: status.Name(st),
		OriginalFilename: "talk.mp3", StoragePath: "key.mp3"}
}

func testTranscript() *persistence.Transcript {
	return &persistence.Transcript{ID: "tr1", JobID: "id1", Text: "hello world",
		Metadata: persistence.Metadata{Duration: 10, Segments: []persistence.Segment{
			{Start: "00:00", End: "00:05", Text: "hello"},
			{Start: "00:05", End: "00:10", Text: "world"}}}}
}

func notFound() error {
	return errors.Wrap(verr.ErrNotFound, "job id1")
}

func TestNoUser(t *testing.T) {
	initTest(t)
	req := httptest.NewRequest("GET", "/jobs", nil)
	resp := httptest.NewRecorder()
	testRouter.ServeHTTP(resp, req)
	assert.Equal(t, 401, resp.Code)
}

func TestList(t *testing.T) {
	initTest(t)
	jobsMock.On("List", "user1", "", int64(0), int64(0)).
		Return([]persistence.Job{*testJob(status.Completed)}, nil)
	resp := req2resp(t, "GET", "/jobs", "")
	assert.Equal(t, 200, resp.Code)
	assert.Contains(t, resp.Body.String(), `"id":"id1"`)
}

func TestList_Params(t *testing.T) {
	initTest(t)
	jobsMock.On("List", "user1", "TRASHED", int64(5), int64(10)).
		Return([]persistence.Job{}, nil)
	resp := req2resp(t, "GET", "/jobs?status=TRASHED&skip=5&limit=10", "")
	assert.Equal(t, 200, resp.Code)
	jobsMock.AssertExpectations(t)
}

func TestGet(t *testing.T) {
	initTest(t)
	jobsMock.On("Get", "id1", "user1").Return(testJob(status.Completed), nil)
	resp := req2resp(t, "GET", "/jobs/id1", "")
	assert.Equal(t, 200, resp.Code)
	assert.Contains(t, resp.Body.String(), `"status":"COMPLETED"`)
}

func TestGet_NotFound(t *testing.T) {
	initTest(t)
	jobsMock.On("Get", "id1", "user1").Return(nil, notFound())
	resp := req2resp(t, "GET", "/jobs/id1", "")
	assert.Equal(t, 404, resp.Code)
}

func TestProcess(t *testing.T) {
	initTest(t)
	jobsMock.On("Enqueue", "id1", "user1").Return(testJob(status.Queued), true, nil)
	transcriptsMock.On("DeleteByJob", "id1").Return(nil)
	senderMock.On("Send", mock.Anything, messages.Transcribe, "").Return(nil)

	resp := req2resp(t, "POST", "/jobs/id1/process", "")

	assert.Equal(t, 200, resp.Code)
	senderMock.AssertExpectations(t)
	msg := senderMock.Calls[0].Arguments.Get(0).(*messages.QueueMessage)
	assert.Equal(t, "id1", msg.ID)
}

func TestProcess_AlreadyActive(t *testing.T) {
	initTest(t)
	jobsMock.On("Enqueue", "id1", "user1").Return(testJob(status.Processing), false, nil)

	resp := req2resp(t, "POST", "/jobs/id1/process", "")

	assert.Equal(t, 200, resp.Code)
	senderMock.AssertNotCalled(t, "Send", mock.Anything, mock.Anything, mock.Anything)
}

func TestProcess_Trashed(t *testing.T) {
	initTest(t)
	jobsMock.On("Enqueue", "id1", "user1").Return(testJob(status.Trashed), false, nil)
	resp := req2resp(t, "POST", "/jobs/id1/process", "")
	assert.Equal(t, 409, resp.Code)
}

func TestProcess_SendFails(t *testing.T) {
	initTest(t)
	jobsMock.On("Enqueue", "id1", "user1").Return(testJob(status.Queued), true, nil)
	transcriptsMock.On("DeleteByJob", "id1").Return(nil)
	senderMock.On("Send", mock.Anything, mock.Anything, mock.Anything).Return(errors.New("olia"))
	jobsMock.On("SetStatusOwned", "id1", "user1", status.Failed, mock.Anything).Return(nil)

	resp := req2resp(t, "POST", "/jobs/id1/process", "")

	assert.Equal(t, 500, resp.Code)
	jobsMock.AssertCalled(t, "SetStatusOwned", "id1", "user1", status.Failed, mock.Anything)
}

func TestTranscript(t *testing.T) {
	initTest(t)
	jobsMock.On("Get", "id1", "user1").Return(testJob(status.Completed), nil)
	transcriptsMock.On("GetByJob", "id1").Return(testTranscript(), nil)
	resp := req2resp(t, "GET", "/jobs/id1/transcript", "")
	assert.Equal(t, 200, resp.Code)
	assert.Contains(t, resp.Body.String(), `"text":"hello world"`)
}

func TestTranscript_NotFound(t *testing.T) {
	initTest(t)
	jobsMock.On("Get", "id1", "user1").Return(testJob(status.Failed), nil)
	transcriptsMock.On("GetByJob", "id1").Return(nil, notFound())
	resp := req2resp(t, "GET", "/jobs/id1/transcript", "")
	assert.Equal(t, 404, resp.Code)
}

func TestDownload(t *testing.T) {
	initTest(t)
	jobsMock.On("Get", "id1", "user1").Return(testJob(status.Completed), nil)
	transcriptsMock.On("GetByJob", "id1").Return(testTranscript(), nil)

	resp := req2resp(t, "GET", "/jobs/id1/download", "")

	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, "hello\nworld", resp.Body.String())
	assert.Contains(t, resp.Header().Get("Content-Disposition"), "talk.mp3.txt")
}

func TestDownload_Timestamps(t *testing.T) {
	initTest(t)
	jobsMock.On("Get", "id1", "user1").Return(testJob(status.Completed), nil)
	transcriptsMock.On("GetByJob", "id1").Return(testTranscript(), nil)

	resp := req2resp(t, "GET", "/jobs/id1/download?timestamps=true", "")

	assert.Equal(t, 200, resp.Code)
	assert.Equal(t, "[00:00 - 00:05] hello\n[00:05 - 00:10] world", resp.Body.String())
}

func TestEmail(t *testing.T) {
	data := initTest(t)
	makerMock := &mocks.EmailMaker{}
	senderEmailMock := &mocks.EmailSender{}
	data.EmailMaker = makerMock
	data.EmailSender = senderEmailMock
	jobsMock.On("Get", "id1", "user1").Return(testJob(status.Completed), nil)
	transcriptsMock.On("GetByJob", "id1").Return(testTranscript(), nil)
	makerMock.On("Make", mock.Anything).Return(nil, nil)
	senderEmailMock.On("Send", mock.Anything).Return(nil)

	resp := req2resp(t, "POST", "/jobs/id1/email", `{"email":"a@a.io"}`)

	assert.Equal(t, 200, resp.Code)
	senderEmailMock.AssertExpectations(t)
}

func TestEmail_Wrong(t *testing.T) {
	data := initTest(t)
	data.EmailMaker = &mocks.EmailMaker{}
	data.EmailSender = &mocks.EmailSender{}
	resp := req2resp(t, "POST", "/jobs/id1/email", `{"email":"olia"}`)
	assert.Equal(t, 400, resp.Code)
}

func TestEmail_NotConfigured(t *testing.T) {
	initTest(t)
	resp := req2resp(t, "POST", "/jobs/id1/email", `{"email":"a@a.io"}`)
	assert.Equal(t, 503, resp.Code)
}

func TestTrash(t *testing.T) {
	initTest(t)
	jobsMock.On("SetStatusOwned", "id1", "user1", status.Trashed, "").Return(nil)
	resp := req2resp(t, "DELETE", "/jobs/id1", "")
	assert.Equal(t, 204, resp.Code)
	jobsMock.AssertExpectations(t)
}

func TestRestore_WithTranscript(t *testing.T) {
	initTest(t)
	jobsMock.On("Get", "id1", "user1").Return(testJob(status.Trashed), nil).Once()
	transcriptsMock.On("ExistsByJob", "id1").Return(true, nil)
	jobsMock.On("SetStatusOwned", "id1", "user1", status.Completed, "").Return(nil)
	jobsMock.On("Get", "id1", "user1").Return(testJob(status.Completed), nil)

	resp := req2resp(t, "POST", "/jobs/id1/restore", "")

	assert.Equal(t, 200, resp.Code)
	assert.Contains(t, resp.Body.String(), `"status":"COMPLETED"`)
}

func TestRestore_NoTranscript(t *testing.T) {
	initTest(t)
	jobsMock.On("Get", "id1", "user1").Return(testJob(status.Trashed), nil).Once()
	transcriptsMock.On("ExistsByJob", "id1").Return(false, nil)
	jobsMock.On("SetStatusOwned", "id1", "user1", status.Failed, "No transcript available").Return(nil)
	jobsMock.On("Get", "id1", "user1").Return(testJob(status.Failed), nil)

	resp := req2resp(t, "POST", "/jobs/id1/restore", "")

	assert.Equal(t, 200, resp.Code)
	jobsMock.AssertExpectations(t)
}

func TestRestore_KeepsError(t *testing.T) {
	initTest(t)
	job := testJob(status.Trashed)
	job.ErrorMessage = "boom"
	jobsMock.On("Get", "id1", "user1").Return(job, nil).Once()
	transcriptsMock.On("ExistsByJob", "id1").Return(false, nil)
	jobsMock.On("SetStatusOwned", "id1", "user1", status.Failed, "boom").Return(nil)
	jobsMock.On("Get", "id1", "user1").Return(testJob(status.Failed), nil)

	resp := req2resp(t, "POST", "/jobs/id1/restore", "")

	assert.Equal(t, 200, resp.Code)
	jobsMock.AssertExpectations(t)
}

func TestRestore_NotTrashed(t *testing.T) {
	initTest(t)
	jobsMock.On("Get", "id1", "user1").Return(testJob(status.Completed), nil)
	resp := req2resp(t, "POST", "/jobs/id1/restore", "")
	assert.Equal(t, 409, resp.Code)
}

func TestPermanentDelete(t *testing.T) {
	initTest(t)
	jobsMock.On("Get", "id1", "user1").Return(testJob(status.Trashed), nil)
	storageMock.On("Delete", "key.mp3").Return(nil)
	transcriptsMock.On("DeleteByJob", "id1").Return(nil)
	jobsMock.On("Delete", "id1", "user1").Return(nil)

	resp := req2resp(t, "DELETE", "/jobs/id1/permanent", "")

	assert.Equal(t, 204, resp.Code)
	jobsMock.AssertExpectations(t)
}

func TestPermanentDelete_SecondTime(t *testing.T) {
	initTest(t)
	jobsMock.On("Get", "id1", "user1").Return(nil, notFound())
	resp := req2resp(t, "DELETE", "/jobs/id1/permanent", "")
	assert.Equal(t, 404, resp.Code)
}

func TestPermanentDelete_StorageFailureIgnored(t *testing.T) {
	initTest(t)
	jobsMock.On("Get", "id1", "user1").Return(testJob(status.Trashed), nil)
	storageMock.On("Delete", "key.mp3").Return(errors.New("olia"))
	transcriptsMock.On("DeleteByJob", "id1").Return(nil)
	jobsMock.On("Delete", "id1", "user1").Return(nil)

	resp := req2resp(t, "DELETE", "/jobs/id1/permanent", "")

	assert.Equal(t, 204, resp.Code)
}

func TestEmptyTrash(t *testing.T) {
	initTest(t)
	j1, j2 := *testJob(status.Trashed), *testJob(status.Trashed)
	j2.ID, j2.StoragePath = "id2", "key2.mp3"
	jobsMock.On("List", "user1", "TRASHED", int64(0), int64(0)).
		Return([]persistence.Job{j1, j2}, nil)
	storageMock.On("Delete", mock.Anything).Return(nil)
	transcriptsMock.On("DeleteByJob", mock.Anything).Return(nil)
	jobsMock.On("Delete", mock.Anything, "user1").Return(nil)

	resp := req2resp(t, "DELETE", "/jobs/trash/all", "")

	assert.Equal(t, 200, resp.Code)
	assert.Contains(t, resp.Body.String(), `"deleted":2`)
	jobsMock.AssertNumberOfCalls(t, "Delete", 2)
}
