package jobs

import (
	"context"
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/voxscribe/voxgo/internal/app/inform"
	"github.com/voxscribe/voxgo/internal/pkg/cmdapp"
	verr "github.com/voxscribe/voxgo/internal/pkg/err"
	"github.com/voxscribe/voxgo/internal/pkg/messages"
	"github.com/voxscribe/voxgo/internal/pkg/persistence"
	"github.com/voxscribe/voxgo/internal/pkg/status"
	"github.com/voxscribe/voxgo/internal/pkg/storage"

	"github.com/badoux/checkmail"
	"github.com/facebookgo/grace/gracehttp"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/heptiolabs/healthcheck"
)

type serviceMetric struct {
	responseDur prometheus.ObserverVec
}

// JobStore provides job records
type JobStore interface {
	Get(id string, userID string) (*persistence.Job, error)
	List(userID string, statusFilter string, skip, limit int64) ([]persistence.Job, error)
	Enqueue(id string, userID string) (*persistence.Job, bool, error)
	SetStatusOwned(id string, userID string, newStatus status.Status, errMsg string) error
	Delete(id string, userID string) error
}

// TranscriptStore provides transcripts
type TranscriptStore interface {
	GetByJob(jobID string) (*persistence.Transcript, error)
	ExistsByJob(jobID string) (bool, error)
	DeleteByJob(jobID string) error
}

// ServiceData keeps data required for service work
type ServiceData struct {
	Jobs          JobStore
	Transcripts   TranscriptStore
	MessageSender messages.Sender
	Storage       storage.FileStorage
	EmailMaker    inform.EmailMaker
	EmailSender   inform.EmailSender

	Port    int
	health  healthcheck.Handler
	metrics serviceMetric
}

//StartWebServer starts the HTTP service and listens for the requests
func StartWebServer(data *ServiceData) error {
	cmdapp.Log.Infof("Starting HTTP service at %d", data.Port)
	r := NewRouter(data)

	portStr := strconv.Itoa(data.Port)
	srv := http.Server{
		Addr:              ":" + portStr,
		WriteTimeout:      15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       60 * time.Second,
		Handler:           r,
	}

	w := cmdapp.Log.Writer()
	defer w.Close()
	l := log.New(w, "", 0)
	gracehttp.SetLogger(l)

	return gracehttp.Serve(&srv)
}

//NewRouter creates the router for HTTP service
func NewRouter(data *ServiceData) *mux.Router {
	router := mux.NewRouter().StrictSlash(true)
	ih := func(h http.Handler) http.Handler {
		return promhttp.InstrumentHandlerDuration(data.metrics.responseDur, h)
	}
	router.Methods("GET").Path("/jobs").Handler(ih(listHandler{data: data}))
	router.Methods("DELETE").Path("/jobs/trash/all").Handler(ih(emptyTrashHandler{data: data}))
	router.Methods("GET").Path("/jobs/{id}").Handler(ih(getHandler{data: data}))
	router.Methods("POST").Path("/jobs/{id}/process").Handler(ih(processHandler{data: data}))
	router.Methods("GET").Path("/jobs/{id}/transcript").Handler(ih(transcriptHandler{data: data}))
	router.Methods("GET").Path("/jobs/{id}/download").Handler(ih(downloadHandler{data: data}))
	router.Methods("POST").Path("/jobs/{id}/email").Handler(ih(emailHandler{data: data}))
	router.Methods("DELETE").Path("/jobs/{id}").Handler(ih(trashHandler{data: data}))
	router.Methods("POST").Path("/jobs/{id}/restore").Handler(ih(restoreHandler{data: data}))
	router.Methods("DELETE").Path("/jobs/{id}/permanent").Handler(ih(permanentDeleteHandler{data: data}))
	router.Methods("GET").Path("/metrics").Handler(promhttp.Handler())
	if data.health != nil {
		router.Methods("GET").Path("/live").HandlerFunc(data.health.LiveEndpoint)
		router.Methods("GET").Path("/ready").HandlerFunc(data.health.ReadyEndpoint)
	}
	return router
}

func userID(w http.ResponseWriter, r *http.Request) (string, bool) {
	res := r.Header.Get("X-User-ID")
	if res == "" {
		http.Error(w, "No X-User-ID header", http.StatusUnauthorized)
		cmdapp.Log.Error("No X-User-ID header")
		return "", false
	}
	return res, true
}

func jobID(r *http.Request) string {
	return mux.Vars(r)["id"]
}

func writeError(w http.ResponseWriter, err error, msg string) {
	cmdapp.Log.Error(err)
	if verr.IsNotFound(err) {
		http.Error(w, err.Error(), http.StatusNotFound)
		return
	}
	http.Error(w, msg, http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, result interface{}) {
	w.Header().Set("Content-Type", "application/json")
	encoder := json.NewEncoder(w)
	err := encoder.Encode(result)
	if err != nil {
		http.Error(w, "Can not prepare result", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
	}
}

type listHandler struct {
	data *ServiceData
}

func (h listHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	skip, _ := strconv.ParseInt(r.URL.Query().Get("skip"), 10, 64)
	limit, _ := strconv.ParseInt(r.URL.Query().Get("limit"), 10, 64)
	jobs, err := h.data.Jobs.List(user, r.URL.Query().Get("status"), skip, limit)
	if err != nil {
		writeError(w, err, "Can not list jobs")
		return
	}
	writeJSON(w, jobs)
}

type getHandler struct {
	data *ServiceData
}

func (h getHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	job, err := h.data.Jobs.Get(jobID(r), user)
	if err != nil {
		writeError(w, err, "Can not get job")
		return
	}
	writeJSON(w, job)
}

type processHandler struct {
	data *ServiceData
}

func (h processHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	id := jobID(r)
	job, enqueued, err := h.data.Jobs.Enqueue(id, user)
	if err != nil {
		writeError(w, err, "Can not enqueue job")
		return
	}
	if !enqueued {
		if job.Status == status.Name(status.Trashed) {
			http.Error(w, "Job is trashed", http.StatusConflict)
			return
		}
		// already in progress, nothing to do
		writeJSON(w, job)
		return
	}
	err = h.data.Transcripts.DeleteByJob(id)
	if err != nil {
		cmdapp.Log.Error(err)
	}
	err = h.data.MessageSender.Send(messages.NewQueueMessage(id), messages.Transcribe, "")
	if err != nil {
		cmdapp.Log.Error(err)
		err = h.data.Jobs.SetStatusOwned(id, user, status.Failed, "Can not send for processing")
		cmdapp.LogIf(err)
		http.Error(w, "Can not send for processing", http.StatusInternalServerError)
		return
	}
	writeJSON(w, job)
}

type transcriptHandler struct {
	data *ServiceData
}

func (h transcriptHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	tr, err := h.getTranscript(jobID(r), user)
	if err != nil {
		writeError(w, err, "Can not get transcript")
		return
	}
	writeJSON(w, tr)
}

func (h transcriptHandler) getTranscript(id string, user string) (*persistence.Transcript, error) {
	_, err := h.data.Jobs.Get(id, user)
	if err != nil {
		return nil, err
	}
	return h.data.Transcripts.GetByJob(id)
}

type downloadHandler struct {
	data *ServiceData
}

func (h downloadHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	job, err := h.data.Jobs.Get(jobID(r), user)
	if err != nil {
		writeError(w, err, "Can not get job")
		return
	}
	tr, err := h.data.Transcripts.GetByJob(job.ID)
	if err != nil {
		writeError(w, err, "Can not get transcript")
		return
	}
	withTimestamps, _ := strconv.ParseBool(r.URL.Query().Get("timestamps"))
	w.Header().Set("Content-Type", "text/plain")
	w.Header().Set("Content-Disposition", `attachment; filename="`+job.OriginalFilename+`.txt"`)
	_, err = w.Write([]byte(inform.Render(tr, withTimestamps)))
	cmdapp.LogIf(err)
}

type emailRequest struct {
	Email string `json:"email"`
}

type emailHandler struct {
	data *ServiceData
}

func (h emailHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	if h.data.EmailMaker == nil || h.data.EmailSender == nil {
		http.Error(w, "Email is not configured", http.StatusServiceUnavailable)
		return
	}
	var input emailRequest
	err := json.NewDecoder(r.Body).Decode(&input)
	if err != nil {
		http.Error(w, "Can not parse input", http.StatusBadRequest)
		cmdapp.Log.Error(err)
		return
	}
	err = checkmail.ValidateFormat(input.Email)
	if err != nil {
		http.Error(w, "Wrong email", http.StatusBadRequest)
		cmdapp.Log.Errorf("Wrong email")
		return
	}
	job, err := h.data.Jobs.Get(jobID(r), user)
	if err != nil {
		writeError(w, err, "Can not get job")
		return
	}
	tr, err := h.data.Transcripts.GetByJob(job.ID)
	if err != nil {
		writeError(w, err, "Can not get transcript")
		return
	}
	email, err := h.data.EmailMaker.Make(&inform.Data{Email: input.Email, Job: job, Transcript: tr})
	if err != nil {
		http.Error(w, "Can not prepare email", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}
	err = h.data.EmailSender.Send(email)
	if err != nil {
		http.Error(w, "Can not send email", http.StatusInternalServerError)
		cmdapp.Log.Error(err)
		return
	}
	w.WriteHeader(http.StatusOK)
}

type trashHandler struct {
	data *ServiceData
}

func (h trashHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	err := h.data.Jobs.SetStatusOwned(jobID(r), user, status.Trashed, "")
	if err != nil {
		writeError(w, err, "Can not trash job")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

type restoreHandler struct {
	data *ServiceData
}

func (h restoreHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	id := jobID(r)
	job, err := h.data.Jobs.Get(id, user)
	if err != nil {
		writeError(w, err, "Can not get job")
		return
	}
	if job.Status != status.Name(status.Trashed) {
		http.Error(w, "Job is not trashed", http.StatusConflict)
		return
	}
	exists, err := h.data.Transcripts.ExistsByJob(id)
	if err != nil {
		writeError(w, err, "Can not check transcript")
		return
	}
	if exists {
		err = h.data.Jobs.SetStatusOwned(id, user, status.Completed, "")
	} else {
		errMsg := job.ErrorMessage
		if errMsg == "" {
			errMsg = "No transcript available"
		}
		err = h.data.Jobs.SetStatusOwned(id, user, status.Failed, errMsg)
	}
	if err != nil {
		writeError(w, err, "Can not restore job")
		return
	}
	job, err = h.data.Jobs.Get(id, user)
	if err != nil {
		writeError(w, err, "Can not get job")
		return
	}
	writeJSON(w, job)
}

type permanentDeleteHandler struct {
	data *ServiceData
}

func (h permanentDeleteHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	job, err := h.data.Jobs.Get(jobID(r), user)
	if err != nil {
		writeError(w, err, "Can not get job")
		return
	}
	err = deleteJob(r.Context(), h.data, job)
	if err != nil {
		writeError(w, err, "Can not delete job")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// deleteJob drops the job with its file and transcript.
// A failure to drop the file is logged but does not block the delete.
func deleteJob(ctx context.Context, data *ServiceData, job *persistence.Job) error {
	cmdapp.Log.Infof("Deleting job %s data", job.ID)
	err := data.Storage.Delete(ctx, job.StoragePath)
	if err != nil {
		cmdapp.Log.Error(err)
	}
	err = data.Transcripts.DeleteByJob(job.ID)
	if err != nil {
		return err
	}
	return data.Jobs.Delete(job.ID, job.UserID)
}

type emptyTrashHandler struct {
	data *ServiceData
}

type emptyTrashResult struct {
	Deleted int `json:"deleted"`
}

func (h emptyTrashHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	user, ok := userID(w, r)
	if !ok {
		return
	}
	jobs, err := h.data.Jobs.List(user, status.Name(status.Trashed), 0, 0)
	if err != nil {
		writeError(w, err, "Can not list trashed jobs")
		return
	}
	deleted := 0
	for i := range jobs {
		err = deleteJob(r.Context(), h.data, &jobs[i])
		if err != nil {
			writeError(w, err, "Can not delete job")
			return
		}
		deleted++
	}
	writeJSON(w, emptyTrashResult{Deleted: deleted})
}
