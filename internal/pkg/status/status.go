package status

// Status represents job processing status
type Status int

const (
	// Uploaded - file is stored, no processing requested yet
	Uploaded Status = iota + 1
	// Queued - processing was requested
	Queued
	// Processing - worker picked the job up
	Processing
	// Transcribing - audio was sent to the transcription provider
	Transcribing
	// Completed - transcript is ready
	Completed
	// Failed - pipeline failed, error message is recorded
	Failed
	// Trashed - soft deleted by the owner
	Trashed
)

var (
	statusName = map[Status]string{Uploaded: "UPLOADED", Queued: "QUEUED",
		Processing: "PROCESSING", Transcribing: "TRANSCRIBING",
		Completed: "COMPLETED", Failed: "FAILED", Trashed: "TRASHED"}
	nameStatus = map[string]Status{"UPLOADED": Uploaded, "QUEUED": Queued,
		"PROCESSING": Processing, "TRANSCRIBING": Transcribing,
		"COMPLETED": Completed, "FAILED": Failed, "TRASHED": Trashed}
)

// Name returns string representation of the status
func Name(st Status) string {
	return statusName[st]
}

// From parses status from string, returns 0 for unknown value
func From(st string) Status {
	return nameStatus[st]
}

// Active indicates a job with a processing attempt in flight.
// Enqueue is a no-op for such jobs.
func Active(st Status) bool {
	return st == Queued || st == Processing || st == Transcribing
}
