package persistence

import "time"

type (
	// Job is one uploaded audio file and its processing state
	Job struct {
		ID               string    `json:"id" bson:"ID"`
		UserID           string    `json:"userID" bson:"userID"`
		Status           string    `json:"status" bson:"status"`
		OriginalFilename string    `json:"originalFilename" bson:"originalFilename"`
		StoragePath      string    `json:"-" bson:"storagePath"`
		DurationSeconds  int       `json:"durationSeconds,omitempty" bson:"durationSeconds,omitempty"`
		FileSizeBytes    int64     `json:"fileSizeBytes,omitempty" bson:"fileSizeBytes,omitempty"`
		ErrorMessage     string    `json:"errorMessage,omitempty" bson:"error,omitempty"`
		CreatedAt        time.Time `json:"createdAt" bson:"createdAt"`
		UpdatedAt        time.Time `json:"updatedAt" bson:"updatedAt"`
	}

	// Transcript is the result of a completed job, one per job
	Transcript struct {
		ID        string    `json:"id" bson:"ID"`
		JobID     string    `json:"jobID" bson:"jobID"`
		Text      string    `json:"text" bson:"text"`
		Metadata  Metadata  `json:"metadata" bson:"metadata"`
		CreatedAt time.Time `json:"createdAt" bson:"createdAt"`
	}

	// Metadata keeps provider info and the segmented transcript
	Metadata struct {
		Model    string    `json:"model,omitempty" bson:"model,omitempty"`
		Mock     bool      `json:"mock,omitempty" bson:"mock,omitempty"`
		Duration int       `json:"duration" bson:"duration"`
		Segments []Segment `json:"segments" bson:"segments"`
	}

	// Segment is one timestamped piece of the transcript.
	// Start and End are MM:SS or HH:MM:SS strings as returned by the provider.
	Segment struct {
		Start string `json:"start" bson:"start"`
		End   string `json:"end" bson:"end"`
		Text  string `json:"text" bson:"text"`
	}
)
