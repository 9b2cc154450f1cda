package mongo

import (
	"context"
	"time"

	"github.com/voxscribe/voxgo/internal/pkg/cmdapp"
	verr "github.com/voxscribe/voxgo/internal/pkg/err"
	"github.com/voxscribe/voxgo/internal/pkg/persistence"

	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pkg/errors"
)

// TranscriptStore saves transcripts in mongo db, one per job
type TranscriptStore struct {
	SessionProvider *SessionProvider
}

// NewTranscriptStore creates TranscriptStore instance
func NewTranscriptStore(sessionProvider *SessionProvider) (*TranscriptStore, error) {
	f := TranscriptStore{SessionProvider: sessionProvider}
	return &f, nil
}

// Insert saves the transcript, replacing an older one for the same job
func (st *TranscriptStore) Insert(tr *persistence.Transcript) error {
	cmdapp.Log.Infof("Saving transcript for job %s", tr.JobID)

	ctx, cancel := mongoContext()
	defer cancel()

	session, err := st.SessionProvider.NewSession()
	if err != nil {
		return err
	}
	defer session.EndSession(context.Background())

	if tr.ID == "" {
		tr.ID = uuid.New().String()
	}
	tr.CreatedAt = time.Now()

	c := newColl(session, transcriptTable)
	_, err = c.ReplaceOne(ctx, bson.M{"jobID": sanitize(tr.JobID)}, tr,
		options.Replace().SetUpsert(true))
	if err != nil {
		return errors.Wrap(err, "Can't save transcript")
	}
	return nil
}

// GetByJob returns the transcript of a job
func (st *TranscriptStore) GetByJob(jobID string) (*persistence.Transcript, error) {
	ctx, cancel := mongoContext()
	defer cancel()

	session, err := st.SessionProvider.NewSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(context.Background())

	c := newColl(session, transcriptTable)
	var res persistence.Transcript
	err = c.FindOne(ctx, bson.M{"jobID": sanitize(jobID)}).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, errors.Wrapf(verr.ErrNotFound, "no transcript for job %s", jobID)
	}
	if err != nil {
		return nil, errors.Wrap(err, "Can't get transcript")
	}
	return &res, nil
}

// ExistsByJob tells if the job has a transcript
func (st *TranscriptStore) ExistsByJob(jobID string) (bool, error) {
	ctx, cancel := mongoContext()
	defer cancel()

	session, err := st.SessionProvider.NewSession()
	if err != nil {
		return false, err
	}
	defer session.EndSession(context.Background())

	c := newColl(session, transcriptTable)
	n, err := c.CountDocuments(ctx, bson.M{"jobID": sanitize(jobID)})
	if err != nil {
		return false, errors.Wrap(err, "Can't count transcripts")
	}
	return n > 0, nil
}

// DeleteByJob drops the transcript of a job if there is one
func (st *TranscriptStore) DeleteByJob(jobID string) error {
	ctx, cancel := mongoContext()
	defer cancel()

	session, err := st.SessionProvider.NewSession()
	if err != nil {
		return err
	}
	defer session.EndSession(context.Background())

	c := newColl(session, transcriptTable)
	_, err = c.DeleteOne(ctx, bson.M{"jobID": sanitize(jobID)})
	if err != nil {
		return errors.Wrap(err, "Can't delete transcript")
	}
	return nil
}
