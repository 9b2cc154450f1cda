package mongo

import (
	"context"
	"time"

	"github.com/voxscribe/voxgo/internal/pkg/cmdapp"
	verr "github.com/voxscribe/voxgo/internal/pkg/err"
	"github.com/voxscribe/voxgo/internal/pkg/persistence"
	"github.com/voxscribe/voxgo/internal/pkg/status"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/pkg/errors"
)

// JobStore saves and updates job records in mongo db
type JobStore struct {
	SessionProvider *SessionProvider
}

// NewJobStore creates JobStore instance
func NewJobStore(sessionProvider *SessionProvider) (*JobStore, error) {
	f := JobStore{SessionProvider: sessionProvider}
	return &f, nil
}

// Insert saves new job
func (st *JobStore) Insert(job *persistence.Job) error {
	cmdapp.Log.Infof("Saving job %s", job.ID)

	ctx, cancel := mongoContext()
	defer cancel()

	session, err := st.SessionProvider.NewSession()
	if err != nil {
		return err
	}
	defer session.EndSession(context.Background())

	now := time.Now()
	job.CreatedAt = now
	job.UpdatedAt = now

	c := newColl(session, jobTable)
	_, err = c.InsertOne(ctx, job)
	if err != nil {
		return errors.Wrap(err, "Can't save job")
	}
	return nil
}

// Get returns the job by ID, scoped to the owner
func (st *JobStore) Get(id string, userID string) (*persistence.Job, error) {
	ctx, cancel := mongoContext()
	defer cancel()

	session, err := st.SessionProvider.NewSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(context.Background())

	c := newColl(session, jobTable)
	var res persistence.Job
	err = c.FindOne(ctx, ownedFilter(id, userID)).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, errors.Wrapf(verr.ErrNotFound, "job %s not found", id)
	}
	if err != nil {
		return nil, errors.Wrap(err, "Can't get job")
	}
	return &res, nil
}

// List returns the owner's jobs, newest first. Trashed jobs are
// skipped unless asked for by statusFilter.
func (st *JobStore) List(userID string, statusFilter string, skip, limit int64) ([]persistence.Job, error) {
	ctx, cancel := mongoContext()
	defer cancel()

	session, err := st.SessionProvider.NewSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(context.Background())

	filter := bson.M{"userID": sanitize(userID)}
	if statusFilter != "" {
		filter["status"] = sanitize(statusFilter)
	} else {
		filter["status"] = bson.M{"$ne": status.Name(status.Trashed)}
	}

	opts := options.Find().SetSort(bson.M{"createdAt": -1}).SetSkip(skip)
	if limit > 0 {
		opts = opts.SetLimit(limit)
	}
	c := newColl(session, jobTable)
	cursor, err := c.Find(ctx, filter, opts)
	if err != nil {
		return nil, errors.Wrap(err, "Can't list jobs")
	}
	res := make([]persistence.Job, 0)
	err = cursor.All(ctx, &res)
	if err != nil {
		return nil, errors.Wrap(err, "Can't read jobs")
	}
	return res, nil
}

// Enqueue moves the job to QUEUED if a new processing attempt may
// start. Returns the job and a flag indicating a state change.
// Active jobs are left untouched.
func (st *JobStore) Enqueue(id string, userID string) (*persistence.Job, bool, error) {
	ctx, cancel := mongoContext()
	defer cancel()

	session, err := st.SessionProvider.NewSession()
	if err != nil {
		return nil, false, err
	}
	defer session.EndSession(context.Background())

	filter := ownedFilter(id, userID)
	filter["status"] = bson.M{"$in": []string{status.Name(status.Uploaded),
		status.Name(status.Failed), status.Name(status.Completed)}}

	c := newColl(session, jobTable)
	var res persistence.Job
	err = c.FindOneAndUpdate(ctx, filter,
		bson.M{"$set": bson.M{"status": status.Name(status.Queued), "updatedAt": time.Now()},
			"$unset": bson.M{"error": "", "durationSeconds": ""}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&res)
	if err == mongo.ErrNoDocuments {
		job, err := st.Get(id, userID)
		if err != nil {
			return nil, false, err
		}
		return job, false, nil
	}
	if err != nil {
		return nil, false, errors.Wrap(err, "Can't enqueue job")
	}
	return &res, true, nil
}

// Claim atomically takes a queued job for processing.
// Returns nil job when there is nothing to claim.
func (st *JobStore) Claim(id string) (*persistence.Job, error) {
	ctx, cancel := mongoContext()
	defer cancel()

	session, err := st.SessionProvider.NewSession()
	if err != nil {
		return nil, err
	}
	defer session.EndSession(context.Background())

	c := newColl(session, jobTable)
	var res persistence.Job
	err = c.FindOneAndUpdate(ctx,
		bson.M{"ID": sanitize(id), "status": status.Name(status.Queued)},
		bson.M{"$set": bson.M{"status": status.Name(status.Processing), "updatedAt": time.Now()}},
		options.FindOneAndUpdate().SetReturnDocument(options.After)).Decode(&res)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, errors.Wrap(err, "Can't claim job")
	}
	return &res, nil
}

// SetStatus updates the job status
func (st *JobStore) SetStatus(id string, newStatus status.Status) error {
	return st.update(id, bson.M{"$set": bson.M{"status": status.Name(newStatus),
		"updatedAt": time.Now()}})
}

// Complete marks the job done and records the audio duration
func (st *JobStore) Complete(id string, durationSec int) error {
	return st.update(id, bson.M{
		"$set": bson.M{"status": status.Name(status.Completed),
			"durationSeconds": durationSec, "updatedAt": time.Now()},
		"$unset": bson.M{"error": ""}})
}

// Fail marks the job failed with an error message
func (st *JobStore) Fail(id string, errMsg string) error {
	return st.update(id, bson.M{"$set": bson.M{"status": status.Name(status.Failed),
		"error": errMsg, "updatedAt": time.Now()}})
}

// SetStatusOwned updates the owner's job status, with an optional
// error message. The recorded error is kept when errMsg is empty.
func (st *JobStore) SetStatusOwned(id string, userID string, newStatus status.Status, errMsg string) error {
	ctx, cancel := mongoContext()
	defer cancel()

	session, err := st.SessionProvider.NewSession()
	if err != nil {
		return err
	}
	defer session.EndSession(context.Background())

	set := bson.M{"status": status.Name(newStatus), "updatedAt": time.Now()}
	if errMsg != "" {
		set["error"] = errMsg
	}
	update := bson.M{"$set": set}
	c := newColl(session, jobTable)
	res, err := c.UpdateOne(ctx, ownedFilter(id, userID), update)
	if err != nil {
		return errors.Wrap(err, "Can't update job")
	}
	if res.MatchedCount == 0 {
		return errors.Wrapf(verr.ErrNotFound, "job %s not found", id)
	}
	return nil
}

// Delete removes the owner's job record
func (st *JobStore) Delete(id string, userID string) error {
	cmdapp.Log.Infof("Deleting job %s", id)

	ctx, cancel := mongoContext()
	defer cancel()

	session, err := st.SessionProvider.NewSession()
	if err != nil {
		return err
	}
	defer session.EndSession(context.Background())

	c := newColl(session, jobTable)
	res, err := c.DeleteOne(ctx, ownedFilter(id, userID))
	if err != nil {
		return errors.Wrap(err, "Can't delete job")
	}
	if res.DeletedCount == 0 {
		return errors.Wrapf(verr.ErrNotFound, "job %s not found", id)
	}
	return nil
}

func (st *JobStore) update(id string, update bson.M) error {
	ctx, cancel := mongoContext()
	defer cancel()

	session, err := st.SessionProvider.NewSession()
	if err != nil {
		return err
	}
	defer session.EndSession(context.Background())

	c := newColl(session, jobTable)
	res, err := c.UpdateOne(ctx, bson.M{"ID": sanitize(id)}, update)
	if err != nil {
		return errors.Wrap(err, "Can't update job")
	}
	if res.MatchedCount == 0 {
		return errors.Wrapf(verr.ErrNotFound, "job %s not found", id)
	}
	return nil
}

func ownedFilter(id string, userID string) bson.M {
	return bson.M{"ID": sanitize(id), "userID": sanitize(userID)}
}
