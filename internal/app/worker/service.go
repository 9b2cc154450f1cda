package worker

import (
	"context"
	"encoding/json"
	"os"
	"time"

	"github.com/voxscribe/voxgo/internal/pkg/cmdapp"
	verr "github.com/voxscribe/voxgo/internal/pkg/err"
	"github.com/voxscribe/voxgo/internal/pkg/messages"
	"github.com/voxscribe/voxgo/internal/pkg/persistence"
	"github.com/voxscribe/voxgo/internal/pkg/status"
	"github.com/voxscribe/voxgo/internal/pkg/storage"
	"github.com/voxscribe/voxgo/internal/pkg/transcriber"

	"github.com/cenkalti/backoff"
	"github.com/pkg/errors"
	"github.com/streadway/amqp"
)

// JobStore updates job records during processing
type JobStore interface {
	Claim(id string) (*persistence.Job, error)
	SetStatus(id string, newStatus status.Status) error
	Complete(id string, durationSec int) error
	Fail(id string, errMsg string) error
}

// TranscriptStore saves transcripts
type TranscriptStore interface {
	Insert(tr *persistence.Transcript) error
	DeleteByJob(jobID string) error
}

// Normalizer prepares audio for the transcription provider
type Normalizer interface {
	Normalize(ctx context.Context, file string) (string, bool)
}

type backoffProvider interface {
	Get() backoff.BackOff
}

// ServiceData keeps data required for service work
type ServiceData struct {
	Jobs        JobStore
	Transcripts TranscriptStore
	Storage     storage.FileStorage
	Normalizer  Normalizer
	Transcriber transcriber.Transcriber

	WorkCh <-chan amqp.Delivery
	bp     backoffProvider
}

//StartWorkerService starts the event queue listener service to listen for work events
// return channel to track the finish event
func StartWorkerService(data *ServiceData) (<-chan bool, error) {
	if data.Jobs == nil {
		return nil, errors.New("No job store")
	}
	if data.Transcripts == nil {
		return nil, errors.New("No transcript store")
	}
	if data.Storage == nil {
		return nil, errors.New("No file storage")
	}
	if data.Transcriber == nil {
		return nil, errors.New("No transcriber")
	}
	if data.WorkCh == nil {
		return nil, errors.New("No work channel")
	}
	if data.bp == nil {
		data.bp = &expBackOffProvider{}
	}
	cmdapp.Log.Infof("Starting listen for messages")

	fc := make(chan bool)

	go listenQueue(data, fc)
	return fc, nil
}

func listenQueue(data *ServiceData, fc chan<- bool) {
	for d := range data.WorkCh {
		err := processMsg(&d, data)
		if err != nil {
			cmdapp.Log.Error("Message error ", err)
			d.Nack(false, !d.Redelivered) // try redeliver for first time
			continue
		}
		d.Ack(false)
	}
	cmdapp.Log.Infof("Stopped listening queue")
	fc <- true
}

func processMsg(d *amqp.Delivery, data *ServiceData) error {
	var message messages.QueueMessage
	if err := json.Unmarshal(d.Body, &message); err != nil {
		if d.Redelivered {
			return nil // drop the poison message
		}
		return errors.Wrap(err, "Can't unmarshal message "+string(d.Body))
	}
	err := work(data, message.ID)
	if err != nil {
		return err
	}
	cmdapp.Log.Infof("Msg processed")
	return nil
}

//work is the main method of the worker. A pipeline failure marks the
// job FAILED, only a failure to claim the job drops the message back
// to the queue.
func work(data *ServiceData, id string) error {
	cmdapp.Log.Infof("Got task for ID: %s", id)
	ctx := context.Background()

	job, err := data.Jobs.Claim(id)
	if err != nil {
		return errors.Wrap(err, "Can't claim job "+id)
	}
	if job == nil {
		cmdapp.Log.Infof("Job %s is not queued, skipping", id)
		return nil
	}

	file, temp, err := data.Storage.LocalPath(ctx, job.StoragePath)
	if err != nil {
		if verr.IsNotFound(err) {
			failJob(data, id, "Audio file not found")
		} else {
			failJob(data, id, "Can not access audio file")
		}
		cmdapp.Log.Error(err)
		return nil
	}
	if temp {
		defer os.Remove(file)
	}

	if data.Normalizer != nil {
		nFile, ok := data.Normalizer.Normalize(ctx, file)
		if ok {
			defer os.Remove(nFile)
			file = nFile
		}
	}

	err = retry(data, func() error { return data.Jobs.SetStatus(id, status.Transcribing) })
	if err != nil {
		failJob(data, id, "Can not update status")
		cmdapp.Log.Error(err)
		return nil
	}

	res, err := data.Transcriber.Transcribe(ctx, file)
	if err != nil {
		failJob(data, id, err.Error())
		cmdapp.Log.Error(err)
		return nil
	}

	tr := persistence.Transcript{JobID: id, Text: res.Text,
		Metadata: persistence.Metadata{Model: res.Model, Mock: res.Mock,
			Duration: res.Duration, Segments: res.Segments}}
	err = retry(data, func() error { return data.Transcripts.Insert(&tr) })
	if err == nil {
		err = retry(data, func() error { return data.Jobs.Complete(id, res.Duration) })
	}
	if err != nil {
		failJob(data, id, "Can not save result")
		cmdapp.Log.Error(err)
		return nil
	}
	cmdapp.Log.Infof("Completed job %s", id)
	return nil
}

//failJob drops a partial transcript and records the failure.
// The status write must not be lost, so it is retried on its own.
func failJob(data *ServiceData, id string, errMsg string) {
	err := data.Transcripts.DeleteByJob(id)
	if err != nil {
		cmdapp.Log.Error(err)
	}
	err = retry(data, func() error { return data.Jobs.Fail(id, errMsg) })
	if err != nil {
		cmdapp.Log.Error(errors.Wrap(err, "Can't mark job as failed"))
	}
}

func retry(data *ServiceData, op func() error) error {
	return backoff.Retry(op, data.bp.Get())
}

type expBackOffProvider struct {
}

func (bp *expBackOffProvider) Get() backoff.BackOff {
	b := &backoff.ExponentialBackOff{
		InitialInterval:     backoff.DefaultInitialInterval,
		RandomizationFactor: backoff.DefaultRandomizationFactor,
		Multiplier:          backoff.DefaultMultiplier,
		MaxInterval:         backoff.DefaultMaxInterval,
		MaxElapsedTime:      45 * time.Second,
		Clock:               backoff.SystemClock,
	}
	b.Reset()
	return b
}
