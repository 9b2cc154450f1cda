package worker

import (
	"github.com/voxscribe/voxgo/internal/pkg/audio"
	"github.com/voxscribe/voxgo/internal/pkg/cmdapp"
	"github.com/voxscribe/voxgo/internal/pkg/messages"
	"github.com/voxscribe/voxgo/internal/pkg/mongo"
	"github.com/voxscribe/voxgo/internal/pkg/rabbit"
	"github.com/voxscribe/voxgo/internal/pkg/storage"
	"github.com/voxscribe/voxgo/internal/pkg/transcriber"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
)

var appName = "VoxScribe Worker Service"

var rootCmd = &cobra.Command{
	Use:   "workerService",
	Short: appName,
	Long:  `Worker service listens for transcription tasks from the queue and runs the transcription pipeline`,
	Run:   run,
}

func init() {
	cmdapp.InitApplication(rootCmd)
	cmdapp.Config.SetDefault("fileStorage.path", "/data/audio.in/")
}

//Execute starts the server
func Execute() {
	cmdapp.Execute(rootCmd)
}

func run(cmd *cobra.Command, args []string) {
	cmdapp.Log.Info("Starting " + appName)
	data := ServiceData{}
	var err error

	msgChannelProvider, err := rabbit.NewChannelProvider()
	cmdapp.CheckOrPanic(err, "Can't init rabbit channel")
	defer msgChannelProvider.Close()

	ch, err := msgChannelProvider.Channel()
	cmdapp.CheckOrPanic(err, "Can't open channel")

	data.WorkCh, err = rabbit.NewChannel(ch, msgChannelProvider.QueueName(messages.Transcribe))
	cmdapp.CheckOrPanic(err, "Can't listen "+messages.Transcribe+" queue")

	mongoSessionProvider, err := mongo.NewSessionProvider()
	cmdapp.CheckOrPanic(err, "Can't init mongo")
	defer mongoSessionProvider.Close()

	data.Jobs, err = mongo.NewJobStore(mongoSessionProvider)
	cmdapp.CheckOrPanic(err, "Can't init job store")
	data.Transcripts, err = mongo.NewTranscriptStore(mongoSessionProvider)
	cmdapp.CheckOrPanic(err, "Can't init transcript store")

	data.Storage, err = storage.NewFromConfig(storage.NewConfig(cmdapp.Config))
	cmdapp.CheckOrPanic(err, "Can't init file storage")

	data.Normalizer = audio.NewNormalizer()
	data.Transcriber, err = newTranscriber()
	cmdapp.CheckOrPanic(err, "Can't init transcriber")

	fc, err := StartWorkerService(&data)
	cmdapp.CheckOrPanic(err, "Can't start worker service")
	<-fc
	cmdapp.Log.Infof("Exiting service")
}

func newTranscriber() (transcriber.Transcriber, error) {
	if cmdapp.Config.GetString("transcriber.key") == "" {
		cmdapp.Log.Warn("No transcriber.key configured, using mock transcriber")
		return transcriber.NewMock(), nil
	}
	res, err := transcriber.NewClient()
	if err != nil {
		return nil, errors.Wrap(err, "Can't init transcriber client")
	}
	return res, nil
}
