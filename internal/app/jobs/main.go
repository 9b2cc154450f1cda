package jobs

import (
	"time"

	"github.com/voxscribe/voxgo/internal/app/inform"
	"github.com/voxscribe/voxgo/internal/pkg/cmdapp"
	"github.com/voxscribe/voxgo/internal/pkg/messages"
	"github.com/voxscribe/voxgo/internal/pkg/metrics"
	"github.com/voxscribe/voxgo/internal/pkg/mongo"
	"github.com/voxscribe/voxgo/internal/pkg/rabbit"
	"github.com/voxscribe/voxgo/internal/pkg/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"github.com/streadway/amqp"

	"github.com/heptiolabs/healthcheck"
)

var rootCmd = &cobra.Command{
	Use:   "jobService",
	Short: "VoxScribe Job Management Service",
	Long:  `HTTP server to manage transcription jobs and their results`,
	Run:   run,
}

func init() {
	cmdapp.InitApplication(rootCmd)
	rootCmd.PersistentFlags().Int32P("port", "", 8001, "Default service port")
	cmdapp.Config.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	cmdapp.Config.SetDefault("port", 8081)
	cmdapp.Config.SetDefault("fileStorage.path", "/data/audio.in/")
}

//Execute starts the server
func Execute() {
	cmdapp.Execute(rootCmd)
}

func run(cmd *cobra.Command, args []string) {
	cmdapp.Log.Info("Starting jobService")
	var data ServiceData
	var err error
	data.health = healthcheck.NewHandler()

	err = initMetrics(&data)
	cmdapp.CheckOrPanic(err, "Can't init metrics")

	data.Storage, err = storage.NewFromConfig(storage.NewConfig(cmdapp.Config))
	cmdapp.CheckOrPanic(err, "Can't init file storage")

	msgChannelProvider, err := rabbit.NewChannelProvider()
	cmdapp.CheckOrPanic(err, "Can't init rabbit channel")
	defer msgChannelProvider.Close()
	data.health.AddLivenessCheck("rabbit", healthcheck.Async(msgChannelProvider.Healthy, 10*time.Second))

	err = initQueues(msgChannelProvider)
	cmdapp.CheckOrPanic(err, "Can't init queues")
	data.MessageSender = rabbit.NewSender(msgChannelProvider)

	mongoSessionProvider, err := mongo.NewSessionProvider()
	cmdapp.CheckOrPanic(err, "Can't init mongo")
	defer mongoSessionProvider.Close()
	data.health.AddLivenessCheck("mongo", healthcheck.Async(mongoSessionProvider.Healthy, 10*time.Second))

	data.Jobs, err = mongo.NewJobStore(mongoSessionProvider)
	cmdapp.CheckOrPanic(err, "Can't init job store")
	data.Transcripts, err = mongo.NewTranscriptStore(mongoSessionProvider)
	cmdapp.CheckOrPanic(err, "Can't init transcript store")

	if cmdapp.Config.GetString("smtp.host") != "" {
		data.EmailMaker, err = inform.NewSimpleEmailMaker(cmdapp.Config)
		cmdapp.CheckOrPanic(err, "Can't init email maker")
		data.EmailSender, err = inform.NewSimpleEmailSender()
		cmdapp.CheckOrPanic(err, "Can't init email sender")
	} else {
		cmdapp.Log.Warn("No smtp.host configured, email endpoint is off")
	}
	data.Port = cmdapp.Config.GetInt("port")

	err = StartWebServer(&data)
	cmdapp.CheckOrPanic(err, "Can't start web server")
}

func initQueues(prv *rabbit.ChannelProvider) error {
	cmdapp.Log.Info("Initializing queues")
	return prv.RunOnChannelWithRetry(func(ch *amqp.Channel) error {
		_, err := rabbit.DeclareQueue(ch, prv.QueueName(messages.Transcribe))
		return err
	})
}

func initMetrics(data *ServiceData) error {
	data.metrics.responseDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "job_service",
			Name:      "request_durations_seconds",
			Help:      "Request latency distributions.",
		}, nil)
	return metrics.Register(data.metrics.responseDur)
}
