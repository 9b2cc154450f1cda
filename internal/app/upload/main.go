package upload

import (
	"time"

	"github.com/voxscribe/voxgo/internal/pkg/cmdapp"
	"github.com/voxscribe/voxgo/internal/pkg/metrics"
	"github.com/voxscribe/voxgo/internal/pkg/mongo"
	"github.com/voxscribe/voxgo/internal/pkg/storage"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/heptiolabs/healthcheck"
)

var rootCmd = &cobra.Command{
	Use:   "uploadService",
	Short: "VoxScribe Upload Audio File Service",
	Long:  `HTTP server to listen and upload audio files for transcription`,
	Run:   run,
}

func init() {
	cmdapp.InitApplication(rootCmd)
	rootCmd.PersistentFlags().Int32P("port", "", 8000, "Default service port")
	cmdapp.Config.BindPFlag("port", rootCmd.PersistentFlags().Lookup("port"))
	cmdapp.Config.SetDefault("port", 8080)
	cmdapp.Config.SetDefault("fileStorage.path", "/data/audio.in/")
}

//Execute starts the server
func Execute() {
	cmdapp.Execute(rootCmd)
}

func run(cmd *cobra.Command, args []string) {
	cmdapp.Log.Info("Starting uploadService")
	var data ServiceData
	var err error
	data.health = healthcheck.NewHandler()

	err = initMetrics(&data)
	cmdapp.CheckOrPanic(err, "Can't init metrics")

	data.Storage, err = storage.NewFromConfig(storage.NewConfig(cmdapp.Config))
	cmdapp.CheckOrPanic(err, "Can't init file storage")

	mongoSessionProvider, err := mongo.NewSessionProvider()
	cmdapp.CheckOrPanic(err, "Can't init mongo")
	defer mongoSessionProvider.Close()
	data.health.AddLivenessCheck("mongo", healthcheck.Async(mongoSessionProvider.Healthy, 10*time.Second))

	data.Jobs, err = mongo.NewJobStore(mongoSessionProvider)
	cmdapp.CheckOrPanic(err, "Can't init job store")
	data.Port = cmdapp.Config.GetInt("port")

	err = StartWebServer(&data)
	cmdapp.CheckOrPanic(err, "Can't start web server")
}

func initMetrics(data *ServiceData) error {
	namespace := "upload_service"
	data.metrics.uploadResponseDur = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "upload_request_durations_seconds",
			Help:      "Upload request latency distributions.",
		}, nil)
	err := metrics.Register(data.metrics.uploadResponseDur)
	if err != nil {
		return err
	}
	data.metrics.uploadRequestSize = prometheus.NewSummaryVec(
		prometheus.SummaryOpts{
			Namespace: namespace,
			Name:      "upload_request_size_bytes",
			Help:      "Upload request size in bytes.",
		}, nil)
	return metrics.Register(data.metrics.uploadRequestSize)
}
