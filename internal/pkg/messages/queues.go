package messages

const (
	// Transcribe queue
	Transcribe string = "Transcribe"
)

// ResultQueueFor creates result queue name for input queue
func ResultQueueFor(queue string) string {
	return queue + "_Result"
}
