package mongo

const (
	store           = "voxgo"
	jobTable        = "jobs"
	transcriptTable = "transcripts"
)

var indexData = []IndexData{
	newIndexData(jobTable, "ID", true),
	newIndexData(transcriptTable, "jobID", true)}
