package domain

const (
	EventTransactionCompleted = "transaction.completed"
	EventTransactionFailed    = "transaction.failed"
	EventTransactionRefunded  = "transaction.refunded"
	EventDownloadCompleted    = "download.completed"
	EventDownloadFailed       = "download.failed"
)
