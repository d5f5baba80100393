package models

// IngestRequest carries one fully-buffered archive through the ingestion
// pipeline. UploadedBy is the acting identity, passed explicitly rather
// than read from ambient request context.
type IngestRequest struct {
	Data        []byte
	FileName    string
	ContentType string
	Prefix      string
	ExamID      int
	UploadedBy  string
}

// UploadResult is produced once per qualifying archive entry.
type UploadResult struct {
	StorageKey string `json:"storage_key"`
	URL        string `json:"url"`
}

// EntryFailure records a per-entry ingestion error without aborting the
// remaining entries.
type EntryFailure struct {
	EntryPath string `json:"entry_path"`
	Reason    string `json:"reason"`
}

// IngestResult is the outcome of one archive ingestion request.
type IngestResult struct {
	ExamID       int            `json:"exam_id"`
	ExamName     string         `json:"exam_name"`
	UploadedURLs []string       `json:"uploaded_urls"`
	Failures     []EntryFailure `json:"failures,omitempty"`
}

// SubmissionIngestedEvent is published after each successful entry.
type SubmissionIngestedEvent struct {
	ExamID      int    `json:"exam_id"`
	StudentID   int    `json:"student_id"`
	StudentRoll string `json:"student_roll"`
	FileURL     string `json:"file_url"`
	UploadedBy  string `json:"uploaded_by"`
	Timestamp   int64  `json:"timestamp"`
}
