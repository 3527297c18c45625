package capture

import (
	"context"
	"strconv"
	"sync"

	"github.com/slack-go/slack"
)

// FileUploadCaptor captures file uploads recorded by
// invocations of UploadFileV2Context
type FileUploadCaptor struct {
	FileUploads []slack.UploadFileV2Parameters
	currentID   int
	mu          sync.Mutex
}

// UploadFileV2Context tracks a file upload for post-execution validation
func (f *FileUploadCaptor) UploadFileV2Context(ctx context.Context, params slack.UploadFileV2Parameters) (file *slack.FileSummary, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	f.FileUploads = append(f.FileUploads, params)

	file = &slack.FileSummary{ID: strconv.Itoa(f.currentID), Title: params.Title}

	// Increment id for the next upload
	f.currentID = f.currentID + 1

	return file, nil
}

// NewFileUploader returns a new FileUploadCaptor with an initialized array of FileUploads
func NewFileUploader() (fileUploadCaptor *FileUploadCaptor) {
	fileUploadCaptor = new(FileUploadCaptor)
	fileUploadCaptor.FileUploads = make([]slack.UploadFileV2Parameters, 0)

	return fileUploadCaptor
}
