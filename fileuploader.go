package hob

import (
	"context"

	"github.com/slack-go/slack"
)

// SlackFileUploader is implemented by any value that has the UploadFileV2Context method. slack.Client
// implements it. The main purpose remains a slight decoupling of the slack.Client in order
// for plugins to be able to write cleaner tests more easily.
type SlackFileUploader interface {
	// UploadFileV2Context uploads a file to slack. For more info in this API, check
	// https://pkg.go.dev/github.com/slack-go/slack#Client.UploadFileV2Context
	UploadFileV2Context(ctx context.Context, params slack.UploadFileV2Parameters) (file *slack.FileSummary, err error)
}

// FileUploader is implemented by any value that has the UploadFile method. slack.Client *almost*
// implements it but requires a thin wrapping to do so to handle UploadOption there for
// added extensibility.
type FileUploader interface {
	// UploadFile uploads a file to slack with the options applied to its parameters
	UploadFile(ctx context.Context, params slack.UploadFileV2Parameters, options ...UploadOption) (file *slack.FileSummary, err error)
}

// UploadOption defines an option on a UploadFileV2Parameters (i.e. upload on thread)
type UploadOption func(params *slack.UploadFileV2Parameters)

// UploadInThreadOption sets the file upload thread timestamp to an existing thread timestamp if
// the bang command triggering this is on an existing thread
func UploadInThreadOption(c *BangCommand) UploadOption {
	return func(p *slack.UploadFileV2Parameters) {
		if c.ThreadTimestamp != "" && c.ThreadTimestamp != c.Timestamp {
			p.ThreadTimestamp = c.ThreadTimestamp
		}
	}
}

// DefaultFileUploader holds a bare-bone SlackFileUploader
type DefaultFileUploader struct {
	slackFileUploader SlackFileUploader
}

// NewFileUploader returns a new DefaultFileUploader wrapping a SlackFileUploader
func NewFileUploader(slackFileUploader SlackFileUploader) (fileUploader *DefaultFileUploader) {
	fileUploader = new(DefaultFileUploader)
	fileUploader.slackFileUploader = slackFileUploader

	return fileUploader
}

// UploadFile uploads a file given the slack.UploadFileV2Parameters with the UploadOptions applied to it.
// The file size is set from the content when missing since slack requires it
func (fileUploader *DefaultFileUploader) UploadFile(ctx context.Context, params slack.UploadFileV2Parameters, options ...UploadOption) (file *slack.FileSummary, err error) {
	for _, opt := range options {
		opt(&params)
	}

	if params.FileSize == 0 && params.Content != "" {
		params.FileSize = len(params.Content)
	}

	return fileUploader.slackFileUploader.UploadFileV2Context(ctx, params)
}
