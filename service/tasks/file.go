package tasks

import (
	"bytes"
	"context"
	"encoding/json"

	"github.com/cockroachdb/errors"
	"github.com/viant/afs"
	"github.com/viant/afs/file"

	"github.com/bigsources/jobdesk/model/task"
	"github.com/bigsources/jobdesk/service/gateway"
)

// FileSource reads a task snapshot from any afs URL (file://, mem://, s3://).
type FileSource struct {
	URL string
	fs  afs.Service
}

// NewFileSource creates a source reading URL.
func NewFileSource(URL string) *FileSource {
	return &FileSource{URL: URL, fs: afs.New()}
}

// ListTasks reads and decodes the snapshot.
func (s *FileSource) ListTasks(ctx context.Context) ([]*task.Task, error) {
	data, err := s.fs.DownloadWithURL(ctx, s.URL)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read tasks from %s", s.URL)
	}
	result, err := gateway.DecodeList[task.Task](data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to decode tasks from %s", s.URL)
	}
	return result, nil
}

// Save writes tasks to URL as a JSON array.
func Save(ctx context.Context, URL string, tasks []*task.Task) error {
	if tasks == nil {
		tasks = []*task.Task{}
	}
	data, err := json.MarshalIndent(tasks, "", "  ")
	if err != nil {
		return errors.Wrap(err, "failed to encode tasks")
	}
	if err = afs.New().Upload(ctx, URL, file.DefaultFileOsMode, bytes.NewReader(data)); err != nil {
		return errors.Wrapf(err, "failed to write tasks to %s", URL)
	}
	return nil
}
