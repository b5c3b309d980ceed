package s3

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"tradedocs/internal/port"
)

// Archiver copies locally written comparison artifacts into an S3 bucket
// under a per-run prefix.
type Archiver struct {
	storage port.ObjectStorage
	bucket  string
}

// NewArchiver creates an Archiver writing into bucket.
func NewArchiver(storage port.ObjectStorage, bucket string) *Archiver {
	return &Archiver{storage: storage, bucket: bucket}
}

// ArchiveFile uploads one local file under prefix, keyed by its base name.
// Returns the object key.
func (a *Archiver) ArchiveFile(ctx context.Context, prefix, localPath string) (string, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return "", fmt.Errorf("opening %s: %w", localPath, err)
	}
	defer func() { _ = f.Close() }()

	info, err := f.Stat()
	if err != nil {
		return "", fmt.Errorf("stat %s: %w", localPath, err)
	}

	key := strings.TrimSuffix(prefix, "/") + "/" + filepath.Base(localPath)
	_, err = a.storage.Upload(ctx, port.UploadInput{
		Bucket:      a.bucket,
		Key:         key,
		Body:        f,
		ContentType: contentTypeFor(localPath),
		Size:        info.Size(),
	})
	if err != nil {
		return "", err
	}
	return key, nil
}

func contentTypeFor(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return "application/json"
	case ".md":
		return "text/markdown"
	case ".csv":
		return "text/csv"
	case ".xlsx":
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	default:
		return "application/octet-stream"
	}
}
