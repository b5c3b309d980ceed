package s3

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tradedocs/internal/port"
)

type fakeStorage struct {
	uploads []port.UploadInput
	bodies  []string
}

func (f *fakeStorage) Upload(_ context.Context, input port.UploadInput) (*port.UploadOutput, error) {
	body, err := io.ReadAll(input.Body)
	if err != nil {
		return nil, err
	}
	f.uploads = append(f.uploads, input)
	f.bodies = append(f.bodies, string(body))
	return &port.UploadOutput{Location: "s3://" + input.Bucket + "/" + input.Key}, nil
}

func (f *fakeStorage) Delete(context.Context, string, string) error { return nil }

func (f *fakeStorage) GetPresignedURL(context.Context, string, string, int64) (string, error) {
	return "", nil
}

func TestArchiver_ArchiveFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "qwen3-vl_32b_vs_deepseek-ocr.diff.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"decl.pdf": []}`), 0o644))

	fake := &fakeStorage{}
	archiver := NewArchiver(fake, "reports")

	key, err := archiver.ArchiveFile(context.Background(), "runs/2026-08-31/", path)
	require.NoError(t, err)
	assert.Equal(t, "runs/2026-08-31/qwen3-vl_32b_vs_deepseek-ocr.diff.json", key)

	require.Len(t, fake.uploads, 1)
	assert.Equal(t, "reports", fake.uploads[0].Bucket)
	assert.Equal(t, "application/json", fake.uploads[0].ContentType)
	assert.Equal(t, `{"decl.pdf": []}`, fake.bodies[0])
}

func TestContentTypeFor(t *testing.T) {
	assert.Equal(t, "text/markdown", contentTypeFor("report.diff.md"))
	assert.Equal(t, "text/csv", contentTypeFor("table.csv"))
	assert.Equal(t, "application/octet-stream", contentTypeFor("blob.bin"))
}
