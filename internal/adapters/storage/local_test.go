package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_SaveAndDelete(t *testing.T) {
	root := t.TempDir()
	s, err := NewLocalStorage(root)
	require.NoError(t, err)

	ref, err := s.Save(context.Background(), "uploaded_media/abc.mp3", strings.NewReader("sound"), 5, "audio/mpeg")
	require.NoError(t, err)
	assert.Equal(t, "uploaded_media/abc.mp3", ref)

	data, err := os.ReadFile(filepath.Join(root, "uploaded_media", "abc.mp3"))
	require.NoError(t, err)
	assert.Equal(t, "sound", string(data))

	require.NoError(t, s.Delete(context.Background(), ref))
	_, err = os.Stat(filepath.Join(root, "uploaded_media", "abc.mp3"))
	assert.True(t, os.IsNotExist(err))

	assert.NoError(t, s.Delete(context.Background(), ref), "deleting a missing file is not an error")
}

func TestLocalStorage_RejectsEscapingKeys(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"../secret", "/etc/passwd", "a/../../b", "", "."} {
		_, err := s.Save(context.Background(), key, strings.NewReader("x"), 1, "")
		assert.Error(t, err, key)
	}
}

func TestLocalStorage_CancelledContext(t *testing.T) {
	s, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = s.Save(ctx, "profile_pics/x.png", strings.NewReader("img"), 3, "image/png")
	assert.ErrorIs(t, err, context.Canceled)
}

func TestCleanKey(t *testing.T) {
	k, err := cleanKey("profile_pics//a.png")
	require.NoError(t, err)
	assert.Equal(t, "profile_pics/a.png", k)

	k, err = cleanKey(`uploaded_media\b.mp4`)
	require.NoError(t, err)
	assert.Equal(t, "uploaded_media/b.mp4", k)
}

type fakeObjectStore struct {
	puts    map[string]string
	removed []string
}

func (f *fakeObjectStore) PutObject(ctx context.Context, bucket, object string, r io.Reader, size int64, opts minio.PutObjectOptions) (minio.UploadInfo, error) {
	b, err := io.ReadAll(r)
	if err != nil {
		return minio.UploadInfo{}, err
	}
	f.puts[bucket+"/"+object] = opts.ContentType + ":" + string(b)
	return minio.UploadInfo{Bucket: bucket, Key: object, Size: int64(len(b))}, nil
}

func (f *fakeObjectStore) RemoveObject(ctx context.Context, bucket, object string, opts minio.RemoveObjectOptions) error {
	f.removed = append(f.removed, bucket+"/"+object)
	return nil
}

func TestMinIOStorage_SaveAndDelete(t *testing.T) {
	fake := &fakeObjectStore{puts: map[string]string{}}
	s := &MinIOStorage{client: fake, bucket: "bodhini"}

	ref, err := s.Save(context.Background(), "uploaded_media/v.mp4", strings.NewReader("movie"), 5, "video/mp4")
	require.NoError(t, err)
	assert.Equal(t, "uploaded_media/v.mp4", ref)
	assert.Equal(t, "video/mp4:movie", fake.puts["bodhini/uploaded_media/v.mp4"])

	require.NoError(t, s.Delete(context.Background(), ref))
	assert.Equal(t, []string{"bodhini/uploaded_media/v.mp4"}, fake.removed)
}
