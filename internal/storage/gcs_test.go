package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"

	"cloud.google.com/go/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/option"
)

type fakeGCSWriter struct {
	buf      bytes.Buffer
	attrs    writerAttrs
	closeErr error
	closed   bool
}

func (w *fakeGCSWriter) Write(p []byte) (int, error) {
	n, err := w.buf.Write(p)
	if w.attrs.progress != nil {
		w.attrs.progress(int64(w.buf.Len()))
	}
	return n, err
}

func (w *fakeGCSWriter) Close() error {
	w.closed = true
	return w.closeErr
}

func stubGCSWriter(t *testing.T, w *fakeGCSWriter) *string {
	t.Helper()
	orig := openGCSWriter
	t.Cleanup(func() { openGCSWriter = orig })

	var target string
	openGCSWriter = func(ctx context.Context, c *storage.Client, bucket, key string, a writerAttrs) io.WriteCloser {
		target = bucket + "/" + key
		w.attrs = a
		return w
	}
	return &target
}

func TestGCSStorage_Put(t *testing.T) {
	h := writeFile(t)
	w := &fakeGCSWriter{}
	target := stubGCSWriter(t, w)
	prog := &progressLog{}

	s := &GCSStorage{bucket: "imgdrop"}
	require.NoError(t, s.Put(context.Background(), "images/abc", h, prog.fn))

	assert.Equal(t, "imgdrop/images/abc", *target)
	assert.Equal(t, fileBody, w.buf.Bytes())
	assert.True(t, w.closed)
	assert.Equal(t, "image/png", w.attrs.contentType)
	assert.Equal(t, "cat.png", w.attrs.metadata[originalNameKey])
	assert.Equal(t, [2]int64{h.Size, h.Size}, prog.last())
}

func TestGCSStorage_PutCloseError(t *testing.T) {
	w := &fakeGCSWriter{closeErr: errors.New("googleapi: Error 403")}
	stubGCSWriter(t, w)

	s := &GCSStorage{bucket: "imgdrop"}
	err := s.Put(context.Background(), "images/abc", writeFile(t), nil)
	require.ErrorContains(t, err, "403")
}

func TestNewGCS(t *testing.T) {
	_, err := NewGCS(context.Background(), "", "")
	require.Error(t, err)

	orig := newGCSClient
	t.Cleanup(func() { newGCSClient = orig })

	var nopts int
	newGCSClient = func(ctx context.Context, opts ...option.ClientOption) (*storage.Client, error) {
		nopts = len(opts)
		return nil, errors.New("no credentials")
	}
	_, err = NewGCS(context.Background(), "imgdrop", "/etc/sa.json")
	require.ErrorContains(t, err, "no credentials")
	assert.Equal(t, 1, nopts, "credentials file option is passed")

	newGCSClient = func(ctx context.Context, opts ...option.ClientOption) (*storage.Client, error) {
		return &storage.Client{}, nil
	}
	s, err := NewGCS(context.Background(), "imgdrop", "", option.WithoutAuthentication())
	require.NoError(t, err)
	assert.Equal(t, "imgdrop", s.bucket)
}
