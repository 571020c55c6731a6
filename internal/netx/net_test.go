package netx

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestPutPresigned(t *testing.T) {
	file := []byte("\x89PNG fake image bytes")

	t.Run("success 200 OK", func(t *testing.T) {
		var gotBody []byte
		var gotCT, gotMethod string
		var gotLen int64

		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotMethod = r.Method
			gotCT = r.Header.Get("Content-Type")
			gotLen = r.ContentLength
			body, _ := io.ReadAll(r.Body)
			_ = r.Body.Close()
			gotBody = body
			w.WriteHeader(http.StatusOK)
		}))
		defer ts.Close()

		h := http.Header{}
		h.Set("Content-Type", "image/png")
		h.Set("Host", "ignored.example")

		err := PutPresigned(context.Background(), ts.Client(), ts.URL+"/bucket/images/1?X-Amz-Signature=abc",
			bytes.NewReader(file), int64(len(file)), h)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotMethod != http.MethodPut {
			t.Fatalf("method = %q, want PUT", gotMethod)
		}
		if gotCT != "image/png" {
			t.Fatalf("Content-Type = %q, want image/png", gotCT)
		}
		if gotLen != int64(len(file)) {
			t.Fatalf("Content-Length = %d, want %d", gotLen, len(file))
		}
		if !bytes.Equal(gotBody, file) {
			t.Fatalf("body = %q, want %q", string(gotBody), string(file))
		}
	})

	t.Run("default content type", func(t *testing.T) {
		var gotCT string
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			gotCT = r.Header.Get("Content-Type")
			_, _ = io.Copy(io.Discard, r.Body)
		}))
		defer ts.Close()

		if err := PutPresigned(context.Background(), nil, ts.URL, bytes.NewReader(file), int64(len(file)), nil); err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if gotCT != "application/octet-stream" {
			t.Fatalf("Content-Type = %q, want application/octet-stream", gotCT)
		}
	})

	t.Run("non-2xx -> error with body", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusForbidden)
			_, _ = w.Write([]byte("<Error><Code>AccessDenied</Code></Error>"))
		}))
		defer ts.Close()

		err := PutPresigned(context.Background(), ts.Client(), ts.URL, bytes.NewReader(file), int64(len(file)), nil)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if !strings.Contains(err.Error(), "upload failed: 403") || !strings.Contains(err.Error(), "AccessDenied") {
			t.Fatalf("error = %q, want status and body", err.Error())
		}
	})

	t.Run("network error", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		ts.Close()

		err := PutPresigned(context.Background(), nil, ts.URL, bytes.NewReader(file), int64(len(file)), nil)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
		if strings.Contains(err.Error(), "upload failed") {
			t.Fatalf("got wrong kind of error: %v", err)
		}
	})

	t.Run("bad url", func(t *testing.T) {
		err := PutPresigned(context.Background(), nil, "://bad", bytes.NewReader(file), 1, nil)
		if err == nil {
			t.Fatal("expected error, got nil")
		}
	})

	t.Run("cancelled context", func(t *testing.T) {
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
		defer ts.Close()

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		err := PutPresigned(ctx, nil, ts.URL, bytes.NewReader(file), int64(len(file)), nil)
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("want context.Canceled, got %v", err)
		}
	})
}
