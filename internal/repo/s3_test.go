package repo_test

import (
	"bufio"
	"bytes"
	"context"
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tagcal/internal/domain"
	"github.com/pkordes/tagcal/internal/repo"
)

// fakeS3 is an http.RoundTripper that serves path-style GetObject and
// PutObject requests from memory.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string][]byte
	puts    []string
}

func newFakeS3() *fakeS3 { return &fakeS3{objects: make(map[string][]byte)} }

func (f *fakeS3) RoundTrip(req *http.Request) (*http.Response, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.TrimPrefix(req.URL.Path, "/")
	switch req.Method {
	case http.MethodPut:
		body, err := io.ReadAll(req.Body)
		if err != nil {
			return nil, err
		}
		if req.Header.Get("X-Amz-Decoded-Content-Length") != "" {
			body = decodeAWSChunked(body)
		}
		f.objects[key] = body
		f.puts = append(f.puts, key)
		return response(http.StatusOK, nil), nil
	case http.MethodGet:
		body, ok := f.objects[key]
		if !ok {
			return response(http.StatusNotFound, []byte(
				`<?xml version="1.0"?><Error><Code>NoSuchKey</Code><Message>missing</Message></Error>`)), nil
		}
		return response(http.StatusOK, body), nil
	}
	return response(http.StatusNotImplemented, nil), nil
}

func response(status int, body []byte) *http.Response {
	h := http.Header{"Content-Length": {strconv.Itoa(len(body))}}
	if status != http.StatusOK {
		h.Set("Content-Type", "application/xml")
	}
	return &http.Response{
		StatusCode:    status,
		Header:        h,
		Body:          io.NopCloser(bytes.NewReader(body)),
		ContentLength: int64(len(body)),
	}
}

// decodeAWSChunked strips aws-chunked framing: "<hex>[;ext]\r\n<data>\r\n" repeated, ending with a zero chunk.
func decodeAWSChunked(b []byte) []byte {
	r := bufio.NewReader(bytes.NewReader(b))
	var out []byte
	for {
		line, err := r.ReadString('\n')
		if err != nil {
			return out
		}
		size, err := strconv.ParseInt(strings.TrimSpace(strings.SplitN(line, ";", 2)[0]), 16, 64)
		if err != nil || size == 0 {
			return out
		}
		chunk := make([]byte, size)
		if _, err := io.ReadFull(r, chunk); err != nil {
			return out
		}
		out = append(out, chunk...)
		_, _ = r.ReadString('\n')
	}
}

func newTestS3Repo(t *testing.T, fake *fakeS3) repo.RecordRepo {
	t.Helper()
	r, err := repo.NewS3RecordRepo(context.Background(), repo.S3Config{
		Bucket:          "tagcal",
		Region:          "us-east-1",
		Endpoint:        "http://s3.test",
		PathStyle:       true,
		AccessKeyID:     "AKIA",
		SecretAccessKey: "SECRET",
		HTTPClient:      &http.Client{Transport: fake},
	})
	require.NoError(t, err)
	return r
}

func TestS3RecordRepo(t *testing.T) {
	exerciseRecordRepo(t, newTestS3Repo(t, newFakeS3()))
}

func TestS3RecordRepo_ObjectLayout(t *testing.T) {
	fake := newFakeS3()
	r := newTestS3Repo(t, fake)

	require.NoError(t, r.Put(context.Background(), "calendarData", []byte(`{}`)))

	assert.Equal(t, []string{"tagcal/calendarData.json"}, fake.puts)
}

func TestS3RecordRepo_RequiresBucket(t *testing.T) {
	_, err := repo.NewS3RecordRepo(context.Background(), repo.S3Config{})
	assert.ErrorIs(t, err, domain.ErrValidation)
}
