package netx

import (
	"io"
	"sync"
)

// ProgressFunc receives cumulative byte counts.
type ProgressFunc func(transferred, total int64)

// Counter accumulates byte counts and reports them to a ProgressFunc.
// It implements io.Reader by counting len(p) without consuming anything,
// which is the shape minio-go expects for PutObjectOptions.Progress.
//
// Counter is safe for concurrent use: minio-go feeds one hook from several
// part uploads at once. It is not an io.Seeker, so a rewound part does not
// reset the running total; re-read bytes are capped at total instead.
type Counter struct {
	mu    sync.Mutex
	n     int64
	total int64
	fn    ProgressFunc
}

func NewCounter(total int64, fn ProgressFunc) *Counter {
	return &Counter{total: total, fn: fn}
}

// Add records k more bytes. fn is called with the lock held, so reports
// arrive in order.
func (c *Counter) Add(k int64) {
	if k <= 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n += k
	if c.total > 0 && c.n > c.total {
		c.n = c.total
	}
	if c.fn != nil {
		c.fn(c.n, c.total)
	}
}

// N returns the bytes counted so far.
func (c *Counter) N() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.n
}

func (c *Counter) Read(p []byte) (int, error) {
	c.Add(int64(len(p)))
	return len(p), nil
}

func (c *Counter) set(pos int64) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.n = pos
}

type progressReader struct {
	src io.Reader
	c   *Counter
}

func (r *progressReader) Read(p []byte) (int, error) {
	n, err := r.src.Read(p)
	r.c.Add(int64(n))
	return n, err
}

type progressReadSeeker struct {
	progressReader
	seeker io.Seeker
}

func (r *progressReadSeeker) Seek(offset int64, whence int) (int64, error) {
	pos, err := r.seeker.Seek(offset, whence)
	if err != nil {
		return pos, err
	}
	r.c.set(pos)
	return pos, nil
}

// NewProgressReader wraps src so every read reports the cumulative count
// against total. The result is an io.ReadSeeker when src is one, so SDKs
// that rewind bodies for signing or retries keep working.
func NewProgressReader(src io.Reader, total int64, fn ProgressFunc) io.Reader {
	pr := progressReader{src: src, c: NewCounter(total, fn)}
	if s, ok := src.(io.Seeker); ok {
		return &progressReadSeeker{progressReader: pr, seeker: s}
	}
	return &pr
}
