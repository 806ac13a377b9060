package host

import (
	"io"
	"os"

	"github.com/klauspost/compress/zstd"
)

// Recorder compresses the bytes sent by a target into a capture.
type Recorder struct {
	enc    *zstd.Encoder
	closer io.Closer
}

// NewRecorder creates a Recorder writing to w.
func NewRecorder(w io.Writer) (*Recorder, error) {
	enc, err := zstd.NewWriter(w)
	if err != nil {
		return nil, err
	}
	return &Recorder{enc: enc}, nil
}

// CreateCapture creates a Recorder writing to the file at path.
func CreateCapture(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	r, err := NewRecorder(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	r.closer = f
	return r, nil
}

// Write implements io.Writer.
func (r *Recorder) Write(p []byte) (int, error) {
	return r.enc.Write(p)
}

// Tee returns a reader recording everything read from in.
func (r *Recorder) Tee(in io.Reader) io.Reader {
	return io.TeeReader(in, r.enc)
}

// Close completes the capture.
func (r *Recorder) Close() error {
	err := r.enc.Close()
	if r.closer != nil {
		if cerr := r.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

type capture struct {
	*zstd.Decoder
	file io.Closer
}

func (c *capture) Close() error {
	c.Decoder.Close()
	if c.file != nil {
		return c.file.Close()
	}
	return nil
}

// NewCaptureReader decompresses a capture read from r.
func NewCaptureReader(r io.Reader) (io.ReadCloser, error) {
	dec, err := zstd.NewReader(r)
	if err != nil {
		return nil, err
	}
	return &capture{Decoder: dec}, nil
}

// OpenCapture opens the capture file at path.
func OpenCapture(path string) (io.ReadCloser, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	dec, err := zstd.NewReader(f)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &capture{Decoder: dec, file: f}, nil
}
