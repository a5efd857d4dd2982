// Copyright 2020 Jorge Salazar. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package capture

import (
	"bufio"
	"io"
	"time"

	"github.com/JSalazar88/swotrace/support/dataio"

	"github.com/golang/snappy"
	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"
)

// writerBufferSize is the bufio buffer in front of uncompressed output.
const writerBufferSize = 64 * 1024

// WriterConfig configures a capture Writer.
type WriterConfig struct {
	// Compression selects the chunk record compression.
	Compression Compression
}

// Writer writes a capture file to an underlying stream.
//
// A Writer is not safe for concurrent use; see Recorder for a
// synchronized wrapper.
type Writer struct {
	compression Compression

	// w is the active output, layered over bw or snappyW.
	w       dataio.Writer
	bw      *bufio.Writer
	snappyW *snappy.Writer

	// start anchors chunk offsets; it is set by the first WriteChunk.
	start time.Time

	chunks int64
	bytes  int64

	// now is a time source override for tests.
	now func() time.Time
}

// NewWriter writes a capture file header to w and returns a Writer that
// appends chunk records to it.
//
// The Writer buffers internally; the caller must Close it to flush the
// final records. Closing the Writer does not close w.
func (cfg WriterConfig) NewWriter(w io.Writer) (*Writer, error) {
	hdr := fileHeader{
		Magic:        fileMagic,
		Version:      formatVersion,
		Compression:  uint8(cfg.Compression),
		CreatedNanos: time.Now().UnixNano(),
	}
	if err := struc.Pack(w, &hdr); err != nil {
		return nil, errors.Wrap(err, "writing capture header")
	}

	cw := Writer{compression: cfg.Compression}
	switch cfg.Compression {
	case CompressionSnappy:
		cw.snappyW = snappy.NewBufferedWriter(w)
		cw.w = dataio.MakeWriter(cw.snappyW)

	case CompressionNone:
		cw.bw = bufio.NewWriterSize(w, writerBufferSize)
		cw.w = cw.bw

	default:
		return nil, errors.Errorf("unknown compression: %s", cfg.Compression)
	}
	return &cw, nil
}

// WriteChunk appends one chunk of raw SWO bytes to the capture,
// stamping it with its offset from the start of the capture. The first
// chunk defines the start and has offset zero.
//
// Empty chunks are dropped; they carry no trace data.
func (w *Writer) WriteChunk(data []byte) error {
	if len(data) == 0 {
		return nil
	}

	now := w.timeNow()
	var offset time.Duration
	if w.start.IsZero() {
		w.start = now
	} else if now.After(w.start) {
		offset = now.Sub(w.start)
	}

	if _, err := dataio.WriteUvarint(w.w, uint64(offset)); err != nil {
		return errors.Wrap(err, "writing chunk offset")
	}
	if _, err := dataio.WriteUvarint(w.w, uint64(len(data))); err != nil {
		return errors.Wrap(err, "writing chunk size")
	}
	if _, err := w.w.Write(data); err != nil {
		return errors.Wrap(err, "writing chunk data")
	}

	w.chunks++
	w.bytes += int64(len(data))
	writerChunks.Inc()
	writerBytes.Add(float64(len(data)))
	return nil
}

// NumChunks is the number of chunks written so far.
func (w *Writer) NumChunks() int64 { return w.chunks }

// NumBytes is the number of trace bytes written so far, before framing
// and compression.
func (w *Writer) NumBytes() int64 { return w.bytes }

// Flush forces buffered records out to the underlying stream.
func (w *Writer) Flush() error {
	if w.snappyW != nil {
		return errors.Wrap(w.snappyW.Flush(), "flushing snappy writer")
	}
	return errors.Wrap(w.bw.Flush(), "flushing buffered writer")
}

// Close finalizes the capture body. It does not close the underlying
// stream.
func (w *Writer) Close() error {
	if w.snappyW != nil {
		return errors.Wrap(w.snappyW.Close(), "closing snappy writer")
	}
	return errors.Wrap(w.bw.Flush(), "flushing buffered writer")
}

func (w *Writer) timeNow() time.Time {
	if w.now != nil {
		return w.now()
	}
	return time.Now()
}
