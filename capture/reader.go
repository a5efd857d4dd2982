// Copyright 2020 Jorge Salazar. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package capture

import (
	"bufio"
	"encoding/binary"
	"io"
	"time"

	"github.com/JSalazar88/swotrace/support/dataio"

	"github.com/golang/snappy"
	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"
)

// readerBufferSize is the bufio buffer over the source stream.
const readerBufferSize = 1024 * 1024

// Chunk is one timed run of raw SWO bytes read back from a capture.
type Chunk struct {
	// Offset is the chunk's time offset from the start of the capture.
	Offset time.Duration

	// Data is the chunk's raw SWO bytes.
	Data []byte
}

// Reader reads a capture file from an underlying stream.
//
// A Reader is not safe for concurrent use.
type Reader struct {
	hdr fileHeader
	r   dataio.Reader
}

// NewReader reads and validates the capture header from r and returns a
// Reader positioned at the first chunk record.
func NewReader(r io.Reader) (*Reader, error) {
	br := bufio.NewReaderSize(r, readerBufferSize)

	var hdr fileHeader
	if err := struc.Unpack(br, &hdr); err != nil {
		return nil, errors.Wrap(err, "reading capture header")
	}
	if hdr.Magic != fileMagic {
		return nil, errors.New("not a capture file (bad magic)")
	}
	if hdr.Version != formatVersion {
		return nil, errors.Errorf("unsupported capture version %d", hdr.Version)
	}

	cr := Reader{hdr: hdr}
	switch Compression(hdr.Compression) {
	case CompressionSnappy:
		cr.r = dataio.MakeReader(snappy.NewReader(br))
	case CompressionNone:
		cr.r = br
	default:
		return nil, errors.Errorf("unknown compression: %s", Compression(hdr.Compression))
	}
	return &cr, nil
}

// CreatedAt is the capture's creation time, from the header.
func (r *Reader) CreatedAt() time.Time {
	return time.Unix(0, r.hdr.CreatedNanos)
}

// Compression is the capture's chunk record compression, from the
// header.
func (r *Reader) Compression() Compression {
	return Compression(r.hdr.Compression)
}

// ReadChunk reads the next chunk record. It returns io.EOF at the clean
// end of the capture; an EOF inside a record is reported as a truncation
// error.
func (r *Reader) ReadChunk() (*Chunk, error) {
	offset, err := binary.ReadUvarint(r.r)
	if err != nil {
		if err == io.EOF {
			return nil, io.EOF
		}
		return nil, errors.Wrap(err, "reading chunk offset")
	}

	size, err := binary.ReadUvarint(r.r)
	if err != nil {
		return nil, errors.Wrap(eofToTruncation(err), "reading chunk size")
	}
	if size > maxChunkSize {
		return nil, errors.Errorf("chunk size %d exceeds limit (%d)", size, maxChunkSize)
	}

	data := make([]byte, size)
	if _, err := io.ReadFull(r.r, data); err != nil {
		return nil, errors.Wrap(eofToTruncation(err), "reading chunk data")
	}

	readerChunks.Inc()
	readerBytes.Add(float64(size))
	return &Chunk{Offset: time.Duration(offset), Data: data}, nil
}

// eofToTruncation converts a mid-record io.EOF into io.ErrUnexpectedEOF
// so it is not mistaken for a clean end of stream.
func eofToTruncation(err error) error {
	if err == io.EOF {
		return io.ErrUnexpectedEOF
	}
	return err
}
