// Copyright 2020 Jorge Salazar. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package dataio

import (
	"encoding/binary"
	"io"
)

// Writer represents a Writer that can write both individual bytes and
// sequences of bytes.
type Writer interface {
	io.Writer
	io.ByteWriter
}

// MakeWriter returns a Writer for the specified Writer.
func MakeWriter(w io.Writer) Writer {
	if dw, ok := w.(Writer); ok {
		return dw
	}
	return &simulatedWriter{w}
}

type simulatedWriter struct {
	io.Writer
}

func (w *simulatedWriter) WriteByte(c byte) error {
	d := [1]byte{c}
	switch amt, err := w.Write(d[:]); {
	case err != nil:
		return err
	case amt != 1:
		panic("invalid Writer implementation")
	default:
		return nil
	}
}

// WriteUvarint writes v to w in unsigned LEB128 form, returning the
// number of bytes written.
//
// The encoding matches encoding/binary's ReadUvarint, which can be used
// directly on a Reader to read the value back.
func WriteUvarint(w Writer, v uint64) (int, error) {
	var buf [binary.MaxVarintLen64]byte
	n := binary.PutUvarint(buf[:], v)
	return w.Write(buf[:n])
}
