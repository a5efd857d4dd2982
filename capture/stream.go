// Copyright 2020 Jorge Salazar. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package capture

import (
	"fmt"
)

// FileExtension is the conventional extension for capture files.
const FileExtension = ".swocap"

// formatVersion is the current capture file format version.
const formatVersion = 1

// fileMagic identifies a capture file.
var fileMagic = [7]byte{'S', 'W', 'O', 'C', 'A', 'P', 0}

// maxChunkSize bounds a single chunk record, protecting readers of
// untrusted files from unreasonable allocations.
const maxChunkSize = 16 * 1024 * 1024

// Compression is the compression applied to a capture file's chunk
// records.
type Compression uint8

const (
	// CompressionNone stores chunk records uncompressed.
	CompressionNone Compression = 0
	// CompressionSnappy stores chunk records in a snappy-framed stream.
	CompressionSnappy Compression = 1
)

func (c Compression) String() string {
	switch c {
	case CompressionNone:
		return "NONE"
	case CompressionSnappy:
		return "SNAPPY"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(c))
	}
}

// fileHeader is the fixed-layout block at the start of every capture
// file.
//
// Layout (big-endian):
//
//	byte    magic[7];       // "SWOCAP\0"
//	uint8_t version;
//	uint8_t compression;
//	int64_t created_nanos;  // unix nanoseconds
type fileHeader struct {
	Magic        [7]byte
	Version      uint8
	Compression  uint8
	CreatedNanos int64
}
