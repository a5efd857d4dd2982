// Copyright 2020 Jorge Salazar. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package capture reads and writes SWO capture files.
//
// A capture file preserves a raw SWO byte stream as a sequence of timed
// chunks, so a live trace session can be replayed offline through the
// swo decoder. The file starts with a fixed-layout header (magic,
// format version, compression, creation time), followed by the chunk
// records, optionally snappy-compressed. Each record is the chunk's
// time offset since the start of the capture and its raw bytes, both
// varint-framed.
package capture
