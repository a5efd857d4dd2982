// Copyright 2020 Jorge Salazar. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package swotest provides utilities to construct valid SWO wire byte
// sequences for testing.
//
// The builders are the encoding half of the trace protocol: feeding their
// output to a swo.Decoder yields the corresponding packets back.
package swotest

import (
	"fmt"
)

// Itm returns the wire encoding of an ITM data packet for stimulus port
// id. The payload must be 1, 2, or 4 bytes long.
func Itm(id int, payload []byte) []byte {
	return dataPacket(id, 0x0, payload)
}

// Dwt returns the wire encoding of a DWT hardware event packet for event
// source id. The payload must be 1, 2, or 4 bytes long.
func Dwt(id int, payload []byte) []byte {
	return dataPacket(id, 0x4, payload)
}

func dataPacket(id int, source byte, payload []byte) []byte {
	header := byte(id)<<3 | source | sizeCode(len(payload))
	return append([]byte{header}, payload...)
}

// sizeCode maps a payload length onto the 2-bit size code carried in the
// header nibble.
func sizeCode(n int) byte {
	switch n {
	case 1:
		return 0x1
	case 2:
		return 0x2
	case 4:
		return 0x3
	default:
		panic(fmt.Sprintf("invalid payload size %d (must be 1, 2, or 4)", n))
	}
}

// ShortTimestamp returns the single-byte encoding of a short-form
// timestamp. The value must be in 1..7; zero is not encodable.
func ShortTimestamp(value int) []byte {
	if value < 1 || value > 7 {
		panic(fmt.Sprintf("short timestamp value %d out of range 1..7", value))
	}
	return []byte{byte(value) << 4}
}

// LongTimestamp returns the encoding of a long-form timestamp with
// counter delay tc (0..3): a header byte followed by the value split into
// 7-bit groups, least-significant group first, continuation bit set on
// all but the last group.
func LongTimestamp(tc int, value uint64) []byte {
	if tc < 0 || tc > 3 {
		panic(fmt.Sprintf("counter delay %d out of range 0..3", tc))
	}
	data := []byte{0xC0 | byte(tc)<<4}
	for {
		group := byte(value & 0x7F)
		value >>= 7
		if value != 0 {
			group |= 0x80
		}
		data = append(data, group)
		if value == 0 {
			return data
		}
	}
}

// SyncSequence returns a valid stream synchronization sequence: five zero
// bytes terminated by 0x80.
func SyncSequence() []byte {
	return []byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x80}
}

// Overflow returns the single-byte overflow marker.
func Overflow() []byte {
	return []byte{0x70}
}

// Stream concatenates wire sequences into one byte stream.
func Stream(seqs ...[]byte) []byte {
	var out []byte
	for _, s := range seqs {
		out = append(out, s...)
	}
	return out
}
