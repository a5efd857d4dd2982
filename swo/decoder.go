// Copyright 2020 Jorge Salazar. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package swo

import (
	"github.com/JSalazar88/swotrace/support/logging"
)

// decodeState identifies the decoder's position within a packet.
type decodeState uint8

const (
	// stateHeader is the initial state: the next byte is a packet header.
	stateHeader decodeState = iota
	// stateSyncing consumes a run of zero bytes terminated by 0x80.
	stateSyncing
	// stateItmData accumulates an ITM payload of a known target size.
	stateItmData
	// stateDwtData accumulates a DWT payload of a known target size.
	stateDwtData
	// stateExtension accumulates an extension packet, continuation-bit
	// delimited.
	stateExtension
	// stateReserved accumulates a reserved packet, continuation-bit
	// delimited.
	stateReserved
	// stateTimeStamp accumulates the 7-bit groups of a long-form timestamp.
	stateTimeStamp
)

// Decoder decodes a raw SWO byte stream into TracePackets.
//
// The zero Decoder is ready to use. Bytes are pushed in with Feed and
// decoded packets are pulled out with Pull, in arrival order. Malformed
// byte sequences never produce an error: the decoder logs the anomaly,
// discards the offending bytes, and resynchronizes on the next valid
// header byte.
//
// A Decoder is not safe for concurrent use. Its exported fields must not
// be changed after the first call to Feed or Pull.
type Decoder struct {
	// Logger receives decode diagnostics. If nil, no logging will be
	// performed.
	Logger logging.L

	// incoming holds fed bytes not yet run through the state machine.
	incoming []byte
	// packets holds completed packets not yet pulled.
	packets []TracePacket

	state decodeState

	// Partial-packet accumulators. Which of these are meaningful depends
	// on state.
	syncCount int    // zero bytes seen while syncing
	id        int    // stimulus port / event source being accumulated
	target    int    // payload size implied by the header
	tc        int    // counter delay of the timestamp being accumulated
	buf       []byte // payload, raw data, or 7-bit timestamp groups
}

// Feed appends raw trace data to the decoder's input queue.
//
// No decoding occurs until the next Pull. Feed never fails; backpressure
// is the caller's responsibility.
func (d *Decoder) Feed(data []byte) {
	d.incoming = append(d.incoming, data...)
}

// Pull returns the next decoded packet, or nil if no complete packet is
// available. A nil return is a normal empty-queue signal, not an error.
//
// Pull first runs the state machine over all buffered input, then
// dequeues the oldest completed packet. Its cost is proportional to the
// currently-buffered bytes, amortized O(1) per fed byte.
func (d *Decoder) Pull() *TracePacket {
	for _, b := range d.incoming {
		d.processByte(b)
	}
	d.incoming = d.incoming[:0]

	if len(d.packets) == 0 {
		return nil
	}
	pkt := d.packets[0]
	d.packets = d.packets[1:]
	return &pkt
}

// processByte advances the state machine by one byte.
func (d *Decoder) processByte(b byte) {
	switch d.state {
	case stateHeader:
		d.decodeHeader(b)
	case stateSyncing:
		d.syncByte(b)
	case stateItmData, stateDwtData:
		d.dataByte(b)
	case stateExtension, stateReserved:
		d.rawByte(b)
	case stateTimeStamp:
		d.timestampByte(b)
	}
}

// emit appends a completed packet to the output queue.
func (d *Decoder) emit(pkt TracePacket) {
	decoderPackets.WithLabelValues(pkt.Type.String()).Inc()
	d.packets = append(d.packets, pkt)
}

// malformed records an anomaly and resets the decoder to the header
// state, discarding any partial packet.
func (d *Decoder) malformed(format string, args ...interface{}) {
	decoderMalformed.Inc()
	logging.Must(d.Logger).Warnf(format, args...)
	d.state = stateHeader
	d.buf = nil
}

// decodeHeader dispatches on a packet header byte. See table E-1 in the
// ARMv7-M architecture reference manual.
func (d *Decoder) decodeHeader(b byte) {
	switch {
	case b == 0x70:
		d.emit(TracePacket{Type: PacketOverflow})

	case b == 0x00:
		// A run of zero bytes followed by 0x80 synchronizes the stream.
		d.state = stateSyncing
		d.syncCount = 1

	default:
		switch nibble := b & 0x0F; nibble {
		case 0x0:
			d.timestampHeader(b)

		case 0x4:
			d.state = stateReserved
			d.buf = []byte{b}

		case 0x8:
			d.state = stateExtension
			d.buf = []byte{b}

		default:
			size, ok := payloadSize(nibble)
			if !ok {
				d.malformed("invalid size code in header byte 0x%02X", b)
				return
			}
			d.id = int(b >> 3)
			d.target = size
			d.buf = make([]byte, 0, size)
			if nibble&0x4 != 0 {
				// Hardware (DWT) source.
				d.state = stateDwtData
			} else {
				// Software (ITM) source.
				d.state = stateItmData
			}
		}
	}
}

// timestampHeader handles a header byte whose low nibble is zero.
func (d *Decoder) timestampHeader(b byte) {
	switch {
	case b&0x80 == 0:
		// Short-form timestamp: the value is carried in the header itself.
		ts := uint64((b >> 4) & 0x7)
		if ts == 0 {
			d.malformed("short-form timestamp with zero value")
			return
		}
		d.emit(TracePacket{Type: PacketTimeStamp, CounterDelay: 0, Value: ts})

	case b&0xC0 == 0xC0:
		// Long-form timestamp: 7-bit continuation groups follow.
		d.tc = int((b >> 4) & 0x3)
		d.buf = nil
		d.state = stateTimeStamp

	default:
		d.malformed("invalid timestamp header byte 0x%02X", b)
	}
}

// syncByte consumes one byte of a synchronization sequence. The ARM spec
// calls for five 0x00 bytes followed by 0x80.
func (d *Decoder) syncByte(b byte) {
	switch b {
	case 0x00:
		if d.syncCount > 6 {
			d.malformed("too many zero bytes in sync packet")
			return
		}
		d.syncCount++

	case 0x80:
		if d.syncCount == 5 {
			d.emit(TracePacket{Type: PacketSync})
			d.state = stateHeader
		} else {
			d.malformed("invalid number of zero bytes (%d) in sync packet", d.syncCount)
		}

	default:
		d.malformed("unexpected byte 0x%02X in sync packet stream", b)
	}
}

// dataByte accumulates one ITM/DWT payload byte, emitting the packet once
// the header-derived target size is reached.
func (d *Decoder) dataByte(b byte) {
	d.buf = append(d.buf, b)
	if len(d.buf) < d.target {
		return
	}

	typ := PacketItmData
	if d.state == stateDwtData {
		typ = PacketDwtData
	}
	d.emit(TracePacket{Type: typ, ID: d.id, Payload: d.buf})
	d.buf = nil
	d.state = stateHeader
}

// rawByte accumulates one extension/reserved byte. These packets are
// continuation-bit delimited and capped at 5 bytes including the header.
func (d *Decoder) rawByte(b byte) {
	d.buf = append(d.buf, b)
	if b&0x80 != 0 && len(d.buf) < 5 {
		return
	}

	typ := PacketExtension
	if d.state == stateReserved {
		typ = PacketReserved
	}
	d.emit(TracePacket{Type: typ, Data: d.buf})
	d.buf = nil
	d.state = stateHeader
}

// timestampByte accumulates one 7-bit group of a long-form timestamp. The
// least-significant group arrives first, so the value is assembled from
// the accumulated groups in reverse arrival order.
func (d *Decoder) timestampByte(b byte) {
	d.buf = append(d.buf, b&0x7F)
	if b&0x80 != 0 {
		return
	}

	var value uint64
	for i := len(d.buf) - 1; i >= 0; i-- {
		value = value<<7 | uint64(d.buf[i])
	}
	d.emit(TracePacket{Type: PacketTimeStamp, CounterDelay: d.tc, Value: value})
	d.buf = nil
	d.state = stateHeader
}

// payloadSize derives the ITM/DWT payload size from the low two bits of
// the header nibble. The 0b00 size code is invalid.
func payloadSize(nibble byte) (int, bool) {
	switch nibble & 0x3 {
	case 0x1:
		return 1, true
	case 0x2:
		return 2, true
	case 0x3:
		return 4, true
	default:
		return 0, false
	}
}
