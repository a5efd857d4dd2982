// Copyright 2020 Jorge Salazar. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package swo

import (
	"fmt"

	"github.com/JSalazar88/swotrace/support/fmtutil"
)

// PacketType enumerates the kinds of packets carried by the SWO stream.
type PacketType uint8

const (
	// PacketSync is a stream synchronization marker. It carries no payload.
	PacketSync PacketType = iota

	// PacketOverflow signals that the trace source dropped data. It carries
	// no payload.
	PacketOverflow

	// PacketTimeStamp is a relative timestamp.
	PacketTimeStamp

	// PacketItmData is software instrumentation data from an ITM stimulus
	// port.
	PacketItmData

	// PacketDwtData is hardware event data from the DWT.
	PacketDwtData

	// PacketExtension is a vendor-defined extension packet.
	PacketExtension

	// PacketReserved is a reserved-for-future-use packet.
	PacketReserved
)

func (t PacketType) String() string {
	switch t {
	case PacketSync:
		return "Sync"
	case PacketOverflow:
		return "Overflow"
	case PacketTimeStamp:
		return "TimeStamp"
	case PacketItmData:
		return "ItmData"
	case PacketDwtData:
		return "DwtData"
	case PacketExtension:
		return "Extension"
	case PacketReserved:
		return "Reserved"
	default:
		return fmt.Sprintf("UNKNOWN(%d)", uint8(t))
	}
}

// TracePacket is a single decoded SWO trace packet.
//
// Type discriminates the variant; the remaining fields are populated
// according to it:
//
//   - PacketSync, PacketOverflow: no other fields.
//   - PacketTimeStamp: CounterDelay and Value.
//   - PacketItmData: ID (stimulus port) and Payload (1, 2, or 4 bytes).
//   - PacketDwtData: ID (event source) and Payload (1, 2, or 4 bytes).
//     The ID indicates what is being traced:
//       0: event counter wrapping
//       1: exception tracing
//       2: PC sampling
//       0b10xxy: data trace for comparator xx; y=1 write, y=0 read
//   - PacketExtension, PacketReserved: Data (1-5 bytes, header included).
//
// Every packet is a complete, self-consistent unit; the decoder never emits
// a partially-filled payload.
type TracePacket struct {
	// Type is the packet variant.
	Type PacketType

	// CounterDelay is the 0-3 clock-tick delay context of a timestamp.
	CounterDelay int

	// Value is the reconstructed timestamp value.
	Value uint64

	// ID is the ITM stimulus port or DWT event source.
	ID int

	// Payload is the ITM/DWT data, in wire arrival order.
	Payload []byte

	// Data is the raw bytes of an extension or reserved packet, including
	// the header byte.
	Data []byte
}

func (p TracePacket) String() string {
	switch p.Type {
	case PacketSync:
		return "sync"
	case PacketOverflow:
		return "overflow"
	case PacketTimeStamp:
		return fmt.Sprintf("timestamp +%d (tc=%d)", p.Value, p.CounterDelay)
	case PacketItmData:
		return fmt.Sprintf("itm port %d: %s", p.ID, fmtutil.Compact(p.Payload))
	case PacketDwtData:
		return fmt.Sprintf("dwt source %d: %s", p.ID, fmtutil.Compact(p.Payload))
	case PacketExtension:
		return fmt.Sprintf("extension: %s", fmtutil.Compact(p.Data))
	case PacketReserved:
		return fmt.Sprintf("reserved: %s", fmtutil.Compact(p.Data))
	default:
		return fmt.Sprintf("unknown packet type %d", uint8(p.Type))
	}
}
