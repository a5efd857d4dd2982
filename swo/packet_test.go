// Copyright 2020 Jorge Salazar. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package swo

import (
	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

var _ = Describe("TracePacket", func() {
	It("renders each packet variant on one line", func() {
		for _, tc := range []struct {
			pkt      TracePacket
			expected string
		}{
			{TracePacket{Type: PacketSync}, "sync"},
			{TracePacket{Type: PacketOverflow}, "overflow"},
			{TracePacket{Type: PacketTimeStamp, CounterDelay: 3, Value: 1092}, "timestamp +1092 (tc=3)"},
			{TracePacket{Type: PacketItmData, ID: 0, Payload: []byte{0x41, 0x00}}, "itm port 0: 41 00"},
			{TracePacket{Type: PacketDwtData, ID: 17, Payload: []byte{0xE2}}, "dwt source 17: e2"},
			{TracePacket{Type: PacketExtension, Data: []byte{0x08, 0x05}}, "extension: 08 05"},
			{TracePacket{Type: PacketReserved, Data: []byte{0x04}}, "reserved: 04"},
		} {
			Expect(tc.pkt.String()).To(Equal(tc.expected))
		}
	})

	It("names every packet type", func() {
		names := map[PacketType]string{
			PacketSync:      "Sync",
			PacketOverflow:  "Overflow",
			PacketTimeStamp: "TimeStamp",
			PacketItmData:   "ItmData",
			PacketDwtData:   "DwtData",
			PacketExtension: "Extension",
			PacketReserved:  "Reserved",
		}
		for typ, name := range names {
			Expect(typ.String()).To(Equal(name))
		}
		Expect(PacketType(250).String()).To(Equal("UNKNOWN(250)"))
	})
})
