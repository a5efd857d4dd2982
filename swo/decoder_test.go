// Copyright 2020 Jorge Salazar. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package swo

import (
	"github.com/JSalazar88/swotrace/swo/swotest"

	. "github.com/onsi/ginkgo"
	. "github.com/onsi/gomega"
)

// drain pulls the decoder until it reports no packet available.
func drain(d *Decoder) []TracePacket {
	var pkts []TracePacket
	for pkt := d.Pull(); pkt != nil; pkt = d.Pull() {
		pkts = append(pkts, *pkt)
	}
	return pkts
}

var _ = Describe("Decoder", func() {
	var d *Decoder

	BeforeEach(func() {
		d = &Decoder{}
	})

	Context("reference capture 1", func() {
		// Example trace containing ITM trace data, timestamps, overflows,
		// and DWT trace data.
		data := []byte{
			3, 65, 0, 0, 0, 192, 204, 244, 109, 3, 66, 0, 0, 0, 192, 29,
			3, 67, 0, 0, 0, 112, 71, 86, 0, 0, 8, 112, 143, 226, 239, 127,
			91, 240, 196, 8,
		}

		expected := []TracePacket{
			{Type: PacketItmData, ID: 0, Payload: []byte{65, 0, 0, 0}},
			{Type: PacketTimeStamp, CounterDelay: 0, Value: 1800780},
			{Type: PacketItmData, ID: 0, Payload: []byte{66, 0, 0, 0}},
			{Type: PacketTimeStamp, CounterDelay: 0, Value: 29},
			{Type: PacketItmData, ID: 0, Payload: []byte{67, 0, 0, 0}},
			{Type: PacketOverflow},
			{Type: PacketDwtData, ID: 8, Payload: []byte{86, 0, 0, 8}},
			{Type: PacketOverflow},
			{Type: PacketDwtData, ID: 17, Payload: []byte{226, 239, 127, 91}},
			{Type: PacketTimeStamp, CounterDelay: 3, Value: 1092},
		}

		It("decodes the full capture fed at once", func() {
			d.Feed(data)
			Expect(drain(d)).To(Equal(expected))
		})

		It("decodes the same packets fed one byte at a time", func() {
			var pkts []TracePacket
			for _, b := range data {
				d.Feed([]byte{b})
				pkts = append(pkts, drain(d)...)
			}
			Expect(pkts).To(Equal(expected))
		})

		It("decodes the same packets fed in uneven chunks", func() {
			for i := 0; i < len(data); i += 7 {
				end := i + 7
				if end > len(data) {
					end = len(data)
				}
				d.Feed(data[i:end])
			}
			Expect(drain(d)).To(Equal(expected))
		})
	})

	Context("reference capture 2", func() {
		// This capture ends mid-timestamp; the trailing partial packet must
		// not be emitted.
		data := []byte{
			71, 68, 0, 0, 8, 135, 215, 2, 0, 0, 192, 161, 245, 109, 71, 72,
			0, 0, 8, 112, 71, 96, 0, 0, 8, 112, 143, 216, 2, 0, 0, 240, 197,
		}

		It("decodes every complete packet and withholds the partial one", func() {
			d.Feed(data)
			Expect(drain(d)).To(Equal([]TracePacket{
				{Type: PacketDwtData, ID: 8, Payload: []byte{68, 0, 0, 8}},
				{Type: PacketDwtData, ID: 16, Payload: []byte{215, 2, 0, 0}},
				{Type: PacketTimeStamp, CounterDelay: 0, Value: 1800865},
				{Type: PacketDwtData, ID: 8, Payload: []byte{72, 0, 0, 8}},
				{Type: PacketOverflow},
				{Type: PacketDwtData, ID: 8, Payload: []byte{96, 0, 0, 8}},
				{Type: PacketOverflow},
				{Type: PacketDwtData, ID: 17, Payload: []byte{216, 2, 0, 0}},
			}))
		})
	})

	Context("overflow packets", func() {
		It("passes consecutive overflow markers through", func() {
			d.Feed([]byte{0x70, 0x70})
			Expect(drain(d)).To(Equal([]TracePacket{
				{Type: PacketOverflow},
				{Type: PacketOverflow},
			}))
		})
	})

	Context("synchronization", func() {
		It("emits a Sync for five zero bytes terminated by 0x80", func() {
			d.Feed(swotest.SyncSequence())
			Expect(drain(d)).To(Equal([]TracePacket{{Type: PacketSync}}))
		})

		It("discards a sync sequence with too few zero bytes", func() {
			d.Feed([]byte{0x00, 0x00, 0x00, 0x80})
			Expect(drain(d)).To(BeEmpty())
		})

		It("aborts a sync sequence with too many zero bytes", func() {
			d.Feed([]byte{0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x00, 0x80})
			Expect(drain(d)).To(BeEmpty())
		})

		It("recovers from a spurious byte during sync", func() {
			// A malformed sync prefix must not corrupt the packet after it.
			d.Feed([]byte{0x00, 0x00, 0x99})
			d.Feed(swotest.Itm(3, []byte{0xAB, 0xCD}))
			Expect(drain(d)).To(Equal([]TracePacket{
				{Type: PacketItmData, ID: 3, Payload: []byte{0xAB, 0xCD}},
			}))
		})
	})

	Context("timestamps", func() {
		It("decodes a short-form timestamp from the header byte", func() {
			d.Feed([]byte{0x30})
			Expect(drain(d)).To(Equal([]TracePacket{
				{Type: PacketTimeStamp, CounterDelay: 0, Value: 3},
			}))
		})

		It("reconstructs a long-form timestamp from continuation groups", func() {
			// 0xD4 carries counter delay 1; 0x81 has the continuation bit set
			// with value bits 0x01; 0x02 terminates with value bits 0x02.
			d.Feed([]byte{0xD4, 0x81, 0x02})
			Expect(drain(d)).To(Equal([]TracePacket{
				{Type: PacketTimeStamp, CounterDelay: 1, Value: (0x02 << 7) | 0x01},
			}))
		})

		It("round-trips long-form timestamps of increasing width", func() {
			for _, value := range []uint64{0, 1, 127, 128, 1800780, 1 << 40} {
				for tc := 0; tc < 4; tc++ {
					d.Feed(swotest.LongTimestamp(tc, value))
					Expect(drain(d)).To(Equal([]TracePacket{
						{Type: PacketTimeStamp, CounterDelay: tc, Value: value},
					}), "value=%d tc=%d", value, tc)
				}
			}
		})

		It("discards an invalid timestamp header byte", func() {
			// Bit 7 set without bit 6 is not a valid long-form header.
			d.Feed([]byte{0x90})
			Expect(drain(d)).To(BeEmpty())

			d.Feed(swotest.ShortTimestamp(5))
			Expect(drain(d)).To(Equal([]TracePacket{
				{Type: PacketTimeStamp, CounterDelay: 0, Value: 5},
			}))
		})
	})

	Context("ITM and DWT data", func() {
		It("round-trips every payload size", func() {
			for _, payload := range [][]byte{
				{0x41},
				{0x41, 0x42},
				{0x41, 0x42, 0x43, 0x44},
			} {
				d.Feed(swotest.Itm(1, payload))
				Expect(drain(d)).To(Equal([]TracePacket{
					{Type: PacketItmData, ID: 1, Payload: payload},
				}))

				d.Feed(swotest.Dwt(8, payload))
				Expect(drain(d)).To(Equal([]TracePacket{
					{Type: PacketDwtData, ID: 8, Payload: payload},
				}))
			}
		})

		It("withholds a packet until its payload completes", func() {
			d.Feed([]byte{0x03, 0x41, 0x42})
			Expect(d.Pull()).To(BeNil())

			d.Feed([]byte{0x43, 0x44})
			Expect(drain(d)).To(Equal([]TracePacket{
				{Type: PacketItmData, ID: 0, Payload: []byte{0x41, 0x42, 0x43, 0x44}},
			}))
		})

		It("discards a header with an invalid size code", func() {
			// Low nibble 0xC encodes size code 0b00, which is invalid.
			d.Feed([]byte{0x0C})
			Expect(drain(d)).To(BeEmpty())

			d.Feed(swotest.Itm(0, []byte{0x01}))
			Expect(drain(d)).To(Equal([]TracePacket{
				{Type: PacketItmData, ID: 0, Payload: []byte{0x01}},
			}))
		})
	})

	Context("extension and reserved packets", func() {
		It("terminates an extension packet on a clear continuation bit", func() {
			d.Feed([]byte{0x08, 0x05})
			Expect(drain(d)).To(Equal([]TracePacket{
				{Type: PacketExtension, Data: []byte{0x08, 0x05}},
			}))
		})

		It("caps an extension packet at five bytes", func() {
			// Every byte keeps the continuation bit set; the length cap
			// forces emission.
			d.Feed([]byte{0x88, 0x81, 0x82, 0x83, 0x84})
			Expect(drain(d)).To(Equal([]TracePacket{
				{Type: PacketExtension, Data: []byte{0x88, 0x81, 0x82, 0x83, 0x84}},
			}))
		})

		It("decodes a reserved packet the same way", func() {
			d.Feed([]byte{0x04, 0x7F})
			Expect(drain(d)).To(Equal([]TracePacket{
				{Type: PacketReserved, Data: []byte{0x04, 0x7F}},
			}))
		})
	})

	Context("queue behavior", func() {
		It("returns nil forever once drained", func() {
			d.Feed(swotest.Overflow())
			Expect(drain(d)).To(HaveLen(1))

			for i := 0; i < 3; i++ {
				Expect(d.Pull()).To(BeNil())
			}

			d.Feed(swotest.Overflow())
			Expect(drain(d)).To(HaveLen(1))
		})

		It("accepts an empty feed", func() {
			d.Feed(nil)
			d.Feed([]byte{})
			Expect(d.Pull()).To(BeNil())
		})

		It("returns buffered packets one at a time without re-decoding", func() {
			d.Feed(swotest.Stream(
				swotest.Itm(0, []byte{0x01}),
				swotest.Overflow(),
				swotest.SyncSequence(),
			))

			Expect(*d.Pull()).To(Equal(TracePacket{
				Type: PacketItmData, ID: 0, Payload: []byte{0x01},
			}))
			Expect(*d.Pull()).To(Equal(TracePacket{Type: PacketOverflow}))
			Expect(*d.Pull()).To(Equal(TracePacket{Type: PacketSync}))
			Expect(d.Pull()).To(BeNil())
		})
	})
})
