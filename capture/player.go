// Copyright 2020 Jorge Salazar. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package capture

import (
	"context"
	"io"
	"time"

	"github.com/JSalazar88/swotrace/support/logging"
	"github.com/JSalazar88/swotrace/swo"

	"github.com/pkg/errors"
)

// PacketSink receives decoded packets during playback.
//
// Sink calls are made synchronously; returning an error stops playback.
type PacketSink func(pkt *swo.TracePacket) error

// Player replays a capture through the SWO decoder into a sink.
//
// A Player is not safe for concurrent use. Its exported fields must not
// be changed after playback has begun.
type Player struct {
	// Sink receives every decoded packet. It must not be nil.
	Sink PacketSink

	// Realtime, if true, reproduces the recorded inter-chunk delays
	// instead of replaying as fast as the sink accepts packets.
	Realtime bool

	// Logger is the logger instance to use. If nil, no logging will be
	// performed.
	Logger logging.L
}

// Play replays r from its current position until the end of the capture,
// the Context is cancelled, or the sink fails.
//
// Any trailing bytes that do not complete a packet are discarded, as a
// live decoder would on disconnect.
func (p *Player) Play(c context.Context, r *Reader) error {
	if p.Sink == nil {
		panic("player has no sink")
	}
	logger := logging.Must(p.Logger)

	dec := swo.Decoder{Logger: p.Logger}
	start := time.Now()
	for {
		if err := c.Err(); err != nil {
			return err
		}

		chunk, err := r.ReadChunk()
		if err == io.EOF {
			logger.Debugf("capture playback finished")
			return nil
		}
		if err != nil {
			playerErrors.Inc()
			return errors.Wrap(err, "reading capture chunk")
		}

		if p.Realtime {
			if err := waitForOffset(c, start, chunk.Offset); err != nil {
				return err
			}
		}

		dec.Feed(chunk.Data)
		for pkt := dec.Pull(); pkt != nil; pkt = dec.Pull() {
			if err := p.Sink(pkt); err != nil {
				return err
			}
			playerPackets.Inc()
		}
	}
}

// waitForOffset sleeps until the recorded offset relative to start has
// elapsed, or the Context is cancelled. Offsets already in the past
// replay immediately.
func waitForOffset(c context.Context, start time.Time, offset time.Duration) error {
	wait := offset - time.Since(start)
	if wait <= 0 {
		return nil
	}

	t := time.NewTimer(wait)
	defer t.Stop()
	select {
	case <-c.Done():
		return c.Err()
	case <-t.C:
		return nil
	}
}
