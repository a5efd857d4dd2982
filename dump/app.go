// Copyright 2020 Jorge Salazar. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package dump implements the swodump tool: an offline, itmdump-style
// printer for SWO trace streams and capture files.
package dump

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/JSalazar88/swotrace/capture"
	"github.com/JSalazar88/swotrace/support/logging"
	"github.com/JSalazar88/swotrace/swo"

	"github.com/pkg/errors"
	"github.com/spf13/pflag"
)

// config is the resolved command-line configuration.
type config struct {
	input     string
	isCapture bool
	realtime  bool
	textPort  int
	logger    logging.L
}

// Main is the swodump entry point. It parses flags from os.Args and
// exits the process.
func Main() {
	os.Exit(mainImpl(os.Args[1:], os.Stdout))
}

func mainImpl(args []string, out io.Writer) int {
	fs := pflag.NewFlagSet("swodump", pflag.ContinueOnError)
	input := fs.StringP("input", "i", "-", `input path, or "-" for stdin`)
	isCapture := fs.Bool("capture", false,
		"read the input as a capture file (implied by a "+capture.FileExtension+" extension)")
	realtime := fs.Bool("realtime", false, "honor recorded chunk timing during capture playback")
	textPort := fs.Int("text-port", 0, "ITM stimulus port rendered as text, -1 to disable")
	verbose := fs.BoolP("verbose", "v", false, "log decoder diagnostics to stderr")

	if err := fs.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		fmt.Fprintln(os.Stderr, err)
		return 2
	}

	cfg := config{
		input:     *input,
		isCapture: *isCapture || strings.HasSuffix(*input, capture.FileExtension),
		realtime:  *realtime,
		textPort:  *textPort,
		logger:    logging.Nop,
	}
	if *verbose {
		cfg.logger = logging.Writer(os.Stderr)
	}

	if err := run(context.Background(), cfg, out); err != nil {
		fmt.Fprintf(os.Stderr, "swodump: %v\n", err)
		return 1
	}
	return 0
}

func run(c context.Context, cfg config, out io.Writer) error {
	in := io.ReadCloser(os.Stdin)
	if cfg.input != "-" {
		fd, err := os.Open(cfg.input)
		if err != nil {
			return errors.Wrap(err, "opening input")
		}
		in = fd
	}
	defer func() {
		_ = in.Close()
	}()

	pr := printer{w: out, textPort: cfg.textPort}
	if cfg.isCapture {
		return dumpCapture(c, cfg, in, &pr)
	}
	return dumpRaw(cfg, in, &pr)
}

// dumpCapture replays a capture file through the decoder.
func dumpCapture(c context.Context, cfg config, in io.Reader, pr *printer) error {
	r, err := capture.NewReader(in)
	if err != nil {
		return err
	}

	p := capture.Player{
		Sink:     pr.packet,
		Realtime: cfg.realtime,
		Logger:   cfg.logger,
	}
	return p.Play(c, r)
}

// dumpRaw feeds a raw SWO byte stream straight into the decoder.
func dumpRaw(cfg config, in io.Reader, pr *printer) error {
	dec := swo.Decoder{Logger: cfg.logger}

	buf := make([]byte, 4096)
	for {
		n, err := in.Read(buf)
		if n > 0 {
			dec.Feed(buf[:n])
			for pkt := dec.Pull(); pkt != nil; pkt = dec.Pull() {
				if perr := pr.packet(pkt); perr != nil {
					return perr
				}
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return errors.Wrap(err, "reading input")
		}
	}
}

// printer renders one line per packet.
type printer struct {
	w io.Writer
	// textPort is the ITM stimulus port whose payloads are rendered as
	// text, itmdump-style. Negative disables text rendering.
	textPort int
}

func (p *printer) packet(pkt *swo.TracePacket) error {
	if pkt.Type == swo.PacketItmData && p.textPort >= 0 && pkt.ID == p.textPort {
		_, err := fmt.Fprintf(p.w, "itm port %d: %q\n", pkt.ID, pkt.Payload)
		return err
	}
	_, err := fmt.Fprintln(p.w, pkt)
	return err
}
