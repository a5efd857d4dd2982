// Copyright 2020 Jorge Salazar. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package swo implements a streaming decoder for the ARM CoreSight SWO
// (Single Wire Output) trace byte stream, covering ITM software
// instrumentation packets, DWT hardware event packets, timestamps,
// synchronization markers, overflow markers, and vendor extension and
// reserved packets.
//
// The wire format is specified in appendix E of the ARMv7-M architecture
// reference manual. itmdump.c from OpenOCD is another useful reference:
// https://github.com/arduino/OpenOCD/blob/master/contrib/itmdump.c
//
// The decoder is sans-IO: it has no notion of a transport, clock, or device
// session. Bytes go in through Feed, packets come out through Pull. See:
// https://sans-io.readthedocs.io/how-to-sans-io.html
package swo
