// Copyright 2020 Jorge Salazar. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

// Package fmtutil contains formatting helpers.
package fmtutil

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// Hex is a byte slice that renders as a hex-dumped string.
//
// It can be used for easy lazy hex dumping.
type Hex []byte

func (h Hex) String() string { return hex.Dump([]byte(h)) }

// Compact is a byte slice that renders as space-separated hex bytes.
//
// Output as: "41 00 00 00"
//
// It is suitable for single-line packet payload rendering.
type Compact []byte

func (c Compact) String() string {
	var sb bytes.Buffer
	sb.Grow(3 * len(c))
	for i, b := range c {
		if i > 0 {
			sb.WriteByte(' ')
		}
		fmt.Fprintf(&sb, "%02x", b)
	}
	return sb.String()
}
