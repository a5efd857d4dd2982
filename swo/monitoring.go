// Copyright 2020 Jorge Salazar. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package swo

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	decoderPackets = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "swotrace_decoder_packets",
		Help: "Count of decoded trace packets, by packet type.",
	}, []string{"type"})

	decoderMalformed = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "swotrace_decoder_malformed",
		Help: "Count of malformed byte sequences discarded by the decoder.",
	})
)

// RegisterMonitoring registers all of this package's monitoring metrics.
func RegisterMonitoring(reg prometheus.Registerer) {
	reg.MustRegister(
		decoderPackets,
		decoderMalformed,
	)
}
