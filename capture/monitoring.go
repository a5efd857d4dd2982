// Copyright 2020 Jorge Salazar. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package capture

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	writerChunks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "swotrace_capture_writer_chunks",
		Help: "Count of chunks written to capture files.",
	})

	writerBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "swotrace_capture_writer_bytes",
		Help: "Count of trace bytes written to capture files.",
	})

	readerChunks = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "swotrace_capture_reader_chunks",
		Help: "Count of chunks read from capture files.",
	})

	readerBytes = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "swotrace_capture_reader_bytes",
		Help: "Count of trace bytes read from capture files.",
	})

	recorderRecordingGauge = prometheus.NewGauge(prometheus.GaugeOpts{
		Name: "swotrace_capture_recorder_recording",
		Help: "Count of active recorders recording.",
	})

	recorderErrors = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "swotrace_capture_recorder_errors",
		Help: "Count of recorder errors encountered.",
	}, []string{"type"})

	playerPackets = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "swotrace_capture_player_packets",
		Help: "Count of packets decoded during capture playback.",
	})

	playerErrors = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "swotrace_capture_player_errors",
		Help: "Count of player errors encountered during playback.",
	})
)

// RegisterMonitoring registers all of this package's monitoring metrics.
func RegisterMonitoring(reg prometheus.Registerer) {
	reg.MustRegister(
		// Writer / Reader
		writerChunks,
		writerBytes,
		readerChunks,
		readerBytes,

		// Recorder
		recorderRecordingGauge,
		recorderErrors,

		// Player
		playerPackets,
		playerErrors,
	)
}
