// Copyright 2020 Jorge Salazar. All rights reserved.
// Use of this source code is governed under the MIT License
// that can be found in the LICENSE file.

package capture

import (
	"sync"

	"github.com/pkg/errors"
)

// RecorderStatus is a snapshot of the current recorder status.
type RecorderStatus struct {
	// Chunks is the number of chunks recorded so far.
	Chunks int64
	// Bytes is the number of trace bytes recorded so far.
	Bytes int64
	// Error is the first write error encountered, if any.
	Error error
}

// A Recorder serializes capture writes from a byte-stream producer.
//
// Recorder is safe for concurrent use.
type Recorder struct {
	mu sync.Mutex
	// w is the currently-active capture writer.
	w *Writer
	// stopped is true once Stop has been called.
	stopped bool
	// err is the first error that occurred while recording.
	err error
}

// Start starts recording to w.
//
// The recording continues until Stop is called. Start takes ownership of
// w and will close it on Stop.
func (r *Recorder) Start(w *Writer) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.w != nil {
		panic("already started")
	}
	r.w = w
	r.stopped = false
	r.err = nil
	recorderRecordingGauge.Inc()
}

// Record appends one chunk of raw SWO bytes to the capture.
//
// After any write error, subsequent calls return that same error without
// writing.
func (r *Recorder) Record(data []byte) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case r.w == nil || r.stopped:
		return errors.New("recorder is not running")
	case r.err != nil:
		return r.err
	}

	if err := r.w.WriteChunk(data); err != nil {
		recorderErrors.WithLabelValues("write").Inc()
		r.err = err
		return err
	}
	return nil
}

// Status returns a snapshot of the recorder's progress.
func (r *Recorder) Status() RecorderStatus {
	r.mu.Lock()
	defer r.mu.Unlock()

	st := RecorderStatus{Error: r.err}
	if r.w != nil {
		st.Chunks = r.w.NumChunks()
		st.Bytes = r.w.NumBytes()
	}
	return st
}

// Stop stops the Recorder, finalizing its capture writer.
func (r *Recorder) Stop() error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.w == nil || r.stopped {
		return errors.New("recorder is not running")
	}
	r.stopped = true
	recorderRecordingGauge.Dec()

	if err := r.w.Close(); err != nil {
		recorderErrors.WithLabelValues("close").Inc()
		return err
	}
	return nil
}
