package audit

import (
	"context"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// RecorderConfig contains configuration for the audit recorder.
type RecorderConfig struct {
	// Enabled enables audit recording.
	Enabled bool

	// AsyncBuffer is the size of the async write channel buffer.
	// Default: 1000
	AsyncBuffer int

	// WriteTimeout is the timeout for writing a record to storage.
	// Default: 5 seconds
	WriteTimeout time.Duration

	// OnDrop, when set, is invoked once per dropped record. Used to feed
	// drop counts into metrics.
	OnDrop func()
}

// DefaultRecorderConfig returns the default recorder configuration.
func DefaultRecorderConfig() *RecorderConfig {
	return &RecorderConfig{
		Enabled:      true,
		AsyncBuffer:  1000,
		WriteTimeout: 5 * time.Second,
	}
}

// Recorder writes decision records to a storage backend asynchronously so
// that recording never blocks evaluation. When the buffer is full, records
// are dropped and counted rather than queued.
type Recorder struct {
	storage    Storage
	config     *RecorderConfig
	recordChan chan *DecisionRecord
	wg         sync.WaitGroup
	done       chan struct{}
	closeOnce  sync.Once
	logger     *slog.Logger

	dropped atomic.Int64
}

// NewRecorder creates an audit recorder with the provided storage backend
// and starts its background writer.
func NewRecorder(storage Storage, config *RecorderConfig) *Recorder {
	if config == nil {
		config = DefaultRecorderConfig()
	}

	r := &Recorder{
		storage:    storage,
		config:     config,
		recordChan: make(chan *DecisionRecord, config.AsyncBuffer),
		done:       make(chan struct{}),
		logger:     slog.Default().With("component", "audit.recorder"),
	}

	r.wg.Add(1)
	go r.worker()

	r.logger.Info("audit recorder initialized",
		"async_buffer", config.AsyncBuffer,
		"write_timeout", config.WriteTimeout,
	)

	return r
}

// Record enqueues a decision record for async writing.
//
// This method returns immediately and does not block on storage writes.
// If the buffer is full the record is dropped and counted.
func (r *Recorder) Record(record *DecisionRecord) {
	if !r.config.Enabled || record == nil {
		return
	}

	if record.ID == "" {
		record.ID = uuid.New().String()
	}
	if record.RecordedAt.IsZero() {
		record.RecordedAt = time.Now().UTC()
	}

	select {
	case r.recordChan <- record:
	case <-r.done:
		r.drop()
		r.logger.Warn("recorder shutting down, dropping record",
			"record_id", record.ID,
			"rule", record.Rule,
		)
	default:
		r.drop()
		r.logger.Error("audit channel full, dropping record",
			"record_id", record.ID,
			"rule", record.Rule,
			"channel_capacity", r.config.AsyncBuffer,
		)
	}
}

// drop counts a dropped record and notifies the OnDrop hook.
func (r *Recorder) drop() {
	r.dropped.Add(1)
	if r.config.OnDrop != nil {
		r.config.OnDrop()
	}
}

// Dropped returns the number of records dropped because the buffer was
// full or the recorder was shutting down.
func (r *Recorder) Dropped() int64 {
	return r.dropped.Load()
}

// Close gracefully shuts down the recorder by draining the async channel
// and waiting for all pending writes to complete.
func (r *Recorder) Close() error {
	r.closeOnce.Do(func() {
		r.logger.Info("shutting down audit recorder")
		close(r.done)
		r.wg.Wait()
		r.logger.Info("audit recorder shut down complete",
			"dropped_total", r.dropped.Load(),
		)
	})
	return nil
}

// worker is the background goroutine that drains the channel and writes
// records to storage.
func (r *Recorder) worker() {
	defer r.wg.Done()

	for {
		select {
		case record := <-r.recordChan:
			r.writeRecord(record)

		case <-r.done:
			// Drain remaining records before exit
			r.logger.Info("draining audit channel before shutdown",
				"pending_count", len(r.recordChan),
			)
			for {
				select {
				case record := <-r.recordChan:
					r.writeRecord(record)
				default:
					r.logger.Info("audit channel drained")
					return
				}
			}
		}
	}
}

// writeRecord writes a single record to storage.
func (r *Recorder) writeRecord(record *DecisionRecord) {
	ctx, cancel := context.WithTimeout(context.Background(), r.config.WriteTimeout)
	defer cancel()

	start := time.Now()

	if err := r.storage.Store(ctx, record); err != nil {
		r.logger.Error("failed to store decision record",
			"record_id", record.ID,
			"rule", record.Rule,
			"error", err,
		)
		return
	}

	duration := time.Since(start)

	r.logger.Debug("decision recorded",
		"record_id", record.ID,
		"rule", record.Rule,
		"outcome", record.Outcome(),
		"duration_ms", duration.Milliseconds(),
	)

	if duration > r.config.WriteTimeout/2 {
		r.logger.Warn("slow audit write",
			"record_id", record.ID,
			"duration_ms", duration.Milliseconds(),
			"threshold_ms", (r.config.WriteTimeout / 2).Milliseconds(),
		)
	}
}
