package audit

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestRecorderWritesAsync(t *testing.T) {
	storage := NewMemoryStorage()
	recorder := NewRecorder(storage, nil)

	now := time.Now().UTC()
	for i := 0; i < 5; i++ {
		recorder.Record(testRecord("", "can_edit", true, now))
	}

	if err := recorder.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	count, err := storage.Count(context.Background())
	if err != nil {
		t.Fatalf("Count() error = %v", err)
	}
	if count != 5 {
		t.Errorf("Count() after Close = %d, want 5", count)
	}
	if recorder.Dropped() != 0 {
		t.Errorf("Dropped() = %d, want 0", recorder.Dropped())
	}
}

func TestRecorderAssignsID(t *testing.T) {
	storage := NewMemoryStorage()
	recorder := NewRecorder(storage, nil)

	record := testRecord("", "can_edit", false, time.Now().UTC())
	recorder.Record(record)

	if record.ID == "" {
		t.Error("Record() did not assign an ID")
	}

	recorder.Close()

	if _, err := storage.Get(context.Background(), record.ID); err != nil {
		t.Errorf("Get(%q) error = %v", record.ID, err)
	}
}

func TestRecorderDisabled(t *testing.T) {
	storage := NewMemoryStorage()
	recorder := NewRecorder(storage, &RecorderConfig{
		Enabled:      false,
		AsyncBuffer:  10,
		WriteTimeout: time.Second,
	})

	recorder.Record(testRecord("dec-1", "can_edit", true, time.Now().UTC()))
	recorder.Close()

	count, _ := storage.Count(context.Background())
	if count != 0 {
		t.Errorf("disabled recorder stored %d records, want 0", count)
	}
}

func TestRecorderDropNotifiesHook(t *testing.T) {
	var drops atomic.Int32
	recorder := NewRecorder(NewMemoryStorage(), &RecorderConfig{
		Enabled:      true,
		AsyncBuffer:  0,
		WriteTimeout: time.Second,
		OnDrop:       func() { drops.Add(1) },
	})
	recorder.Close()

	// With the recorder closed and no buffer, the record has nowhere to go.
	recorder.Record(testRecord("", "can_edit", true, time.Now().UTC()))

	if got := recorder.Dropped(); got != 1 {
		t.Errorf("Dropped() = %d, want 1", got)
	}
	if got := drops.Load(); got != 1 {
		t.Errorf("OnDrop invoked %d times, want 1", got)
	}
}

func TestRecorderCloseIdempotent(t *testing.T) {
	recorder := NewRecorder(NewMemoryStorage(), nil)

	if err := recorder.Close(); err != nil {
		t.Fatalf("first Close() error = %v", err)
	}
	if err := recorder.Close(); err != nil {
		t.Fatalf("second Close() error = %v", err)
	}
}
