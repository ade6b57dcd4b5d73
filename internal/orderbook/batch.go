package orderbook

import (
	"sync/atomic"
	"time"
)

// DefaultBatchDuration is the length of one auction epoch.
const DefaultBatchDuration = 300 * time.Second

// BatchSource supplies the current batch id. Successive calls never decrease.
type BatchSource interface {
	CurrentBatch() int64
}

// TimeBatches derives the batch id from wall-clock time.
type TimeBatches struct {
	Duration time.Duration
	Now      func() time.Time
}

func NewTimeBatches(d time.Duration) *TimeBatches {
	if d <= 0 {
		d = DefaultBatchDuration
	}
	return &TimeBatches{Duration: d, Now: time.Now}
}

func (b *TimeBatches) CurrentBatch() int64 {
	secs := int64(b.Duration / time.Second)
	if secs <= 0 {
		secs = 1
	}
	return b.Now().Unix() / secs
}

// ManualBatches is a batch source advanced explicitly by its owner.
type ManualBatches struct {
	batch atomic.Int64
}

func NewManualBatches(start int64) *ManualBatches {
	m := &ManualBatches{}
	m.batch.Store(start)
	return m
}

func (m *ManualBatches) CurrentBatch() int64 {
	return m.batch.Load()
}

// Set moves the batch to id. Moving backwards is ignored.
func (m *ManualBatches) Set(id int64) {
	for {
		cur := m.batch.Load()
		if id <= cur || m.batch.CompareAndSwap(cur, id) {
			return
		}
	}
}

// Advance moves the batch forward by n and returns the new id.
func (m *ManualBatches) Advance(n int64) int64 {
	if n <= 0 {
		return m.batch.Load()
	}
	return m.batch.Add(n)
}
