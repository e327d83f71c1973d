// Package repository keeps the stub backend data in memory.
package repository

import (
	"sync"
	"time"
)

// DB is in-memory storage shared by the repositories
type DB struct {
	mu sync.RWMutex

	users      map[uint64]userRecord
	products   map[uint64]productRecord
	orders     map[string]orderRecord
	payments   map[string]paymentRecord
	refunds    map[string]string // idempotency key -> payment reference
	lastID     uint64
	orderSeq   uint64
	paymentSeq uint64

	now    func() time.Time
	lastTS time.Time
}

// New creates empty DB
func New() *DB {
	return &DB{
		users:    make(map[uint64]userRecord),
		products: make(map[uint64]productRecord),
		orders:   make(map[string]orderRecord),
		payments: make(map[string]paymentRecord),
		refunds:  make(map[string]string),
		now:      time.Now,
	}
}

// SetClock replaces the time source used for timestamps
func (db *DB) SetClock(now func() time.Time) {
	db.mu.Lock()
	defer db.mu.Unlock()
	db.now = now
}

// nextID returns next numeric id, callers hold the write lock
func (db *DB) nextID() uint64 {
	db.lastID++
	return db.lastID
}

// timestampLayout is zone-less with microseconds, as the commerce API sends it
const timestampLayout = "2006-01-02T15:04:05.999999"

// timestamp returns current time in API format, callers hold the write lock.
// Timestamps are strictly increasing so history entries never tie.
func (db *DB) timestamp() string {
	ts := db.now().UTC().Truncate(time.Microsecond)
	if !ts.After(db.lastTS) {
		ts = db.lastTS.Add(time.Microsecond)
	}
	db.lastTS = ts
	return ts.Format(timestampLayout)
}
