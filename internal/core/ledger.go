package core

import (
	"sort"
	"sync"
)

// Ledger is the append-only record of every intercepted call, kept per mock
// and as one engine-wide sequence for ordering checks. Appends and clears are
// atomic with respect to reads.
type Ledger struct {
	mu      sync.RWMutex
	byMock  map[MockIdentity][]InvocationRecord
	ordered []InvocationRecord
}

// NewLedger creates an empty ledger.
func NewLedger() *Ledger {
	return &Ledger{byMock: make(map[MockIdentity][]InvocationRecord)}
}

// Append adds rec. Records are kept in sequence order even when a call that
// started earlier finishes later.
func (l *Ledger) Append(rec InvocationRecord) {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.byMock[rec.Mock] = insertBySeq(l.byMock[rec.Mock], rec)
	l.ordered = insertBySeq(l.ordered, rec)
}

// Records returns a copy of the records for one mock, oldest first.
func (l *Ledger) Records(id MockIdentity) []InvocationRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return cloneRecords(l.byMock[id])
}

// All returns a copy of every record, in sequence order.
func (l *Ledger) All() []InvocationRecord {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return cloneRecords(l.ordered)
}

// Len is the total number of records.
func (l *Ledger) Len() int {
	l.mu.RLock()
	defer l.mu.RUnlock()

	return len(l.ordered)
}

// Clear drops every record.
func (l *Ledger) Clear() {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.byMock = make(map[MockIdentity][]InvocationRecord)
	l.ordered = nil
}

// ClearMock drops the records of one mock.
func (l *Ledger) ClearMock(id MockIdentity) {
	l.mu.Lock()
	defer l.mu.Unlock()

	delete(l.byMock, id)

	kept := l.ordered[:0]
	for _, rec := range l.ordered {
		if rec.Mock != id {
			kept = append(kept, rec)
		}
	}

	clear(l.ordered[len(kept):])
	l.ordered = kept
}

func insertBySeq(records []InvocationRecord, rec InvocationRecord) []InvocationRecord {
	// Calls almost always finish in start order, so check the tail first.
	if len(records) == 0 || records[len(records)-1].Seq < rec.Seq {
		return append(records, rec)
	}

	idx := sort.Search(len(records), func(i int) bool { return records[i].Seq > rec.Seq })
	records = append(records, InvocationRecord{})
	copy(records[idx+1:], records[idx:])
	records[idx] = rec

	return records
}

func cloneRecords(records []InvocationRecord) []InvocationRecord {
	out := make([]InvocationRecord, len(records))
	for i, rec := range records {
		out[i] = rec.clone()
	}

	return out
}
