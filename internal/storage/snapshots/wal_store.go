// Package snapshots persists one portfolio snapshot per trading day in a
// write-ahead log. Re-running a day appends a fresh record for the same
// date key; readers resolve the latest write, so same-day re-runs are
// idempotent overwrites from their point of view.
package snapshots

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/pkg/errors"
	"github.com/vadiminshakov/folio/internal/entity"
	"github.com/vadiminshakov/gowal"
)

const (
	defaultSnapshotDir   = "./wal/snapshots"
	snapshotSegmentLimit = 1000
	snapshotMaxSegments  = 100
	snapshotKeyPrefix    = "snapshot_"
)

// WALStore is the gowal-backed snapshot store. Writes are atomic at the
// record level, so a reader never observes a partially written snapshot.
type WALStore struct {
	wal *gowal.Wal
	mu  sync.RWMutex
}

// NewWALStore initializes a WAL-backed snapshot store under the provided
// directory.
func NewWALStore(dir string) (*WALStore, error) {
	if dir == "" {
		dir = defaultSnapshotDir
	}

	cfg := gowal.Config{
		Dir:              dir,
		Prefix:           "seg_",
		SegmentThreshold: snapshotSegmentLimit,
		MaxSegments:      snapshotMaxSegments,
		IsInSyncDiskMode: true,
	}

	wal, err := gowal.NewWAL(cfg)
	if err != nil {
		return nil, errors.Wrap(err, "init snapshot WAL")
	}

	return &WALStore{wal: wal}, nil
}

// Save appends the snapshot keyed by its date. The latest record for a
// date wins on read.
func (s *WALStore) Save(snapshot entity.PortfolioSnapshot) error {
	if s == nil || s.wal == nil {
		return errors.New("snapshot store is not initialized")
	}
	if snapshot.Date == "" {
		return fmt.Errorf("snapshot date is required")
	}

	payload, err := json.Marshal(snapshot)
	if err != nil {
		return errors.Wrap(err, "marshal snapshot")
	}

	key := snapshotKeyPrefix + snapshot.Date

	s.mu.Lock()
	defer s.mu.Unlock()

	nextIndex := s.wal.CurrentIndex() + 1
	return s.wal.Write(nextIndex, key, payload)
}

// LatestBefore returns the snapshot of the greatest date strictly before
// date, or nil when no prior day exists. Weekend and missed-run gaps are
// skipped naturally. The scan walks the whole log, so a backfilled older
// day written after newer ones never shadows the true most recent prior
// day. Scanning backward by index, the first record seen for a date is
// its latest write.
func (s *WALStore) LatestBefore(date string) (*entity.PortfolioSnapshot, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("snapshot store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	var bestDate string
	var bestPayload []byte
	seen := make(map[string]struct{})
	for idx := s.wal.CurrentIndex(); idx >= 1; idx-- {
		key, payload, err := s.wal.Get(idx)
		if err != nil {
			return nil, errors.Wrapf(err, "read snapshot log at index %d", idx)
		}
		// an absent index comes back with an empty key, not an error
		if !strings.HasPrefix(key, snapshotKeyPrefix) {
			continue
		}
		recordDate := strings.TrimPrefix(key, snapshotKeyPrefix)
		if _, dup := seen[recordDate]; dup {
			continue
		}
		seen[recordDate] = struct{}{}
		if recordDate >= date || recordDate <= bestDate {
			continue
		}
		bestDate = recordDate
		bestPayload = payload
	}
	if bestPayload == nil {
		return nil, nil
	}

	var snapshot entity.PortfolioSnapshot
	if err := json.Unmarshal(bestPayload, &snapshot); err != nil {
		return nil, errors.Wrap(err, "decode snapshot")
	}
	return &snapshot, nil
}

// History returns up to limit of the most recent snapshots ordered by
// ascending date, one per date (latest write per date). limit <= 0
// returns everything.
func (s *WALStore) History(limit int) ([]entity.PortfolioSnapshot, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("snapshot store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[string]struct{})
	var history []entity.PortfolioSnapshot
	for idx := s.wal.CurrentIndex(); idx >= 1; idx-- {
		key, payload, err := s.wal.Get(idx)
		if err != nil {
			return nil, errors.Wrapf(err, "read snapshot log at index %d", idx)
		}
		if !strings.HasPrefix(key, snapshotKeyPrefix) {
			continue
		}
		date := strings.TrimPrefix(key, snapshotKeyPrefix)
		if _, dup := seen[date]; dup {
			continue
		}
		var snapshot entity.PortfolioSnapshot
		if err := json.Unmarshal(payload, &snapshot); err != nil {
			return nil, errors.Wrap(err, "decode snapshot")
		}
		seen[date] = struct{}{}
		history = append(history, snapshot)
	}

	// write order is not date order once a day has been backfilled
	sort.Slice(history, func(i, j int) bool { return history[i].Date < history[j].Date })
	if limit > 0 && len(history) > limit {
		history = history[len(history)-limit:]
	}

	return history, nil
}

// SnapshotsAfter returns all snapshots written after the provided WAL
// index, for streaming consumers.
func (s *WALStore) SnapshotsAfter(index uint64) ([]entity.SnapshotRecord, error) {
	if s == nil || s.wal == nil {
		return nil, errors.New("snapshot store is not initialized")
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	current := s.wal.CurrentIndex()
	if current <= index {
		return nil, nil
	}

	records := make([]entity.SnapshotRecord, 0, current-index)
	for idx := index + 1; idx <= current; idx++ {
		key, payload, err := s.wal.Get(idx)
		if err != nil {
			return nil, errors.Wrapf(err, "read snapshot log at index %d", idx)
		}
		if !strings.HasPrefix(key, snapshotKeyPrefix) {
			continue
		}
		var snapshot entity.PortfolioSnapshot
		if err := json.Unmarshal(payload, &snapshot); err != nil {
			return nil, errors.Wrap(err, "decode snapshot")
		}
		records = append(records, entity.SnapshotRecord{
			Index:    idx,
			Snapshot: snapshot,
		})
	}

	return records, nil
}

// CurrentIndex returns the latest WAL index stored.
func (s *WALStore) CurrentIndex() uint64 {
	if s == nil || s.wal == nil {
		return 0
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	return s.wal.CurrentIndex()
}

// Close closes the underlying WAL.
func (s *WALStore) Close() error {
	if s == nil || s.wal == nil {
		return errors.New("snapshot store is not initialized")
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	return s.wal.Close()
}
