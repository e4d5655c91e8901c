package analytics

import (
	"encoding/binary"
	"fmt"
	"time"

	"github.com/cespare/xxhash/v2"
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/verte-zerg/studyflow/internal/model"
)

// DefaultCacheSize is the number of snapshots kept by NewCache when size <= 0.
const DefaultCacheSize = 32

// Cache memoizes snapshots by a digest of the records, the local date of now and the config.
// It is safe for concurrent use.
type Cache struct {
	entries *lru.Cache[uint64, AnalyticsSnapshot]
}

// NewCache returns a cache holding up to size snapshots.
func NewCache(size int) (*Cache, error) {
	if size <= 0 {
		size = DefaultCacheSize
	}
	entries, err := lru.New[uint64, AnalyticsSnapshot](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create snapshot cache: %w", err)
	}
	return &Cache{entries: entries}, nil
}

// Compute returns the cached snapshot for the inputs or computes and stores it.
// The boolean reports a cache hit.
func (c *Cache) Compute(raw []model.PracticeRecord, now time.Time, cfg Config) (AnalyticsSnapshot, bool, error) {
	if err := cfg.Validate(); err != nil {
		return AnalyticsSnapshot{}, false, err
	}
	key := snapshotKey(raw, now, cfg)
	if snap, ok := c.entries.Get(key); ok {
		return snap.clone(), true, nil
	}
	snap, err := Compute(raw, now, cfg)
	if err != nil {
		return AnalyticsSnapshot{}, false, err
	}
	c.entries.Add(key, snap.clone())
	return snap, false, nil
}

// Len reports the number of cached snapshots.
func (c *Cache) Len() int {
	return c.entries.Len()
}

// snapshotKey digests everything a snapshot depends on. Only the local date of
// now matters: no aggregate looks at the time of day of now.
func snapshotKey(raw []model.PracticeRecord, now time.Time, cfg Config) uint64 {
	d := xxhash.New()
	var buf [8]byte
	writeInt := func(v int64) {
		binary.LittleEndian.PutUint64(buf[:], uint64(v))
		_, _ = d.Write(buf[:])
	}
	writeString := func(s string) {
		writeInt(int64(len(s)))
		_, _ = d.WriteString(s)
	}

	writeString(cfg.Location.String())
	writeString(formatDay(civilDay(now, cfg.Location)))
	writeInt(int64(cfg.MasteryThreshold))
	writeInt(int64(cfg.MasteryGoal))
	writeInt(int64(cfg.WeeklyGoal))
	writeInt(int64(cfg.WindowDays))
	writeInt(int64(cfg.WeekStart))

	writeInt(int64(len(raw)))
	for _, rec := range raw {
		writeString(rec.Topic)
		writeInt(int64(rec.Score))
		writeInt(int64(rec.TotalQuestions))
		if rec.Dated() {
			writeInt(1)
			writeInt(rec.OccurredAt.UnixNano())
			// Zones can share a name, so key on the local wall clock too.
			local := rec.OccurredAt.In(cfg.Location)
			writeInt(civilDay(local, cfg.Location).Unix())
			writeInt(int64(local.Hour()))
		} else {
			writeInt(0)
		}
	}
	return d.Sum64()
}
