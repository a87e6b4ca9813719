package service

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fixedNDVIService() *NDVIService {
	fixed := time.Date(2026, time.August, 30, 12, 0, 0, 0, time.UTC)
	return &NDVIService{now: func() time.Time { return fixed }}
}

func TestSnapshotShape(t *testing.T) {
	svc := fixedNDVIService()
	snap := svc.Snapshot(DefaultLatitude, DefaultLongitude, "cotton", 7)

	require.Len(t, snap.History, 7)
	assert.Equal(t, "2026-08-24", snap.History[0].Date)
	assert.Equal(t, "2026-08-30", snap.History[6].Date)
	assert.Equal(t, snap.History[6].Value, snap.Latest)
	assert.InDelta(t, snap.Latest-snap.History[0].Value, snap.Change, 1e-9)
}

func TestSnapshotDeterministic(t *testing.T) {
	svc := fixedNDVIService()
	a := svc.Snapshot(19.5, 76.2, "wheat", 7)
	b := svc.Snapshot(19.5, 76.2, "wheat", 7)
	assert.Equal(t, a, b, "same field and day must read the same")

	c := svc.Snapshot(28.7, 77.1, "wheat", 7)
	assert.NotEqual(t, a.Latest, c.Latest, "distant fields drift apart")
}

func TestSnapshotBounds(t *testing.T) {
	svc := fixedNDVIService()
	for _, crop := range []string{"cotton", "rice", "sugarcane", "unknown"} {
		snap := svc.Snapshot(DefaultLatitude, DefaultLongitude, crop, 30)
		for _, p := range snap.History {
			assert.GreaterOrEqual(t, p.Value, 0.10, "crop %s", crop)
			assert.LessOrEqual(t, p.Value, 0.95, "crop %s", crop)
		}
	}
}

func TestSnapshotMinimumHistory(t *testing.T) {
	svc := fixedNDVIService()
	snap := svc.Snapshot(DefaultLatitude, DefaultLongitude, "cotton", 0)
	assert.Len(t, snap.History, 2, "history never drops below two points")
}

func TestCurrentMatchesSnapshotDay(t *testing.T) {
	svc := fixedNDVIService()
	current := svc.Current(DefaultLatitude, DefaultLongitude, "rice")
	assert.GreaterOrEqual(t, current, 0.10)
	assert.LessOrEqual(t, current, 0.95)
}
