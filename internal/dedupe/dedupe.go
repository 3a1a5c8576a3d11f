package dedupe

// Package dedupe holds shared singleflight groups that collapse concurrent
// reads of the same key into one call while other callers wait for its
// result.

import "golang.org/x/sync/singleflight"

// MasteryGroup deduplicates mastery lookups keyed by keys.MasteryKey.
var MasteryGroup singleflight.Group

// SnapshotGroup deduplicates session snapshot reads keyed by
// keys.SnapshotKey. Watchers polling the same session share one read.
var SnapshotGroup singleflight.Group
