package model

import "time"

// SystemConfig is the single process-wide configuration row. It holds
// the Monday that anchors week 1 of the batch rotation. The rotation
// resolver treats an absent row as "everything is week 1"; callers of
// the admin update are responsible for ensuring the date is a Monday.
//
// Fields:
//  ID             – primary key identifier (there is at most one row).
//  CycleStartDate – Monday anchoring week 1 (midnight UTC).
//  UpdatedAt      – timestamp of last admin update.
type SystemConfig struct {
	ID             uint64    // system_config.id
	CycleStartDate time.Time // system_config.cycle_start_date
	UpdatedAt      time.Time // system_config.updated_at
}
