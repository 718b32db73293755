package domain

import "time"

// StuckAsset is a record that stopped advancing before the workflow completed.
type StuckAsset struct {
	Record MetadataRecord `json:"record"`
	Stage  Stage          `json:"stage"`
	Idle   time.Duration  `json:"idle"`
}

// IsStuck reports whether record has not completed and was last touched before cutoff.
func IsStuck(record MetadataRecord, cutoff time.Time) bool {
	if record.WorkflowStatus == WorkflowComplete {
		return false
	}
	return record.UpdatedAt.IsZero() || record.UpdatedAt.Before(cutoff)
}
