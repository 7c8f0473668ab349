package sync

import "time"

// ChecklistEvent fans out to every connected tab when a device writes or
// clears its completion blob, so other views of the same install can refetch.
type ChecklistEvent struct {
	Type     string    `json:"type"` // "completion.update" or "completion.clear"
	DeviceID string    `json:"device_id"`
	Revision int       `json:"revision"`
	At       time.Time `json:"at"`
}

const (
	EventCompletionUpdate = "completion.update"
	EventCompletionClear  = "completion.clear"
)
