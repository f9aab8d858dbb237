package domain

// Archive stream operations.
const (
	ArchiveOpSave  = "save"
	ArchiveOpClear = "clear"
)

// ArchiveEvent is the payload published to the archive stream. Save carries
// the full record; clear carries only the pair key being purged.
type ArchiveEvent struct {
	Op      string         `json:"op"`
	ChatKey string         `json:"chatKey"`
	Record  *MessageRecord `json:"record,omitempty"`
}
