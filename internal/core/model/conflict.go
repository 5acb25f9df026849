package model

// Severity orders how urgently a conflict needs review.
type Severity string

const (
	SeverityHigh   Severity = "high"
	SeverityMedium Severity = "medium"
	SeverityLow    Severity = "low"
)

// Rank gives high > medium > low; unknown values rank lowest.
func (s Severity) Rank() int {
	switch s {
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	default:
		return 0
	}
}

// ConflictType names the kind of disagreement a detail describes.
type ConflictType string

const (
	ConflictFAQAnswer                ConflictType = "faq_answer_conflict"
	ConflictAnswerContradiction      ConflictType = "answer_contradiction"
	ConflictDescriptionContradiction ConflictType = "description_contradiction"
	ConflictContentContradiction     ConflictType = "content_contradiction"
	ConflictInconsistentData         ConflictType = "inconsistent_data"
	ConflictPhoneMismatch            ConflictType = "phone_mismatch"
	ConflictURLMismatch              ConflictType = "url_mismatch"
)

// EntityRef identifies a record inside a conflict group.
type EntityRef struct {
	ID   string `json:"id" yaml:"id"`
	Name string `json:"name" yaml:"name"`
	Type string `json:"type" yaml:"type"`
}

// ConflictValue is one record's side of a disagreement.
type ConflictValue struct {
	EntityID   string `json:"entityId" yaml:"entityId"`
	EntityName string `json:"entityName" yaml:"entityName"`
	Value      string `json:"value" yaml:"value"`
}

// ConflictDetail is one specific disagreement. Values always holds at least
// two entries taken from distinct records.
type ConflictDetail struct {
	Field        string          `json:"field" yaml:"field"`
	Values       []ConflictValue `json:"values" yaml:"values"`
	ConflictType ConflictType    `json:"conflictType" yaml:"conflictType"`
	Severity     Severity        `json:"severity" yaml:"severity"`
	Description  string          `json:"description" yaml:"description"`
}

// ConflictGroup aggregates every detail found between a set of records.
// Severity is the maximum severity among ConflictDetails.
type ConflictGroup struct {
	ID              string           `json:"id" yaml:"id"`
	Title           string           `json:"title" yaml:"title"`
	Entities        []EntityRef      `json:"entities" yaml:"entities"`
	ConflictDetails []ConflictDetail `json:"conflictDetails" yaml:"conflictDetails"`
	Severity        Severity         `json:"severity" yaml:"severity"`
}

// Summary rolls up a detection result.
type Summary struct {
	TotalConflicts   int `json:"totalConflicts" yaml:"totalConflicts"`
	HighSeverity     int `json:"highSeverity" yaml:"highSeverity"`
	MediumSeverity   int `json:"mediumSeverity" yaml:"mediumSeverity"`
	LowSeverity      int `json:"lowSeverity" yaml:"lowSeverity"`
	AffectedEntities int `json:"affectedEntities" yaml:"affectedEntities"`
}
