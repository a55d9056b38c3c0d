package storage

import "time"

// Nomination is one recorded restore nomination for a project.
type Nomination struct {
	ID                       int64
	ProjectPath              string
	BaseIntermediatePath     string
	OriginalTargetFrameworks string
	Frameworks               string // comma-joined monikers, first-seen order
	Fingerprint              string
	Payload                  string // restore info JSON
	CreatedAt                time.Time
}

// Change captures one nomination change event for auditing or printing.
type Change struct {
	OccurredAt  time.Time
	ProjectPath string
	ChangeType  string // added | updated
	Fingerprint string
}

// Stats summarizes the database contents.
type Stats struct {
	Nominations int `json:"nominations"`
	Projects    int `json:"projects"`
	Changes     int `json:"changes"`
}
