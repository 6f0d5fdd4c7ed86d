package domain

import (
	"errors"
	"fmt"
	"time"
)

// Status represents the lifecycle state of a dossier.
type Status string

const (
	StatusInProgress Status = "in_progress"
	StatusClosed     Status = "closed"
	StatusUrgent     Status = "urgent"
)

// Statuses lists every known status.
var Statuses = []Status{StatusInProgress, StatusClosed, StatusUrgent}

var (
	ErrDossierNotFound        = errors.New("dossier not found")
	ErrNoServices             = errors.New("dossier must reference at least one service")
	ErrInvalidStatus          = errors.New("invalid dossier status")
	ErrInvalidObservation     = errors.New("unknown observation")
	ErrInvalidDossier         = errors.New("invalid dossier")
	ErrConcurrentModification = errors.New("dossier was modified concurrently")
	ErrForbidden              = errors.New("access forbidden")
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusInProgress, StatusClosed, StatusUrgent:
		return true
	}
	return false
}

// CanTransitionTo reports whether a move from s to next is allowed.
// Every known status may move to every other one.
// TODO: confirm with the records office whether closed -> urgent must go through a reopen.
func (s Status) CanTransitionTo(next Status) bool {
	return s.Valid() && next.Valid()
}

// Observation is a tag from the fixed controlled vocabulary.
type Observation string

const (
	ObsDocumentationComplete         Observation = "documentation_complete"
	ObsTechnicalVerificationRequired Observation = "technical_verification_required"
	ObsRegulatoryCompliance          Observation = "regulatory_compliance"
	ObsIncidentReported              Observation = "incident_reported"
	ObsPreventiveMaintenance         Observation = "preventive_maintenance"
	ObsAuthorizationGranted          Observation = "authorization_granted"
	ObsSpecialConditions             Observation = "special_conditions"
	ObsFollowUpRequired              Observation = "follow_up_required"
)

// Observations is the controlled vocabulary, in display order.
var Observations = []Observation{
	ObsDocumentationComplete,
	ObsTechnicalVerificationRequired,
	ObsRegulatoryCompliance,
	ObsIncidentReported,
	ObsPreventiveMaintenance,
	ObsAuthorizationGranted,
	ObsSpecialConditions,
	ObsFollowUpRequired,
}

// Valid reports whether o belongs to the vocabulary.
func (o Observation) Valid() bool {
	for _, known := range Observations {
		if o == known {
			return true
		}
	}
	return false
}

// History action labels.
const (
	ActionCreated = "record created"
	ActionDeleted = "record deleted"
)

// StatusChangeAction returns the action label for a transition to next.
func StatusChangeAction(next Status) string {
	return fmt.Sprintf("status changed to %s", next)
}

// StatusChangeDetails describes a transition from one status to another.
func StatusChangeDetails(from, to Status) string {
	return fmt.Sprintf("status changed from %s to %s", from, to)
}

// HistoryEntry records a single change on a dossier. Entries are never edited.
type HistoryEntry struct {
	ID        string    `json:"id" bson:"id"`
	Timestamp time.Time `json:"timestamp" bson:"timestamp"`
	Action    string    `json:"action" bson:"action"`
	ActorID   string    `json:"actor_id" bson:"actor_id"`
	Details   string    `json:"details,omitempty" bson:"details,omitempty"`
}

// Dossier is the case record aggregate.
type Dossier struct {
	ID           string         `json:"id" bson:"_id"`
	Number       string         `json:"number" bson:"number"`
	Date         time.Time      `json:"date" bson:"date"`
	Sender       string         `json:"sender" bson:"sender"`
	Subject      string         `json:"subject" bson:"subject"`
	Services     []string       `json:"services" bson:"services"`
	Status       Status         `json:"status" bson:"status"`
	Observations []Observation  `json:"observations" bson:"observations"`
	Note         string         `json:"note,omitempty" bson:"note,omitempty"`
	CreatedBy    string         `json:"created_by" bson:"created_by"`
	CreatedAt    time.Time      `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at" bson:"updated_at"`
	Deleted      bool           `json:"-" bson:"deleted"`
	DeletedAt    *time.Time     `json:"-" bson:"deleted_at,omitempty"`
	History      []HistoryEntry `json:"history" bson:"history"`
}

// Clone returns a deep copy of d.
func (d *Dossier) Clone() *Dossier {
	if d == nil {
		return nil
	}
	c := *d
	c.Services = append([]string(nil), d.Services...)
	c.Observations = append([]Observation(nil), d.Observations...)
	c.History = append([]HistoryEntry(nil), d.History...)
	if d.DeletedAt != nil {
		t := *d.DeletedAt
		c.DeletedAt = &t
	}
	return &c
}

// CheckInvariants verifies the structural rules every stored dossier obeys.
func (d *Dossier) CheckInvariants() error {
	if len(d.Services) == 0 {
		return ErrNoServices
	}
	if !d.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, d.Status)
	}
	return nil
}

// DossierPatch carries a partial update. Nil fields are left untouched.
type DossierPatch struct {
	Number       *string
	Date         *time.Time
	Sender       *string
	Subject      *string
	Services     []string // nil = unchanged; non-nil must be non-empty
	Status       *Status
	Observations []Observation // nil = unchanged; empty clears
	Note         *string
}

// Validate checks the structural rules of the patch without touching any dossier.
func (p DossierPatch) Validate() error {
	if p.Services != nil && len(p.Services) == 0 {
		return ErrNoServices
	}
	if p.Status != nil && !p.Status.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidStatus, *p.Status)
	}
	return nil
}

// Apply merges p into d and reports the previous status when the status
// actually changed. The patch is validated first so a failing patch leaves d
// untouched. Apply does not touch UpdatedAt or History.
func (d *Dossier) Apply(p DossierPatch) (from Status, changed bool, err error) {
	if err := p.Validate(); err != nil {
		return "", false, err
	}
	if p.Status != nil && *p.Status != d.Status && !d.Status.CanTransitionTo(*p.Status) {
		return "", false, fmt.Errorf("%w: %s to %s", ErrInvalidStatus, d.Status, *p.Status)
	}

	if p.Number != nil {
		d.Number = *p.Number
	}
	if p.Date != nil {
		d.Date = *p.Date
	}
	if p.Sender != nil {
		d.Sender = *p.Sender
	}
	if p.Subject != nil {
		d.Subject = *p.Subject
	}
	if p.Services != nil {
		d.Services = append([]string(nil), p.Services...)
	}
	if p.Observations != nil {
		d.Observations = append([]Observation(nil), p.Observations...)
	}
	if p.Note != nil {
		d.Note = *p.Note
	}
	if p.Status != nil && *p.Status != d.Status {
		from = d.Status
		d.Status = *p.Status
		return from, true, nil
	}
	return "", false, nil
}

// EventType classifies a dossier change notification.
type EventType string

const (
	EventCreated       EventType = "dossier.created"
	EventUpdated       EventType = "dossier.updated"
	EventStatusChanged EventType = "dossier.status_changed"
	EventDeleted       EventType = "dossier.deleted"
)

// DossierEvent is emitted after a mutation has been committed.
type DossierEvent struct {
	Type       EventType     `json:"type" bson:"type"`
	DossierID  string        `json:"dossier_id" bson:"dossier_id"`
	Number     string        `json:"number" bson:"number"`
	Status     Status        `json:"status" bson:"status"`
	ActorID    string        `json:"actor_id" bson:"actor_id"`
	Entry      *HistoryEntry `json:"entry,omitempty" bson:"entry,omitempty"`
	OccurredAt time.Time     `json:"occurred_at" bson:"occurred_at"`
}
