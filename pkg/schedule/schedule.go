package schedule

import (
	"errors"
	"time"
)

// Metadata is the per-user root of a schedule: one row per sharing-group
// member, owned by exactly one user. A shared schedule is represented by one
// metadata per participant, linked through the participation table; each
// copy is an ordinary private schedule of its owner.
type Metadata struct {
	Id          int
	Title       string
	Description string
	StartTime   *time.Time
	EndTime     time.Time
	UserId      int
	CategoryId  *int
	Repeated    bool
	Shared      bool
}

// Schedule is the concrete time-boxed occurrence under a Metadata. Current
// scope keeps it 1:1 with its parent; both are created atomically.
type Schedule struct {
	Id                   int
	Uuid                 string
	MetadataId           int
	StartAt              *time.Time
	EndAt                time.Time
	Failed               bool
	HasRetrospectiveMemo bool
}

// Place is one endpoint of a schedule location.
type Place struct {
	Name      string  `json:"placeName"`
	Address   string  `json:"placeAddress"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Location is the optional start/end place record of a Metadata. The record
// exists if and only if an end place was supplied; the start place is
// optional independently.
type Location struct {
	MetadataId int
	Start      *Place
	End        *Place
}

// Participation links a participant's private copy into an author's sharing
// group. The author's own membership is the row where ParticipantId equals
// AuthorId.
type Participation struct {
	Id            int
	AuthorId      int
	ParticipantId int
	DeletedAt     *time.Time
}

// View is a read model for the daily/weekly listings and the iCal export:
// metadata joined with its occurrence and optional location.
type View struct {
	Uuid        string
	MetadataId  int
	Title       string
	Description string
	StartAt     *time.Time
	EndAt       time.Time
	Failed      bool
	Repeated    bool
	Shared      bool
	Location    *Location
}

var (
	ErrScheduleNotFound   = errors.New("schedule not found")
	ErrMetadataNotFound   = errors.New("schedule metadata not found")
	ErrEmptyTitle         = errors.New("schedule title must not be empty")
	ErrInvalidTimeWindow  = errors.New("schedule must not end before it starts")
	ErrAlreadyParticipant = errors.New("metadata is already linked to a sharing group")
)
