package models

import "github.com/uptrace/bun"

// Grade is a race quality tier.
type Grade string

const (
	GradeG1     Grade = "G1"
	GradeG2     Grade = "G2"
	GradeG3     Grade = "G3"
	GradeJpn1   Grade = "Jpn1"
	GradeJpn2   Grade = "Jpn2"
	GradeJpn3   Grade = "Jpn3"
	GradeListed Grade = "Listed"
	GradeOP     Grade = "OP"
	GradeOther  Grade = "other"
)

// TrackType is the racing surface.
type TrackType string

const (
	Turf TrackType = "turf"
	Dirt TrackType = "dirt"
)

// Direction is the way the course turns.
type Direction string

const (
	Left     Direction = "left"
	Right    Direction = "right"
	Straight Direction = "straight"
)

// RaceIDLength is the fixed length of a netkeiba race id.
const RaceIDLength = 12

// Race is a single race as published on its detail page.
type Race struct {
	bun.BaseModel `bun:"table:races,alias:rc"`

	RaceID          string            `bun:"race_id,pk" json:"raceID"`
	RaceDate        string            `bun:"race_date,nullzero" json:"raceDate,omitempty"`
	TrackName       string            `bun:"track_name,notnull" json:"trackName"`
	RaceNumber      int               `bun:"race_number,notnull" json:"raceNumber"`
	RaceName        string            `bun:"race_name,notnull" json:"raceName"`
	Grade           *Grade            `bun:"grade" json:"grade,omitempty"`
	RaceClass       *string           `bun:"race_class" json:"raceClass,omitempty"`
	Distance        int               `bun:"distance,notnull" json:"distance"`
	TrackType       TrackType         `bun:"track_type,nullzero" json:"trackType,omitempty"`
	TrackDirection  *Direction        `bun:"track_direction" json:"trackDirection,omitempty"`
	Weather         *string           `bun:"weather" json:"weather,omitempty"`
	TrackCondition  *string           `bun:"track_condition" json:"trackCondition,omitempty"`
	StartTime       *string           `bun:"start_time" json:"startTime,omitempty"`
	TotalHorses     int               `bun:"total_horses,notnull" json:"totalHorses"`
	WinningTime     *string           `bun:"winning_time" json:"winningTime,omitempty"`
	Pace            *string           `bun:"pace" json:"pace,omitempty"`
	Conditions      *string           `bun:"conditions" json:"conditions,omitempty"`
	MeetingNumber   *int              `bun:"meeting_number" json:"meetingNumber,omitempty"`
	MeetingDay      *int              `bun:"meeting_day" json:"meetingDay,omitempty"`
	CornerPositions map[string]string `bun:"corner_positions,type:jsonb,nullzero" json:"cornerPositions,omitempty"`
	LapData         map[string]string `bun:"lap_data,type:jsonb,nullzero" json:"lapData,omitempty"`
}

// RaceSummary is one row of the race search list. It is not persisted on its
// own; the list only feeds race ids to the detail scraper.
type RaceSummary struct {
	RaceID         string     `json:"raceID"`
	RaceDate       string     `json:"raceDate,omitempty"`
	TrackName      string     `json:"trackName,omitempty"`
	MeetingNumber  *int       `json:"meetingNumber,omitempty"`
	MeetingDay     *int       `json:"meetingDay,omitempty"`
	Weather        *string    `json:"weather,omitempty"`
	RaceNumber     int        `json:"raceNumber,omitempty"`
	RaceName       string     `json:"raceName"`
	Grade          *Grade     `json:"grade,omitempty"`
	RaceClass      *string    `json:"raceClass,omitempty"`
	TrackType      TrackType  `json:"trackType,omitempty"`
	TrackDirection *Direction `json:"trackDirection,omitempty"`
	Distance       int        `json:"distance,omitempty"`
	TotalHorses    int        `json:"totalHorses,omitempty"`
	TrackCondition *string    `json:"trackCondition,omitempty"`
	WinningTime    *string    `json:"winningTime,omitempty"`
	Pace           *string    `json:"pace,omitempty"`
	Winner         *Ref       `json:"winner,omitempty"`
	Jockey         *Ref       `json:"jockey,omitempty"`
	Trainer        *Ref       `json:"trainer,omitempty"`
	TrainerRegion  *Region    `json:"trainerRegion,omitempty"`
}

// Ref is an id/name pair read from an entity link.
type Ref struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
