package models

type LeagueResponse struct {
	ID              int        `json:"id"`
	ScoringPeriodID int        `json:"scoringPeriodId"`
	SeasonID        int        `json:"seasonId"`
	SegmentID       int        `json:"segmentId"`
	Status          Status     `json:"status"`
	Members         []Member   `json:"members"`
	Teams           []ESPNTeam `json:"teams"`
	Settings        Settings   `json:"settings"`
}

type Settings struct {
	Name            string          `json:"name"`
	Size            int             `json:"size"`
	ScoringSettings ScoringSettings `json:"scoringSettings"`
}

type ScoringSettings struct {
	ScoringType  string        `json:"scoringType"`
	ScoringItems []ScoringItem `json:"scoringItems"`
}

type ScoringItem struct {
	StatID        int  `json:"statId"`
	IsReverseItem bool `json:"isReverseItem"`
}

type Status struct {
	CurrentMatchupPeriod int  `json:"currentMatchupPeriod"`
	FinalScoringPeriod   int  `json:"finalScoringPeriod"`
	FirstScoringPeriod   int  `json:"firstScoringPeriod"`
	IsActive             bool `json:"isActive"`
}

type Member struct {
	ID          string `json:"id"`
	DisplayName string `json:"displayName"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
}

type ESPNTeam struct {
	ID           int      `json:"id"`
	Abbreviation string   `json:"abbrev"`
	Name         string   `json:"name"`
	Location     string   `json:"location"`
	Nickname     string   `json:"nickname"`
	PrimaryOwner string   `json:"primaryOwner"`
	Owners       []string `json:"owners"`
	Roster       Roster   `json:"roster"`
}

type Roster struct {
	Entries []RosterEntry `json:"entries"`
}

type RosterEntry struct {
	PlayerID        int             `json:"playerId"`
	PlayerPoolEntry PlayerPoolEntry `json:"playerPoolEntry"`
	LineupSlotID    int             `json:"lineupSlotId"`
}

type PlayerPoolEntry struct {
	ID       int        `json:"id"`
	OnTeamID int        `json:"onTeamId"`
	Player   ESPNPlayer `json:"player"`
}

type ESPNPlayer struct {
	ID                int        `json:"id"`
	FullName          string     `json:"fullName"`
	DefaultPositionID int        `json:"defaultPositionId"`
	ProTeamID         int        `json:"proTeamId"`
	InjuryStatus      string     `json:"injuryStatus"`
	Stats             []StatLine `json:"stats"`
}

// StatLine is one ESPN stat split. Season totals have StatSourceID 0
// (actual) and StatSplitTypeID 0 (full season).
type StatLine struct {
	ID              string             `json:"id"`
	SeasonID        int                `json:"seasonId"`
	StatSourceID    int                `json:"statSourceId"`
	StatSplitTypeID int                `json:"statSplitTypeId"`
	ScoringPeriodID int                `json:"scoringPeriodId"`
	Stats           map[string]float64 `json:"stats"`
}
