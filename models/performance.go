package models

import "math"

// EntryStats counts entries and wins under one condition.
type EntryStats struct {
	Entries int `json:"entries"`
	Wins    int `json:"wins"`
}

// YearStats is a one-year snapshot taken from a registry list page.
type YearStats struct {
	Races   int     `json:"races"`
	Wins    int     `json:"wins"`
	Seconds int     `json:"seconds"`
	Thirds  int     `json:"thirds"`
	WinRate float64 `json:"winRate"`
	Prize   float64 `json:"prize"`
}

// Performance is the aggregate record shared by jockeys, trainers, owners and breeders.
// Rates are derived from the counts, never scraped.
type Performance struct {
	TotalRaces    int                   `bun:"total_races,notnull" json:"totalRaces"`
	Wins          int                   `bun:"wins,notnull" json:"wins"`
	Seconds       int                   `bun:"seconds,notnull" json:"seconds"`
	Thirds        int                   `bun:"thirds,notnull" json:"thirds"`
	Unplaced      int                   `bun:"unplaced,notnull" json:"unplaced"`
	WinRate       float64               `bun:"win_rate,notnull" json:"winRate"`
	SecondRate    float64               `bun:"second_rate,notnull" json:"secondRate"`
	ShowRate      float64               `bun:"show_rate,notnull" json:"showRate"`
	TotalPrize    float64               `bun:"total_prize,notnull" json:"totalPrize"` // man-yen
	RaceStats     map[string]EntryStats `bun:"race_stats,type:jsonb,nullzero" json:"raceStats,omitempty"`
	TrackStats    map[string]EntryStats `bun:"track_stats,type:jsonb,nullzero" json:"trackStats,omitempty"`
	YearlyStats   map[string]YearStats  `bun:"yearly_stats,type:jsonb,nullzero" json:"yearlyStats,omitempty"`
	DistanceStats map[string]EntryStats `bun:"distance_stats,type:jsonb,nullzero" json:"distanceStats,omitempty"`
}

// Rate returns n/total as a percentage rounded to two decimals, or 0 when total is 0.
func Rate(n, total int) float64 {
	if total <= 0 {
		return 0
	}
	return math.Round(float64(n)/float64(total)*100*100) / 100
}

// ComputeRates sets TotalRaces from the placing counts and derives the three rates.
func (p *Performance) ComputeRates() {
	p.TotalRaces = p.Wins + p.Seconds + p.Thirds + p.Unplaced
	p.WinRate = Rate(p.Wins, p.TotalRaces)
	p.SecondRate = Rate(p.Wins+p.Seconds, p.TotalRaces)
	p.ShowRate = Rate(p.Wins+p.Seconds+p.Thirds, p.TotalRaces)
}
