package models

// Role of an authenticated account. Decides which portal the session may use.
type Role string

const (
	RoleUser  Role = "user"
	RoleOwner Role = "owner"
)

// UserProfile is the marketplace account record cached in session state.
type UserProfile struct {
	Name          string  `json:"name"`
	Email         string  `json:"email"`
	Role          Role    `json:"role"`
	GreenScore    int     `json:"greenScore"`
	TotalSessions int     `json:"totalSessions"`
	CO2SavedKg    float64 `json:"co2Saved"`
}

// LeaderboardEntry is one row of the green-score leaderboard.
type LeaderboardEntry struct {
	Rank       int     `json:"rank"`
	Name       string  `json:"name"`
	GreenScore int     `json:"greenScore"`
	CO2SavedKg float64 `json:"co2Saved"`
}

// ImpactStats aggregate eco metrics shown on the public dashboard.
type ImpactStats struct {
	TotalSessions int     `json:"totalSessions"`
	EnergyKWh     float64 `json:"energyKwh"`
	CO2SavedKg    float64 `json:"co2Saved"`
	TreesEquiv    float64 `json:"treesEquivalent"`
}
