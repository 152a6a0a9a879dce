package market

import "github.com/plugspot/plugspot/internal/models"

// Built-in demo datasets served when the marketplace is unreachable. The
// dashboard stays browsable offline; writes still fail visibly.

var demoChargers = []models.ChargingStation{
	{
		ID:             "demo-1",
		Name:           "GreenVolt Hub - MG Road",
		Address:        "14 MG Road, Bengaluru",
		Latitude:       12.9757,
		Longitude:      77.6050,
		ConnectorType:  models.ConnectorDCFast,
		TotalSlots:     8,
		AvailableSlots: 6,
		Rating:         4.6,
		Description:    "Fast charging hub next to the metro station.",
	},
	{
		ID:             "demo-2",
		Name:           "EcoCharge Point - Indiranagar",
		Address:        "100 Feet Road, Indiranagar, Bengaluru",
		Latitude:       12.9784,
		Longitude:      77.6408,
		ConnectorType:  models.ConnectorLevel2,
		TotalSlots:     6,
		AvailableSlots: 2,
		Rating:         4.2,
	},
	{
		ID:             "demo-3",
		Name:           "SolarPlug Station - Koramangala",
		Address:        "80 Feet Road, Koramangala, Bengaluru",
		Latitude:       12.9352,
		Longitude:      77.6245,
		ConnectorType:  models.ConnectorCCS,
		TotalSlots:     4,
		AvailableSlots: 0,
		Rating:         4.8,
		Description:    "Rooftop solar powered, open 24x7.",
	},
	{
		ID:             "demo-4",
		Name:           "ChargeGrid - Whitefield",
		Address:        "ITPL Main Road, Whitefield, Bengaluru",
		Latitude:       12.9698,
		Longitude:      77.7500,
		ConnectorType:  models.ConnectorLevel2,
		TotalSlots:     10,
		AvailableSlots: 9,
		Rating:         4.0,
	},
}

var demoLeaderboard = []models.LeaderboardEntry{
	{Rank: 1, Name: "Asha P", GreenScore: 92, CO2SavedKg: 148.5},
	{Rank: 2, Name: "Rahul K", GreenScore: 87, CO2SavedKg: 131.2},
	{Rank: 3, Name: "Meera S", GreenScore: 81, CO2SavedKg: 117.9},
	{Rank: 4, Name: "Dev T", GreenScore: 74, CO2SavedKg: 96.4},
	{Rank: 5, Name: "Nikhil R", GreenScore: 66, CO2SavedKg: 78.0},
}

// DemoChargers returns a copy of the built-in station dataset.
func DemoChargers() []models.ChargingStation {
	out := make([]models.ChargingStation, len(demoChargers))
	copy(out, demoChargers)
	return out
}

// DemoLeaderboard returns a copy of the built-in leaderboard dataset.
func DemoLeaderboard() []models.LeaderboardEntry {
	out := make([]models.LeaderboardEntry, len(demoLeaderboard))
	copy(out, demoLeaderboard)
	return out
}
