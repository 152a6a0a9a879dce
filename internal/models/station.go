package models

// Status availability bucket derived from a station's slot counts.
type Status string

const (
	StatusAvailable Status = "available"
	StatusLimited   Status = "limited"
	StatusBusy      Status = "busy"
)

// Connector types reported by the marketplace.
const (
	ConnectorDCFast  = "DC Fast"
	ConnectorLevel2  = "Level 2"
	ConnectorLevel1  = "Level 1"
	ConnectorCCS     = "CCS"
	ConnectorCHAdeMO = "CHAdeMO"
)

// ChargingStation is a charger record as served by the marketplace API.
type ChargingStation struct {
	ID             string  `json:"id"`
	Name           string  `json:"name"`
	Address        string  `json:"address"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	ConnectorType  string  `json:"connectorType"`
	TotalSlots     int     `json:"totalSlots"`
	AvailableSlots int     `json:"availableSlots"`
	Rating         float64 `json:"rating,omitempty"`
	Description    string  `json:"description,omitempty"`
}

// Status classifies the station from its current slot counts. Never cached;
// callers recompute on every render.
func (s ChargingStation) Status() Status {
	return Classify(s.AvailableSlots, s.TotalSlots)
}

// SlotsInUse is total minus available, floored at zero for malformed records.
func (s ChargingStation) SlotsInUse() int {
	if used := s.TotalSlots - s.AvailableSlots; used > 0 {
		return used
	}
	return 0
}

// Classify buckets a station by slot availability:
//
//	busy       availableSlots == 0
//	limited    0 < availableSlots < ceil(totalSlots * 0.3)
//	available  otherwise
//
// Total for all non-negative inputs; with totalSlots == 0 the threshold is 0,
// so any positive availability is "available" and zero is "busy".
func Classify(availableSlots, totalSlots int) Status {
	if availableSlots <= 0 {
		return StatusBusy
	}
	// ceil(totalSlots * 0.3) without going through floats
	threshold := (totalSlots*3 + 9) / 10
	if availableSlots < threshold {
		return StatusLimited
	}
	return StatusAvailable
}

// StatusStyle display attributes for one availability bucket.
type StatusStyle struct {
	Color string `json:"color"`
	Label string `json:"label"`
}

// Single source of truth for status presentation; call sites must not
// re-derive colors or labels conditionally.
var statusStyles = map[Status]StatusStyle{
	StatusAvailable: {Color: "#22c55e", Label: "Available"},
	StatusLimited:   {Color: "#f59e0b", Label: "Limited"},
	StatusBusy:      {Color: "#ef4444", Label: "Busy"},
}

// Style returns the color token and label for the status. Unknown values get
// the busy style so a bad record still renders something visible.
func (s Status) Style() StatusStyle {
	if st, ok := statusStyles[s]; ok {
		return st
	}
	return statusStyles[StatusBusy]
}
