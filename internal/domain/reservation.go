package domain

// Reservation holds the fields collected during one reservation flow.
// Values are free text as spoken by the caller; PartySize is the digits
// when they parsed, otherwise the raw utterance. Nothing here outlives
// the single handler invocation that built it.
type Reservation struct {
	Date      string
	Time      string
	PartySize string
}

// Complete reports whether every field has been collected.
func (r Reservation) Complete() bool {
	return r.Date != "" && r.Time != "" && r.PartySize != ""
}
