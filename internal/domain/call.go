package domain

// CallInfo describes one phone call as delivered by the telephony layer.
// SessionRef is the primary key for transcript storage; the numbers are
// E.164 and immutable for the call's lifetime.
type CallInfo struct {
	SessionRef    string
	CallerNumber  string
	IngressNumber string
	Metadata      map[string]string
}
