package tile

import "time"

// Status tells whether a tile was found.
type Status int

const (
	// StatusFound means the payload holds the decoded tile.
	StatusFound Status = iota
	// StatusMissing means the tile could not be fetched or decoded.
	StatusMissing
)

// String returns the status name.
func (s Status) String() string {
	switch s {
	case StatusFound:
		return "Found"
	case StatusMissing:
		return "Missing"
	default:
		return "Unknown"
	}
}

// Resolved is the outcome of resolving a tile request.
type Resolved struct {
	Status  Status
	Payload Payload

	// RequestedAt is when the tile was requested.
	RequestedAt time.Time
}

// Found returns a resolution carrying p.
func Found(p Payload, requestedAt time.Time) Resolved {
	return Resolved{Status: StatusFound, Payload: p, RequestedAt: requestedAt}
}

// Missing returns a resolution for a tile that could not be obtained.
func Missing(requestedAt time.Time) Resolved {
	return Resolved{Status: StatusMissing, RequestedAt: requestedAt}
}
