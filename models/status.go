package models

import "strings"

// Status is the lifecycle state of a report
type Status string

const (
	StatusSubmitted  Status = "submitted"
	StatusInProgress Status = "in_progress"
	StatusResolved   Status = "resolved"
	StatusRejected   Status = "rejected"
)

// Statuses lists every valid status in display order
var Statuses = []Status{StatusSubmitted, StatusInProgress, StatusResolved, StatusRejected}

var statusAliases = map[string]Status{
	"submitted":   StatusSubmitted,
	"pending":     StatusSubmitted,
	"open":        StatusSubmitted,
	"in_progress": StatusInProgress,
	"inprogress":  StatusInProgress,
	"resolved":    StatusResolved,
	"rejected":    StatusRejected,
}

// ParseStatus maps free-text labels ("In Progress", "Resolved", "pending", ...) onto the
// enumeration.
func ParseStatus(s string) (Status, bool) {
	key := strings.ToLower(strings.TrimSpace(s))
	key = strings.NewReplacer(" ", "_", "-", "_").Replace(key)
	status, ok := statusAliases[key]
	return status, ok
}

// Valid reports whether s is one of the canonical values
func (s Status) Valid() bool {
	switch s {
	case StatusSubmitted, StatusInProgress, StatusResolved, StatusRejected:
		return true
	}
	return false
}

func (s Status) String() string {
	return string(s)
}

// UnmarshalText normalizes persisted labels. Unknown labels decode as StatusSubmitted so
// a stored record can never carry a value outside the enumeration.
func (s *Status) UnmarshalText(text []byte) error {
	status, ok := ParseStatus(string(text))
	if !ok {
		status = StatusSubmitted
	}
	*s = status
	return nil
}
