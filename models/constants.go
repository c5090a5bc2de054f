package models

// Participant roles (exactly two, complementary)
const (
	RoleFrontend = "frontend"
	RoleBackend  = "backend"
)

// OppositeRole returns the complementary role for a valid role, "" otherwise
func OppositeRole(role string) string {
	switch role {
	case RoleFrontend:
		return RoleBackend
	case RoleBackend:
		return RoleFrontend
	default:
		return ""
	}
}

// Match statuses. MatchStatusCreated is reserved for a future
// pending-acceptance flow; matches are currently created active.
const (
	MatchStatusCreated   = "created"
	MatchStatusActive    = "active"
	MatchStatusCompleted = "completed"
)

// Request outcome statuses returned by the matchmaking endpoint
const (
	OutcomeMatched = "MATCHED"
	OutcomeWaiting = "WAITING"
)

// WaitingTimeLayout is a fixed-width UTC timestamp layout so waitingKey
// values sort lexicographically in queue order.
const WaitingTimeLayout = "2006-01-02T15:04:05.000000000Z"
