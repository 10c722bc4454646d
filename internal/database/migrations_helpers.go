package database

import "github.com/google/uuid"

// randomSeedSecret produces an unpredictable placeholder secret for seeded
// accounts. It is never surfaced anywhere, so the seeded account is unusable
// until an operator sets a real password.
func randomSeedSecret() string {
	return uuid.NewString() + uuid.NewString()
}
