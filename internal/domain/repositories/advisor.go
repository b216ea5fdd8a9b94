package repositories

import "context"

// Advisor is the opaque conflict-resolution oracle (spec §6): two stateless
// RPCs invoked only from the record engine's resolver, never from replay.
type Advisor interface {
	// Classify batches unresolved hunks and returns one line per hunk of
	// the form "N STRATEGY", STRATEGY in {OURS, THEIRS, BOTH_OT, BOTH_TO,
	// GENERATE}.
	Classify(ctx context.Context, batch string) (string, error)

	// Generate batches the GENERATE subset and returns blocks headed
	// "=== RESOLUTION N ===" containing merged code only.
	Generate(ctx context.Context, batch string) (string, error)
}
