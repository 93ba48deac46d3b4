package contract

import "raffledapp/internal/ledger"

// OneToken is one whole token in base units.
const OneToken ledger.Balance = 1_000_000_000

// RegistrationFee covers storage and service costs of a raffle. The attached
// deposit must be strictly greater, so the prize is always strictly positive.
const RegistrationFee = 2 * OneToken

// MinimumStake deters spam entries. The stake amount carries no weight in the
// draw.
const MinimumStake = 1 * OneToken

// MaxParticipants bounds a raffle's participant ledger. It also bounds the
// draw domain: every byte value below the count is a valid index.
const MaxParticipants = 256

// MillisToNanos converts caller-facing millisecond timestamps to the ledger's
// nanosecond clock.
const MillisToNanos = 1_000_000

// MaxDrawAttempts caps the unresolved-draw retries. The attempt that reaches
// the cap falls back to a modulo draw, trading a bias of at most 1/256 per
// outcome for guaranteed termination.
const MaxDrawAttempts = 16

// RetryGasReserve is withheld from the budget carried into a scheduled retry.
const RetryGasReserve ledger.Gas = 5_000_000_000_000
