package ledger

// AccountID identifies an account on the ledger.
type AccountID string

// Balance is a value amount in base units.
type Balance uint64

// Timestamp is a nanosecond-resolution instant of the ledger clock.
type Timestamp uint64

// Gas is the resource budget of a single execution step.
type Gas uint64

// DefaultPrepaidGas is attached to a call when the caller does not set a budget.
const DefaultPrepaidGas Gas = 100_000_000_000_000

// Context is the view the contract has of the execution step it runs in.
// The host constructs one per call; nothing in it outlives the step.
type Context interface {
	// Predecessor is the account that signed and sent the current call.
	Predecessor() AccountID

	// ContractAccount is the contract's own operating identity.
	ContractAccount() AccountID

	// AttachedDeposit is the value escrowed with the current call. It is
	// already credited to the contract account when the handler runs.
	AttachedDeposit() Balance

	// BlockTimestamp is the ledger time of the current step, in nanoseconds.
	BlockTimestamp() Timestamp

	// RandomSeed is the pseudo-random byte sequence of the current step.
	// It is fixed for the duration of the step.
	RandomSeed() []byte

	// RemainingGas is the budget still available to the current step.
	RemainingGas() Gas

	// Transfer moves value out of the contract's escrow to an account.
	Transfer(to AccountID, amount Balance) error

	// ScheduleFinalize defers a finalize_raffle self-call to a later
	// execution step, carrying the given budget.
	ScheduleFinalize(raffleID AccountID, budget Gas)
}

// DeferredCall is a finalize self-call waiting for a later execution step.
type DeferredCall struct {
	RaffleID AccountID
	Budget   Gas
}

// Call describes one incoming call to be executed as one atomic step.
type Call struct {
	Caller  AccountID
	Deposit Balance
	Gas     Gas
}
