package contract

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"raffledapp/internal/ledger"
	"raffledapp/internal/logger"
	"raffledapp/internal/storage"
)

var (
	ErrNotInitialized     = errors.New("the contract should be initialized before usage")
	ErrAlreadyInitialized = errors.New("the contract has already been initialized")
	ErrOperatorOnly       = errors.New("only the contract account can initialize the contract")

	ErrInsufficientDeposit = errors.New("prize money should be greater than the registration fee")
	ErrAlreadyRegistered   = errors.New("you have already registered a raffle")
	ErrInvalidWindow       = errors.New("the raffle's end date should be greater than its start date")

	ErrStakeTooSmall         = errors.New("the locked amount should be at least one token")
	ErrContractParticipation = errors.New("the contract account cannot participate in raffles")
	ErrSelfParticipation     = errors.New("you cannot participate in your own raffle")
	ErrUnknownRaffle         = errors.New("no raffle is being conducted by this account")
	ErrAlreadyParticipated   = errors.New("you have already participated in this raffle")
	ErrCapacityReached       = errors.New("the raffle's maximum participants limit reached")
	ErrOutsideWindow         = errors.New("the raffle has either not started yet or has finished already")

	ErrUnauthorizedFinalize = errors.New("only the raffle's owner or the contract account can finalize the raffle")
	ErrPrematureFinalize    = errors.New("the raffle can only be finalized after it ends")
)

// Contract is the on-ledger raffle logic. All state lives in the storage it
// is constructed with; every entry point runs inside one storage transaction,
// so a precondition violation aborts the whole call with no partial write.
type Contract struct {
	storage storage.Storage
}

func New(store storage.Storage) *Contract {
	return &Contract{storage: store}
}

// Initialize is the one-time setup operation. Only the contract's own
// operating identity may invoke it, and only once.
func (c *Contract) Initialize(ctx ledger.Context) error {
	if ctx.Predecessor() != ctx.ContractAccount() {
		return ErrOperatorOnly
	}

	return c.storage.Transaction(func(tx storage.Storage) error {
		initialized, err := tx.IsInitialized()
		if err != nil {
			return err
		}
		if initialized {
			return ErrAlreadyInitialized
		}

		if err := tx.MarkInitialized(); err != nil {
			return err
		}

		logger.Info("contract initialized", zap.String("account", string(ctx.ContractAccount())))
		return nil
	})
}

// RegisterRaffle opens a raffle for the caller. The attached deposit minus the
// registration fee is escrowed as the prize. Start and end are expressed in
// milliseconds and stored on the ledger's nanosecond clock.
func (c *Contract) RegisterRaffle(ctx ledger.Context, startMillis uint64, endMillis uint64) error {
	return c.storage.Transaction(func(tx storage.Storage) error {
		if err := requireInitialized(tx); err != nil {
			return err
		}

		if ctx.AttachedDeposit() <= RegistrationFee {
			return ErrInsufficientDeposit
		}

		owner := ctx.Predecessor()

		existing, err := tx.GetRaffle(string(owner))
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAlreadyRegistered
		}

		if endMillis <= startMillis {
			return ErrInvalidWindow
		}

		raffle := &storage.Raffle{
			OwnerAddress: string(owner),
			Prize:        uint64(ctx.AttachedDeposit() - RegistrationFee),
			StartNanos:   int64(startMillis) * MillisToNanos,
			EndNanos:     int64(endMillis) * MillisToNanos,
			Scope:        participantScope(owner),
			Attempts:     0,
		}

		if err := tx.InsertRaffle(raffle); err != nil {
			return err
		}

		logger.Info("raffle registered",
			zap.String("owner", string(owner)),
			zap.Uint64("prize", raffle.Prize),
			zap.Int64("start nanos", raffle.StartNanos),
			zap.Int64("end nanos", raffle.EndNanos))

		return appendEvent(tx, ctx, storage.RaffleRegisteredEventKind, owner,
			fmt.Sprintf("raffle registered for %s with prize %d from %d ms till %d ms",
				owner, raffle.Prize, startMillis, endMillis))
	})
}

// Participate joins the caller to the raffle run by raffleID. The attached
// stake is escrowed; it plays no role in the draw.
func (c *Contract) Participate(ctx ledger.Context, raffleID string) error {
	return c.storage.Transaction(func(tx storage.Storage) error {
		if err := requireInitialized(tx); err != nil {
			return err
		}

		if ctx.AttachedDeposit() < MinimumStake {
			return ErrStakeTooSmall
		}

		caller := ctx.Predecessor()

		if caller == ctx.ContractAccount() {
			return ErrContractParticipation
		}
		if caller == ledger.AccountID(raffleID) {
			return ErrSelfParticipation
		}

		raffle, err := tx.GetRaffle(raffleID)
		if err != nil {
			return err
		}
		if raffle == nil {
			return ErrUnknownRaffle
		}

		existing, err := tx.GetParticipant(raffle.Scope, string(caller))
		if err != nil {
			return err
		}
		if existing != nil {
			return ErrAlreadyParticipated
		}

		count, err := tx.CountParticipants(raffle.Scope)
		if err != nil {
			return err
		}
		if count >= MaxParticipants {
			return ErrCapacityReached
		}

		now := int64(ctx.BlockTimestamp())
		if now <= raffle.StartNanos || now >= raffle.EndNanos {
			return ErrOutsideWindow
		}

		participant := &storage.Participant{
			Scope:   raffle.Scope,
			Address: string(caller),
			Stake:   uint64(ctx.AttachedDeposit()),
		}

		if err := tx.InsertParticipant(participant); err != nil {
			return err
		}

		logger.Info("participant joined",
			zap.String("raffle", raffleID),
			zap.String("participant", string(caller)),
			zap.Uint64("stake", participant.Stake))

		return appendEvent(tx, ctx, storage.ParticipantJoinedEventKind, ledger.AccountID(raffleID),
			fmt.Sprintf("%s participated in the raffle of %s with %d locked",
				caller, raffleID, participant.Stake))
	})
}

// FinalizeRaffle closes a raffle after its window has passed. With no
// participants the prize goes back to the owner. Otherwise a winner is drawn
// from the step's random bytes; an unresolved draw schedules a retry in a
// later execution step instead of settling.
func (c *Contract) FinalizeRaffle(ctx ledger.Context, raffleID string) error {
	return c.storage.Transaction(func(tx storage.Storage) error {
		if err := requireInitialized(tx); err != nil {
			return err
		}

		caller := ctx.Predecessor()
		if caller != ledger.AccountID(raffleID) && caller != ctx.ContractAccount() {
			return ErrUnauthorizedFinalize
		}

		raffle, err := tx.GetRaffle(raffleID)
		if err != nil {
			return err
		}
		if raffle == nil {
			return ErrUnknownRaffle
		}

		if int64(ctx.BlockTimestamp()) <= raffle.EndNanos {
			return ErrPrematureFinalize
		}

		participants, err := tx.GetParticipantsInOrder(raffle.Scope)
		if err != nil {
			return err
		}

		if len(participants) == 0 {
			return c.closeUnparticipated(ctx, tx, raffle)
		}

		seed := ctx.RandomSeed()
		index, found := Draw(seed, len(participants))
		attempts := raffle.Attempts + 1

		if !found && attempts < MaxDrawAttempts {
			if err := tx.UpdateRaffleAttempts(raffleID, attempts); err != nil {
				return err
			}

			budget := retryBudget(ctx.RemainingGas())
			ctx.ScheduleFinalize(ledger.AccountID(raffleID), budget)

			logger.Info("no byte below participant count in this step, retrying in a future step",
				zap.String("raffle", raffleID),
				zap.Uint8("attempts", attempts))

			return appendEvent(tx, ctx, storage.DrawUnresolvedEventKind, ledger.AccountID(raffleID),
				fmt.Sprintf("draw unresolved after %d attempt(s), retry scheduled", attempts))
		}

		if !found {
			index = fallbackDraw(seed, len(participants))
			logger.Warn("draw attempts cap reached, falling back to modulo draw",
				zap.String("raffle", raffleID),
				zap.Uint8("attempts", attempts))
		}

		return c.settle(ctx, tx, raffle, participants, index, attempts)
	})
}

func requireInitialized(tx storage.Storage) error {
	initialized, err := tx.IsInitialized()
	if err != nil {
		return err
	}
	if !initialized {
		return ErrNotInitialized
	}
	return nil
}

// participantScope derives the storage namespace of a raffle's participant
// ledger from a content hash of the owner address, so two raffles' entries
// never collide.
func participantScope(owner ledger.AccountID) string {
	sum := sha256.Sum256([]byte(owner))
	return hex.EncodeToString(sum[:])
}

func retryBudget(remaining ledger.Gas) ledger.Gas {
	if remaining <= RetryGasReserve {
		return 0
	}
	return remaining - RetryGasReserve
}

func appendEvent(tx storage.Storage, ctx ledger.Context, kind storage.EventKind, owner ledger.AccountID, message string) error {
	return tx.AppendEvent(&storage.Event{
		ID:             uuid.NewString(),
		Kind:           kind,
		OwnerAddress:   string(owner),
		Message:        message,
		CreatedAtNanos: int64(ctx.BlockTimestamp()),
	})
}
