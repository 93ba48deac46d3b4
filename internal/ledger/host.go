package ledger

import (
	"crypto/rand"
	"errors"
	"sync"

	"go.uber.org/zap"

	"raffledapp/internal/logger"
)

// SeedSize is the length of the random byte sequence a step receives.
const SeedSize = 32

var (
	ErrInsufficientBalance = errors.New("the caller cannot cover the attached deposit")
	ErrInsufficientEscrow  = errors.New("the contract escrow cannot cover the transfer")
)

// SeedFunc produces the random byte sequence for one execution step.
type SeedFunc func() []byte

// Host is an in-process stand-in for the replicated ledger. It keeps account
// balances, a block clock and a queue of deferred self-calls, and executes
// each call as one serialized, atomic step: on an error from the handler every
// balance mutation of the step is rolled back.
type Host struct {
	mu              sync.Mutex
	contractAccount AccountID
	balances        map[AccountID]Balance
	blockTime       Timestamp
	seed            SeedFunc
	deferred        []DeferredCall
}

func NewHost(contractAccount AccountID) *Host {
	return &Host{
		contractAccount: contractAccount,
		balances:        make(map[AccountID]Balance),
		seed:            cryptoSeed,
	}
}

func cryptoSeed() []byte {
	seed := make([]byte, SeedSize)
	if _, err := rand.Read(seed); err != nil {
		panic(err)
	}
	return seed
}

func (h *Host) ContractAccount() AccountID {
	return h.contractAccount
}

// SetSeedFunc replaces the source of per-step random bytes.
func (h *Host) SetSeedFunc(seed SeedFunc) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.seed = seed
}

// SetBlockTime moves the block clock to an absolute nanosecond instant.
func (h *Host) SetBlockTime(t Timestamp) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.blockTime = t
}

// AdvanceBlockTime moves the block clock forward by d nanoseconds.
func (h *Host) AdvanceBlockTime(d Timestamp) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.blockTime += d
}

// Credit mints value onto an account. Test and bootstrap helper.
func (h *Host) Credit(account AccountID, amount Balance) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.balances[account] += amount
}

func (h *Host) BalanceOf(account AccountID) Balance {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.balances[account]
}

// TakeDeferredCall pops the oldest pending deferred self-call, if any.
func (h *Host) TakeDeferredCall() (DeferredCall, bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.deferred) == 0 {
		return DeferredCall{}, false
	}
	call := h.deferred[0]
	h.deferred = h.deferred[1:]
	return call, true
}

// PendingDeferredCalls reports how many deferred self-calls are queued.
func (h *Host) PendingDeferredCalls() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.deferred)
}

// Execute runs one call as one atomic execution step. The attached deposit is
// moved from the caller to the contract escrow before the handler runs; if the
// handler returns an error, balances and the deferred-call queue are restored
// to their pre-step state and the error is surfaced to the caller verbatim.
func (h *Host) Execute(call Call, handler func(Context) error) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if call.Gas == 0 {
		call.Gas = DefaultPrepaidGas
	}

	if h.balances[call.Caller] < call.Deposit {
		return ErrInsufficientBalance
	}

	snapshot := make(map[AccountID]Balance, len(h.balances))
	for account, balance := range h.balances {
		snapshot[account] = balance
	}
	deferredMark := len(h.deferred)

	h.balances[call.Caller] -= call.Deposit
	h.balances[h.contractAccount] += call.Deposit

	ctx := &stepContext{
		host:      h,
		caller:    call.Caller,
		deposit:   call.Deposit,
		blockTime: h.blockTime,
		seed:      h.seed(),
		gas:       call.Gas,
	}

	if err := handler(ctx); err != nil {
		h.balances = snapshot
		h.deferred = h.deferred[:deferredMark]
		logger.Debug("execution step aborted",
			zap.String("caller", string(call.Caller)),
			zap.Error(err))
		return err
	}

	return nil
}

// stepContext is the Context of a single step. The host mutex is held for the
// whole step, so its methods touch host state without further locking.
type stepContext struct {
	host      *Host
	caller    AccountID
	deposit   Balance
	blockTime Timestamp
	seed      []byte
	gas       Gas
}

func (c *stepContext) Predecessor() AccountID     { return c.caller }
func (c *stepContext) ContractAccount() AccountID { return c.host.contractAccount }
func (c *stepContext) AttachedDeposit() Balance   { return c.deposit }
func (c *stepContext) BlockTimestamp() Timestamp  { return c.blockTime }
func (c *stepContext) RandomSeed() []byte         { return c.seed }
func (c *stepContext) RemainingGas() Gas          { return c.gas }

func (c *stepContext) Transfer(to AccountID, amount Balance) error {
	escrow := c.host.balances[c.host.contractAccount]
	if escrow < amount {
		return ErrInsufficientEscrow
	}
	c.host.balances[c.host.contractAccount] = escrow - amount
	c.host.balances[to] += amount
	return nil
}

func (c *stepContext) ScheduleFinalize(raffleID AccountID, budget Gas) {
	c.host.deferred = append(c.host.deferred, DeferredCall{
		RaffleID: raffleID,
		Budget:   budget,
	})
}
