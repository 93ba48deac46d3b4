package contract

import (
	"fmt"

	"go.uber.org/zap"

	"raffledapp/internal/ledger"
	"raffledapp/internal/logger"
	"raffledapp/internal/storage"
)

// closeUnparticipated returns the full prize to the owner and deletes the
// record. No draw is attempted.
func (c *Contract) closeUnparticipated(ctx ledger.Context, tx storage.Storage, raffle *storage.Raffle) error {
	if err := tx.DeleteRaffle(raffle.OwnerAddress); err != nil {
		return err
	}

	owner := ledger.AccountID(raffle.OwnerAddress)
	if err := ctx.Transfer(owner, ledger.Balance(raffle.Prize)); err != nil {
		return err
	}

	logger.Info("nobody participated in the raffle, prize returned",
		zap.String("owner", raffle.OwnerAddress),
		zap.Uint64("prize", raffle.Prize))

	return appendEvent(tx, ctx, storage.UnparticipatedCloseEventKind, owner,
		fmt.Sprintf("nobody participated, prize %d returned to %s", raffle.Prize, owner))
}

// settle pays out a resolved draw: one transfer of prize plus the winner's own
// stake to the winner, then one refund per remaining participant in ledger
// order, then record deletion. The winner's entry is skipped in the refund
// loop, so their stake leaves escrow exactly once.
func (c *Contract) settle(ctx ledger.Context, tx storage.Storage, raffle *storage.Raffle, participants []*storage.Participant, index int, attempts uint8) error {
	winner := participants[index]

	payout := ledger.Balance(raffle.Prize) + ledger.Balance(winner.Stake)
	if err := ctx.Transfer(ledger.AccountID(winner.Address), payout); err != nil {
		return err
	}

	for _, participant := range participants {
		if participant.Address == winner.Address {
			continue
		}
		if err := ctx.Transfer(ledger.AccountID(participant.Address), ledger.Balance(participant.Stake)); err != nil {
			return err
		}
	}

	if err := tx.DeleteRaffle(raffle.OwnerAddress); err != nil {
		return err
	}

	logger.Info("raffle settled",
		zap.String("owner", raffle.OwnerAddress),
		zap.String("winner", winner.Address),
		zap.Int("winning index", index),
		zap.Uint64("payout", uint64(payout)),
		zap.Uint8("attempts", attempts))

	return appendEvent(tx, ctx, storage.WinnerPaidEventKind, ledger.AccountID(raffle.OwnerAddress),
		fmt.Sprintf("winner %s paid %d after %d attempt(s), %d participant(s) refunded",
			winner.Address, payout, attempts, len(participants)-1))
}
