package reconcile

import (
	"context"

	"github.com/amirhossein-jamali/rampbot/internal/domain/entity"
	errs "github.com/amirhossein-jamali/rampbot/internal/domain/error"
	"github.com/amirhossein-jamali/rampbot/internal/domain/port/gateway"
	"github.com/amirhossein-jamali/rampbot/internal/domain/port/usecase"
)

const sourceScheduler = "scheduler"

// syncWithUpstream brings one transaction in line with the upstream. Offramps the upstream still
// reports as awaiting a deposit are checked on-chain and, if funded, confirmed upstream.
func (s *Scheduler) syncWithUpstream(ctx context.Context, tx *entity.Transaction) (outcome, error) {
	fail := func(stage string, err error) (outcome, error) {
		return outcomeFailed, errs.NewTransactionError(tx.Reference, tx.UserID, string(tx.Status), stage, err)
	}

	upCtx, cancel := s.timeProvider.WithTimeout(ctx, s.cfg.UpstreamTimeout)
	payload, err := s.ramp.GetStatus(upCtx, tx.Reference)
	cancel()
	if err != nil {
		return fail("get_status", err)
	}

	upstream := entity.NormalizeStatus(payload.Status)

	if tx.IsOfframp() && upstream == entity.StatusAwaitingDeposit {
		address := payload.Deposit.Address
		if address == "" {
			address = tx.DepositAddress
		}
		if address == "" {
			s.logger.Debug("Offramp has no deposit address to scan", map[string]any{"reference": tx.Reference})
			return outcomeUnchanged, nil
		}

		chainCtx, cancel := s.timeProvider.WithTimeout(ctx, s.cfg.ChainTimeout)
		hash, found, err := s.scanner.FindIncomingTransfer(chainCtx, tx.Asset, address)
		cancel()
		if err != nil {
			return fail("chain_scan", err)
		}
		if !found {
			return outcomeUnchanged, nil
		}

		s.logger.Info("Found on-chain deposit for offramp", map[string]any{
			"reference": tx.Reference,
			"asset":     tx.Asset.String(),
			"hash":      hash,
		})

		upCtx, cancel := s.timeProvider.WithTimeout(ctx, s.cfg.UpstreamTimeout)
		confirmed, err := s.ramp.ConfirmDeposit(upCtx, tx.Reference, hash)
		cancel()
		if err != nil {
			return fail("confirm_deposit", err)
		}

		status := entity.NormalizeStatus(confirmed.Status)
		if status == "" {
			status = entity.StatusReceived
		}
		return s.apply(ctx, tx, status, hash, confirmed)
	}

	if upstream == "" || upstream == tx.Status {
		return outcomeUnchanged, nil
	}

	hash, _ := ExtractHash(payload.Raw)
	return s.apply(ctx, tx, upstream, hash, payload)
}

func (s *Scheduler) apply(
	ctx context.Context,
	tx *entity.Transaction,
	status entity.TransactionStatus,
	hash string,
	payload *gateway.StatusPayload,
) (outcome, error) {
	res, err := s.applier.ApplyStatus(ctx, usecase.ApplyStatusRequest{
		Reference: tx.Reference,
		Status:    status,
		Hash:      hash,
		Message:   payload.Message,
		Extra:     ExtraFromPayload(payload),
		Source:    sourceScheduler,
	})
	if err != nil {
		return outcomeFailed, errs.NewTransactionError(tx.Reference, tx.UserID, string(tx.Status), "apply_status", err)
	}
	if res.Changed {
		return outcomeUpdated, nil
	}
	return outcomeUnchanged, nil
}

// ExtraFromPayload picks the notification details out of an upstream payload
func ExtraFromPayload(p *gateway.StatusPayload) *gateway.NotificationExtra {
	if p == nil {
		return nil
	}
	extra := &gateway.NotificationExtra{
		DestinationCurrency: p.Destination.Currency,
		Rate:                p.Rate,
		Type:                p.Type,
	}
	if !p.Destination.Amount.IsZero() {
		amount := p.Destination.Amount
		extra.DestinationAmount = &amount
	}
	if extra.DestinationAmount == nil && extra.DestinationCurrency == "" && extra.Rate == nil && extra.Type == "" {
		return nil
	}
	return extra
}
