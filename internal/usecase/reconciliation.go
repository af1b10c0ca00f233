package usecase

import (
	"sort"
	"strings"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"payrecon/internal/domain"
)

// ReconciliationUseCase orchestrates one reconciliation run: loading
// tables through the repository, matching ledger records against channel
// statements, and packaging the result.
type ReconciliationUseCase struct {
	repo TableRepository
	log  *zap.Logger
}

// NewReconciliationUseCase creates a new instance of the usecase. A nil
// logger disables diagnostics.
func NewReconciliationUseCase(repo TableRepository, log *zap.Logger) *ReconciliationUseCase {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReconciliationUseCase{repo: repo, log: log}
}

// ChannelTable pairs a loaded channel statement with the name it was
// uploaded under. The slice order is the candidate order for the lenient
// name match: first match wins.
type ChannelTable struct {
	Name  string
	Table *domain.Table
}

var (
	minTolerance  = decimal.NewFromFloat(0.01)
	toleranceRate = decimal.NewFromFloat(0.01)
)

// withinTolerance applies the scale-relative amount comparison: amounts
// agree when they differ by at most 1% of the ledger amount, floored at
// an absolute 0.01.
func withinTolerance(ledgerAmount, channelAmount decimal.Decimal) bool {
	tolerance := decimal.Max(minTolerance, ledgerAmount.Abs().Mul(toleranceRate))
	return ledgerAmount.Sub(channelAmount).Abs().Cmp(tolerance) <= 0
}

// Reconcile matches ledger records against channel statements. A nil
// record slice means that leg was not provided; at least one leg is
// required. Ledger channels with no matching statement are skipped
// entirely.
func (uc *ReconciliationUseCase) Reconcile(
	deposits, withdraws []domain.LedgerRecord,
	channels []ChannelTable,
	cfg domain.Config,
) (*domain.ReconciliationResult, error) {
	if deposits == nil && withdraws == nil {
		return nil, &domain.RunError{Message: "no ledger data loaded"}
	}

	result := domain.NewReconciliationResult()
	for _, channel := range distinctChannels(deposits, withdraws) {
		statement, ok := resolveChannelTable(channels, channel)
		if !ok {
			uc.log.Info("no channel statement matches ledger channel, skipping",
				zap.String("channel", channel))
			continue
		}
		channelResult := uc.reconcileChannel(channel, statement, cfg.Channel(channel), deposits, withdraws)
		result.Channels[channel] = channelResult
		mergeChannelResult(result, channel, channelResult)
	}
	return result, nil
}

// distinctChannels collects the channel values observed across both
// ledger legs, skipping blanks, in sorted order for deterministic output.
func distinctChannels(deposits, withdraws []domain.LedgerRecord) []string {
	seen := make(map[string]struct{})
	for _, rec := range deposits {
		if rec.Channel != "" {
			seen[rec.Channel] = struct{}{}
		}
	}
	for _, rec := range withdraws {
		if rec.Channel != "" {
			seen[rec.Channel] = struct{}{}
		}
	}
	return sortedKeys(seen)
}

// resolveChannelTable finds the statement for a ledger channel value.
// Deliberately lenient: the statement name and the channel value need
// only contain one another case-insensitively, and the first candidate
// wins with no ranking. An unmatched channel is simply absent from the
// result.
func resolveChannelTable(channels []ChannelTable, channel string) (ChannelTable, bool) {
	lowered := strings.ToLower(channel)
	for _, ct := range channels {
		name := strings.ToLower(ct.Name)
		if strings.Contains(lowered, name) || strings.Contains(name, lowered) {
			return ct, true
		}
	}
	return ChannelTable{}, false
}

// reconcileChannel runs both legs against one statement's consumable
// order index, then reports the unclaimed remainder.
func (uc *ReconciliationUseCase) reconcileChannel(
	channel string,
	statement ChannelTable,
	channelCfg domain.ChannelConfig,
	deposits, withdraws []domain.LedgerRecord,
) *domain.ChannelResult {
	index := buildOrderIndex(statement.Table, channelCfg)
	result := domain.NewChannelResult()

	runLeg(deposits, channel, index, &result.Deposit, &result.DepositMismatched, &result.DepositMissing)
	runLeg(withdraws, channel, index, &result.Withdraw, &result.WithdrawMismatched, &result.WithdrawMissing)

	for _, orderID := range sortedKeys(index) {
		amount := index[orderID]
		result.OnlyInChannel = append(result.OnlyInChannel, domain.MissingRecord{
			OrderID:       orderID,
			ChannelAmount: &amount,
			Note:          domain.NoteOnlyInChannel,
		})
	}
	return result
}

// buildOrderIndex maps order id to amount for one statement. Blank order
// ids are skipped; a duplicated order id keeps the last row's amount.
// Entries are removed as ledger records claim them, so a channel order
// can match at most one ledger record.
func buildOrderIndex(t *domain.Table, channelCfg domain.ChannelConfig) map[string]decimal.Decimal {
	index := make(map[string]decimal.Decimal)
	for _, rec := range domain.ChannelRecordsFromTable(t, channelCfg) {
		if rec.OrderID == "" {
			continue
		}
		index[rec.OrderID] = rec.Amount
	}
	return index
}

// runLeg classifies every ledger record of one leg belonging to the
// channel: matched within tolerance, mismatched on amount, or missing
// from the statement. Claimed index entries are consumed.
func runLeg(
	records []domain.LedgerRecord,
	channel string,
	index map[string]decimal.Decimal,
	totals *domain.LegTotals,
	mismatched *[]domain.Mismatch,
	missing *[]domain.MissingRecord,
) {
	for _, rec := range records {
		if rec.Channel != channel {
			continue
		}
		totals.Count++
		totals.Amount = totals.Amount.Add(rec.Amount)

		channelAmount, ok := index[rec.OrderID]
		if !ok {
			amount := rec.Amount
			*missing = append(*missing, domain.MissingRecord{
				OrderID:    rec.OrderID,
				GameAmount: &amount,
			})
			continue
		}
		delete(index, rec.OrderID)

		if withinTolerance(rec.Amount, channelAmount) {
			totals.Matched++
			totals.MatchedAmount = totals.MatchedAmount.Add(rec.Amount)
		} else {
			*mismatched = append(*mismatched, domain.Mismatch{
				OrderID:       rec.OrderID,
				GameAmount:    rec.Amount,
				ChannelAmount: channelAmount,
			})
		}
	}
}

// mergeChannelResult folds one channel's rollup into the aggregate
// totals and the flattened, channel- and leg-tagged lists. Residual
// statement orders keep the withdraw tag regardless of which leg they
// would have belonged to; see the package tests pinning that behavior.
func mergeChannelResult(result *domain.ReconciliationResult, channel string, cr *domain.ChannelResult) {
	result.Summary.TotalDeposit.Accumulate(cr.Deposit)
	result.Summary.TotalWithdraw.Accumulate(cr.Withdraw)

	for _, m := range cr.DepositMismatched {
		m.Channel, m.Leg = channel, domain.LegDeposit
		result.Mismatched = append(result.Mismatched, m)
	}
	for _, m := range cr.WithdrawMismatched {
		m.Channel, m.Leg = channel, domain.LegWithdraw
		result.Mismatched = append(result.Mismatched, m)
	}
	for _, r := range cr.DepositMissing {
		r.Channel, r.Leg = channel, domain.LegDeposit
		result.MissingInChannel = append(result.MissingInChannel, r)
	}
	for _, r := range cr.WithdrawMissing {
		r.Channel, r.Leg = channel, domain.LegWithdraw
		result.MissingInChannel = append(result.MissingInChannel, r)
	}
	for _, r := range cr.OnlyInChannel {
		r.Channel, r.Leg = channel, domain.LegWithdraw
		result.MissingInGame = append(result.MissingInGame, r)
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
