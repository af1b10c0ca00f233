package domain

import "github.com/shopspring/decimal"

// Leg is the transaction type within a reconciliation pass.
type Leg string

const (
	LegDeposit  Leg = "deposit"
	LegWithdraw Leg = "withdraw"
)

// NoteOnlyInChannel tags residual statement orders with no ledger
// counterpart.
const NoteOnlyInChannel = "only in channel file"

// LegTotals accumulates counts and amounts for one leg.
type LegTotals struct {
	Count         int             `json:"count"`
	Matched       int             `json:"matched"`
	Amount        decimal.Decimal `json:"amount"`
	MatchedAmount decimal.Decimal `json:"matched_amount"`
}

// Accumulate adds another leg's totals element-wise.
func (t *LegTotals) Accumulate(other LegTotals) {
	t.Count += other.Count
	t.Matched += other.Matched
	t.Amount = t.Amount.Add(other.Amount)
	t.MatchedAmount = t.MatchedAmount.Add(other.MatchedAmount)
}

// Mismatch is a matched order whose amounts disagree beyond tolerance.
type Mismatch struct {
	OrderID       string          `json:"order_id"`
	GameAmount    decimal.Decimal `json:"game_amount"`
	ChannelAmount decimal.Decimal `json:"channel_amount"`
	Channel       string          `json:"channel,omitempty"`
	Leg           Leg             `json:"type,omitempty"`
}

// MissingRecord is an order present on only one side. Ledger-side records
// carry GameAmount; statement-side residuals carry ChannelAmount.
type MissingRecord struct {
	OrderID       string           `json:"order_id"`
	GameAmount    *decimal.Decimal `json:"game_amount,omitempty"`
	ChannelAmount *decimal.Decimal `json:"channel_amount,omitempty"`
	Note          string           `json:"note,omitempty"`
	Channel       string           `json:"channel,omitempty"`
	Leg           Leg              `json:"type,omitempty"`
}

// ChannelResult is the rollup for one reconciled channel.
type ChannelResult struct {
	Deposit            LegTotals       `json:"deposit"`
	Withdraw           LegTotals       `json:"withdraw"`
	DepositMismatched  []Mismatch      `json:"deposit_mismatched"`
	WithdrawMismatched []Mismatch      `json:"withdraw_mismatched"`
	DepositMissing     []MissingRecord `json:"deposit_missing"`
	WithdrawMissing    []MissingRecord `json:"withdraw_missing"`
	OnlyInChannel      []MissingRecord `json:"only_in_channel"`
}

// NewChannelResult returns a rollup with empty (non-nil) lists so the
// rendered JSON always carries every bucket.
func NewChannelResult() *ChannelResult {
	return &ChannelResult{
		DepositMismatched:  make([]Mismatch, 0),
		WithdrawMismatched: make([]Mismatch, 0),
		DepositMissing:     make([]MissingRecord, 0),
		WithdrawMissing:    make([]MissingRecord, 0),
		OnlyInChannel:      make([]MissingRecord, 0),
	}
}

// Summary holds the aggregate totals across all reconciled channels.
type Summary struct {
	TotalDeposit  LegTotals `json:"total_deposit"`
	TotalWithdraw LegTotals `json:"total_withdraw"`
}

// ReconciliationResult is the terminal, immutable output of one run. The
// flattened lists repeat the per-channel buckets tagged with channel and
// leg.
type ReconciliationResult struct {
	Summary          Summary                   `json:"summary"`
	Channels         map[string]*ChannelResult `json:"channels"`
	Mismatched       []Mismatch                `json:"mismatched"`
	MissingInChannel []MissingRecord           `json:"missing_in_channel"`
	MissingInGame    []MissingRecord           `json:"missing_in_game"`
}

// NewReconciliationResult returns a result with every collection
// initialized.
func NewReconciliationResult() *ReconciliationResult {
	return &ReconciliationResult{
		Channels:         make(map[string]*ChannelResult),
		Mismatched:       make([]Mismatch, 0),
		MissingInChannel: make([]MissingRecord, 0),
		MissingInGame:    make([]MissingRecord, 0),
	}
}
