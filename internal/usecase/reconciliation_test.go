package usecase_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"payrecon/internal/domain"
	"payrecon/internal/usecase"
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func ledgerRecord(orderID, channel, amount string) domain.LedgerRecord {
	return domain.LedgerRecord{
		OrderID: orderID,
		Channel: channel,
		Status:  domain.StatusSuccess,
		Amount:  dec(amount),
	}
}

// statementTable builds a channel statement with the stock column layout.
func statementTable(entries ...[2]string) *domain.Table {
	t := &domain.Table{Columns: []string{"商户订单号", "金额"}}
	for _, e := range entries {
		t.Rows = append(t.Rows, domain.Row{"商户订单号": e[0], "金额": e[1]})
	}
	return t
}

func newEngine() *usecase.ReconciliationUseCase {
	return usecase.NewReconciliationUseCase(nil, nil)
}

func TestReconcile_EndToEnd(t *testing.T) {
	deposits := []domain.LedgerRecord{
		ledgerRecord("A1", "X", "100"),
		ledgerRecord("A2", "X", "50"),
	}
	channels := []usecase.ChannelTable{
		{Name: "X", Table: statementTable([2]string{"A1", "100.5"}, [2]string{"A3", "30"})},
	}

	result, err := newEngine().Reconcile(deposits, nil, channels, domain.Config{})
	require.NoError(t, err)

	cr := result.Channels["X"]
	require.NotNil(t, cr)

	// A1 matches within the 1% tolerance (1.00 vs a 0.50 difference).
	assert.Equal(t, 2, cr.Deposit.Count)
	assert.Equal(t, 1, cr.Deposit.Matched)
	assert.True(t, cr.Deposit.Amount.Equal(dec("150")))
	assert.True(t, cr.Deposit.MatchedAmount.Equal(dec("100")))
	assert.Empty(t, cr.DepositMismatched)

	// A2 exists only in the ledger.
	require.Len(t, result.MissingInChannel, 1)
	assert.Equal(t, "A2", result.MissingInChannel[0].OrderID)
	assert.Equal(t, "X", result.MissingInChannel[0].Channel)
	assert.Equal(t, domain.LegDeposit, result.MissingInChannel[0].Leg)
	assert.True(t, result.MissingInChannel[0].GameAmount.Equal(dec("50")))

	// A3 exists only in the statement and is reported once, tagged as a
	// withdraw-type anomaly even though only deposits were processed.
	require.Len(t, result.MissingInGame, 1)
	assert.Equal(t, "A3", result.MissingInGame[0].OrderID)
	assert.Equal(t, domain.LegWithdraw, result.MissingInGame[0].Leg)
	assert.Equal(t, domain.NoteOnlyInChannel, result.MissingInGame[0].Note)
	assert.True(t, result.MissingInGame[0].ChannelAmount.Equal(dec("30")))

	assert.Equal(t, 2, result.Summary.TotalDeposit.Count)
	assert.Equal(t, 1, result.Summary.TotalDeposit.Matched)
	assert.Equal(t, 0, result.Summary.TotalWithdraw.Count)
}

func TestReconcile_ToleranceBoundaries(t *testing.T) {
	tests := []struct {
		name          string
		ledgerAmount  string
		channelAmount string
		matched       bool
	}{
		{name: "within one percent", ledgerAmount: "100.00", channelAmount: "100.99", matched: true},
		{name: "within one percent reversed", ledgerAmount: "100.99", channelAmount: "100.00", matched: true},
		{name: "beyond one percent", ledgerAmount: "100.00", channelAmount: "102.00", matched: false},
		{name: "beyond one percent reversed", ledgerAmount: "102.00", channelAmount: "100.00", matched: false},
		{name: "small amounts use the absolute floor", ledgerAmount: "0.50", channelAmount: "0.51", matched: true},
		{name: "small amounts beyond the floor", ledgerAmount: "0.50", channelAmount: "0.55", matched: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			deposits := []domain.LedgerRecord{ledgerRecord("A1", "X", tt.ledgerAmount)}
			channels := []usecase.ChannelTable{
				{Name: "X", Table: statementTable([2]string{"A1", tt.channelAmount})},
			}

			result, err := newEngine().Reconcile(deposits, nil, channels, domain.Config{})
			require.NoError(t, err)

			cr := result.Channels["X"]
			if tt.matched {
				assert.Equal(t, 1, cr.Deposit.Matched)
				assert.Empty(t, result.Mismatched)
			} else {
				assert.Equal(t, 0, cr.Deposit.Matched)
				require.Len(t, result.Mismatched, 1)
				assert.Equal(t, "A1", result.Mismatched[0].OrderID)
				assert.True(t, result.Mismatched[0].GameAmount.Equal(dec(tt.ledgerAmount)))
				assert.True(t, result.Mismatched[0].ChannelAmount.Equal(dec(tt.channelAmount)))
				assert.Equal(t, domain.LegDeposit, result.Mismatched[0].Leg)
			}
		})
	}
}

func TestReconcile_SingleClaim(t *testing.T) {
	// A channel order is consumed by at most one ledger record: the
	// duplicate ledger row lands in missing-in-channel.
	deposits := []domain.LedgerRecord{
		ledgerRecord("A1", "X", "100"),
		ledgerRecord("A1", "X", "100"),
	}
	channels := []usecase.ChannelTable{
		{Name: "X", Table: statementTable([2]string{"A1", "100"})},
	}

	result, err := newEngine().Reconcile(deposits, nil, channels, domain.Config{})
	require.NoError(t, err)

	cr := result.Channels["X"]
	assert.Equal(t, 2, cr.Deposit.Count)
	assert.Equal(t, 1, cr.Deposit.Matched)
	require.Len(t, cr.DepositMissing, 1)
	assert.Empty(t, result.MissingInGame)
}

func TestReconcile_WithdrawLegSharesIndex(t *testing.T) {
	deposits := []domain.LedgerRecord{ledgerRecord("A1", "X", "100")}
	withdraws := []domain.LedgerRecord{ledgerRecord("A2", "X", "40")}
	channels := []usecase.ChannelTable{
		{Name: "X", Table: statementTable([2]string{"A1", "100"}, [2]string{"A2", "40"})},
	}

	result, err := newEngine().Reconcile(deposits, withdraws, channels, domain.Config{})
	require.NoError(t, err)

	cr := result.Channels["X"]
	assert.Equal(t, 1, cr.Deposit.Matched)
	assert.Equal(t, 1, cr.Withdraw.Matched)
	assert.Empty(t, result.MissingInGame, "both statement orders were claimed")
}

func TestReconcile_LenientChannelResolution(t *testing.T) {
	// The ledger value and the statement name need only contain one
	// another case-insensitively.
	deposits := []domain.LedgerRecord{ledgerRecord("A1", "AliPay-Gateway", "10")}
	channels := []usecase.ChannelTable{
		{Name: "alipay", Table: statementTable([2]string{"A1", "10"})},
	}

	result, err := newEngine().Reconcile(deposits, nil, channels, domain.Config{})
	require.NoError(t, err)
	require.Contains(t, result.Channels, "AliPay-Gateway")
	assert.Equal(t, 1, result.Channels["AliPay-Gateway"].Deposit.Matched)
}

func TestReconcile_FirstStatementWins(t *testing.T) {
	// No ranking among candidates: the first statement whose name
	// overlaps the channel value is used, even if a later one overlaps
	// more precisely.
	deposits := []domain.LedgerRecord{ledgerRecord("A1", "alipay", "10")}
	channels := []usecase.ChannelTable{
		{Name: "pay", Table: statementTable([2]string{"A1", "10"})},
		{Name: "alipay", Table: statementTable([2]string{"A1", "999"})},
	}

	result, err := newEngine().Reconcile(deposits, nil, channels, domain.Config{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Channels["alipay"].Deposit.Matched,
		"the first (exact-amount) statement was matched against")
}

func TestReconcile_UnmatchedChannelSkipped(t *testing.T) {
	deposits := []domain.LedgerRecord{
		ledgerRecord("A1", "X", "100"),
		ledgerRecord("B1", "Y", "25"),
	}
	channels := []usecase.ChannelTable{
		{Name: "X", Table: statementTable([2]string{"A1", "100"})},
	}

	result, err := newEngine().Reconcile(deposits, nil, channels, domain.Config{})
	require.NoError(t, err)

	assert.Contains(t, result.Channels, "X")
	assert.NotContains(t, result.Channels, "Y",
		"a ledger channel with no statement is silently excluded")
	assert.Equal(t, 1, result.Summary.TotalDeposit.Count,
		"skipped channels contribute nothing to the totals")
}

func TestReconcile_BlankChannelValuesSkipped(t *testing.T) {
	deposits := []domain.LedgerRecord{
		{OrderID: "A1", Channel: "", Status: domain.StatusSuccess, Amount: dec("10")},
	}
	channels := []usecase.ChannelTable{
		{Name: "X", Table: statementTable([2]string{"A1", "10"})},
	}

	result, err := newEngine().Reconcile(deposits, nil, channels, domain.Config{})
	require.NoError(t, err)
	assert.Empty(t, result.Channels)
}

func TestReconcile_NoLedgerInput(t *testing.T) {
	_, err := newEngine().Reconcile(nil, nil, nil, domain.Config{})

	var runErr *domain.RunError
	require.ErrorAs(t, err, &runErr)
	assert.Contains(t, runErr.Message, "no ledger data")
}

func TestReconcile_ConfiguredChannelColumns(t *testing.T) {
	cfg := domain.Config{
		Channels: map[string]domain.ChannelConfig{
			"X": {OrderIDColumn: "txn", AmountColumn: "paid"},
		},
	}
	statement := &domain.Table{
		Columns: []string{"txn", "paid"},
		Rows:    []domain.Row{{"txn": "A1", "paid": "¥100.00"}},
	}
	deposits := []domain.LedgerRecord{ledgerRecord("A1", "X", "100")}

	result, err := newEngine().Reconcile(deposits, nil, []usecase.ChannelTable{{Name: "X", Table: statement}}, cfg)
	require.NoError(t, err)
	assert.Equal(t, 1, result.Channels["X"].Deposit.Matched,
		"configured columns and currency-formatted cells are honored")
}

func TestReconcile_ResidualTaggedAsWithdraw(t *testing.T) {
	// Known coarse behavior: leftover statement orders are always tagged
	// as withdraw-type anomalies, even when only the deposit leg ran and
	// the leftover logically belonged to a deposit.
	deposits := []domain.LedgerRecord{ledgerRecord("A1", "X", "100")}
	channels := []usecase.ChannelTable{
		{Name: "X", Table: statementTable([2]string{"A1", "100"}, [2]string{"D9", "77"})},
	}

	result, err := newEngine().Reconcile(deposits, nil, channels, domain.Config{})
	require.NoError(t, err)

	require.Len(t, result.MissingInGame, 1)
	assert.Equal(t, "D9", result.MissingInGame[0].OrderID)
	assert.Equal(t, domain.LegWithdraw, result.MissingInGame[0].Leg)
	assert.Equal(t, domain.NoteOnlyInChannel, result.MissingInGame[0].Note)
}

func TestReconcile_BlankStatementOrderIdsIgnored(t *testing.T) {
	deposits := []domain.LedgerRecord{ledgerRecord("A1", "X", "100")}
	channels := []usecase.ChannelTable{
		{Name: "X", Table: statementTable([2]string{"", "55"}, [2]string{"A1", "100"})},
	}

	result, err := newEngine().Reconcile(deposits, nil, channels, domain.Config{})
	require.NoError(t, err)
	assert.Equal(t, 1, result.Channels["X"].Deposit.Matched)
	assert.Empty(t, result.MissingInGame, "blank statement order ids never enter the index")
}
