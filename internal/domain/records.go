package domain

import "github.com/shopspring/decimal"

// LedgerRecord is one settled row of the operator's internal ledger.
type LedgerRecord struct {
	OrderID string          `json:"order_id"`
	Channel string          `json:"channel"`
	Status  string          `json:"status"`
	Amount  decimal.Decimal `json:"amount"`
}

// ChannelRecord is one row of a payment channel's settlement statement.
type ChannelRecord struct {
	OrderID string          `json:"order_id"`
	Amount  decimal.Decimal `json:"amount"`
}

// LedgerRecordsFromTable extracts typed ledger records using the
// supplier's column layout. Rows are filtered to successful status when
// the status column is present; without it every row is kept. The result
// is never nil, so an empty ledger table still counts as a provided leg.
func LedgerRecordsFromTable(t *Table, supplier SupplierConfig) []LedgerRecord {
	records := make([]LedgerRecord, 0, len(t.Rows))
	filterStatus := t.HasColumn(supplier.StatusColumn)
	for _, row := range t.Rows {
		status := NormalizeString(row[supplier.StatusColumn])
		if filterStatus && status != StatusSuccess {
			continue
		}
		records = append(records, LedgerRecord{
			OrderID: NormalizeString(row[supplier.OrderIDColumn]),
			Channel: NormalizeString(row[supplier.ChannelColumn]),
			Status:  status,
			Amount:  CleanAmount(row[supplier.AmountColumn]),
		})
	}
	return records
}

// ChannelRecordsFromTable extracts typed statement records using the
// channel's column layout. Blank order ids are kept here; the order index
// skips them.
func ChannelRecordsFromTable(t *Table, channel ChannelConfig) []ChannelRecord {
	records := make([]ChannelRecord, 0, len(t.Rows))
	for _, row := range t.Rows {
		records = append(records, ChannelRecord{
			OrderID: NormalizeString(row[channel.OrderIDColumn]),
			Amount:  CleanAmount(row[channel.AmountColumn]),
		})
	}
	return records
}
