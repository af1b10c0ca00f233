package domain

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestCleanAmount(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{name: "plain number", raw: "100.50", want: "100.5"},
		{name: "integer", raw: "42", want: "42"},
		{name: "thousands separators", raw: "1,234,567.89", want: "1234567.89"},
		{name: "yuan symbol", raw: "¥100.50", want: "100.5"},
		{name: "dollar symbol", raw: "$25", want: "25"},
		{name: "currency code", raw: "CNY 300.00", want: "300"},
		{name: "negative", raw: "-3.20", want: "-3.2"},
		{name: "surrounding whitespace", raw: "  42.0  ", want: "42"},
		{name: "empty", raw: "", want: "0"},
		{name: "whitespace only", raw: "   ", want: "0"},
		{name: "garbage", raw: "not-a-number", want: "0"},
		{name: "symbol only", raw: "¥", want: "0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CleanAmount(tt.raw)
			assert.True(t, got.Equal(decimal.RequireFromString(tt.want)),
				"CleanAmount(%q) = %s, want %s", tt.raw, got, tt.want)
		})
	}
}

func TestNormalizeString(t *testing.T) {
	assert.Equal(t, "abc", NormalizeString("  abc  "))
	assert.Equal(t, "", NormalizeString("   "))
	assert.Equal(t, "支付宝", NormalizeString("\t支付宝\n"))
}

func TestOutputConfigFormatAmount(t *testing.T) {
	oc := OutputConfig{AmountFormat: "¥{:.2f}"}
	assert.Equal(t, "¥100.00", oc.FormatAmount(decimal.NewFromInt(100)))
	assert.Equal(t, "¥0.50", oc.FormatAmount(decimal.RequireFromString("0.5")))

	plain := OutputConfig{AmountFormat: "no placeholder"}
	assert.Equal(t, "7.00", plain.FormatAmount(decimal.NewFromInt(7)))
}

func TestLedgerRecordsFromTable(t *testing.T) {
	supplier := DefaultSupplierConfig("RED")
	table := &Table{
		Columns: []string{"订单编号", "支付渠道", "状态", "实际金额"},
		Rows: []Row{
			{"订单编号": "A1", "支付渠道": "alipay", "状态": "成功", "实际金额": "¥100.00"},
			{"订单编号": "A2", "支付渠道": "alipay", "状态": "失败", "实际金额": "50"},
			{"订单编号": " A3 ", "支付渠道": " wechat ", "状态": " 成功 ", "实际金额": "bad"},
		},
	}

	records := LedgerRecordsFromTable(table, supplier)
	assert.Len(t, records, 2, "non-successful rows are filtered at load")
	assert.Equal(t, "A1", records[0].OrderID)
	assert.True(t, records[0].Amount.Equal(decimal.NewFromInt(100)))
	assert.Equal(t, "A3", records[1].OrderID, "cells are trimmed")
	assert.Equal(t, "wechat", records[1].Channel)
	assert.True(t, records[1].Amount.IsZero(), "unparseable amount degrades to zero")
}

func TestLedgerRecordsFromTable_NoStatusColumn(t *testing.T) {
	supplier := DefaultSupplierConfig("RED")
	table := &Table{
		Columns: []string{"订单编号", "支付渠道", "实际金额"},
		Rows: []Row{
			{"订单编号": "A1", "支付渠道": "alipay", "实际金额": "10"},
			{"订单编号": "A2", "支付渠道": "alipay", "实际金额": "20"},
		},
	}

	records := LedgerRecordsFromTable(table, supplier)
	assert.Len(t, records, 2, "without a status column every row is kept")
}

func TestChannelRecordsFromTable(t *testing.T) {
	table := &Table{
		Columns: []string{"商户订单号", "金额"},
		Rows: []Row{
			{"商户订单号": "C1", "金额": "1,000.00"},
			{"商户订单号": "", "金额": "5"},
		},
	}

	records := ChannelRecordsFromTable(table, DefaultChannelConfig())
	assert.Len(t, records, 2, "blank order ids are kept in the record list")
	assert.True(t, records[0].Amount.Equal(decimal.NewFromInt(1000)))
	assert.Equal(t, "", records[1].OrderID)
}
