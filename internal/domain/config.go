package domain

import "strings"

// Default column names for ledger and channel statement files. These are
// the header names the upstream operators actually export, so they are
// Chinese.
const (
	DefaultOrderIDColumn = "订单编号"
	DefaultChannelColumn = "支付渠道"
	DefaultStatusColumn  = "状态"
	DefaultAmountColumn  = "实际金额"

	DefaultChannelOrderIDColumn = "商户订单号"
	DefaultChannelAmountColumn  = "金额"

	// StatusSuccess marks a ledger row as settled. Only settled rows take
	// part in reconciliation.
	StatusSuccess = "成功"

	DefaultSupplierName = "RED"
)

// SupplierConfig describes how to parse a ledger file exported by one
// upstream game operator.
type SupplierConfig struct {
	Name          string `json:"name"`
	OrderIDColumn string `json:"order_id_column"`
	ChannelColumn string `json:"channel_column"`
	StatusColumn  string `json:"status_column"`
	AmountColumn  string `json:"amount_column"`
	CurrencyUnit  string `json:"currency_unit"`
}

// DefaultSupplierConfig returns a supplier with the stock column layout.
// Used both as the built-in RED supplier and as the degraded fallback when
// an unknown supplier name is requested.
func DefaultSupplierConfig(name string) SupplierConfig {
	return SupplierConfig{
		Name:          name,
		OrderIDColumn: DefaultOrderIDColumn,
		ChannelColumn: DefaultChannelColumn,
		StatusColumn:  DefaultStatusColumn,
		AmountColumn:  DefaultAmountColumn,
		CurrencyUnit:  "个位",
	}
}

// ChannelConfig describes how to parse one payment channel's settlement
// statement.
type ChannelConfig struct {
	OrderIDColumn string   `json:"order_id_column"`
	AmountColumn  string   `json:"amount_column"`
	StatusColumn  string   `json:"status_column,omitempty"`
	SuccessValues []string `json:"success_values,omitempty"`
}

// DefaultChannelConfig is the zero-configuration channel layout.
func DefaultChannelConfig() ChannelConfig {
	return ChannelConfig{
		OrderIDColumn: DefaultChannelOrderIDColumn,
		AmountColumn:  DefaultChannelAmountColumn,
		SuccessValues: []string{"成功", "success", "1", "completed"},
	}
}

// EncodingConfig holds the byte-encoding preferences used by delimited
// text ingestion.
type EncodingConfig struct {
	Default  string   `json:"default"`
	TryOrder []string `json:"try_order"`
	Fallback bool     `json:"fallback"`
}

// DelimiterConfig holds the ordered delimiter candidates for sniffing.
type DelimiterConfig struct {
	TryOrder []string `json:"try_order"`
}

// OutputConfig holds result formatting preferences.
type OutputConfig struct {
	AmountFormat string `json:"amount_format"`
	ShowDetails  bool   `json:"show_details"`
}

// Config is the canonical, fully-resolved configuration. Every field is
// populated after normalization; consumers never see a partial config.
type Config struct {
	Suppliers []SupplierConfig         `json:"suppliers"`
	Channels  map[string]ChannelConfig `json:"channels"`
	Encoding  EncodingConfig           `json:"encoding"`
	Delimiter DelimiterConfig          `json:"delimiter"`
	Output    OutputConfig             `json:"output"`
}

// Supplier looks up a supplier by exact name.
func (c Config) Supplier(name string) (SupplierConfig, bool) {
	for _, s := range c.Suppliers {
		if s.Name == name {
			return s, true
		}
	}
	return SupplierConfig{}, false
}

// SupplierOrDefault looks up a supplier by name, degrading to the stock
// column layout when the name is unknown.
func (c Config) SupplierOrDefault(name string) SupplierConfig {
	if s, ok := c.Supplier(name); ok {
		return s
	}
	return DefaultSupplierConfig(name)
}

// Channel resolves a channel configuration by name, case-insensitively,
// falling back to the default layout for unconfigured channels.
func (c Config) Channel(name string) ChannelConfig {
	if cc, ok := c.Channels[name]; ok {
		return cc
	}
	for key, cc := range c.Channels {
		if strings.EqualFold(key, name) {
			return cc
		}
	}
	return DefaultChannelConfig()
}

// Clone returns a deep copy. Config is copy-on-override: a shared instance
// is never mutated in place.
func (c Config) Clone() Config {
	out := c
	out.Suppliers = make([]SupplierConfig, len(c.Suppliers))
	copy(out.Suppliers, c.Suppliers)
	out.Channels = make(map[string]ChannelConfig, len(c.Channels))
	for name, cc := range c.Channels {
		cc.SuccessValues = append([]string(nil), cc.SuccessValues...)
		out.Channels[name] = cc
	}
	out.Encoding.TryOrder = append([]string(nil), c.Encoding.TryOrder...)
	out.Delimiter.TryOrder = append([]string(nil), c.Delimiter.TryOrder...)
	return out
}
