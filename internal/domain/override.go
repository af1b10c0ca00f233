package domain

import "strings"

// FieldMapping is a partial set of column renames: supplier column
// renames applied to every supplier, plus per-channel column maps.
type FieldMapping struct {
	Deposit  map[string]string            `json:"deposit,omitempty"`
	Channels map[string]map[string]string `json:"channels,omitempty"`
}

// ConfigOverride is an externally proposed field-mapping patch, typically
// produced by the format-adaptation suggestion service when ingestion
// observes drifted column headers. It may be absent, empty, or partially
// specified.
type ConfigOverride struct {
	FieldMapping *FieldMapping `json:"field_mapping,omitempty"`
}

// Supplier override keys correspond to SupplierConfig fields.
var supplierOverrideKeys = map[string]bool{
	"order_id_column": true,
	"channel_column":  true,
	"status_column":   true,
	"amount_column":   true,
	"currency_unit":   true,
}

// Channel override keys: canonical ChannelConfig field keys plus the
// legacy logical field-map keys used by the bilingual config schema.
var channelOverrideKeys = map[string]bool{
	"order_id_column": true,
	"amount_column":   true,
	"status_column":   true,
	"平台订单号":           true,
	"商户订单号":           true,
	"金额":              true,
	"状态":              true,
}

// Empty reports whether the override carries no renames at all.
func (o ConfigOverride) Empty() bool {
	return o.FieldMapping == nil ||
		(len(o.FieldMapping.Deposit) == 0 && len(o.FieldMapping.Channels) == 0)
}

// Sanitize validates the override against the accepted key schema and
// returns a cleaned copy plus the keys that were dropped. Suggestions are
// never trusted beyond this schema check.
func (o ConfigOverride) Sanitize() (ConfigOverride, []string) {
	var dropped []string
	if o.FieldMapping == nil {
		return ConfigOverride{}, nil
	}
	clean := FieldMapping{}
	for key, value := range o.FieldMapping.Deposit {
		if !supplierOverrideKeys[key] || strings.TrimSpace(value) == "" {
			dropped = append(dropped, "deposit."+key)
			continue
		}
		if clean.Deposit == nil {
			clean.Deposit = make(map[string]string)
		}
		clean.Deposit[key] = strings.TrimSpace(value)
	}
	for channel, mapping := range o.FieldMapping.Channels {
		for key, value := range mapping {
			if !channelOverrideKeys[key] || strings.TrimSpace(value) == "" {
				dropped = append(dropped, "channels."+channel+"."+key)
				continue
			}
			if clean.Channels == nil {
				clean.Channels = make(map[string]map[string]string)
			}
			if clean.Channels[channel] == nil {
				clean.Channels[channel] = make(map[string]string)
			}
			clean.Channels[channel][key] = strings.TrimSpace(value)
		}
	}
	return ConfigOverride{FieldMapping: &clean}, dropped
}

// WithOverride merges a field-mapping override onto a deep copy of the
// config. Supplier renames apply to every supplier; each overridden
// channel's column map is shallow-replaced (not merged) while its
// success values are kept.
func (c Config) WithOverride(o ConfigOverride) Config {
	out := c.Clone()
	if o.FieldMapping == nil {
		return out
	}
	for i := range out.Suppliers {
		applySupplierRenames(&out.Suppliers[i], o.FieldMapping.Deposit)
	}
	for name, mapping := range o.FieldMapping.Channels {
		key, existing := out.channelEntry(name)
		cc := channelConfigFromMapping(mapping)
		cc.SuccessValues = existing.SuccessValues
		if cc.SuccessValues == nil {
			cc.SuccessValues = DefaultChannelConfig().SuccessValues
		}
		out.Channels[key] = cc
	}
	return out
}

// channelEntry finds the stored key and config for a channel name,
// case-insensitively, defaulting to the given name for new entries.
func (c Config) channelEntry(name string) (string, ChannelConfig) {
	if cc, ok := c.Channels[name]; ok {
		return name, cc
	}
	for key, cc := range c.Channels {
		if strings.EqualFold(key, name) {
			return key, cc
		}
	}
	return name, ChannelConfig{}
}

func applySupplierRenames(s *SupplierConfig, renames map[string]string) {
	for key, value := range renames {
		switch key {
		case "order_id_column":
			s.OrderIDColumn = value
		case "channel_column":
			s.ChannelColumn = value
		case "status_column":
			s.StatusColumn = value
		case "amount_column":
			s.AmountColumn = value
		case "currency_unit":
			s.CurrencyUnit = value
		}
	}
}

// channelConfigFromMapping rebuilds a channel's column layout from an
// override map. Canonical keys win over the legacy logical keys; absent
// keys resolve to the stock statement columns.
func channelConfigFromMapping(mapping map[string]string) ChannelConfig {
	cc := ChannelConfig{
		OrderIDColumn: firstNonEmpty(
			mapping["order_id_column"], mapping["平台订单号"], mapping["商户订单号"],
			DefaultChannelOrderIDColumn),
		AmountColumn: firstNonEmpty(
			mapping["amount_column"], mapping["金额"], DefaultChannelAmountColumn),
		StatusColumn: firstNonEmpty(mapping["status_column"], mapping["状态"], ""),
	}
	return cc
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
