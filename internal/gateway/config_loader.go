package gateway

import (
	"encoding/json"
	"os"

	"go.uber.org/zap"

	"payrecon/internal/domain"
)

// ConfigLoader reads the JSON configuration document and normalizes it
// into the canonical domain.Config. Loading is total: a missing or
// malformed document degrades to defaults and is reported through the
// diagnostic log, never as an error.
type ConfigLoader struct {
	log *zap.Logger
}

// NewConfigLoader creates a loader. A nil logger disables diagnostics.
func NewConfigLoader(log *zap.Logger) *ConfigLoader {
	if log == nil {
		log = zap.NewNop()
	}
	return &ConfigLoader{log: log}
}

// Load reads and normalizes the document at path. An empty path loads the
// built-in defaults.
func (l *ConfigLoader) Load(path string) domain.Config {
	return l.Normalize(l.LoadDocument(path))
}

// LoadDocument reads the raw configuration document. Unreadable or
// malformed documents resolve to the default document.
func (l *ConfigLoader) LoadDocument(path string) map[string]any {
	if path == "" {
		return DefaultDocument()
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		l.log.Warn("config document unreadable, using defaults",
			zap.String("path", path), zap.Error(err))
		return DefaultDocument()
	}
	var doc map[string]any
	if err := json.Unmarshal(raw, &doc); err != nil {
		l.log.Warn("config document malformed, using defaults",
			zap.String("path", path), zap.Error(err))
		return DefaultDocument()
	}
	return doc
}

// DefaultDocument is the built-in configuration in canonical key form.
func DefaultDocument() map[string]any {
	return map[string]any{
		"game_suppliers": map[string]any{
			"suppliers": []any{
				map[string]any{
					"name":            domain.DefaultSupplierName,
					"order_id_column": domain.DefaultOrderIDColumn,
					"channel_column":  domain.DefaultChannelColumn,
					"status_column":   domain.DefaultStatusColumn,
					"amount_column":   domain.DefaultAmountColumn,
					"currency_unit":   "个位",
				},
			},
		},
		"channel_configs": map[string]any{},
		"encoding": map[string]any{
			"default":   "utf-8",
			"try_order": []any{"utf-8-sig", "utf-8", "gbk", "gb2312", "gb18030", "latin1"},
			"fallback":  true,
		},
		"delimiter": map[string]any{
			"try_order": []any{",", "\t", ";", "|"},
		},
		"output": map[string]any{
			"amount_format": "¥{:.2f}",
			"show_details":  true,
		},
	}
}

// Normalize maps a loosely-typed configuration document onto the
// canonical Config. Each top-level section is accepted under a canonical
// key or its legacy verbose key; canonical wins when both are present.
// Missing sections and fields resolve to documented defaults, so the
// function is total and idempotent.
func (l *ConfigLoader) Normalize(doc map[string]any) domain.Config {
	cfg := domain.Config{
		Suppliers: l.normalizeSuppliers(doc),
		Channels:  l.normalizeChannels(doc),
		Encoding:  l.normalizeEncoding(doc),
		Delimiter: l.normalizeDelimiter(doc),
		Output:    l.normalizeOutput(doc),
	}
	return cfg
}

func (l *ConfigLoader) normalizeSuppliers(doc map[string]any) []domain.SupplierConfig {
	section, ok := sectionMap(doc, "game_suppliers", "游戏供应商配置")
	if !ok {
		l.defaultApplied("game_suppliers", "empty supplier list")
		return []domain.SupplierConfig{}
	}
	rawList, ok := anyList(section, "suppliers", "供应商列表")
	if !ok {
		l.defaultApplied("game_suppliers.suppliers", "empty supplier list")
		return []domain.SupplierConfig{}
	}
	suppliers := make([]domain.SupplierConfig, 0, len(rawList))
	for _, raw := range rawList {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		name := stringValue(entry, "", "name")
		s := domain.DefaultSupplierConfig(name)
		assignString(&s.OrderIDColumn, entry, "order_id_column")
		assignString(&s.ChannelColumn, entry, "channel_column")
		assignString(&s.StatusColumn, entry, "status_column")
		assignString(&s.AmountColumn, entry, "amount_column")
		assignString(&s.CurrencyUnit, entry, "currency_unit")
		suppliers = append(suppliers, s)
	}
	return suppliers
}

func (l *ConfigLoader) normalizeChannels(doc map[string]any) map[string]domain.ChannelConfig {
	channels := make(map[string]domain.ChannelConfig)
	section, ok := sectionMap(doc, "channel_configs", "渠道配置")
	if !ok {
		l.defaultApplied("channel_configs", "empty channel map")
		return channels
	}
	for name, raw := range section {
		entry, ok := raw.(map[string]any)
		if !ok {
			continue
		}
		channels[name] = l.normalizeChannel(name, entry)
	}
	return channels
}

func (l *ConfigLoader) normalizeChannel(name string, entry map[string]any) domain.ChannelConfig {
	cc := domain.DefaultChannelConfig()
	tableCfg, ok := sectionMap(entry, "channel_table_config", "渠道表配置")
	if !ok {
		l.defaultApplied("channel_configs."+name, "stock statement columns")
		return cc
	}
	if fieldMap, ok := sectionMap(tableCfg, "field_map", "字段映射"); ok {
		// 平台订单号 is preferred over 商户订单号 when both are mapped.
		cc.OrderIDColumn = stringValue(fieldMap, cc.OrderIDColumn,
			"order_id_column", "平台订单号", "商户订单号")
		cc.AmountColumn = stringValue(fieldMap, cc.AmountColumn,
			"amount_column", "金额")
		cc.StatusColumn = stringValue(fieldMap, "", "status_column", "状态")
	}
	if values, ok := anyList(tableCfg, "success_values", "成功状态值"); ok {
		cc.SuccessValues = stringSlice(values)
	}
	return cc
}

func (l *ConfigLoader) normalizeEncoding(doc map[string]any) domain.EncodingConfig {
	ec := domain.EncodingConfig{Default: "utf-8", TryOrder: []string{"utf-8"}, Fallback: true}
	section, ok := sectionMap(doc, "encoding", "编码配置")
	if !ok {
		l.defaultApplied("encoding", `single candidate ["utf-8"]`)
		return ec
	}
	ec.Default = stringValue(section, ec.Default, "default", "默认编码")
	if values, ok := anyList(section, "try_order", "尝试编码顺序"); ok {
		ec.TryOrder = stringSlice(values)
	} else {
		l.defaultApplied("encoding.try_order", `["utf-8"]`)
	}
	if b, ok := boolValue(section, "fallback", "容错模式"); ok {
		ec.Fallback = b
	}
	return ec
}

func (l *ConfigLoader) normalizeDelimiter(doc map[string]any) domain.DelimiterConfig {
	dc := domain.DelimiterConfig{TryOrder: []string{",", "\t", ";", "|"}}
	section, ok := sectionMap(doc, "delimiter", "分隔符配置")
	if !ok {
		l.defaultApplied("delimiter", `[",","\t",";","|"]`)
		return dc
	}
	if values, ok := anyList(section, "try_order", "尝试顺序"); ok {
		dc.TryOrder = stringSlice(values)
	} else {
		l.defaultApplied("delimiter.try_order", `[",","\t",";","|"]`)
	}
	return dc
}

func (l *ConfigLoader) normalizeOutput(doc map[string]any) domain.OutputConfig {
	oc := domain.OutputConfig{AmountFormat: "¥{:.2f}", ShowDetails: true}
	section, ok := sectionMap(doc, "output", "输出配置")
	if !ok {
		l.defaultApplied("output", "¥{:.2f}, details shown")
		return oc
	}
	oc.AmountFormat = stringValue(section, oc.AmountFormat, "amount_format", "金额格式")
	if b, ok := boolValue(section, "show_details", "显示详情"); ok {
		oc.ShowDetails = b
	}
	return oc
}

func (l *ConfigLoader) defaultApplied(section, value string) {
	l.log.Debug("config default applied",
		zap.String("section", section), zap.String("default", value))
}

// sectionMap returns the first map present under the given keys.
func sectionMap(doc map[string]any, keys ...string) (map[string]any, bool) {
	for _, key := range keys {
		if m, ok := doc[key].(map[string]any); ok {
			return m, true
		}
	}
	return nil, false
}

// anyList returns the first list present under the given keys.
func anyList(doc map[string]any, keys ...string) ([]any, bool) {
	for _, key := range keys {
		if v, ok := doc[key].([]any); ok {
			return v, true
		}
	}
	return nil, false
}

// stringValue returns the first non-empty string under the given keys,
// or fallback.
func stringValue(doc map[string]any, fallback string, keys ...string) string {
	for _, key := range keys {
		if s, ok := doc[key].(string); ok && s != "" {
			return s
		}
	}
	return fallback
}

func boolValue(doc map[string]any, keys ...string) (bool, bool) {
	for _, key := range keys {
		if b, ok := doc[key].(bool); ok {
			return b, true
		}
	}
	return false, false
}

func assignString(dst *string, doc map[string]any, key string) {
	if s, ok := doc[key].(string); ok && s != "" {
		*dst = s
	}
}

func stringSlice(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if s, ok := v.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
