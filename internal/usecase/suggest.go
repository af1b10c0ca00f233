package usecase

import (
	"context"

	"go.uber.org/zap"

	"payrecon/internal/domain"
)

const (
	summaryColumnLimit = 10
	summarySampleLimit = 3
)

// GatherColumnSummaries builds the structured description of observed
// file headers handed to the mapping suggester: per readable file, up to
// ten column names and three sample rows. Files that cannot be read
// contribute an error note instead of failing the gather.
func (uc *ReconciliationUseCase) GatherColumnSummaries(
	ctx context.Context,
	depositPath, withdrawPath string,
	channelPaths map[string]string,
) []domain.ColumnSummary {
	summaries := make([]domain.ColumnSummary, 0, 2+len(channelPaths))
	if depositPath != "" {
		summaries = append(summaries, uc.summarize(ctx, "deposit", depositPath))
	}
	if withdrawPath != "" {
		summaries = append(summaries, uc.summarize(ctx, "withdraw", withdrawPath))
	}
	for _, name := range sortedKeys(channelPaths) {
		summaries = append(summaries, uc.summarize(ctx, "channel-"+name, channelPaths[name]))
	}
	return summaries
}

func (uc *ReconciliationUseCase) summarize(ctx context.Context, label, path string) domain.ColumnSummary {
	summary := domain.ColumnSummary{Label: label, Path: path}
	table, err := uc.repo.Load(ctx, path)
	if err != nil {
		summary.Error = err.Error()
		return summary
	}
	columns := table.Columns
	if len(columns) > summaryColumnLimit {
		columns = columns[:summaryColumnLimit]
	}
	summary.Columns = columns
	for i := 0; i < len(table.Rows) && i < summarySampleLimit; i++ {
		summary.Sample = append(summary.Sample, table.Rows[i])
	}
	return summary
}

// SuggestOverride asks the external suggester for a field-mapping patch
// over the observed headers and sanitizes the answer. A nil suggester, a
// failed suggestion, or an empty patch all yield nil: adaptation is an
// optional assist, never a requirement.
func (uc *ReconciliationUseCase) SuggestOverride(
	ctx context.Context,
	suggester MappingSuggester,
	depositPath, withdrawPath string,
	channelPaths map[string]string,
) *domain.ConfigOverride {
	if suggester == nil {
		return nil
	}
	summaries := uc.GatherColumnSummaries(ctx, depositPath, withdrawPath, channelPaths)
	if len(summaries) == 0 {
		return nil
	}
	override, err := suggester.SuggestMapping(ctx, summaries)
	if err != nil {
		uc.log.Warn("mapping suggestion failed, proceeding without adaptation", zap.Error(err))
		return nil
	}
	if override == nil {
		return nil
	}
	clean, dropped := override.Sanitize()
	for _, key := range dropped {
		uc.log.Warn("ignoring unknown suggested override key", zap.String("key", key))
	}
	if clean.Empty() {
		return nil
	}
	return &clean
}
