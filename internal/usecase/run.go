package usecase

import (
	"context"
	"fmt"
	"os"

	"go.uber.org/zap"

	"payrecon/internal/domain"
)

// RunRequest describes one reconciliation run. DepositPath and
// WithdrawPath may be empty individually, never both. ChannelPaths maps
// the uploaded channel name to its statement file.
type RunRequest struct {
	DepositPath  string
	WithdrawPath string
	ChannelPaths map[string]string
	SupplierName string
	Override     *domain.ConfigOverride
}

// Run loads every input file, filters ledger rows to successful status,
// and reconciles. Failures are returned as *domain.RunError so callers
// always get an inspectable value: file not found, unreadable file, or
// no ledger input at all.
func (uc *ReconciliationUseCase) Run(ctx context.Context, cfg domain.Config, req RunRequest) (*domain.ReconciliationResult, error) {
	if req.DepositPath == "" && req.WithdrawPath == "" {
		return nil, &domain.RunError{Message: "no ledger input provided: need a deposit or withdraw file"}
	}
	if req.Override != nil {
		clean, dropped := req.Override.Sanitize()
		for _, key := range dropped {
			uc.log.Warn("ignoring unknown override key", zap.String("key", key))
		}
		cfg = cfg.WithOverride(clean)
	}

	supplierName := req.SupplierName
	if supplierName == "" {
		supplierName = domain.DefaultSupplierName
	}
	supplier := cfg.SupplierOrDefault(supplierName)

	var deposits, withdraws []domain.LedgerRecord
	if req.DepositPath != "" {
		records, err := uc.loadLedger(ctx, req.DepositPath, supplier)
		if err != nil {
			return nil, &domain.RunError{Message: fmt.Sprintf("failed to load deposit file %s", req.DepositPath), Err: err}
		}
		deposits = records
	}
	if req.WithdrawPath != "" {
		records, err := uc.loadLedger(ctx, req.WithdrawPath, supplier)
		if err != nil {
			return nil, &domain.RunError{Message: fmt.Sprintf("failed to load withdraw file %s", req.WithdrawPath), Err: err}
		}
		withdraws = records
	}

	channels := make([]ChannelTable, 0, len(req.ChannelPaths))
	for _, name := range sortedKeys(req.ChannelPaths) {
		path := req.ChannelPaths[name]
		table, err := uc.repo.Load(ctx, path)
		if err != nil {
			return nil, &domain.RunError{Message: fmt.Sprintf("failed to load channel file %s (%s)", path, name), Err: err}
		}
		channels = append(channels, ChannelTable{Name: name, Table: table})
	}

	return uc.Reconcile(deposits, withdraws, channels, cfg)
}

func (uc *ReconciliationUseCase) loadLedger(ctx context.Context, path string, supplier domain.SupplierConfig) ([]domain.LedgerRecord, error) {
	table, err := uc.repo.Load(ctx, path)
	if err != nil {
		return nil, err
	}
	return domain.LedgerRecordsFromTable(table, supplier), nil
}

// ValidationResult reports every input problem at once so a caller can
// surface them together.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

// Validate checks file existence and the "at least one ledger input" /
// "at least one channel input" invariants without parsing any content.
func Validate(depositPath, withdrawPath string, channelPaths map[string]string) ValidationResult {
	errs := make([]string, 0)

	if depositPath != "" && !fileExists(depositPath) {
		errs = append(errs, fmt.Sprintf("deposit file not found: %s", depositPath))
	}
	if withdrawPath != "" && !fileExists(withdrawPath) {
		errs = append(errs, fmt.Sprintf("withdraw file not found: %s", withdrawPath))
	}
	for _, name := range sortedKeys(channelPaths) {
		if path := channelPaths[name]; !fileExists(path) {
			errs = append(errs, fmt.Sprintf("channel file not found: %s (%s)", path, name))
		}
	}
	if depositPath == "" && withdrawPath == "" {
		errs = append(errs, "at least one deposit or withdraw file is required")
	}
	if len(channelPaths) == 0 {
		errs = append(errs, "at least one channel file is required")
	}

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
