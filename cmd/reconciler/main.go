package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"sort"
	"strings"

	"go.uber.org/zap"

	"payrecon/internal/domain"
	"payrecon/internal/gateway"
	"payrecon/internal/usecase"
)

func main() {
	// Define command-line flags
	depositFile := flag.String("deposit", "", "Path to the game deposit file (spreadsheet or delimited text)")
	withdrawFile := flag.String("withdraw", "", "Path to the game withdraw file (spreadsheet or delimited text)")
	channelsStr := flag.String("channels", "", "Comma-separated name=path pairs of channel statement files (required)")
	supplierName := flag.String("supplier", domain.DefaultSupplierName, "Game supplier name")
	configPath := flag.String("config", "", "Path to the reconciliation config document (JSON)")
	overridePath := flag.String("override", "", "Path to a field-mapping override document (JSON)")
	flag.Parse()

	if *channelsStr == "" || (*depositFile == "" && *withdrawFile == "") {
		fmt.Println("Error: -channels and at least one of -deposit/-withdraw are required.")
		flag.Usage()
		os.Exit(1)
	}

	channelPaths, err := parseChannelPairs(*channelsStr)
	if err != nil {
		log.Fatalf("Error parsing -channels: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Error creating logger: %v", err)
	}
	defer logger.Sync()

	// Validate inputs before touching any file contents.
	validation := usecase.Validate(*depositFile, *withdrawFile, channelPaths)
	if !validation.Valid {
		for _, e := range validation.Errors {
			fmt.Fprintln(os.Stderr, "Validation error:", e)
		}
		os.Exit(1)
	}

	var override *domain.ConfigOverride
	if *overridePath != "" {
		override, err = readOverride(*overridePath)
		if err != nil {
			log.Fatalf("Error reading override document: %v", err)
		}
	}

	// --- Dependency Injection (Wiring the application) ---
	// In a larger app, this might be done with a DI container.
	// Here, we do it manually, which is clear and simple.

	// 1. Load and normalize the configuration document.
	cfg := gateway.NewConfigLoader(logger).Load(*configPath)

	// 2. Create the repository (the outermost layer).
	repo := gateway.NewFileTableRepository(cfg, logger)

	// 3. Create the usecase and inject the repository (the core logic layer).
	reconciliationUseCase := usecase.NewReconciliationUseCase(repo, logger)

	// --- Execute the Usecase ---
	result, err := reconciliationUseCase.Run(context.Background(), cfg, usecase.RunRequest{
		DepositPath:  *depositFile,
		WithdrawPath: *withdrawFile,
		ChannelPaths: channelPaths,
		SupplierName: *supplierName,
		Override:     override,
	})
	if err != nil {
		payload, _ := json.Marshal(map[string]string{"error": err.Error()})
		fmt.Println(string(payload))
		os.Exit(1)
	}

	// --- Present the Output ---
	output, err := json.MarshalIndent(result, "", "  ")
	if err != nil {
		log.Fatalf("Failed to generate JSON report: %v", err)
	}

	fmt.Println(string(output))
	renderReport(os.Stderr, result, cfg.Output)
}

// renderReport writes the human-readable summary. Detail lines per channel
// are included only when the config asks for them.
func renderReport(w io.Writer, result *domain.ReconciliationResult, out domain.OutputConfig) {
	fmt.Fprintf(w, "deposit:  matched %d/%d, amount %s of %s\n",
		result.Summary.TotalDeposit.Matched, result.Summary.TotalDeposit.Count,
		out.FormatAmount(result.Summary.TotalDeposit.MatchedAmount),
		out.FormatAmount(result.Summary.TotalDeposit.Amount))
	fmt.Fprintf(w, "withdraw: matched %d/%d, amount %s of %s\n",
		result.Summary.TotalWithdraw.Matched, result.Summary.TotalWithdraw.Count,
		out.FormatAmount(result.Summary.TotalWithdraw.MatchedAmount),
		out.FormatAmount(result.Summary.TotalWithdraw.Amount))
	fmt.Fprintf(w, "mismatched: %d, missing in channel: %d, missing in game: %d\n",
		len(result.Mismatched), len(result.MissingInChannel), len(result.MissingInGame))

	if !out.ShowDetails {
		return
	}
	names := make([]string, 0, len(result.Channels))
	for name := range result.Channels {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		cr := result.Channels[name]
		fmt.Fprintf(w, "  %s: deposit %d/%d %s, withdraw %d/%d %s, only-in-channel %d\n",
			name,
			cr.Deposit.Matched, cr.Deposit.Count, out.FormatAmount(cr.Deposit.MatchedAmount),
			cr.Withdraw.Matched, cr.Withdraw.Count, out.FormatAmount(cr.Withdraw.MatchedAmount),
			len(cr.OnlyInChannel))
	}
}

// parseChannelPairs splits "name=path,name=path" into a channel path map.
func parseChannelPairs(arg string) (map[string]string, error) {
	paths := make(map[string]string)
	for _, pair := range strings.Split(arg, ",") {
		name, path, ok := strings.Cut(strings.TrimSpace(pair), "=")
		if !ok || name == "" || path == "" {
			return nil, fmt.Errorf("invalid channel pair %q, want name=path", pair)
		}
		paths[name] = path
	}
	return paths, nil
}

func readOverride(path string) (*domain.ConfigOverride, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var override domain.ConfigOverride
	if err := json.Unmarshal(raw, &override); err != nil {
		return nil, err
	}
	return &override, nil
}
