package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/Gunvolt24/wb_tickets/config"
	"github.com/Gunvolt24/wb_tickets/pkg/validate"
	"github.com/joho/godotenv"
)

// CLI-приложение для проверки покупок без оплаты и брони.
// Цены и лимит мест берутся из TICKETS_PRICING_*.
func main() {
	inputPath := flag.String("in", "", "path to input (.json or .jsonl). If empty, reads from stdin.")
	formatStr := flag.String("format", "auto", "input format: auto|json|jsonl")
	flag.Parse()

	_ = godotenv.Load(".env.local")

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}
	rules, err := cfg.Rules()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(2)
	}

	ctx := context.Background()
	purchaseValidator := validate.NewPurchaseValidator(rules)

	format := validate.InputFormat(*formatStr)
	path := *inputPath

	// stdin вариант: считаем, что jsonl
	if path == "" {
		path = "/dev/stdin"
		if format == validate.FormatAuto {
			format = validate.FormatJSONL
		}
	}

	summary, err := validate.ValidateFile(ctx, purchaseValidator, rules, path, format, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "validation: %v (%s)\n", err, summary)
		os.Exit(1)
	}
	fmt.Fprintf(os.Stderr, "validation ok (%s)\n", summary)
}
