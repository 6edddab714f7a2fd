package validate

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Gunvolt24/wb_tickets/internal/domain"
)

func TestValidateFile_JSON_Auto_OK(t *testing.T) {
	ctx := context.Background()
	rules := domain.DefaultRules()
	validator := NewPurchaseValidator(rules)

	dir := t.TempDir()
	path := filepath.Join(dir, "one.json")
	if err := os.WriteFile(path, []byte(purchaseJSON(1, `{"ADULT":1}`)), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	var out bytes.Buffer
	summary, err := ValidateFile(ctx, validator, rules, path, FormatAuto, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary != "1 valid / 0 invalid" {
		t.Fatalf("unexpected summary: %s", summary)
	}
	if strings.TrimSpace(out.String()) == "" {
		t.Fatalf("expected non-empty output")
	}
}

func TestValidateFile_JSONL_Auto_Mixed(t *testing.T) {
	ctx := context.Background()
	rules := domain.DefaultRules()
	validator := NewPurchaseValidator(rules)

	dir := t.TempDir()
	path := filepath.Join(dir, "list.jsonl")
	content := oneLineJSON(purchaseJSON(1, `{"ADULT":2}`)) + "\n" +
		oneLineJSON(purchaseJSON(2, `{"INFANT":2,"ADULT":1}`)) + "\n" + // младенцев больше, чем взрослых
		oneLineJSON(purchaseJSON(3, `{"ADULT":1},{"CHILD":3}`)) + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	var out bytes.Buffer
	summary, err := ValidateFile(ctx, validator, rules, path, FormatAuto, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary != "2 valid / 1 invalid" {
		t.Fatalf("unexpected summary: %s", summary)
	}
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("expected 2 output lines, got %d", len(lines))
	}
}

func TestValidateFile_JSON_Invalid(t *testing.T) {
	ctx := context.Background()
	rules := domain.DefaultRules()
	validator := NewPurchaseValidator(rules)

	dir := t.TempDir()
	path := filepath.Join(dir, "bad.json")
	// неизвестное поле
	raw := `{"unknown":1,"account_id":1,"ticket_requests":[{"ADULT":1}]}`
	if err := os.WriteFile(path, []byte(raw), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	var out bytes.Buffer
	summary, err := ValidateFile(ctx, validator, rules, path, FormatJSON, &out)
	if err == nil {
		t.Fatalf("expected error for invalid json")
	}
	if summary != "0 valid / 1 invalid" {
		t.Fatalf("unexpected summary: %s", summary)
	}
	if out.String() != "" {
		t.Fatalf("output must be empty for invalid single JSON")
	}
}

func TestValidateFile_ExplicitFormat_IgnoresExt(t *testing.T) {
	ctx := context.Background()
	rules := domain.DefaultRules()
	validator := NewPurchaseValidator(rules)

	dir := t.TempDir()
	path := filepath.Join(dir, "data.txt")
	content := oneLineJSON(purchaseJSON(1, `{"ADULT":2}`)) + "\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write file: %v", err)
	}

	var out bytes.Buffer
	summary, err := ValidateFile(ctx, validator, rules, path, FormatJSONL, &out)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if summary != "1 valid / 0 invalid" {
		t.Fatalf("unexpected summary: %s", summary)
	}
}

func TestValidateFile_OpenError(t *testing.T) {
	ctx := context.Background()
	rules := domain.DefaultRules()
	validator := NewPurchaseValidator(rules)

	var out bytes.Buffer
	_, err := ValidateFile(ctx, validator, rules, "no-such-file.json", FormatAuto, &out)
	if err == nil {
		t.Fatalf("expected open error")
	}
}

func TestValidateFile_UnsupportedFormat(t *testing.T) {
	ctx := context.Background()
	rules := domain.DefaultRules()
	validator := NewPurchaseValidator(rules)

	dir := t.TempDir()
	path := filepath.Join(dir, "one.json")
	_ = os.WriteFile(path, []byte(purchaseJSON(1, `{"ADULT":1}`)), 0o600)

	var out bytes.Buffer
	_, err := ValidateFile(ctx, validator, rules, path, InputFormat("yaml"), &out)
	if err == nil || !strings.Contains(err.Error(), "unsupported format") {
		t.Fatalf("expected unsupported format error, got: %v", err)
	}
}

// ---- функции для тестирования ----

func oneLineJSON(s string) string {
	var b bytes.Buffer
	_ = json.Compact(&b, []byte(s))
	return b.String()
}
