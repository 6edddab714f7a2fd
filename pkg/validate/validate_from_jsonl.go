package validate

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/Gunvolt24/wb_tickets/internal/domain"
	"github.com/Gunvolt24/wb_tickets/internal/ports"
)

// JSONLResult — статистика валидации потока JSONL.
type JSONLResult struct {
	ValidLinesCount   int
	InvalidLinesCount int
}

// ValidateJSONLStream — читает JSONL из reader’а, проверяет каждую покупку, расчёт по валидным пишет в writer.
// На каждую валидную покупку одна строка канонического JSON. Пустые строки пропускаются.
func ValidateJSONLStream(
	ctx context.Context,
	validator ports.PurchaseValidator,
	rules domain.Rules,
	ir io.Reader,
	ow io.Writer,
) (JSONLResult, error) {
	var res JSONLResult

	scanner := bufio.NewScanner(ir)
	// запас на большие строки
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 10*1024*1024)

	for scanner.Scan() {
		lineBytes := scanner.Bytes()
		if len(strings.TrimSpace(string(lineBytes))) == 0 {
			continue
		}

		if err := ctx.Err(); err != nil {
			return res, err
		}

		quote, err := ValidatePurchaseFromJSON(ctx, validator, rules, lineBytes)
		if err != nil {
			res.InvalidLinesCount++
			continue
		}

		marshal, err := json.Marshal(quote)
		if err != nil {
			return res, fmt.Errorf("marshal quote: %w", err)
		}
		if _, err := ow.Write(marshal); err != nil {
			return res, fmt.Errorf("write valid line: %w", err)
		}
		if _, err := ow.Write([]byte("\n")); err != nil {
			return res, fmt.Errorf("write newline: %w", err)
		}
		res.ValidLinesCount++
	}
	if err := scanner.Err(); err != nil {
		return res, fmt.Errorf("scan: %w", err)
	}
	return res, nil
}
