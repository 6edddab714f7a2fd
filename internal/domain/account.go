package domain

import (
	"encoding/json"
	"math"
	"strconv"
	"strings"
)

// AccountID — идентификатор покупателя; валиден только > 0.
type AccountID int64

// Valid — положительное целое.
func (id AccountID) Valid() bool { return id > 0 }

func (id AccountID) String() string { return strconv.FormatInt(int64(id), 10) }

// ParseAccountID — приводит значение транспорта (строка пути, JSON-число) к AccountID.
// Всё, что не является целым числом, даёт 0: правило проверки аккаунта отклонит его
// с тем же сообщением, что и отрицательный id.
func ParseAccountID(v any) AccountID {
	switch id := v.(type) {
	case AccountID:
		return id
	case int:
		return AccountID(id)
	case int64:
		return AccountID(id)
	case float64:
		if math.IsNaN(id) || math.IsInf(id, 0) || id != math.Trunc(id) ||
			id >= math.MaxInt64 || id < math.MinInt64 {
			return 0
		}
		return AccountID(id)
	case json.Number:
		if n, err := id.Int64(); err == nil {
			return AccountID(n)
		}
		if f, err := id.Float64(); err == nil {
			return ParseAccountID(f)
		}
		return 0
	case string:
		n, err := strconv.ParseInt(strings.TrimSpace(id), 10, 64)
		if err != nil {
			return 0
		}
		return AccountID(n)
	default:
		return 0
	}
}
