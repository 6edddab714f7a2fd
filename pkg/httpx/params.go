package httpx

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

// MaxBodyBytes — предел размера JSON-тела запроса.
const MaxBodyBytes int64 = 1 << 20

// ErrBadBody — тело запроса не разбирается в ожидаемую структуру.
var ErrBadBody = errors.New("bad request body")

// DecodeStrictJSON — читает тело запроса в dst.
// Неизвестные поля, лишние данные после объекта, пустое и слишком большое тело дают ErrBadBody.
// Числа декодируются как json.Number.
func DecodeStrictJSON(c *gin.Context, dst any) error {
	body := http.MaxBytesReader(c.Writer, c.Request.Body, MaxBodyBytes)
	dec := json.NewDecoder(body)
	dec.DisallowUnknownFields()
	dec.UseNumber()

	if err := dec.Decode(dst); err != nil {
		return errors.Join(ErrBadBody, err)
	}
	if err := dec.Decode(new(struct{})); !errors.Is(err, io.EOF) {
		return errors.Join(ErrBadBody, errors.New("trailing data"))
	}
	return nil
}
