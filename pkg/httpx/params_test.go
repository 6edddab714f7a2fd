package httpx_test

import (
	"encoding/json"
	"errors"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/Gunvolt24/wb_tickets/pkg/httpx"
	"github.com/gin-gonic/gin"
)

type payload struct {
	Items []map[string]any `json:"items"`
}

// Утилита для создания *gin.Context с телом запроса
func ctxWithBody(body string) *gin.Context {
	gin.SetMode(gin.TestMode)
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/", strings.NewReader(body))
	c, _ := gin.CreateTestContext(w)
	c.Request = req
	return c
}

func TestDecodeStrictJSON_OK(t *testing.T) {
	t.Parallel()

	var p payload
	if err := httpx.DecodeStrictJSON(ctxWithBody(`{"items":[{"ADULT":2}]}`), &p); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(p.Items) != 1 {
		t.Fatalf("unexpected payload: %+v", p)
	}
	if n, ok := p.Items[0]["ADULT"].(json.Number); !ok || n.String() != "2" {
		t.Fatalf("numbers must decode as json.Number, got %T", p.Items[0]["ADULT"])
	}
}

func TestDecodeStrictJSON_Errors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{"empty", ""},
		{"broken", "{"},
		{"unknown field", `{"items":[],"extra":1}`},
		{"trailing data", `{"items":[]}{}`},
		{"wrong type", `{"items":"x"}`},
		{"too large", `{"items":[` + strings.Repeat(`{"A":1},`, int(httpx.MaxBodyBytes/8)) + `{}]}`},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			var p payload
			if err := httpx.DecodeStrictJSON(ctxWithBody(tt.body), &p); !errors.Is(err, httpx.ErrBadBody) {
				t.Fatalf("want ErrBadBody, got %v", err)
			}
		})
	}
}
