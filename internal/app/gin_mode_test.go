package app

import (
	"context"
	"testing"

	"github.com/gin-gonic/gin"
)

type nopLog struct{ warns int }

func (*nopLog) Infof(context.Context, string, ...any)   {}
func (l *nopLog) Warnf(context.Context, string, ...any) { l.warns++ }
func (*nopLog) Errorf(context.Context, string, ...any)  {}

func TestGinMode(t *testing.T) {
	tests := []struct {
		in    string
		want  string
		warns int
	}{
		{"", gin.DebugMode, 0},
		{"debug", gin.DebugMode, 0},
		{" Release ", gin.ReleaseMode, 0},
		{"test", gin.TestMode, 0},
		{"prod", gin.DebugMode, 1},
	}

	for _, tt := range tests {
		log := &nopLog{}
		if got := ginMode(context.Background(), tt.in, log); got != tt.want || log.warns != tt.warns {
			t.Fatalf("ginMode(%q) = %q warns=%d, want %q warns=%d", tt.in, got, log.warns, tt.want, tt.warns)
		}
	}
}
