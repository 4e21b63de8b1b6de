package observability

import (
	"context"
	"testing"
)

func TestParseHeaders(t *testing.T) {
	got := ParseHeaders(" x-api-key = abc ,broken, =v,k= ,b=2")
	if len(got) != 2 || got["x-api-key"] != "abc" || got["b"] != "2" {
		t.Fatalf("headers=%v", got)
	}
	if ParseHeaders("") != nil {
		t.Fatalf("empty input should give nil")
	}
}

func TestInitOTelDisabled(t *testing.T) {
	if shutdown := InitOTel(context.Background(), nil, OtelConfig{Enabled: false}); shutdown != nil {
		t.Fatalf("disabled tracing returned a shutdown func")
	}
}

func TestClampRatio(t *testing.T) {
	for in, want := range map[float64]float64{-1: 0, 0.25: 0.25, 3: 1} {
		if got := clampRatio(in); got != want {
			t.Fatalf("clampRatio(%v)=%v", in, want)
		}
	}
}
