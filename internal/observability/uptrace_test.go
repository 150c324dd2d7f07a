package observability

import (
	"context"
	"testing"

	"github.com/andryanduta/prem-insights/internal/config"
	"github.com/andryanduta/prem-insights/internal/platform/logging"
)

func TestInitUptrace_DisabledReturnsNoopShutdown(t *testing.T) {
	shutdown, err := InitUptrace(config.Config{UptraceEnabled: false}, logging.NewNop())
	if err != nil {
		t.Fatalf("init uptrace: %v", err)
	}
	if shutdown == nil {
		t.Fatal("expected shutdown func")
	}
	if err := shutdown(context.Background()); err != nil {
		t.Fatalf("noop shutdown: %v", err)
	}
}

func TestStartPprofServer_DisabledReturnsNil(t *testing.T) {
	srv, err := StartPprofServer(config.Config{PprofEnabled: false}, logging.NewNop())
	if err != nil {
		t.Fatalf("start pprof: %v", err)
	}
	if srv != nil {
		t.Fatal("expected nil server when pprof disabled")
	}
	if err := StopPprofServer(nil, logging.NewNop(), 0); err != nil {
		t.Fatalf("stop nil server: %v", err)
	}
}
