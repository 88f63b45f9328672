package api

import (
	"context"
	"errors"
	"os"
	"syscall"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func TestRunStopsOnSignal(t *testing.T) {
	srv := NewServer(nil, false)
	signals := make(chan os.Signal, 1)
	started := make(chan struct{})
	listen := func(app *fiber.App, addr string) error {
		close(started)
		return nil
	}

	go func() {
		<-started
		signals <- syscall.SIGTERM
	}()

	if err := Run(context.Background(), srv, "127.0.0.1:0", signals, listen); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunStopsOnContext(t *testing.T) {
	srv := NewServer(nil, false)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	block := make(chan struct{})
	defer close(block)
	listen := func(app *fiber.App, addr string) error {
		<-block
		return nil
	}

	if err := Run(ctx, srv, "127.0.0.1:0", nil, listen); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestRunListenError(t *testing.T) {
	srv := NewServer(nil, false)
	want := errors.New("address in use")
	listen := func(app *fiber.App, addr string) error { return want }

	if err := Run(context.Background(), srv, "127.0.0.1:0", nil, listen); !errors.Is(err, want) {
		t.Errorf("expected listen error, got %v", err)
	}
}
