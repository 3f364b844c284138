package main

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
)

// mockService records lifecycle calls into shared order slices.
type mockService struct {
	name          string
	initErr       error
	shutdownErr   error
	initOrder     *[]string
	shutdownOrder *[]string
}

func (m *mockService) Name() string { return m.name }

func (m *mockService) Initialize(ctx context.Context) error {
	if m.initOrder != nil {
		*m.initOrder = append(*m.initOrder, m.name)
	}
	return m.initErr
}

func (m *mockService) Shutdown() error {
	if m.shutdownOrder != nil {
		*m.shutdownOrder = append(*m.shutdownOrder, m.name)
	}
	return m.shutdownErr
}

func newTestLogger() (func(string), *[]string) {
	var logs []string
	return func(msg string) { logs = append(logs, msg) }, &logs
}

func TestRegister_DuplicateName(t *testing.T) {
	logger, _ := newTestLogger()
	reg := NewServiceRegistry(context.Background(), logger)

	if err := reg.Register(&mockService{name: "Agent"}); err != nil {
		t.Fatalf("first Register failed: %v", err)
	}
	err := reg.RegisterCritical(&mockService{name: "Agent"})
	if err == nil {
		t.Fatal("duplicate Register should fail")
	}
	var se *ServiceError
	if !errors.As(err, &se) || se.Operation != "Register" {
		t.Errorf("expected a ServiceError from Register, got %v", err)
	}
	if _, ok := reg.Get("Agent"); !ok {
		t.Error("Get should find the first registration")
	}
	if _, ok := reg.Get("missing"); ok {
		t.Error("Get should not find unregistered services")
	}
}

func TestInitializeAll_OrderAndShutdownReversed(t *testing.T) {
	logger, _ := newTestLogger()
	reg := NewServiceRegistry(context.Background(), logger)

	var initOrder, shutdownOrder []string
	for _, name := range []string{"Logger", "Agent", "HTTP"} {
		if err := reg.Register(&mockService{name: name, initOrder: &initOrder, shutdownOrder: &shutdownOrder}); err != nil {
			t.Fatal(err)
		}
	}

	if err := reg.InitializeAll(); err != nil {
		t.Fatalf("InitializeAll failed: %v", err)
	}
	reg.ShutdownAll()

	if got := strings.Join(initOrder, ","); got != "Logger,Agent,HTTP" {
		t.Errorf("init order = %s", got)
	}
	if got := strings.Join(shutdownOrder, ","); got != "HTTP,Agent,Logger" {
		t.Errorf("shutdown order = %s", got)
	}
}

func TestInitializeAll_CriticalFailureStops(t *testing.T) {
	logger, logs := newTestLogger()
	reg := NewServiceRegistry(context.Background(), logger)

	var order []string
	_ = reg.Register(&mockService{name: "Logger", initErr: errors.New("read-only fs"), initOrder: &order})
	_ = reg.RegisterCritical(&mockService{name: "Agent", initErr: errors.New("unknown provider"), initOrder: &order})
	_ = reg.Register(&mockService{name: "HTTP", initOrder: &order})

	err := reg.InitializeAll()
	if err == nil {
		t.Fatal("critical failure should be returned")
	}
	if !strings.Contains(err.Error(), "unknown provider") {
		t.Errorf("error should carry the cause: %v", err)
	}
	if strings.Join(order, ",") != "Logger,Agent" {
		t.Errorf("services after the critical failure must not initialize: %v", order)
	}
	if len(*logs) != 2 || !strings.Contains((*logs)[0], "degraded") {
		t.Errorf("unexpected logs: %v", *logs)
	}
}

func TestShutdownAll_ContinuesOnError(t *testing.T) {
	logger, logs := newTestLogger()
	reg := NewServiceRegistry(context.Background(), logger)

	var order []string
	_ = reg.Register(&mockService{name: "A", shutdownOrder: &order})
	_ = reg.Register(&mockService{name: "B", shutdownErr: errors.New("busy"), shutdownOrder: &order})
	_ = reg.Register(&mockService{name: "C", shutdownOrder: &order})

	reg.ShutdownAll()
	if strings.Join(order, ",") != "C,B,A" {
		t.Errorf("shutdown order = %v", order)
	}
	if len(*logs) != 1 || !strings.Contains((*logs)[0], "busy") {
		t.Errorf("unexpected logs: %v", *logs)
	}
}

func TestGet_ThreadSafe(t *testing.T) {
	reg := NewServiceRegistry(context.Background(), nil)
	_ = reg.Register(&mockService{name: "Agent"})

	var wg sync.WaitGroup
	for range 50 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, ok := reg.Get("Agent"); !ok {
				t.Error("Get failed under concurrency")
			}
		}()
	}
	wg.Wait()
}
