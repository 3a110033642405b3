package singleinstance

import (
	"context"
	"errors"
	"net"
	"testing"
	"time"
)

func acquireFree(t *testing.T) *Instance {
	t.Helper()
	inst, err := Acquire(0)
	if err != nil {
		t.Skipf("loopback TCP unavailable in this environment: %v", err)
	}
	t.Cleanup(func() { _ = inst.Release() })
	return inst
}

func TestSecondAcquireFails(t *testing.T) {
	inst := acquireFree(t)

	_, err := Acquire(inst.Port())
	if !errors.Is(err, ErrAlreadyRunning) {
		t.Fatalf("Expected ErrAlreadyRunning, got %v", err)
	}
}

func TestPingResident(t *testing.T) {
	inst := acquireFree(t)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()

	if !Ping(ctx, inst.Port()) {
		t.Fatal("Expected resident to answer PING")
	}
}

func TestNotifyResidentRunsOnShow(t *testing.T) {
	inst := acquireFree(t)
	shown := make(chan struct{}, 1)
	inst.SetOnShow(func() { shown <- struct{}{} })

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := NotifyResident(ctx, inst.Port()); err != nil {
		t.Fatalf("NotifyResident: %v", err)
	}
	select {
	case <-shown:
	case <-time.After(time.Second):
		t.Fatal("Expected OnShow callback")
	}
}

func TestReleaseFreesPort(t *testing.T) {
	inst := acquireFree(t)
	port := inst.Port()
	if err := inst.Release(); err != nil {
		t.Fatalf("Release: %v", err)
	}
	if err := inst.Release(); err != nil {
		t.Fatalf("second Release: %v", err)
	}

	again, err := Acquire(port)
	if err != nil {
		t.Fatalf("Expected port %d free after release, got %v", port, err)
	}
	_ = again.Release()
}

func TestNotifyWithoutResident(t *testing.T) {
	inst := acquireFree(t)
	port := inst.Port()
	_ = inst.Release()

	ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
	defer cancel()
	if Ping(ctx, port) {
		t.Error("Expected no resident after release")
	}
	if err := NotifyResident(ctx, port); err == nil {
		t.Error("Expected error without resident")
	}
}

// foreignListener occupies a loopback port with a server that does not speak
// the resident protocol.
func foreignListener(t *testing.T) int {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Skipf("loopback TCP unavailable in this environment: %v", err)
	}
	t.Cleanup(func() { _ = lis.Close() })
	go func() {
		for {
			c, err := lis.Accept()
			if err != nil {
				return
			}
			_, _ = c.Write([]byte("HTTP/1.1 400 Bad Request\r\n\r\n"))
			_ = c.Close()
		}
	}()
	return lis.Addr().(*net.TCPAddr).Port
}

func TestClaim(t *testing.T) {
	tests := []struct {
		name          string
		setup         func(t *testing.T) (port int, shown chan struct{})
		wantInstance  bool
		wantHandedOff bool
	}{
		{
			name: "free port",
			setup: func(t *testing.T) (int, chan struct{}) {
				inst := acquireFree(t)
				port := inst.Port()
				_ = inst.Release()
				return port, nil
			},
			wantInstance: true,
		},
		{
			name: "resident running",
			setup: func(t *testing.T) (int, chan struct{}) {
				inst := acquireFree(t)
				shown := make(chan struct{}, 1)
				inst.SetOnShow(func() { shown <- struct{}{} })
				return inst.Port(), shown
			},
			wantHandedOff: true,
		},
		{
			name: "foreign program on port",
			setup: func(t *testing.T) (int, chan struct{}) {
				return foreignListener(t), nil
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			port, shown := tt.setup(t)
			ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
			defer cancel()

			inst, handedOff := Claim(ctx, port)
			if inst != nil {
				defer inst.Release()
			}
			if (inst != nil) != tt.wantInstance {
				t.Errorf("Claim instance = %v, want instance %v", inst, tt.wantInstance)
			}
			if handedOff != tt.wantHandedOff {
				t.Errorf("Claim handedOff = %v, want %v", handedOff, tt.wantHandedOff)
			}
			if shown != nil {
				select {
				case <-shown:
				case <-time.After(time.Second):
					t.Error("Expected resident OnShow callback")
				}
			}
		})
	}
}

func TestNotifyForeignListenerFails(t *testing.T) {
	port := foreignListener(t)
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := NotifyResident(ctx, port); err == nil {
		t.Error("Expected error from a non-overlay listener")
	}
}
