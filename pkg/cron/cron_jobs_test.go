package cron

import (
	"errors"
	"sync"
	"testing"
	"time"
)

func TestAdvanceDueDate(t *testing.T) {
	tests := []struct {
		name      string
		current   string
		frequency string
		want      string
	}{
		{"weekly", "2026-01-05", "weekly", "2026-01-12"},
		{"monthly", "2026-01-31", "monthly", "2026-03-03"},
		{"monthly mid-month", "2026-04-15", "monthly", "2026-05-15"},
		{"yearly", "2026-06-01", "yearly", "2027-06-01"},
		{"unknown frequency defaults to monthly", "2026-02-10", "fortnightly", "2026-03-10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := advanceDueDate(tt.current, tt.frequency)
			if err != nil {
				t.Fatalf("advanceDueDate(%q, %q): %v", tt.current, tt.frequency, err)
			}
			if got != tt.want {
				t.Errorf("advanceDueDate(%q, %q) = %q, want %q", tt.current, tt.frequency, got, tt.want)
			}
		})
	}
}

func TestAdvanceDueDateBadInput(t *testing.T) {
	if _, err := advanceDueDate("31-01-2026", "monthly"); err == nil {
		t.Error("expected an error for a non ISO date")
	}
}

func TestSendAllCompletesWhenEverySendFails(t *testing.T) {
	const n = 40

	var mu sync.Mutex
	attempts := 0

	sends := make([]func() error, n)
	for i := range sends {
		sends[i] = func() error {
			mu.Lock()
			attempts++
			mu.Unlock()
			return errors.New("smtp unavailable")
		}
	}

	done := make(chan struct{})
	go func() {
		sendAll(sends)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("sendAll did not return with all sends failing")
	}

	mu.Lock()
	defer mu.Unlock()
	if attempts != n {
		t.Errorf("attempts = %d, want %d", attempts, n)
	}
}
