package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/acme/call-analytics/internal/service/dashboard"
)

type fakeWarmer struct {
	periods []string
	fail    map[string]bool
}

func (w *fakeWarmer) WarmExhibition(_ context.Context, q dashboard.Query) error {
	if w.fail[q.Period] {
		return errors.New("load failed")
	}
	w.periods = append(w.periods, q.Period)
	return nil
}

type fakeLocker struct {
	held     bool
	acquired int
	released []string
}

func (l *fakeLocker) TryAcquire(context.Context) (string, bool, error) {
	if l.held {
		return "", false, nil
	}
	l.acquired++
	return "token", true, nil
}

func (l *fakeLocker) Release(_ context.Context, token string) error {
	l.released = append(l.released, token)
	return nil
}

func at(hour int) func() time.Time {
	return func() time.Time { return time.Date(2024, 3, 11, hour, 30, 0, 0, time.UTC) }
}

func TestIsWithinBusinessHours(t *testing.T) {
	morning := time.Date(2024, 1, 1, 10, 0, 0, 0, time.UTC)
	if !isWithinBusinessHours(morning, 8, 20) {
		t.Fatalf("expected %v to be within business hours", morning)
	}

	lastHour := time.Date(2024, 1, 1, 20, 59, 0, 0, time.UTC)
	if !isWithinBusinessHours(lastHour, 8, 20) {
		t.Fatalf("expected %v to be within the inclusive last hour", lastHour)
	}

	night := time.Date(2024, 1, 1, 22, 0, 0, 0, time.UTC)
	if isWithinBusinessHours(night, 8, 20) {
		t.Fatalf("expected %v to be outside business hours", night)
	}

	if !isWithinBusinessHours(night, 0, 0) {
		t.Fatal("expected an unset range to allow every hour")
	}
}

func TestTickWarmsEveryPeriod(t *testing.T) {
	warmer := &fakeWarmer{}
	locker := &fakeLocker{}
	s := NewScheduler(warmer, locker, Options{
		Periods: []string{"today", "week"}, BusinessHoursStart: 8, BusinessHoursEnd: 20, Now: at(10),
	}, nil)

	warmed, err := s.tick(context.Background())
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if warmed != 2 || len(warmer.periods) != 2 {
		t.Fatalf("expected 2 warmed periods, got %d %v", warmed, warmer.periods)
	}
	if locker.acquired != 1 || len(locker.released) != 1 {
		t.Fatalf("expected lock to be taken and released once, got %+v", locker)
	}
}

func TestTickSkipsWhenLockHeld(t *testing.T) {
	warmer := &fakeWarmer{}
	s := NewScheduler(warmer, &fakeLocker{held: true}, Options{Now: at(10)}, nil)
	warmed, err := s.tick(context.Background())
	if err != nil || warmed != 0 || len(warmer.periods) != 0 {
		t.Fatalf("expected no work while lock is held, got %d %v", warmed, err)
	}
}

func TestTickSkipsOutsideBusinessHours(t *testing.T) {
	warmer := &fakeWarmer{}
	locker := &fakeLocker{}
	s := NewScheduler(warmer, locker, Options{BusinessHoursStart: 8, BusinessHoursEnd: 20, Now: at(23)}, nil)
	if warmed, _ := s.tick(context.Background()); warmed != 0 || locker.acquired != 0 {
		t.Fatalf("expected idle tick outside business hours")
	}
}

func TestTickContinuesAfterFailure(t *testing.T) {
	warmer := &fakeWarmer{fail: map[string]bool{"today": true}}
	s := NewScheduler(warmer, &fakeLocker{}, Options{Periods: []string{"today", "week"}, Now: at(10)}, nil)
	warmed, err := s.tick(context.Background())
	if err != nil {
		t.Fatalf("tick: %v", err)
	}
	if warmed != 1 || warmer.periods[0] != "week" {
		t.Fatalf("expected week to be warmed after today failed, got %v", warmer.periods)
	}
}
