package service

import (
	"fmt"
	"time"

	"cafeteria/internal/config"
)

// Window describes when orders can be collected. Opens and Closes are
// offsets from local midnight.
type Window struct {
	Buffer   time.Duration
	Step     time.Duration
	Opens    time.Duration
	Closes   time.Duration
	Location *time.Location
}

func NewWindow(cfg config.PickupConfig) (Window, error) {
	opens, err := parseClock(cfg.Opens)
	if err != nil {
		return Window{}, fmt.Errorf("parsing opening time: %w", err)
	}
	closes, err := parseClock(cfg.Closes)
	if err != nil {
		return Window{}, fmt.Errorf("parsing closing time: %w", err)
	}
	if closes < opens {
		return Window{}, fmt.Errorf("closing time %s is before opening time %s", cfg.Closes, cfg.Opens)
	}
	if cfg.Step <= 0 {
		return Window{}, fmt.Errorf("slot step must be positive, got %s", cfg.Step)
	}

	loc := time.UTC
	if cfg.Location != "" {
		loc, err = time.LoadLocation(cfg.Location)
		if err != nil {
			return Window{}, fmt.Errorf("loading location %q: %w", cfg.Location, err)
		}
	}

	return Window{
		Buffer:   cfg.Buffer,
		Step:     cfg.Step,
		Opens:    opens,
		Closes:   closes,
		Location: loc,
	}, nil
}

// PickupSlots lists the "HH:MM" slots still available today. The first slot
// is now plus the buffer, rounded up to the next step boundary; the rest
// follow every step up to and including closing time, limited to opening
// hours. The list is empty once the first slot would fall after closing.
func PickupSlots(now time.Time, w Window) []string {
	loc := w.Location
	if loc == nil {
		loc = time.UTC
	}

	local := now.In(loc)
	earliest := local.Add(w.Buffer)

	ly, lm, ld := local.Date()
	ey, em, ed := earliest.Date()
	if ey != ly || em != lm || ed != ld {
		return []string{}
	}

	offset := sinceMidnight(earliest)
	if rem := offset % w.Step; rem != 0 {
		offset += w.Step - rem
	}

	slots := []string{}
	for t := offset; t <= w.Closes; t += w.Step {
		if t < w.Opens {
			continue
		}
		slots = append(slots, formatClock(t))
	}
	return slots
}

// Scheduler binds a window to a clock.
type Scheduler struct {
	window Window
	now    func() time.Time
}

func NewScheduler(window Window, now func() time.Time) *Scheduler {
	if now == nil {
		now = time.Now
	}
	return &Scheduler{window: window, now: now}
}

func (s *Scheduler) Slots() []string {
	return PickupSlots(s.now(), s.window)
}

func sinceMidnight(t time.Time) time.Duration {
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second +
		time.Duration(t.Nanosecond())
}

func parseClock(s string) (time.Duration, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return 0, err
	}
	return time.Duration(t.Hour())*time.Hour + time.Duration(t.Minute())*time.Minute, nil
}

func formatClock(d time.Duration) string {
	return fmt.Sprintf("%02d:%02d", int(d/time.Hour), int((d%time.Hour)/time.Minute))
}
