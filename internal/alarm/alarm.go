// Package alarm evaluates stored alarms against the wall clock and emits
// notifications for the ones that are due.
package alarm

import (
	"fmt"
	"time"

	"github.com/hyunsol/croquis/internal/logging"
	"github.com/hyunsol/croquis/internal/store"
)

// DateLayout is the trigger date format for one-shot alarms.
const DateLayout = "2006-01-02"

// Notification is a due alarm ready to surface to the user.
type Notification struct {
	Title   string
	Message string
}

// Notifier delivers notifications. Implementations may show a toast, print
// to the terminal, or collect for tests.
type Notifier interface {
	Notify(n Notification) error
}

// LogNotifier writes notifications to the logger. It is the fallback
// delivery path on systems without a desktop notification mechanism.
type LogNotifier struct {
	Log logging.Logger
}

func (n LogNotifier) Notify(notification Notification) error {
	n.Log.Info("alarm", "title", notification.Title, "message", notification.Message)
	return nil
}

// Checker matches alarms against minute-resolution time. Each alarm fires
// at most once per minute per process; firings are not remembered across
// restarts, so a restart inside the trigger minute repeats the alarm.
type Checker struct {
	log   logging.Logger
	fired map[string]string // alarm key -> last minute fired
}

func NewChecker(log logging.Logger) *Checker {
	if log == nil {
		log = logging.Discard()
	}
	return &Checker{log: log, fired: make(map[string]string)}
}

// CheckNow returns notifications for every enabled alarm due at now,
// skipping alarms already fired during this minute.
func (c *Checker) CheckNow(alarms []store.Alarm, now time.Time) []Notification {
	minute := now.Format("2006-01-02 15:04")

	var due []Notification
	for _, a := range alarms {
		if !a.Enabled || !c.matches(a, now) {
			continue
		}
		key := alarmKey(a)
		if c.fired[key] == minute {
			continue
		}
		c.fired[key] = minute
		c.log.Info("alarm due", "title", a.Title, "time", a.Time)
		due = append(due, Notification{Title: a.Title, Message: a.Message})
	}
	return due
}

func (c *Checker) matches(a store.Alarm, now time.Time) bool {
	if a.Time != now.Format("15:04") {
		return false
	}
	switch a.Type {
	case store.AlarmWeekly:
		// Stored weekdays use 0=Monday.
		wd := (int(now.Weekday()) + 6) % 7
		for _, d := range a.Weekdays {
			if d == wd {
				return true
			}
		}
		return false
	case store.AlarmOnce:
		return a.Date == now.Format(DateLayout)
	}
	return false
}

// alarmKey identifies an alarm for dedup purposes. Every field that can
// distinguish two alarms participates, so alarms sharing a title and time
// do not suppress each other.
func alarmKey(a store.Alarm) string {
	return fmt.Sprintf("%s|%s|%s|%s|%s|%v", a.Title, a.Message, a.Time, a.Type, a.Date, a.Weekdays)
}

// Run polls the store once per interval and forwards due alarms to the
// notifier until the returned stop func is called. A nil notifier logs.
func Run(st *store.Store, c *Checker, n Notifier, interval time.Duration) (stop func()) {
	if n == nil {
		n = LogNotifier{Log: c.log}
	}
	ticker := time.NewTicker(interval)
	done := make(chan struct{})
	go func() {
		for {
			select {
			case <-done:
				return
			case now := <-ticker.C:
				for _, due := range c.CheckNow(st.Alarms(), now) {
					if err := n.Notify(due); err != nil {
						c.log.Warn("delivering notification", "err", err)
					}
				}
			}
		}
	}()
	return func() {
		ticker.Stop()
		close(done)
	}
}
