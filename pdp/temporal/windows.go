// pdp/temporal/windows.go
package temporal

import "time"

// Window types the evaluator understands.
const (
	WindowBusinessHours = "business_hours"
	WindowEmergency     = "emergency"
	WindowAccess        = "access_window"
	WindowMaintenance   = "maintenance"
	WindowHoliday       = "holiday"
)

// Window is a typed validity interval. The end bound is exclusive.
type Window struct {
	Type  string    `json:"type" yaml:"type"`
	Start time.Time `json:"start" yaml:"start"`
	End   time.Time `json:"end" yaml:"end"`
}

// Contains reports whether ts falls inside the window: start <= ts < end.
func (w Window) Contains(ts time.Time) bool {
	return !ts.Before(w.Start) && ts.Before(w.End)
}

// ActiveWindows filters the windows containing ts.
func ActiveWindows(windows []Window, ts time.Time) []Window {
	var active []Window
	for _, w := range windows {
		if w.Contains(ts) {
			active = append(active, w)
		}
	}
	return active
}
