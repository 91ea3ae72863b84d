package player

import (
	"time"
)

type (
	// Alerts is the list of alerts currently shown to the user. Alerts are
	// added with Add/AddNamed/AddAlert and they expire on their own; the GUI
	// calls Update with the elapsed time to progress the fade animations and
	// Iterate to draw the alerts still alive.
	Alerts Model

	Alert struct {
		Name     string // name of the alert; adding an alert with the same name replaces the existing one
		Priority AlertPriority
		Message  string
		Duration time.Duration

		FadeLevel float64 // 0 = fully faded out, 1 = fully visible
	}

	AlertPriority int
)

const (
	Info AlertPriority = iota
	Warning
	Error
)

const defaultAlertDuration = 3 * time.Second
const alertFadeTime = 150 * time.Millisecond

func (m *Model) Alerts() *Alerts { return (*Alerts)(m) }

// Add adds a new anonymous alert with the default duration.
func (m *Alerts) Add(message string, priority AlertPriority) {
	m.AddAlert(Alert{
		Priority: priority,
		Message:  message,
		Duration: defaultAlertDuration,
	})
}

// AddNamed adds a named alert, replacing any existing alert with the same
// name. Named alerts are useful for repeating events, so the user does not
// get spammed with a stack of identical alerts.
func (m *Alerts) AddNamed(name, message string, priority AlertPriority) {
	m.AddAlert(Alert{
		Name:     name,
		Priority: priority,
		Message:  message,
		Duration: defaultAlertDuration,
	})
}

func (m *Alerts) AddAlert(a Alert) {
	if a.Name != "" {
		for i := range m.alerts {
			if m.alerts[i].Name == a.Name {
				a.FadeLevel = m.alerts[i].FadeLevel
				m.alerts[i] = a
				return
			}
		}
	}
	m.alerts = append(m.alerts, a)
}

// Update progresses the alert timers and fade levels by d. Returns true if
// any alert is still animating, so the GUI knows to keep invalidating.
func (m *Alerts) Update(d time.Duration) (animating bool) {
	for i := 0; i < len(m.alerts); {
		a := &m.alerts[i]
		a.Duration -= d
		fadeDelta := float64(d) / float64(alertFadeTime)
		if a.Duration > 0 {
			if a.FadeLevel < 1 {
				animating = true
				if a.FadeLevel += fadeDelta; a.FadeLevel > 1 {
					a.FadeLevel = 1
				}
			}
			i++
			continue
		}
		animating = true
		if a.FadeLevel -= fadeDelta; a.FadeLevel <= 0 {
			m.alerts = append(m.alerts[:i], m.alerts[i+1:]...)
			continue
		}
		i++
	}
	return animating
}

func (m *Alerts) Iterate(yield func(index int, alert Alert) bool) {
	for i, a := range m.alerts {
		if !yield(i, a) {
			return
		}
	}
}
