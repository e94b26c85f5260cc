package monitor

import (
	"sync"
	"time"
)

// StatusReport is a snapshot of the progress of a run
type StatusReport struct {
	RunID     string    `json:"runID"`
	Title     string    `json:"title"`
	Ranks     int       `json:"ranks"`
	Step      int       `json:"step"`
	Time      float64   `json:"time"`
	DT        float64   `json:"dt"`
	FinalTime float64   `json:"finalTime"`
	Started   time.Time `json:"started"`
	Done      bool      `json:"done"`
	Error     string    `json:"error,omitempty"`
}

// Status is updated by the solver and read by the HTTP handlers. A nil Status
// ignores updates.
type Status struct {
	mu     sync.RWMutex
	report StatusReport
}

func NewStatus(runID, title string, ranks int, finalTime float64) (s *Status) {
	s = &Status{
		report: StatusReport{
			RunID:     runID,
			Title:     title,
			Ranks:     ranks,
			FinalTime: finalTime,
			Started:   time.Now(),
		},
	}
	return
}

func (s *Status) Update(step int, t, dt float64) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.report.Step, s.report.Time, s.report.DT = step, t, dt
	s.mu.Unlock()
}

func (s *Status) Finish(err error) {
	if s == nil {
		return
	}
	s.mu.Lock()
	s.report.Done = true
	if err != nil {
		s.report.Error = err.Error()
	}
	s.mu.Unlock()
}

func (s *Status) Report() (r StatusReport) {
	s.mu.RLock()
	r = s.report
	s.mu.RUnlock()
	return
}
