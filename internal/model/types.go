// Package model defines shared data structures.
package model

import "time"

// Config defines practice settings.
type Config struct {
	Offline      bool
	SessionID    string
	Words        int
	CapsPct      float64
	PunctPct     float64
	PunctSet     string
	WordListPath string
	Lang         string
	AutoAdvance  bool
	Retries      int
	FocusWeak    bool
	WeakTop      int
	WeakFactor   float64
	WeakWindow   int
}

// StatsConfig defines filters and options for stats output.
type StatsConfig struct {
	Since       *time.Time
	Last        int
	CurveWindow int
	Offline     *bool
}

// SessionRecord captures a finished typing session in local history.
type SessionRecord struct {
	RemoteID       string
	StartedAt      time.Time
	EndedAt        time.Time
	TotalWords     int
	WrittenWords   int
	CorrectWords   int
	IncorrectWords int
	CorrectChars   int
	IncorrectChars int
	Accuracy       int
	WPM            int
	Completed      bool
	Offline        bool
	DurationMs     int64
}

// CharStats stores per-character stats for a session.
type CharStats struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// CharAggregate aggregates character stats across sessions.
type CharAggregate struct {
	Char         string
	Correct      int
	Incorrect    int
	LatencySumMs int64
	LatencyCount int64
}

// SessionAggregate summarizes a session for reporting.
type SessionAggregate struct {
	SessionID    int64
	RemoteID     string
	EndedAt      time.Time
	CorrectWords int
	Correct      int
	Incorrect    int
	DurationMs   int64
	Completed    bool
}
