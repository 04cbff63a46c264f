package models

import (
	"time"
)

type RunStatus string

const (
	StatusSucceeded RunStatus = "SUCCEEDED"
	StatusFailed    RunStatus = "FAILED"
)

// Run summarises one scrape execution
type Run struct {
	ID        string    `json:"id"`
	StartedAt time.Time `json:"started_at"`
	Timestamp string    `json:"timestamp"`
	URLs      []string  `json:"urls"`
	Count     int       `json:"count"`
	Status    RunStatus `json:"status"`
	JSONFile  string    `json:"json_file,omitempty"`
	XLSXFile  string    `json:"xlsx_file,omitempty"`
	Error     string    `json:"error,omitempty"`
}
