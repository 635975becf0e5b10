// Package publish carries scale readings to wherever they are consumed.
package publish

import "time"

// Reading is one weight measurement.
type Reading struct {
	Raw       int32     `json:"raw"`
	Units     float64   `json:"units"`
	Timestamp time.Time `json:"timestamp"`
}

// Publisher delivers readings to a sink.
type Publisher interface {
	Publish(Reading) error
	Close() error
}
