// Package logline renders a probe result as one human-readable log line.
package logline

import (
	"fmt"
	"time"

	"github.com/hazz-dev/pinglog/internal/probe"
)

// TimeLayout is the general date/time format: short date, long 12-hour time.
const TimeLayout = "1/2/2006 3:04:05 PM"

// Format returns "<datetime> <name>(<description>) <status>".
func Format(at time.Time, name, description string, status probe.Status) string {
	return fmt.Sprintf("%s %s(%s) %s", at.Local().Format(TimeLayout), name, description, status)
}

// FromResult formats r.
func FromResult(r probe.Result) string {
	return Format(r.CheckedAt, r.InterfaceName, r.InterfaceDescription, r.Status)
}
