// Package report classifies import outcomes and decides which ones the user
// should actually see.
package report

import (
	"time"

	"github.com/rs/zerolog/log"

	"github.com/maptools/geoport/internal/i18n"
)

// AlertDuration is the default display hint for user-facing alerts.
const AlertDuration = 5 * time.Second

// ExtendedDuration is the display hint for fatal import alerts.
const ExtendedDuration = 10 * time.Second

// blankInputLines is the raw-line threshold at or under which row-level
// errors are treated as a likely blank or trivial file and only logged.
// The value is deliberate: a near-empty file producing "errors" is expected,
// not alarming. Raising it trades missed alerts on tiny files for less noise
// on empty imports and changes user-visible behavior; keep it as is.
const blankInputLines = 2

// ImportError is the classification of a finished import: fatal (no usable
// data at all) or a row-level batch alongside usable data.
type ImportError interface {
	error
	importError()
}

// FatalError means parsing could not proceed at all.
type FatalError struct {
	Message string
}

func (e *FatalError) Error() string { return e.Message }
func (e *FatalError) importError() {}

// RowErrorBatch means some rows failed while others succeeded; the resulting
// collection is still usable.
type RowErrorBatch struct {
	Count        int
	FirstMessage string
}

func (e *RowErrorBatch) Error() string {
	return i18n.T("import row errors", e.Count, e.FirstMessage)
}
func (e *RowErrorBatch) importError() {}

// AlertSink receives user-facing messages. The duration is a display hint
// for the surfacing UI; sinks may ignore it.
type AlertSink interface {
	Alert(message string, duration time.Duration)
}

// LogSink is the default sink: alerts land in the application log.
type LogSink struct{}

// Alert logs the message at warn level.
func (LogSink) Alert(message string, duration time.Duration) {
	log.Warn().Dur("display", duration).Msg(message)
}

// Reporter applies the surface-or-suppress policy to import errors.
type Reporter struct {
	alerts AlertSink
}

// NewReporter returns a reporter surfacing alerts through sink, or through
// the log when sink is nil.
func NewReporter(sink AlertSink) *Reporter {
	if sink == nil {
		sink = LogSink{}
	}
	return &Reporter{alerts: sink}
}

// Alerts exposes the sink so collaborators (the XML helper) can surface
// their own messages through the same channel.
func (r *Reporter) Alerts() AlertSink { return r.alerts }

// Report surfaces err according to policy. rawLineCount is the number of
// lines in the raw input before parsing; it drives the blank-file heuristic
// for row-level batches. Fatal errors always surface.
func (r *Reporter) Report(err ImportError, rawLineCount int) {
	switch e := err.(type) {
	case nil:
		return

	case *FatalError:
		r.alerts.Alert(e.Message, ExtendedDuration)

	case *RowErrorBatch:
		if rawLineCount <= blankInputLines {
			log.Debug().
				Int("rows", e.Count).
				Str("first", e.FirstMessage).
				Msg("Row errors on near-empty input, suppressing alert")
			return
		}
		r.alerts.Alert(i18n.T("import row errors", e.Count, e.FirstMessage), AlertDuration)
	}
}
