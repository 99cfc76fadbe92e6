package recon

import (
	"fmt"
	"time"

	"github.com/spaops/ledgersync/internal/domain"
)

// DefaultWindowDays is the maximum width of one fetch window.
const DefaultWindowDays = 7

// WindowIterator walks an inclusive date range in contiguous,
// non-overlapping windows of at most widthDays days. The final window ends
// exactly on the range end. The iterator is restartable via Reset.
type WindowIterator struct {
	start     time.Time
	end       time.Time
	widthDays int
	cursor    time.Time
}

// NewWindowIterator validates the range and returns an iterator positioned
// before the first window. Returns ErrInvalidRange when end < start.
func NewWindowIterator(start, end time.Time, widthDays int) (*WindowIterator, error) {
	start = DateOnly(start)
	end = DateOnly(end)
	if end.Before(start) {
		return nil, fmt.Errorf("%w: start %s, end %s", ErrInvalidRange,
			start.Format(time.DateOnly), end.Format(time.DateOnly))
	}
	if widthDays <= 0 {
		widthDays = DefaultWindowDays
	}
	return &WindowIterator{start: start, end: end, widthDays: widthDays, cursor: start}, nil
}

// Next returns the next window, or false once the range is exhausted.
func (it *WindowIterator) Next() (domain.DateWindow, bool) {
	if it.cursor.After(it.end) {
		return domain.DateWindow{}, false
	}
	windowEnd := it.cursor.AddDate(0, 0, it.widthDays-1)
	if windowEnd.After(it.end) {
		windowEnd = it.end
	}
	window := domain.DateWindow{Start: it.cursor, End: windowEnd}
	it.cursor = windowEnd.AddDate(0, 0, 1)
	return window, true
}

// Reset rewinds the iterator to the first window.
func (it *WindowIterator) Reset() {
	it.cursor = it.start
}

// DateOnly truncates a timestamp to its calendar day in UTC.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
