package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/san-kum/multistate/internal/promoter"
)

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// WritePDMPCSV writes one row per observation: time, active state and
// the weights x1..xn.
func WritePDMPCSV(w io.Writer, records []promoter.PDMPRecord) error {
	cw := csv.NewWriter(w)

	header := []string{"time", "active"}
	if len(records) > 0 {
		for i := range records[0].Weights {
			header = append(header, fmt.Sprintf("x%d", i+1))
		}
	}
	if err := cw.Write(header); err != nil {
		return err
	}

	for _, r := range records {
		row := make([]string, 0, len(header))
		row = append(row, formatFloat(r.Time), strconv.Itoa(r.Active))
		for _, x := range r.Weights {
			row = append(row, formatFloat(x))
		}
		if err := cw.Write(row); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteSSACSV writes one row per event: time, active state and molecule
// count.
func WriteSSACSV(w io.Writer, records []promoter.SSARecord) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"time", "active", "molecules"}); err != nil {
		return err
	}
	for _, r := range records {
		row := []string{formatFloat(r.Time), strconv.Itoa(r.Active), strconv.Itoa(r.Molecules)}
		if err := cw.Write(row); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// ReadEventsCSV reads the time and active columns of a CSV written by
// WritePDMPCSV or WriteSSACSV. Other columns are ignored.
func ReadEventsCSV(r io.Reader) ([]promoter.Event, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("%w: empty csv", promoter.ErrInvalidArgument)
	}
	if err != nil {
		return nil, err
	}
	timeCol, activeCol := -1, -1
	for i, name := range header {
		switch name {
		case "time":
			timeCol = i
		case "active":
			activeCol = i
		}
	}
	if timeCol < 0 || activeCol < 0 {
		return nil, fmt.Errorf("%w: csv needs time and active columns, got %v", promoter.ErrInvalidArgument, header)
	}

	var events []promoter.Event
	for line := 2; ; line++ {
		row, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, err
		}
		if len(row) <= max(timeCol, activeCol) {
			return nil, fmt.Errorf("%w: line %d has %d fields", promoter.ErrInvalidArgument, line, len(row))
		}

		t, err := strconv.ParseFloat(row[timeCol], 64)
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", promoter.ErrInvalidArgument, line, err)
		}
		active, err := strconv.Atoi(row[activeCol])
		if err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", promoter.ErrInvalidArgument, line, err)
		}
		if active < 1 {
			return nil, fmt.Errorf("%w: line %d: state %d", promoter.ErrInvalidState, line, active)
		}
		events = append(events, promoter.Event{Time: t, Active: active})
	}
	return events, nil
}
