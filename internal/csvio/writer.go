package csvio

import (
	"cmp"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/gocarina/gocsv"

	"github.com/rhyrak/section-scheduler/pkg/model"
)

// ExportAssignments writes the assignments to the CSV file at path,
// replacing any existing file.
func ExportAssignments(assignments []model.Assignment, path string) error {
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer out.Close()

	rows := assignments
	if err := gocsv.MarshalFile(&rows, out); err != nil {
		return fmt.Errorf("failed to write %s: %w", path, err)
	}
	return nil
}

// ExportAssignmentsString renders the assignments as CSV text.
func ExportAssignmentsString(assignments []model.Assignment) (string, error) {
	rows := assignments
	return gocsv.MarshalString(&rows)
}

// WriteAssignments streams the assignments as CSV.
func WriteAssignments(w io.Writer, assignments []model.Assignment) error {
	rows := assignments
	return gocsv.Marshal(&rows, w)
}

// PrintSchedule prints the timetable of every section, MWF block first.
func PrintSchedule(w io.Writer, assignments []model.Assignment) {
	var order []string
	bySection := make(map[string][]model.Assignment)
	for _, a := range assignments {
		if _, seen := bySection[a.SectionID]; !seen {
			order = append(order, a.SectionID)
		}
		bySection[a.SectionID] = append(bySection[a.SectionID], a)
	}

	for _, id := range order {
		rows := bySection[id]
		slices.SortStableFunc(rows, func(a, b model.Assignment) int {
			if c := cmp.Compare(a.DayPattern.Track(), b.DayPattern.Track()); c != 0 {
				return c
			}
			return cmp.Compare(a.Slot, b.Slot)
		})
		pad := 48 - len(id)
		if pad < 2 {
			pad = 2
		}
		fmt.Fprintf(w, "\n%s %s %s\n", strings.Repeat("-", pad/2), id, strings.Repeat("-", pad-pad/2))
		track := model.Track(-1)
		for _, a := range rows {
			if t := a.DayPattern.Track(); t != track {
				track = t
				fmt.Fprintf(w, "[%s]\n", track)
			}
			fmt.Fprintf(w, "%-5s %-17s %-14s %-36s %s\n", a.DayPattern, a.Time(), a.CourseCode, truncate(a.Description, 36), a.RoomCode)
		}
	}
	fmt.Fprintf(w, "Printed rows: %d\n", len(assignments))
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}
