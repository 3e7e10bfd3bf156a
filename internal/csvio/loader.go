package csvio

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"

	"github.com/go-playground/validator/v10"
	"github.com/gocarina/gocsv"

	"github.com/rhyrak/section-scheduler/pkg/model"
)

var validate = validator.New()

// decode reads every row of a delimited table into T and validates it.
func decode[T any](in io.Reader, delim rune, name string) ([]T, error) {
	r := csv.NewReader(in)
	r.Comma = delim
	r.TrimLeadingSpace = true

	var rows []T
	if err := gocsv.UnmarshalCSV(r, &rows); err != nil {
		return nil, fmt.Errorf("failed to parse data from %s, please check the data integrity and format: %w", name, err)
	}
	for i := range rows {
		if err := validate.Struct(rows[i]); err != nil {
			// header is line 1
			return nil, fmt.Errorf("invalid data in %s line %d: %w", name, i+2, err)
		}
	}
	return rows, nil
}

func load[T any](path string, delim rune) ([]T, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s, please make sure the file exists: %w", path, err)
	}
	defer f.Close()
	return decode[T](f, delim, path)
}

// ReadSubjects parses the subject offering table.
func ReadSubjects(in io.Reader, delim rune) ([]model.SubjectRecord, error) {
	records, err := decode[model.SubjectRecord](in, delim, "subjects")
	if err != nil {
		return nil, err
	}
	for i := range records {
		if _, err := records[i].Subject(); err != nil {
			return nil, fmt.Errorf("invalid data in subjects line %d: %w", i+2, err)
		}
	}
	return records, nil
}

// LoadSubjects reads and parses the given csv file for subject data.
func LoadSubjects(path string, delim rune) ([]model.SubjectRecord, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s, please make sure the file exists: %w", path, err)
	}
	defer f.Close()
	return ReadSubjects(f, delim)
}

// ReadRooms parses the room table.
func ReadRooms(in io.Reader, delim rune) ([]model.Room, error) {
	records, err := decode[model.RoomRecord](in, delim, "rooms")
	if err != nil {
		return nil, err
	}
	return toRooms(records)
}

// LoadRooms reads and parses the given csv file for room data.
func LoadRooms(path string, delim rune) ([]model.Room, error) {
	records, err := load[model.RoomRecord](path, delim)
	if err != nil {
		return nil, err
	}
	return toRooms(records)
}

func toRooms(records []model.RoomRecord) ([]model.Room, error) {
	rooms := make([]model.Room, 0, len(records))
	for i := range records {
		r, err := records[i].Room()
		if err != nil {
			return nil, err
		}
		rooms = append(rooms, r)
	}
	return rooms, nil
}

// ReadSectionCounts parses the optional per program/year section counts.
func ReadSectionCounts(in io.Reader, delim rune) ([]model.SectionCountRecord, error) {
	return decode[model.SectionCountRecord](in, delim, "sections")
}

func LoadSectionCounts(path string, delim rune) ([]model.SectionCountRecord, error) {
	return load[model.SectionCountRecord](path, delim)
}

// ReadAssignments parses a schedule previously written by WriteAssignments.
func ReadAssignments(in io.Reader, delim rune) ([]model.Assignment, error) {
	return decode[model.Assignment](in, delim, "schedule")
}

func LoadAssignments(path string, delim rune) ([]model.Assignment, error) {
	return load[model.Assignment](path, delim)
}
