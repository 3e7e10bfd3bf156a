package csvio

import (
	"bytes"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhyrak/section-scheduler/pkg/model"
)

const subjectsCSV = `Program,Year_Level,Trimester,Course_Code,Description,Type,Units
BSCS,First,First,CC1(Lec),Intro to Computing (Lec),Lecture,2
BSCS,First,First,CC1(Lab),Intro to Computing (Lab),Lab,1
BSCS,First,First,NSTP1,Civic Welfare Training,Pure Lecture,3
BSCS,First,First,GE5,Science (Lab),,1
`

func TestReadSubjects(t *testing.T) {
	records, err := ReadSubjects(strings.NewReader(subjectsCSV), ',')
	require.NoError(t, err)
	require.Len(t, records, 4)
	assert.Equal(t, "CC1(Lec)", records[0].Code)
	assert.Equal(t, 3, records[2].Units)

	s, err := records[3].Subject()
	require.NoError(t, err)
	assert.Equal(t, model.Lab, s.Kind)
}

func TestReadSubjectsRejectsBadRows(t *testing.T) {
	missing := "Program,Year_Level,Trimester,Course_Code,Description,Type,Units\nBSCS,First,First,,Ethics,Pure Lecture,3\n"
	_, err := ReadSubjects(strings.NewReader(missing), ',')
	assert.ErrorContains(t, err, "line 2")

	kind := "Program,Year_Level,Trimester,Course_Code,Description,Type,Units\nBSCS,First,First,GE1,Ethics,Seminar,3\n"
	_, err = ReadSubjects(strings.NewReader(kind), ',')
	assert.Error(t, err)
}

func TestReadRoomsWithDelimiter(t *testing.T) {
	in := "Room_Code;Categories\nM301;lecture|major|no-saturday\nM303;lab\nAud;auditorium\n"
	rooms, err := ReadRooms(strings.NewReader(in), ';')
	require.NoError(t, err)
	require.Len(t, rooms, 3)
	assert.True(t, rooms[0].Categories.Has(model.CategoryMajor|model.CategoryNoSaturday))
	assert.True(t, rooms[1].Categories.Has(model.CategoryLab))

	_, err = ReadRooms(strings.NewReader("Room_Code;Categories\nPool;swimming\n"), ';')
	assert.Error(t, err)
}

func TestReadSectionCounts(t *testing.T) {
	counts, err := ReadSectionCounts(strings.NewReader("Program,Year_Level,Sections\nBSCS,First,4\n"), ',')
	require.NoError(t, err)
	require.Len(t, counts, 1)
	assert.Equal(t, 4, counts[0].Sections)

	_, err = ReadSectionCounts(strings.NewReader("Program,Year_Level,Sections\nBSCS,First,30\n"), ',')
	assert.Error(t, err)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := LoadRooms(filepath.Join(t.TempDir(), "missing.csv"), ',')
	assert.ErrorContains(t, err, "failed to open")
}

func sampleAssignments(t *testing.T) []model.Assignment {
	t.Helper()
	slots, err := model.NewTimeSlots([]string{"7:30am", "8:50am"}, 80*time.Minute)
	require.NoError(t, err)
	sections, err := model.NewSections(model.Bucket{Program: "BSCS", YearLevel: "First", Trimester: "First", Group: "A"}, 1)
	require.NoError(t, err)
	lec := model.NewSubject("CC1(Lec)", "Intro to Computing (Lec)", model.Lecture, 2)
	lab := model.NewSubject("CC1(Lab)", "Intro to Computing (Lab)", model.Lab, 1)
	ge := model.NewSubject("GE1", "Purposive Communication", model.PureLecture, 3)
	return []model.Assignment{
		model.NewAssignment(sections[0], ge, model.PatternTTHS, slots[0], "M302"),
		model.NewAssignment(sections[0], lec, model.PatternMW, slots[0], "M301"),
		model.NewAssignment(sections[0], lab, model.PatternMWF, slots[1], "M303"),
	}
}

func TestExportAndReload(t *testing.T) {
	assignments := sampleAssignments(t)
	path := filepath.Join(t.TempDir(), "schedule.csv")
	require.NoError(t, ExportAssignments(assignments, path))

	loaded, err := LoadAssignments(path, ',')
	require.NoError(t, err)
	assert.Equal(t, assignments, loaded)
}

func TestExportAssignmentsString(t *testing.T) {
	out, err := ExportAssignmentsString(sampleAssignments(t))
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(out), "\n")
	require.Len(t, lines, 4)
	assert.True(t, strings.HasPrefix(lines[0], "section_id,program,year_level"))
	assert.Contains(t, lines[2], "CC1(Lec)")
	assert.Contains(t, lines[2], "07:30AM")
}

func TestPrintSchedule(t *testing.T) {
	var buf bytes.Buffer
	PrintSchedule(&buf, sampleAssignments(t))
	out := buf.String()

	assert.Contains(t, out, "BSCS 1A (Group A)")
	assert.Less(t, strings.Index(out, "[MWF]"), strings.Index(out, "[TTH]"))
	assert.Less(t, strings.Index(out, "CC1(Lec)"), strings.Index(out, "GE1"))
	assert.Contains(t, out, "Printed rows: 3")
}
