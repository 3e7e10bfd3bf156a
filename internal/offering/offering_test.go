package offering

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhyrak/section-scheduler/pkg/model"
)

func record(program, year, trimester, code, description, kind string) model.SubjectRecord {
	return model.SubjectRecord{Program: program, YearLevel: year, Trimester: trimester, Code: code, Description: description, Kind: kind, Units: 3}
}

func TestBuildRequests(t *testing.T) {
	records := []model.SubjectRecord{
		record("BSCS", "Second", "First", "CC3(Lec)", "Data Structures (Lec)", "Lecture"),
		record("BSCS", "First", "First", "CC1(Lec)", "Intro (Lec)", "Lecture"),
		record("BSCS", "First", "First", "CC1(Lab)", "Intro (Lab)", "Lab"),
		record("BSCS", "First", "First", "CC1(Lab)", "Intro (Lab)", "Lab"),
		record("BSCS", "First", "Second", "CC2(Lec)", "Programming (Lec)", "Lecture"),
	}
	requests, err := BuildRequests(records, Options{
		Trimester:     "first",
		SectionCounts: []model.SectionCountRecord{{Program: "BSCS", YearLevel: "Second", Sections: 5}},
	})
	require.NoError(t, err)
	require.Len(t, requests, 4)

	assert.Equal(t, "First", requests[0].Bucket.YearLevel)
	assert.Equal(t, "A", requests[0].Bucket.Group)
	assert.Equal(t, "B", requests[1].Bucket.Group)
	assert.Len(t, requests[0].Subjects, 2)
	assert.Equal(t, DefaultSections, requests[0].Sections)

	assert.Equal(t, "Second", requests[2].Bucket.YearLevel)
	assert.Equal(t, 5, requests[2].Sections)
}

func TestBuildRequestsInheritsBaseProgram(t *testing.T) {
	records := []model.SubjectRecord{
		record("BSIT", "First", "First", "GE1", "Communication", "Pure Lecture"),
		record("BSIT(WebTech)", "First", "First", "WT1", "Web Basics", "Pure Lecture"),
	}
	requests, err := BuildRequests(records, Options{Trimester: "First", Groups: []string{"A"}, DefaultSections: 2})
	require.NoError(t, err)
	require.Len(t, requests, 2)

	assert.Equal(t, "BSIT", requests[0].Bucket.Program)
	assert.Len(t, requests[0].Subjects, 1)

	assert.Equal(t, "BSIT(WebTech)", requests[1].Bucket.Program)
	require.Len(t, requests[1].Subjects, 2)
	assert.Equal(t, "GE1", requests[1].Subjects[0].Code)
	assert.Equal(t, "WT1", requests[1].Subjects[1].Code)
	assert.Equal(t, 2, requests[1].Sections)
}

func TestBuildRequestsEmptyTrimester(t *testing.T) {
	_, err := BuildRequests([]model.SubjectRecord{record("BSCS", "First", "First", "GE1", "Ethics", "")}, Options{Trimester: "Third"})
	assert.ErrorIs(t, err, ErrNoOffering)
}

func TestBaseProgram(t *testing.T) {
	assert.Equal(t, "BSIT", BaseProgram("BSIT(Netsec)"))
	assert.Equal(t, "BSCS", BaseProgram(" BSCS "))
}
