package export

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhyrak/section-scheduler/pkg/model"
)

func assignments(t *testing.T) []model.Assignment {
	t.Helper()
	slots, err := model.NewTimeSlots([]string{"7:30am"}, 80*time.Minute)
	require.NoError(t, err)
	sections, err := model.NewSections(model.Bucket{Program: "BSCS", YearLevel: "First", Trimester: "First", Group: "A"}, 2)
	require.NoError(t, err)
	ge := model.NewSubject("GE1", "Purposive Communication", model.PureLecture, 3)
	return []model.Assignment{
		model.NewAssignment(sections[0], ge, model.PatternMWF, slots[0], "M302"),
		model.NewAssignment(sections[1], ge, model.PatternTTHS, slots[0], "M304"),
		model.NewAssignment(sections[0], ge, model.PatternTTHS, slots[0], "M305"),
	}
}

func TestSectionTables(t *testing.T) {
	tables := SectionTables(assignments(t))
	require.Len(t, tables, 2)
	assert.Equal(t, "BSCS 1A (Group A)", tables[0].Title)
	assert.Len(t, tables[0].Data.Rows, 2)
	assert.Equal(t, "07:30AM-08:50AM", tables[0].Data.Rows[0]["Time"])
	assert.Equal(t, "M304", tables[1].Data.Rows[0]["Room"])
}

func TestRenderPDF(t *testing.T) {
	out, err := NewPDFExporter().RenderBytes("Schedule", SectionTables(assignments(t)))
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF-")))

	_, err = NewPDFExporter().RenderBytes("Schedule", nil)
	assert.Error(t, err)
}
