package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSubjectDerivesBaseCodeAndPairKey(t *testing.T) {
	lec := NewSubject("CC1(Lec)", "Intro to Computing (Lec)", Lecture, 2)
	lab := NewSubject("CC1 (Lab)", "Intro to Computing (Lab)", Lab, 1)

	assert.Equal(t, "CC1", lec.BaseCode)
	assert.Equal(t, "CC1", lab.BaseCode)
	assert.Equal(t, "CC1_Intro to Computing", lec.PairKey)
	assert.Equal(t, lec.PairKey, lab.PairKey)
}

func TestParseKind(t *testing.T) {
	cases := map[string]SubjectKind{
		"Lecture":      Lecture,
		"lec":          Lecture,
		"Lab":          Lab,
		"Pure Lecture": PureLecture,
		"Pure Lec":     PureLecture,
	}
	for in, want := range cases {
		got, err := ParseKind(in, "")
		require.NoError(t, err, in)
		assert.Equal(t, want, got, in)
	}

	got, err := ParseKind("", "Data Structures (Lab)")
	require.NoError(t, err)
	assert.Equal(t, Lab, got)

	got, err = ParseKind("", "Ethics")
	require.NoError(t, err)
	assert.Equal(t, PureLecture, got)

	_, err = ParseKind("seminar", "")
	assert.Error(t, err)
}

func TestSubjectRecordConversion(t *testing.T) {
	rec := SubjectRecord{Program: "BSCS", YearLevel: "First", Trimester: "First", Code: "CC2", Description: "Programming (Lab)", Units: 1}
	s, err := rec.Subject()
	require.NoError(t, err)
	assert.Equal(t, Lab, s.Kind)
	assert.True(t, s.Kind.Paired())
	assert.Equal(t, 1, s.Units)
}
