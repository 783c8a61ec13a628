package agreement_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/agentstation/tonematch/pkg/agreement"
)

func TestParseGroupNumber(t *testing.T) {
	tests := []struct {
		in     string
		want   agreement.GroupNumber
		wantOK bool
	}{
		{"3", 3, true},
		{" 12 ", 12, true},
		{"7a", 7, true},
		{"-2", -2, true},
		{"+4", 4, true},
		{"", 0, false},
		{"   ", 0, false},
		{"abc", 0, false},
		{"-", 0, false},
		{"a7", 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, ok := agreement.ParseGroupNumber(tt.in)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestBuildAssignmentMap(t *testing.T) {
	result := agreement.AnnotatorResult{
		ID: "alice",
		Records: []agreement.Record{
			{"Reference": "w1", "SurfaceMelodyGroup": "1"},
			{"Reference": "w2"},
			{"Reference": "w3", "SurfaceMelodyGroup": "n/a"},
			{"Reference": "", "SurfaceMelodyGroup": "2"},
			{"SurfaceMelodyGroup": "2"},
			{"Reference": "w4", "SurfaceMelodyGroup": "2"},
			{"Reference": "w1", "SurfaceMelodyGroup": "5"},
		},
	}

	m := agreement.BuildAssignmentMap(result, agreement.DefaultFields())

	t.Run("keeps only parseable groups", func(t *testing.T) {
		assert.Equal(t, 2, m.Len())
		_, ok := m.Get("w2")
		assert.False(t, ok)
		_, ok = m.Get("w3")
		assert.False(t, ok)
	})

	t.Run("last occurrence wins but first-seen order is kept", func(t *testing.T) {
		g, ok := m.Get("w1")
		assert.True(t, ok)
		assert.Equal(t, agreement.GroupNumber(5), g)
		assert.Equal(t, []agreement.ItemKey{"w1", "w4"}, m.Keys())
	})

	t.Run("groups and partition", func(t *testing.T) {
		assert.Equal(t, []agreement.GroupNumber{2, 5}, m.Groups())
		assert.Equal(t, map[agreement.GroupNumber][]agreement.ItemKey{
			2: {"w4"},
			5: {"w1"},
		}, m.Partition())
	})

	t.Run("custom field names", func(t *testing.T) {
		custom := agreement.AnnotatorResult{
			ID:      "bob",
			Records: []agreement.Record{{"Ref": "w9", "Melody": "3"}},
		}
		m := agreement.BuildAssignmentMap(custom, agreement.Fields{Key: "Ref", Group: "Melody"})
		g, ok := m.Get("w9")
		assert.True(t, ok)
		assert.Equal(t, agreement.GroupNumber(3), g)
	})

	t.Run("does not touch the input", func(t *testing.T) {
		assert.Len(t, result.Records, 7)
		assert.Equal(t, "1", result.Records[0]["SurfaceMelodyGroup"])
	})
}

func TestAssignmentMapZeroValue(t *testing.T) {
	var m agreement.AssignmentMap
	_, ok := m.Get("w1")
	assert.False(t, ok)
	assert.Zero(t, m.Len())

	m.Set("w1", 2)
	g, ok := m.Get("w1")
	assert.True(t, ok)
	assert.Equal(t, agreement.GroupNumber(2), g)
}

func TestAnnotatorExemplar(t *testing.T) {
	a := agreement.Annotator{
		ID: "alice",
		Groups: []agreement.GroupDefinition{
			{Label: "x", Exemplar: agreement.Record{"Written Form": "bad"}},
			agreement.NewGroupDefinition(1, agreement.Record{"Written Form": "ba"}),
			agreement.NewGroupDefinition(1, agreement.Record{"Written Form": "second"}),
			agreement.NewGroupDefinition(2, nil),
		},
	}

	assert.Equal(t, agreement.Record{"Written Form": "ba"}, a.Exemplar(1))
	assert.Nil(t, a.Exemplar(2))
	assert.Nil(t, a.Exemplar(3))

	// Exemplars are copies.
	ex := a.Exemplar(1)
	ex["Written Form"] = "changed"
	assert.Equal(t, "ba", a.Groups[1].Exemplar["Written Form"])
}
