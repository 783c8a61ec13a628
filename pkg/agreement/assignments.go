package agreement

import (
	"slices"
	"strconv"
	"strings"
)

// ParseGroupNumber reads a group number from a record field. Surrounding
// whitespace is ignored and a leading integer is accepted even when other
// characters follow it ("3", " 3 ", "3a" all give 3). Empty and non-numeric
// values report false; callers treat the word as unclassified.
func ParseGroupNumber(value string) (GroupNumber, bool) {
	s := strings.TrimSpace(value)
	end := 0
	if end < len(s) && (s[end] == '-' || s[end] == '+') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, false
	}
	n, err := strconv.Atoi(s[:end])
	if err != nil {
		return 0, false
	}
	return GroupNumber(n), true
}

func formatGroupNumber(n GroupNumber) string {
	return strconv.Itoa(int(n))
}

// AssignmentMap maps words to the group one speaker assigned them.
// Keys remember the order in which they were first seen so iteration is
// reproducible. A key seen more than once keeps its last value.
type AssignmentMap struct {
	groups map[ItemKey]GroupNumber
	order  []ItemKey
}

// NewAssignmentMap creates an empty assignment map.
func NewAssignmentMap() AssignmentMap {
	return AssignmentMap{groups: make(map[ItemKey]GroupNumber)}
}

// Set assigns a word to a group, overwriting any earlier assignment.
func (m *AssignmentMap) Set(key ItemKey, group GroupNumber) {
	if m.groups == nil {
		m.groups = make(map[ItemKey]GroupNumber)
	}
	if _, seen := m.groups[key]; !seen {
		m.order = append(m.order, key)
	}
	m.groups[key] = group
}

// Get returns the group assigned to a word.
func (m AssignmentMap) Get(key ItemKey) (GroupNumber, bool) {
	g, ok := m.groups[key]
	return g, ok
}

// Len returns the number of classified words.
func (m AssignmentMap) Len() int {
	return len(m.order)
}

// Keys returns the classified words in first-seen order.
func (m AssignmentMap) Keys() []ItemKey {
	return slices.Clone(m.order)
}

// Groups returns the distinct group numbers in ascending order.
func (m AssignmentMap) Groups() []GroupNumber {
	seen := make(map[GroupNumber]struct{})
	var out []GroupNumber
	for _, k := range m.order {
		g := m.groups[k]
		if _, ok := seen[g]; ok {
			continue
		}
		seen[g] = struct{}{}
		out = append(out, g)
	}
	slices.Sort(out)
	return out
}

// Partition returns the members of every group, each in first-seen order.
func (m AssignmentMap) Partition() map[GroupNumber][]ItemKey {
	out := make(map[GroupNumber][]ItemKey)
	for _, k := range m.order {
		g := m.groups[k]
		out[g] = append(out[g], k)
	}
	return out
}

// BuildAssignmentMap scans a speaker's records and keeps every record with a
// non-empty key and a parseable group number. Records without a group are
// unclassified, never an error.
func BuildAssignmentMap(result AnnotatorResult, fields Fields) AssignmentMap {
	m := NewAssignmentMap()
	for _, record := range result.Records {
		key, ok := record.Get(fields.Key)
		if !ok || key == "" {
			continue
		}
		raw, ok := record.Get(fields.Group)
		if !ok {
			continue
		}
		group, ok := ParseGroupNumber(raw)
		if !ok {
			continue
		}
		m.Set(ItemKey(key), group)
	}
	return m
}

// Annotator is a speaker's derived view: the assignment map plus the group
// definitions used to resolve exemplars.
type Annotator struct {
	ID     string
	Map    AssignmentMap
	Groups []GroupDefinition
}

// NewAnnotator builds the derived view of one speaker's submission.
func NewAnnotator(result AnnotatorResult, fields Fields) Annotator {
	return Annotator{
		ID:     result.ID,
		Map:    BuildAssignmentMap(result, fields),
		Groups: result.Groups,
	}
}

// Exemplar returns the exemplar of the first group definition whose number
// matches, or nil when there is none.
func (a Annotator) Exemplar(group GroupNumber) Record {
	for _, def := range a.Groups {
		if n, ok := def.Number(); ok && n == group {
			return def.Exemplar.Clone()
		}
	}
	return nil
}
