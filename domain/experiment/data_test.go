package experiment

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDataSetCreatesNestedEntries(t *testing.T) {
	d := make(Data)
	d.Set("Placebo", "Sample ID", "Species", TextValue("mouse"))
	d.Set("Placebo", "Sample ID", "Sex", NullValue())
	d.Set("Drug", "LC Param", "Column", TextValue("C18"))

	v, ok := d.Get("Placebo", "Sample ID", "Species")
	require.True(t, ok)
	assert.Equal(t, "mouse", v.Text())

	v, ok = d.Get("Placebo", "Sample ID", "Sex")
	require.True(t, ok)
	assert.True(t, v.IsNull())

	_, ok = d.Get("Nobody", "Sample ID", "Sex")
	assert.False(t, ok)
	assert.NotContains(t, d, GroupName("Nobody"), "Get must not insert")

	assert.Equal(t, 3, d.Len())
	assert.Equal(t, []GroupName{"Drug", "Placebo"}, d.Groups())
}

func TestDataWalkIsSorted(t *testing.T) {
	d := make(Data)
	d.Set("B", "MS Param", "Resolution", TextValue("60000"))
	d.Set("A", "Sample Prep", "Buffer", TextValue("PBS"))
	d.Set("A", "LC Param", "Gradient", TextValue("90 min"))
	d.Set("A", "LC Param", "Column", TextValue("C18"))

	var seen []string
	d.Walk(func(g GroupName, cat Category, label Label, v Value) {
		seen = append(seen, string(g)+"/"+string(cat)+"/"+string(label))
	})

	assert.Equal(t, []string{
		"A/LC Param/Column",
		"A/LC Param/Gradient",
		"A/Sample Prep/Buffer",
		"B/MS Param/Resolution",
	}, seen)
}

func TestDataCloneIsDeep(t *testing.T) {
	d := make(Data)
	d.Set("A", "Sample ID", "Sex", TextValue("M"))

	c := d.Clone()
	c.Set("A", "Sample ID", "Sex", TextValue("F"))

	v, _ := d.Get("A", "Sample ID", "Sex")
	assert.Equal(t, "M", v.Text())
}

func TestValueJSON(t *testing.T) {
	d := make(Data)
	d.Set("A", "Sample ID", "Sex", TextValue("M"))
	d.Set("A", "Sample ID", "Age", NullValue())

	b, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"A":{"Sample ID":{"Sex":"M","Age":null}}}`, string(b))

	var back Data
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, d, back)
}

func TestValueSQL(t *testing.T) {
	dv, err := NullValue().Value()
	require.NoError(t, err)
	assert.Nil(t, dv)

	dv, err = TextValue("25C").Value()
	require.NoError(t, err)
	assert.Equal(t, "25C", dv)

	var v Value
	require.NoError(t, v.Scan([]byte("PBS")))
	assert.Equal(t, TextValue("PBS"), v)
	require.NoError(t, v.Scan(nil))
	assert.True(t, v.IsNull())
	assert.Error(t, v.Scan(42))
}

func TestTypoReportAdd(t *testing.T) {
	r := make(TypoReport)
	r.Add("mosue", "mouse", "E10")
	r.Add("mosue", "mouse", "F10")
	r.Add("plasam", "plasma", "E12")

	assert.Equal(t, []string{"E10", "F10"}, r.Locations("mosue", "mouse"))
	assert.Equal(t, []string{"E12"}, r.Locations("plasam", "plasma"))
	assert.Nil(t, r.Locations("missing", "x"))

	c := r.Clone()
	c.Add("mosue", "mouse", "G10")
	assert.Len(t, r.Locations("mosue", "mouse"), 2)
}

func TestDescriptorValidate(t *testing.T) {
	tests := []struct {
		name    string
		d       Descriptor
		wantErr bool
	}{
		{"valid", NewDescriptor("Liver study", "alice", "", "Placebo", "Drug"), false},
		{"no groups", NewDescriptor("Liver study", "alice", ""), false},
		{"missing name", NewDescriptor("  ", "alice", "", "Placebo"), true},
		{"blank group", NewDescriptor("Liver study", "alice", "", "Placebo", " "), true},
		{"duplicate group", NewDescriptor("Liver study", "alice", "", "Placebo", "Placebo"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.d.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
