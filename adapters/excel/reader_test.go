package excel

import (
	"bytes"
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"

	"samplemeta/adapters/spelling"
	"samplemeta/domain/core"
	"samplemeta/domain/experiment"
	"samplemeta/domain/sheet"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

// stubSuggester flags exactly the values it knows.
type stubSuggester map[string]string

func (s stubSuggester) Suggest(raw string) (string, bool) {
	fix, ok := s[raw]
	return fix, ok
}

// writeWorkbook generates a template for project and fills in cells (A1 names).
func writeWorkbook(t *testing.T, project experiment.Descriptor, cells map[string]string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "entry.xlsx")
	require.NoError(t, NewTemplateWriter(nil).WriteFile(path, project))

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	for cell, value := range cells {
		require.NoError(t, f.SetCellStr("DataEntry", cell, value))
	}
	require.NoError(t, f.Save())
	return path
}

func threeGroups() experiment.Descriptor {
	return experiment.NewDescriptor("Liver study", "lab", "", "A", "B", "C")
}

func TestImportSuccess(t *testing.T) {
	project := threeGroups()
	path := writeWorkbook(t, project, map[string]string{
		"C13": "M", "D13": "F", "E13": "M", // Sex
		"C15": "liver", "D15": "liver", "E15": "liver", // Tissue
		"C30": "25C", "D30": "25C", "E30": "25C", // Digestion Temperature
	})

	result := NewImporter(nil, stubSuggester{}).ImportFile(project, path)
	require.True(t, result.Success(), result.Message())
	assert.Equal(t, experiment.SuccessMessage, result.Message())
	assert.NoError(t, result.Err())

	data := result.Data()
	labels := sheet.DefaultTemplate().CatalogLabels()
	assert.Equal(t, 3*len(labels), data.Len(), "one entry per group, category and label")

	v, ok := data.Get("B", "Sample ID", "Sex")
	require.True(t, ok)
	assert.Equal(t, "F", v.Text())

	v, ok = data.Get("A", "MS Param", "Instrument")
	require.True(t, ok)
	assert.True(t, v.IsNull(), "empty cells import as null")

	iv := result.IndependentVariables()
	assert.Equal(t, []experiment.Label{"Sex"}, iv.Labels())
	assert.ElementsMatch(t, []string{"M", "F"}, iv.Strings("Sex"))
	assert.False(t, result.HasTypos())
}

func TestImportReader(t *testing.T) {
	project := experiment.NewDescriptor("Upload", "", "", "Placebo")
	var buf bytes.Buffer
	require.NoError(t, NewTemplateWriter(nil).Write(&buf, project))

	result := NewImporter(nil, nil).ImportReader(project, &buf)
	require.True(t, result.Success(), result.Message())
	assert.Equal(t, []experiment.GroupName{"Placebo"}, result.Data().Groups())
}

func TestImportGroupMismatch(t *testing.T) {
	project := threeGroups()
	path := writeWorkbook(t, project, map[string]string{"D8": "b", "C13": "M"})

	result := NewImporter(nil, stubSuggester{}).ImportFile(project, path)
	assert.False(t, result.Success())
	assert.Equal(t, "Uploaded Sheet Groups Didn't Correspond To Expected Groups (at[8,4])\nEXPECTED: B != GOT: b", result.Message())
	assert.True(t, core.IsSchemaMismatch(result.Err()))
	assert.Contains(t, result.Err().Error(), "D8")
	assert.Empty(t, result.Data())
	assert.Empty(t, result.IndependentVariables())
	assert.Equal(t, project, result.Project())
}

func TestImportMissingGroupCell(t *testing.T) {
	written := experiment.NewDescriptor("Study", "", "", "A")
	path := writeWorkbook(t, written, nil)

	expected := experiment.NewDescriptor("Study", "", "", "A", "B")
	result := NewImporter(nil, nil).ImportFile(expected, path)
	assert.False(t, result.Success())
	assert.True(t, strings.HasSuffix(result.Message(), "EXPECTED: B != GOT: <empty>"))
	assert.Empty(t, result.Data())
}

func TestImportIOFailure(t *testing.T) {
	project := threeGroups()

	t.Run("missing file", func(t *testing.T) {
		result := NewImporter(nil, nil).ImportFile(project, filepath.Join(t.TempDir(), "nope.xlsx"))
		assert.False(t, result.Success())
		assert.True(t, strings.HasPrefix(result.Message(), "Failed To Read This File Due To Exception: "))
		assert.True(t, core.IsIOFailure(result.Err()))
	})

	t.Run("not a workbook", func(t *testing.T) {
		result := NewImporter(nil, nil).ImportReader(project, strings.NewReader("subject,sex\n1,M\n"))
		assert.False(t, result.Success())
		assert.True(t, core.IsIOFailure(result.Err()))
	})

	t.Run("no DataEntry sheet", func(t *testing.T) {
		f := excelize.NewFile()
		path := filepath.Join(t.TempDir(), "other.xlsx")
		require.NoError(t, f.SaveAs(path))
		require.NoError(t, f.Close())

		result := NewImporter(nil, nil).ImportFile(project, path)
		assert.False(t, result.Success())
		assert.True(t, core.IsIOFailure(result.Err()))
		assert.Empty(t, result.Data())
	})
}

func TestImportZeroGroups(t *testing.T) {
	project := experiment.NewDescriptor("Empty", "", "")
	path := writeWorkbook(t, project, nil)

	result := NewImporter(nil, nil).ImportFile(project, path)
	require.True(t, result.Success())
	assert.Empty(t, result.Data())
	assert.Empty(t, result.IndependentVariables())
}

func TestImportNullCountsAsValue(t *testing.T) {
	project := experiment.NewDescriptor("Study", "", "", "A", "B")
	path := writeWorkbook(t, project, map[string]string{"C14": "8 weeks"}) // Age only for A

	result := NewImporter(nil, nil).ImportFile(project, path)
	require.True(t, result.Success())
	iv := result.IndependentVariables()
	require.Contains(t, iv, experiment.Label("Age"))
	assert.ElementsMatch(t, []experiment.Value{experiment.TextValue("8 weeks"), experiment.NullValue()}, iv["Age"])
}

func TestImportTypos(t *testing.T) {
	project := experiment.NewDescriptor("Study", "", "", "A", "B")
	path := writeWorkbook(t, project, map[string]string{
		"C15": "mosue", "D15": "mouse", // Tissue
		"C11": "mosue", // Species
		"C68": "MS1", "D68": "42", // Instrument
	})
	result := NewImporter(nil, stubSuggester{"mosue": "mouse"}).ImportFile(project, path)
	require.True(t, result.Success())

	typos := result.PossibleTypos()
	assert.Equal(t, experiment.TypoReport{"mosue": {"mouse": {"E11", "E15"}}}, typos)

	v, _ := result.Data().Get("A", "Sample ID", "Tissue")
	assert.Equal(t, "mosue", v.Text(), "raw values are never rewritten")
}

func TestImportValuesAreVerbatim(t *testing.T) {
	project := experiment.NewDescriptor("Study", "", "", "A")
	cells := map[string]string{
		"C10": "Plasma, EDTA",
		"C26": "8M urea / 50mM ABC",
		"C51": "300 nL/min",
		"C84": "RF 60%",
	}
	path := writeWorkbook(t, project, cells)

	result := NewImporter(nil, stubSuggester{}).ImportFile(project, path)
	require.True(t, result.Success())
	require.False(t, result.HasTypos())

	data := result.Data()
	for label, want := range map[experiment.Label]string{
		"Sample Type":  "Plasma, EDTA",
		"Lysis Buffer": "8M urea / 50mM ABC",
		"Flow Rate":    "300 nL/min",
		"RF Lens":      "RF 60%",
	} {
		found := false
		data.Walk(func(_ experiment.GroupName, _ experiment.Category, l experiment.Label, v experiment.Value) {
			if l == label {
				found = true
				assert.Equal(t, want, v.Text())
			}
		})
		assert.True(t, found, "label %s", label)
	}
}

func TestImportIsDeterministic(t *testing.T) {
	project := threeGroups()
	path := writeWorkbook(t, project, map[string]string{
		"C13": "M", "D13": "F", "E13": "X",
		"C15": "mosue", "D15": "liver", "E15": "kidney",
	})
	im := NewImporter(nil, stubSuggester{"mosue": "mouse"})

	first := im.ImportFile(project, path)
	second := im.ImportFile(project, path)

	a, err := json.Marshal(first)
	require.NoError(t, err)
	b, err := json.Marshal(second)
	require.NoError(t, err)
	assert.JSONEq(t, string(a), string(b))

	fa, err := first.Fingerprint()
	require.NoError(t, err)
	fb, err := second.Fingerprint()
	require.NoError(t, err)
	assert.Equal(t, fa, fb)
}

func TestImportDuplicateLabelKeepsLaterRow(t *testing.T) {
	project := experiment.NewDescriptor("Study", "", "", "A")
	path := writeWorkbook(t, project, map[string]string{
		"B20": "Sex", // custom row repeats a catalogue label
		"C13": "M",
		"C20": "F",
	})

	result := NewImporter(nil, nil).ImportFile(project, path)
	require.True(t, result.Success())
	v, ok := result.Data().Get("A", "Sample ID", "Sex")
	require.True(t, ok)
	assert.Equal(t, "F", v.Text())
}

func TestImportCustomLabels(t *testing.T) {
	project := experiment.NewDescriptor("Study", "", "", "A", "B")
	path := writeWorkbook(t, project, map[string]string{
		"B62": "Column Lot", "C62": "L1", "D62": "L2",
	})

	result := NewImporter(nil, nil).ImportFile(project, path)
	require.True(t, result.Success())
	v, ok := result.Data().Get("B", "LC Param", "Column Lot")
	require.True(t, ok)
	assert.Equal(t, "L2", v.Text())
	assert.Contains(t, result.IndependentVariables(), experiment.Label("Column Lot"))
}

func TestImportSuggesterPanicIsNotFatal(t *testing.T) {
	project := experiment.NewDescriptor("Study", "", "", "A")
	path := writeWorkbook(t, project, map[string]string{"C13": "M"})

	result := NewImporter(nil, panicSuggester{}).ImportFile(project, path)
	require.True(t, result.Success())
	assert.False(t, result.HasTypos())
}

type panicSuggester struct{}

func (panicSuggester) Suggest(string) (string, bool) { panic("dictionary unavailable") }

func TestImportWithDictionarySuggester(t *testing.T) {
	project := experiment.NewDescriptor("Study", "", "", "A", "B")
	path := writeWorkbook(t, project, map[string]string{
		"C15": "mouze", "D15": "mouse",
		"C73": "MS1", "D73": "42",
	})
	dict := spelling.Dictionary{"mouse": 10, "plasma": 10, "liver": 10}
	suggester := spelling.NewSuggester(spelling.NewFuzzyCorrector(dict, 2))

	result := NewImporter(nil, suggester).ImportFile(project, path)
	require.True(t, result.Success())
	assert.Equal(t, experiment.TypoReport{"mouze": {"mouse": {"E15"}}}, result.PossibleTypos())
}
