package experiment

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInferIndependentVariables(t *testing.T) {
	d := make(Data)
	d.Set("A", "Sample ID", "Sex", TextValue("M"))
	d.Set("B", "Sample ID", "Sex", TextValue("F"))
	d.Set("C", "Sample ID", "Sex", TextValue("M"))
	d.Set("A", "Sample Prep", "Temp", TextValue("25C"))
	d.Set("B", "Sample Prep", "Temp", TextValue("25C"))
	d.Set("C", "Sample Prep", "Temp", TextValue("25C"))

	iv := InferIndependentVariables(d, []GroupName{"A", "B", "C"})

	assert.Equal(t, []Label{"Sex"}, iv.Labels())
	assert.ElementsMatch(t, []string{"M", "F"}, iv.Strings("Sex"))
	assert.NotContains(t, iv, Label("Temp"))
}

func TestInferIndependentVariablesNullIsAValue(t *testing.T) {
	d := make(Data)
	d.Set("A", "MS Param", "AGC Target", NullValue())
	d.Set("B", "MS Param", "AGC Target", TextValue("3e6"))
	d.Set("A", "MS Param", "Polarity", NullValue())
	d.Set("B", "MS Param", "Polarity", NullValue())

	iv := InferIndependentVariables(d, []GroupName{"A", "B"})

	assert.Equal(t, []Value{NullValue(), TextValue("3e6")}, iv["AGC Target"])
	assert.NotContains(t, iv, Label("Polarity"))
}

func TestInferIndependentVariablesIgnoresCategory(t *testing.T) {
	d := make(Data)
	d.Set("A", "Sample ID", "Notes", TextValue("x"))
	d.Set("B", "MS Param", "Notes", TextValue("y"))

	iv := InferIndependentVariables(d, nil)
	assert.Equal(t, []string{"x", "y"}, iv.Strings("Notes"))
}

func TestInferIndependentVariablesFollowsGroupOrder(t *testing.T) {
	d := make(Data)
	d.Set("A", "Sample ID", "Sex", TextValue("M"))
	d.Set("B", "Sample ID", "Sex", TextValue("F"))

	iv := InferIndependentVariables(d, []GroupName{"B", "A"})
	assert.Equal(t, []string{"F", "M"}, iv.Strings("Sex"))
}

func TestInferIndependentVariablesEmpty(t *testing.T) {
	iv := InferIndependentVariables(make(Data), nil)
	assert.Empty(t, iv)
	assert.Empty(t, iv.Labels())
}

func TestIndependentVariablesClone(t *testing.T) {
	iv := IndependentVariables{"Sex": {TextValue("M"), TextValue("F")}}
	c := iv.Clone()
	c["Sex"][0] = TextValue("X")
	assert.Equal(t, "M", iv["Sex"][0].Text())
}
