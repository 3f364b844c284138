package chart

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTool(t *testing.T) {
	for _, tool := range Tools() {
		assert.Equal(t, tool, ParseTool(tool.String()))
		assert.True(t, tool.Renders(), tool.String())
	}
	assert.Equal(t, None, ParseTool("none"))
	assert.False(t, None.Renders())

	for _, id := range []string{"", "Histogram", "pie", " histogram", "unrecognized"} {
		assert.Equal(t, Unrecognized, ParseTool(id), id)
	}
	assert.False(t, Unrecognized.Renders())
}

func TestParams_Validate(t *testing.T) {
	ds := mixedDataset()

	assert.NoError(t, Params{}.Validate(ds, Scatter))
	assert.NoError(t, WithAxes("age", "income").Validate(ds, Scatter))
	assert.ErrorIs(t, WithAxes("age", "missing").Validate(ds, Scatter), ErrInvalidParams)
	assert.ErrorIs(t, WithAxes("city", "age").Validate(ds, Scatter), ErrInvalidParams)
	// Axes only matter for scatter.
	assert.NoError(t, WithAxes("city", "age").Validate(ds, Histogram))

	assert.Nil(t, WithAxes("age", "").Axes)
}
