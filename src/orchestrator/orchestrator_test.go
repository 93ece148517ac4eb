package orchestrator

import (
	"testing"

	"dashboard-builder/src/generators"
	"dashboard-builder/src/logger"
	"dashboard-builder/src/models"
	"dashboard-builder/src/schemas"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// -----------------------------------------------------------------------------

func newTestOrchestrator() *Orchestrator {
	log := logger.NewLogger("ERROR", "test")
	return NewOrchestrator(generators.NewRegistry(nil), log)
}

// -----------------------------------------------------------------------------

func TestGenerateOneAllBuiltinTypes(t *testing.T) {
	orch := newTestOrchestrator()

	for _, typ := range models.AllWidgetTypes() {
		resp, genErr := orch.GenerateOne(typ)
		require.Nil(t, genErr, "type %s", typ)
		require.NotNil(t, resp)

		assert.Equal(t, typ, resp.Type)
		assert.Greater(t, resp.Timestamp, int64(0))
		assert.NoError(t, schemas.ValidateEnvelope(resp))
	}
}

// -----------------------------------------------------------------------------

func TestGenerateOneUnknownType(t *testing.T) {
	orch := newTestOrchestrator()

	resp, genErr := orch.GenerateOne("invalid")
	assert.Nil(t, resp)
	require.NotNil(t, genErr)
	assert.Equal(t, CodeUnknownType, genErr.Code)
	assert.Contains(t, genErr.Message, "invalid")
}

// -----------------------------------------------------------------------------

func TestGenerateBatchDistinctTypes(t *testing.T) {
	orch := newTestOrchestrator()

	requested := []models.WidgetType{
		models.WidgetTypeBar,
		models.WidgetTypeLine,
		models.WidgetTypeBar, // duplicate collapses
		models.WidgetTypeScatter,
	}

	results := orch.GenerateBatch(requested)
	require.Len(t, results, 3)

	for _, typ := range []models.WidgetType{models.WidgetTypeBar, models.WidgetTypeLine, models.WidgetTypeScatter} {
		res, ok := results[typ]
		require.True(t, ok, "missing result for %s", typ)
		require.Nil(t, res.Err)
		assert.Equal(t, typ, res.Response.Type)
	}
}

// -----------------------------------------------------------------------------

func TestGenerateBatchCarriesPerTypeErrors(t *testing.T) {
	orch := newTestOrchestrator()

	results := orch.GenerateBatch([]models.WidgetType{models.WidgetTypeBar, "bogus"})
	require.Len(t, results, 2)

	require.Nil(t, results[models.WidgetTypeBar].Err)

	bad := results["bogus"]
	assert.Nil(t, bad.Response)
	require.NotNil(t, bad.Err)
	assert.Equal(t, CodeUnknownType, bad.Err.Code)
}

// -----------------------------------------------------------------------------

func TestGenerateBatchEmpty(t *testing.T) {
	orch := newTestOrchestrator()

	results := orch.GenerateBatch(nil)
	assert.Empty(t, results)
}

// -----------------------------------------------------------------------------

func TestSafeGenerateRecoversPanic(t *testing.T) {
	panicking := func(seed int) interface{} { panic("boom") }

	data, err := safeGenerate(panicking, 0)
	assert.Nil(t, data)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}
