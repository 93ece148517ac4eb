package orchestrator

import (
	"fmt"
	"math/rand"
	"sync"
	"time"

	"dashboard-builder/src/generators"
	"dashboard-builder/src/logger"
	"dashboard-builder/src/models"
	"dashboard-builder/src/schemas"
)

// -----------------------------------------------------------------------------
// Error Codes
// -----------------------------------------------------------------------------

const (
	CodeUnknownType      = "UNKNOWN_TYPE"
	CodeGenerationFailed = "GENERATION_FAILED"
	CodeValidationFailed = "VALIDATION_FAILED"
)

// OrchestratorError is returned as a value, never raised. Code is one of the
// constants above; UNKNOWN_TYPE maps to a client error at the HTTP boundary,
// the other two to server errors.
type OrchestratorError struct {
	Message string `json:"error"`
	Code    string `json:"code"`
}

func (e *OrchestratorError) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// -----------------------------------------------------------------------------
// Batch Result
// -----------------------------------------------------------------------------

// BatchResult carries either a response or an error for one requested type.
type BatchResult struct {
	Response *models.MWidgetDataResponse
	Err      *OrchestratorError
}

// -----------------------------------------------------------------------------
// Orchestrator
// -----------------------------------------------------------------------------

// Orchestrator composes generator dispatch and schema validation into a single
// fallible operation. Generators are pure functions of a per-call seed, so no
// locking is needed between concurrent generations.
type Orchestrator struct {
	Generators *generators.Registry
	Logger     *logger.Logger
}

// -----------------------------------------------------------------------------

func NewOrchestrator(reg *generators.Registry, log *logger.Logger) *Orchestrator {
	return &Orchestrator{
		Generators: reg,
		Logger:     log,
	}
}

// -----------------------------------------------------------------------------

// GenerateOne produces a validated envelope for one widget type. A single
// attempt either succeeds or reports; there are no retries.
func (o *Orchestrator) GenerateOne(t models.WidgetType) (*models.MWidgetDataResponse, *OrchestratorError) {
	generator, ok := o.Generators.Get(t)
	if !ok {
		return nil, &OrchestratorError{
			Message: fmt.Sprintf("Unknown widget type: %s", t),
			Code:    CodeUnknownType,
		}
	}

	seed := rand.Intn(1000)

	data, err := safeGenerate(generator, seed)
	if err != nil {
		o.Logger.Error("Generation fault for type %s: %v", t, err)
		return nil, &OrchestratorError{
			Message: fmt.Sprintf("Generation failed: %v", err),
			Code:    CodeGenerationFailed,
		}
	}

	resp := &models.MWidgetDataResponse{
		Type:      t,
		Data:      data,
		Timestamp: time.Now().UnixMilli(),
	}

	// Catches any generator/schema mismatch before a consumer sees it.
	if err := schemas.ValidateEnvelope(resp); err != nil {
		o.Logger.Error("Schema validation failed for type %s: %v", t, err)
		return nil, &OrchestratorError{
			Message: fmt.Sprintf("Data validation failed: %v", err),
			Code:    CodeValidationFailed,
		}
	}

	return resp, nil
}

// -----------------------------------------------------------------------------

// GenerateBatch fans out one generation per distinct requested type and joins
// on all of them. Duplicate types in the request collapse to a single entry,
// so the result holds exactly one value per distinct type.
func (o *Orchestrator) GenerateBatch(types []models.WidgetType) map[models.WidgetType]BatchResult {
	distinct := make([]models.WidgetType, 0, len(types))
	seen := make(map[models.WidgetType]struct{}, len(types))
	for _, t := range types {
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		distinct = append(distinct, t)
	}

	results := make(map[models.WidgetType]BatchResult, len(distinct))
	var mu sync.Mutex
	var wg sync.WaitGroup

	for _, t := range distinct {
		wg.Add(1)
		go func(t models.WidgetType) {
			defer wg.Done()
			resp, genErr := o.GenerateOne(t)
			mu.Lock()
			results[t] = BatchResult{Response: resp, Err: genErr}
			mu.Unlock()
		}(t)
	}
	wg.Wait()

	return results
}

// -----------------------------------------------------------------------------

// safeGenerate shields the orchestrator from a faulting generator.
func safeGenerate(g generators.GeneratorFunc, seed int) (data interface{}, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("%v", r)
		}
	}()
	return g(seed), nil
}
