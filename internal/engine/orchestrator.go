package engine

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"tc-pump/internal/prompt"
	"tc-pump/internal/rules"
)

// ModelClient is the consumed model-call capability. An empty result
// or an error is a recoverable attempt failure, never fatal to a run.
type ModelClient interface {
	Generate(ctx context.Context, prompt string, maxOutputTokens int) (string, error)
}

// Config tunes the retry loop. Zero values fall back to the defaults
// below.
type Config struct {
	MaxAttempts     int
	MaxOutputTokens int
	Backoff         time.Duration
}

const (
	defaultMaxAttempts     = 3
	defaultMaxOutputTokens = 1024
)

// Orchestrator drives prompt -> model call -> normalize -> validate
// per field, with a bounded retry budget. Fields are processed
// strictly sequentially; the single result mapping is the only state
// crossing field boundaries.
type Orchestrator struct {
	client     ModelClient
	normalizer *Normalizer
	validator  *Validator
	config     Config
	logger     *zap.Logger
}

func NewOrchestrator(client ModelClient, validator *Validator, config Config, logger *zap.Logger) *Orchestrator {
	if config.MaxAttempts <= 0 {
		config.MaxAttempts = defaultMaxAttempts
	}
	if config.MaxOutputTokens <= 0 {
		config.MaxOutputTokens = defaultMaxOutputTokens
	}
	return &Orchestrator{
		client:     client,
		normalizer: NewNormalizer(logger),
		validator:  validator,
		config:     config,
		logger:     logger,
	}
}

// Run processes every field and aggregates accepted test cases. The
// run always completes: a field whose attempts are all exhausted is
// still recorded, with an empty case list. onProgress, when non-nil,
// is called once per finished field.
func (o *Orchestrator) Run(ctx context.Context, fields []rules.FieldRuleSet, onProgress func()) (*rules.GenerationResult, []rules.FieldReport) {
	result := rules.NewGenerationResult()
	reports := make([]rules.FieldReport, 0, len(fields))

	for _, field := range fields {
		report := o.runField(ctx, field, result)
		reports = append(reports, report)
		if onProgress != nil {
			onProgress()
		}
	}

	return result, reports
}

func (o *Orchestrator) runField(ctx context.Context, field rules.FieldRuleSet, result *rules.GenerationResult) rules.FieldReport {
	key := field.Key()

	for attempt := 1; attempt <= o.config.MaxAttempts; attempt++ {
		if attempt > 1 && o.config.Backoff > 0 {
			time.Sleep(o.config.Backoff)
		}

		o.logger.Info("attempt start",
			zap.String("field", key),
			zap.Int("attempt", attempt),
			zap.Int("max_attempts", o.config.MaxAttempts))

		// Rebuilt per attempt, matching the prompt's pure contract.
		p := prompt.Build(field)

		text, err := o.client.Generate(ctx, p, o.config.MaxOutputTokens)
		if err != nil {
			o.attemptFailure(key, attempt, "model call failed", err)
			continue
		}
		if strings.TrimSpace(text) == "" {
			o.attemptFailure(key, attempt, "empty model response", nil)
			continue
		}

		records, err := o.normalizer.Normalize(text)
		if err != nil {
			o.attemptFailure(key, attempt, "malformed response", err)
			continue
		}

		cases := o.validator.ValidateAndNormalize(records, field)
		if len(cases) == 0 {
			o.attemptFailure(key, attempt, "no valid test cases in response", nil)
			continue
		}

		result.Add(key, cases)
		o.logger.Info("field succeeded",
			zap.String("field", key),
			zap.Int("attempt", attempt),
			zap.Int("cases", len(cases)))
		return rules.FieldReport{
			FieldKey:  key,
			Attempts:  attempt,
			Generated: len(cases),
			Status:    "OK",
		}
	}

	// Exhausted: the field stays in the mapping with zero cases.
	result.Add(key, []rules.TestCase{})
	o.logger.Error("field exhausted",
		zap.String("field", key),
		zap.Int("attempts", o.config.MaxAttempts))
	return rules.FieldReport{
		FieldKey: key,
		Attempts: o.config.MaxAttempts,
		Status:   "EXHAUSTED",
		ErrorMsg: "no valid test cases after all attempts",
	}
}

func (o *Orchestrator) attemptFailure(key string, attempt int, reason string, err error) {
	fields := []zap.Field{
		zap.String("field", key),
		zap.Int("attempt", attempt),
		zap.String("reason", reason),
	}
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	o.logger.Warn("attempt failed", fields...)
}
