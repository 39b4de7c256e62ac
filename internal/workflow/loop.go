// Package workflow runs selective extraction with interactive overflow correction.
//
// The loop moves through four states:
//
//	extract -> check -> done
//	                 -> overflow prompt -> done (overflow accepted)
//	                                    -> re-extract -> check
//
// It only finishes when the latest extraction fits under the threshold or the
// controlling actor explicitly accepts the overflowing content.
package workflow

import (
	"context"
	"fmt"
	"strconv"

	"go.uber.org/zap"

	"github.com/temirov/gitingest-agent/internal/filters"
	"github.com/temirov/gitingest-agent/internal/output"
	"github.com/temirov/gitingest-agent/internal/tokenizer"
	"github.com/temirov/gitingest-agent/internal/types"
)

const (
	// EncodingWarningLimit is how many affected files each iteration lists.
	EncodingWarningLimit = 3

	// NarrowestContentType is offered as the default when narrowing.
	NarrowestContentType = types.ContentTypeInstallation

	decisionLabel      = "Select option"
	contentTypeLabel   = "Content type (%s)"
	countFailedMessage = "Failed to read extracted content"

	choiceNarrow = 1
	choiceAccept = 2
)

type state int

const (
	stateExtract state = iota
	stateCheck
	stateOverflowPrompt
	stateDone
)

func (current state) String() string {
	switch current {
	case stateExtract:
		return "extract"
	case stateCheck:
		return "check"
	case stateOverflowPrompt:
		return "overflow-prompt"
	case stateDone:
		return "done"
	default:
		return "unknown"
	}
}

// Extractor performs one selective extraction for a content-type tag.
type Extractor interface {
	ExtractSpecific(ctx context.Context, locator types.Locator, tag string) (types.ExtractionResult, error)
}

// Outcome describes how the loop finished.
type Outcome struct {
	// Result is the latest extraction.
	Result types.ExtractionResult
	// Tokens is the estimate for Result.
	Tokens int
	// Iterations counts extractions performed.
	Iterations int
	// OverflowAccepted is set when the actor proceeded past the threshold.
	OverflowAccepted bool
}

// Loop is the overflow-correction state machine.
type Loop struct {
	extractor   Extractor
	prompter    Prompter
	reporter    *output.Reporter
	logger      *zap.Logger
	countTokens func(path string) (int, error)
}

// NewLoop wires a Loop. Token counts use the four-characters-per-token estimate.
func NewLoop(extractor Extractor, prompter Prompter, reporter *output.Reporter, logger *zap.Logger) *Loop {
	if logger == nil {
		logger = zap.NewNop()
	}
	if reporter == nil {
		reporter = output.NewReporter(nil, nil)
	}
	return &Loop{
		extractor:   extractor,
		prompter:    prompter,
		reporter:    reporter,
		logger:      logger,
		countTokens: tokenizer.CountFile,
	}
}

// Run extracts tag for locator and resolves any overflow with the prompter.
// Extraction, storage, and validation failures end the loop immediately.
func (loop *Loop) Run(ctx context.Context, locator types.Locator, tag string) (Outcome, error) {
	var outcome Outcome
	currentTag := tag
	current := stateExtract

	for current != stateDone {
		loop.logger.Debug("overflow loop transition",
			zap.Stringer("state", current),
			zap.String("contentType", currentTag),
			zap.Int("iteration", outcome.Iterations),
		)
		switch current {
		case stateExtract:
			loop.reporter.Line("Extracting %s content...", currentTag)
			result, err := loop.extractor.ExtractSpecific(ctx, locator, currentTag)
			if err != nil {
				return Outcome{}, err
			}
			outcome.Result = result
			outcome.Iterations++
			current = stateCheck

		case stateCheck:
			tokens, err := loop.countTokens(outcome.Result.Path)
			if err != nil {
				return Outcome{}, types.StorageError(countFailedMessage, err)
			}
			outcome.Tokens = tokens
			loop.reporter.Success("Saved to: %s", outcome.Result.Path)
			loop.reporter.TokenCount(tokens)
			loop.reporter.EncodingWarnings(outcome.Result.EncodingErrors, EncodingWarningLimit)
			if tokenizer.ShouldExtractFull(tokens, tokenizer.DefaultThreshold) {
				current = stateDone
			} else {
				current = stateOverflowPrompt
			}

		case stateOverflowPrompt:
			loop.reportOverflow(outcome.Tokens)
			decision, err := loop.askDecision()
			if err != nil {
				return Outcome{}, err
			}
			loop.logger.Debug("overflow decision", zap.Stringer("decision", decision))
			if decision == types.DecisionAccept {
				loop.reporter.Blank()
				loop.reporter.Warning("Proceeding with content exceeding token limit")
				loop.reporter.Line("   Analysis may be truncated")
				outcome.OverflowAccepted = true
				current = stateDone
				continue
			}
			nextTag, err := loop.askContentType()
			if err != nil {
				return Outcome{}, err
			}
			currentTag = nextTag
			loop.reporter.Blank()
			current = stateExtract
		}
	}
	return outcome, nil
}

func (loop *Loop) reportOverflow(tokens int) {
	loop.reporter.Blank()
	loop.reporter.Warning("Content exceeds token limit!")
	loop.reporter.Line("   Current: %s", output.FormatTokenCount(tokens))
	loop.reporter.Line("   Target: %s", output.FormatTokenCount(tokenizer.DefaultThreshold))
	loop.reporter.Line("   Overflow: %s", output.FormatTokenCount(tokens-tokenizer.DefaultThreshold))
	loop.reporter.Blank()
	loop.reporter.Line("Options:")
	loop.reporter.Line("  %d) Narrow selection further", choiceNarrow)
	loop.reporter.Line("  %d) Proceed with partial content", choiceAccept)
}

// askDecision re-prompts until the answer is one of the two options.
func (loop *Loop) askDecision() (types.OverflowDecision, error) {
	for {
		answer, err := loop.prompter.Ask(decisionLabel, strconv.Itoa(choiceNarrow))
		if err != nil {
			return 0, err
		}
		choice, parseErr := strconv.Atoi(answer)
		switch {
		case parseErr == nil && choice == choiceNarrow:
			return types.DecisionNarrow, nil
		case parseErr == nil && choice == choiceAccept:
			return types.DecisionAccept, nil
		}
		loop.reporter.Line("Invalid choice. Please select %d or %d.", choiceNarrow, choiceAccept)
	}
}

// askContentType offers the narrowest presets and validates the answer.
func (loop *Loop) askContentType() (string, error) {
	loop.reporter.Blank()
	loop.reporter.Line("What would you like to extract instead?")
	loop.reporter.Line("Suggestion: Try a more specific filter:")
	loop.reporter.Line("  - installation: Just setup files")
	loop.reporter.Line("  - auto: README + minimal docs")

	answer, err := loop.prompter.Ask(fmt.Sprintf(contentTypeLabel, filters.ValidTags()), NarrowestContentType.String())
	if err != nil {
		return "", err
	}
	contentType, err := filters.ParseContentType(answer)
	if err != nil {
		return "", err
	}
	return contentType.String(), nil
}
