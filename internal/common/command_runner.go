package common

import (
	"context"
	"fmt"
	"os"

	"jobfit/internal/ai"
	"jobfit/internal/errors"
)

// CreateInputFunc defines how to create the specific operation input from file contents.
type CreateInputFunc[Input any] func(contents []string) (Input, error)

// LogDetailsFunc defines how to log the start of an operation.
type LogDetailsFunc[Input any] func(input Input, cfg CommandConfig)

// OperationFunc is a generic function signature for local engine operations.
type OperationFunc[Input, Output any] func(Input) (Output, error)

// AIOperationFunc is a generic function signature for any AI operation with context and token usage.
type AIOperationFunc[Input, Output any] func(context.Context, Input) (Output, *ai.TokenUsage, error)

// prepareInput reads and validates the argument files and builds the
// operation input from their contents.
func prepareInput[Input any](logger *errors.Logger, args []string, createInput CreateInputFunc[Input]) (Input, error) {
	var zero Input

	contents, err := NewFileProcessor(logger).ValidateAndReadFiles(args...)
	if err != nil {
		return zero, err
	}

	input, err := createInput(contents)
	if err != nil {
		return zero, fmt.Errorf("failed to create input from file contents: %w", err)
	}
	return input, nil
}

// RunCommand encapsulates the common logic for file-based CLI commands backed
// by the local matching engine. The engine is pure and never blocks, so no
// context is threaded through.
func RunCommand[Input, Output any](
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	operation OperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	input, err := prepareInput(logger, args, createInput)
	if err != nil {
		return err
	}

	logDetails(input, cmdConfig)

	result, err := operation(input)
	if err != nil {
		return err
	}

	return NewOutputHandler(logger).HandleOutput(result, cmdConfig)
}

// RunAICommand is the AI-backed variant of RunCommand. It threads the command
// context through to the provider and reports token usage after the call.
func RunAICommand[Input, Output any](
	ctx context.Context,
	logger *errors.Logger,
	cmdConfig CommandConfig,
	args []string,
	createInput CreateInputFunc[Input],
	aiOperation AIOperationFunc[Input, Output],
	logDetails LogDetailsFunc[Input],
) error {
	input, err := prepareInput(logger, args, createInput)
	if err != nil {
		return err
	}

	logDetails(input, cmdConfig)

	result, tokenUsage, err := aiOperation(ctx, input)
	if err != nil {
		return err
	}

	reportTokenUsage(logger, tokenUsage)

	return NewOutputHandler(logger).HandleOutput(result, cmdConfig)
}

func reportTokenUsage(logger *errors.Logger, usage *ai.TokenUsage) {
	if usage == nil {
		return
	}
	if logger != nil {
		logger.Info("AI token usage",
			"input_tokens", usage.InputTokens,
			"output_tokens", usage.OutputTokens,
			"total_tokens", usage.TotalTokens)
		return
	}
	fmt.Fprintf(os.Stderr, "AI token usage: input=%d, output=%d, total=%d\n",
		usage.InputTokens, usage.OutputTokens, usage.TotalTokens)
}
