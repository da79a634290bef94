// cmd/tools/blueprint-cli/main.go
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"archai-workers/internal/common/config"
	"archai-workers/internal/common/logger"
	"archai-workers/internal/common/observability"
	"archai-workers/internal/common/validation"
	gb "archai-workers/internal/workers/orchestration/generate-blueprint"
)

func main() {
	intakePath := flag.String("intake", "", "Path to a generate request JSON file (intake or legacyIntake)")
	answersPath := flag.String("answers", "", "Optional JSON object of clarification answers keyed by question id")
	asJSON := flag.Bool("json", false, "Print the raw blueprint JSON instead of the styled report")
	verbose := flag.Bool("v", false, "Log pipeline stages to stderr")
	flag.Parse()

	if *intakePath == "" {
		fmt.Fprintln(os.Stderr, "Error: -intake is required.")
		flag.Usage()
		os.Exit(1)
	}

	input, err := readRequest(*intakePath, *answersPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	log := logger.NewNoOpLogger()
	if *verbose {
		log = logger.NewZapAdapter(logger.New("debug", "console"))
	}

	out, err := run(context.Background(), input, log)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(out.Blueprint)
		return
	}
	fmt.Println(renderReport(out.Blueprint))
}

// readRequest validates the request file against the same schema the HTTP
// route uses, then merges answers from a separate file when given.
func readRequest(intakePath, answersPath string) (*gb.Input, error) {
	body, err := os.ReadFile(intakePath)
	if err != nil {
		return nil, fmt.Errorf("read intake: %w", err)
	}

	validator, err := validation.NewValidator(validation.GenerateRequestSchema)
	if err != nil {
		return nil, err
	}
	result := validator.ValidateJSON(body)
	if !result.Valid {
		return nil, fmt.Errorf("invalid request: %v", result.GetErrorMessages())
	}

	var input gb.Input
	if err := json.Unmarshal(body, &input); err != nil {
		return nil, fmt.Errorf("decode intake: %w", err)
	}

	if answersPath != "" {
		data, err := os.ReadFile(answersPath)
		if err != nil {
			return nil, fmt.Errorf("read answers: %w", err)
		}
		var answers map[string]string
		if err := json.Unmarshal(data, &answers); err != nil {
			return nil, fmt.Errorf("decode answers: %w", err)
		}
		if input.Answers == nil {
			input.Answers = map[string]string{}
		}
		for k, v := range answers {
			input.Answers[k] = v
		}
	}
	return &input, nil
}

// run executes the pipeline in demo mode without any sinks.
func run(ctx context.Context, input *gb.Input, log logger.Logger) (*gb.Output, error) {
	pipelineCfg := config.DefaultPipeline()
	pipelineCfg.ExecutionMode = config.ExecutionModeDemo
	input.ExecutionMode = config.ExecutionModeDemo

	cfg := gb.LoadConfig(pipelineCfg, config.ReasoningConfig{})
	pipeline := gb.NewPipeline(cfg, nil, observability.NewNoop(), log)
	handler := gb.NewHandler(cfg, pipeline, log)

	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()
	return handler.Execute(ctx, input)
}
