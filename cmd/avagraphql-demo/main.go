// Package main runs one instrumented GraphQL execution against a fake
// resolver set and logs the recorded observations. It exists to show
// how the pieces wire together: configuration, the observability
// bundle, and the instrumentation around request and field fetches.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/vyrodovalexey/avagraphql/config"
	"github.com/vyrodovalexey/avagraphql/graphql"
	"github.com/vyrodovalexey/avagraphql/graphql/observation"
	"github.com/vyrodovalexey/avagraphql/observability"
)

// Version information (set at build time).
var (
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

// cliFlags holds command line flags.
type cliFlags struct {
	configPath  string
	showVersion bool
}

func main() {
	flags := parseFlags()

	if flags.showVersion {
		printVersion()
		return
	}

	cfg := loadConfig(flags.configPath)

	obs, err := observability.New(cfg.Observability())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build observability: %v\n", err)
		os.Exit(1)
	}

	ctx := context.Background()
	if err := obs.Start(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "failed to start observability: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = obs.Stop(ctx) }()

	logger := obs.Logger()
	observability.SetGlobalLogger(logger)

	logger.Info("starting avagraphql demo",
		observability.String("version", version),
		observability.String("service", cfg.Service.Name),
	)

	runExecution(logger, observation.New(obs.Registry()))
}

// parseFlags parses command line flags.
func parseFlags() cliFlags {
	configPath := flag.String("config", getEnvOrDefault("AVAGRAPHQL_CONFIG_PATH", ""),
		"Path to configuration file (defaults apply when empty)")
	showVersion := flag.Bool("version", false, "Show version information")
	flag.Parse()

	return cliFlags{
		configPath:  *configPath,
		showVersion: *showVersion,
	}
}

// printVersion prints version information and exits.
func printVersion() {
	fmt.Printf("avagraphql version %s\n", version)
	fmt.Printf("  Build time: %s\n", buildTime)
	fmt.Printf("  Git commit: %s\n", gitCommit)
}

// loadConfig loads the configuration file, falling back to defaults
// when no path is given.
func loadConfig(path string) *config.Config {
	if path == "" {
		return config.DefaultConfig()
	}

	cfg, err := config.LoadConfig(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}

// runExecution drives one GraphQL execution the way a host engine
// would: create the instrumentation state, begin the request, resolve
// fields through instrumented fetchers, then complete the request.
func runExecution(logger observability.Logger, instr *observation.Instrumentation) {
	input := graphql.NewExecutionInput(
		`query Greeting { greeting book { author } }`,
		graphql.WithOperationName("Greeting"),
		graphql.WithLocale("fr"),
	)

	state := instr.CreateState(&graphql.CreateStateParameters{Input: input})
	callback := instr.BeginExecution(&graphql.ExecutionParameters{Input: input}, state)

	greeting := resolveGreeting(instr, input, state)
	author := resolveAuthorDeferred(logger, instr, input, state)

	response := &graphql.Response{Data: map[string]any{
		"greeting": greeting,
		"book":     map[string]any{"author": author},
	}}
	callback(response, nil)

	logger.Info("execution complete",
		observability.String("executionId", input.ExecutionID),
		observability.String("greeting", greeting),
		observability.String("author", author),
	)
}

// resolveGreeting runs a synchronous instrumented fetch.
func resolveGreeting(instr *observation.Instrumentation, input *graphql.ExecutionInput, state graphql.InstrumentationState) string {
	env := &graphql.FieldEnvironment{
		FieldName:      "greeting",
		ParentType:     "Query",
		GraphQLContext: input.GraphQLContext(),
	}
	fetcher := graphql.DataFetcher(func(env *graphql.FieldEnvironment) (graphql.FetchResult, error) {
		return graphql.ImmediateResult("Hello in " + input.Locale), nil
	})

	wrapped := instr.InstrumentDataFetcher(fetcher, &graphql.FieldFetchParameters{Environment: env}, state)
	result, err := wrapped(env)
	if err != nil {
		return ""
	}
	return result.Value().(string)
}

// resolveAuthorDeferred runs a deferred instrumented fetch completed on
// another goroutine, as an engine worker pool would.
func resolveAuthorDeferred(logger observability.Logger, instr *observation.Instrumentation, input *graphql.ExecutionInput, state graphql.InstrumentationState) string {
	env := &graphql.FieldEnvironment{
		FieldName:      "author",
		ParentType:     "Book",
		GraphQLContext: input.GraphQLContext(),
	}
	deferred := graphql.NewDeferred()
	fetcher := graphql.DataFetcher(func(_ *graphql.FieldEnvironment) (graphql.FetchResult, error) {
		return graphql.DeferredResult(deferred), nil
	})

	wrapped := instr.InstrumentDataFetcher(fetcher, &graphql.FieldFetchParameters{Environment: env}, state)
	result, err := wrapped(env)
	if err != nil {
		return ""
	}

	go func() {
		time.Sleep(10 * time.Millisecond)
		deferred.Complete("Ada")
	}()

	getCtx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	value, err := result.Deferred().Get(getCtx)
	if err != nil {
		logger.Error("deferred fetch failed", observability.Error(err))
		return ""
	}
	return value.(string)
}

// getEnvOrDefault returns the environment variable value or a default.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
