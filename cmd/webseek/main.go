package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"webseek/internal/adapter/mcpserver"
	"webseek/internal/domain"
	"webseek/internal/infra/config"
	"webseek/internal/infra/logger"
	"webseek/internal/infra/tracer"
)

const appVersion = "0.1.0"

func main() {
	// Handle help flag first
	if len(os.Args) >= 2 {
		switch os.Args[1] {
		case "--help", "-h", "help":
			showUsage()
			return
		}
	}

	if len(os.Args) < 2 {
		showUsage()
		return
	}

	switch os.Args[1] {
	case "search":
		if err := runSearch(); err != nil {
			fmt.Fprintf(os.Stderr, "search: %v\n", err)
			os.Exit(1)
		}
	case "fetch":
		if err := runFetch(); err != nil {
			fmt.Fprintf(os.Stderr, "fetch: %v\n", err)
			os.Exit(1)
		}
	case "tools":
		if err := runTools(); err != nil {
			fmt.Fprintf(os.Stderr, "tools: %v\n", err)
			os.Exit(1)
		}
	case "mcp":
		if err := runMCP(); err != nil {
			fmt.Fprintf(os.Stderr, "mcp: %v\n", err)
			os.Exit(1)
		}
	case "version":
		fmt.Println("webseek " + appVersion)
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n\nRun 'webseek --help' for usage information.\n", os.Args[1])
		os.Exit(1)
	}
}

func showUsage() {
	fmt.Println(`webseek - Web search and fetch tools for LLM agents

USAGE:
    webseek COMMAND [FLAGS]

COMMANDS:
    search QUERY...   Run a web search and print the result
    fetch URL         Fetch a URL and print status plus body
    tools             List available tools and their descriptions
    mcp               Serve all tools over MCP on stdin/stdout
    version           Print the version

FLAGS:
    -h, --help       Show this help message
    --config PATH    Config file path (default: ./config.yaml)
    -display         Print the user-facing display line instead of the full output
    -json            Print the full tool result as JSON

CONFIGURATION:
    Config file: ./config.yaml
    Environment: WEBSEEK_* variables override config

EXAMPLES:
    webseek search golang http client       # Search with the default provider
    webseek fetch https://go.dev/doc/       # Fetch a page
    webseek mcp                             # Expose tools to an MCP client
    webseek --config /etc/webseek.yaml mcp  # Serve with a custom config`)
}

func configPath() string {
	// Check --config flag in os.Args.
	for i, arg := range os.Args {
		if arg == "--config" && i+1 < len(os.Args) {
			return os.Args[i+1]
		}
		if strings.HasPrefix(arg, "--config=") {
			return strings.TrimPrefix(arg, "--config=")
		}
	}
	if p := os.Getenv("WEBSEEK_CONFIG"); p != "" {
		return p
	}
	return "config.yaml"
}

// commandArgs returns the positional arguments after the command name,
// with the --config flag, its value, and the output flags stripped out.
func commandArgs() []string {
	var args []string
	for i := 2; i < len(os.Args); i++ {
		if os.Args[i] == "--config" {
			i++
			continue
		}
		if strings.HasPrefix(os.Args[i], "--config=") {
			continue
		}
		switch os.Args[i] {
		case "-display", "--display", "-json", "--json":
			continue
		}
		args = append(args, os.Args[i])
	}
	return args
}

// hasFlag reports whether any of the given flags appears in os.Args.
func hasFlag(names ...string) bool {
	for _, arg := range os.Args {
		for _, name := range names {
			if arg == name {
				return true
			}
		}
	}
	return false
}

func runSearch() error {
	args := commandArgs()
	if len(args) == 0 {
		return fmt.Errorf("usage: webseek search QUERY...: %w", domain.ErrInvalidInput)
	}

	params, err := json.Marshal(map[string]string{"query": strings.Join(args, " ")})
	if err != nil {
		return fmt.Errorf("params: %w", err)
	}
	return runTool("web_search", params)
}

func runFetch() error {
	args := commandArgs()
	if len(args) == 0 {
		return fmt.Errorf("usage: webseek fetch URL: %w", domain.ErrInvalidInput)
	}

	params, err := json.Marshal(map[string]string{"url": args[0]})
	if err != nil {
		return fmt.Errorf("params: %w", err)
	}
	return runTool("web_fetch", params)
}

// runTool executes a single registered tool and prints its model-facing
// output to stdout.
func runTool(name string, params json.RawMessage) error {
	// 1. Config
	cfg, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// 2. Logger & Tracer
	log, logCloser, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logCloser()

	ctx := context.Background()
	tracerShutdown, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		return fmt.Errorf("tracer: %w", err)
	}
	defer tracerShutdown(ctx)

	// 3. Tools
	reg, err := buildRegistry(cfg, log)
	if err != nil {
		return fmt.Errorf("tools: %w", err)
	}

	t, err := reg.Get(name)
	if err != nil {
		return err
	}

	// 4. Graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	result := t.Execute(ctx, params)

	switch {
	case hasFlag("-json", "--json"):
		out, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		fmt.Println(string(out))
	case hasFlag("-display", "--display"):
		fmt.Println(result.ReturnDisplay)
	default:
		fmt.Println(result.LLMContent)
	}
	return nil
}

func runTools() error {
	cfg, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	log, logCloser, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logCloser()

	reg, err := buildRegistry(cfg, log)
	if err != nil {
		return fmt.Errorf("tools: %w", err)
	}

	for _, s := range reg.Schemas() {
		fmt.Printf("%s (%s)\n    %s\n", s.Name, s.DisplayName, s.Description)
	}
	return nil
}

func runMCP() error {
	// 1. Config
	cfg, err := config.Load(configPath())
	if err != nil {
		return fmt.Errorf("config: %w", err)
	}

	// stdout carries the MCP protocol, so logs must not go there.
	if strings.ToLower(cfg.Logger.Output) == "stdout" {
		cfg.Logger.Output = "stderr"
	}
	// Same for traces: without a file endpoint the stdout exporter
	// would write spans into the protocol stream.
	if cfg.Tracer.Exporter == "stdout" && cfg.Tracer.Endpoint == "" {
		cfg.Tracer.Enabled = false
	}

	// 2. Logger & Tracer
	log, logCloser, err := logger.New(cfg.Logger)
	if err != nil {
		return fmt.Errorf("logger: %w", err)
	}
	defer logCloser()

	ctx := context.Background()
	tracerShutdown, err := tracer.Setup(ctx, cfg.Tracer)
	if err != nil {
		return fmt.Errorf("tracer: %w", err)
	}
	defer tracerShutdown(ctx)

	// 3. Tools
	reg, err := buildRegistry(cfg, log)
	if err != nil {
		return fmt.Errorf("tools: %w", err)
	}

	// 4. Graceful shutdown
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	log.Info("webseek starting",
		"provider", cfg.Search.Provider,
		"tools", len(reg.List()),
		"version", appVersion,
	)

	srv := mcpserver.New(reg, appVersion, log)
	return srv.ServeStdio(ctx)
}
