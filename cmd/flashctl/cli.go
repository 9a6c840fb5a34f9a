package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/phrazzld/cardchat/internal/config"
	"github.com/phrazzld/cardchat/internal/generation"
	"github.com/phrazzld/cardchat/internal/platform"
	"github.com/phrazzld/cardchat/internal/platform/logger"
)

// Version is overridden at build time with -ldflags "-X main.Version=...".
var Version = "dev"

type cmdMigrate struct {
	Command string `arg:"" enum:"up,down,reset,status,version" help:"Migration command: up, down, reset, status or version."`
}

type cmdSeed struct{}

type cmdList struct{}

type cmdShow struct {
	ID   string `arg:"" required:"" help:"Identifier of the flashcard set."`
	JSON bool   `short:"j" help:"Print the set as JSON."`
}

type cmdGenerate struct {
	Topic string `arg:"" required:"" help:"Topic to generate flashcards about."`
	Save  bool   `short:"s" help:"Store the generated set."`
}

type cmdVersion struct{}

// cliArgs is the kong grammar for flashctl.
type cliArgs struct {
	DatabaseURL string `name:"database-url" env:"DATABASE_URL" help:"Store URL (postgres://..., bolt://path)."`
	EnvFile     string `name:"env-file" default:".env" help:"Environment file loaded before reading configuration."`
	LogLevel    string `name:"log-level" default:"warn" enum:"debug,info,warn,error" help:"Log level for diagnostics on stderr."`

	Migrate  cmdMigrate  `cmd:"" help:"Apply or inspect PostgreSQL schema migrations."`
	Seed     cmdSeed     `cmd:"" help:"Insert the sample flashcard sets."`
	List     cmdList     `cmd:"" help:"List stored flashcard sets."`
	Show     cmdShow     `cmd:"" help:"Show one stored flashcard set."`
	Generate cmdGenerate `cmd:"" help:"Generate flashcards for a topic with the configured LLM."`
	Version  cmdVersion  `cmd:"" help:"Show the flashctl version."`
}

// ProviderFactory builds the LLM provider used by the generate command.
type ProviderFactory func(ctx context.Context, cfg config.LLMConfig, logger *slog.Logger) (generation.Provider, error)

// CliConfig contains the configuration for the flashctl cli.
type CliConfig struct {
	// Name is the name of the program
	Name string
	// Description is a short description of the program
	Description string
	// Version is the version of the program
	Version string
	// Exit is the function to call to exit the program
	Exit   func(int)
	Stdout io.Writer
	Stderr io.Writer
	// NewProvider builds the LLM provider for generate.
	NewProvider ProviderFactory
}

// NewCliConfig returns a CliConfig wired to the process and the real providers.
func NewCliConfig() *CliConfig {
	return &CliConfig{
		Name:        "flashctl",
		Description: "Operator tool for the cardchat flashcard store.",
		Version:     Version,
		Exit:        os.Exit,
		Stdout:      os.Stdout,
		Stderr:      os.Stderr,
		NewProvider: platform.NewProvider,
	}
}

// Cli parses args and executes the selected subcommand. It returns the exit
// code for the process along with any error that caused a non-zero code.
func Cli(args []string, cfg *CliConfig) (rc int, err error) {
	var cli cliArgs

	parser, err := kong.New(&cli,
		kong.Name(cfg.Name),
		kong.Description(cfg.Description),
		kong.Exit(cfg.Exit),
		kong.Writers(cfg.Stdout, cfg.Stderr),
		kong.Vars{"version": cfg.Version},
	)
	if err != nil {
		return 1, err
	}

	// Variables from the env file must be visible before kong resolves env tags.
	if err := config.LoadDotEnv(envFileArg(args)); err != nil {
		return 1, err
	}

	kctx, err := parser.Parse(args)
	if err != nil {
		parser.Errorf("%s", err)
		return 2, err
	}

	level, _ := logger.ParseLevel(cli.LogLevel)
	log := slog.New(slog.NewTextHandler(cfg.Stderr, &slog.HandlerOptions{Level: level}))

	r := &runner{
		cli:    &cli,
		config: cfg,
		logger: log,
		out:    cfg.Stdout,
	}

	ctx := context.Background()

	switch cmd := kctx.Command(); cmd {
	case "migrate <command>":
		err = r.migrate(ctx, cli.Migrate.Command)
	case "seed":
		err = r.seed(ctx)
	case "list":
		err = r.list(ctx)
	case "show <id>":
		err = r.show(ctx, cli.Show.ID, cli.Show.JSON)
	case "generate <topic>":
		err = r.generate(ctx, cli.Generate.Topic, cli.Generate.Save)
	case "version":
		_, err = fmt.Fprintf(cfg.Stdout, "%s %s\n", cfg.Name, cfg.Version)
	default:
		err = fmt.Errorf("unrecognized command: %s", cmd)
	}

	if err != nil {
		return 1, err
	}
	return 0, nil
}

// envFileArg finds the --env-file value in args without a full parse.
func envFileArg(args []string) string {
	for i, arg := range args {
		if value, ok := strings.CutPrefix(arg, "--env-file="); ok {
			return value
		}
		if arg == "--env-file" && i+1 < len(args) {
			return args[i+1]
		}
	}
	return ".env"
}
