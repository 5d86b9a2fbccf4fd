package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"

	"github.com/go-playground/validator/v10"
	"github.com/peterbourgon/ff/v4"
	"github.com/peterbourgon/ff/v4/ffhelp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/xbnz/locate-cargo-manifest/pkg/cargo"
)

type Config struct {
	Cargo   string `ff:"long=cargo, usage=Cargo executable to run instead of $CARGO or cargo, nodefault"       validate:"omitempty"`
	Output  string `ff:"long=output, default=path, usage=What to print: path of the manifest or dir containing it" validate:"required,oneof=path dir"`
	Verbose bool   `ff:"long=verbose, usage=Enable debug logging"`
}

type App struct {
	Config  Config
	Ctx     context.Context
	Locator cargo.ManifestLocator
	Logger  *zap.Logger
	Stdout  io.Writer
}

func newApp(ctx context.Context, args []string) (*App, error) {
	var cfg Config
	fs := ff.NewFlagSet("locate-cargo-manifest")
	if err := fs.AddStruct(&cfg); err != nil {
		return nil, fmt.Errorf("add struct flags: %w", err)
	}

	if err := ff.Parse(
		fs,
		args,
		ff.WithEnvVarPrefix("LOCATE_CARGO_MANIFEST"),
	); err != nil {
		if errors.Is(err, ff.ErrHelp) {
			fmt.Fprint(os.Stderr, ffhelp.Flags(fs))
			return nil, err
		}
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	validate := validator.New(validator.WithRequiredStructEnabled())

	if err := validate.StructCtx(ctx, cfg); err != nil {
		return nil, fmt.Errorf("validate config: %w", err)
	}

	logger, err := newLogger(cfg.Verbose)
	if err != nil {
		return nil, fmt.Errorf("create logger: %w", err)
	}

	return &App{
		Config:  cfg,
		Ctx:     ctx,
		Locator: cargo.NewLocator(cfg.Cargo),
		Logger:  logger,
		Stdout:  os.Stdout,
	}, nil
}

func newLogger(verbose bool) (*zap.Logger, error) {
	config := zap.NewProductionConfig()
	if verbose {
		config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return config.Build()
}

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	app, err := newApp(ctx, os.Args[1:])
	if err != nil {
		if errors.Is(err, ff.ErrHelp) {
			return
		}
		fmt.Fprintf(os.Stderr, "Error creating app: %v\n", err)
		os.Exit(1)
	}
	defer app.Logger.Sync()

	if err := run(app); err != nil {
		logFailure(app.Logger, err)
		app.Logger.Sync()
		os.Exit(1)
	}
}

func run(app *App) error {
	app.Logger.Debug(
		"locating cargo manifest",
		zap.String("tool", cargo.ResolveTool(app.Config.Cargo)),
		zap.String("output", app.Config.Output),
	)

	if err := app.Ctx.Err(); err != nil {
		return fmt.Errorf("interrupted before locating manifest: %w", err)
	}

	locate := app.Locator.Locate
	if app.Config.Output == "dir" {
		locate = app.Locator.LocateDir
	}

	result, err := locate()
	if err != nil {
		return fmt.Errorf("locate manifest: %w", err)
	}

	app.Logger.Debug("located cargo manifest", zap.String("result", result))

	if _, err := fmt.Fprintln(app.Stdout, result); err != nil {
		return fmt.Errorf("write result: %w", err)
	}

	return nil
}

func logFailure(logger *zap.Logger, err error) {
	fields := []zap.Field{zap.Error(err)}

	if locateErr, ok := errors.AsType[*cargo.Error](err); ok {
		fields = append(fields, zap.Stringer("kind", locateErr.Kind))
		if locateErr.Kind == cargo.KindCargoExecution {
			fields = append(fields, zap.ByteString("stderr", locateErr.Stderr))
		}
	}

	logger.Error("could not locate cargo manifest", fields...)
}
