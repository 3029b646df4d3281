package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"time"

	json "github.com/goccy/go-json"

	formstate "github.com/goliatone/go-formstate"
	"github.com/goliatone/go-formstate/pkg/config"
	"github.com/goliatone/go-formstate/pkg/fieldschema"
	"github.com/goliatone/go-formstate/pkg/formctl"
	"github.com/goliatone/go-formstate/pkg/render"
	"github.com/goliatone/go-formstate/pkg/renderers/html"
	"github.com/goliatone/go-formstate/pkg/renderers/tui"
)

func main() {
	configPath := flag.String("config", "examples/profile/form.yaml", "form configuration file")
	renderer := flag.String("renderer", "tui", "renderers to use: tui, html, or tui,html to mirror prompts as markup")
	output := flag.String("output", "", "output file for the html markup (stdout if empty)")
	wait := flag.Duration("wait", 3*time.Second, "how long to wait for option collections before prompting")
	payloadSchema := flag.Bool("payload-schema", false, "print the JSON Schema of the saved payload and exit")
	verbose := flag.Bool("v", false, "log controller events to stderr")
	flag.Parse()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg, err := formstate.LoadConfigFile(*configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if *payloadSchema {
		schema, err := cfg.Schema()
		if err != nil {
			log.Fatalf("Failed to build schema: %v", err)
		}
		data, err := json.MarshalIndent(fieldschema.PayloadSchema(schema), "", "  ")
		if err != nil {
			log.Fatalf("Failed to encode payload schema: %v", err)
		}
		fmt.Println(string(data))
		return
	}

	level := slog.LevelWarn
	if *verbose {
		level = slog.LevelDebug
	}
	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

	registry, err := renderers()
	if err != nil {
		log.Fatalf("Failed to set up renderers: %v", err)
	}
	selected, err := registry.Select(*renderer)
	if err != nil {
		log.Fatalf("%v (renderers: %s)", err, registry.Describe())
	}
	logger.Debug("renderer.selected",
		slog.String("renderer", *renderer),
		slog.String("capabilities", render.CapabilitiesOf(selected).String()))

	var prompts *tui.Renderer
	var markup *html.Renderer
	for _, member := range render.Members(selected) {
		switch r := member.(type) {
		case *tui.Renderer:
			prompts = r
		case *html.Renderer:
			markup = r
		}
	}

	switch {
	case prompts != nil:
		err = runTUI(ctx, cfg, selected, prompts, markup, logger, *wait, *output)
	case markup != nil:
		err = runHTML(ctx, cfg, markup, logger, *wait, *output)
	default:
		err = fmt.Errorf("renderer %q has no runner", selected.Name())
	}
	if errors.Is(err, tui.ErrAborted) {
		os.Exit(130)
	}
	if err != nil {
		log.Fatalf("Failed to run form: %v", err)
	}
}

func renderers() (*render.Registry, error) {
	prompts, err := tui.New(tui.WithTheme(tui.Theme{ErrorPrefix: "✗ "}))
	if err != nil {
		return nil, err
	}
	markup, err := html.New()
	if err != nil {
		return nil, err
	}
	return render.NewRegistry(prompts, markup)
}

// runTUI drives the prompts. When markup is part of the selection the final
// form is written out as HTML once the session ends.
func runTUI(ctx context.Context, cfg *config.Config, selected render.Renderer, prompts *tui.Renderer, markup *html.Renderer, logger *slog.Logger, wait time.Duration, output string) error {
	ctl, closeFn, err := start(ctx, cfg, selected, logger, wait)
	if err != nil {
		return err
	}
	defer closeFn()

	if _, err := tui.NewSession(ctl, prompts).Run(ctx); err != nil {
		return err
	}
	if markup == nil {
		return nil
	}
	return writeMarkup(markup.Last(), output)
}

func runHTML(ctx context.Context, cfg *config.Config, r *html.Renderer, logger *slog.Logger, wait time.Duration, output string) error {
	_, closeFn, err := start(ctx, cfg, r, logger, wait)
	if err != nil {
		return err
	}
	defer closeFn()
	return writeMarkup(r.Last(), output)
}

func writeMarkup(markup, output string) error {
	if output == "" {
		fmt.Println(markup)
		return nil
	}
	if err := os.WriteFile(output, []byte(markup), 0o644); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	fmt.Printf("Form written to %s\n", output)
	return nil
}

func start(ctx context.Context, cfg *config.Config, r render.Renderer, logger *slog.Logger, wait time.Duration) (*formctl.Controller, func() error, error) {
	ctl, closeFn, err := formstate.NewFromConfig(ctx, cfg,
		formctl.WithRenderer(r),
		formctl.WithLogger(logger),
		formctl.WithListener(formctl.ListenerFuncs{OnSaved: printSubmission}),
	)
	if err != nil {
		return nil, nil, err
	}
	if err := ctl.Start(ctx); err != nil {
		_ = closeFn()
		return nil, nil, err
	}

	waitCtx, cancel := context.WithTimeout(ctx, wait)
	defer cancel()
	if err := ctl.Wait(waitCtx); err != nil && !errors.Is(err, context.DeadlineExceeded) {
		_ = closeFn()
		return nil, nil, err
	}
	return ctl, closeFn, nil
}

func printSubmission(_ context.Context, s formctl.Submission) {
	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		log.Printf("encode submission %s: %v", s.ID, err)
		return
	}
	fmt.Println(string(data))
}
