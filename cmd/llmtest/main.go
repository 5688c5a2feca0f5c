package main

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/wolfman30/chatlookup/cmd/mainconfig"
	"github.com/wolfman30/chatlookup/internal/app/bootstrap"
	appconfig "github.com/wolfman30/chatlookup/internal/config"
	"github.com/wolfman30/chatlookup/internal/llm"
	"github.com/wolfman30/chatlookup/pkg/logging"
)

// llmtest checks the configured completion provider and then sends one
// message through a chat flow, printing what a client would receive.
func main() {
	flow := flag.String("flow", "clinic", "chat flow to exercise: clinic or restaurant")
	message := flag.String("message", "I need a dentist on 2025-03-15 at 10:00", "user message to send")
	timeout := flag.Duration("timeout", 60*time.Second, "overall deadline")
	flag.Parse()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := run(ctx, os.Stdout, cfg, logger, *flow, *message); err != nil {
		fmt.Fprintf(os.Stderr, "llmtest: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, out io.Writer, cfg *appconfig.Config, logger *logging.Logger, flow, message string) error {
	awsCfg, err := mainconfig.LoadAWSConfig(ctx, cfg)
	if err != nil {
		return fmt.Errorf("load aws config: %w", err)
	}

	client, closeFn, err := bootstrap.BuildLLMClient(ctx, cfg, awsCfg, logger)
	if err != nil {
		return err
	}
	defer closeFn()

	fmt.Fprintln(out, "[1] provider check")
	start := time.Now()
	resp, err := client.Complete(ctx, llm.Request{Prompt: "Reply with the single word: ready", MaxTokens: 16, Temperature: 0})
	if err != nil {
		fmt.Fprintf(out, "    provider error: %v\n", err)
	} else {
		fmt.Fprintf(out, "    %q in %v (tokens in=%d out=%d)\n", resp.Text, time.Since(start).Round(time.Millisecond), resp.Usage.InputTokens, resp.Usage.OutputTokens)
	}

	app, err := bootstrap.Build(ctx, cfg, bootstrap.Deps{
		Logger:   logger,
		AWS:      awsCfg,
		LLM:      client,
		Registry: prometheus.NewRegistry(),
	})
	if err != nil {
		return err
	}
	defer app.Close()

	handler := app.Clinic
	if flow == app.Restaurant.Flow() {
		handler = app.Restaurant
	} else if flow != app.Clinic.Flow() {
		return fmt.Errorf("unknown flow %q", flow)
	}

	fmt.Fprintf(out, "[2] %s flow: %q\n", handler.Flow(), message)
	body := fmt.Sprintf(`{"message": %q}`, message)
	status, payload := handler.Handle(ctx, []byte(body), "llmtest")
	fmt.Fprintf(out, "    status %d: %+v\n", status, payload)
	return nil
}
