package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"time"

	"go.uber.org/zap"

	"marketing_content_studio/config"
	"marketing_content_studio/content"
	"marketing_content_studio/exporter"
	"marketing_content_studio/generator"
	"marketing_content_studio/media"
	"marketing_content_studio/scheduler"
	"marketing_content_studio/server"
	"marketing_content_studio/store"
)

func main() {
	serve := flag.Bool("serve", false, "start the API server")
	addr := flag.String("addr", "", "http listen address when --serve (overrides config)")
	exportFormat := flag.String("export", "", "export a stored generation: csv, pdf, docx, or text")
	generationID := flag.Int64("generation", 0, "generation id to export")
	userID := flag.Int64("user", 1, "owner of the generation to export")
	out := flag.String("out", "", "output path for --export (default stdout for csv/text)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if *serve {
		runServer(cfg, *addr)
		return
	}
	if *exportFormat != "" {
		if *generationID == 0 {
			fmt.Fprintln(os.Stderr, "--generation is required with --export")
			os.Exit(1)
		}
		if err := runExport(cfg, *exportFormat, *userID, *generationID, *out); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}
	flag.Usage()
	os.Exit(1)
}

func runServer(cfg config.Config, addr string) {
	log, err := buildLogger(cfg.Debug)
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
	defer log.Sync()

	st, err := store.Open(cfg.DBPath)
	if err != nil {
		log.Fatal("open store", zap.Error(err))
	}
	defer st.Close()

	agent, err := buildAgent(cfg, st)
	if err != nil {
		log.Fatal("build generator", zap.Error(err))
	}

	images := media.NewGenerator(st, log, cfg.Image.OpenRouterAPIKey, cfg.Image.Model, cfg.MockMode)

	publisher := scheduler.NewPublisher(st, log)
	if err := publisher.Start(); err != nil {
		log.Fatal("start publisher", zap.Error(err))
	}
	defer publisher.Stop()

	srv, err := server.New(st, agent, images, log, cfg)
	if err != nil {
		log.Fatal("build server", zap.Error(err))
	}

	listen := cfg.Addr
	if addr != "" {
		listen = addr
	}
	log.Info("starting API server", zap.String("addr", listen), zap.Bool("mock", !cfg.HasProvider()))
	if err := http.ListenAndServe(listen, srv.Routes()); err != nil {
		log.Fatal("serve", zap.Error(err))
	}
}

func buildLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

func buildAgent(cfg config.Config, st *store.Store) (*generator.Agent, error) {
	if !cfg.HasProvider() {
		return generator.NewAgent(generator.MockLLM{}, st, true)
	}
	llm, err := buildLLM(cfg)
	if err != nil {
		return nil, err
	}
	return generator.NewAgent(llm, st, false)
}

func buildLLM(cfg config.Config) (generator.LLMClient, error) {
	switch cfg.LLM.Provider {
	case "openai":
		return generator.NewOpenAILLMFromConfig(&generator.LLMSettings{
			Provider: cfg.LLM.Provider,
			Model:    cfg.LLM.Model,
			APIKey:   cfg.LLM.APIKey,
			BaseURL:  cfg.LLM.BaseURL,
		})
	case "yandex":
		return generator.NewYandexLLM(cfg.LLM.YandexAPIKey)
	default:
		return nil, fmt.Errorf("llm provider %s not supported", cfg.LLM.Provider)
	}
}

// runExport renders one stored generation to a file or stdout without going
// through the HTTP layer.
func runExport(cfg config.Config, format string, userID, generationID int64, out string) error {
	st, err := store.Open(cfg.DBPath)
	if err != nil {
		return err
	}
	defer st.Close()

	ctx := context.Background()
	gen, err := st.Generation(ctx, userID, generationID)
	if err != nil {
		return fmt.Errorf("load generation %d: %w", generationID, err)
	}

	var items []content.ExportItem
	for _, channel := range gen.Channels {
		for _, variant := range gen.Variants[channel] {
			items = append(items, content.ExportItem{Channel: channel, Result: variant})
		}
	}
	if len(items) == 0 {
		return fmt.Errorf("generation %d has no variants", generationID)
	}

	now := time.Now()
	switch format {
	case "csv":
		return writeOut(out, exporter.CSV(items))
	case "pdf":
		data, err := exporter.PDF(items, now)
		if err != nil {
			return err
		}
		if out == "" {
			out = "content_export.pdf"
		}
		return os.WriteFile(out, data, 0o644)
	case "docx":
		if out == "" {
			out = "content_export.docx"
		}
		return exporter.DOCX(items, now, out)
	case "text":
		return writeOut(out, []byte(exporter.ClipboardText(items)))
	default:
		return fmt.Errorf("format %s not supported (csv, pdf, docx, text)", format)
	}
}

func writeOut(path string, data []byte) error {
	if path == "" {
		_, err := os.Stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
