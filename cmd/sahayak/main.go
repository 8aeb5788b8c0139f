package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rahul/sahayak/internal/agent"
	"github.com/rahul/sahayak/internal/gateway"
	"github.com/rahul/sahayak/internal/governance"
	"github.com/rahul/sahayak/internal/observability"
	"github.com/rahul/sahayak/internal/server"
	"github.com/rahul/sahayak/internal/store"
	"github.com/rahul/sahayak/internal/tools"
	"github.com/rahul/sahayak/pkg/config"
	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"
)

func main() {
	configPath := flag.String("config", "config.yaml", "path to the YAML config file")
	command := flag.String("c", "", "run a single command and exit")
	email := flag.String("email", "", "target email for a one-shot command")
	addr := flag.String("addr", "", "listen address override (e.g. :8000)")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatal(err)
	}
	if *addr != "" {
		cfg.App.Listen = *addr
	}

	oneShot := *command != ""
	if !oneShot {
		observability.PrintBanner()
		observability.InitializeTerminal()

		// Route all log output through the terminal mutex so it never
		// interrupts the dashboard's cursor save/restore sequence.
		log.SetOutput(observability.NewTermWriter())
	}

	// LLM provider is optional: the rule planner, the extractive
	// summarizer and the keyword analyzer all work without one.
	var model llms.Model
	if pName, pCfg := cfg.GetDefaultProvider(); pName != "" {
		opts := []openai.Option{
			openai.WithToken(pCfg.APIKey),
			openai.WithModel(pCfg.Model),
		}
		if pCfg.BaseURL != "" {
			opts = append(opts, openai.WithBaseURL(pCfg.BaseURL))
		}
		model, err = openai.New(opts...)
		if err != nil {
			log.Printf("Warning: failed to initialize %s provider: %v", pName, err)
			model = nil
		}
	}

	history, err := store.NewHistoryStore(cfg.Memory.Path)
	if err != nil {
		log.Fatal(err)
	}
	defer history.Close()

	searchTool := tools.NewSearchTool(cfg.Search.SerpAPIKey, cfg.Search.GoogleAPIKey, cfg.Search.GoogleEngineID)

	registry := tools.NewRegistry()
	registry.Register(searchTool)
	registry.Register(tools.NewScraperTool(cfg.Scraper.Mode))
	registry.Register(tools.NewSummarizerTool(model))
	registry.Register(tools.NewEmailTool(cfg.SMTP))
	registry.Register(tools.NewLogTool())
	registry.Register(tools.NewResumeParserTool(cfg.App.Workspace))
	registry.Register(tools.NewResumeAnalyzerTool(model))
	registry.Register(tools.NewJobMatcherTool(searchTool))
	registry.Register(tools.NewScheduleTool(history))

	gov, err := governance.FromRules(cfg.Policy.DeniedTools, cfg.Policy.DeniedPatterns)
	if err != nil {
		log.Fatal(err)
	}

	logger := observability.NewLogger()
	if oneShot {
		logger = nil // keep stdout clean for the printed result
	}

	var planner agent.Planner
	switch cfg.Planner.Mode {
	case "llm":
		if model == nil {
			log.Println("Warning: PLANNER_MODE=llm but no provider is enabled, using rule planner")
			planner = agent.NewRulePlanner()
		} else {
			planner = agent.NewLLMPlanner(model, registry)
		}
	default:
		planner = agent.NewRulePlanner()
	}

	controller := agent.NewController(registry, gov, logger)
	pipeline := agent.NewPipeline(planner, controller, history, logger)

	if oneShot {
		runOnce(pipeline, *command, *email)
		return
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	srv := server.New(pipeline, history, cfg.App.Workspace)
	go func() {
		log.Printf("HTTP server listening on %s", cfg.App.Listen)
		if err := srv.Start(cfg.App.Listen); err != nil {
			log.Printf("\033[91m[ FAIL ] SERVER CRITICAL ERROR: %v\033[0m", err)
			stop()
		}
	}()

	// Optional chat gateways. The scheduler notifies through whichever
	// started; Telegram wins when both are configured.
	var notify agent.Messenger
	if tgCfg, ok := cfg.GetGateway("telegram"); ok {
		tg, err := gateway.NewTelegramGateway(tgCfg.Token, pipeline)
		if err != nil {
			log.Printf("Warning: telegram gateway failed to start: %v", err)
		} else {
			notify = tg
			go func() {
				if err := tg.Start(); err != nil {
					log.Printf("Telegram gateway stopped: %v", err)
				}
			}()
		}
	}
	if dcCfg, ok := cfg.GetGateway("discord"); ok {
		dc, err := gateway.NewDiscordGateway(dcCfg.Token, pipeline)
		if err != nil {
			log.Printf("Warning: discord gateway failed to start: %v", err)
		} else {
			if notify == nil {
				notify = dc
			}
			go func() {
				if err := dc.Start(); err != nil {
					log.Printf("Discord gateway stopped: %v", err)
				}
			}()
		}
	}

	scheduler := agent.NewScheduler(pipeline, history, notify)
	go scheduler.Start(ctx)

	// Live resource dashboard (1-second updates)
	go func() {
		ticker := time.NewTicker(1 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				observability.PrintLiveStatus()
			}
		}
	}()

	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				observability.Heartbeat()
				logger.LogHeartbeat()
			}
		}
	}()

	<-ctx.Done()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	_ = srv.Shutdown(shutdownCtx)

	observability.CleanupTerminal()

	time.Sleep(500 * time.Millisecond)
	log.Println("\033[95m[ EXIT ] AGENT DE-INITIALIZED. GOODBYE.\033[0m")
}

// runOnce executes one command from the CLI and prints the plan and the
// execution log to stdout.
func runOnce(pipeline *agent.Pipeline, command, email string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	ex, err := pipeline.Run(ctx, "cli", command, email)
	if err != nil {
		fmt.Fprintf(os.Stderr, "planning failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Plan for: %s\n", ex.Plan.Input)
	for _, step := range ex.Plan.Steps {
		fmt.Printf("  %d. %s\n", step.ID, step.Tool)
	}
	fmt.Println()
	for _, entry := range ex.Log {
		mark := "ok"
		if !entry.Success {
			mark = "FAIL"
		}
		fmt.Printf("[%-4s] step %d (%s): %s\n", mark, entry.StepID, entry.Tool, entry.Message)
	}
	fmt.Println()
	fmt.Println(agent.Summarize(ex))

	if !ex.Success {
		os.Exit(1)
	}
}
