package main

import (
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/poiesic/vocalis"
	"github.com/poiesic/vocalis/ai"
	"github.com/poiesic/vocalis/api"
	"github.com/poiesic/vocalis/core"
	"github.com/poiesic/vocalis/ingestion"
	"github.com/poiesic/vocalis/interaction"
	"github.com/poiesic/vocalis/reembed"
	"github.com/poiesic/vocalis/search"
	"github.com/urfave/cli/v2"
)

func importCommand(c *cli.Context) error {
	dir := c.Args().First()
	if dir == "" {
		return fmt.Errorf("directory argument is required")
	}

	assistant, err := openAssistant(c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	opts := []ingestion.Option{
		ingestion.WithExtensions(c.StringSlice("ext")...),
		ingestion.WithReembedUnchanged(c.Bool("reembed-unchanged")),
		ingestion.WithProgress(c.App.ErrWriter),
	}
	if n := c.Int("workers"); n > 0 {
		opts = append(opts, ingestion.WithPoolSize(n))
	}

	pipeline, err := assistant.NewIngestionPipeline(opts...)
	if err != nil {
		return fmt.Errorf("failed to create pipeline: %w", err)
	}
	defer pipeline.Release()

	report, err := pipeline.Ingest(c.Context, dir)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Imported %d documents (%d unchanged, %d failed)\n",
		report.Imported, report.Reused, report.Failed)
	for _, fileErr := range report.Errors {
		fmt.Fprintf(c.App.ErrWriter, "  %v\n", fileErr)
	}
	return nil
}

func searchCommand(c *cli.Context) error {
	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return fmt.Errorf("query argument is required")
	}

	assistant, err := openAssistant(c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	searcher, err := assistant.NewSearcher()
	if err != nil {
		return err
	}

	var monitor search.SearchMonitor
	if c.Bool("verbose") {
		monitor = &traceMonitor{w: c.App.ErrWriter}
	}
	results, err := searcher.SearchWithMonitor(c.Context, query, c.Int("limit"), monitor)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Found %d hits\n", len(results))
	for i, hit := range results {
		fmt.Fprintf(c.App.Writer, "%d: '%s' %s (%d)[%s %0.3f]\n",
			i, hit.Document.Title, hit.Document.SourcePath, hit.Document.Id, hit.Method, hit.Score)
	}
	return nil
}

func askCommand(c *cli.Context) error {
	question := strings.Join(c.Args().Slice(), " ")

	return withOrchestrator(c, func(s *session) error {
		answer, err := s.orchestrator.AnswerOnly(c.Context, question)
		if err != nil {
			return err
		}

		fmt.Fprintln(c.App.Writer, answer.Text)
		printSources(c, answer.Sources, answer.EmptyContext)
		return nil
	})
}

func transcribeCommand(c *cli.Context) error {
	audio, err := readAudioFile(c.Args().First())
	if err != nil {
		return err
	}

	return withOrchestrator(c, func(s *session) error {
		text, err := s.orchestrator.TranscribeOnly(c.Context, audio)
		if err != nil {
			return err
		}
		fmt.Fprintln(c.App.Writer, text)
		return nil
	})
}

func speakCommand(c *cli.Context) error {
	text := strings.Join(c.Args().Slice(), " ")

	return withOrchestrator(c, func(s *session) error {
		ref, err := s.orchestrator.SpeakOnly(c.Context, text, core.VoiceProfile(c.String("voice")))
		if err != nil {
			return err
		}
		printAudio(c, s.store, ref)
		return nil
	})
}

func interactCommand(c *cli.Context) error {
	audio, err := readAudioFile(c.Args().First())
	if err != nil {
		return err
	}

	return withOrchestrator(c, func(s *session) error {
		result, err := s.orchestrator.RunInteraction(c.Context, audio, core.VoiceProfile(c.String("voice")))
		if err != nil {
			if failure, ok := interaction.IsStageFailure(err); ok && failure.Transcript != "" {
				fmt.Fprintf(c.App.ErrWriter, "Question: %s\n", failure.Transcript)
				if failure.Answer != "" {
					fmt.Fprintf(c.App.ErrWriter, "Answer: %s\n", failure.Answer)
				}
			}
			return err
		}

		fmt.Fprintf(c.App.Writer, "Question: %s\n", result.Transcript)
		fmt.Fprintf(c.App.Writer, "Answer: %s\n", result.Answer)
		printSources(c, result.Sources, result.EmptyContext)
		printAudio(c, s.store, result.AudioRef)
		return nil
	})
}

func reembedCommand(c *cli.Context) error {
	config := &reembed.Config{
		BatchSize:      c.Int("batch-size"),
		ReportInterval: c.Int("report-interval"),
		MaxRetries:     c.Int("max-retries"),
		RetryDelay:     c.Duration("retry-delay"),
		MissingOnly:    c.Bool("missing-only"),
	}

	if config.BatchSize <= 0 {
		return fmt.Errorf("batch-size must be greater than 0")
	}
	if config.ReportInterval <= 0 {
		return fmt.Errorf("report-interval must be greater than 0")
	}
	if config.MaxRetries <= 0 {
		return fmt.Errorf("max-retries must be greater than 0")
	}

	assistant, err := openAssistant(c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	reembedder, err := assistant.NewReembedder(config, c.App.ErrWriter)
	if err != nil {
		return err
	}

	fmt.Fprintf(c.App.ErrWriter, "Embedding host: %s\n", c.String("embedding-host"))
	fmt.Fprintf(c.App.ErrWriter, "Embedding model: %s\n", c.String("embedding-model"))
	fmt.Fprintln(c.App.ErrWriter)

	if _, err := reembedder.Run(c.Context); err != nil {
		return fmt.Errorf("reembedding failed: %w", err)
	}
	return nil
}

func serveCommand(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	return withOrchestrator(c, func(s *session) error {
		searcher, err := s.assistant.NewSearcher()
		if err != nil {
			return err
		}

		server, err := api.NewServer(s.orchestrator, searcher,
			api.WithAudioFiles(c.String("audio-url-prefix"), s.store.Root()))
		if err != nil {
			return err
		}

		errc := make(chan error, 1)
		go func() {
			errc <- server.Listen(c.String("addr"))
		}()

		select {
		case err := <-errc:
			return err
		case <-ctx.Done():
			return server.Shutdown()
		}
	})
}

// session bundles what the orchestrator commands need.
type session struct {
	assistant    *vocalis.Assistant
	orchestrator *interaction.Orchestrator
	store        *interaction.FileAudioStore
}

func withOrchestrator(c *cli.Context, fn func(*session) error) error {
	assistant, err := openAssistant(c)
	if err != nil {
		return err
	}
	defer assistant.Close()

	store, err := interaction.NewFileAudioStore(c.String("audio-dir"), c.String("audio-url-prefix"))
	if err != nil {
		return fmt.Errorf("failed to prepare audio directory: %w", err)
	}

	config := interaction.DefaultConfig()
	config.RetrievalLimit = c.Int("retrieval-limit")
	config.ContextTokenBudget = c.Int("context-tokens")
	if timeout := c.Duration("stage-timeout"); timeout > 0 {
		config.TranscriptionTimeout = timeout
		config.AnsweringTimeout = timeout
		config.SynthesisTimeout = timeout
	}

	orchestrator, err := assistant.NewOrchestrator(store, interaction.WithConfig(config))
	if err != nil {
		return err
	}

	return fn(&session{assistant: assistant, orchestrator: orchestrator, store: store})
}

func openAssistant(c *cli.Context) (*vocalis.Assistant, error) {
	config := aiConfigFrom(c)
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	opts := []vocalis.Option{vocalis.WithAIConfig(config)}
	if dsn := c.String("postgres-dsn"); dsn != "" {
		opts = append(opts, vocalis.WithPostgres(dsn))
	} else {
		opts = append(opts, vocalis.WithBadger(c.String("db")))
	}

	assistant, err := vocalis.Open(c.Context, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to open knowledge base: %w", err)
	}
	return assistant, nil
}

// aiConfigFrom overlays the provider flags a command defines onto the
// defaults. Flags a command does not define read as empty and are skipped.
func aiConfigFrom(c *cli.Context) *ai.Config {
	config := ai.DefaultConfig()
	for name, dst := range map[string]*string{
		"embedding-host":      &config.EmbeddingHost,
		"embedding-model":     &config.EmbeddingModel,
		"chat-host":           &config.ChatHost,
		"chat-model":          &config.ChatModel,
		"api-key":             &config.APIKey,
		"transcription-host":  &config.TranscriptionHost,
		"transcription-model": &config.TranscriptionModel,
		"speech-host":         &config.SpeechHost,
		"speech-model":        &config.SpeechModel,
		"elevenlabs-api-key":  &config.SpeechAPIKey,
	} {
		if v := c.String(name); v != "" {
			*dst = v
		}
	}
	return config
}

func readAudioFile(path string) (core.Audio, error) {
	if path == "" {
		return core.Audio{}, fmt.Errorf("audio file argument is required")
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return core.Audio{}, fmt.Errorf("failed to read audio: %w", err)
	}
	return core.Audio{
		Data:   data,
		Format: core.NormalizeAudioFormat(filepath.Ext(path)),
	}, nil
}

func printSources(c *cli.Context, sources []interaction.Source, emptyContext bool) {
	if emptyContext {
		fmt.Fprintln(c.App.ErrWriter, "(no matching documents; answered from general knowledge)")
		return
	}
	for _, src := range sources {
		fmt.Fprintf(c.App.ErrWriter, "  source: %s (%s)\n", src.Title, src.SourcePath)
	}
}

func printAudio(c *cli.Context, store *interaction.FileAudioStore, ref string) {
	path, err := store.Resolve(ref)
	if err != nil {
		fmt.Fprintf(c.App.Writer, "Audio: %s\n", ref)
		return
	}
	fmt.Fprintf(c.App.Writer, "Audio: %s\n", path)
}
