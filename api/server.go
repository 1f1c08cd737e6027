package api

import (
	"errors"
	"log/slog"
	"time"

	"github.com/gofiber/fiber/v2"
)

const (
	// uploadOverhead is added to the audio limit to leave room for
	// multipart framing and form fields.
	uploadOverhead = 1 << 20

	DefaultShutdownTimeout = 10 * time.Second
)

type Server struct {
	app             *fiber.App
	shutdownTimeout time.Duration
	logger          *slog.Logger
}

type serverOptions struct {
	logger          *slog.Logger
	audioPrefix     string
	audioRoot       string
	shutdownTimeout time.Duration
}

// Option configures a Server.
type Option func(*serverOptions)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *serverOptions) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithAudioFiles serves the files under root at prefix so synthesized
// audio references resolve.
func WithAudioFiles(prefix, root string) Option {
	return func(o *serverOptions) {
		o.audioPrefix = prefix
		o.audioRoot = root
	}
}

// WithShutdownTimeout bounds how long Shutdown waits for in-flight requests.
func WithShutdownTimeout(d time.Duration) Option {
	return func(o *serverOptions) {
		o.shutdownTimeout = d
	}
}

// NewServer wires the HTTP routes to assistant and ranker.
func NewServer(assistant Assistant, ranker Ranker, opts ...Option) (*Server, error) {
	if assistant == nil {
		return nil, errors.New("assistant is required")
	}
	if ranker == nil {
		return nil, errors.New("ranker is required")
	}

	options := &serverOptions{
		logger:          slog.Default(),
		shutdownTimeout: DefaultShutdownTimeout,
	}
	for _, opt := range opts {
		opt(options)
	}
	logger := options.logger.With("component", "api")

	app := fiber.New(fiber.Config{
		ErrorHandler:          NewErrorHandler(logger),
		BodyLimit:             assistant.Config().MaxAudioBytes + uploadOverhead,
		DisableStartupMessage: true,
	})

	var (
		checkHandler  = NewCheckHandler()
		voiceHandler  = NewVoiceHandler(assistant)
		searchHandler = NewSearchHandler(ranker)
		check         = app.Group("/check")
		apiGroup      = app.Group("/api")
		voice         = apiGroup.Group("/voice")
	)

	check.Get("/healthy", checkHandler.HandleHealthy)
	voice.Post("/transcribe", voiceHandler.HandleTranscribe)
	voice.Post("/speak", voiceHandler.HandleSpeak)
	voice.Post("/ask", voiceHandler.HandleAsk)
	voice.Post("/interact", voiceHandler.HandleInteract)
	apiGroup.Get("/search", searchHandler.HandleSearch)

	if options.audioRoot != "" {
		app.Static(options.audioPrefix, options.audioRoot, fiber.Static{ByteRange: true})
	}

	return &Server{
		app:             app,
		shutdownTimeout: options.shutdownTimeout,
		logger:          logger,
	}, nil
}

// App returns the underlying fiber application.
func (s *Server) App() *fiber.App {
	return s.app
}

// Listen serves HTTP on addr until Shutdown is called.
func (s *Server) Listen(addr string) error {
	s.logger.Info("listening", "addr", addr)
	return s.app.Listen(addr)
}

// Shutdown stops accepting connections and waits for in-flight requests.
func (s *Server) Shutdown() error {
	err := s.app.ShutdownWithTimeout(s.shutdownTimeout)
	s.logger.Info("server stopped")
	return err
}
