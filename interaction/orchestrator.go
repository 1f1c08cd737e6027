// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package interaction

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/poiesic/vocalis/ai"
	"github.com/poiesic/vocalis/core"
)

// Retriever returns the documents most relevant to a query.
// *search.Searcher satisfies it.
type Retriever interface {
	Search(ctx context.Context, query string, limit int) ([]*core.Document, error)
}

// Answer is the outcome of the answering stage.
type Answer struct {
	Text    string
	Sources []Source
	// EmptyContext is set when retrieval found nothing and the answer
	// comes from the model's general knowledge.
	EmptyContext bool
}

// Result is the outcome of a complete voice interaction.
type Result struct {
	Transcript   string
	Answer       string
	AudioRef     string
	Voice        core.VoiceProfile
	Sources      []Source
	EmptyContext bool
}

// Orchestrator runs voice interactions against a set of providers.
// It holds no per-request state and is safe for concurrent use.
type Orchestrator struct {
	retriever   Retriever
	transcriber ai.Transcriber
	answerer    ai.AnswerGenerator
	synthesizer ai.Synthesizer
	audioStore  AudioStore
	config      *Config
	tokens      TokenCounter
	tempDir     string
	logger      *slog.Logger
}

// Option configures an Orchestrator.
type Option func(*Orchestrator) error

// WithConfig replaces the default Config.
func WithConfig(config *Config) Option {
	return func(o *Orchestrator) error {
		if config == nil {
			return errors.New("config must not be nil")
		}
		if err := config.Validate(); err != nil {
			return err
		}
		o.config = config
		return nil
	}
}

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(o *Orchestrator) error {
		if logger == nil {
			logger = slog.Default()
		}
		o.logger = logger
		return nil
	}
}

// WithTokenCounter sets the counter used for the context budget.
// Default is ApproxCounter.
func WithTokenCounter(counter TokenCounter) Option {
	return func(o *Orchestrator) error {
		if counter != nil {
			o.tokens = counter
		}
		return nil
	}
}

// WithTempDir sets where inbound audio is spooled.
// Default is os.TempDir().
func WithTempDir(dir string) Option {
	return func(o *Orchestrator) error {
		o.tempDir = dir
		return nil
	}
}

// NewOrchestrator creates an orchestrator that retrieves with retriever,
// calls provider's transcription, answer and synthesis services, and
// saves synthesized speech to store.
func NewOrchestrator(provider ai.AIProvider, retriever Retriever, store AudioStore, opts ...Option) (*Orchestrator, error) {
	if provider == nil {
		return nil, ErrAIProviderRequired
	}
	if retriever == nil {
		return nil, ErrRetrieverRequired
	}
	if store == nil {
		return nil, ErrAudioStoreRequired
	}

	o := &Orchestrator{
		retriever:   retriever,
		transcriber: provider.Transcriber(),
		answerer:    provider.AnswerGenerator(),
		synthesizer: provider.Synthesizer(),
		audioStore:  store,
		config:      DefaultConfig(),
		tokens:      ApproxCounter{},
		logger:      slog.Default(),
	}

	for _, opt := range opts {
		if err := opt(o); err != nil {
			return nil, err
		}
	}
	o.logger = o.logger.With("component", "orchestrator")

	return o, nil
}

// Config returns the orchestrator's policy.
func (o *Orchestrator) Config() Config {
	return *o.config
}

// RunInteraction transcribes audio, answers the transcribed question and
// speaks the answer in voice. An empty voice selects the configured
// default. Invalid input yields a *core.ValidationError before any
// provider is called; a failing stage yields a *StageFailure carrying
// whatever earlier stages produced.
func (o *Orchestrator) RunInteraction(ctx context.Context, audio core.Audio, voice core.VoiceProfile) (*Result, error) {
	voice, err := o.resolveVoice(voice)
	if err != nil {
		return nil, err
	}
	if err := core.ValidateAudio(audio, o.config.MaxAudioBytes); err != nil {
		return nil, err
	}

	transcript, failure := o.transcribe(ctx, audio)
	if failure != nil {
		return nil, failure
	}

	answer, failure := o.answer(ctx, transcript)
	if failure != nil {
		failure.Transcript = transcript
		return nil, failure
	}

	audioRef, failure := o.speak(ctx, answer.Text, voice)
	if failure != nil {
		failure.Transcript = transcript
		failure.Answer = answer.Text
		return nil, failure
	}

	o.logger.Info("interaction complete",
		"voice", voice,
		"sources", len(answer.Sources),
		"emptyContext", answer.EmptyContext,
	)

	return &Result{
		Transcript:   transcript,
		Answer:       answer.Text,
		AudioRef:     audioRef,
		Voice:        voice,
		Sources:      answer.Sources,
		EmptyContext: answer.EmptyContext,
	}, nil
}

// TranscribeOnly runs the transcription stage alone.
func (o *Orchestrator) TranscribeOnly(ctx context.Context, audio core.Audio) (string, error) {
	if err := core.ValidateAudio(audio, o.config.MaxAudioBytes); err != nil {
		return "", err
	}

	transcript, failure := o.transcribe(ctx, audio)
	if failure != nil {
		return "", failure
	}
	return transcript, nil
}

// AnswerOnly runs retrieval and answer generation for a typed question.
func (o *Orchestrator) AnswerOnly(ctx context.Context, question string) (*Answer, error) {
	if err := core.ValidateText("question", question, o.config.MaxQuestionLength); err != nil {
		return nil, err
	}

	answer, failure := o.answer(ctx, strings.TrimSpace(question))
	if failure != nil {
		return nil, failure
	}
	return answer, nil
}

// SpeakOnly synthesizes text in voice and returns the audio reference.
func (o *Orchestrator) SpeakOnly(ctx context.Context, text string, voice core.VoiceProfile) (string, error) {
	if err := core.ValidateText("text", text, o.config.MaxSpeechLength); err != nil {
		return "", err
	}
	voice, err := o.resolveVoice(voice)
	if err != nil {
		return "", err
	}

	audioRef, failure := o.speak(ctx, strings.TrimSpace(text), voice)
	if failure != nil {
		return "", failure
	}
	return audioRef, nil
}

func (o *Orchestrator) resolveVoice(voice core.VoiceProfile) (core.VoiceProfile, error) {
	if voice == "" {
		return o.config.DefaultVoice, nil
	}
	return core.ParseVoiceProfile(string(voice))
}

// transcribe spools audio to a temporary file, submits it and removes
// the file before returning.
func (o *Orchestrator) transcribe(ctx context.Context, audio core.Audio) (string, *StageFailure) {
	path, cleanup, err := spoolAudio(o.tempDir, audio)
	if err != nil {
		return "", o.fail(StageTranscription, err)
	}
	defer func() {
		if err := cleanup(); err != nil {
			o.logger.Error("failed to remove temporary audio", "path", path, "err", err)
		}
	}()

	transcript, err := callWithTimeout(ctx, o.config.TranscriptionTimeout, func(ctx context.Context) (string, error) {
		f, err := os.Open(path)
		if err != nil {
			return "", err
		}
		defer f.Close()
		return o.transcriber.Transcribe(ctx, f, filepath.Base(path))
	})
	if err != nil {
		return "", o.fail(StageTranscription, err)
	}

	transcript = strings.TrimSpace(transcript)
	if transcript == "" {
		return "", o.fail(StageTranscription, ErrEmptyTranscript)
	}

	o.logger.Debug("transcribed audio", "bytes", len(audio.Data), "length", len(transcript))
	return transcript, nil
}

// answer retrieves context for question and generates the answer.
// Retrieval is best effort: a failed or empty search still produces an
// answer, flagged EmptyContext.
func (o *Orchestrator) answer(ctx context.Context, question string) (*Answer, *StageFailure) {
	answer, err := callWithTimeout(ctx, o.config.AnsweringTimeout, func(ctx context.Context) (*Answer, error) {
		knowledge, sources := o.retrieve(ctx, question)
		empty := knowledge == ""
		if empty {
			knowledge = noKnowledge(question)
		}

		text, err := o.answerer.GenerateAnswer(ctx, question, knowledge)
		if err != nil {
			return nil, err
		}

		text = strings.TrimSpace(text)
		if text == "" {
			return nil, ai.ErrEmptyResponse
		}
		return &Answer{Text: text, Sources: sources, EmptyContext: empty}, nil
	})
	if err != nil {
		return nil, o.fail(StageAnswering, err)
	}
	return answer, nil
}

func (o *Orchestrator) retrieve(ctx context.Context, question string) (string, []Source) {
	if o.config.RetrievalLimit == 0 {
		return "", nil
	}

	docs, err := o.retriever.Search(ctx, question, o.config.RetrievalLimit)
	if err != nil {
		o.logger.Warn("retrieval failed, answering without context", "err", err)
		return "", nil
	}
	if len(docs) == 0 {
		o.logger.Debug("retrieval found no documents")
		return "", nil
	}
	return buildKnowledge(docs, o.tokens, o.config.ContextTokenBudget)
}

// speak synthesizes text and stores the audio.
func (o *Orchestrator) speak(ctx context.Context, text string, voice core.VoiceProfile) (string, *StageFailure) {
	audioRef, err := callWithTimeout(ctx, o.config.SynthesisTimeout, func(ctx context.Context) (string, error) {
		audio, err := o.synthesizer.Synthesize(ctx, text, voice)
		if err != nil {
			return "", err
		}
		if len(audio.Data) == 0 {
			return "", ai.ErrEmptyResponse
		}
		return o.audioStore.Save(ctx, audio)
	})
	if err != nil {
		return "", o.fail(StageSynthesis, err)
	}
	return audioRef, nil
}

func (o *Orchestrator) fail(stage Stage, err error) *StageFailure {
	o.logger.Error("stage failed", "stage", stage, "timeout", errors.Is(err, ErrStageTimeout), "err", err)
	return newStageFailure(stage, fmt.Errorf("%s: %w", stage, err))
}
