package main

import (
	"time"

	"github.com/urfave/cli/v2"
)

func flags(groups ...[]cli.Flag) []cli.Flag {
	var all []cli.Flag
	for _, g := range groups {
		all = append(all, g...)
	}
	return all
}

// baseFlags are accepted by every command: each one opens the document
// store and builds the providers.
func baseFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "db",
			Aliases: []string{"d"},
			Usage:   "Path to BadgerDB database directory",
			Value:   "./vocalis_db",
			EnvVars: []string{"VOCALIS_DB"},
		},
		&cli.StringFlag{
			Name:    "postgres-dsn",
			Usage:   "Store documents in PostgreSQL instead of BadgerDB",
			EnvVars: []string{"VOCALIS_POSTGRES_DSN"},
		},
		&cli.StringFlag{
			Name:    "api-key",
			Usage:   "API key for the OpenAI-compatible hosts",
			EnvVars: []string{"OPENAI_API_KEY"},
		},
	}
}

func embeddingFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "embedding-host",
			Usage:   "Embedding service host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"VOCALIS_EMBEDDING_HOST"},
		},
		&cli.StringFlag{
			Name:    "embedding-model",
			Usage:   "Embedding model name",
			Value:   "embeddinggemma",
			EnvVars: []string{"VOCALIS_EMBEDDING_MODEL"},
		},
	}
}

func chatFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "chat-host",
			Usage:   "Chat completion host URL",
			Value:   "http://localhost:11434/v1",
			EnvVars: []string{"VOCALIS_CHAT_HOST"},
		},
		&cli.StringFlag{
			Name:    "chat-model",
			Usage:   "Model used to answer questions",
			Value:   "qwen2.5:3b",
			EnvVars: []string{"VOCALIS_CHAT_MODEL"},
		},
	}
}

func transcriptionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "transcription-host",
			Usage:   "OpenAI-compatible speech-to-text host URL",
			Value:   "https://api.openai.com/v1",
			EnvVars: []string{"VOCALIS_TRANSCRIPTION_HOST"},
		},
		&cli.StringFlag{
			Name:    "transcription-model",
			Usage:   "Speech-to-text model",
			Value:   "whisper-1",
			EnvVars: []string{"VOCALIS_TRANSCRIPTION_MODEL"},
		},
	}
}

func speechFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "speech-host",
			Usage:   "ElevenLabs API host URL",
			Value:   "https://api.elevenlabs.io/v1",
			EnvVars: []string{"VOCALIS_SPEECH_HOST"},
		},
		&cli.StringFlag{
			Name:    "speech-model",
			Usage:   "ElevenLabs model ID",
			Value:   "eleven_multilingual_v2",
			EnvVars: []string{"VOCALIS_SPEECH_MODEL"},
		},
		&cli.StringFlag{
			Name:    "elevenlabs-api-key",
			Usage:   "ElevenLabs API key",
			EnvVars: []string{"ELEVENLABS_API_KEY"},
		},
	}
}

func interactionFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:    "audio-dir",
			Usage:   "Directory where synthesized audio is written",
			Value:   "./storage/audio",
			EnvVars: []string{"VOCALIS_AUDIO_DIR"},
		},
		&cli.StringFlag{
			Name:  "audio-url-prefix",
			Usage: "URL path under which synthesized audio is served",
			Value: "/audio",
		},
		&cli.IntFlag{
			Name:  "retrieval-limit",
			Usage: "Number of documents retrieved for each question (0 disables retrieval)",
			Value: 3,
		},
		&cli.IntFlag{
			Name:  "context-tokens",
			Usage: "Token budget for retrieved context (0 = unlimited)",
			Value: 2000,
		},
		&cli.DurationFlag{
			Name:  "stage-timeout",
			Usage: "Time limit for each pipeline stage",
			Value: 60 * time.Second,
		},
	}
}

func voiceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "voice",
			Usage: "Voice profile (male, female, neutral)",
		},
	}
}
