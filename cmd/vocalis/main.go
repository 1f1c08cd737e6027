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

package main

import (
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v2"
)

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		log.Printf("ignoring .env: %v", err)
	}

	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "vocalis",
		Usage: "Voice question answering over a private document collection",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"VOCALIS_LOG_LEVEL"},
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "import",
				Usage:     "Import the documents in a directory into the knowledge base",
				ArgsUsage: "<directory>",
				Action:    importCommand,
				Flags: flags(baseFlags(), embeddingFlags(), []cli.Flag{
					&cli.IntFlag{
						Name:  "workers",
						Usage: "Number of files read and embedded concurrently (0 = half the CPUs)",
					},
					&cli.StringSliceFlag{
						Name:  "ext",
						Usage: "File extensions to import",
						Value: cli.NewStringSlice(".md"),
					},
					&cli.BoolFlag{
						Name:  "reembed-unchanged",
						Usage: "Request new embeddings even for files whose content did not change",
					},
				}),
			},
			{
				Name:      "search",
				Usage:     "Search the knowledge base",
				ArgsUsage: "<query>",
				Action:    searchCommand,
				Flags: flags(baseFlags(), embeddingFlags(), []cli.Flag{
					&cli.IntFlag{
						Name:    "limit",
						Aliases: []string{"n"},
						Usage:   "Maximum number of results",
						Value:   5,
					},
					&cli.BoolFlag{
						Name:  "verbose",
						Usage: "Print each search step to stderr",
					},
				}),
			},
			{
				Name:      "ask",
				Usage:     "Answer a typed question from the knowledge base",
				ArgsUsage: "<question>",
				Action:    askCommand,
				Flags:     flags(baseFlags(), embeddingFlags(), chatFlags(), interactionFlags()),
			},
			{
				Name:      "transcribe",
				Usage:     "Transcribe an audio file",
				ArgsUsage: "<audio file>",
				Action:    transcribeCommand,
				Flags:     flags(baseFlags(), transcriptionFlags(), interactionFlags()),
			},
			{
				Name:      "speak",
				Usage:     "Synthesize speech for a piece of text",
				ArgsUsage: "<text>",
				Action:    speakCommand,
				Flags:     flags(baseFlags(), speechFlags(), interactionFlags(), voiceFlags()),
			},
			{
				Name:      "interact",
				Usage:     "Run a full voice interaction for an audio file",
				ArgsUsage: "<audio file>",
				Action:    interactCommand,
				Flags: flags(baseFlags(), embeddingFlags(), chatFlags(), transcriptionFlags(),
					speechFlags(), interactionFlags(), voiceFlags()),
			},
			{
				Name:   "reembed",
				Usage:  "Regenerate document embeddings with the configured model",
				Action: reembedCommand,
				Flags: flags(baseFlags(), embeddingFlags(), []cli.Flag{
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of documents to process in each batch",
						Value: 32,
					},
					&cli.IntFlag{
						Name:  "report-interval",
						Usage: "Report progress every N documents",
						Value: 10,
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum retry attempts for failed operations",
						Value: 3,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: 1 * time.Second,
					},
					&cli.BoolFlag{
						Name:  "missing-only",
						Usage: "Only embed documents stored without an embedding",
					},
				}),
			},
			{
				Name:   "serve",
				Usage:  "Serve the voice API over HTTP",
				Action: serveCommand,
				Flags: flags(baseFlags(), embeddingFlags(), chatFlags(), transcriptionFlags(),
					speechFlags(), interactionFlags(), []cli.Flag{
						&cli.StringFlag{
							Name:    "addr",
							Usage:   "Listen address",
							Value:   ":8080",
							EnvVars: []string{"VOCALIS_ADDR"},
						},
					}),
			},
		},
	}
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
