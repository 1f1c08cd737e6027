package main

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/poiesic/vocalis/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"
)

func findCommand(t *testing.T, app *cli.App, name string) *cli.Command {
	t.Helper()
	for _, cmd := range app.Commands {
		if cmd.Name == name {
			return cmd
		}
	}
	t.Fatalf("command %q not found", name)
	return nil
}

func findStringFlag(cmd *cli.Command, name string) *cli.StringFlag {
	for _, flag := range cmd.Flags {
		if f, ok := flag.(*cli.StringFlag); ok && f.Name == name {
			return f
		}
	}
	return nil
}

func findIntFlag(cmd *cli.Command, name string) *cli.IntFlag {
	for _, flag := range cmd.Flags {
		if f, ok := flag.(*cli.IntFlag); ok && f.Name == name {
			return f
		}
	}
	return nil
}

func TestCommands(t *testing.T) {
	app := newApp()

	for _, name := range []string{"import", "search", "ask", "transcribe", "speak", "interact", "reembed", "serve"} {
		t.Run(name, func(t *testing.T) {
			cmd := findCommand(t, app, name)
			assert.NotNil(t, cmd.Action)

			seen := map[string]bool{}
			for _, flag := range cmd.Flags {
				for _, n := range flag.Names() {
					assert.False(t, seen[n], "duplicate flag %q", n)
					seen[n] = true
				}
			}
			assert.True(t, seen["db"], "every command opens the knowledge base")
			assert.True(t, seen["api-key"])
		})
	}
}

func TestFlagDefaults(t *testing.T) {
	app := newApp()

	t.Run("embedding-host has default and env var", func(t *testing.T) {
		f := findStringFlag(findCommand(t, app, "import"), "embedding-host")
		require.NotNil(t, f)
		assert.Equal(t, "http://localhost:11434/v1", f.Value)
		assert.Equal(t, []string{"VOCALIS_EMBEDDING_HOST"}, f.EnvVars)
	})

	t.Run("api keys come from the environment", func(t *testing.T) {
		cmd := findCommand(t, app, "interact")
		assert.Equal(t, []string{"OPENAI_API_KEY"}, findStringFlag(cmd, "api-key").EnvVars)
		assert.Equal(t, []string{"ELEVENLABS_API_KEY"}, findStringFlag(cmd, "elevenlabs-api-key").EnvVars)
	})

	t.Run("retrieval-limit defaults to 3", func(t *testing.T) {
		f := findIntFlag(findCommand(t, app, "ask"), "retrieval-limit")
		require.NotNil(t, f)
		assert.Equal(t, 3, f.Value)
	})

	t.Run("search limit defaults to 5", func(t *testing.T) {
		f := findIntFlag(findCommand(t, app, "search"), "limit")
		require.NotNil(t, f)
		assert.Equal(t, 5, f.Value)
	})

	t.Run("serve listens on 8080", func(t *testing.T) {
		f := findStringFlag(findCommand(t, app, "serve"), "addr")
		require.NotNil(t, f)
		assert.Equal(t, ":8080", f.Value)
	})
}

func TestCommandValidation(t *testing.T) {
	db := filepath.Join(t.TempDir(), "db")

	t.Run("import requires a directory", func(t *testing.T) {
		err := newApp().Run([]string{"vocalis", "import", "--db", db})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "directory")
	})

	t.Run("search requires a query", func(t *testing.T) {
		err := newApp().Run([]string{"vocalis", "search", "--db", db})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "query")
	})

	t.Run("transcribe requires a file", func(t *testing.T) {
		err := newApp().Run([]string{"vocalis", "transcribe", "--db", db})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "audio file")
	})

	t.Run("reembed rejects zero batch size", func(t *testing.T) {
		err := newApp().Run([]string{"vocalis", "reembed", "--db", db, "--batch-size", "0"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "batch-size")
	})

	t.Run("reembed rejects zero retries", func(t *testing.T) {
		err := newApp().Run([]string{"vocalis", "reembed", "--db", db, "--max-retries", "0"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max-retries")
	})
}

func TestAIConfigFromFlags(t *testing.T) {
	app := &cli.App{
		Name:  "test",
		Flags: flags(baseFlags(), embeddingFlags()),
		Action: func(c *cli.Context) error {
			config := aiConfigFrom(c)
			assert.Equal(t, "http://embed:1234/v1", config.EmbeddingHost)
			assert.Equal(t, "nomic-embed-text", config.EmbeddingModel)
			assert.Equal(t, "sk-test", config.APIKey)
			// Flags this command lacks keep their defaults.
			assert.Equal(t, "whisper-1", config.TranscriptionModel)
			assert.Equal(t, "qwen2.5:3b", config.ChatModel)
			return nil
		},
	}

	t.Setenv("OPENAI_API_KEY", "sk-test")
	err := app.Run([]string{"test",
		"--embedding-host", "http://embed:1234/v1",
		"--embedding-model", "nomic-embed-text",
	})
	require.NoError(t, err)
}

func TestReadAudioFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "Question.WAV")
	require.NoError(t, os.WriteFile(path, []byte("RIFF"), 0o644))

	audio, err := readAudioFile(path)
	require.NoError(t, err)
	assert.Equal(t, "wav", audio.Format)
	assert.Equal(t, []byte("RIFF"), audio.Data)

	_, err = readAudioFile(filepath.Join(t.TempDir(), "missing.mp3"))
	assert.Error(t, err)
}

func TestImportAndSearch(t *testing.T) {
	docs := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(docs, "laravel-voice.md"),
		[]byte("Building Laravel voice assistants."), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(docs, "cooking.md"),
		[]byte("# Bread\nFlour and water."), 0o644))

	db := filepath.Join(t.TempDir(), "db")
	// Nothing listens on port 1, so every embedding call fails fast and
	// documents fall back to lexical search.
	common := []string{"--db", db, "--embedding-host", "http://127.0.0.1:1/v1"}

	var out, errOut bytes.Buffer
	run := func(args ...string) error {
		app := newApp()
		app.Writer = &out
		app.ErrWriter = &errOut
		return app.Run(args)
	}

	args := append([]string{"vocalis", "import"}, common...)
	require.NoError(t, run(append(args, docs)...))
	assert.Contains(t, out.String(), "Imported 2 documents (0 unchanged, 2 failed)")

	out.Reset()
	args = append([]string{"vocalis", "search"}, common...)
	require.NoError(t, run(append(args, "laravel", "assistant")...))
	assert.Contains(t, out.String(), "Found 1 hits")
	assert.Contains(t, out.String(), "'Laravel voice' laravel-voice.md")
	assert.Contains(t, out.String(), "lexical")
	assert.NotContains(t, errOut.String(), "search:")

	out.Reset()
	args = append([]string{"vocalis", "search", "--verbose"}, common...)
	require.NoError(t, run(append(args, "laravel")...))
	assert.Contains(t, out.String(), "Found 1 hits")
	assert.Contains(t, errOut.String(), `search: query="laravel" limit=5`)
	assert.Contains(t, errOut.String(), "search: scanned 2 documents")
	assert.Contains(t, errOut.String(), "search: query embedding failed")
	assert.Contains(t, errOut.String(), "search: lexical fallback")
	assert.Contains(t, errOut.String(), "search: 1 results")
}

func TestTraceMonitor(t *testing.T) {
	var buf bytes.Buffer
	m := &traceMonitor{w: &buf}

	m.Start("go", 3)
	m.AfterDocumentScan(4)
	m.AfterQueryEmbedding(8, nil)
	m.AfterVectorCandidates(2)
	m.Finish([]*core.SearchResult{{}, {}})

	assert.Equal(t, `search: query="go" limit=3
search: scanned 4 documents
search: query embedding has 8 dimensions
search: 2 documents with comparable embeddings
search: 2 results
`, buf.String())
}

func TestSetupLogger(t *testing.T) {
	t.Run("valid log levels", func(t *testing.T) {
		for _, level := range []string{"debug", "info", "warn", "error", "DEBUG", "WaRn"} {
			t.Run(level, func(t *testing.T) {
				app := &cli.App{
					Name: "test",
					Flags: []cli.Flag{
						&cli.StringFlag{Name: "log-level", Value: "info"},
					},
					Before: setupLogger,
					Action: func(c *cli.Context) error { return nil },
				}
				require.NoError(t, app.Run([]string{"test", "--log-level", level}))
			})
		}
	})

	t.Run("invalid log level returns error", func(t *testing.T) {
		app := &cli.App{
			Name: "test",
			Flags: []cli.Flag{
				&cli.StringFlag{Name: "log-level", Value: "info"},
			},
			Before: setupLogger,
			Action: func(c *cli.Context) error { return nil },
		}

		err := app.Run([]string{"test", "--log-level", "invalid"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "invalid log level")
	})

	t.Run("log-level flag has alias -l", func(t *testing.T) {
		app := newApp()
		var level string
		app.Commands = []*cli.Command{{
			Name: "noop",
			Action: func(c *cli.Context) error {
				level = c.String("log-level")
				return nil
			},
		}}
		require.NoError(t, app.Run([]string{"vocalis", "-l", "debug", "noop"}))
		assert.Equal(t, "debug", level)
	})
}
