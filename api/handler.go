package api

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/poiesic/vocalis/core"
	"github.com/poiesic/vocalis/interaction"
)

// Assistant runs the voice pipeline. *interaction.Orchestrator satisfies it.
type Assistant interface {
	RunInteraction(ctx context.Context, audio core.Audio, voice core.VoiceProfile) (*interaction.Result, error)
	TranscribeOnly(ctx context.Context, audio core.Audio) (string, error)
	AnswerOnly(ctx context.Context, question string) (*interaction.Answer, error)
	SpeakOnly(ctx context.Context, text string, voice core.VoiceProfile) (string, error)
	Config() interaction.Config
}

// Ranker ranks knowledge-base documents. *search.Searcher satisfies it.
type Ranker interface {
	Rank(ctx context.Context, query string, limit int) ([]*core.SearchResult, error)
}

type VoiceHandler struct {
	assistant Assistant
}

func NewVoiceHandler(assistant Assistant) *VoiceHandler {
	return &VoiceHandler{assistant: assistant}
}

type transcribeResponse struct {
	Success bool   `json:"success"`
	Text    string `json:"text"`
}

func (h *VoiceHandler) HandleTranscribe(c *fiber.Ctx) error {
	audio, err := readAudio(c, h.assistant.Config().MaxAudioBytes)
	if err != nil {
		return err
	}

	text, err := h.assistant.TranscribeOnly(c.UserContext(), audio)
	if err != nil {
		return err
	}
	return c.JSON(transcribeResponse{Success: true, Text: text})
}

type speakResponse struct {
	Success  bool   `json:"success"`
	AudioURL string `json:"audio_url"`
}

func (h *VoiceHandler) HandleSpeak(c *fiber.Ctx) error {
	var req SpeakRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrBadRequest()
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	ref, err := h.assistant.SpeakOnly(c.UserContext(), req.Text, core.VoiceProfile(req.Voice))
	if err != nil {
		return err
	}
	return c.JSON(speakResponse{Success: true, AudioURL: ref})
}

type askResponse struct {
	Success      bool                 `json:"success"`
	Response     string               `json:"response"`
	Sources      []interaction.Source `json:"sources"`
	EmptyContext bool                 `json:"empty_context"`
}

func (h *VoiceHandler) HandleAsk(c *fiber.Ctx) error {
	var req AskRequest
	if err := c.BodyParser(&req); err != nil {
		return ErrBadRequest()
	}
	if err := validateStruct(&req); err != nil {
		return err
	}

	answer, err := h.assistant.AnswerOnly(c.UserContext(), req.Question)
	if err != nil {
		return err
	}
	return c.JSON(askResponse{
		Success:      true,
		Response:     answer.Text,
		Sources:      nonNil(answer.Sources),
		EmptyContext: answer.EmptyContext,
	})
}

type interactResponse struct {
	Success       bool                 `json:"success"`
	Transcription string               `json:"transcription"`
	Response      string               `json:"response"`
	AudioURL      string               `json:"audio_url"`
	Voice         core.VoiceProfile    `json:"voice"`
	Sources       []interaction.Source `json:"sources"`
	EmptyContext  bool                 `json:"empty_context"`
}

func (h *VoiceHandler) HandleInteract(c *fiber.Ctx) error {
	var form InteractForm
	if err := c.BodyParser(&form); err != nil {
		return ErrBadRequest()
	}
	if err := validateStruct(&form); err != nil {
		return err
	}
	audio, err := readAudio(c, h.assistant.Config().MaxAudioBytes)
	if err != nil {
		return err
	}

	result, err := h.assistant.RunInteraction(c.UserContext(), audio, core.VoiceProfile(form.Voice))
	if err != nil {
		return err
	}
	return c.JSON(interactResponse{
		Success:       true,
		Transcription: result.Transcript,
		Response:      result.Answer,
		AudioURL:      result.AudioRef,
		Voice:         result.Voice,
		Sources:       nonNil(result.Sources),
		EmptyContext:  result.EmptyContext,
	})
}

type SearchHandler struct {
	ranker Ranker
}

func NewSearchHandler(ranker Ranker) *SearchHandler {
	return &SearchHandler{ranker: ranker}
}

type searchHit struct {
	ID         core.ID           `json:"id"`
	Title      string            `json:"title"`
	SourcePath string            `json:"source_path"`
	Score      float64           `json:"score"`
	Method     core.SearchMethod `json:"method"`
}

type searchResponse struct {
	Success bool        `json:"success"`
	Results []searchHit `json:"results"`
}

func (h *SearchHandler) HandleSearch(c *fiber.Ctx) error {
	var params SearchParams
	if err := c.QueryParser(&params); err != nil {
		return ErrBadRequest()
	}
	if err := validateStruct(&params); err != nil {
		return err
	}
	if params.Limit == 0 {
		params.Limit = defaultSearchLimit
	}

	results, err := h.ranker.Rank(c.UserContext(), params.Query, params.Limit)
	if err != nil {
		return err
	}

	hits := make([]searchHit, len(results))
	for i, r := range results {
		hits[i] = searchHit{
			ID:         r.Document.Id,
			Title:      r.Document.Title,
			SourcePath: r.Document.SourcePath,
			Score:      r.Score,
			Method:     r.Method,
		}
	}
	return c.JSON(searchResponse{Success: true, Results: hits})
}

type CheckHandler struct{}

func NewCheckHandler() *CheckHandler {
	return &CheckHandler{}
}

func (h CheckHandler) HandleHealthy(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"success": true, "result": "ok"})
}

func nonNil[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}
