package api

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"path/filepath"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/poiesic/vocalis/core"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

// SpeakRequest is the body of POST /api/voice/speak.
type SpeakRequest struct {
	Text  string `json:"text" validate:"required"`
	Voice string `json:"voice" validate:"omitempty,oneof=male female neutral"`
}

// AskRequest is the body of POST /api/voice/ask.
type AskRequest struct {
	Question string `json:"question" validate:"required"`
}

// InteractForm holds the non-file fields of POST /api/voice/interact.
type InteractForm struct {
	Voice string `form:"voice" validate:"omitempty,oneof=male female neutral"`
}

// SearchParams are the query parameters of GET /api/search.
type SearchParams struct {
	Query string `query:"q" validate:"required,max=500"`
	Limit int    `query:"limit" validate:"omitempty,min=1,max=50"`
}

const defaultSearchLimit = 5

// validateStruct runs the struct's validate tags and returns a
// ValidationError keyed by field name, or nil.
func validateStruct(v any) error {
	err := validate.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	errs := make(map[string]string, len(fieldErrs))
	for _, e := range fieldErrs {
		errs[e.Field()] = fmt.Sprintf("failed on '%s' tag", e.Tag())
	}
	return NewValidationError(errs)
}

// readAudio loads the uploaded "audio" file, refusing anything larger
// than maxBytes.
func readAudio(c *fiber.Ctx, maxBytes int) (core.Audio, error) {
	header, err := c.FormFile("audio")
	if err != nil {
		return core.Audio{}, NewValidationError(map[string]string{"audio": "failed on 'required' tag"})
	}
	if maxBytes > 0 && header.Size > int64(maxBytes) {
		return core.Audio{}, core.NewValidationError("audio", fmt.Errorf("%w: maximum is %d bytes", core.ErrAudioTooLarge, maxBytes))
	}

	data, err := readFormFile(header)
	if err != nil {
		return core.Audio{}, err
	}

	return core.Audio{
		Data:   data,
		Format: core.NormalizeAudioFormat(filepath.Ext(header.Filename)),
	}, nil
}

func readFormFile(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, fmt.Errorf("failed to open upload: %w", err)
	}
	defer f.Close()

	data, err := io.ReadAll(f)
	if err != nil {
		return nil, fmt.Errorf("failed to read upload: %w", err)
	}
	return data, nil
}
