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

package core

import (
	"errors"
	"fmt"
)

// Domain validation errors
var (
	// ErrInvalidInput is matched by every ValidationError.
	ErrInvalidInput = errors.New("invalid input")

	// ErrEmptyContent indicates a required text field is empty.
	ErrEmptyContent = errors.New("content cannot be empty")

	// ErrTooLong indicates a text field exceeds its maximum length.
	ErrTooLong = errors.New("content too long")

	// ErrInvalidVoice indicates an unknown voice profile.
	ErrInvalidVoice = errors.New("invalid voice profile")

	// ErrEmptyAudio indicates no audio bytes were supplied.
	ErrEmptyAudio = errors.New("audio cannot be empty")

	// ErrAudioTooLarge indicates the audio exceeds the size limit.
	ErrAudioTooLarge = errors.New("audio too large")

	// ErrUnsupportedAudio indicates an audio format that is not accepted.
	ErrUnsupportedAudio = errors.New("unsupported audio format")
)

// ValidationError reports malformed caller input. It is raised before
// any provider is contacted.
type ValidationError struct {
	Field  string
	Reason error
}

// NewValidationError creates a ValidationError for field.
func NewValidationError(field string, reason error) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %v", e.Field, e.Reason)
}

// Unwrap exposes both the generic and the specific reason.
func (e *ValidationError) Unwrap() []error {
	return []error{ErrInvalidInput, e.Reason}
}
