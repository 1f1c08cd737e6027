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
	"fmt"
	"slices"
	"strings"
	"unicode/utf8"
)

// SupportedAudioFormats lists the audio encodings accepted for transcription.
var SupportedAudioFormats = []string{"wav", "mp3", "m4a", "ogg", "webm"}

// ValidateText checks that text is non-blank and at most maxLen characters.
// A maxLen of zero or less disables the length check.
func ValidateText(field, text string, maxLen int) error {
	if strings.TrimSpace(text) == "" {
		return NewValidationError(field, ErrEmptyContent)
	}
	if maxLen > 0 && utf8.RuneCountInString(text) > maxLen {
		return NewValidationError(field, fmt.Errorf("%w: maximum is %d characters", ErrTooLong, maxLen))
	}
	return nil
}

// ValidateAudio checks that an audio clip is non-empty, within maxBytes,
// and in a supported format. An empty Format is accepted and treated as
// unknown by the transcription provider.
func ValidateAudio(audio Audio, maxBytes int) error {
	if len(audio.Data) == 0 {
		return NewValidationError("audio", ErrEmptyAudio)
	}
	if maxBytes > 0 && len(audio.Data) > maxBytes {
		return NewValidationError("audio", fmt.Errorf("%w: maximum is %d bytes", ErrAudioTooLarge, maxBytes))
	}
	if audio.Format != "" && !slices.Contains(SupportedAudioFormats, NormalizeAudioFormat(audio.Format)) {
		return NewValidationError("audio", fmt.Errorf("%w: %q", ErrUnsupportedAudio, audio.Format))
	}
	return nil
}

// NormalizeAudioFormat lowercases a format and strips a leading dot.
func NormalizeAudioFormat(format string) string {
	return strings.TrimPrefix(strings.ToLower(strings.TrimSpace(format)), ".")
}

// ParseVoiceProfile converts a caller-supplied name into a VoiceProfile.
// An empty name selects DefaultVoice.
func ParseVoiceProfile(name string) (VoiceProfile, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		return DefaultVoice, nil
	}
	voice := VoiceProfile(name)
	if !slices.Contains(VoiceProfiles(), voice) {
		return "", NewValidationError("voice", fmt.Errorf("%w: %q", ErrInvalidVoice, name))
	}
	return voice, nil
}
