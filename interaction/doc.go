// Package interaction runs the voice question-answering pipeline.
//
// An Orchestrator sequences three stages for each request: transcription
// of the caller's audio, answering (retrieval of the top documents
// followed by one answer-generation call) and speech synthesis of the
// answer. Each stage is time-bounded; a failure or timeout in any stage
// ends the request with a *StageFailure naming the stage and carrying a
// generic remediation hint. Inbound audio is spooled to a temporary file
// for transcription and removed on every exit path.
//
// TranscribeOnly, AnswerOnly and SpeakOnly run a single stage with the
// same validation and failure contract.
package interaction
