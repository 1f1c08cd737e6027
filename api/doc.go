// Package api exposes the voice assistant over HTTP.
//
// Routes:
//
//	POST /api/voice/transcribe  multipart "audio"
//	POST /api/voice/speak       JSON {"text", "voice"}
//	POST /api/voice/ask         JSON {"question"}
//	POST /api/voice/interact    multipart "audio", optional "voice"
//	GET  /api/search?q=&limit=
//	GET  /check/healthy
//
// Every response is JSON with a boolean "success". Failures carry a
// user-facing "error" and, for pipeline failures, the failing "stage".
package api
