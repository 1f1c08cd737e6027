package ingestion

import (
	"errors"
	"fmt"
)

// Stage names where a file can fail.
const (
	StageRead  = "read"
	StageEmbed = "embed"
	StageStore = "store"
)

// FileError records a failure for one source file.
type FileError struct {
	Path  string
	Stage string
	Err   error
}

func (e *FileError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Path, e.Stage, e.Err)
}

func (e *FileError) Unwrap() error {
	return e.Err
}

// Report summarizes one ingestion run.
//
// Imported counts stored documents, including those stored without an
// embedding. Failed counts every FileError: embedding failures plus
// files that could not be read or stored.
type Report struct {
	Imported int
	Failed   int
	Reused   int // unchanged files whose stored embedding was kept
	Errors   []*FileError
}

func (r *Report) addError(path, stage string, err error) {
	r.Failed++
	r.Errors = append(r.Errors, &FileError{Path: path, Stage: stage, Err: err})
}

// Err joins all file errors, or returns nil if there were none.
func (r *Report) Err() error {
	errs := make([]error, len(r.Errors))
	for i, fe := range r.Errors {
		errs[i] = fe
	}
	return errors.Join(errs...)
}
