package services

import (
	"errors"
	"fmt"
)

// ErrorKind classifies terminal pipeline failures.
type ErrorKind string

const (
	KindInvalidInput      ErrorKind = "invalid_input"
	KindUnauthenticated   ErrorKind = "unauthenticated"
	KindUploadFailed      ErrorKind = "upload_failed"
	KindProviderError     ErrorKind = "provider_error"
	KindMalformedResponse ErrorKind = "malformed_response"
	KindAnalysisFailed    ErrorKind = "analysis_failed"
	KindSaveFailed        ErrorKind = "save_failed"
	KindCancelled         ErrorKind = "cancelled"
)

// PipelineError is the single terminal error returned by Pipeline.Submit.
type PipelineError struct {
	Kind  ErrorKind
	Stage Stage
	Cause error
}

func (e *PipelineError) Error() string {
	msg := kindMessages[e.Kind]
	if msg == "" {
		msg = string(e.Kind)
	}
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", msg, e.Cause)
	}
	return msg
}

func (e *PipelineError) Unwrap() error {
	return e.Cause
}

var kindMessages = map[ErrorKind]string{
	KindInvalidInput:    "please select a resume file to analyze",
	KindUnauthenticated: "sign in to analyze a resume",
	KindUploadFailed:    "failed to upload your resume file",
	KindAnalysisFailed:  "failed to analyze resume",
	KindSaveFailed:      "failed to save results",
	KindCancelled:       "analysis cancelled",
}

// KindOf returns the kind of a *PipelineError, or "" for any other error.
func KindOf(err error) ErrorKind {
	var pe *PipelineError
	if errors.As(err, &pe) {
		return pe.Kind
	}
	return ""
}

// ProviderError is a non-success response (or transport failure) from the
// LLM provider. StatusCode is 0 when no HTTP response was received.
type ProviderError struct {
	Provider   string
	StatusCode int
	Message    string
	Cause      error
}

func (e *ProviderError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s API error (status %d): %s", e.Provider, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("%s API error: %s", e.Provider, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Cause
}

// Kind reports KindProviderError.
func (e *ProviderError) Kind() ErrorKind {
	return KindProviderError
}

// MalformedResponseError means the provider replied but no valid JSON could
// be extracted or repaired. Original and Repaired are kept for diagnostics.
type MalformedResponseError struct {
	Message  string
	Original string
	Repaired string
	Cause    error
}

func (e *MalformedResponseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("malformed model response: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("malformed model response: %s", e.Message)
}

func (e *MalformedResponseError) Unwrap() error {
	return e.Cause
}

// Kind reports KindMalformedResponse.
func (e *MalformedResponseError) Kind() ErrorKind {
	return KindMalformedResponse
}
