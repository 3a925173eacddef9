package services

import (
	"context"

	"github.com/google/uuid"
)

type contextKey string

const (
	mediaFileKey contextKey = "media_file"
	stageKey     contextKey = "stage"
	requestIDKey contextKey = "request_id"
)

// WithMediaFile annotates context with the input file currently processing.
func WithMediaFile(ctx context.Context, path string) context.Context {
	if path == "" {
		return ctx
	}
	return context.WithValue(ctx, mediaFileKey, path)
}

// MediaFileFromContext extracts the input file path if present.
func MediaFileFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(mediaFileKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithStage annotates context with the pipeline stage name.
func WithStage(ctx context.Context, stage string) context.Context {
	if stage == "" {
		return ctx
	}
	return context.WithValue(ctx, stageKey, stage)
}

// StageFromContext returns the stage name if present.
func StageFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(stageKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}

// WithRequestID annotates context with a correlation identifier, generating
// one when id is empty.
func WithRequestID(ctx context.Context, id string) context.Context {
	if id == "" {
		id = uuid.NewString()
	}
	return context.WithValue(ctx, requestIDKey, id)
}

// RequestIDFromContext extracts the correlation identifier if present.
func RequestIDFromContext(ctx context.Context) (string, bool) {
	if v, ok := ctx.Value(requestIDKey).(string); ok && v != "" {
		return v, true
	}
	return "", false
}
