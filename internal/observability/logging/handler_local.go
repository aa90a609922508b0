//go:build !gcloud

package logging

import (
	"context"
	"log/slog"
)

// Outside Cloud Run there is no trace header to correlate with, so log
// records carry no trace attributes.
func gcpTraceAttrs(context.Context, string) []slog.Attr {
	return nil
}
