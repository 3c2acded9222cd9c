package logging

import (
	"context"
	"log/slog"
	"strings"
)

// MaskValue replaces the value of any attribute considered secret.
const MaskValue = "***REDACTED***"

// secretKeywords are matched as substrings of the lower-cased attribute key,
// so "new_password", "old_password" and "otp_code" are all caught.
var secretKeywords = []string{
	"password", "passwd", "secret", "token", "otp", "credential", "cookie", "authorization",
}

// RedactingHandler wraps an slog.Handler and masks attributes whose keys look
// like they carry credentials or one-time codes.
type RedactingHandler struct {
	next slog.Handler
}

// NewRedactingHandler wraps next. A nil next falls back to the default handler.
func NewRedactingHandler(next slog.Handler) *RedactingHandler {
	if next == nil {
		next = slog.Default().Handler()
	}
	return &RedactingHandler{next: next}
}

func (h *RedactingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *RedactingHandler) Handle(ctx context.Context, r slog.Record) error {
	clean := slog.NewRecord(r.Time, r.Level, r.Message, r.PC)
	r.Attrs(func(a slog.Attr) bool {
		clean.AddAttrs(redactAttr(a))
		return true
	})
	return h.next.Handle(ctx, clean)
}

func (h *RedactingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clean := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		clean[i] = redactAttr(a)
	}
	return &RedactingHandler{next: h.next.WithAttrs(clean)}
}

func (h *RedactingHandler) WithGroup(name string) slog.Handler {
	return &RedactingHandler{next: h.next.WithGroup(name)}
}

func redactAttr(a slog.Attr) slog.Attr {
	if a.Value.Kind() == slog.KindGroup {
		group := a.Value.Group()
		clean := make([]slog.Attr, len(group))
		for i, g := range group {
			clean[i] = redactAttr(g)
		}
		return slog.Attr{Key: a.Key, Value: slog.GroupValue(clean...)}
	}
	if isSecretKey(a.Key) {
		return slog.String(a.Key, MaskValue)
	}
	return a
}

func isSecretKey(key string) bool {
	k := strings.ToLower(key)
	for _, kw := range secretKeywords {
		if strings.Contains(k, kw) {
			return true
		}
	}
	return false
}
