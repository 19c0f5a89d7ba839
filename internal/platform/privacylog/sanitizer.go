// Package privacylog 在日志输出前屏蔽私钥、助记词等敏感字段。
package privacylog

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"log/slog"
	"strings"
)

const redactedValue = "[REDACTED]"

var (
	bootNonce = randomNonce()

	// 请求体里的 secret / mnemonic / passphrase 都可能被误打进日志。
	sensitiveKeyParts = []string{"secret", "mnemonic", "passphrase", "private", "password", "token", "auth"}

	fingerprintKeys = map[string]struct{}{
		"remote_addr": {},
		"client_ip":   {},
	}
)

// SanitizingHandler 包装任意 slog.Handler。
type SanitizingHandler struct {
	next slog.Handler
}

// WrapHandler 返回屏蔽敏感字段的 handler。
func WrapHandler(next slog.Handler) slog.Handler {
	if next == nil {
		return nil
	}
	return &SanitizingHandler{next: next}
}

func (h *SanitizingHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return h.next.Enabled(ctx, level)
}

func (h *SanitizingHandler) Handle(ctx context.Context, rec slog.Record) error {
	out := slog.NewRecord(rec.Time, rec.Level, rec.Message, rec.PC)
	rec.Attrs(func(attr slog.Attr) bool {
		out.AddAttrs(SanitizeAttr(attr))
		return true
	})
	return h.next.Handle(ctx, out)
}

func (h *SanitizingHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make([]slog.Attr, len(attrs))
	for i, attr := range attrs {
		out[i] = SanitizeAttr(attr)
	}
	return &SanitizingHandler{next: h.next.WithAttrs(out)}
}

func (h *SanitizingHandler) WithGroup(name string) slog.Handler {
	return &SanitizingHandler{next: h.next.WithGroup(name)}
}

// SanitizeAttr 屏蔽敏感字段，对客户端地址做指纹化，递归处理分组。
func SanitizeAttr(attr slog.Attr) slog.Attr {
	key := strings.TrimSpace(attr.Key)
	lower := strings.ToLower(key)
	if isSensitiveKey(lower) {
		return slog.String(key, redactedValue)
	}
	if _, ok := fingerprintKeys[lower]; ok {
		return slog.String(key+"_fp", Fingerprint(attr.Value.Resolve().String()))
	}
	if attr.Value.Kind() == slog.KindGroup {
		group := attr.Value.Group()
		out := make([]any, 0, len(group))
		for _, inner := range group {
			out = append(out, SanitizeAttr(inner))
		}
		return slog.Group(key, out...)
	}
	return attr
}

// Fingerprint 返回进程内稳定、跨进程不可关联的短摘要。
func Fingerprint(value string) string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return ""
	}
	sum := sha256.Sum256([]byte(trimmed + "|" + bootNonce))
	return "fp_" + hex.EncodeToString(sum[:8])
}

func isSensitiveKey(key string) bool {
	for _, part := range sensitiveKeyParts {
		if strings.Contains(key, part) {
			return true
		}
	}
	return false
}

func randomNonce() string {
	buf := make([]byte, 16)
	if _, err := rand.Read(buf); err != nil {
		return fmt.Sprintf("fallback_%p", &buf)
	}
	return hex.EncodeToString(buf)
}
