package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/relcache"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	InvalidatedEvery  uint64
	DecodeFailedEvery uint64
	// Optional key redactor. Defaults to SHA-256 prefix.
	Redact func(string) string
}

type Hooks struct {
	l    *slog.Logger
	opts Options

	invalidatedCtr  atomic.Uint64
	decodeFailedCtr atomic.Uint64
}

var _ relcache.Hooks = (*Hooks)(nil)

func New(l *slog.Logger, opts Options) *Hooks {
	return &Hooks{l: l, opts: opts}
}

func (h *Hooks) redact(k string) string {
	if h.opts.Redact != nil {
		return h.opts.Redact(k)
	}
	sum := sha256.Sum256([]byte(k))
	return hex.EncodeToString(sum[:8])
}

func sample(n uint64, ctr *atomic.Uint64) bool {
	if n == 0 || n == 1 {
		return true
	}
	return ctr.Add(1)%n == 0
}

func (h *Hooks) Invalidated(entity relcache.EntityType, id string, dependents int) {
	if h.l == nil || !sample(h.opts.InvalidatedEvery, &h.invalidatedCtr) {
		return
	}
	h.l.Debug("relcache.invalidated",
		"entity", string(entity),
		"id", id,
		"dependents", dependents)
}

func (h *Hooks) InvalidateFailed(entity relcache.EntityType, id string, stage relcache.Stage, err error) {
	if h.l == nil {
		return
	}
	h.l.Error("relcache.invalidate_failed",
		"entity", string(entity),
		"id", id,
		"stage", string(stage),
		"err", err)
}

func (h *Hooks) Evicted(pattern string, removed int) {
	if h.l == nil {
		return
	}
	h.l.Info("relcache.evicted",
		"pattern", pattern,
		"removed", removed)
}

func (h *Hooks) DecodeFailed(storageKey string, err error) {
	if h.l == nil || !sample(h.opts.DecodeFailedEvery, &h.decodeFailedCtr) {
		return
	}
	h.l.Warn("relcache.decode_failed",
		"key", h.redact(storageKey),
		"err", err)
}
