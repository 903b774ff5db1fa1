package sloghooks

import (
	"crypto/sha256"
	"encoding/hex"
	"log/slog"
	"sync/atomic"

	"github.com/unkn0wn-root/jsoncodec"
)

type Options struct {
	// Sampling to avoid floods; 0/1 = log all.
	RejectEvery uint64
	ParseEvery  uint64
	// Optional key redactor for store keys. Defaults to SHA-256 prefix.
	Redact func(string) string
}

// Hooks writes jsoncodec events to a slog.Logger.
type Hooks struct {
	l    *slog.Logger
	opts Options

	rejectCtr atomic.Uint64
	parseCtr  atomic.Uint64
}

var _ jsoncodec.Hooks = (*Hooks)(nil)

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

func (h *Hooks) DecodeRejected(codec string, got jsoncodec.Kind) {
	if h.l == nil || !sample(h.opts.RejectEvery, &h.rejectCtr) {
		return
	}
	h.l.Debug("jsoncodec.decode_rejected",
		"codec", codec,
		"got", got.String())
}

func (h *Hooks) PayloadRejected(codec string, size, limit int) {
	if h.l == nil {
		return
	}
	h.l.Warn("jsoncodec.payload_rejected",
		"codec", codec,
		"size", size,
		"limit", limit)
}

func (h *Hooks) ParseFailed(codec string, size int, err error) {
	if h.l == nil || !sample(h.opts.ParseEvery, &h.parseCtr) {
		return
	}
	h.l.Info("jsoncodec.parse_failed",
		"codec", codec,
		"size", size,
		"err", err)
}

func (h *Hooks) StoreSelfHeal(storageKey, reason string) {
	if h.l == nil {
		return
	}
	h.l.Warn("jsoncodec.store_self_heal",
		"key", h.redact(storageKey),
		"reason", reason)
}
