package jsoncodec

// Hooks are lightweight callbacks for high-signal events.
// Implementations MUST be cheap and non-blocking; they run inline with
// decoding. Wrap with hooks/async to move work off the calling goroutine.
type Hooks interface {
	// A decoder rejected a value. got is the kind of the rejected value.
	DecodeRejected(codec string, got Kind)

	// A byte codec refused a payload over its size limit.
	PayloadRejected(codec string, size, limit int)

	// Wire bytes could not be turned into a Value (bad JSON text, corrupt CBOR...).
	ParseFailed(codec string, size int, err error)

	// A store dropped an unreadable entry on read.
	// reason ∈ {"corrupt", "format", "stale", "value_decode"}
	StoreSelfHeal(storageKey, reason string)
}

// NopHooks is the default no-op.
type NopHooks struct{}

func (NopHooks) DecodeRejected(string, Kind)      {}
func (NopHooks) PayloadRejected(string, int, int) {}
func (NopHooks) ParseFailed(string, int, error)   {}
func (NopHooks) StoreSelfHeal(string, string)     {}
