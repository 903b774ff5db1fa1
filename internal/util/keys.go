package util

import (
	"crypto/sha256"
	"fmt"
)

// maxPlainID is the longest id kept verbatim in a storage key; longer ids
// are replaced by a short hash so keys stay bounded for every provider.
const maxPlainID = 200

// DocKey returns the storage key for document id in namespace ns:
//
//	doc:<ns>:<id>         ids up to maxPlainID bytes
//	doc:<ns>:#<sha256/16> longer ids
func DocKey(ns, id string) string {
	if len(id) <= maxPlainID {
		return "doc:" + ns + ":" + id
	}
	return "doc:" + ns + ":#" + HashID(id)
}

// HashID returns the first 16 hex chars of the SHA-256 of id.
func HashID(id string) string {
	sum := sha256.Sum256([]byte(id))
	return fmt.Sprintf("%x", sum)[:16]
}
