package providers

import (
	"encoding/hex"
	"time"

	"tripscout/models"

	"golang.org/x/crypto/blake2b"
)

// OfferID derives the stable unified-result id for an offer. It is a pure
// function of (provider code, provider-native offer id): identical inputs
// always produce the identical id, across processes and time.
func OfferID(providerCode, nativeID string) string {
	h, _ := blake2b.New(16, nil)
	h.Write([]byte(providerCode))
	h.Write([]byte{0}) // separator so ("ab","c") and ("a","bc") differ
	h.Write([]byte(nativeID))
	return hex.EncodeToString(h.Sum(nil))
}

// Stamp fills the provider descriptor and deterministic id on a result.
// Every adapter must stamp each result it returns.
func Stamp(r *models.UnifiedResult, code, name string, retrievedAt time.Time) {
	r.Provider = models.ProviderInfo{Code: code, Name: name, RetrievedAt: retrievedAt}
	r.ID = OfferID(code, r.NativeID)
}
