package reconcile

import "strings"

// hashKeys lists the field names upstream payloads have been seen to use for the on-chain id
var hashKeys = []string{"hash", "txHash", "transactionHash", "tx_hash", "transaction_hash", "txhash"}

// nestedHashKeys are looked up inside a "deposit" object when no top-level key matched
var nestedHashKeys = []string{"hash", "txHash"}

// ExtractHash returns the first non-empty string found under a known hash key.
// The same lookup is used for webhook bodies and polled status payloads.
func ExtractHash(payload map[string]any) (string, bool) {
	if payload == nil {
		return "", false
	}
	if h, ok := firstString(payload, hashKeys); ok {
		return h, true
	}
	if deposit, ok := payload["deposit"].(map[string]any); ok {
		return firstString(deposit, nestedHashKeys)
	}
	return "", false
}

func firstString(m map[string]any, keys []string) (string, bool) {
	for _, k := range keys {
		if s, ok := m[k].(string); ok {
			if s = strings.TrimSpace(s); s != "" {
				return s, true
			}
		}
	}
	return "", false
}
