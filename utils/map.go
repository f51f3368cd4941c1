package utils

import "github.com/gagliardetto/solana-go"

// mapKey allows named enum types (e.g. dlob/types.DLOBNodeType) as well as
// the raw integer/string/pubkey keys the teacher's own maps used.
type mapKey interface {
	~string | solana.PublicKey | ~int | ~int32 | ~int64 | ~uint | ~uint16 | ~uint32 | ~uint64
}

func MapValues[K mapKey, T any](m map[K]T) []T {
	var values []T
	for _, value := range m {
		values = append(values, value)
	}
	return values
}

func MapHas[K mapKey, T any](m map[K]T, k K) bool {
	if m == nil {
		return false
	}
	_, ok := m[k]
	return ok
}
