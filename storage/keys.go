package storage

import (
	"bytes"
	"fmt"

	"github.com/vocdoni/gnark-bhp/crypto/bhp"
)

// tableKey is "<windows>x<window size>/<domain>". The parameters never
// contain a slash, so the domain may.
func tableKey(params bhp.Parameters, domain string) []byte {
	return fmt.Appendf(nil, "%s/%s", params, domain)
}

func parseTableKey(key []byte) (TableInfo, error) {
	head, domain, ok := bytes.Cut(key, []byte("/"))
	if !ok {
		return TableInfo{}, fmt.Errorf("malformed table key %q", key)
	}
	params, err := bhp.ParseParameters(string(head))
	if err != nil {
		return TableInfo{}, fmt.Errorf("malformed table key %q: %w", key, err)
	}
	return TableInfo{Params: params, Domain: string(domain)}, nil
}
