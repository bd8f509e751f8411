package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
)

// keyVersion is mixed into every derived key. Bump it when the output for an
// unchanged input and unchanged options changes, e.g. a new SVG stylesheet.
const keyVersion = "depviz/1"

// hashKey returns "kind:<sha256>" over the key version, the base hash and the
// JSON encoding of opts.
func hashKey(kind, base string, opts any) string {
	h := sha256.New()
	io.WriteString(h, keyVersion+"\x00"+base+"\x00")
	if err := json.NewEncoder(h).Encode(opts); err != nil {
		fmt.Fprintf(h, "%#v", opts)
	}
	return kind + ":" + hex.EncodeToString(h.Sum(nil))
}

// Hash returns the hex SHA-256 of data. Input hashes and file cache names
// use it.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
