package config

import (
	"encoding/hex"
	"fmt"

	"github.com/zeebo/blake3"
	"gopkg.in/yaml.v3"
)

// Digest is a content hash of a Config's options.
type Digest [32]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:8])
}

// Digest hashes the YAML form of c. Two configs with equal options have
// equal digests regardless of which arena backs them.
func (c *Config) Digest() (Digest, error) {
	data, err := yaml.Marshal(c)
	if err != nil {
		return Digest{}, fmt.Errorf("marshal config: %w", err)
	}
	return blake3.Sum256(data), nil
}
