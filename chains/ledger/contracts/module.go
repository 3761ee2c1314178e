package contracts

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"os"

	"github.com/skip-mev/txgen/chains/ledger/types"
)

const versionedModuleHeaderSize = 8

// VersionedModule is a program module together with the version of the execution environment it targets.
// The file and wire format is version(u32 BE) | length(u32 BE) | source.
type VersionedModule struct {
	Version uint32
	Source  []byte
}

// ParseVersionedModule decodes a versioned module.
func ParseVersionedModule(b []byte) (VersionedModule, error) {
	if len(b) < versionedModuleHeaderSize {
		return VersionedModule{}, fmt.Errorf("module too short: %d bytes", len(b))
	}
	version := binary.BigEndian.Uint32(b[0:4])
	size := binary.BigEndian.Uint32(b[4:8])
	source := b[versionedModuleHeaderSize:]
	if uint64(len(source)) != uint64(size) {
		return VersionedModule{}, fmt.Errorf("module length mismatch: header says %d, got %d", size, len(source))
	}
	if size == 0 {
		return VersionedModule{}, fmt.Errorf("empty module source")
	}
	return VersionedModule{Version: version, Source: append([]byte(nil), source...)}, nil
}

// LoadModule reads and decodes the versioned module at path.
func LoadModule(path string) (VersionedModule, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return VersionedModule{}, fmt.Errorf("reading module: %w", err)
	}
	m, err := ParseVersionedModule(b)
	if err != nil {
		return VersionedModule{}, fmt.Errorf("parsing module %s: %w", path, err)
	}
	return m, nil
}

// Bytes returns the versioned encoding of the module.
func (m VersionedModule) Bytes() []byte {
	out := make([]byte, 0, versionedModuleHeaderSize+len(m.Source))
	out = binary.BigEndian.AppendUint32(out, m.Version)
	out = binary.BigEndian.AppendUint32(out, uint32(len(m.Source))) //nolint:gosec // G115: modules are far below 4GiB
	return append(out, m.Source...)
}

// Ref is the reference under which the node stores the deployed module.
func (m VersionedModule) Ref() types.ModuleRef {
	return sha256.Sum256(m.Bytes())
}
