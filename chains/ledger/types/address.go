package types

import (
	"fmt"

	"github.com/btcsuite/btcd/btcutil/base58"
)

const (
	// AccountAddressLength is the size of a raw account address.
	AccountAddressLength = 32

	// accountAddressVersion is the base58check version byte of account addresses.
	accountAddressVersion = 1
)

// AccountAddress identifies an account on the ledger. Its text form is base58check with version byte 1.
type AccountAddress [AccountAddressLength]byte

// AccountAddressFromString parses the base58check text form of an account address.
func AccountAddressFromString(s string) (AccountAddress, error) {
	var addr AccountAddress
	decoded, version, err := base58.CheckDecode(s)
	if err != nil {
		return addr, fmt.Errorf("invalid account address %q: %w", s, err)
	}
	if version != accountAddressVersion {
		return addr, fmt.Errorf("invalid account address %q: unexpected version byte %d", s, version)
	}
	if len(decoded) != AccountAddressLength {
		return addr, fmt.Errorf("invalid account address %q: expected %d bytes, got %d", s, AccountAddressLength, len(decoded))
	}
	copy(addr[:], decoded)
	return addr, nil
}

// MustAccountAddress is like AccountAddressFromString but panics on malformed input. Meant for tests and constants.
func MustAccountAddress(s string) AccountAddress {
	addr, err := AccountAddressFromString(s)
	if err != nil {
		panic(err)
	}
	return addr
}

func (a AccountAddress) String() string {
	return base58.CheckEncode(a[:], accountAddressVersion)
}

func (a AccountAddress) MarshalText() ([]byte, error) {
	return []byte(a.String()), nil
}

func (a *AccountAddress) UnmarshalText(text []byte) error {
	addr, err := AccountAddressFromString(string(text))
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// IsZero reports whether the address is unset.
func (a AccountAddress) IsZero() bool {
	return a == AccountAddress{}
}

// ContractAddress identifies a contract instance.
type ContractAddress struct {
	Index    uint64 `json:"index" yaml:"index"`
	Subindex uint64 `json:"subindex" yaml:"subindex"`
}

func (c ContractAddress) String() string {
	return fmt.Sprintf("<%d,%d>", c.Index, c.Subindex)
}
