package contracts

import (
	"fmt"
	"strings"
)

// MaxFuncNameSize bounds init and receive names.
const MaxFuncNameSize = 100

// ContractName is the name of a contract init function, e.g. "init_cis2_nft".
type ContractName string

// NewContractName validates name.
func NewContractName(name string) (ContractName, error) {
	if err := validateFuncName(name); err != nil {
		return "", err
	}
	if !strings.HasPrefix(name, "init_") {
		return "", fmt.Errorf("contract name %q must start with \"init_\"", name)
	}
	if strings.Contains(name, ".") {
		return "", fmt.Errorf("contract name %q must not contain '.'", name)
	}
	return ContractName(name), nil
}

// Contract returns the name without the "init_" prefix.
func (n ContractName) Contract() string {
	return strings.TrimPrefix(string(n), "init_")
}

// ReceiveName is the name of a contract entry point, "<contract>.<entrypoint>".
type ReceiveName string

// NewReceiveName validates name.
func NewReceiveName(name string) (ReceiveName, error) {
	if err := validateFuncName(name); err != nil {
		return "", err
	}
	if !strings.Contains(name, ".") {
		return "", fmt.Errorf("receive name %q must be of the form <contract>.<entrypoint>", name)
	}
	return ReceiveName(name), nil
}

// Entrypoint returns the part after the contract name.
func (n ReceiveName) Entrypoint() string {
	_, ep, _ := strings.Cut(string(n), ".")
	return ep
}

func validateFuncName(name string) error {
	if name == "" {
		return fmt.Errorf("empty function name")
	}
	if len(name) > MaxFuncNameSize {
		return fmt.Errorf("function name %q exceeds %d bytes", name, MaxFuncNameSize)
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		// ASCII alphanumerics and punctuation only
		if c <= ' ' || c > '~' {
			return fmt.Errorf("function name %q contains invalid character %q", name, c)
		}
	}
	return nil
}
