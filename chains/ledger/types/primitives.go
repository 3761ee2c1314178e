package types

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
)

// Nonce is the per-account sequence number of a transaction.
type Nonce uint64

// Next returns the nonce following n.
func (n Nonce) Next() Nonce {
	return n + 1
}

// Energy is the unit of metered execution cost.
type Energy uint64

// TransactionTime is a unix timestamp in seconds.
type TransactionTime uint64

// TransactionTimeSecondsAfter returns the transaction time secs seconds after now.
func TransactionTimeSecondsAfter(now time.Time, secs uint32) TransactionTime {
	return TransactionTime(now.Unix() + int64(secs)) //nolint:gosec // G115: unix time is positive
}

// TransactionHash identifies a submitted block item.
type TransactionHash = common.Hash

// ModuleRef identifies a deployed program module.
type ModuleRef = common.Hash

const microUnitsPerUnit = 1_000_000

// Amount is a quantity of the native currency in micro units.
type Amount uint64

// ParseAmount parses a decimal amount of whole units with up to six fractional digits, e.g. "0", "12", "0.000001".
func ParseAmount(s string) (Amount, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("empty amount")
	}
	whole, frac, hasFrac := strings.Cut(s, ".")
	if whole == "" || (hasFrac && frac == "") {
		return 0, fmt.Errorf("invalid amount %q", s)
	}
	if len(frac) > 6 {
		return 0, fmt.Errorf("invalid amount %q: at most 6 decimals are allowed", s)
	}
	w, err := strconv.ParseUint(whole, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: %w", s, err)
	}
	var f uint64
	if frac != "" {
		frac += strings.Repeat("0", 6-len(frac))
		f, err = strconv.ParseUint(frac, 10, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid amount %q: %w", s, err)
		}
	}
	if w > (^uint64(0)-f)/microUnitsPerUnit {
		return 0, fmt.Errorf("invalid amount %q: out of range", s)
	}
	return Amount(w*microUnitsPerUnit + f), nil
}

func (a Amount) String() string {
	whole := uint64(a) / microUnitsPerUnit
	frac := uint64(a) % microUnitsPerUnit
	if frac == 0 {
		return strconv.FormatUint(whole, 10)
	}
	return strings.TrimRight(fmt.Sprintf("%d.%06d", whole, frac), "0")
}
