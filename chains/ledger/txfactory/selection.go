package txfactory

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/skip-mev/txgen/chains/ledger/types"
)

// ReceiverSelector picks the receiver of the next transaction.
type ReceiverSelector interface {
	Next() types.AccountAddress
}

var (
	_ ReceiverSelector = &RoundRobin{}
	_ ReceiverSelector = &Random{}
)

// RoundRobin cycles through the accounts in order.
type RoundRobin struct {
	accounts []types.AccountAddress
	count    int
}

func NewRoundRobin(accounts []types.AccountAddress) (*RoundRobin, error) {
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: list of receivers must not be empty", types.ErrSetup)
	}
	return &RoundRobin{accounts: accounts}, nil
}

func (r *RoundRobin) Next() types.AccountAddress {
	next := r.accounts[r.count%len(r.accounts)]
	r.count++
	return next
}

// Random draws accounts uniformly, with replacement.
type Random struct {
	accounts []types.AccountAddress
	rng      *rand.Rand
}

// NewRandom returns a Random selector. A nil seed seeds from the clock.
func NewRandom(accounts []types.AccountAddress, seed *int64) (*Random, error) {
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: list of receivers must not be empty", types.ErrSetup)
	}
	s := time.Now().UnixNano()
	if seed != nil {
		s = *seed
	}
	//nolint:gosec // G404: receiver choice is not security sensitive
	return &Random{accounts: accounts, rng: rand.New(rand.NewSource(s))}, nil
}

func (r *Random) Next() types.AccountAddress {
	return r.accounts[r.rng.Intn(len(r.accounts))]
}

// PartitionRange returns the half open range [start, end) of the accounts owned by instance when
// length accounts are split into partitions chunks of floor(length/partitions). The remainder is never used.
func PartitionRange(length, partitions, instance uint64) (start, end uint64, err error) {
	if partitions == 0 {
		return 0, 0, fmt.Errorf("%w: partition count must be greater than zero", types.ErrConfig)
	}
	step := length / partitions
	if step == 0 {
		return 0, 0, fmt.Errorf("%w: %d receivers cannot be split into %d non-empty partitions",
			types.ErrSetup, length, partitions)
	}
	k := instance % partitions
	return k * step, (k + 1) * step, nil
}

// NewPartitioned returns a round robin over the chunk of accounts owned by the validator validatorID.
func NewPartitioned(accounts []types.AccountAddress, partitions, validatorID uint64) (*RoundRobin, error) {
	start, end, err := PartitionRange(uint64(len(accounts)), partitions, validatorID)
	if err != nil {
		return nil, err
	}
	return NewRoundRobin(accounts[start:end])
}
