package txfactory

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/skip-mev/txgen/chains/ledger/types"
	"github.com/skip-mev/txgen/chains/ledger/wallet"
)

// LoadAccounts reads the receivers from receiversFile, a JSON array of addresses, or, when it is empty,
// lists the accounts of the last finalized block.
func LoadAccounts(ctx context.Context, client wallet.Client, receiversFile string) ([]types.AccountAddress, error) {
	var accounts []types.AccountAddress
	if receiversFile == "" {
		list, err := client.AccountList(ctx, types.LastFinal)
		if err != nil {
			return nil, fmt.Errorf("%w: could not obtain a list of accounts: %w", types.ErrSetup, err)
		}
		accounts = list
	} else {
		b, err := os.ReadFile(receiversFile)
		if err != nil {
			return nil, fmt.Errorf("%w: could not read the receivers file: %w", types.ErrSetup, err)
		}
		if err := json.Unmarshal(b, &accounts); err != nil {
			return nil, fmt.Errorf("%w: could not parse the receivers file: %w", types.ErrSetup, err)
		}
	}
	if len(accounts) == 0 {
		return nil, fmt.Errorf("%w: list of receivers must not be empty", types.ErrSetup)
	}
	return accounts, nil
}
