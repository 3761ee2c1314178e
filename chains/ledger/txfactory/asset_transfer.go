package txfactory

import (
	"context"
	"fmt"
	"math"

	"go.uber.org/zap"

	"github.com/skip-mev/txgen/chains/ledger/contracts"
	"github.com/skip-mev/txgen/chains/ledger/types"
	loadtesttypes "github.com/skip-mev/txgen/chains/types"
)

const (
	multiInitEnergy     types.Energy = 2353
	multiMintEnergy     types.Energy = 2740
	multiTransferEnergy types.Energy = 3500

	supplyMetadataURL = "https://example.com"
)

var (
	_ Generator    = &AssetTransferGenerator{}
	_ Bootstrapped = &AssetTransferGenerator{}
)

// AssetTransferGenerator transfers one unit of token 0 of a multi asset program to the receivers in turn.
type AssetTransferGenerator struct {
	args      CommonArgs
	contract  types.ContractAddress
	receive   contracts.ReceiveName
	receivers *RoundRobin
	tokenID   contracts.TokenID
	nonce     types.Nonce
	bootstrap []loadtesttypes.BootstrapTx
}

// NewAssetTransferGenerator deploys and initializes the multi asset program and mints the whole supply of
// token 0 to the sender.
func NewAssetTransferGenerator(ctx context.Context, args CommonArgs, cfg types.AssetTransferConfig) (*AssetTransferGenerator, error) {
	info, err := contractInfo(cfg.ContractConfig, contracts.MultiInitName, multiInitEnergy)
	if err != nil {
		return nil, err
	}
	mintName, err := contracts.NewReceiveName(contracts.MultiMintReceiveName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrConfig, err)
	}
	transferName, err := contracts.NewReceiveName(contracts.MultiTransferReceiveName)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", types.ErrConfig, err)
	}

	accounts, err := LoadAccounts(ctx, args.client(), cfg.ReceiversFile)
	if err != nil {
		return nil, err
	}
	receivers, err := NewRoundRobin(accounts)
	if err != nil {
		return nil, err
	}

	nonce, err := initialNonce(ctx, args)
	if err != nil {
		return nil, err
	}

	deployer := NewDeployer(args)
	contract, err := deployer.DeployAndInit(ctx, info, &nonce)
	if err != nil {
		return nil, fmt.Errorf("could not deploy/init the contract: %w", err)
	}

	tokenID := contracts.TokenIDFromUint8(0)
	if err := mintSupply(ctx, args, deployer, contract, mintName, tokenID, &nonce); err != nil {
		return nil, err
	}

	args.logger().Info("asset transfer generator ready",
		zap.Int("receivers", len(accounts)),
		zap.Stringer("contract", contract),
		zap.Uint64("nonce", uint64(nonce)))

	return &AssetTransferGenerator{
		args:      args,
		contract:  contract,
		receive:   transferName,
		receivers: receivers,
		tokenID:   tokenID,
		nonce:     nonce,
		bootstrap: deployer.Sent(),
	}, nil
}

// mintSupply mints MaxUint64 units of tokenID to the sender and waits for the mint to succeed.
func mintSupply(ctx context.Context, args CommonArgs, deployer *Deployer, contract types.ContractAddress,
	receive contracts.ReceiveName, tokenID contracts.TokenID, nonce *types.Nonce,
) error {
	logger := args.logger()
	logger.Info("minting the token supply for the sender", zap.Stringer("contract", contract))

	params := contracts.MultiMintParams{
		Owner: contracts.AccountAddr(args.Wallet.Address()),
		Tokens: []contracts.MintToken{{
			ID:       tokenID,
			Amount:   math.MaxUint64,
			Metadata: contracts.MetadataURL{URL: supplyMetadataURL},
		}},
	}
	message, err := contracts.ParameterFromSerial(params)
	if err != nil {
		return fmt.Errorf("%w: parameters exceeded maximum size: %w", types.ErrSetup, err)
	}
	tx, err := args.Wallet.CreateUpdateContract(contract, receive, message, multiMintEnergy, *nonce, args.expiry())
	if err != nil {
		return fmt.Errorf("%w: building mint transaction: %w", types.ErrSetup, err)
	}
	*nonce = nonce.Next()

	summary, err := deployer.SendAndAwait(ctx, tx, types.MsgMintSupply)
	if err != nil {
		return err
	}
	logger.Info("minted the token supply",
		zap.Stringer("tx_hash", summary.Hash),
		zap.Uint64("energy", uint64(summary.EnergyCost)))
	return nil
}

func (g *AssetTransferGenerator) Generate() (*types.AccountTransaction, error) {
	to := g.receivers.Next()
	params := contracts.TransferParams{{
		TokenID: g.tokenID,
		Amount:  1,
		From:    contracts.AccountAddr(g.args.Wallet.Address()),
		To:      contracts.AccountReceiver(to),
		Data:    contracts.AdditionalData{},
	}}
	message, err := contracts.ParameterFromSerial(params)
	if err != nil {
		return nil, fmt.Errorf("%w: transfer parameter: %w", types.ErrGeneration, err)
	}
	tx, err := g.args.Wallet.CreateUpdateContract(g.contract, g.receive, message, multiTransferEnergy, g.nonce, g.args.expiry())
	if err != nil {
		return nil, fmt.Errorf("%w: asset transfer (nonce = %d): %w", types.ErrGeneration, g.nonce, err)
	}
	g.nonce = g.nonce.Next()
	return tx, nil
}

func (g *AssetTransferGenerator) MsgType() loadtesttypes.MsgType {
	return types.MsgAssetTransfer
}

func (g *AssetTransferGenerator) BootstrapTxs() []loadtesttypes.BootstrapTx {
	return g.bootstrap
}

// Contract returns the address of the multi asset program instance.
func (g *AssetTransferGenerator) Contract() types.ContractAddress {
	return g.contract
}
