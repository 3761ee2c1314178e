package txfactory

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/skip-mev/txgen/chains/ledger/contracts"
	"github.com/skip-mev/txgen/chains/ledger/types"
	loadtesttypes "github.com/skip-mev/txgen/chains/types"
)

// ContractDeploymentInfo describes the program a strategy deploys before generating transactions.
type ContractDeploymentInfo struct {
	Module     contracts.VersionedModule
	InitName   contracts.ContractName
	InitEnergy types.Energy
	Param      contracts.Parameter
}

// Deployer runs the bootstrap transactions of a strategy and keeps track of them.
type Deployer struct {
	args   CommonArgs
	logger *zap.Logger
	sent   []loadtesttypes.BootstrapTx
}

func NewDeployer(args CommonArgs) *Deployer {
	return &Deployer{
		args:   args,
		logger: args.logger().With(zap.String("module", "bootstrap")),
	}
}

// DeployAndInit deploys info.Module and creates an instance of it. The deployment is not awaited: the init
// transaction is sent right after with the following nonce, and only its finalization is awaited.
// nonce is advanced by the two submitted transactions.
func (d *Deployer) DeployAndInit(ctx context.Context, info ContractDeploymentInfo, nonce *types.Nonce) (types.ContractAddress, error) {
	d.logger.Info("deploying and initializing contract", zap.String("init_name", string(info.InitName)))

	deployTx, err := d.args.Wallet.CreateDeployModule(info.Module, *nonce, d.args.expiry())
	if err != nil {
		return types.ContractAddress{}, fmt.Errorf("%w: building deploy transaction: %w", types.ErrSetup, err)
	}
	deployHash, err := d.submit(ctx, deployTx, types.MsgDeployModule)
	if err != nil {
		return types.ContractAddress{}, err
	}
	*nonce = nonce.Next()
	d.logger.Debug("deploy transaction submitted", zap.Stringer("tx_hash", deployHash))

	initTx, err := d.args.Wallet.CreateInitContract(info.Module.Ref(), info.InitName, info.Param,
		info.InitEnergy, *nonce, d.args.expiry())
	if err != nil {
		return types.ContractAddress{}, fmt.Errorf("%w: building init transaction: %w", types.ErrSetup, err)
	}
	initHash, err := d.submit(ctx, initTx, types.MsgInitContract)
	if err != nil {
		return types.ContractAddress{}, err
	}
	*nonce = nonce.Next()

	summary, err := d.await(ctx, initHash)
	if err != nil {
		return types.ContractAddress{}, err
	}
	if !summary.IsSuccess() {
		return types.ContractAddress{}, fmt.Errorf("%w: init transaction failed (hash = %s): %s",
			types.ErrSetup, initHash, summary.RejectReason)
	}
	created, ok := summary.ContractInit()
	if !ok {
		return types.ContractAddress{}, fmt.Errorf("%w: init transaction %s did not initialize a contract", types.ErrSetup, initHash)
	}

	d.record(initHash, types.MsgInitContract, initTx.Header.Nonce, summary.EnergyCost, created.Address.String())
	d.logger.Info("contract initialized",
		zap.Stringer("tx_hash", initHash),
		zap.Uint64("energy", uint64(summary.EnergyCost)),
		zap.Stringer("contract", created.Address))

	return created.Address, nil
}

// SendAndAwait submits tx and waits until it is finalized with success.
func (d *Deployer) SendAndAwait(ctx context.Context, tx *types.AccountTransaction, msgType loadtesttypes.MsgType) (*types.BlockItemSummary, error) {
	hash, err := d.submit(ctx, tx, msgType)
	if err != nil {
		return nil, err
	}
	summary, err := d.await(ctx, hash)
	if err != nil {
		return nil, err
	}
	if !summary.IsSuccess() {
		return nil, fmt.Errorf("%w: %s transaction failed (hash = %s): %s", types.ErrSetup, msgType, hash, summary.RejectReason)
	}
	d.record(hash, msgType, tx.Header.Nonce, summary.EnergyCost, "")
	return summary, nil
}

// Sent returns the bootstrap transactions that were submitted.
func (d *Deployer) Sent() []loadtesttypes.BootstrapTx {
	return d.sent
}

func (d *Deployer) submit(ctx context.Context, tx *types.AccountTransaction, msgType loadtesttypes.MsgType) (types.TransactionHash, error) {
	hash, err := d.args.Wallet.SendTransaction(ctx, tx)
	if err != nil {
		return types.TransactionHash{}, fmt.Errorf("%w: submitting %s (nonce = %d): %w", types.ErrSetup, msgType, tx.Header.Nonce, err)
	}
	d.sent = append(d.sent, loadtesttypes.BootstrapTx{
		TxHash:  hash.String(),
		MsgType: msgType,
		Nonce:   uint64(tx.Header.Nonce),
	})
	return hash, nil
}

func (d *Deployer) await(ctx context.Context, hash types.TransactionHash) (*types.BlockItemSummary, error) {
	summary, err := d.args.client().WaitUntilFinalized(ctx, hash)
	if err != nil {
		return nil, fmt.Errorf("%w: waiting for %s: %w", types.ErrSetup, hash, err)
	}
	return summary, nil
}

func (d *Deployer) record(hash types.TransactionHash, msgType loadtesttypes.MsgType, nonce types.Nonce, energy types.Energy, contract string) {
	for i := range d.sent {
		if d.sent[i].TxHash == hash.String() && d.sent[i].MsgType == msgType && d.sent[i].Nonce == uint64(nonce) {
			d.sent[i].EnergyCost = uint64(energy)
			d.sent[i].ContractAddress = contract
			return
		}
	}
}

// contractInfo loads the module and checks the init name of a strategy's program.
func contractInfo(cfg types.ContractConfig, initName string, initEnergy types.Energy) (ContractDeploymentInfo, error) {
	module, err := contracts.LoadModule(cfg.ModulePath)
	if err != nil {
		return ContractDeploymentInfo{}, fmt.Errorf("%w: %w", types.ErrConfig, err)
	}
	name, err := contracts.NewContractName(initName)
	if err != nil {
		return ContractDeploymentInfo{}, fmt.Errorf("%w: %w", types.ErrConfig, err)
	}
	info := ContractDeploymentInfo{Module: module, InitName: name, InitEnergy: initEnergy}
	if cfg.InitParam != nil {
		param, err := contracts.ParameterFromSerial(contracts.U16Param(*cfg.InitParam))
		if err != nil {
			return ContractDeploymentInfo{}, fmt.Errorf("%w: %w", types.ErrConfig, err)
		}
		info.Param = param
	}
	return info, nil
}
