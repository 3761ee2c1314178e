package wallet

import (
	"context"
	"crypto/ecdsa"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/skip-mev/txgen/chains/ledger/contracts"
	"github.com/skip-mev/txgen/chains/ledger/types"
)

// InteractingWallet is the sending account: its address, its signing key and the node it talks to.
type InteractingWallet struct {
	address types.AccountAddress
	signer  *Signer
	client  Client
}

// KeyFile is the on-disk format of the sender keys.
type KeyFile struct {
	Address    types.AccountAddress `json:"address"`
	PrivateKey string               `json:"privateKey"`
}

// LoadKeyFile reads the sender keys at path.
func LoadKeyFile(path string) (types.AccountAddress, *ecdsa.PrivateKey, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return types.AccountAddress{}, nil, fmt.Errorf("could not read the keys file: %w", err)
	}
	var kf KeyFile
	if err := json.Unmarshal(b, &kf); err != nil {
		return types.AccountAddress{}, nil, fmt.Errorf("could not parse the keys file: %w", err)
	}
	if kf.Address.IsZero() {
		return types.AccountAddress{}, nil, fmt.Errorf("keys file has no address")
	}
	key, err := crypto.HexToECDSA(strings.TrimPrefix(strings.TrimSpace(kf.PrivateKey), "0x"))
	if err != nil {
		return types.AccountAddress{}, nil, fmt.Errorf("invalid private key in keys file: %w", err)
	}
	return kf.Address, key, nil
}

// NewWalletFromKeyFile loads the sender keys at path.
func NewWalletFromKeyFile(path string, client Client) (*InteractingWallet, error) {
	addr, key, err := LoadKeyFile(path)
	if err != nil {
		return nil, err
	}
	return NewInteractingWallet(key, addr, client), nil
}

// NewInteractingWallet creates a wallet for the account at address, signing with privKey.
func NewInteractingWallet(privKey *ecdsa.PrivateKey, address types.AccountAddress, client Client) *InteractingWallet {
	return &InteractingWallet{
		address: address,
		signer:  NewSigner(privKey),
		client:  client,
	}
}

// Address returns the address of the account
func (w *InteractingWallet) Address() types.AccountAddress {
	return w.address
}

// GetClient returns the node client
func (w *InteractingWallet) GetClient() Client {
	return w.client
}

// GetSigner returns the signer
func (w *InteractingWallet) GetSigner() *Signer {
	return w.signer
}

// GetNonce returns the next sequence number of the account.
func (w *InteractingWallet) GetNonce(ctx context.Context) (types.NextNonce, error) {
	return w.client.NextSequenceNumber(ctx, w.address)
}

// CreateSignedTransaction encodes payload and signs the resulting transaction.
func (w *InteractingWallet) CreateSignedTransaction(nonce types.Nonce, expiry types.TransactionTime,
	energy types.Energy, payload types.Payload,
) (*types.AccountTransaction, error) {
	encoded, err := payload.Encode()
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}
	tx, err := types.NewAccountTransaction(w.address, nonce, expiry, energy, encoded)
	if err != nil {
		return nil, err
	}
	return w.signer.SignTx(tx)
}

// CreateTransfer builds a signed transfer of amount to the account at to.
func (w *InteractingWallet) CreateTransfer(to types.AccountAddress, amount types.Amount, nonce types.Nonce,
	expiry types.TransactionTime,
) (*types.AccountTransaction, error) {
	return w.CreateSignedTransaction(nonce, expiry, types.SimpleTransferEnergy, types.TransferPayload{To: to, Amount: amount})
}

// CreateDeployModule builds a signed module deployment. The energy is derived from the module size.
func (w *InteractingWallet) CreateDeployModule(module contracts.VersionedModule, nonce types.Nonce,
	expiry types.TransactionTime,
) (*types.AccountTransaction, error) {
	payload := types.DeployModulePayload{Module: module.Bytes()}
	energy := types.DeployModuleEnergy(1+len(payload.Module), len(module.Source))
	return w.CreateSignedTransaction(nonce, expiry, energy, payload)
}

// CreateInitContract builds a signed transaction creating an instance of the contract initName in modRef.
func (w *InteractingWallet) CreateInitContract(modRef types.ModuleRef, initName contracts.ContractName,
	param contracts.Parameter, energy types.Energy, nonce types.Nonce, expiry types.TransactionTime,
) (*types.AccountTransaction, error) {
	return w.CreateSignedTransaction(nonce, expiry, energy, types.InitContractPayload{
		ModRef:   modRef,
		InitName: string(initName),
		Param:    param,
	})
}

// CreateUpdateContract builds a signed call of the entry point receiveName of the instance at address.
func (w *InteractingWallet) CreateUpdateContract(address types.ContractAddress, receiveName contracts.ReceiveName,
	message contracts.Parameter, energy types.Energy, nonce types.Nonce, expiry types.TransactionTime,
) (*types.AccountTransaction, error) {
	return w.CreateSignedTransaction(nonce, expiry, energy, types.UpdateContractPayload{
		Address:     address,
		ReceiveName: string(receiveName),
		Message:     message,
	})
}

// SendTransaction submits a signed transaction to the node
func (w *InteractingWallet) SendTransaction(ctx context.Context, tx *types.AccountTransaction) (types.TransactionHash, error) {
	return w.client.SendBlockItem(ctx, tx)
}
