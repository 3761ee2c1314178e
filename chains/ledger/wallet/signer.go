package wallet

import (
	"crypto/ecdsa"
	"fmt"

	"github.com/ethereum/go-ethereum/crypto"

	"github.com/skip-mev/txgen/chains/ledger/types"
)

// Signer signs transactions with a secp256k1 key.
type Signer struct {
	PrivKey *ecdsa.PrivateKey
}

// NewSigner creates a new signer with the given private key.
func NewSigner(privKey *ecdsa.PrivateKey) *Signer {
	return &Signer{PrivKey: privKey}
}

// SignTx signs tx in place and returns it.
func (s *Signer) SignTx(tx *types.AccountTransaction) (*types.AccountTransaction, error) {
	sig, err := crypto.Sign(tx.SigningDigest(), s.PrivKey)
	if err != nil {
		return nil, fmt.Errorf("failed to sign transaction: %w", err)
	}
	tx.Signature = sig
	return tx, nil
}

// PublicKey returns the compressed public key.
func (s *Signer) PublicKey() []byte {
	return crypto.CompressPubkey(&s.PrivKey.PublicKey)
}

// VerifySignature checks the signature of tx against the compressed public key pub.
func VerifySignature(pub []byte, tx *types.AccountTransaction) bool {
	if len(tx.Signature) != crypto.SignatureLength {
		return false
	}
	// the recovery id is not part of the verified signature
	return crypto.VerifySignature(pub, tx.SigningDigest(), tx.Signature[:crypto.RecoveryIDOffset])
}
