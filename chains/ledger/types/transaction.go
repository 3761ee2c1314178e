package types

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"math"
)

// TransactionHeaderSize is the size of an encoded TransactionHeader.
const TransactionHeaderSize = AccountAddressLength + 8 + 8 + 4 + 8

const blockItemAccountTransaction byte = 0

// Energy charged by the node independently of the payload.
const (
	energyPerSignature Energy = 100
	energyPerByte      Energy = 1
	transferBaseEnergy Energy = 300
)

// SimpleTransferEnergy is the energy needed by a plain transfer signed with one key.
const SimpleTransferEnergy = energyPerSignature + energyPerByte*(TransactionHeaderSize+TransferPayloadSize) + transferBaseEnergy

// BaseEnergy is the energy charged for checking the header and signature of a transaction
// signed with one key and carrying payloadSize bytes.
func BaseEnergy(payloadSize int) Energy {
	return energyPerSignature + energyPerByte*Energy(TransactionHeaderSize+payloadSize) //nolint:gosec // G115: sizes are positive
}

// DeployModuleEnergy is the energy needed to deploy a module with sourceSize bytes of code
// in a payload of payloadSize bytes.
func DeployModuleEnergy(payloadSize, sourceSize int) Energy {
	return BaseEnergy(payloadSize) + Energy(sourceSize/10) //nolint:gosec // G115: sizes are positive
}

// TransactionHeader precedes the payload of every account transaction.
type TransactionHeader struct {
	Sender      AccountAddress
	Nonce       Nonce
	Energy      Energy
	PayloadSize uint32
	Expiry      TransactionTime
}

func (h TransactionHeader) encode(out []byte) []byte {
	out = append(out, h.Sender[:]...)
	out = binary.BigEndian.AppendUint64(out, uint64(h.Nonce))
	out = binary.BigEndian.AppendUint64(out, uint64(h.Energy))
	out = binary.BigEndian.AppendUint32(out, h.PayloadSize)
	out = binary.BigEndian.AppendUint64(out, uint64(h.Expiry))
	return out
}

// AccountTransaction is a signed transaction sent from an account.
// It is built once and must not be mutated after it has been signed.
type AccountTransaction struct {
	Header    TransactionHeader
	Payload   EncodedPayload
	Signature []byte
}

// NewAccountTransaction returns an unsigned transaction for the given payload.
// The payload size in the header is derived from the payload.
func NewAccountTransaction(sender AccountAddress, nonce Nonce, expiry TransactionTime, energy Energy, payload EncodedPayload) (*AccountTransaction, error) {
	if len(payload) == 0 {
		return nil, fmt.Errorf("empty payload")
	}
	if uint64(len(payload)) > math.MaxUint32 {
		return nil, fmt.Errorf("payload of %d bytes is too large", len(payload))
	}
	return &AccountTransaction{
		Header: TransactionHeader{
			Sender:      sender,
			Nonce:       nonce,
			Energy:      energy,
			PayloadSize: uint32(len(payload)), //nolint:gosec // G115: checked above
			Expiry:      expiry,
		},
		Payload: payload,
	}, nil
}

// SigningDigest is the 32 byte digest that the sender signs.
func (tx *AccountTransaction) SigningDigest() []byte {
	buf := make([]byte, 0, TransactionHeaderSize+len(tx.Payload))
	buf = tx.Header.encode(buf)
	buf = append(buf, tx.Payload...)
	digest := sha256.Sum256(buf)
	return digest[:]
}

// Bytes returns the block item encoding of the transaction:
// tag(1) | signature length(2) | signature | header | payload.
func (tx *AccountTransaction) Bytes() []byte {
	out := make([]byte, 0, 1+2+len(tx.Signature)+TransactionHeaderSize+len(tx.Payload))
	out = append(out, blockItemAccountTransaction)
	out = binary.BigEndian.AppendUint16(out, uint16(len(tx.Signature))) //nolint:gosec // G115: signatures are 65 bytes
	out = append(out, tx.Signature...)
	out = tx.Header.encode(out)
	out = append(out, tx.Payload...)
	return out
}

// Hash returns the hash identifying the transaction once submitted.
func (tx *AccountTransaction) Hash() TransactionHash {
	return sha256.Sum256(tx.Bytes())
}

// DecodeAccountTransaction parses the block item encoding produced by Bytes.
func DecodeAccountTransaction(b []byte) (*AccountTransaction, error) {
	if len(b) < 3 {
		return nil, fmt.Errorf("block item too short: %d bytes", len(b))
	}
	if b[0] != blockItemAccountTransaction {
		return nil, fmt.Errorf("unsupported block item tag %d", b[0])
	}
	sigLen := int(binary.BigEndian.Uint16(b[1:3]))
	rest := b[3:]
	if len(rest) < sigLen+TransactionHeaderSize {
		return nil, fmt.Errorf("block item truncated")
	}
	tx := &AccountTransaction{Signature: append([]byte(nil), rest[:sigLen]...)}
	rest = rest[sigLen:]

	copy(tx.Header.Sender[:], rest[:AccountAddressLength])
	rest = rest[AccountAddressLength:]
	tx.Header.Nonce = Nonce(binary.BigEndian.Uint64(rest[0:8]))
	tx.Header.Energy = Energy(binary.BigEndian.Uint64(rest[8:16]))
	tx.Header.PayloadSize = binary.BigEndian.Uint32(rest[16:20])
	tx.Header.Expiry = TransactionTime(binary.BigEndian.Uint64(rest[20:28]))
	rest = rest[28:]

	if uint64(len(rest)) != uint64(tx.Header.PayloadSize) {
		return nil, fmt.Errorf("payload size mismatch: header says %d, got %d", tx.Header.PayloadSize, len(rest))
	}
	tx.Payload = append(EncodedPayload(nil), rest...)
	return tx, nil
}
