package types

import (
	"encoding/binary"
	"fmt"
	"math"
)

// PayloadType is the leading tag of an encoded transaction payload.
type PayloadType byte

const (
	PayloadDeployModule PayloadType = 0
	PayloadInitContract PayloadType = 1
	PayloadUpdate       PayloadType = 2
	PayloadTransfer     PayloadType = 3
)

func (p PayloadType) String() string {
	switch p {
	case PayloadDeployModule:
		return "deploy_module"
	case PayloadInitContract:
		return "init_contract"
	case PayloadUpdate:
		return "update"
	case PayloadTransfer:
		return "transfer"
	default:
		return fmt.Sprintf("unknown(%d)", byte(p))
	}
}

// EncodedPayload is the serialized payload of an account transaction.
type EncodedPayload []byte

// Type returns the payload tag.
func (p EncodedPayload) Type() PayloadType {
	if len(p) == 0 {
		return PayloadType(math.MaxUint8)
	}
	return PayloadType(p[0])
}

// Payload is a transaction payload that can be serialized for submission.
type Payload interface {
	Encode() (EncodedPayload, error)
}

var (
	_ Payload = TransferPayload{}
	_ Payload = DeployModulePayload{}
	_ Payload = InitContractPayload{}
	_ Payload = UpdateContractPayload{}
)

// TransferPayload moves Amount from the sender to To.
type TransferPayload struct {
	To     AccountAddress
	Amount Amount
}

// TransferPayloadSize is the size of an encoded TransferPayload.
const TransferPayloadSize = 1 + AccountAddressLength + 8

func (p TransferPayload) Encode() (EncodedPayload, error) {
	out := make([]byte, 0, TransferPayloadSize)
	out = append(out, byte(PayloadTransfer))
	out = append(out, p.To[:]...)
	out = binary.BigEndian.AppendUint64(out, uint64(p.Amount))
	return out, nil
}

// DeployModulePayload deploys a versioned program module. Module holds the versioned module bytes.
type DeployModulePayload struct {
	Module []byte
}

func (p DeployModulePayload) Encode() (EncodedPayload, error) {
	if len(p.Module) == 0 {
		return nil, fmt.Errorf("empty module")
	}
	out := make([]byte, 0, 1+len(p.Module))
	out = append(out, byte(PayloadDeployModule))
	out = append(out, p.Module...)
	return out, nil
}

// InitContractPayload creates a contract instance from a deployed module.
type InitContractPayload struct {
	Amount   Amount
	ModRef   ModuleRef
	InitName string
	Param    []byte
}

func (p InitContractPayload) Encode() (EncodedPayload, error) {
	out := make([]byte, 0, 1+8+len(p.ModRef)+2+len(p.InitName)+2+len(p.Param))
	out = append(out, byte(PayloadInitContract))
	out = binary.BigEndian.AppendUint64(out, uint64(p.Amount))
	out = append(out, p.ModRef[:]...)
	out, err := appendLengthPrefixed(out, []byte(p.InitName))
	if err != nil {
		return nil, fmt.Errorf("init name: %w", err)
	}
	out, err = appendLengthPrefixed(out, p.Param)
	if err != nil {
		return nil, fmt.Errorf("parameter: %w", err)
	}
	return out, nil
}

// UpdateContractPayload invokes an entry point of a contract instance.
type UpdateContractPayload struct {
	Amount      Amount
	Address     ContractAddress
	ReceiveName string
	Message     []byte
}

func (p UpdateContractPayload) Encode() (EncodedPayload, error) {
	out := make([]byte, 0, 1+8+16+2+len(p.ReceiveName)+2+len(p.Message))
	out = append(out, byte(PayloadUpdate))
	out = binary.BigEndian.AppendUint64(out, uint64(p.Amount))
	out = binary.BigEndian.AppendUint64(out, p.Address.Index)
	out = binary.BigEndian.AppendUint64(out, p.Address.Subindex)
	out, err := appendLengthPrefixed(out, []byte(p.ReceiveName))
	if err != nil {
		return nil, fmt.Errorf("receive name: %w", err)
	}
	out, err = appendLengthPrefixed(out, p.Message)
	if err != nil {
		return nil, fmt.Errorf("message: %w", err)
	}
	return out, nil
}

func appendLengthPrefixed(out, b []byte) ([]byte, error) {
	if len(b) > math.MaxUint16 {
		return nil, fmt.Errorf("length %d exceeds %d bytes", len(b), math.MaxUint16)
	}
	out = binary.BigEndian.AppendUint16(out, uint16(len(b))) //nolint:gosec // G115: checked above
	return append(out, b...), nil
}
