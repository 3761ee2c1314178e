package contracts

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"math"
	"sort"

	"github.com/skip-mev/txgen/chains/ledger/types"
)

// Entry points of the token programs deployed by the mint and asset transfer strategies.
const (
	NFTInitName        = "init_cis2_nft"
	NFTMintReceiveName = "cis2_nft.mint"

	MultiInitName            = "init_cis2_multi"
	MultiMintReceiveName     = "cis2_multi.mint"
	MultiTransferReceiveName = "cis2_multi.transfer"
)

// Address is either an account or a contract instance.
type Address struct {
	Account  *types.AccountAddress
	Contract *types.ContractAddress
}

// AccountAddr returns the Address of an account.
func AccountAddr(a types.AccountAddress) Address {
	return Address{Account: &a}
}

// ContractAddr returns the Address of a contract instance.
func ContractAddr(c types.ContractAddress) Address {
	return Address{Contract: &c}
}

func (a Address) Serial(w *Writer) error {
	switch {
	case a.Account != nil && a.Contract == nil:
		w.U8(0)
		w.Raw(a.Account[:])
	case a.Contract != nil && a.Account == nil:
		w.U8(1)
		w.U64(a.Contract.Index)
		w.U64(a.Contract.Subindex)
	default:
		return fmt.Errorf("address must be exactly one of account or contract")
	}
	return nil
}

// TokenID identifies a token within a token program. At most 255 bytes.
type TokenID []byte

// TokenIDFromUint32 is the 4 byte little endian id used by the NFT program.
func TokenIDFromUint32(v uint32) TokenID {
	return binary.LittleEndian.AppendUint32(nil, v)
}

// TokenIDFromUint8 is the single byte id used by the multi asset program.
func TokenIDFromUint8(v uint8) TokenID {
	return TokenID{v}
}

func (t TokenID) Serial(w *Writer) error {
	if len(t) > math.MaxUint8 {
		return fmt.Errorf("token id of %d bytes exceeds %d bytes", len(t), math.MaxUint8)
	}
	w.U8(uint8(len(t))) //nolint:gosec // G115: checked above
	w.Raw(t)
	return nil
}

func (t TokenID) less(o TokenID) bool {
	return bytes.Compare(t, o) < 0
}

// TokenAmount is a token balance, serialized as unsigned LEB128.
type TokenAmount uint64

func (a TokenAmount) Serial(w *Writer) error {
	w.ULEB128(uint64(a))
	return nil
}

// MetadataURL points to the metadata of a token, optionally with the sha256 of its content.
type MetadataURL struct {
	URL  string
	Hash *[32]byte
}

func (m MetadataURL) Serial(w *Writer) error {
	if err := w.Bytes16([]byte(m.URL)); err != nil {
		return fmt.Errorf("metadata url: %w", err)
	}
	if m.Hash == nil {
		w.U8(0)
		return nil
	}
	w.U8(1)
	w.Raw(m.Hash[:])
	return nil
}

// AdditionalData is passed along with a transfer to a receiving contract.
type AdditionalData []byte

func (d AdditionalData) Serial(w *Writer) error {
	if err := w.Bytes16(d); err != nil {
		return fmt.Errorf("additional data: %w", err)
	}
	return nil
}

// Receiver of a transfer. For contracts, Entrypoint is invoked with the transfer details.
type Receiver struct {
	Account    *types.AccountAddress
	Contract   *types.ContractAddress
	Entrypoint string
}

// AccountReceiver returns a Receiver for an account.
func AccountReceiver(a types.AccountAddress) Receiver {
	return Receiver{Account: &a}
}

func (r Receiver) Serial(w *Writer) error {
	switch {
	case r.Account != nil && r.Contract == nil:
		w.U8(0)
		w.Raw(r.Account[:])
	case r.Contract != nil && r.Account == nil:
		w.U8(1)
		w.U64(r.Contract.Index)
		w.U64(r.Contract.Subindex)
		if err := w.Bytes16([]byte(r.Entrypoint)); err != nil {
			return fmt.Errorf("entrypoint: %w", err)
		}
	default:
		return fmt.Errorf("receiver must be exactly one of account or contract")
	}
	return nil
}

// Transfer moves Amount of TokenID from From to To.
type Transfer struct {
	TokenID TokenID
	Amount  TokenAmount
	From    Address
	To      Receiver
	Data    AdditionalData
}

func (t Transfer) Serial(w *Writer) error {
	for _, s := range []Serial{t.TokenID, t.Amount, t.From, t.To, t.Data} {
		if err := s.Serial(w); err != nil {
			return err
		}
	}
	return nil
}

// TransferParams is the parameter of the standard transfer entry point.
type TransferParams []Transfer

func (p TransferParams) Serial(w *Writer) error {
	if len(p) > math.MaxUint16 {
		return fmt.Errorf("%d transfers exceed %d", len(p), math.MaxUint16)
	}
	w.U16(uint16(len(p))) //nolint:gosec // G115: checked above
	for i, t := range p {
		if err := t.Serial(w); err != nil {
			return fmt.Errorf("transfer %d: %w", i, err)
		}
	}
	return nil
}

// NFTMintParams mints Tokens to Owner. The ids are a set, written in ascending order with a u8 count.
type NFTMintParams struct {
	Owner  Address
	Tokens []TokenID
}

func (p NFTMintParams) Serial(w *Writer) error {
	if err := p.Owner.Serial(w); err != nil {
		return fmt.Errorf("owner: %w", err)
	}
	ids := sortedTokenIDs(p.Tokens)
	if len(ids) > math.MaxUint8 {
		return fmt.Errorf("%d tokens exceed %d", len(ids), math.MaxUint8)
	}
	w.U8(uint8(len(ids))) //nolint:gosec // G115: checked above
	for _, id := range ids {
		if err := id.Serial(w); err != nil {
			return err
		}
	}
	return nil
}

// MintToken is one entry of MultiMintParams.
type MintToken struct {
	ID       TokenID
	Amount   TokenAmount
	Metadata MetadataURL
}

// MultiMintParams mints Tokens to Owner. The entries form a map keyed by id, written in ascending id order
// with a u32 count.
type MultiMintParams struct {
	Owner  Address
	Tokens []MintToken
}

func (p MultiMintParams) Serial(w *Writer) error {
	if err := p.Owner.Serial(w); err != nil {
		return fmt.Errorf("owner: %w", err)
	}
	tokens := append([]MintToken(nil), p.Tokens...)
	sort.SliceStable(tokens, func(i, j int) bool { return tokens[i].ID.less(tokens[j].ID) })
	for i := 1; i < len(tokens); i++ {
		if bytes.Equal(tokens[i-1].ID, tokens[i].ID) {
			return fmt.Errorf("duplicate token id %x", []byte(tokens[i].ID))
		}
	}
	if uint64(len(tokens)) > math.MaxUint32 {
		return fmt.Errorf("%d tokens exceed %d", len(tokens), uint64(math.MaxUint32))
	}
	w.U32(uint32(len(tokens))) //nolint:gosec // G115: checked above
	for _, t := range tokens {
		if err := t.ID.Serial(w); err != nil {
			return err
		}
		if err := t.Amount.Serial(w); err != nil {
			return err
		}
		if err := t.Metadata.Serial(w); err != nil {
			return err
		}
	}
	return nil
}

func sortedTokenIDs(ids []TokenID) []TokenID {
	out := append([]TokenID(nil), ids...)
	sort.Slice(out, func(i, j int) bool { return out[i].less(out[j]) })
	uniq := out[:0]
	for _, id := range out {
		if len(uniq) > 0 && bytes.Equal(uniq[len(uniq)-1], id) {
			continue
		}
		uniq = append(uniq, id)
	}
	return uniq
}
