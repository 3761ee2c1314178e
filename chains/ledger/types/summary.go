package types

// BlockItemStatus is the lifecycle stage of a submitted block item as reported by the node.
type BlockItemStatus string

const (
	StatusReceived  BlockItemStatus = "received"
	StatusCommitted BlockItemStatus = "committed"
	StatusFinalized BlockItemStatus = "finalized"
)

// Outcomes of an executed transaction.
const (
	OutcomeSuccess = "success"
	OutcomeReject  = "reject"
)

// Kinds of effects a successful transaction reports.
const (
	EffectModuleDeployed      = "moduleDeployed"
	EffectContractInitialized = "contractInitialized"
	EffectContractUpdated     = "contractUpdated"
	EffectAccountTransfer     = "accountTransfer"
)

// TransactionStatus is the node's answer to a status query for a block item.
// Outcome is only set once the item has been executed in a block.
type TransactionStatus struct {
	Status  BlockItemStatus   `json:"status"`
	Outcome *BlockItemSummary `json:"outcome,omitempty"`
}

// BlockItemSummary describes the execution of a block item.
type BlockItemSummary struct {
	Hash         TransactionHash `json:"hash"`
	EnergyCost   Energy          `json:"energyCost"`
	Outcome      string          `json:"outcome"`
	RejectReason string          `json:"rejectReason,omitempty"`
	Effects      *Effects        `json:"effects,omitempty"`
}

// Effects are the details of a successful transaction. Only the field matching Type is set.
type Effects struct {
	Type                string               `json:"type"`
	ModuleRef           *ModuleRef           `json:"moduleRef,omitempty"`
	ContractInitialized *ContractInitialized `json:"contractInitialized,omitempty"`
}

// ContractInitialized is reported by a successful init transaction.
type ContractInitialized struct {
	Address  ContractAddress `json:"address"`
	InitName string          `json:"initName"`
	Origin   ModuleRef       `json:"origin"`
}

// IsSuccess reports whether the transaction executed successfully.
func (s *BlockItemSummary) IsSuccess() bool {
	return s != nil && s.Outcome == OutcomeSuccess
}

// ContractInit returns the initialization result, if the summary is one of a successful init transaction.
func (s *BlockItemSummary) ContractInit() (*ContractInitialized, bool) {
	if !s.IsSuccess() || s.Effects == nil || s.Effects.Type != EffectContractInitialized || s.Effects.ContractInitialized == nil {
		return nil, false
	}
	return s.Effects.ContractInitialized, true
}

// NextNonce is the next sequence number of an account.
// AllFinal is true when every transaction of the account with a lower nonce is finalized.
type NextNonce struct {
	Nonce    Nonce `json:"nonce"`
	AllFinal bool  `json:"allFinal"`
}

// BlockIdentifier selects the block a query is evaluated against.
type BlockIdentifier string

const (
	LastFinal BlockIdentifier = "lastFinal"
	Best      BlockIdentifier = "best"
)

// NodeInfo describes the role of the queried node.
type NodeInfo struct {
	PeerVersion string         `json:"peerVersion,omitempty"`
	Validator   *ValidatorInfo `json:"validator,omitempty"`
}

// ValidatorInfo is set when the node is an active validator.
type ValidatorInfo struct {
	ID uint64 `json:"id"`
}
