package cdp

import (
	"encoding/hex"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cdp-cloud/cdp-sdk-go/pkg/sign"
)

// TransactionStatus is the lifecycle state of one onchain transaction.
type TransactionStatus string

const (
	TransactionStatusPending   TransactionStatus = "pending"
	TransactionStatusSigned    TransactionStatus = "signed"
	TransactionStatusBroadcast TransactionStatus = "broadcast"
	TransactionStatusComplete  TransactionStatus = "complete"
	TransactionStatusFailed    TransactionStatus = "failed"
)

func (s TransactionStatus) String() string {
	return string(s)
}

// transactionModel is the wire shape of a transaction.
type transactionModel struct {
	NetworkID       string `json:"network_id"`
	FromAddressID   string `json:"from_address_id"`
	UnsignedPayload string `json:"unsigned_payload"`
	SignedPayload   string `json:"signed_payload,omitempty"`
	TransactionHash string `json:"transaction_hash,omitempty"`
	TransactionLink string `json:"transaction_link,omitempty"`
	Status          string `json:"status"`
}

// Transaction is one signable onchain payload inside an operation. The
// platform constructs them server-side; the SDK's job is signing the
// payload locally and carrying the signature until broadcast.
type Transaction struct {
	model transactionModel
}

// NetworkID returns the network the transaction targets.
func (t *Transaction) NetworkID() string {
	return t.model.NetworkID
}

// FromAddressID returns the sending address.
func (t *Transaction) FromAddressID() string {
	return t.model.FromAddressID
}

// UnsignedPayload returns the hex-encoded payload to sign. It never changes
// for the lifetime of the transaction and identifies it across reloads.
func (t *Transaction) UnsignedPayload() string {
	return t.model.UnsignedPayload
}

// SignedPayload returns the hex-encoded signature, or "" while unsigned.
func (t *Transaction) SignedPayload() string {
	return t.model.SignedPayload
}

// Hash returns the onchain transaction hash, or "" before broadcast.
func (t *Transaction) Hash() string {
	return t.model.TransactionHash
}

// Link returns a block-explorer URL for the transaction, when known.
func (t *Transaction) Link() string {
	return t.model.TransactionLink
}

// Status returns the transaction's lifecycle state.
func (t *Transaction) Status() TransactionStatus {
	return TransactionStatus(t.model.Status)
}

// IsSigned reports whether a signature has been attached, locally or
// server-side.
func (t *Transaction) IsSigned() bool {
	return t.model.SignedPayload != ""
}

// Sign signs the unsigned payload with the signer and stores the signature.
// Calling it on an already-signed transaction is a no-op, so retried sign
// loops never clobber an existing signature.
func (t *Transaction) Sign(signer sign.Signer) error {
	if t.IsSigned() {
		return nil
	}

	payload, err := decodePayload(t.model.UnsignedPayload)
	if err != nil {
		return fmt.Errorf("cdp: decode unsigned payload: %w", err)
	}

	signature, err := signer.Sign(payload)
	if err != nil {
		return fmt.Errorf("cdp: sign transaction: %w", err)
	}

	t.model.SignedPayload = signature.String()
	t.model.Status = string(TransactionStatusSigned)
	return nil
}

// markBroadcast records that the platform accepted the signed payload. The
// merge rule keeps local objects across reloads, so the status change has
// to land on this object directly.
func (t *Transaction) markBroadcast() {
	t.model.Status = string(TransactionStatusBroadcast)
}

func (t *Transaction) UnmarshalJSON(data []byte) error {
	return json.Unmarshal(data, &t.model)
}

func (t Transaction) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.model)
}

// decodePayload decodes a hex payload with or without a 0x prefix.
func decodePayload(payload string) ([]byte, error) {
	return hex.DecodeString(strings.TrimPrefix(payload, "0x"))
}

// mergeTransactions reconciles a fetched transaction list with local state.
// For every server transaction, a local transaction carrying the same
// unsigned payload is kept — the very object, so signatures applied locally
// survive the reload — and unmatched server transactions are taken as-is.
// The result follows server order.
func mergeTransactions(local, remote []*Transaction) []*Transaction {
	byPayload := make(map[string]*Transaction, len(local))
	for _, tx := range local {
		byPayload[tx.UnsignedPayload()] = tx
	}

	merged := make([]*Transaction, 0, len(remote))
	for _, tx := range remote {
		if kept, ok := byPayload[tx.UnsignedPayload()]; ok {
			merged = append(merged, kept)
			continue
		}
		merged = append(merged, tx)
	}
	return merged
}
