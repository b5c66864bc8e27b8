// Package transactions contains the block items the wallet submits to the chain and their
// canonical, versioned wire encoding.
package transactions

import (
	"encoding/hex"
	"time"

	"github.com/go-errors/errors"

	"github.com/ccdid/idwallet/cbor"
	"github.com/ccdid/idwallet/id"
)

// Version0 is the only wire version of block items.
const Version0 = 0

const (
	KindCredentialDeployment BlockItemKind = 1

	CredentialTypeNormal = "normal"
)

var (
	ErrUnsupportedVersion = errors.New("unsupported block item version")
	ErrMalformedBlockItem = errors.New("malformed block item")
)

type (
	// TransactionTime is a number of seconds since the Unix epoch.
	TransactionTime uint64

	BlockItemKind uint8

	// TransactionHash is the SHA-256 hash of the canonical encoding of a block item.
	TransactionHash [32]byte

	// AccountCredential is a credential as it appears on chain.
	AccountCredential struct {
		Type     string                       `json:"type"`
		Contents *id.CredentialDeploymentInfo `json:"contents"`
	}

	// AccountCredentialMessage deploys a credential if it reaches the chain before its expiry.
	AccountCredentialMessage struct {
		MessageExpiry TransactionTime   `json:"messageExpiry"`
		Credential    AccountCredential `json:"credential"`
	}

	// BlockItem is a submittable item. Only credential deployments are constructed by the wallet.
	BlockItem struct {
		Kind                 BlockItemKind             `json:"kind"`
		CredentialDeployment *AccountCredentialMessage `json:"credentialDeployment,omitempty"`
	}

	// Versioned tags a value with the version of its encoding.
	Versioned[T any] struct {
		V     uint32 `json:"v"`
		Value T      `json:"value"`
	}
)

func NewTransactionTime(t time.Time) TransactionTime {
	return TransactionTime(t.Unix())
}

func (t TransactionTime) Time() time.Time {
	return time.Unix(int64(t), 0).UTC()
}

func NewVersioned[T any](v uint32, value T) Versioned[T] {
	return Versioned[T]{V: v, Value: value}
}

// NewCredentialDeployment wraps a signed credential into a block item that expires at expiry.
func NewCredentialDeployment(cdi *id.CredentialDeploymentInfo, expiry TransactionTime) *BlockItem {
	return &BlockItem{
		Kind: KindCredentialDeployment,
		CredentialDeployment: &AccountCredentialMessage{
			MessageExpiry: expiry,
			Credential: AccountCredential{
				Type:     CredentialTypeNormal,
				Contents: cdi,
			},
		},
	}
}

// Bytes returns the canonical encoding of the block item.
func (b *BlockItem) Bytes() ([]byte, error) {
	return cbor.Marshal(b)
}

// Hash returns the hash of the canonical encoding of the block item, which identifies the
// transaction on chain.
func (b *BlockItem) Hash() (TransactionHash, error) {
	digest, err := cbor.Digest(b)
	return TransactionHash(digest), err
}

// VersionedBytes returns the canonical encoding of the version 0 tagged block item.
func (b *BlockItem) VersionedBytes() ([]byte, error) {
	return cbor.Marshal(NewVersioned(Version0, b))
}

// Hex returns the hex of VersionedBytes, the form in which block items are submitted.
func (b *BlockItem) Hex() (string, error) {
	bts, err := b.VersionedBytes()
	if err != nil {
		return "", err
	}
	return hex.EncodeToString(bts), nil
}

func (b *BlockItem) validate() error {
	switch b.Kind {
	case KindCredentialDeployment:
		d := b.CredentialDeployment
		if d == nil || d.Credential.Type != CredentialTypeNormal || d.Credential.Contents == nil {
			return ErrMalformedBlockItem
		}
		return nil
	default:
		return ErrMalformedBlockItem
	}
}

// Decode parses the versioned canonical encoding of a block item.
func Decode(bts []byte) (*BlockItem, error) {
	var versioned Versioned[*BlockItem]
	if err := cbor.Unmarshal(bts, &versioned); err != nil {
		return nil, errors.WrapPrefix(err, "failed to decode block item", 0)
	}
	if versioned.V != Version0 {
		return nil, ErrUnsupportedVersion
	}
	if versioned.Value == nil {
		return nil, ErrMalformedBlockItem
	}
	if err := versioned.Value.validate(); err != nil {
		return nil, err
	}
	return versioned.Value, nil
}

// DecodeHex is Decode for the output of Hex.
func DecodeHex(s string) (*BlockItem, error) {
	bts, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.WrapPrefix(err, "block item is not valid hex", 0)
	}
	return Decode(bts)
}

func (h TransactionHash) String() string {
	return hex.EncodeToString(h[:])
}

func (h TransactionHash) MarshalText() ([]byte, error) {
	return []byte(h.String()), nil
}

func (h *TransactionHash) UnmarshalText(text []byte) error {
	b, err := hex.DecodeString(string(text))
	if err != nil {
		return err
	}
	if len(b) != len(h) {
		return errors.Errorf("transaction hash must be %d bytes, got %d", len(h), len(b))
	}
	copy(h[:], b)
	return nil
}
