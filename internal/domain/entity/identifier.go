package entity

import "strings"

// IdentifierType is a typed account signal that can link refund events to
// the same actor.
type IdentifierType string

const (
	IdentifierPhone              IdentifierType = "phone"
	IdentifierPaymentAccount     IdentifierType = "payment_account"
	IdentifierGoogleID           IdentifierType = "google_id"
	IdentifierFacebookBusinessID IdentifierType = "facebook_business_id"
)

// IdentifierTypes is the fixed iteration order for identifier handling.
// Query resolution is first-match over this order, so it is a priority
// list, not an arbitrary enumeration.
var IdentifierTypes = []IdentifierType{
	IdentifierPhone,
	IdentifierPaymentAccount,
	IdentifierGoogleID,
	IdentifierFacebookBusinessID,
}

// Identifier is one claimed account signal observed on a refund event.
// Within a (type, value, app) triple there is at most one row; the same
// (type, value) pair may exist under multiple apps, each independently
// pointing at an owning risk user until a merge collapses them.
type Identifier struct {
	ID         int64
	RiskUserID int64 // Owning risk user; repointed on merge.
	App        string
	Type       IdentifierType
	Value      string
	CreatedAt  int64 // Unix seconds.
}

// IdentifierSet holds the non-empty identifier values extracted from a
// request, keyed by type. Values are stored trimmed.
type IdentifierSet map[IdentifierType]string

// ExtractIdentifiers collects the non-empty values from the given raw
// mapping, trimmed and tagged by type. Blank values are treated as absent.
func ExtractIdentifiers(raw map[IdentifierType]string) IdentifierSet {
	set := make(IdentifierSet)
	for _, typ := range IdentifierTypes {
		value := strings.TrimSpace(raw[typ])
		if value != "" {
			set[typ] = value
		}
	}

	return set
}

// Ordered returns the set's entries in the fixed priority order.
func (s IdentifierSet) Ordered() []Identifier {
	ordered := make([]Identifier, 0, len(s))
	for _, typ := range IdentifierTypes {
		if value, ok := s[typ]; ok {
			ordered = append(ordered, Identifier{Type: typ, Value: value})
		}
	}

	return ordered
}
