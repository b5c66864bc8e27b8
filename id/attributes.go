package id

import (
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/go-errors/errors"
)

// MaxAttributeSize is the maximum length in bytes of an attribute value.
const MaxAttributeSize = 31

// AttributeTag identifies an identity attribute. In JSON it is the attribute's name.
type AttributeTag uint8

const (
	TagFirstName AttributeTag = iota
	TagLastName
	TagSex
	TagDob
	TagCountryOfResidence
	TagNationality
	TagIdDocType
	TagIdDocNo
	TagIdDocIssuer
	TagIdDocIssuedAt
	TagIdDocExpiresAt
	TagNationalIdNo
	TagTaxIdNo
)

var attributeNames = []string{
	"firstName",
	"lastName",
	"sex",
	"dob",
	"countryOfResidence",
	"nationality",
	"idDocType",
	"idDocNo",
	"idDocIssuer",
	"idDocIssuedAt",
	"idDocExpiresAt",
	"nationalIdNo",
	"taxIdNo",
}

var ErrUnknownAttributeTag = errors.New("unknown attribute tag")

// ParseAttributeTag returns the tag with the given name.
func ParseAttributeTag(name string) (AttributeTag, error) {
	for i, n := range attributeNames {
		if n == name {
			return AttributeTag(i), nil
		}
	}
	return 0, errors.WrapPrefix(ErrUnknownAttributeTag, name, 0)
}

func (t AttributeTag) String() string {
	if int(t) < len(attributeNames) {
		return attributeNames[t]
	}
	return "AttributeTag(" + strconv.Itoa(int(t)) + ")"
}

func (t AttributeTag) MarshalText() ([]byte, error) {
	if int(t) >= len(attributeNames) {
		return nil, errors.Errorf("attribute tag %d out of range", t)
	}
	return []byte(attributeNames[t]), nil
}

func (t *AttributeTag) UnmarshalText(text []byte) error {
	tag, err := ParseAttributeTag(string(text))
	if err != nil {
		return err
	}
	*t = tag
	return nil
}

// AttributeValue is an attribute value of at most MaxAttributeSize bytes.
type AttributeValue string

func (v *AttributeValue) UnmarshalText(text []byte) error {
	if len(text) > MaxAttributeSize {
		return errors.Errorf("attribute value is %d bytes, at most %d allowed", len(text), MaxAttributeSize)
	}
	*v = AttributeValue(text)
	return nil
}

// YearMonth is a month of a year, written YYYYMM.
type YearMonth struct {
	Year  uint16
	Month uint8
}

func NewYearMonth(t time.Time) YearMonth {
	return YearMonth{Year: uint16(t.Year()), Month: uint8(t.Month())}
}

func (ym YearMonth) String() string {
	return fmt.Sprintf("%04d%02d", ym.Year, ym.Month)
}

// Before reports whether ym is an earlier month than other.
func (ym YearMonth) Before(other YearMonth) bool {
	return ym.Year < other.Year || (ym.Year == other.Year && ym.Month < other.Month)
}

func (ym YearMonth) MarshalText() ([]byte, error) {
	return []byte(ym.String()), nil
}

func (ym *YearMonth) UnmarshalText(text []byte) error {
	if len(text) != 6 {
		return errors.Errorf("year and month must be of the form YYYYMM, got %q", text)
	}
	year, err := strconv.ParseUint(string(text[:4]), 10, 16)
	if err != nil {
		return errors.WrapPrefix(err, "invalid year", 0)
	}
	month, err := strconv.ParseUint(string(text[4:]), 10, 8)
	if err != nil {
		return errors.WrapPrefix(err, "invalid month", 0)
	}
	if year < 1000 || month < 1 || month > 12 {
		return errors.Errorf("year and month out of range: %s", text)
	}
	ym.Year, ym.Month = uint16(year), uint8(month)
	return nil
}

// AttributeList is the list of attributes an identity provider signs.
type AttributeList struct {
	ValidTo          YearMonth                       `json:"validTo"`
	CreatedAt        YearMonth                       `json:"createdAt"`
	MaxAccounts      uint8                           `json:"maxAccounts"`
	ChosenAttributes map[AttributeTag]AttributeValue `json:"chosenAttributes"`
}

// Policy is the part of an attribute list that a credential reveals.
type Policy struct {
	ValidTo            YearMonth                       `json:"validTo"`
	CreatedAt          YearMonth                       `json:"createdAt"`
	RevealedAttributes map[AttributeTag]AttributeValue `json:"revealedAttributes"`
}

var (
	ErrDuplicateAttribute = errors.New("cannot reveal an attribute more than once")
	ErrMissingAttribute   = errors.New("cannot reveal an attribute which is not part of the attribute list")
)

// AttributeError names the tag a policy could not be built with.
type AttributeError struct {
	Tag AttributeTag
	Err error
}

func (e *AttributeError) Error() string {
	return e.Err.Error() + ": " + e.Tag.String()
}

func (e *AttributeError) Unwrap() error {
	return e.Err
}

// NewPolicy reveals the given tags of the attribute list, in any order. Every tag must be
// present in the list and may be given only once. The validity window is copied from the list.
func NewPolicy(alist *AttributeList, tags []AttributeTag) (*Policy, error) {
	revealed := make(map[AttributeTag]AttributeValue, len(tags))
	for _, tag := range tags {
		value, ok := alist.ChosenAttributes[tag]
		if !ok {
			return nil, &AttributeError{Tag: tag, Err: ErrMissingAttribute}
		}
		if _, dup := revealed[tag]; dup {
			return nil, &AttributeError{Tag: tag, Err: ErrDuplicateAttribute}
		}
		revealed[tag] = value
	}
	return &Policy{
		ValidTo:            alist.ValidTo,
		CreatedAt:          alist.CreatedAt,
		RevealedAttributes: revealed,
	}, nil
}

func sortArIdentities(ids []ArIdentity) {
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
}
