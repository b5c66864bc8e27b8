package id

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ccdid/idwallet/curve"
)

func TestAttributeTagText(t *testing.T) {
	for i, name := range attributeNames {
		tag, err := ParseAttributeTag(name)
		require.NoError(t, err)
		assert.Equal(t, AttributeTag(i), tag)
		assert.Equal(t, name, tag.String())
	}
	_, err := ParseAttributeTag("FirstName")
	assert.ErrorIs(t, err, ErrUnknownAttributeTag)

	var tags []AttributeTag
	require.NoError(t, json.Unmarshal([]byte(`["lastName","dob"]`), &tags))
	assert.Equal(t, []AttributeTag{TagLastName, TagDob}, tags)
	assert.Error(t, json.Unmarshal([]byte(`["eyeColor"]`), &tags))
}

func TestYearMonth(t *testing.T) {
	var ym YearMonth
	require.NoError(t, ym.UnmarshalText([]byte("202403")))
	assert.Equal(t, YearMonth{Year: 2024, Month: 3}, ym)
	assert.Equal(t, "202403", ym.String())
	assert.True(t, ym.Before(YearMonth{Year: 2024, Month: 4}))
	assert.False(t, ym.Before(YearMonth{Year: 2023, Month: 12}))

	for _, bad := range []string{"2024", "202413", "202400", "20240a", "0099011"} {
		assert.Error(t, ym.UnmarshalText([]byte(bad)), bad)
	}
}

func TestAttributeListJSON(t *testing.T) {
	input := `{
		"validTo": "202912",
		"createdAt": "202403",
		"maxAccounts": 238,
		"chosenAttributes": {"firstName": "Jane", "nationality": "NL"}
	}`
	var alist AttributeList
	require.NoError(t, json.Unmarshal([]byte(input), &alist))
	assert.Equal(t, uint8(238), alist.MaxAccounts)
	assert.Equal(t, AttributeValue("NL"), alist.ChosenAttributes[TagNationality])

	bts, err := json.Marshal(alist)
	require.NoError(t, err)
	assert.Contains(t, string(bts), `"firstName":"Jane"`)

	tooLong := `{"chosenAttributes": {"firstName": "abcdefghijklmnopqrstuvwxyz0123456"}}`
	assert.Error(t, json.Unmarshal([]byte(tooLong), &alist))
}

func TestNewPolicy(t *testing.T) {
	alist := &AttributeList{
		ValidTo:   YearMonth{2030, 1},
		CreatedAt: YearMonth{2025, 1},
		ChosenAttributes: map[AttributeTag]AttributeValue{
			TagFirstName:   "Jane",
			TagNationality: "NL",
		},
	}

	policy, err := NewPolicy(alist, []AttributeTag{TagNationality})
	require.NoError(t, err)
	assert.Equal(t, alist.ValidTo, policy.ValidTo)
	assert.Equal(t, alist.CreatedAt, policy.CreatedAt)
	assert.Equal(t, map[AttributeTag]AttributeValue{TagNationality: "NL"}, policy.RevealedAttributes)

	empty, err := NewPolicy(alist, nil)
	require.NoError(t, err)
	assert.Empty(t, empty.RevealedAttributes)

	_, err = NewPolicy(alist, []AttributeTag{TagNationality, TagFirstName, TagNationality})
	var attrErr *AttributeError
	require.ErrorAs(t, err, &attrErr)
	assert.Equal(t, TagNationality, attrErr.Tag)
	assert.ErrorIs(t, err, ErrDuplicateAttribute)

	_, err = NewPolicy(alist, []AttributeTag{TagTaxIdNo})
	require.ErrorAs(t, err, &attrErr)
	assert.Equal(t, TagTaxIdNo, attrErr.Tag)
	assert.ErrorIs(t, err, ErrMissingAttribute)
}

func TestAccountAddressText(t *testing.T) {
	addr := NewAccountAddress(curve.Generator())
	txt, err := addr.MarshalText()
	require.NoError(t, err)

	var back AccountAddress
	require.NoError(t, back.UnmarshalText(txt))
	assert.Equal(t, addr, back)

	corrupted := []byte(string(txt))
	if corrupted[5] == '2' {
		corrupted[5] = '3'
	} else {
		corrupted[5] = '2'
	}
	assert.Error(t, back.UnmarshalText(corrupted))
	assert.Error(t, back.UnmarshalText([]byte("0OIl")))
	assert.Error(t, back.UnmarshalText([]byte("3yZe7d")))
}

func TestContextJSON(t *testing.T) {
	f := newFixture(t, 1, 2)

	bts, err := json.Marshal(f.ctx.Global)
	require.NoError(t, err)
	var global GlobalContext
	require.NoError(t, json.Unmarshal(bts, &global))
	assert.True(t, global.OnChainCommitmentKey.H.Equal(f.ctx.Global.OnChainCommitmentKey.H))
	assert.Equal(t, "test genesis", global.GenesisString)

	bts, err = json.Marshal(f.ctx.ArsInfos)
	require.NoError(t, err)
	assert.Contains(t, string(bts), `"2":{"arIdentity":2`)
	var ars map[ArIdentity]ArInfo
	require.NoError(t, json.Unmarshal(bts, &ars))
	assert.Len(t, ars, 2)

	bts, err = json.Marshal(f.ctx.IpInfo)
	require.NoError(t, err)
	var ip IpInfo
	require.NoError(t, json.Unmarshal(bts, &ip))
	assert.Equal(t, f.ctx.IpInfo.IpVerifyKey, ip.IpVerifyKey)
	assert.Equal(t, f.ctx.IpInfo.IpCdiVerifyKey.Bytes(), ip.IpCdiVerifyKey.Bytes())

	var ck CommitmentKey
	assert.Error(t, ck.UnmarshalText([]byte("00")))
}
