package model

import (
	"encoding/json"
	"reflect"
	"testing"

	"github.com/holiman/uint256"
)

func TestAttributesTraitsFollowFieldTags(t *testing.T) {
	attrs := Attributes{BgColor: "red", FrameColor: "blue", CircleColor: "gold"}

	// every json field of Attributes must appear exactly once, in declaration order
	typ := reflect.TypeOf(attrs)
	traits := attrs.Traits()
	if len(traits) != typ.NumField() {
		t.Fatalf("expected %d traits, got %d", typ.NumField(), len(traits))
	}
	val := reflect.ValueOf(attrs)
	for i := 0; i < typ.NumField(); i++ {
		tag := typ.Field(i).Tag.Get("json")
		if traits[i].TraitType != tag {
			t.Fatalf("trait %d type %q, want %q", i, traits[i].TraitType, tag)
		}
		if traits[i].Value != val.Field(i).String() {
			t.Fatalf("trait %d value %q, want %q", i, traits[i].Value, val.Field(i).String())
		}
	}

	data, err := json.Marshal(traits)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	want := `[{"trait_type":"bg_color","value":"red"},{"trait_type":"frame_color","value":"blue"},{"trait_type":"circle_color","value":"gold"}]`
	if string(data) != want {
		t.Fatalf("traits json %s, want %s", data, want)
	}
}

func TestAssetKeys(t *testing.T) {
	id := uint256.NewInt(42)
	got := AssetKeys(*id)
	want := []string{"42", "42.svg", "42.png"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("keys %v, want %v", got, want)
	}

	big, err := uint256.FromHex("0xffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffffff")
	if err != nil {
		t.Fatalf("from hex: %v", err)
	}
	if got := FormatTokenID(*big); got != "115792089237316195423570985008687907853269984665640564039457584007913129639935" {
		t.Fatalf("max token id formatted as %s", got)
	}
}

func TestEventTokenID(t *testing.T) {
	mint := NewMintEvent(MintEvent{TokenID: *uint256.NewInt(7)})
	if mint.Kind != EventMint || mint.MetadataUpdate != nil {
		t.Fatalf("unexpected mint variant: %+v", mint)
	}
	if id := mint.TokenID(); id.Uint64() != 7 {
		t.Fatalf("mint token id %d", id.Uint64())
	}

	update := NewMetadataUpdateEvent(MetadataUpdateEvent{TokenID: *uint256.NewInt(9)})
	if update.Kind != EventMetadataUpdate || update.Mint != nil {
		t.Fatalf("unexpected update variant: %+v", update)
	}
	if id := update.TokenID(); id.Uint64() != 9 {
		t.Fatalf("update token id %d", id.Uint64())
	}
	if update.Kind.String() != "metadata_update" {
		t.Fatalf("kind string %s", update.Kind.String())
	}
}

func TestAssetHeaderLookup(t *testing.T) {
	asset := Asset{Headers: []Header{{Name: "Content-Type", Value: "image/png"}}}
	if got := asset.Header("content-type"); got != "image/png" {
		t.Fatalf("header %q", got)
	}
	if got := asset.Header("Cache-Control"); got != "" {
		t.Fatalf("unexpected header %q", got)
	}
}
