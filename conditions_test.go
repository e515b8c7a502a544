package timelock_test

import (
	"encoding/json"
	"fmt"
	"reflect"
	"testing"

	"github.com/iov-one/timelock"
	"github.com/iov-one/timelock/errors"
	. "github.com/smartystreets/goconvey/convey"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddressPrinting(t *testing.T) {
	Convey("test hexademical address printing", t, func() {
		b := []byte("ABCD123456LHB")
		addr := timelock.Address(b)

		So(addr.String(), ShouldNotEqual, fmt.Sprintf("%X", addr))
	})

	Convey("test hexademical condition printing", t, func() {
		cond := timelock.NewCondition("12", "32", []byte("ABCD123456LHB"))

		So(cond.String(), ShouldNotEqual, fmt.Sprintf("%X", cond))
	})

	Convey("test nil address printing", t, func() {
		So(timelock.Address(nil).String(), ShouldEqual, "(nil)")
	})
}

func TestConditionAddressIsDeterministic(t *testing.T) {
	Convey("the same condition always maps to the same address", t, func() {
		a := timelock.NewCondition("sigs", "ed25519", []byte("pubkey")).Address()
		b := timelock.NewCondition("sigs", "ed25519", []byte("pubkey")).Address()
		So(a.Equals(b), ShouldBeTrue)
		So(len(a), ShouldEqual, timelock.AddressLength)
		So(a.Validate(), ShouldBeNil)
	})

	Convey("different extensions never collide", t, func() {
		a := timelock.NewCondition("sigs", "ed25519", []byte("data")).Address()
		b := timelock.NewCondition("escrow", "ed25519", []byte("data")).Address()
		So(a.Equals(b), ShouldBeFalse)
	})
}

func TestAddressUnmarshalJSON(t *testing.T) {
	addr := timelock.NewCondition("foo", "bar", []byte("conditiondata")).Address()
	bech, err := addr.Bech32()
	require.NoError(t, err)

	cases := map[string]struct {
		json     string
		wantErr  *errors.Error
		wantAddr timelock.Address
	}{
		"default decoding": {
			json:     fmt.Sprintf(`"%s"`, addr),
			wantAddr: addr,
		},
		"hex decoding": {
			json:     fmt.Sprintf(`"hex:%s"`, addr),
			wantAddr: addr,
		},
		"cond decoding": {
			json:     `"cond:foo/bar/636f6e646974696f6e64617461"`,
			wantAddr: addr,
		},
		"bech32 decoding": {
			json:     fmt.Sprintf(`"bech32:%s"`, bech),
			wantAddr: addr,
		},
		"too short hex": {
			json:    `"6865782d61646472"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition format": {
			json:    `"cond:foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition data": {
			json:    `"cond:foo/bar/zzzzz"`,
			wantErr: errors.ErrInput,
		},
		"invalid bech32": {
			json:    `"bech32:nope"`,
			wantErr: errors.ErrInput,
		},
		"unknown format": {
			json:    `"foobar:xxx"`,
			wantErr: errors.ErrType,
		},
		"zero address": {
			json:     `""`,
			wantAddr: nil,
		},
		"zero hex address": {
			json:     `"hex:"`,
			wantAddr: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var a timelock.Address
			err := json.Unmarshal([]byte(tc.json), &a)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && !reflect.DeepEqual(a, tc.wantAddr) {
				t.Fatalf("got address: %q", a)
			}
		})
	}
}

func TestAddressBech32RoundTrip(t *testing.T) {
	addr := timelock.NewCondition("sigs", "ed25519", []byte("someone")).Address()
	enc, err := addr.Bech32()
	require.NoError(t, err)
	assert.Contains(t, enc, timelock.AddressHRP+"1")

	got, err := timelock.ParseAddress("bech32:" + enc)
	require.NoError(t, err)
	assert.Equal(t, addr, got)
}

func TestConditionUnmarshalJSON(t *testing.T) {
	cases := map[string]struct {
		json          string
		wantErr       *errors.Error
		wantCondition timelock.Condition
	}{
		"default decoding": {
			json:          `"foo/bar/636f6e646974696f6e64617461"`,
			wantCondition: timelock.NewCondition("foo", "bar", []byte("conditiondata")),
		},
		"invalid condition format": {
			json:    `"foo/636f6e646974696f6e64617461"`,
			wantErr: errors.ErrInput,
		},
		"invalid condition data": {
			json:    `"foo/bar/zzzzz"`,
			wantErr: errors.ErrInput,
		},
		"zero address": {
			json:          `""`,
			wantCondition: nil,
		},
	}

	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			var got timelock.Condition
			err := json.Unmarshal([]byte(tc.json), &got)
			if !tc.wantErr.Is(err) {
				t.Fatalf("got error: %+v", err)
			}
			if err == nil && !got.Equals(tc.wantCondition) {
				t.Fatalf("expected %q but got condition: %q", tc.wantCondition, got)
			}
		})
	}
}

func TestConditionMarshalJSON(t *testing.T) {
	cases := map[string]struct {
		source   timelock.Condition
		wantJson string
	}{
		"cond encoding": {
			source:   timelock.NewCondition("foo", "bar", []byte("conditiondata")),
			wantJson: `"foo/bar/636F6E646974696F6E64617461"`,
		},
		"nil encoding": {
			source:   nil,
			wantJson: `""`,
		},
	}
	for testName, tc := range cases {
		t.Run(testName, func(t *testing.T) {
			got, err := json.Marshal(tc.source)
			require.NoError(t, err)
			assert.Equal(t, tc.wantJson, string(got))
		})
	}
}
