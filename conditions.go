package timelock

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/iov-one/timelock/crypto/bech32"
	"github.com/iov-one/timelock/errors"
)

var (
	// AddressLength is the length of all addresses. It must never change
	// once data was written to the store.
	AddressLength = 20

	// AddressHRP is the human readable part of bech32 addresses.
	AddressHRP = "tlk"

	// The data section may contain any byte, including a newline, so the
	// expression is compiled with the (?s) flag.
	conditionFormat = regexp.MustCompile(`(?s)^([a-zA-Z0-9_\-]{3,8})/([a-zA-Z0-9_\-]{3,8})/(.+)$`)
)

// Condition describes who can authorize an action. It is the byte string
//
//	<extension>/<type>/<data>
//
// and it is never stored directly. Its Address is.
type Condition []byte

// NewCondition builds the condition of an extension.
func NewCondition(ext, typ string, data []byte) Condition {
	c := make(Condition, 0, len(ext)+len(typ)+len(data)+2)
	c = append(c, ext...)
	c = append(c, '/')
	c = append(c, typ...)
	c = append(c, '/')
	return append(c, data...)
}

// Parse splits a condition into its extension, type and data.
func (c Condition) Parse() (ext, typ string, data []byte, err error) {
	m := conditionFormat.FindSubmatch(c)
	if m == nil {
		return "", "", nil, errors.ErrInput.Newf("condition: %X", []byte(c))
	}
	return string(m[1]), string(m[2]), m[3], nil
}

// Address returns the address controlled by this condition.
func (c Condition) Address() Address {
	return NewAddress(c)
}

// Equals checks if two conditions are the same.
func (c Condition) Equals(b Condition) bool {
	return bytes.Equal(c, b)
}

// String keeps extension and type readable and hex encodes the data.
func (c Condition) String() string {
	ext, typ, data, err := c.Parse()
	if err != nil {
		return fmt.Sprintf("Invalid Condition: %X", []byte(c))
	}
	return fmt.Sprintf("%s/%s/%X", ext, typ, data)
}

// Validate returns an error if the condition is malformed.
func (c Condition) Validate() error {
	_, _, _, err := c.Parse()
	return err
}

func (c Condition) MarshalJSON() ([]byte, error) {
	if c == nil {
		return json.Marshal("")
	}
	return json.Marshal(c.String())
}

func (c *Condition) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	cond, err := parseCondition(enc)
	if err != nil {
		return err
	}
	*c = cond
	return nil
}

// parseCondition reads the String form of a condition. An empty string is
// a nil condition.
func parseCondition(s string) (Condition, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, "/")
	if len(parts) != 3 {
		return nil, errors.ErrInput.Newf("invalid condition format")
	}
	data, err := hex.DecodeString(parts[2])
	if err != nil {
		return nil, errors.ErrInput.Newf("malformed condition data: %s", err)
	}
	return NewCondition(parts[0], parts[1], data), nil
}

// Address is the truncated sha256 digest of a Condition. All addresses are
// AddressLength long.
type Address []byte

// NewAddress returns the address of the given condition bytes.
func NewAddress(data []byte) Address {
	if data == nil {
		return nil
	}
	sum := sha256.Sum256(data)
	return Address(sum[:AddressLength])
}

// Equals checks if two addresses are the same.
func (a Address) Equals(b Address) bool {
	return bytes.Equal(a, b)
}

// Validate returns an error if the address is not of the valid size.
func (a Address) Validate() error {
	if len(a) != AddressLength {
		return errors.ErrInput.Newf("address: %v", a)
	}
	return nil
}

// String returns the upper case hex form. See Bech32 for the alternative.
func (a Address) String() string {
	if len(a) == 0 {
		return "(nil)"
	}
	return strings.ToUpper(hex.EncodeToString(a))
}

// Bech32 renders the address with AddressHRP as the human readable part.
func (a Address) Bech32() (string, error) {
	return bech32.Encode(AddressHRP, a)
}

// MarshalJSON uses the hex form instead of the base64 default of []byte.
func (a Address) MarshalJSON() ([]byte, error) {
	return json.Marshal(strings.ToUpper(hex.EncodeToString(a)))
}

func (a *Address) UnmarshalJSON(raw []byte) error {
	var enc string
	if err := json.Unmarshal(raw, &enc); err != nil {
		return errors.Wrap(err, "cannot decode json")
	}
	addr, err := ParseAddress(enc)
	if err != nil {
		return err
	}
	*a = addr
	return nil
}

// ParseAddress decodes an address from its human readable form. A prefix
// selects the format ("hex:", "cond:" or "bech32:"), hex is the default. An
// empty value decodes into a nil address.
func ParseAddress(enc string) (Address, error) {
	format, value := "hex", enc
	if i := strings.IndexByte(enc, ':'); i >= 0 {
		format, value = enc[:i], enc[i+1:]
	}
	if value == "" {
		return nil, nil
	}

	var addr Address
	switch format {
	case "hex":
		raw, err := hex.DecodeString(value)
		if err != nil {
			return nil, errors.Wrap(errors.ErrInput, "cannot decode hex")
		}
		addr = raw
	case "cond":
		c, err := parseCondition(value)
		if err != nil {
			return nil, err
		}
		if err := c.Validate(); err != nil {
			return nil, err
		}
		addr = c.Address()
	case "bech32":
		_, raw, err := bech32.Decode(value)
		if err != nil {
			return nil, errors.Wrap(err, "deserialize bech32")
		}
		addr = raw
	default:
		return nil, errors.ErrType.Newf("unknown format %q", format)
	}
	if err := addr.Validate(); err != nil {
		return nil, err
	}
	return addr, nil
}
