// Package coin implements the fixed point value kept by the custody pool.
// A value is a whole part and a fractional part counted in billionths,
// tagged with a currency ticker.
package coin

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"

	"github.com/bhau7233/MSig/errors"
)

const (
	// MaxInt is the largest whole value accepted.
	MaxInt int64 = 999999999999999 // 10^15-1
	// MinInt is the lowest whole value accepted.
	MinInt = -MaxInt

	// FracUnit is the number of fractional units in a single whole unit.
	FracUnit int64 = 1000000000 // 10^9
	// MaxFrac is the highest fractional value of a normalized coin.
	MaxFrac = FracUnit - 1
	// MinFrac is the lowest fractional value of a normalized coin.
	MinFrac = -MaxFrac
)

// IsCC returns true if given string is a valid currency code.
var IsCC = regexp.MustCompile(`^[A-Z]{3,4}$`).MatchString

// Coin is an amount of a single currency.
type Coin struct {
	Whole      int64  `json:"whole"`
	Fractional int64  `json:"fractional"`
	Ticker     string `json:"ticker"`
}

// NewCoin returns a coin of given value.
func NewCoin(whole, fractional int64, ticker string) Coin {
	return Coin{Whole: whole, Fractional: fractional, Ticker: ticker}
}

// NewCoinp is NewCoin returning a pointer.
func NewCoinp(whole, fractional int64, ticker string) *Coin {
	c := NewCoin(whole, fractional, ticker)
	return &c
}

// Add returns the sum of both coins. Coins of different currencies cannot
// be added. A zero value without a ticker is neutral.
func (c Coin) Add(o Coin) (Coin, error) {
	if c.Ticker == "" && c.IsZero() {
		return o, nil
	}
	if o.Ticker == "" && o.IsZero() {
		return c, nil
	}
	if !c.SameType(o) {
		return Coin{}, errors.Wrapf(errors.ErrCurrency, "cannot add %s to %s", o.Ticker, c.Ticker)
	}
	return Coin{
		Ticker:     c.Ticker,
		Whole:      c.Whole + o.Whole,
		Fractional: c.Fractional + o.Fractional,
	}.normalize()
}

// Subtract returns c minus amount.
func (c Coin) Subtract(amount Coin) (Coin, error) {
	return c.Add(amount.Negative())
}

// Negative returns the value with the opposite sign.
func (c Coin) Negative() Coin {
	return Coin{Ticker: c.Ticker, Whole: -c.Whole, Fractional: -c.Fractional}
}

// Compare returns 1 if c is greater than o, -1 if it is lower and 0 if
// both values are equal. Tickers are not compared and both coins are
// expected to be normalized.
func (c Coin) Compare(o Coin) int {
	switch {
	case c.Whole > o.Whole:
		return 1
	case c.Whole < o.Whole:
		return -1
	case c.Fractional > o.Fractional:
		return 1
	case c.Fractional < o.Fractional:
		return -1
	default:
		return 0
	}
}

// IsGTE returns true if c is of the same currency as o and holds at least
// the same value.
func (c Coin) IsGTE(o Coin) bool {
	return c.SameType(o) && c.Compare(o) >= 0
}

// Equals returns true if both coins are identical.
func (c Coin) Equals(o Coin) bool {
	return c == o
}

// IsZero returns true if the coin holds no value.
func (c Coin) IsZero() bool {
	return c.Whole == 0 && c.Fractional == 0
}

// IsPositive returns true if the value is greater than zero.
func (c Coin) IsPositive() bool {
	return c.Whole > 0 || (c.Whole == 0 && c.Fractional > 0)
}

// IsNonNegative returns true if the value is zero or greater.
func (c Coin) IsNonNegative() bool {
	return c.Whole >= 0 && c.Fractional >= 0
}

// SameType returns true if both coins are of the same currency.
func (c Coin) SameType(o Coin) bool {
	return c.Ticker == o.Ticker
}

// Validate returns an error if the coin is out of the supported range or
// the ticker is not a currency code. Negative values are valid.
func (c Coin) Validate() error {
	var err error
	if !IsCC(c.Ticker) {
		err = errors.AppendField(err, "Ticker", errors.Wrapf(errors.ErrCurrency, "invalid currency %q", c.Ticker))
	}
	if c.Whole < MinInt || c.Whole > MaxInt {
		err = errors.AppendField(err, "Whole", errors.ErrOverflow)
	}
	if c.Fractional < MinFrac || c.Fractional > MaxFrac {
		err = errors.AppendField(err, "Fractional", errors.ErrOverflow)
	}
	if c.Whole != 0 && c.Fractional != 0 && (c.Whole > 0) != (c.Fractional > 0) {
		err = errors.AppendField(err, "Fractional", errors.Wrap(errors.ErrState, "mismatched sign"))
	}
	return err
}

// normalize moves overflowing fractional units into the whole part and
// aligns the signs of both parts.
func (c Coin) normalize() (Coin, error) {
	c.Whole += c.Fractional / FracUnit
	c.Fractional %= FracUnit

	switch {
	case c.Whole > 0 && c.Fractional < 0:
		c.Whole--
		c.Fractional += FracUnit
	case c.Whole < 0 && c.Fractional > 0:
		c.Whole++
		c.Fractional -= FracUnit
	}

	if c.Whole < MinInt || c.Whole > MaxInt {
		return Coin{}, errors.Wrap(errors.ErrOverflow, "whole")
	}
	return c, nil
}

// String returns the human readable format of the coin, for example
// "12.5 IOV". For a valid coin the result can be parsed back with
// ParseHumanFormat.
func (c Coin) String() string {
	if n, err := c.normalize(); err == nil {
		c = n
	}

	var b strings.Builder
	if c.Whole == 0 && c.Fractional < 0 {
		b.WriteByte('-')
	}
	b.WriteString(strconv.FormatInt(c.Whole, 10))
	if f := c.Fractional; f != 0 {
		if f < 0 {
			f = -f
		}
		s := strconv.FormatInt(f, 10)
		s = strings.Repeat("0", 9-len(s)) + s
		b.WriteByte('.')
		b.WriteString(strings.TrimRight(s, "0"))
	}
	if c.Ticker != "" {
		b.WriteByte(' ')
		b.WriteString(c.Ticker)
	}
	return b.String()
}

var humanFormatRx = regexp.MustCompile(`^(-?)\s*(\d+)(?:\.(\d{1,9}))?\s*([A-Z]{3,4})$`)

// ParseHumanFormat parses a coin written as "<whole>[.<fractional>] <ticker>".
func ParseHumanFormat(h string) (Coin, error) {
	m := humanFormatRx.FindStringSubmatch(strings.TrimSpace(h))
	if m == nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid coin format %q", h)
	}
	whole, err := strconv.ParseInt(m[2], 10, 64)
	if err != nil {
		return Coin{}, errors.Wrapf(errors.ErrInput, "invalid whole value %q", m[2])
	}
	var frac int64
	if m[3] != "" {
		// Right pad to billionths so that ".5" becomes 500000000.
		frac, err = strconv.ParseInt(m[3]+strings.Repeat("0", 9-len(m[3])), 10, 64)
		if err != nil {
			return Coin{}, errors.Wrapf(errors.ErrInput, "invalid fractional value %q", m[3])
		}
	}
	if m[1] == "-" {
		whole, frac = -whole, -frac
	}
	c := Coin{Whole: whole, Fractional: frac, Ticker: m[4]}
	if err := c.Validate(); err != nil {
		return Coin{}, err
	}
	return c, nil
}

// UnmarshalJSON accepts both the human readable string format and the
// object format.
func (c *Coin) UnmarshalJSON(raw []byte) error {
	var human string
	if err := json.Unmarshal(raw, &human); err == nil {
		parsed, err := ParseHumanFormat(human)
		if err != nil {
			return err
		}
		*c = parsed
		return nil
	}

	// Alias type to not recurse into this method.
	type coin Coin
	var obj coin
	if err := json.Unmarshal(raw, &obj); err != nil {
		return errors.Wrap(errors.ErrInput, err.Error())
	}
	*c = Coin(obj)
	return nil
}

// Set implements the pflag.Value interface so that a coin can be given as
// a command line flag.
func (c *Coin) Set(raw string) error {
	val, err := ParseHumanFormat(raw)
	if err != nil {
		return err
	}
	*c = val
	return nil
}

// Type implements the pflag.Value interface.
func (c *Coin) Type() string {
	return "coin"
}
