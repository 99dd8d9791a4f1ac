// Package shortcode renders integers as fixed-length base-62 short codes.
package shortcode

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/cespare/xxhash/v2"
)

// Alphabet order defines digit values: '0' is zero, 'Z' is 61.
const Alphabet = "0123456789abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ"

const (
	base = uint64(len(Alphabet))

	DefaultLength = 7
	MinLength     = 4
	// MaxLength is the number of base-62 digits in math.MaxUint64.
	MaxLength = 11
)

var (
	ErrInvalidCharacter = errors.New("invalid character in short code")
	ErrEmptyCode        = errors.New("short code is empty")
	ErrCodeTooLong      = errors.New("short code is too long")
	ErrOverflow         = errors.New("short code exceeds uint64 range")
	ErrInvalidLength    = errors.New("short code length out of range")
)

var charValue [256]int8

func init() {
	for i := range charValue {
		charValue[i] = -1
	}
	for i := 0; i < len(Alphabet); i++ {
		charValue[Alphabet[i]] = int8(i)
	}
}

// Codec is immutable and safe for concurrent use.
type Codec struct {
	length int
	space  uint64 // 62^length, 0 when it does not fit in uint64
}

func NewCodec(length int) (*Codec, error) {
	if length < MinLength || length > MaxLength {
		return nil, fmt.Errorf("%w: %d not in [%d, %d]", ErrInvalidLength, length, MinLength, MaxLength)
	}

	space := uint64(1)
	for i := 0; i < length; i++ {
		if space > math.MaxUint64/base {
			space = 0
			break
		}
		space *= base
	}

	return &Codec{length: length, space: space}, nil
}

func (c *Codec) Length() int {
	return c.length
}

// MaxValue is the largest id that encodes to exactly Length symbols.
func (c *Codec) MaxValue() uint64 {
	if c.space == 0 {
		return math.MaxUint64
	}
	return c.space - 1
}

// Encode writes id in base 62 and left-pads it with '0' to Length. Ids above
// MaxValue come out longer than Length; they are never truncated.
func (c *Codec) Encode(id uint64) string {
	buf := make([]byte, 0, MaxLength)
	for id > 0 {
		buf = append(buf, Alphabet[id%base])
		id /= base
	}
	for len(buf) < c.length {
		buf = append(buf, Alphabet[0])
	}

	for i, j := 0, len(buf)-1; i < j; i, j = i+1, j-1 {
		buf[i], buf[j] = buf[j], buf[i]
	}
	return string(buf)
}

// Decode parses a base-62 code, most significant digit first.
func (c *Codec) Decode(code string) (uint64, error) {
	if code == "" {
		return 0, ErrEmptyCode
	}
	if len(code) > MaxLength {
		return 0, fmt.Errorf("%w: %d symbols, max %d", ErrCodeTooLong, len(code), MaxLength)
	}

	var result uint64
	for i := 0; i < len(code); i++ {
		v := charValue[code[i]]
		if v < 0 {
			return 0, fmt.Errorf("%w: %q at position %d", ErrInvalidCharacter, code[i], i)
		}
		if result > (math.MaxUint64-uint64(v))/base {
			return 0, ErrOverflow
		}
		result = result*base + uint64(v)
	}
	return result, nil
}

// Valid reports whether code is exactly Length alphabet symbols.
func (c *Codec) Valid(code string) bool {
	if len(code) != c.length {
		return false
	}
	for i := 0; i < len(code); i++ {
		if charValue[code[i]] < 0 {
			return false
		}
	}
	return true
}

var randomRange = big.NewInt(int64(len(Alphabet)))

// Random draws Length symbols uniformly from crypto/rand.
func (c *Codec) Random() (string, error) {
	b := make([]byte, c.length)
	for i := range b {
		n, err := rand.Int(rand.Reader, randomRange)
		if err != nil {
			return "", fmt.Errorf("failed to read random: %w", err)
		}
		b[i] = Alphabet[n.Int64()]
	}
	return string(b), nil
}

// Hash derives a code from the url. A positive salt changes the code, which is
// how callers move past a collision.
func (c *Codec) Hash(url string, salt int) string {
	d := xxhash.New()
	_, _ = d.WriteString(url)
	if salt > 0 {
		_, _ = d.WriteString("#")
		_, _ = d.WriteString(strconv.Itoa(salt))
	}

	sum := d.Sum64()
	if c.space != 0 {
		sum %= c.space
	}
	return c.Encode(sum)
}
