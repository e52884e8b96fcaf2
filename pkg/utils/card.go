package utils

import (
	"errors"

	"github.com/pobyzaarif/goshortcute"
)

// CardCipher encrypts card numbers at rest with AES-CBC.
type CardCipher struct {
	key []byte
}

func NewCardCipher(key string) *CardCipher {
	return &CardCipher{key: []byte(key)}
}

func (c *CardCipher) Encrypt(plain string) (string, error) {
	if plain == "" {
		return "", errors.New("empty card number")
	}

	encrypted, err := goshortcute.AESCBCEncrypt([]byte(plain), c.key)
	if err != nil {
		return "", err
	}

	return goshortcute.StringtoBase64Encode(encrypted), nil
}

func (c *CardCipher) Decrypt(encoded string) (string, error) {
	decoded := goshortcute.StringtoBase64Decode(encoded)
	return goshortcute.AESCBCDecrypt([]byte(decoded), c.key)
}

// MaskCardNumber keeps only the last four digits visible.
func MaskCardNumber(last4 string) string {
	return "**** **** **** " + last4
}

// LastFour returns the trailing four characters of a card number.
func LastFour(number string) string {
	if len(number) <= 4 {
		return number
	}
	return number[len(number)-4:]
}
