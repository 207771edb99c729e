// Package keychain stores the atlas login token in the OS credential
// store so that `seshat login` can run without a --token flag once the
// token has been saved.
package keychain

import (
	"errors"

	"github.com/99designs/keyring"
)

// ServiceName identifies our credential store namespace.
const ServiceName = "seshat"

const tokenKey = "atlas_token"

// ErrNoToken is returned when no token has been stored yet.
var ErrNoToken = errors.New("no atlas token stored; run login with --token")

func open() (keyring.Keyring, error) {
	return keyring.Open(keyring.Config{ServiceName: ServiceName})
}

// SaveToken stores the atlas token.
func SaveToken(token string) error {
	ring, err := open()
	if err != nil {
		return err
	}
	return ring.Set(keyring.Item{Key: tokenKey, Data: []byte(token)})
}

// Token returns the stored atlas token.
func Token() (string, error) {
	ring, err := open()
	if err != nil {
		return "", err
	}
	item, err := ring.Get(tokenKey)
	if err != nil {
		if errors.Is(err, keyring.ErrKeyNotFound) {
			return "", ErrNoToken
		}
		return "", err
	}
	return string(item.Data), nil
}

// ClearToken removes the stored atlas token. A missing token is not an
// error.
func ClearToken() error {
	ring, err := open()
	if err != nil {
		return err
	}
	if err := ring.Remove(tokenKey); err != nil && !errors.Is(err, keyring.ErrKeyNotFound) {
		return err
	}
	return nil
}
