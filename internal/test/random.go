package test

import "math/rand/v2"

const tokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_"

// RandomToken returns prefix followed by n opaque token characters.
func RandomToken(prefix string, n int) string {
	if n <= 0 {
		n = 1
	}
	buf := make([]byte, n)
	for i := range buf {
		buf[i] = tokenAlphabet[rand.IntN(len(tokenAlphabet))]
	}
	return prefix + string(buf)
}

// RandomPair returns a token pair with distinct random values.
func RandomPair() (access, refresh string) {
	return RandomToken("at-", 32), RandomToken("rt-", 32)
}
