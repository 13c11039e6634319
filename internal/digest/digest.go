// Package digest calcula o hash com salt de um valor.
package digest

import (
	"crypto/md5"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"hash"
	"strings"
)

// Algorithm é um dos algoritmos de hash suportados.
type Algorithm int

const (
	Unsupported Algorithm = iota
	MD5
	SHA1
	SHA256
	SHA512
)

var names = map[Algorithm]string{
	MD5:    "md5",
	SHA1:   "sha1",
	SHA256: "sha256",
	SHA512: "sha512",
}

var hashers = map[Algorithm]func() hash.Hash{
	MD5:    md5.New,
	SHA1:   sha1.New,
	SHA256: sha256.New,
	SHA512: sha512.New,
}

// ParseAlgorithm converte o nome (sem diferenciar maiúsculas) em Algorithm.
// Nomes desconhecidos retornam Unsupported.
func ParseAlgorithm(name string) Algorithm {
	name = strings.ToLower(name)
	for alg, n := range names {
		if n == name {
			return alg
		}
	}
	return Unsupported
}

func (a Algorithm) String() string {
	if n, ok := names[a]; ok {
		return n
	}
	return "unsupported"
}

// Supported retorna os nomes aceitos, para mensagens de ajuda.
func Supported() []string {
	return []string{"md5", "sha1", "sha256", "sha512"}
}

// Sum retorna o hash hexadecimal de value+salt. O segundo retorno é false
// quando o algoritmo não é suportado.
func Sum(value, algorithm, salt string) (string, bool) {
	newHash, ok := hashers[ParseAlgorithm(algorithm)]
	if !ok {
		return "", false
	}

	h := newHash()
	h.Write([]byte(value + salt))
	return hex.EncodeToString(h.Sum(nil)), true
}

// Evaluate é a versão por linha de Sum: qualquer argumento ausente (nil) ou
// algoritmo desconhecido resulta em nil.
func Evaluate(value, algorithm, salt *string) *string {
	if value == nil || algorithm == nil || salt == nil {
		return nil
	}

	sum, ok := Sum(*value, *algorithm, *salt)
	if !ok {
		return nil
	}
	return &sum
}
