package service

import (
	"crypto/rand"
	"crypto/sha1"
	"crypto/sha256"
	"crypto/sha512"
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"
	"hash"
	"math/big"
	"strconv"
	"strings"

	"golang.org/x/crypto/bcrypt"
	"golang.org/x/crypto/pbkdf2"
	"golang.org/x/crypto/scrypt"
)

const (
	// DefaultPasswordIterations 与 werkzeug 当前的 pbkdf2 默认值一致
	DefaultPasswordIterations = 600000

	passwordSaltLength = 16
	passwordSaltChars  = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

var errMalformedHash = errors.New("malformed password hash")

// PasswordHasher produces werkzeug compatible hashes of the form
// pbkdf2:sha256:<iterations>$<salt>$<hex digest>, so accounts created by the
// Flask version of the blog keep working.
type PasswordHasher struct {
	Iterations int
}

// Hash 生成带随机盐的密码哈希
func (h PasswordHasher) Hash(password string) (string, error) {
	iterations := h.Iterations
	if iterations <= 0 {
		iterations = DefaultPasswordIterations
	}

	salt, err := randomSalt(passwordSaltLength)
	if err != nil {
		return "", err
	}

	digest := pbkdf2.Key([]byte(password), []byte(salt), iterations, sha256.Size, sha256.New)
	return fmt.Sprintf("pbkdf2:sha256:%d$%s$%s", iterations, salt, hex.EncodeToString(digest)), nil
}

// Check compares password against an encoded hash. Besides the pbkdf2 format
// it accepts werkzeug scrypt hashes and bcrypt hashes.
func (h PasswordHasher) Check(encoded, password string) bool {
	if strings.HasPrefix(encoded, "$2") {
		return bcrypt.CompareHashAndPassword([]byte(encoded), []byte(password)) == nil
	}

	method, salt, expected, ok := splitEncodedHash(encoded)
	if !ok {
		return false
	}

	actual, err := deriveWerkzeugHash(method, salt, password)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(actual), []byte(expected)) == 1
}

func splitEncodedHash(encoded string) (method, salt, digest string, ok bool) {
	parts := strings.SplitN(encoded, "$", 3)
	if len(parts) != 3 || parts[0] == "" || parts[2] == "" {
		return "", "", "", false
	}
	return parts[0], parts[1], parts[2], true
}

func deriveWerkzeugHash(method, salt, password string) (string, error) {
	fields := strings.Split(method, ":")
	switch fields[0] {
	case "pbkdf2":
		hashName := "sha256"
		iterations := DefaultPasswordIterations
		if len(fields) > 1 && fields[1] != "" {
			hashName = fields[1]
		}
		if len(fields) > 2 {
			parsed, err := strconv.Atoi(fields[2])
			if err != nil || parsed <= 0 {
				return "", errMalformedHash
			}
			iterations = parsed
		}

		newHash, size, err := hashByName(hashName)
		if err != nil {
			return "", err
		}
		return hex.EncodeToString(pbkdf2.Key([]byte(password), []byte(salt), iterations, size, newHash)), nil

	case "scrypt":
		n, r, p := 1<<15, 8, 1
		if len(fields) == 4 {
			var err error
			if n, err = strconv.Atoi(fields[1]); err != nil {
				return "", errMalformedHash
			}
			if r, err = strconv.Atoi(fields[2]); err != nil {
				return "", errMalformedHash
			}
			if p, err = strconv.Atoi(fields[3]); err != nil {
				return "", errMalformedHash
			}
		}
		key, err := scrypt.Key([]byte(password), []byte(salt), n, r, p, 64)
		if err != nil {
			return "", err
		}
		return hex.EncodeToString(key), nil
	}

	return "", fmt.Errorf("unsupported hash method %q", method)
}

func hashByName(name string) (func() hash.Hash, int, error) {
	switch name {
	case "sha256":
		return sha256.New, sha256.Size, nil
	case "sha512":
		return sha512.New, sha512.Size, nil
	case "sha1":
		return sha1.New, sha1.Size, nil
	}
	return nil, 0, fmt.Errorf("unsupported hash %q", name)
}

func randomSalt(length int) (string, error) {
	limit := big.NewInt(int64(len(passwordSaltChars)))
	var b strings.Builder
	b.Grow(length)
	for i := 0; i < length; i++ {
		n, err := rand.Int(rand.Reader, limit)
		if err != nil {
			return "", fmt.Errorf("generate salt: %w", err)
		}
		b.WriteByte(passwordSaltChars[n.Int64()])
	}
	return b.String(), nil
}
