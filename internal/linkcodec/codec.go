// Package linkcodec turns a burner wallet's recovery phrase and nominal amount
// into a self-contained URL fragment, and back.
//
// Fragment layout before base64url (no padding):
//
//	version (1) | amount, lamports big-endian (8) | phrase UTF-8 (n) | checksum (4)
//
// The checksum is the first four bytes of SHA-256 over everything before it.
package linkcodec

import (
	"bytes"
	"crypto/sha256"
	"encoding/base64"
	"encoding/binary"
	"fmt"
	"net/url"
	"strings"
	"unicode/utf8"

	"github.com/AlexZinkM/paylink/internal/model"
)

const (
	version     byte = 0x01
	amountLen        = 8
	checksumLen      = 4
	headerLen        = 1 + amountLen
	minLen           = headerLen + 1 + checksumLen
)

var encoding = base64.RawURLEncoding

// Encode is deterministic and performs no I/O.
func Encode(mnemonic string, amount uint64) string {
	buf := make([]byte, 0, headerLen+len(mnemonic)+checksumLen)
	buf = append(buf, version)
	buf = binary.BigEndian.AppendUint64(buf, amount)
	buf = append(buf, mnemonic...)
	sum := sha256.Sum256(buf)
	buf = append(buf, sum[:checksumLen]...)

	out := encoding.EncodeToString(buf)
	clear(buf)
	return out
}

// Decode reverses Encode. A leading '#' is tolerated.
// Every failure is reported as model.ErrDecode and nothing is returned alongside it.
func Decode(fragment string) (string, uint64, error) {
	fragment = strings.TrimPrefix(strings.TrimSpace(fragment), "#")
	if fragment == "" {
		return "", 0, fmt.Errorf("empty fragment: %w", model.ErrDecode)
	}

	raw, err := encoding.DecodeString(fragment)
	if err != nil {
		return "", 0, fmt.Errorf("bad encoding: %w", model.ErrDecode)
	}
	defer clear(raw)

	if len(raw) < minLen {
		return "", 0, fmt.Errorf("fragment too short: %w", model.ErrDecode)
	}
	if raw[0] != version {
		return "", 0, fmt.Errorf("unsupported version %d: %w", raw[0], model.ErrDecode)
	}

	body, check := raw[:len(raw)-checksumLen], raw[len(raw)-checksumLen:]
	sum := sha256.Sum256(body)
	if !bytes.Equal(sum[:checksumLen], check) {
		return "", 0, fmt.Errorf("checksum mismatch: %w", model.ErrDecode)
	}

	phrase := body[headerLen:]
	if !utf8.Valid(phrase) {
		return "", 0, fmt.Errorf("phrase is not UTF-8: %w", model.ErrDecode)
	}

	amount := binary.BigEndian.Uint64(body[1:headerLen])
	return string(phrase), amount, nil
}

// BuildURL places fragment in the fragment part of baseURL so it never reaches a server log.
func BuildURL(baseURL, fragment string) (string, error) {
	u, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("failed to parse link base URL: %w", err)
	}
	u.Fragment = strings.TrimPrefix(fragment, "#")
	u.RawFragment = ""
	return u.String(), nil
}

// FragmentFromURL accepts a full link, "#fragment" or a bare fragment.
func FragmentFromURL(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", fmt.Errorf("empty link: %w", model.ErrDecode)
	}

	if i := strings.IndexByte(raw, '#'); i >= 0 {
		frag := raw[i+1:]
		if frag == "" {
			return "", fmt.Errorf("link has no fragment: %w", model.ErrDecode)
		}
		return frag, nil
	}

	if strings.Contains(raw, "://") {
		return "", fmt.Errorf("link has no fragment: %w", model.ErrDecode)
	}
	return raw, nil
}
