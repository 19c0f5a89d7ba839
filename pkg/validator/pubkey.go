package validator

import (
	"crypto/ed25519"
	"crypto/subtle"
	"strings"

	"github.com/aegis-sign/ledger-facade/pkg/apierrors"
	"github.com/gagliardetto/solana-go"
	"github.com/mr-tron/base58"
)

const (
	minPublicKeyLen = 32
	maxPublicKeyLen = 50
)

// ambiguousGlyphs 不在 base58 字母表内，提前拒绝。
const ambiguousGlyphs = "0OIl"

var zeroPublicKey solana.PublicKey

// ParsePublicKey 将 base58 字符串解析为 32 字节公钥。
//
// 全零公钥是协议保留的默认值，视为非法。所有入口共用同一套规则。
func ParsePublicKey(raw string) (solana.PublicKey, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return solana.PublicKey{}, apierrors.InvalidPublicKey()
	}
	if len(s) < minPublicKeyLen || len(s) > maxPublicKeyLen {
		return solana.PublicKey{}, apierrors.InvalidPublicKey()
	}
	if strings.ContainsAny(s, ambiguousGlyphs) {
		return solana.PublicKey{}, apierrors.InvalidPublicKey()
	}
	decoded, err := base58.Decode(s)
	if err != nil || len(decoded) != ed25519.PublicKeySize {
		return solana.PublicKey{}, apierrors.InvalidPublicKey()
	}
	pk := solana.PublicKeyFromBytes(decoded)
	if IsZeroPublicKey(pk) {
		return solana.PublicKey{}, apierrors.InvalidPublicKey()
	}
	return pk, nil
}

// IsZeroPublicKey 以常量时间比较判断是否为全零公钥。
func IsZeroPublicKey(pk solana.PublicKey) bool {
	return subtle.ConstantTimeCompare(pk[:], zeroPublicKey[:]) == 1
}
