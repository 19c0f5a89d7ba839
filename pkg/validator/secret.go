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
	minSecretKeyLen = 80
	maxSecretKeyLen = 90
)

// ParseSecretKey 将 base58 编码的 64 字节私钥（seed + 公钥）还原为签名密钥。
//
// seed 推导出的公钥必须与后 32 字节一致，否则签出的签名无法被验证。
func ParseSecretKey(raw string) (solana.PrivateKey, error) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return nil, apierrors.InvalidSecretKey()
	}
	if len(s) < minSecretKeyLen || len(s) > maxSecretKeyLen {
		return nil, apierrors.InvalidSecretKey()
	}
	decoded, err := base58.Decode(s)
	if err != nil {
		return nil, apierrors.InvalidSecretKey()
	}
	if len(decoded) != ed25519.PrivateKeySize {
		return nil, apierrors.InvalidSecretKey()
	}
	derived := ed25519.NewKeyFromSeed(decoded[:ed25519.SeedSize])
	if subtle.ConstantTimeCompare(derived[ed25519.SeedSize:], decoded[ed25519.SeedSize:]) != 1 {
		return nil, apierrors.InvalidSecretKey()
	}
	return solana.PrivateKey(derived), nil
}
