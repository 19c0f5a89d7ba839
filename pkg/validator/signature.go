package validator

import (
	"crypto/ed25519"
	"encoding/base64"
	"strings"

	"github.com/aegis-sign/ledger-facade/pkg/apierrors"
	"github.com/gagliardetto/solana-go"
)

// MaxMessageBytes 限制签名/验签消息大小，防止超大请求占用 CPU。
const MaxMessageBytes = 1_000_000

// ValidateMessage 校验消息字节长度。
func ValidateMessage(message string) error {
	if len(message) > MaxMessageBytes {
		return apierrors.MessageTooLong()
	}
	return nil
}

// DecodeSignature 将标准 base64 签名解码并验证长度为 64 字节。
func DecodeSignature(raw string) (solana.Signature, error) {
	// encoding/base64 会跳过换行符，这里按严格格式处理。
	if strings.ContainsAny(raw, "\r\n") {
		return solana.Signature{}, apierrors.InvalidSignatureEncoding()
	}
	decoded, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return solana.Signature{}, apierrors.InvalidSignatureEncoding()
	}
	if len(decoded) != ed25519.SignatureSize {
		return solana.Signature{}, apierrors.InvalidSignatureLength()
	}
	var sig solana.Signature
	copy(sig[:], decoded)
	return sig, nil
}

// EncodeSignature 返回签名的标准 base64 文本。
func EncodeSignature(sig solana.Signature) string {
	return base64.StdEncoding.EncodeToString(sig[:])
}
