package ledger

import (
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"

	"github.com/tyler-smith/go-bip39"
)

// ErrInvalidMnemonic 表示助记词不满足 BIP-39 校验。
var ErrInvalidMnemonic = errors.New("invalid bip39 mnemonic")

// DefaultEntropyBits 对应 12 个助记词。
const DefaultEntropyBits = 128

// NewMnemonic 生成新的 BIP-39 助记词。
func NewMnemonic(entropyBits int) (string, error) {
	if entropyBits == 0 {
		entropyBits = DefaultEntropyBits
	}
	entropy, err := bip39.NewEntropy(entropyBits)
	if err != nil {
		return "", fmt.Errorf("generate entropy: %w", err)
	}
	mnemonic, err := bip39.NewMnemonic(entropy)
	if err != nil {
		return "", fmt.Errorf("encode mnemonic: %w", err)
	}
	return mnemonic, nil
}

// NormalizeMnemonic 压缩多余空白并转小写。
func NormalizeMnemonic(mnemonic string) string {
	return strings.Join(strings.Fields(strings.ToLower(mnemonic)), " ")
}

// KeypairFromMnemonic 与 solana-keygen 在无派生路径时一致：取 BIP-39 seed 前 32 字节作为 ed25519 seed。
func KeypairFromMnemonic(c Crypto, mnemonic, passphrase string) (Keypair, error) {
	normalized := NormalizeMnemonic(mnemonic)
	if !bip39.IsMnemonicValid(normalized) {
		return Keypair{}, ErrInvalidMnemonic
	}
	seed, err := bip39.NewSeedWithErrorChecking(normalized, passphrase)
	if err != nil {
		return Keypair{}, fmt.Errorf("%w: %v", ErrInvalidMnemonic, err)
	}
	return c.KeypairFromSeed(seed[:ed25519.SeedSize])
}
