package ledger

import (
	"crypto/ed25519"
	"fmt"

	"github.com/gagliardetto/solana-go"
	"github.com/gagliardetto/solana-go/programs/system"
	"github.com/gagliardetto/solana-go/programs/token"
)

// SolanaCrypto 基于 solana-go 的 ed25519 实现。
type SolanaCrypto struct{}

// NewSolanaCrypto 返回默认 Crypto 实现。
func NewSolanaCrypto() SolanaCrypto { return SolanaCrypto{} }

func (SolanaCrypto) NewKeypair() (Keypair, error) {
	key, err := solana.NewRandomPrivateKey()
	if err != nil {
		return Keypair{}, fmt.Errorf("generate keypair: %w", err)
	}
	return Keypair{PublicKey: key.PublicKey(), PrivateKey: key}, nil
}

func (SolanaCrypto) KeypairFromSeed(seed []byte) (Keypair, error) {
	if len(seed) != ed25519.SeedSize {
		return Keypair{}, fmt.Errorf("seed must be %d bytes, got %d", ed25519.SeedSize, len(seed))
	}
	key := solana.PrivateKey(ed25519.NewKeyFromSeed(seed))
	return Keypair{PublicKey: key.PublicKey(), PrivateKey: key}, nil
}

func (SolanaCrypto) Sign(key solana.PrivateKey, message []byte) (solana.Signature, error) {
	if len(key) != ed25519.PrivateKeySize {
		return solana.Signature{}, fmt.Errorf("private key must be %d bytes", ed25519.PrivateKeySize)
	}
	return key.Sign(message)
}

func (SolanaCrypto) Verify(pub solana.PublicKey, message []byte, sig solana.Signature) bool {
	return sig.Verify(pub, message)
}

// SolanaPrograms 通过 solana-go 的程序绑定构造指令字节。
type SolanaPrograms struct{}

// NewSolanaPrograms 返回默认 Programs 实现。
func NewSolanaPrograms() SolanaPrograms { return SolanaPrograms{} }

func (SolanaPrograms) InitializeMint(mint, mintAuthority, freezeAuthority solana.PublicKey, decimals uint8) (Instruction, error) {
	ix, err := token.NewInitializeMintInstruction(
		decimals,
		mintAuthority,
		freezeAuthority,
		mint,
		solana.SysVarRentPubkey,
	).ValidateAndBuild()
	if err != nil {
		return Instruction{}, fmt.Errorf("initialize mint: %w", err)
	}
	return fromSolana(ix)
}

func (SolanaPrograms) MintTo(mint, destination, authority solana.PublicKey, amount uint64) (Instruction, error) {
	ix, err := token.NewMintToInstruction(amount, mint, destination, authority, nil).ValidateAndBuild()
	if err != nil {
		return Instruction{}, fmt.Errorf("mint to: %w", err)
	}
	return fromSolana(ix)
}

func (SolanaPrograms) SystemTransfer(from, to solana.PublicKey, lamports uint64) (Instruction, error) {
	ix, err := system.NewTransferInstruction(lamports, from, to).ValidateAndBuild()
	if err != nil {
		return Instruction{}, fmt.Errorf("system transfer: %w", err)
	}
	return fromSolana(ix)
}

func (SolanaPrograms) TokenTransfer(source, destination, owner solana.PublicKey, amount uint64) (Instruction, error) {
	ix, err := token.NewTransferInstruction(amount, source, destination, owner, nil).ValidateAndBuild()
	if err != nil {
		return Instruction{}, fmt.Errorf("token transfer: %w", err)
	}
	return fromSolana(ix)
}

// AssociatedTokenAddress 对 (wallet, mint) 做确定性推导。
func (SolanaPrograms) AssociatedTokenAddress(wallet, mint solana.PublicKey) (solana.PublicKey, error) {
	addr, _, err := solana.FindAssociatedTokenAddress(wallet, mint)
	if err != nil {
		return solana.PublicKey{}, fmt.Errorf("derive associated token address: %w", err)
	}
	return addr, nil
}

func fromSolana(ix solana.Instruction) (Instruction, error) {
	data, err := ix.Data()
	if err != nil {
		return Instruction{}, fmt.Errorf("encode instruction data: %w", err)
	}
	metas := ix.Accounts()
	accounts := make([]AccountMeta, 0, len(metas))
	for _, meta := range metas {
		if meta == nil {
			continue
		}
		accounts = append(accounts, AccountMeta{
			PublicKey:  meta.PublicKey,
			IsSigner:   meta.IsSigner,
			IsWritable: meta.IsWritable,
		})
	}
	return Instruction{ProgramID: ix.ProgramID(), Accounts: accounts, Data: data}, nil
}
