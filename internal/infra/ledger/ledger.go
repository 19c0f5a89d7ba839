// Package ledger 定义账本密码学与指令构造的能力接口，核心校验/组装逻辑只依赖这些接口。
package ledger

import "github.com/gagliardetto/solana-go"

// Keypair 是一次请求内临时使用的密钥对，不做任何持久化。
type Keypair struct {
	PublicKey  solana.PublicKey
	PrivateKey solana.PrivateKey
}

// Crypto 提供密钥生成、签名与验签。
type Crypto interface {
	NewKeypair() (Keypair, error)
	KeypairFromSeed(seed []byte) (Keypair, error)
	Sign(key solana.PrivateKey, message []byte) (solana.Signature, error)
	Verify(pub solana.PublicKey, message []byte, sig solana.Signature) bool
}

// AccountMeta 描述指令引用的账户及其权限。
type AccountMeta struct {
	PublicKey  solana.PublicKey
	IsSigner   bool
	IsWritable bool
}

// Instruction 是构造完成后不可变的指令描述。
type Instruction struct {
	ProgramID solana.PublicKey
	Accounts  []AccountMeta
	Data      []byte
}

// Programs 提供 system / token / associated-token 程序的指令构造。
type Programs interface {
	InitializeMint(mint, mintAuthority, freezeAuthority solana.PublicKey, decimals uint8) (Instruction, error)
	MintTo(mint, destination, authority solana.PublicKey, amount uint64) (Instruction, error)
	SystemTransfer(from, to solana.PublicKey, lamports uint64) (Instruction, error)
	TokenTransfer(source, destination, owner solana.PublicKey, amount uint64) (Instruction, error)
	AssociatedTokenAddress(wallet, mint solana.PublicKey) (solana.PublicKey, error)
}
