package facade

import (
	"encoding/base64"
	"errors"

	"github.com/aegis-sign/ledger-facade/internal/infra/ledger"
	"github.com/aegis-sign/ledger-facade/pkg/apierrors"
	"github.com/aegis-sign/ledger-facade/pkg/validator"
)

const (
	msgMintBuildFailed     = "Failed to create mint instruction"
	msgMintToBuildFailed   = "Failed to create mint_to instruction"
	msgTransferBuildFailed = "Failed to create transfer instruction"
)

// Service 串联校验与指令组装。无共享可变状态，可被并发请求直接复用。
type Service struct {
	crypto   ledger.Crypto
	programs ledger.Programs
}

// New 构造 Service。
func New(crypto ledger.Crypto, programs ledger.Programs) (*Service, error) {
	if crypto == nil {
		return nil, errors.New("ledger crypto is required")
	}
	if programs == nil {
		return nil, errors.New("ledger programs are required")
	}
	return &Service{crypto: crypto, programs: programs}, nil
}

// NewDefault 使用 solana-go 实现构造 Service。
func NewDefault() *Service {
	return &Service{crypto: ledger.NewSolanaCrypto(), programs: ledger.NewSolanaPrograms()}
}

// GenerateKeypair 生成新的随机密钥对。
func (s *Service) GenerateKeypair() (*KeypairPayload, error) {
	kp, err := s.crypto.NewKeypair()
	if err != nil {
		return nil, apierrors.Internal()
	}
	return &KeypairPayload{
		Pubkey: kp.PublicKey.String(),
		Secret: kp.PrivateKey.String(),
	}, nil
}

// RecoverKeypair 从 BIP-39 助记词恢复密钥对；未提供助记词时新生成一个。
func (s *Service) RecoverKeypair(in RecoverInput) (*MnemonicKeypairPayload, error) {
	mnemonic := in.Mnemonic
	if mnemonic == "" {
		generated, err := ledger.NewMnemonic(ledger.DefaultEntropyBits)
		if err != nil {
			return nil, apierrors.Internal()
		}
		mnemonic = generated
	}
	kp, err := ledger.KeypairFromMnemonic(s.crypto, mnemonic, in.Passphrase)
	if err != nil {
		if errors.Is(err, ledger.ErrInvalidMnemonic) {
			return nil, apierrors.InvalidMnemonic()
		}
		return nil, apierrors.Internal()
	}
	return &MnemonicKeypairPayload{
		Pubkey:   kp.PublicKey.String(),
		Secret:   kp.PrivateKey.String(),
		Mnemonic: ledger.NormalizeMnemonic(mnemonic),
	}, nil
}

// CreateMint 组装 InitializeMint 指令，authority 同时作为 freeze authority。
func (s *Service) CreateMint(in CreateMintInput) (*InstructionPayload, error) {
	decimals, err := validator.ValidateDecimals(in.Decimals)
	if err != nil {
		return nil, err
	}
	authority, err := validator.ParsePublicKey(in.MintAuthority)
	if err != nil {
		return nil, err
	}
	mint, err := validator.ParsePublicKey(in.Mint)
	if err != nil {
		return nil, err
	}
	ix, err := s.programs.InitializeMint(mint, authority, authority, decimals)
	if err != nil {
		return nil, apierrors.InstructionBuildFailed(msgMintBuildFailed)
	}
	return newInstructionPayload(ix), nil
}

// MintTo 组装 MintTo 指令。不检查 destination 是否为 mint 自身。
func (s *Service) MintTo(in MintToInput) (*InstructionPayload, error) {
	amount, err := validator.ValidateAmount(in.Amount, validator.WithCeiling(validator.TokenAmountCeiling))
	if err != nil {
		return nil, err
	}
	mint, err := validator.ParsePublicKey(in.Mint)
	if err != nil {
		return nil, err
	}
	destination, err := validator.ParsePublicKey(in.Destination)
	if err != nil {
		return nil, err
	}
	authority, err := validator.ParsePublicKey(in.Authority)
	if err != nil {
		return nil, err
	}
	ix, err := s.programs.MintTo(mint, destination, authority, amount)
	if err != nil {
		return nil, apierrors.InstructionBuildFailed(msgMintToBuildFailed)
	}
	return newInstructionPayload(ix), nil
}

// TransferSOL 组装 system transfer 指令，允许 from == to。
func (s *Service) TransferSOL(in TransferSOLInput) (*SolTransferPayload, error) {
	lamports, err := validator.ValidateAmount(in.Lamports, validator.WithCeiling(validator.LamportCeiling))
	if err != nil {
		return nil, err
	}
	from, err := validator.ParsePublicKey(in.From)
	if err != nil {
		return nil, err
	}
	to, err := validator.ParsePublicKey(in.To)
	if err != nil {
		return nil, err
	}
	ix, err := s.programs.SystemTransfer(from, to, lamports)
	if err != nil {
		return nil, apierrors.InstructionBuildFailed(msgTransferBuildFailed)
	}
	accounts := make([]string, len(ix.Accounts))
	for i, acc := range ix.Accounts {
		accounts[i] = acc.PublicKey.String()
	}
	return &SolTransferPayload{
		ProgramID:       ix.ProgramID.String(),
		Accounts:        accounts,
		InstructionData: base64.StdEncoding.EncodeToString(ix.Data),
	}, nil
}

// TransferToken 在 owner 与 destination 的关联 token 账户之间组装转账指令。
//
// 两个关联账户相同时直接拒绝，该转账在协议层是空操作。
func (s *Service) TransferToken(in TransferTokenInput) (*TokenTransferPayload, error) {
	amount, err := validator.ValidateAmount(in.Amount, validator.WithCeiling(validator.TokenAmountCeiling))
	if err != nil {
		return nil, err
	}
	destination, err := validator.ParsePublicKey(in.Destination)
	if err != nil {
		return nil, err
	}
	mint, err := validator.ParsePublicKey(in.Mint)
	if err != nil {
		return nil, err
	}
	owner, err := validator.ParsePublicKey(in.Owner)
	if err != nil {
		return nil, err
	}
	source, err := s.programs.AssociatedTokenAddress(owner, mint)
	if err != nil {
		return nil, apierrors.InstructionBuildFailed(msgTransferBuildFailed)
	}
	target, err := s.programs.AssociatedTokenAddress(destination, mint)
	if err != nil {
		return nil, apierrors.InstructionBuildFailed(msgTransferBuildFailed)
	}
	if source.Equals(target) {
		return nil, apierrors.SameAccountTransfer()
	}
	ix, err := s.programs.TokenTransfer(source, target, owner, amount)
	if err != nil {
		return nil, apierrors.InstructionBuildFailed(msgTransferBuildFailed)
	}
	accounts := make([]TokenTransferAccount, len(ix.Accounts))
	for i, acc := range ix.Accounts {
		accounts[i] = TokenTransferAccount{Pubkey: acc.PublicKey.String(), IsSigner: acc.IsSigner}
	}
	return &TokenTransferPayload{
		ProgramID:       ix.ProgramID.String(),
		Accounts:        accounts,
		InstructionData: base64.StdEncoding.EncodeToString(ix.Data),
	}, nil
}

// SignMessage 使用私钥对消息原始字节签名。
func (s *Service) SignMessage(in SignInput) (*SignPayload, error) {
	if err := validator.ValidateMessage(in.Message); err != nil {
		return nil, err
	}
	key, err := validator.ParseSecretKey(in.Secret)
	if err != nil {
		return nil, err
	}
	sig, err := s.crypto.Sign(key, []byte(in.Message))
	if err != nil {
		return nil, apierrors.Internal()
	}
	return &SignPayload{
		Signature: validator.EncodeSignature(sig),
		PublicKey: key.PublicKey().String(),
		Message:   in.Message,
	}, nil
}

// VerifyMessage 验签。签名不匹配返回 valid=false，只有输入格式错误才返回 error。
func (s *Service) VerifyMessage(in VerifyInput) (*VerifyPayload, error) {
	if err := validator.ValidateMessage(in.Message); err != nil {
		return nil, err
	}
	pub, err := validator.ParsePublicKey(in.PublicKey)
	if err != nil {
		return nil, err
	}
	sig, err := validator.DecodeSignature(in.Signature)
	if err != nil {
		return nil, err
	}
	return &VerifyPayload{
		Valid:   s.crypto.Verify(pub, []byte(in.Message), sig),
		Message: in.Message,
		Pubkey:  in.PublicKey,
	}, nil
}

func newInstructionPayload(ix ledger.Instruction) *InstructionPayload {
	accounts := make([]AccountPayload, len(ix.Accounts))
	for i, acc := range ix.Accounts {
		accounts[i] = AccountPayload{
			Pubkey:     acc.PublicKey.String(),
			IsSigner:   acc.IsSigner,
			IsWritable: acc.IsWritable,
		}
	}
	return &InstructionPayload{
		ProgramID:       ix.ProgramID.String(),
		Accounts:        accounts,
		InstructionData: base64.StdEncoding.EncodeToString(ix.Data),
	}
}
