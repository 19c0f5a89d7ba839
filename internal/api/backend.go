package facadeapi

import "github.com/aegis-sign/ledger-facade/internal/app/facade"

// Backend 定义业务层接口，HTTP/gRPC handler 通过它调用 facade.Service。
type Backend interface {
	GenerateKeypair() (*facade.KeypairPayload, error)
	RecoverKeypair(in facade.RecoverInput) (*facade.MnemonicKeypairPayload, error)
	CreateMint(in facade.CreateMintInput) (*facade.InstructionPayload, error)
	MintTo(in facade.MintToInput) (*facade.InstructionPayload, error)
	TransferSOL(in facade.TransferSOLInput) (*facade.SolTransferPayload, error)
	TransferToken(in facade.TransferTokenInput) (*facade.TokenTransferPayload, error)
	SignMessage(in facade.SignInput) (*facade.SignPayload, error)
	VerifyMessage(in facade.VerifyInput) (*facade.VerifyPayload, error)
}

var _ Backend = (*facade.Service)(nil)
