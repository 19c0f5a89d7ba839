package facadeapi

import (
	"bytes"

	"github.com/aegis-sign/ledger-facade/internal/app/facade"
)

// endpoint 描述一个对外操作。HTTP 与 gRPC 共用同一份字段提取与调用逻辑。
type endpoint struct {
	label  string
	path   string
	rpc    string
	handle func(b Backend, body []byte) (any, error)
}

var endpoints = []endpoint{
	{label: "keypair", path: "/keypair", rpc: "GenerateKeypair", handle: handleKeypair},
	{label: "keypair_mnemonic", path: "/keypair/mnemonic", rpc: "RecoverKeypair", handle: handleRecover},
	{label: "token_create", path: "/token/create", rpc: "CreateMint", handle: handleCreateMint},
	{label: "token_mint", path: "/token/mint", rpc: "MintTo", handle: handleMintTo},
	{label: "message_sign", path: "/message/sign", rpc: "SignMessage", handle: handleSign},
	{label: "message_verify", path: "/message/verify", rpc: "VerifyMessage", handle: handleVerify},
	{label: "send_sol", path: "/send/sol", rpc: "TransferSol", handle: handleSendSol},
	{label: "send_token", path: "/send/token", rpc: "TransferToken", handle: handleSendToken},
}

// handleKeypair 不读取请求体。
func handleKeypair(b Backend, _ []byte) (any, error) {
	return b.GenerateKeypair()
}

// handleRecover 允许空请求体，此时生成新的助记词。
func handleRecover(b Backend, body []byte) (any, error) {
	var req recoverRequest
	if len(bytes.TrimSpace(body)) > 0 {
		if err := decodeFields(body, &req); err != nil {
			return nil, err
		}
	}
	return b.RecoverKeypair(facade.RecoverInput{
		Mnemonic:   optional(req.Mnemonic),
		Passphrase: optional(req.Passphrase),
	})
}

func handleCreateMint(b Backend, body []byte) (any, error) {
	var req createMintRequest
	if err := decodeFields(body, &req); err != nil {
		return nil, err
	}
	var f fieldSet
	in := facade.CreateMintInput{
		MintAuthority: f.text(req.MintAuthority),
		Mint:          f.text(req.Mint),
		Decimals:      f.u8(req.Decimals),
	}
	if err := f.err(); err != nil {
		return nil, err
	}
	return b.CreateMint(in)
}

func handleMintTo(b Backend, body []byte) (any, error) {
	var req mintToRequest
	if err := decodeFields(body, &req); err != nil {
		return nil, err
	}
	var f fieldSet
	in := facade.MintToInput{
		Mint:        f.text(req.Mint),
		Destination: f.text(req.Destination),
		Authority:   f.text(req.Authority),
		Amount:      f.u64(req.Amount),
	}
	if err := f.err(); err != nil {
		return nil, err
	}
	return b.MintTo(in)
}

func handleSign(b Backend, body []byte) (any, error) {
	var req signRequest
	if err := decodeFields(body, &req); err != nil {
		return nil, err
	}
	var f fieldSet
	in := facade.SignInput{
		Message: f.message(req.Message),
		Secret:  f.text(req.Secret),
	}
	if err := f.err(); err != nil {
		return nil, err
	}
	return b.SignMessage(in)
}

func handleVerify(b Backend, body []byte) (any, error) {
	var req verifyRequest
	if err := decodeFields(body, &req); err != nil {
		return nil, err
	}
	var f fieldSet
	in := facade.VerifyInput{
		Message:   f.message(req.Message),
		Signature: f.text(req.Signature),
		PublicKey: f.text(req.Pubkey),
	}
	if err := f.err(); err != nil {
		return nil, err
	}
	return b.VerifyMessage(in)
}

func handleSendSol(b Backend, body []byte) (any, error) {
	var req sendSolRequest
	if err := decodeFields(body, &req); err != nil {
		return nil, err
	}
	var f fieldSet
	in := facade.TransferSOLInput{
		From:     f.text(req.From),
		To:       f.text(req.To),
		Lamports: f.u64(req.Lamports),
	}
	if err := f.err(); err != nil {
		return nil, err
	}
	return b.TransferSOL(in)
}

func handleSendToken(b Backend, body []byte) (any, error) {
	var req sendTokenRequest
	if err := decodeFields(body, &req); err != nil {
		return nil, err
	}
	var f fieldSet
	in := facade.TransferTokenInput{
		Destination: f.text(req.Destination),
		Mint:        f.text(req.Mint),
		Owner:       f.text(req.Owner),
		Amount:      f.u64(req.Amount),
	}
	if err := f.err(); err != nil {
		return nil, err
	}
	return b.TransferToken(in)
}
