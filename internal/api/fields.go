package facadeapi

import (
	"bytes"
	"encoding/json"
	"strings"

	"github.com/aegis-sign/ledger-facade/pkg/apierrors"
)

// 请求体字段全部声明为指针：解码阶段一律可选，解码后再逐个判定必填。
// 非 JSON、类型不符、数值越界与字段缺失对外都表现为 MissingFields。

type createMintRequest struct {
	MintAuthority *string `json:"mintAuthority"`
	Mint          *string `json:"mint"`
	Decimals      *uint8  `json:"decimals"`
}

type mintToRequest struct {
	Mint        *string `json:"mint"`
	Destination *string `json:"destination"`
	Authority   *string `json:"authority"`
	Amount      *uint64 `json:"amount"`
}

type signRequest struct {
	Message *string `json:"message"`
	Secret  *string `json:"secret"`
}

type verifyRequest struct {
	Message   *string `json:"message"`
	Signature *string `json:"signature"`
	Pubkey    *string `json:"pubkey"`
}

type sendSolRequest struct {
	From     *string `json:"from"`
	To       *string `json:"to"`
	Lamports *uint64 `json:"lamports"`
}

type sendTokenRequest struct {
	Destination *string `json:"destination"`
	Mint        *string `json:"mint"`
	Owner       *string `json:"owner"`
	Amount      *uint64 `json:"amount"`
}

type recoverRequest struct {
	Mnemonic   *string `json:"mnemonic"`
	Passphrase *string `json:"passphrase"`
}

// decodeFields 把请求体解码到 dst，任何解析失败都折叠为 MissingFields。
func decodeFields(body []byte, dst any) error {
	if len(bytes.TrimSpace(body)) == 0 {
		return apierrors.MissingFields()
	}
	if err := json.Unmarshal(body, dst); err != nil {
		return apierrors.MissingFields()
	}
	return nil
}

// fieldSet 收集必填字段，所有字段提取完毕后再统一报告缺失。
type fieldSet struct {
	missing bool
}

// text 返回 trim 后的字符串；缺失、null 或空白视为缺失。
func (f *fieldSet) text(p *string) string {
	if p == nil {
		f.missing = true
		return ""
	}
	v := strings.TrimSpace(*p)
	if v == "" {
		f.missing = true
	}
	return v
}

// message 原样返回，签名覆盖的是调用方给出的精确字节。
func (f *fieldSet) message(p *string) string {
	if p == nil || strings.TrimSpace(*p) == "" {
		f.missing = true
		return ""
	}
	return *p
}

func (f *fieldSet) u64(p *uint64) uint64 {
	if p == nil {
		f.missing = true
		return 0
	}
	return *p
}

func (f *fieldSet) u8(p *uint8) uint8 {
	if p == nil {
		f.missing = true
		return 0
	}
	return *p
}

func (f *fieldSet) err() error {
	if f.missing {
		return apierrors.MissingFields()
	}
	return nil
}

func optional(p *string) string {
	if p == nil {
		return ""
	}
	return strings.TrimSpace(*p)
}
