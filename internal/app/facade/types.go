package facade

// 各请求的输入字段已经由 Field Extractor 完成必填校验与 trim。

type CreateMintInput struct {
	MintAuthority string
	Mint          string
	Decimals      uint8
}

type MintToInput struct {
	Mint        string
	Destination string
	Authority   string
	Amount      uint64
}

type TransferSOLInput struct {
	From     string
	To       string
	Lamports uint64
}

type TransferTokenInput struct {
	Destination string
	Mint        string
	Owner       string
	Amount      uint64
}

type SignInput struct {
	Message string
	Secret  string
}

type VerifyInput struct {
	Message   string
	Signature string
	PublicKey string
}

// RecoverInput 中 Mnemonic 为空时生成新的助记词。
type RecoverInput struct {
	Mnemonic   string
	Passphrase string
}

type KeypairPayload struct {
	Pubkey string `json:"pubkey"`
	Secret string `json:"secret"`
}

type MnemonicKeypairPayload struct {
	Pubkey   string `json:"pubkey"`
	Secret   string `json:"secret"`
	Mnemonic string `json:"mnemonic"`
}

// 三种账户列表格式是对外兼容契约，不要合并。

type AccountPayload struct {
	Pubkey     string `json:"pubkey"`
	IsSigner   bool   `json:"is_signer"`
	IsWritable bool   `json:"is_writable"`
}

type InstructionPayload struct {
	ProgramID       string           `json:"program_id"`
	Accounts        []AccountPayload `json:"accounts"`
	InstructionData string           `json:"instruction_data"`
}

type SolTransferPayload struct {
	ProgramID       string   `json:"program_id"`
	Accounts        []string `json:"accounts"`
	InstructionData string   `json:"instruction_data"`
}

type TokenTransferAccount struct {
	Pubkey   string `json:"pubkey"`
	IsSigner bool   `json:"isSigner"`
}

type TokenTransferPayload struct {
	ProgramID       string                 `json:"program_id"`
	Accounts        []TokenTransferAccount `json:"accounts"`
	InstructionData string                 `json:"instruction_data"`
}

type SignPayload struct {
	Signature string `json:"signature"`
	PublicKey string `json:"public_key"`
	Message   string `json:"message"`
}

type VerifyPayload struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
	Pubkey  string `json:"pubkey"`
}
