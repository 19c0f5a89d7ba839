package apierrors

import (
	"errors"
	"strconv"
	"time"

	"google.golang.org/grpc/codes"
)

// Code 表示统一业务错误码。
type Code string

const (
	CodeMissingFields            Code = "MISSING_FIELDS"
	CodeMessageTooLong           Code = "MESSAGE_TOO_LONG"
	CodeInvalidPublicKey         Code = "INVALID_PUBLIC_KEY"
	CodeInvalidSecretKey         Code = "INVALID_SECRET_KEY"
	CodeInvalidAmount            Code = "INVALID_AMOUNT"
	CodeInvalidDecimals          Code = "INVALID_DECIMALS"
	CodeInvalidSignatureEncoding Code = "INVALID_SIGNATURE_ENCODING"
	CodeInvalidSignatureLength   Code = "INVALID_SIGNATURE_LENGTH"
	CodeInvalidSignatureFormat   Code = "INVALID_SIGNATURE_FORMAT"
	CodeSameAccountTransfer      Code = "SAME_ACCOUNT_TRANSFER"
	CodeInstructionBuildFailed   Code = "INSTRUCTION_BUILD_FAILED"
	CodeInvalidMnemonic          Code = "INVALID_MNEMONIC"
	CodeRateLimited              Code = "RATE_LIMITED"
	CodeMethodNotAllowed         Code = "METHOD_NOT_ALLOWED"
	CodeInternal                 Code = "INTERNAL_ERROR"
)

// 对外暴露的固定文案，不拼接任何底层库错误。
const (
	MsgMissingFields            = "Missing required fields"
	MsgMessageTooLong           = "Message too long"
	MsgInvalidPublicKey         = "Invalid public key"
	MsgInvalidSecretKey         = "Invalid private key"
	MsgAmountZero               = "Invalid amount: must be greater than 0"
	MsgAmountTooLarge           = "Invalid amount: amount too large"
	MsgInvalidDecimals          = "Invalid decimals: must be between 0 and 9"
	MsgInvalidSignatureEncoding = "Invalid signature: Invalid base64 encoding"
	MsgInvalidSignatureLength   = "Invalid signature: Invalid signature length"
	MsgInvalidSignatureFormat   = "Invalid signature: Invalid signature format"
	MsgSameAccountTransfer      = "Cannot transfer to the same token account"
	MsgInvalidMnemonic          = "Invalid mnemonic"
	MsgRateLimited              = "Too many requests"
	MsgMethodNotAllowed         = "Method not allowed"
	MsgInternal                 = "Internal error"
)

var httpStatusMap = map[Code]int{
	CodeMissingFields:            400,
	CodeMessageTooLong:           400,
	CodeInvalidPublicKey:         400,
	CodeInvalidSecretKey:         400,
	CodeInvalidAmount:            400,
	CodeInvalidDecimals:          400,
	CodeInvalidSignatureEncoding: 400,
	CodeInvalidSignatureLength:   400,
	CodeInvalidSignatureFormat:   400,
	CodeSameAccountTransfer:      400,
	CodeInvalidMnemonic:          400,
	CodeInstructionBuildFailed:   500,
	CodeRateLimited:              429,
	CodeMethodNotAllowed:         405,
	CodeInternal:                 500,
}

var grpcStatusMap = map[Code]codes.Code{
	CodeMissingFields:            codes.InvalidArgument,
	CodeMessageTooLong:           codes.InvalidArgument,
	CodeInvalidPublicKey:         codes.InvalidArgument,
	CodeInvalidSecretKey:         codes.InvalidArgument,
	CodeInvalidAmount:            codes.InvalidArgument,
	CodeInvalidDecimals:          codes.InvalidArgument,
	CodeInvalidSignatureEncoding: codes.InvalidArgument,
	CodeInvalidSignatureLength:   codes.InvalidArgument,
	CodeInvalidSignatureFormat:   codes.InvalidArgument,
	CodeSameAccountTransfer:      codes.FailedPrecondition,
	CodeInvalidMnemonic:          codes.InvalidArgument,
	CodeInstructionBuildFailed:   codes.Internal,
	CodeRateLimited:              codes.ResourceExhausted,
	CodeMethodNotAllowed:         codes.Unimplemented,
	CodeInternal:                 codes.Internal,
}

// Error 表示带统一错误码的业务错误。
type Error struct {
	Code       Code
	Message    string
	retryAfter time.Duration
}

// New 创建一个新的业务错误。
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

func MissingFields() *Error       { return New(CodeMissingFields, MsgMissingFields) }
func MessageTooLong() *Error      { return New(CodeMessageTooLong, MsgMessageTooLong) }
func InvalidPublicKey() *Error    { return New(CodeInvalidPublicKey, MsgInvalidPublicKey) }
func InvalidSecretKey() *Error    { return New(CodeInvalidSecretKey, MsgInvalidSecretKey) }
func AmountZero() *Error          { return New(CodeInvalidAmount, MsgAmountZero) }
func AmountTooLarge() *Error      { return New(CodeInvalidAmount, MsgAmountTooLarge) }
func InvalidDecimals() *Error     { return New(CodeInvalidDecimals, MsgInvalidDecimals) }
func SameAccountTransfer() *Error { return New(CodeSameAccountTransfer, MsgSameAccountTransfer) }
func InvalidMnemonic() *Error     { return New(CodeInvalidMnemonic, MsgInvalidMnemonic) }
func Internal() *Error            { return New(CodeInternal, MsgInternal) }
func RateLimited() *Error         { return New(CodeRateLimited, MsgRateLimited) }
func MethodNotAllowed() *Error    { return New(CodeMethodNotAllowed, MsgMethodNotAllowed) }

func InvalidSignatureEncoding() *Error {
	return New(CodeInvalidSignatureEncoding, MsgInvalidSignatureEncoding)
}

func InvalidSignatureLength() *Error {
	return New(CodeInvalidSignatureLength, MsgInvalidSignatureLength)
}

// InstructionBuildFailed 使用调用方给出的固定文案，区分 mint / mint_to / transfer。
func InstructionBuildFailed(message string) *Error {
	return New(CodeInstructionBuildFailed, message)
}

// WithRetryAfter 设置 Retry-After 提示，返回自身方便链式调用。
func (e *Error) WithRetryAfter(d time.Duration) *Error {
	e.retryAfter = d
	return e
}

// RetryAfterHint 以秒为单位返回 Retry-After 提示文本。
func (e *Error) RetryAfterHint() string {
	if e == nil || e.retryAfter <= 0 {
		return ""
	}
	seconds := int((e.retryAfter + time.Second - 1) / time.Second)
	if seconds <= 0 {
		seconds = 1
	}
	return strconv.Itoa(seconds)
}

// Error 实现 error 接口。
func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	if e.Message != "" {
		return e.Message
	}
	return string(e.Code)
}

// FromError 尝试从通用 error 中解析业务错误。
func FromError(err error) (*Error, bool) {
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// HTTPStatus 返回对应的 HTTP 状态码，未知错误默认 500。
func HTTPStatus(code Code) int {
	if status, ok := httpStatusMap[code]; ok {
		return status
	}
	return 500
}

// GRPCStatus 返回对应的 gRPC code，未知错误默认 Internal。
func GRPCStatus(code Code) codes.Code {
	if status, ok := grpcStatusMap[code]; ok {
		return status
	}
	return codes.Internal
}

// RequiresRetryAfter 标记是否必须携带 Retry-After 头。
func RequiresRetryAfter(code Code) bool {
	return code == CodeRateLimited
}
