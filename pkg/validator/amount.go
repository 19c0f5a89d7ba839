package validator

import (
	"math"

	"github.com/aegis-sign/ledger-facade/pkg/apierrors"
)

const (
	// LamportCeiling 为 10^9 SOL 折合的 lamports。
	LamportCeiling uint64 = 1_000_000_000 * 1_000_000_000
	// TokenAmountCeiling 为 u64 上限的一半，给下游手续费运算留出余量。
	TokenAmountCeiling uint64 = math.MaxUint64 / 2
	// MaxDecimals 是 mint 精度上限。
	MaxDecimals uint8 = 9
)

type amountOptions struct {
	ceiling    uint64
	hasCeiling bool
}

// AmountOption 定义金额校验的可选参数。
type AmountOption func(*amountOptions)

// WithCeiling 设置金额上限（含）。
func WithCeiling(max uint64) AmountOption {
	return func(o *amountOptions) {
		o.ceiling = max
		o.hasCeiling = true
	}
}

// ValidateAmount 要求金额大于 0，且不超过可选上限。
func ValidateAmount(value uint64, opts ...AmountOption) (uint64, error) {
	var o amountOptions
	for _, opt := range opts {
		opt(&o)
	}
	if value == 0 {
		return 0, apierrors.AmountZero()
	}
	if o.hasCeiling && value > o.ceiling {
		return 0, apierrors.AmountTooLarge()
	}
	return value, nil
}

// ValidateDecimals 接受 0-9。
func ValidateDecimals(value uint8) (uint8, error) {
	if value > MaxDecimals {
		return 0, apierrors.InvalidDecimals()
	}
	return value, nil
}
