package facadeapi

import (
	"encoding/json"
	"net/http"

	"github.com/aegis-sign/ledger-facade/pkg/apierrors"
)

// envelope 是所有接口统一的响应外壳，data 与 error 二者只出现其一。
type envelope struct {
	Success bool   `json:"success"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func successEnvelope(data any) envelope {
	return envelope{Success: true, Data: data}
}

func errorEnvelope(apiErr *apierrors.Error) envelope {
	return envelope{Success: false, Error: apiErr.Error()}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

// toAPIError 将任意错误收敛为业务错误，非业务错误统一为 Internal，不透传底层文案。
func toAPIError(err error) *apierrors.Error {
	if apiErr, ok := apierrors.FromError(err); ok && apiErr != nil {
		return apiErr
	}
	return apierrors.Internal()
}
