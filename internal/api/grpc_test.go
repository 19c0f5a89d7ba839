package facadeapi

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/aegis-sign/ledger-facade/internal/app/facade"
	"github.com/aegis-sign/ledger-facade/internal/platform/ratelimiter"
	"github.com/aegis-sign/ledger-facade/pkg/apierrors"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

const testBufSize = 1024 * 1024

func newTestClient(t *testing.T, opts ...GRPCOption) *grpc.ClientConn {
	t.Helper()
	lis := bufconn.Listen(testBufSize)
	srv := grpc.NewServer()
	RegisterFacadeServiceServer(srv, NewGRPCServer(facade.NewDefault(), opts...))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	conn, err := grpc.DialContext(ctx, "bufnet",
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithContextDialer(func(context.Context, string) (net.Conn, error) { return lis.Dial() }),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return conn
}

func invoke(t *testing.T, conn *grpc.ClientConn, method string, in map[string]any) (*structpb.Struct, error) {
	t.Helper()
	req, err := structpb.NewStruct(in)
	require.NoError(t, err)
	out := new(structpb.Struct)
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	err = conn.Invoke(ctx, "/"+FacadeServiceName+"/"+method, req, out)
	return out, err
}

func TestGRPCSignAndVerify(t *testing.T) {
	conn := newTestClient(t)
	kp, err := invoke(t, conn, "GenerateKeypair", nil)
	require.NoError(t, err)
	secret := kp.GetFields()["secret"].GetStringValue()
	pubkey := kp.GetFields()["pubkey"].GetStringValue()
	require.NotEmpty(t, secret)

	signed, err := invoke(t, conn, "SignMessage", map[string]any{"message": "hello", "secret": secret})
	require.NoError(t, err)
	require.Equal(t, pubkey, signed.GetFields()["public_key"].GetStringValue())

	verified, err := invoke(t, conn, "VerifyMessage", map[string]any{
		"message":   "hello",
		"signature": signed.GetFields()["signature"].GetStringValue(),
		"pubkey":    pubkey,
	})
	require.NoError(t, err)
	require.True(t, verified.GetFields()["valid"].GetBoolValue())
}

func TestGRPCNumericFields(t *testing.T) {
	conn := newTestClient(t)
	from, to := testPubkey(t), testPubkey(t)
	out, err := invoke(t, conn, "TransferSol", map[string]any{"from": from, "to": to, "lamports": 1e18})
	require.NoError(t, err)
	accounts := out.GetFields()["accounts"].GetListValue().AsSlice()
	require.Equal(t, []any{from, to}, accounts)

	out, err = invoke(t, conn, "CreateMint", map[string]any{"mintAuthority": from, "mint": to, "decimals": 6})
	require.NoError(t, err)
	require.NotEmpty(t, out.GetFields()["instruction_data"].GetStringValue())
}

func TestGRPCErrorsMapToStatus(t *testing.T) {
	conn := newTestClient(t)

	_, err := invoke(t, conn, "TransferSol", map[string]any{"from": testPubkey(t), "to": testPubkey(t), "lamports": 0})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
	require.Equal(t, apierrors.MsgAmountZero, status.Convert(err).Message())

	_, err = invoke(t, conn, "MintTo", map[string]any{"mint": "x", "amount": 1.5})
	require.Equal(t, codes.InvalidArgument, status.Code(err))
	require.Equal(t, apierrors.MsgMissingFields, status.Convert(err).Message())

	owner := testPubkey(t)
	_, err = invoke(t, conn, "TransferToken", map[string]any{"destination": owner, "mint": testPubkey(t), "owner": owner, "amount": 3})
	require.Equal(t, codes.FailedPrecondition, status.Code(err))
}

func TestGRPCRecoverKeypair(t *testing.T) {
	conn := newTestClient(t)
	fresh, err := invoke(t, conn, "RecoverKeypair", nil)
	require.NoError(t, err)
	mnemonic := fresh.GetFields()["mnemonic"].GetStringValue()
	require.NotEmpty(t, mnemonic)

	again, err := invoke(t, conn, "RecoverKeypair", map[string]any{"mnemonic": mnemonic})
	require.NoError(t, err)
	require.Equal(t, fresh.GetFields()["pubkey"].GetStringValue(), again.GetFields()["pubkey"].GetStringValue())
}

func TestGRPCRateLimitAndMetrics(t *testing.T) {
	metrics := NewMetrics(prometheus.NewRegistry())
	conn := newTestClient(t,
		WithGRPCMetrics(metrics),
		WithGRPCRateLimiter(ratelimiter.New(1, 1, time.Minute)),
	)

	_, err := invoke(t, conn, "GenerateKeypair", nil)
	require.NoError(t, err)
	_, err = invoke(t, conn, "GenerateKeypair", nil)
	require.Equal(t, codes.ResourceExhausted, status.Code(err))

	require.Equal(t, 1.0, testutil.ToFloat64(metrics.grpcRequests.WithLabelValues("GenerateKeypair", codes.OK.String())))
	require.Equal(t, 1.0, testutil.ToFloat64(metrics.grpcRequests.WithLabelValues("GenerateKeypair", codes.ResourceExhausted.String())))
}

func TestGRPCUnknownMethod(t *testing.T) {
	conn := newTestClient(t)
	_, err := invoke(t, conn, "SignTransaction", nil)
	require.Equal(t, codes.Unimplemented, status.Code(err))
}
