package facadeapi

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net"
	"time"

	"github.com/aegis-sign/ledger-facade/internal/platform/ratelimiter"
	"github.com/aegis-sign/ledger-facade/pkg/apierrors"
	"google.golang.org/grpc"
	"google.golang.org/grpc/peer"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// FacadeServiceName 对应 docs/api/proto/facade.proto 中的服务全名。
const FacadeServiceName = "ledgerfacade.v1.FacadeService"

// GRPCServer 实现 ledgerfacade.v1.FacadeService。
//
// 请求与响应都是 google.protobuf.Struct，字段名与 HTTP JSON 完全一致，
// 请求先还原为 JSON 再走与 HTTP 相同的字段提取逻辑。
type GRPCServer struct {
	backend Backend
	logger  *slog.Logger
	metrics *Metrics
	limiter *ratelimiter.ClientLimiter
}

// GRPCOption 调整 GRPCServer 的可选依赖。
type GRPCOption func(*GRPCServer)

func WithGRPCLogger(l *slog.Logger) GRPCOption {
	return func(s *GRPCServer) {
		if l != nil {
			s.logger = l
		}
	}
}

func WithGRPCMetrics(m *Metrics) GRPCOption {
	return func(s *GRPCServer) { s.metrics = m }
}

func WithGRPCRateLimiter(l *ratelimiter.ClientLimiter) GRPCOption {
	return func(s *GRPCServer) { s.limiter = l }
}

// NewGRPCServer 构造 gRPC server。
func NewGRPCServer(backend Backend, opts ...GRPCOption) *GRPCServer {
	if backend == nil {
		panic("facade backend is required")
	}
	s := &GRPCServer{
		backend: backend,
		logger:  slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// RegisterFacadeServiceServer 将服务注册到 grpc.Server。
func RegisterFacadeServiceServer(registrar grpc.ServiceRegistrar, srv *GRPCServer) {
	registrar.RegisterService(&facadeServiceDesc, srv)
}

type facadeServiceServer interface {
	invoke(ctx context.Context, ep endpoint, in *structpb.Struct) (*structpb.Struct, error)
}

var facadeServiceDesc = newServiceDesc()

func newServiceDesc() grpc.ServiceDesc {
	methods := make([]grpc.MethodDesc, 0, len(endpoints))
	for _, ep := range endpoints {
		methods = append(methods, grpc.MethodDesc{
			MethodName: ep.rpc,
			Handler:    unaryHandler(ep),
		})
	}
	return grpc.ServiceDesc{
		ServiceName: FacadeServiceName,
		HandlerType: (*facadeServiceServer)(nil),
		Methods:     methods,
		Streams:     []grpc.StreamDesc{},
		Metadata:    "facade.proto",
	}
}

func unaryHandler(ep endpoint) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	fullMethod := "/" + FacadeServiceName + "/" + ep.rpc
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := new(structpb.Struct)
		if err := dec(in); err != nil {
			return nil, err
		}
		call := func(ctx context.Context, req any) (any, error) {
			return srv.(facadeServiceServer).invoke(ctx, ep, req.(*structpb.Struct))
		}
		if interceptor == nil {
			return call(ctx, in)
		}
		return interceptor(ctx, in, &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}, call)
	}
}

func (s *GRPCServer) invoke(ctx context.Context, ep endpoint, in *structpb.Struct) (out *structpb.Struct, err error) {
	start := time.Now()
	defer func() {
		if rec := recover(); rec != nil {
			s.logger.Error("grpc handler panic recovered", "method", ep.rpc, "panic", rec)
			out, err = nil, s.grpcError(apierrors.Internal())
		}
		code := status.Code(err)
		s.metrics.observeGRPC(ep.rpc, code)
		s.logger.Info("rpc handled",
			"method", ep.rpc,
			"code", code.String(),
			"duration_ms", time.Since(start).Milliseconds(),
			"remote_addr", peerAddr(ctx),
		)
	}()

	if ok, wait := s.limiter.Allow(peerAddr(ctx), time.Now()); !ok {
		return nil, s.grpcError(apierrors.RateLimited().WithRetryAfter(wait))
	}
	body, err := json.Marshal(in.AsMap())
	if err != nil {
		return nil, s.grpcError(apierrors.MissingFields())
	}
	payload, err := ep.handle(s.backend, body)
	if err != nil {
		return nil, s.grpcError(err)
	}
	out, err = toStruct(payload)
	if err != nil {
		s.logger.Error("encode rpc response failed", "method", ep.rpc, "error", err)
		return nil, s.grpcError(apierrors.Internal())
	}
	return out, nil
}

func (s *GRPCServer) grpcError(err error) error {
	apiErr := toAPIError(err)
	return status.Error(apierrors.GRPCStatus(apiErr.Code), apiErr.Error())
}

// toStruct 经 JSON 往返把响应载荷转成 Struct，字段名与 HTTP 响应保持一致。
func toStruct(payload any) (*structpb.Struct, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, err
	}
	return structpb.NewStruct(fields)
}

func peerAddr(ctx context.Context) string {
	p, ok := peer.FromContext(ctx)
	if !ok || p.Addr == nil {
		return ""
	}
	host, _, err := net.SplitHostPort(p.Addr.String())
	if err != nil {
		return p.Addr.String()
	}
	return host
}
