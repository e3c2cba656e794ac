package rpc

import (
	"context"
	"strings"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/cuemby/graphdb/pkg/metrics"
)

// ReadOnlyInterceptor restricts a listener to read-only RPCs: Query,
// PrepareStatement (compiling a statement doesn't mutate storage),
// ExecutePrepared, and EnumeratePlans. Used the way the teacher gates
// its Unix-socket listener to local, unprivileged callers while a
// second TCP+mTLS listener accepts the full RPC surface including
// CreateNode/CreateRel/SetNodeProperty/DeleteNode.
func ReadOnlyInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		if !isReadOnlyMethod(info.FullMethod) {
			return nil, status.Errorf(codes.PermissionDenied,
				"write operations are not allowed on this listener")
		}
		return handler(ctx, req)
	}
}

func isReadOnlyMethod(fullMethod string) bool {
	parts := strings.Split(fullMethod, "/")
	method := parts[len(parts)-1]

	switch method {
	case "Query", "PrepareStatement", "ExecutePrepared", "EnumeratePlans":
		return true
	default:
		return false
	}
}

// MetricsInterceptor records graphdb_rpc_requests_total and
// graphdb_rpc_request_duration_seconds per method, the teacher's
// metrics-wrapped-unary-interceptor pattern applied to these two
// pre-declared RPC histograms/counters instead of the teacher's own.
func MetricsInterceptor() grpc.UnaryServerInterceptor {
	return func(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
		parts := strings.Split(info.FullMethod, "/")
		method := parts[len(parts)-1]

		timer := metrics.NewTimer()
		resp, err := handler(ctx, req)

		status := "ok"
		if err != nil {
			status = "error"
		}
		metrics.RPCRequestsTotal.WithLabelValues(method, status).Inc()
		timer.ObserveDurationVec(metrics.RPCRequestDuration, method)
		return resp, err
	}
}
