package rpc

import (
	"context"

	"google.golang.org/grpc"
)

// serviceName is the fully-qualified gRPC service name, matching the
// `graphdb.v1.QueryService` declared in proto/graphdb/v1/graphdb.proto.
const serviceName = "graphdb.v1.QueryService"

// QueryServiceServer is the set of RPCs a pkg/rpc.Server implements,
// one per pkg/session.Connection method named in the external
// interfaces surface.
type QueryServiceServer interface {
	Query(context.Context, *QueryRequest) (*QueryResponse, error)
	PrepareStatement(context.Context, *QueryRequest) (*PrepareResponse, error)
	ExecutePrepared(context.Context, *ExecutePreparedRequest) (*QueryResponse, error)
	EnumeratePlans(context.Context, *QueryRequest) (*PlanResponse, error)
	CreateNode(context.Context, *WriteNodeRequest) (*WriteNodeResponse, error)
	CreateRel(context.Context, *WriteRelRequest) (*WriteRelResponse, error)
	SetNodeProperty(context.Context, *SetPropertyRequest) (*Empty, error)
	DeleteNode(context.Context, *DeleteNodeRequest) (*Empty, error)
}

// QueryServiceClient is the client-side counterpart, returned by
// NewQueryServiceClient.
type QueryServiceClient interface {
	Query(ctx context.Context, in *QueryRequest, opts ...grpc.CallOption) (*QueryResponse, error)
	PrepareStatement(ctx context.Context, in *QueryRequest, opts ...grpc.CallOption) (*PrepareResponse, error)
	ExecutePrepared(ctx context.Context, in *ExecutePreparedRequest, opts ...grpc.CallOption) (*QueryResponse, error)
	EnumeratePlans(ctx context.Context, in *QueryRequest, opts ...grpc.CallOption) (*PlanResponse, error)
	CreateNode(ctx context.Context, in *WriteNodeRequest, opts ...grpc.CallOption) (*WriteNodeResponse, error)
	CreateRel(ctx context.Context, in *WriteRelRequest, opts ...grpc.CallOption) (*WriteRelResponse, error)
	SetNodeProperty(ctx context.Context, in *SetPropertyRequest, opts ...grpc.CallOption) (*Empty, error)
	DeleteNode(ctx context.Context, in *DeleteNodeRequest, opts ...grpc.CallOption) (*Empty, error)
}

type queryServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewQueryServiceClient wraps a dialed connection as a typed client,
// the role protoc-gen-go-grpc's generated constructor normally plays.
func NewQueryServiceClient(cc grpc.ClientConnInterface) QueryServiceClient {
	return &queryServiceClient{cc: cc}
}

func (c *queryServiceClient) Query(ctx context.Context, in *QueryRequest, opts ...grpc.CallOption) (*QueryResponse, error) {
	out := new(QueryResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/Query", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *queryServiceClient) PrepareStatement(ctx context.Context, in *QueryRequest, opts ...grpc.CallOption) (*PrepareResponse, error) {
	out := new(PrepareResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/PrepareStatement", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *queryServiceClient) ExecutePrepared(ctx context.Context, in *ExecutePreparedRequest, opts ...grpc.CallOption) (*QueryResponse, error) {
	out := new(QueryResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/ExecutePrepared", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *queryServiceClient) EnumeratePlans(ctx context.Context, in *QueryRequest, opts ...grpc.CallOption) (*PlanResponse, error) {
	out := new(PlanResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/EnumeratePlans", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *queryServiceClient) CreateNode(ctx context.Context, in *WriteNodeRequest, opts ...grpc.CallOption) (*WriteNodeResponse, error) {
	out := new(WriteNodeResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/CreateNode", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *queryServiceClient) CreateRel(ctx context.Context, in *WriteRelRequest, opts ...grpc.CallOption) (*WriteRelResponse, error) {
	out := new(WriteRelResponse)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/CreateRel", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *queryServiceClient) SetNodeProperty(ctx context.Context, in *SetPropertyRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/SetNodeProperty", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *queryServiceClient) DeleteNode(ctx context.Context, in *DeleteNodeRequest, opts ...grpc.CallOption) (*Empty, error) {
	out := new(Empty)
	if err := c.cc.Invoke(ctx, "/"+serviceName+"/DeleteNode", in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

// RegisterQueryServiceServer attaches srv's RPC methods to s, the way
// protoc-gen-go-grpc's generated RegisterXServer function does.
func RegisterQueryServiceServer(s grpc.ServiceRegistrar, srv QueryServiceServer) {
	s.RegisterService(&queryServiceDesc, srv)
}

func queryHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor, method string) (interface{}, error) {
	var in interface{}
	var call func(context.Context, interface{}) (interface{}, error)

	switch method {
	case "Query":
		req := new(QueryRequest)
		in, call = req, func(ctx context.Context, r interface{}) (interface{}, error) {
			return srv.(QueryServiceServer).Query(ctx, r.(*QueryRequest))
		}
	case "PrepareStatement":
		req := new(QueryRequest)
		in, call = req, func(ctx context.Context, r interface{}) (interface{}, error) {
			return srv.(QueryServiceServer).PrepareStatement(ctx, r.(*QueryRequest))
		}
	case "ExecutePrepared":
		req := new(ExecutePreparedRequest)
		in, call = req, func(ctx context.Context, r interface{}) (interface{}, error) {
			return srv.(QueryServiceServer).ExecutePrepared(ctx, r.(*ExecutePreparedRequest))
		}
	case "EnumeratePlans":
		req := new(QueryRequest)
		in, call = req, func(ctx context.Context, r interface{}) (interface{}, error) {
			return srv.(QueryServiceServer).EnumeratePlans(ctx, r.(*QueryRequest))
		}
	case "CreateNode":
		req := new(WriteNodeRequest)
		in, call = req, func(ctx context.Context, r interface{}) (interface{}, error) {
			return srv.(QueryServiceServer).CreateNode(ctx, r.(*WriteNodeRequest))
		}
	case "CreateRel":
		req := new(WriteRelRequest)
		in, call = req, func(ctx context.Context, r interface{}) (interface{}, error) {
			return srv.(QueryServiceServer).CreateRel(ctx, r.(*WriteRelRequest))
		}
	case "SetNodeProperty":
		req := new(SetPropertyRequest)
		in, call = req, func(ctx context.Context, r interface{}) (interface{}, error) {
			return srv.(QueryServiceServer).SetNodeProperty(ctx, r.(*SetPropertyRequest))
		}
	case "DeleteNode":
		req := new(DeleteNodeRequest)
		in, call = req, func(ctx context.Context, r interface{}) (interface{}, error) {
			return srv.(QueryServiceServer).DeleteNode(ctx, r.(*DeleteNodeRequest))
		}
	}

	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return call(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: "/" + serviceName + "/" + method}
	return interceptor(ctx, in, info, func(ctx context.Context, req interface{}) (interface{}, error) {
		return call(ctx, req)
	})
}

func makeHandler(method string) func(interface{}, context.Context, func(interface{}) error, grpc.UnaryServerInterceptor) (interface{}, error) {
	return func(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
		return queryHandler(srv, ctx, dec, interceptor, method)
	}
}

var queryServiceDesc = grpc.ServiceDesc{
	ServiceName: serviceName,
	HandlerType: (*QueryServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Query", Handler: makeHandler("Query")},
		{MethodName: "PrepareStatement", Handler: makeHandler("PrepareStatement")},
		{MethodName: "ExecutePrepared", Handler: makeHandler("ExecutePrepared")},
		{MethodName: "EnumeratePlans", Handler: makeHandler("EnumeratePlans")},
		{MethodName: "CreateNode", Handler: makeHandler("CreateNode")},
		{MethodName: "CreateRel", Handler: makeHandler("CreateRel")},
		{MethodName: "SetNodeProperty", Handler: makeHandler("SetNodeProperty")},
		{MethodName: "DeleteNode", Handler: makeHandler("DeleteNode")},
	},
	Metadata: "graphdb/v1/graphdb.proto",
}
