package rpc

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"net"
	"sync"

	"google.golang.org/grpc"

	"github.com/cuemby/graphdb/pkg/dberr"
	"github.com/cuemby/graphdb/pkg/log"
	"github.com/cuemby/graphdb/pkg/querydoc"
	"github.com/cuemby/graphdb/pkg/session"
)

// Server adapts a pkg/session.Database to the QueryService gRPC
// surface, the role the teacher's api.Server plays over its
// manager.Manager: a thin RPC-shaped wrapper, not a second copy of
// the engine's logic.
type Server struct {
	db   *session.Database
	conn *session.Connection
	grpc *grpc.Server

	mu       sync.Mutex
	prepared map[string]*session.PreparedStatement
}

// NewServer wires a fresh *grpc.Server around db, registering both
// the QueryService implementation and the metrics interceptor every
// RPC passes through.
func NewServer(db *session.Database, readOnly bool) *Server {
	var opts []grpc.ServerOption
	opts = append(opts, grpc.ForceServerCodec(jsonCodec{}))

	interceptors := []grpc.UnaryServerInterceptor{MetricsInterceptor()}
	if readOnly {
		interceptors = append(interceptors, ReadOnlyInterceptor())
	}
	opts = append(opts, grpc.ChainUnaryInterceptor(interceptors...))

	s := &Server{
		db:       db,
		conn:     db.Connect(),
		grpc:     grpc.NewServer(opts...),
		prepared: make(map[string]*session.PreparedStatement),
	}
	RegisterQueryServiceServer(s.grpc, s)
	return s
}

// Start listens on addr and serves until the listener errors or Stop
// is called, the same Listen-then-Serve shape as api.Server.Start.
func (s *Server) Start(addr string) error {
	lis, err := net.Listen("tcp", addr)
	if err != nil {
		return dberr.Wrap(dberr.KindIOError, err, "listen on %s", addr)
	}
	log.WithComponent("rpc").Info().Str("addr", addr).Msg("query service listening")
	return s.grpc.Serve(lis)
}

// Stop gracefully drains in-flight RPCs before shutting down.
func (s *Server) Stop() {
	s.grpc.GracefulStop()
}

// Query implements QueryServiceServer.
func (s *Server) Query(ctx context.Context, req *QueryRequest) (*QueryResponse, error) {
	parsed, err := querydoc.Parse(req.Document)
	if err != nil {
		return nil, err
	}
	bq, err := parsed.Bind()
	if err != nil {
		return nil, err
	}
	result, err := s.conn.Query(ctx, bq)
	if err != nil {
		return nil, err
	}
	return toQueryResponse(result), nil
}

// PrepareStatement implements QueryServiceServer. The prepared
// statement itself is kept server-side, keyed by a random handle,
// since session.PreparedStatement is not a wire-serializable type.
func (s *Server) PrepareStatement(ctx context.Context, req *QueryRequest) (*PrepareResponse, error) {
	parsed, err := querydoc.Parse(req.Document)
	if err != nil {
		return nil, err
	}
	bq, err := parsed.Bind()
	if err != nil {
		return nil, err
	}
	stmt, err := s.conn.Prepare(bq)
	if err != nil {
		return nil, err
	}

	buf := make([]byte, 8)
	_, _ = rand.Read(buf)
	handle := hex.EncodeToString(buf)

	s.mu.Lock()
	s.prepared[handle] = stmt
	s.mu.Unlock()
	return &PrepareResponse{Handle: handle}, nil
}

// ExecutePrepared implements QueryServiceServer.
func (s *Server) ExecutePrepared(ctx context.Context, req *ExecutePreparedRequest) (*QueryResponse, error) {
	s.mu.Lock()
	stmt, ok := s.prepared[req.Handle]
	s.mu.Unlock()
	if !ok {
		return nil, dberr.New(dberr.KindBindError, "unknown prepared statement handle %q", req.Handle)
	}
	var result *session.QueryResult
	var err error
	if len(req.Params) > 0 {
		result, err = s.conn.ExecuteWithParams(ctx, stmt, req.Params)
	} else {
		result, err = s.conn.ExecutePrepared(ctx, stmt)
	}
	if err != nil {
		return nil, err
	}
	return toQueryResponse(result), nil
}

// EnumeratePlans implements QueryServiceServer.
func (s *Server) EnumeratePlans(ctx context.Context, req *QueryRequest) (*PlanResponse, error) {
	parsed, err := querydoc.Parse(req.Document)
	if err != nil {
		return nil, err
	}
	bq, err := parsed.Bind()
	if err != nil {
		return nil, err
	}
	plans, err := s.conn.EnumeratePlans(bq)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(plans))
	for i, p := range plans {
		out[i] = p.Description
	}
	return &PlanResponse{Plans: out}, nil
}

// CreateNode implements QueryServiceServer.
func (s *Server) CreateNode(ctx context.Context, req *WriteNodeRequest) (*WriteNodeResponse, error) {
	offset, err := s.conn.CreateNode(req.Label, req.Properties)
	if err != nil {
		return nil, err
	}
	return &WriteNodeResponse{Offset: offset}, nil
}

// CreateRel implements QueryServiceServer.
func (s *Server) CreateRel(ctx context.Context, req *WriteRelRequest) (*WriteRelResponse, error) {
	edgeID, err := s.conn.CreateRel(req.Label, req.Src, req.Dst, req.Properties)
	if err != nil {
		return nil, err
	}
	return &WriteRelResponse{EdgeID: edgeID}, nil
}

// SetNodeProperty implements QueryServiceServer.
func (s *Server) SetNodeProperty(ctx context.Context, req *SetPropertyRequest) (*Empty, error) {
	if err := s.conn.SetNodeProperty(req.Label, req.Offset, req.Property, req.Value); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

// DeleteNode implements QueryServiceServer.
func (s *Server) DeleteNode(ctx context.Context, req *DeleteNodeRequest) (*Empty, error) {
	if err := s.conn.DeleteNode(req.Label, req.Offset); err != nil {
		return nil, err
	}
	return &Empty{}, nil
}

func toQueryResponse(result *session.QueryResult) *QueryResponse {
	types := make([]string, len(result.Types))
	for i, t := range result.Types {
		types[i] = t.ID.String()
	}
	rows := make([][]interface{}, len(result.Rows))
	for i, row := range result.Rows {
		out := make([]interface{}, len(row))
		copy(out, row)
		rows[i] = out
	}
	return &QueryResponse{Columns: result.Columns, Types: types, Rows: rows}
}
