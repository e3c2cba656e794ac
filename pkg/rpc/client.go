package rpc

import (
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/cuemby/graphdb/pkg/dberr"
)

// Client wraps a dialed QueryService connection for CLI usage,
// mirroring the teacher's pkg/client.Client shape: a *grpc.ClientConn
// plus the typed stub built over it.
type Client struct {
	conn   *grpc.ClientConn
	Client QueryServiceClient
}

// NewClient dials addr over plaintext TCP. Unlike the teacher's
// cluster-facing client, graphdb's gRPC surface has no cross-node
// trust boundary to enforce — a single embedded Database process
// serves one operator's CLI/driver traffic, so mTLS's certificate
// provisioning flow (security.GetCertDir/CertExists) has nothing to
// protect here and is left out of scope.
func NewClient(addr string) (*Client, error) {
	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithDefaultCallOptions(grpc.ForceCodec(jsonCodec{})),
	)
	if err != nil {
		return nil, dberr.Wrap(dberr.KindIOError, err, "dial %s", addr)
	}
	return &Client{conn: conn, Client: NewQueryServiceClient(conn)}, nil
}

// Close releases the underlying connection.
func (c *Client) Close() error {
	if err := c.conn.Close(); err != nil {
		return fmt.Errorf("close rpc client: %w", err)
	}
	return nil
}
