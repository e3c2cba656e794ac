/*
Package rpc exposes a pkg/session.Database as the QueryService gRPC
surface described in proto/graphdb/v1/graphdb.proto: Query,
PrepareStatement, ExecutePrepared, EnumeratePlans, and the
CREATE/SET/DELETE write RPCs, mirroring pkg/session.Connection's
methods one-for-one.

Message framing uses a hand-written JSON codec (see codec.go) rather
than protoc-gen-go generated proto.Message types, since this
environment has no protoc toolchain available to regenerate the
stubs from the checked-in .proto IDL. The service descriptor
(service.go) is still assembled by hand in the same shape
protoc-gen-go-grpc produces, so swapping in real generated types
later is a matter of regenerating and relinking, not redesigning.

ReadOnlyInterceptor restricts a listener to Query/PrepareStatement/
ExecutePrepared/EnumeratePlans, the way the teacher's
ReadOnlyInterceptor restricts its Unix-socket listener to methods
prefixed List, Get or Watch.
*/
package rpc
