package rpc

import (
	"encoding/json"

	"google.golang.org/grpc/encoding"
)

// codecName is registered with grpc's encoding package so both the
// server and client sides agree on how request/response messages are
// framed on the wire.
const codecName = "graphdb-json"

// jsonCodec implements encoding.Codec (Marshal/Unmarshal/Name) over
// plain Go structs instead of protoc-gen-go generated proto.Message
// types. The wire contract is still described by the checked-in
// proto/graphdb/v1/graphdb.proto IDL; this codec is the part of the
// teacher's generated-stub pipeline that a protoc invocation would
// normally produce.
type jsonCodec struct{}

func (jsonCodec) Marshal(v interface{}) ([]byte, error) {
	return json.Marshal(v)
}

func (jsonCodec) Unmarshal(data []byte, v interface{}) error {
	return json.Unmarshal(data, v)
}

func (jsonCodec) Name() string {
	return codecName
}

func init() {
	encoding.RegisterCodec(jsonCodec{})
}
