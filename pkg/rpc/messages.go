package rpc

// QueryRequest carries a query document (see pkg/querydoc) plus the
// named parameter values a Connection.ExecuteWithParams call would
// substitute, so one message shape serves Query, PrepareStatement,
// and ExecutePrepared alike.
type QueryRequest struct {
	Document []byte                 `json:"document"`
	Params   map[string]interface{} `json:"params,omitempty"`
}

// QueryResponse mirrors session.QueryResult over the wire: column
// names, their logical type names, and row-major cell values.
type QueryResponse struct {
	Columns []string        `json:"columns"`
	Types   []string        `json:"types"`
	Rows    [][]interface{} `json:"rows"`
}

// PrepareResponse returns the opaque handle a later ExecutePrepared/
// ExecuteWithParams call replays against.
type PrepareResponse struct {
	Handle string `json:"handle"`
}

// ExecutePreparedRequest replays a previously prepared statement,
// optionally substituting parameters.
type ExecutePreparedRequest struct {
	Handle string                 `json:"handle"`
	Params map[string]interface{} `json:"params,omitempty"`
}

// PlanResponse mirrors session.PlanDescription.
type PlanResponse struct {
	Plans []string `json:"plans"`
}

// WriteNodeRequest mirrors Connection.CreateNode.
type WriteNodeRequest struct {
	Label      string                 `json:"label"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// WriteNodeResponse returns the offset CreateNode assigned.
type WriteNodeResponse struct {
	Offset uint64 `json:"offset"`
}

// WriteRelRequest mirrors Connection.CreateRel.
type WriteRelRequest struct {
	Label      string                 `json:"label"`
	Src        uint64                 `json:"src"`
	Dst        uint64                 `json:"dst"`
	Properties map[string]interface{} `json:"properties,omitempty"`
}

// WriteRelResponse returns the edge id CreateRel assigned.
type WriteRelResponse struct {
	EdgeID uint64 `json:"edge_id"`
}

// SetPropertyRequest mirrors Connection.SetNodeProperty.
type SetPropertyRequest struct {
	Label    string      `json:"label"`
	Offset   uint64      `json:"offset"`
	Property string      `json:"property"`
	Value    interface{} `json:"value"`
}

// DeleteNodeRequest mirrors Connection.DeleteNode.
type DeleteNodeRequest struct {
	Label  string `json:"label"`
	Offset uint64 `json:"offset"`
}

// Empty is the shared response shape for RPCs with no return value.
type Empty struct{}
