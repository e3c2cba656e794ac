package catalog

// LogicalTypeID enumerates the primitive and composite logical types
// named in spec §3.
type LogicalTypeID uint8

const (
	INT64 LogicalTypeID = iota
	DOUBLE
	BOOL
	DATE
	TIMESTAMP
	INTERVAL
	STRING
	LIST
	NODE
	REL
	PATH
)

func (t LogicalTypeID) String() string {
	switch t {
	case INT64:
		return "INT64"
	case DOUBLE:
		return "DOUBLE"
	case BOOL:
		return "BOOL"
	case DATE:
		return "DATE"
	case TIMESTAMP:
		return "TIMESTAMP"
	case INTERVAL:
		return "INTERVAL"
	case STRING:
		return "STRING"
	case LIST:
		return "LIST"
	case NODE:
		return "NODE"
	case REL:
		return "REL"
	case PATH:
		return "PATH"
	default:
		return "UNKNOWN"
	}
}

// FixedWidth reports the on-column slot width in bytes for a logical
// type, excluding the null bitmap. Variable-width types (STRING,
// LIST) always occupy a 16-byte overflow descriptor slot (spec §4.2).
func (t LogicalTypeID) FixedWidth() int {
	switch t {
	case INT64, DOUBLE, TIMESTAMP:
		return 8
	case BOOL:
		return 1
	case DATE:
		return 4
	case INTERVAL:
		return 12
	case STRING, LIST, PATH:
		return 16 // overflow descriptor
	case NODE, REL:
		return 8 // node/rel offset
	default:
		return 0
	}
}

// IsVariableWidth reports whether values of this type are stored via
// the overflow-file descriptor rather than inline in the column slot.
func (t LogicalTypeID) IsVariableWidth() bool {
	return t == STRING || t == LIST || t == PATH
}

// LogicalType is a primitive type or, for LIST, a composite type
// carrying a child type (spec §3: "LIST-of-T ... with child_type").
type LogicalType struct {
	ID        LogicalTypeID
	ChildType *LogicalType // non-nil iff ID == LIST
}

func Primitive(id LogicalTypeID) LogicalType { return LogicalType{ID: id} }

func ListOf(child LogicalType) LogicalType {
	c := child
	return LogicalType{ID: LIST, ChildType: &c}
}

// PropertyDef is a structured property column definition: name,
// logical type, and the column index it occupies within its label.
type PropertyDef struct {
	Name        string
	Type        LogicalType
	ColumnIndex int
}

// Cardinality constrains a rel label's source-to-destination fan-out.
// Graph storage uses it to choose AdjColumn (1:1/N:1) or AdjLists
// (1:N/N:N) per direction. The plan enumerator does not read it: its
// fan-out estimate assumes ManyToMany for every rel, and the physical
// mapper builds an Extend for every rel (spec §3, §4.8).
type Cardinality uint8

const (
	OneToOne Cardinality = iota
	OneToMany
	ManyToOne
	ManyToMany
)

// NodeLabel is a node-label catalog entry (spec §3).
type NodeLabel struct {
	ID                  uint32
	Name                string
	Properties          []PropertyDef
	HasUnstructuredProps bool
	MaxNodeOffset       uint64
	// PrimaryKeyProperty indexes into Properties; -1 if the label has
	// no primary key (and therefore no hash index).
	PrimaryKeyProperty int
}

func (l *NodeLabel) Property(name string) (PropertyDef, bool) {
	for _, p := range l.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return PropertyDef{}, false
}

// RelDirection distinguishes the forward (src->dst) adjacency from
// the backward (dst->src) adjacency of the same rel label (spec §4.2).
type RelDirection uint8

const (
	Forward RelDirection = iota
	Backward
)

// RelLabel is a rel-label catalog entry (spec §3).
type RelLabel struct {
	ID          uint32
	Name        string
	Properties  []PropertyDef
	SrcLabelIDs []uint32
	DstLabelIDs []uint32
	Cardinality Cardinality
}

func (l *RelLabel) Property(name string) (PropertyDef, bool) {
	for _, p := range l.Properties {
		if p.Name == name {
			return p, true
		}
	}
	return PropertyDef{}, false
}

// AllowsSrc reports whether labelID is a permitted source label.
func (l *RelLabel) AllowsSrc(labelID uint32) bool {
	for _, id := range l.SrcLabelIDs {
		if id == labelID {
			return true
		}
	}
	return false
}
