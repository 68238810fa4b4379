package graph

import (
	"fmt"

	"github.com/zclconf/go-cty/cty"
)

// DataType identifies the element type of a tensor value.
type DataType uint8

const (
	TypeUnknown DataType = iota
	TypeFloat32
	TypeFloat16
	TypeInt64
	TypeInt32
	TypeInt16
	TypeUInt16
	TypeInt8
	TypeUInt8
	TypeBool
)

var dataTypeNames = map[DataType]string{
	TypeUnknown: "unknown",
	TypeFloat32: "float32",
	TypeFloat16: "float16",
	TypeInt64:   "int64",
	TypeInt32:   "int32",
	TypeInt16:   "int16",
	TypeUInt16:  "uint16",
	TypeInt8:    "int8",
	TypeUInt8:   "uint8",
	TypeBool:    "bool",
}

// String returns the lowercase name of the data type.
func (t DataType) String() string {
	if name, ok := dataTypeNames[t]; ok {
		return name
	}
	return "unknown"
}

// ParseDataType converts a type name from a graph definition into a DataType.
func ParseDataType(name string) (DataType, error) {
	for t, n := range dataTypeNames {
		if n == name && t != TypeUnknown {
			return t, nil
		}
	}
	return TypeUnknown, fmt.Errorf("unknown data type: %q", name)
}

// Value is a named, typed tensor descriptor. A value is produced by exactly
// one node output within its graph, or supplied externally as a graph input
// or initializer.
type Value struct {
	// Name is the unique name of the value within its graph scope.
	Name string
	// Type is the element type of the tensor.
	Type DataType
	// Const marks the value as an initializer (compile-time constant).
	Const bool
	// External marks a constant whose payload is stored out-of-line. The
	// inline materializer clears this flag when it embeds the payload.
	External bool
	// Inline holds the embedded constant payload, when present.
	Inline *cty.Value
}

// clone returns an independent copy of the value descriptor.
func (v *Value) clone() *Value {
	cp := *v
	return &cp
}
