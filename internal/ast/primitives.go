package ast

import "math"

type PrimitiveKind uint8

const (
	PrimBool PrimitiveKind = iota + 1
	PrimInt8
	PrimUInt8
	PrimInt16
	PrimUInt16
	PrimInt32
	PrimUInt32
	PrimVarInt32
	PrimVarUInt32
	PrimInt64
	PrimUInt64
	PrimVarInt62
	PrimVarUInt62
	PrimFloat32
	PrimFloat64
	PrimString
	PrimAnyClass
)

type primitiveInfo struct {
	name     string
	integral bool
	min, max int64
}

var primitiveTable = map[PrimitiveKind]primitiveInfo{
	PrimBool:      {name: "bool"},
	PrimInt8:      {name: "int8", integral: true, min: math.MinInt8, max: math.MaxInt8},
	PrimUInt8:     {name: "uint8", integral: true, min: 0, max: math.MaxUint8},
	PrimInt16:     {name: "int16", integral: true, min: math.MinInt16, max: math.MaxInt16},
	PrimUInt16:    {name: "uint16", integral: true, min: 0, max: math.MaxUint16},
	PrimInt32:     {name: "int32", integral: true, min: math.MinInt32, max: math.MaxInt32},
	PrimUInt32:    {name: "uint32", integral: true, min: 0, max: math.MaxUint32},
	PrimVarInt32:  {name: "varint32", integral: true, min: math.MinInt32, max: math.MaxInt32},
	PrimVarUInt32: {name: "varuint32", integral: true, min: 0, max: math.MaxUint32},
	PrimInt64:     {name: "int64", integral: true, min: math.MinInt64, max: math.MaxInt64},
	PrimUInt64:    {name: "uint64", integral: true, min: 0, max: math.MaxInt64},
	PrimVarInt62:  {name: "varint62", integral: true, min: -(1 << 61), max: 1<<61 - 1},
	PrimVarUInt62: {name: "varuint62", integral: true, min: 0, max: 1<<62 - 1},
	PrimFloat32:   {name: "float32"},
	PrimFloat64:   {name: "float64"},
	PrimString:    {name: "string"},
	PrimAnyClass:  {name: "AnyClass"},
}

// PrimitiveKinds lists every primitive in allocation order.
var PrimitiveKinds = []PrimitiveKind{
	PrimBool, PrimInt8, PrimUInt8, PrimInt16, PrimUInt16, PrimInt32, PrimUInt32,
	PrimVarInt32, PrimVarUInt32, PrimInt64, PrimUInt64, PrimVarInt62, PrimVarUInt62,
	PrimFloat32, PrimFloat64, PrimString, PrimAnyClass,
}

func (k PrimitiveKind) String() string { return primitiveTable[k].name }

// IsIntegral reports whether enums may use the primitive as underlying type.
func (k PrimitiveKind) IsIntegral() bool { return primitiveTable[k].integral }

// IsFloat reports float32/float64.
func (k PrimitiveKind) IsFloat() bool { return k == PrimFloat32 || k == PrimFloat64 }

// Range returns the inclusive value range of an integral primitive.
// uint64 is clamped to int64 because enumerator values are int64.
func (k PrimitiveKind) Range() (lo, hi int64) {
	info := primitiveTable[k]
	return info.min, info.max
}

// Name returns the source spelling of the primitive.
func (p *Primitive) Name() string { return p.Prim.String() }
