// Package jsonval defines the JSON value model: a tagged union over the five
// JSON value kinds (string, number, object, array, literal) with typed
// wrappers, structural equality, deep copy, and compact serialization.
//
// A Value holds exactly one active variant at a time. Objects and arrays
// exclusively own their child Values, so the model is always a strict tree;
// no sharing and no cycles are possible through this API.
package jsonval

import (
	"fmt"
	"math"
	"sort"

	"github.com/lattice-substrate/json-codec/jsonerr"
)

// Kind identifies the active variant of a Value.
type Kind int

const (
	KindLiteral Kind = iota
	KindString
	KindNumber
	KindObject
	KindArray
)

// String returns the kind name for diagnostics.
func (k Kind) String() string {
	switch k {
	case KindLiteral:
		return "Literal"
	case KindString:
		return "String"
	case KindNumber:
		return "Number"
	case KindObject:
		return "Object"
	case KindArray:
		return "Array"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// Literal is one of the three JSON literal values. The zero Literal is Null,
// which makes the zero Value a JSON null.
type Literal int

const (
	Null Literal = iota
	True
	False
)

// String returns the JSON text of the literal.
func (l Literal) String() string {
	switch l {
	case Null:
		return "null"
	case True:
		return "true"
	case False:
		return "false"
	}
	return fmt.Sprintf("Literal(%d)", int(l))
}

// String is a JSON string payload. The bytes are required to be UTF-8 by the
// caller's contract; the model validates them only when serializing.
// Equality is byte-exact.
type String string

// Number holds either a 64-bit signed integer or an IEEE 754 double, never
// both. IsFloat and IsInteger are complementary and exhaustive.
type Number struct {
	isFloat bool
	i       int64
	f       float64
}

// Int constructs an integer-case Number.
func Int(i int64) Number {
	return Number{i: i}
}

// Float constructs a float-case Number.
func Float(f float64) Number {
	return Number{isFloat: true, f: f}
}

// Uint constructs an integer-case Number from an unsigned value. JSON has no
// unsigned type, so values above the signed 64-bit range are rejected rather
// than silently losing data.
func Uint(u uint64) (Number, error) {
	if u > math.MaxInt64 {
		return Number{}, jsonerr.New(jsonerr.IntegerRange,
			"Unsigned integer exceeds limits")
	}
	return Number{i: int64(u)}, nil
}

// IsFloat reports whether the stored case is the IEEE 754 double.
func (n Number) IsFloat() bool { return n.isFloat }

// IsInteger reports whether the stored case is the 64-bit signed integer.
func (n Number) IsInteger() bool { return !n.isFloat }

// GetFloat returns the number as a double, casting when the integer case is
// stored. It always succeeds; this is a convenience, not a validation.
func (n Number) GetFloat() float64 {
	if n.isFloat {
		return n.f
	}
	return float64(n.i)
}

// GetInteger returns the number as a signed integer, casting when the float
// case is stored. It always succeeds; this is a convenience, not a validation.
func (n Number) GetInteger() int64 {
	if n.isFloat {
		return int64(n.f)
	}
	return n.i
}

// Equal compares two Numbers. Equality holds only within the same stored
// case: Int(2) and Float(2.0) are not equal by this model's contract.
func (n Number) Equal(other Number) bool {
	if n.isFloat != other.isFloat {
		return false
	}
	if n.isFloat {
		return n.f == other.f
	}
	return n.i == other.i
}

// Object is an associative mapping from string keys to child Values. Keys are
// unique. Iteration for serialization and equality-insensitive comparison
// uses key-sort order, so two objects built from the same pairs in different
// insertion order serialize identically.
type Object struct {
	members map[string]*Value
}

// NewObject returns an empty Object.
func NewObject() *Object {
	return &Object{members: make(map[string]*Value)}
}

// Len returns the number of members.
func (o *Object) Len() int { return len(o.members) }

// HasKey reports whether the key is present. It never fails.
func (o *Object) HasKey(key string) bool {
	_, ok := o.members[key]
	return ok
}

// Get returns the member for key, or a KeyNotFound error.
func (o *Object) Get(key string) (*Value, error) {
	v, ok := o.members[key]
	if !ok {
		return nil, jsonerr.New(jsonerr.KeyNotFound,
			fmt.Sprintf("Key %q not found in JSON object", key))
	}
	return v, nil
}

// Index returns the member for key, creating a default (null) member when
// the key is absent. This is the mutating accessor.
func (o *Object) Index(key string) *Value {
	if o.members == nil {
		o.members = make(map[string]*Value)
	}
	v, ok := o.members[key]
	if !ok {
		v = &Value{}
		o.members[key] = v
	}
	return v
}

// Set stores v as the member for key, replacing any existing member. The
// object takes ownership of v.
func (o *Object) Set(key string, v *Value) {
	if o.members == nil {
		o.members = make(map[string]*Value)
	}
	if v == nil {
		v = &Value{}
	}
	o.members[key] = v
}

// Delete removes the member for key if present.
func (o *Object) Delete(key string) {
	delete(o.members, key)
}

// Keys returns the member keys in sorted order.
func (o *Object) Keys() []string {
	keys := make([]string, 0, len(o.members))
	for k := range o.members {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// Equal compares two Objects structurally. Key order is irrelevant.
func (o *Object) Equal(other *Object) bool {
	if o.Len() != other.Len() {
		return false
	}
	for k, v := range o.members {
		ov, ok := other.members[k]
		if !ok || !v.Equal(ov) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the object and its subtree.
func (o *Object) Clone() *Object {
	c := &Object{members: make(map[string]*Value, len(o.members))}
	for k, v := range o.members {
		c.members[k] = v.Clone()
	}
	return c
}

// Array is an ordered sequence of child Values. Order is significant for
// both equality and serialization.
type Array struct {
	elems []*Value
}

// NewArray returns an empty Array.
func NewArray() *Array {
	return &Array{}
}

// Len returns the number of elements.
func (a *Array) Len() int { return len(a.elems) }

// Index returns the element at position i, or an IndexOutOfRange error.
func (a *Array) Index(i int) (*Value, error) {
	if i < 0 || i >= len(a.elems) {
		return nil, jsonerr.New(jsonerr.IndexOutOfRange,
			fmt.Sprintf("Index %d out of range in JSON array of size %d",
				i, len(a.elems)))
	}
	return a.elems[i], nil
}

// Append adds v to the end of the array. The array takes ownership of v.
func (a *Array) Append(v *Value) {
	if v == nil {
		v = &Value{}
	}
	a.elems = append(a.elems, v)
}

// Equal compares two Arrays elementwise. Order is significant.
func (a *Array) Equal(other *Array) bool {
	if len(a.elems) != len(other.elems) {
		return false
	}
	for i, v := range a.elems {
		if !v.Equal(other.elems[i]) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the array and its subtree.
func (a *Array) Clone() *Array {
	c := &Array{elems: make([]*Value, len(a.elems))}
	for i, v := range a.elems {
		c.elems[i] = v.Clone()
	}
	return c
}

// Value is the tagged union over the five JSON value kinds. Exactly one
// variant is active; AssignType and the Set methods replace the active
// variant rather than mutating it in place. The zero Value is a null literal.
type Value struct {
	kind Kind
	str  String
	num  Number
	obj  *Object
	arr  *Array
	lit  Literal
}

// NewValue returns a Value holding a default instance of the given kind.
func NewValue(kind Kind) *Value {
	v := &Value{}
	v.AssignType(kind)
	return v
}

// StringValue returns a Value holding the given string.
func StringValue(s string) *Value {
	return &Value{kind: KindString, str: String(s)}
}

// NumberValue returns a Value holding the given number.
func NumberValue(n Number) *Value {
	return &Value{kind: KindNumber, num: n}
}

// IntValue returns a Value holding an integer-case number.
func IntValue(i int64) *Value {
	return NumberValue(Int(i))
}

// FloatValue returns a Value holding a float-case number.
func FloatValue(f float64) *Value {
	return NumberValue(Float(f))
}

// UintValue returns a Value holding an integer-case number, rejecting values
// above the signed 64-bit range.
func UintValue(u uint64) (*Value, error) {
	n, err := Uint(u)
	if err != nil {
		return nil, err
	}
	return NumberValue(n), nil
}

// LiteralValue returns a Value holding the given literal.
func LiteralValue(l Literal) *Value {
	return &Value{kind: KindLiteral, lit: l}
}

// ObjectValue returns a Value holding the given object. A nil object is
// replaced with an empty one. The value takes ownership of obj.
func ObjectValue(obj *Object) *Value {
	if obj == nil {
		obj = NewObject()
	}
	return &Value{kind: KindObject, obj: obj}
}

// ArrayValue returns a Value holding the given array. A nil array is
// replaced with an empty one. The value takes ownership of arr.
func ArrayValue(arr *Array) *Value {
	if arr == nil {
		arr = NewArray()
	}
	return &Value{kind: KindArray, arr: arr}
}

// Kind returns the active variant of the value.
func (v *Value) Kind() Kind { return v.kind }

// AssignType resets the value to a default instance of the given kind,
// discarding the previous payload. This is the only way to change a Value's
// kind in place.
func (v *Value) AssignType(kind Kind) {
	*v = Value{kind: kind}
	switch kind {
	case KindObject:
		v.obj = NewObject()
	case KindArray:
		v.arr = NewArray()
	}
}

// SetString replaces the value with the given string.
func (v *Value) SetString(s string) {
	*v = Value{kind: KindString, str: String(s)}
}

// SetNumber replaces the value with the given number.
func (v *Value) SetNumber(n Number) {
	*v = Value{kind: KindNumber, num: n}
}

// SetLiteral replaces the value with the given literal.
func (v *Value) SetLiteral(l Literal) {
	*v = Value{kind: KindLiteral, lit: l}
}

// SetObject replaces the value with the given object, taking ownership.
func (v *Value) SetObject(obj *Object) {
	if obj == nil {
		obj = NewObject()
	}
	*v = Value{kind: KindObject, obj: obj}
}

// SetArray replaces the value with the given array, taking ownership.
func (v *Value) SetArray(arr *Array) {
	if arr == nil {
		arr = NewArray()
	}
	*v = Value{kind: KindArray, arr: arr}
}

func (v *Value) mismatch(want Kind) error {
	return jsonerr.New(jsonerr.TypeMismatch,
		fmt.Sprintf("JSON value does not contain a %s type (holds %s)",
			want, v.kind))
}

// AsString returns the string payload, or a TypeMismatch error.
func (v *Value) AsString() (*String, error) {
	if v.kind != KindString {
		return nil, v.mismatch(KindString)
	}
	return &v.str, nil
}

// AsNumber returns the number payload, or a TypeMismatch error.
func (v *Value) AsNumber() (*Number, error) {
	if v.kind != KindNumber {
		return nil, v.mismatch(KindNumber)
	}
	return &v.num, nil
}

// AsObject returns the object payload, or a TypeMismatch error.
func (v *Value) AsObject() (*Object, error) {
	if v.kind != KindObject {
		return nil, v.mismatch(KindObject)
	}
	return v.obj, nil
}

// AsArray returns the array payload, or a TypeMismatch error.
func (v *Value) AsArray() (*Array, error) {
	if v.kind != KindArray {
		return nil, v.mismatch(KindArray)
	}
	return v.arr, nil
}

// AsLiteral returns the literal payload, or a TypeMismatch error.
func (v *Value) AsLiteral() (Literal, error) {
	if v.kind != KindLiteral {
		return Null, v.mismatch(KindLiteral)
	}
	return v.lit, nil
}

// Index returns the array element at position i, failing with TypeMismatch
// when the value is not an array.
func (v *Value) Index(i int) (*Value, error) {
	arr, err := v.AsArray()
	if err != nil {
		return nil, err
	}
	return arr.Index(i)
}

// Member returns the object member for key, creating a default (null) member
// when absent. It fails with TypeMismatch when the value is not an object.
func (v *Value) Member(key string) (*Value, error) {
	obj, err := v.AsObject()
	if err != nil {
		return nil, err
	}
	return obj.Index(key), nil
}

// Get returns the object member for key without creating it, failing with
// TypeMismatch or KeyNotFound.
func (v *Value) Get(key string) (*Value, error) {
	obj, err := v.AsObject()
	if err != nil {
		return nil, err
	}
	return obj.Get(key)
}

// HasKey reports whether the value is an object containing key. It never
// fails; a non-object value simply has no keys.
func (v *Value) HasKey(key string) bool {
	if v.kind != KindObject {
		return false
	}
	return v.obj.HasKey(key)
}

// Equal compares two values structurally: the active variants must match and
// the variant's equality must hold recursively.
func (v *Value) Equal(other *Value) bool {
	if v.kind != other.kind {
		return false
	}
	switch v.kind {
	case KindLiteral:
		return v.lit == other.lit
	case KindString:
		return v.str == other.str
	case KindNumber:
		return v.num.Equal(other.num)
	case KindObject:
		return v.obj.Equal(other.obj)
	case KindArray:
		return v.arr.Equal(other.arr)
	}
	return false
}

// Clone returns a deep copy of the value and its subtree.
func (v *Value) Clone() *Value {
	c := &Value{kind: v.kind, str: v.str, num: v.num, lit: v.lit}
	switch v.kind {
	case KindObject:
		c.obj = v.obj.Clone()
	case KindArray:
		c.arr = v.arr.Clone()
	}
	return c
}
