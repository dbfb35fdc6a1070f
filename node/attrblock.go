// Package node implements Node and AttrBlock: named typed attributes,
// per-node compute and validate contracts, and stable node identity.
package node

import (
	"fmt"

	"github.com/dcattermole/opencompgraph-go/hash"
	"github.com/dcattermole/opencompgraph-go/ocgerr"
)

// AttrBlock holds a node's named i32/f32/str attributes. Only declared
// names exist; Get on an undeclared name returns the zero value, Set on
// an undeclared name is ignored and reports ocgerr.ErrAttrMissing.
type AttrBlock struct {
	i32 map[string]int32
	f32 map[string]float32
	str map[string]string
}

// NewAttrBlock returns an empty AttrBlock.
func NewAttrBlock() *AttrBlock {
	return &AttrBlock{
		i32: make(map[string]int32),
		f32: make(map[string]float32),
		str: make(map[string]string),
	}
}

// DeclareI32 declares name with default value def.
func (a *AttrBlock) DeclareI32(name string, def int32) { a.i32[name] = def }

// DeclareF32 declares name with default value def.
func (a *AttrBlock) DeclareF32(name string, def float32) { a.f32[name] = def }

// DeclareStr declares name with default value def.
func (a *AttrBlock) DeclareStr(name string, def string) { a.str[name] = def }

// ExistsI32 reports whether name was declared as an i32 attribute.
func (a *AttrBlock) ExistsI32(name string) bool { _, ok := a.i32[name]; return ok }

// ExistsF32 reports whether name was declared as an f32 attribute.
func (a *AttrBlock) ExistsF32(name string) bool { _, ok := a.f32[name]; return ok }

// ExistsStr reports whether name was declared as a str attribute.
func (a *AttrBlock) ExistsStr(name string) bool { _, ok := a.str[name]; return ok }

// GetI32 returns name's value, or 0 if undeclared.
func (a *AttrBlock) GetI32(name string) int32 { return a.i32[name] }

// GetF32 returns name's value, or 0 if undeclared.
func (a *AttrBlock) GetF32(name string) float32 { return a.f32[name] }

// GetStr returns name's value, or "" if undeclared.
func (a *AttrBlock) GetStr(name string) string { return a.str[name] }

// SetI32 sets name's value. Setting an undeclared name changes nothing
// and reports ocgerr.ErrAttrMissing.
func (a *AttrBlock) SetI32(name string, v int32) error {
	if _, ok := a.i32[name]; !ok {
		return fmt.Errorf("set i32 %q: %w", name, ocgerr.ErrAttrMissing)
	}
	a.i32[name] = v
	return nil
}

// SetF32 sets name's value. Setting an undeclared name changes nothing
// and reports ocgerr.ErrAttrMissing.
func (a *AttrBlock) SetF32(name string, v float32) error {
	if _, ok := a.f32[name]; !ok {
		return fmt.Errorf("set f32 %q: %w", name, ocgerr.ErrAttrMissing)
	}
	a.f32[name] = v
	return nil
}

// SetStr sets name's value. Setting an undeclared name changes nothing
// and reports ocgerr.ErrAttrMissing.
func (a *AttrBlock) SetStr(name string, v string) error {
	if _, ok := a.str[name]; !ok {
		return fmt.Errorf("set str %q: %w", name, ocgerr.ErrAttrMissing)
	}
	a.str[name] = v
	return nil
}

// GetBool reads an i32 attribute as a boolean (non-zero = true).
func (a *AttrBlock) GetBool(name string) bool { return a.GetI32(name) != 0 }

// SetBool writes an i32 attribute as a boolean.
func (a *AttrBlock) SetBool(name string, v bool) error {
	if v {
		return a.SetI32(name, 1)
	}
	return a.SetI32(name, 0)
}

// hashNamedI32 folds each name and its value into d, in the order the
// caller lists them, so attr_hash is deterministic regardless of map
// iteration order.
func (a *AttrBlock) hashNamedI32(d *hash.Digest, names ...string) {
	for _, n := range names {
		d.WriteString(n)
		d.WriteInt32(a.GetI32(n))
	}
}

func (a *AttrBlock) hashNamedF32(d *hash.Digest, names ...string) {
	for _, n := range names {
		d.WriteString(n)
		d.WriteFloat32(a.GetF32(n))
	}
}

func (a *AttrBlock) hashNamedStr(d *hash.Digest, names ...string) {
	for _, n := range names {
		d.WriteString(n)
		d.WriteString(a.GetStr(n))
	}
}
