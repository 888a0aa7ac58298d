// Copyright (C) 2023, Ava Labs, Inc. All rights reserved.
// See the file LICENSE for licensing terms.

package registry

import (
	"errors"
	"fmt"
	"slices"

	"golang.org/x/exp/maps"

	"github.com/ava-labs/hyperdex/codec"
	"github.com/ava-labs/hyperdex/guard"
)

var ErrInvalidCommand = errors.New("invalid command")

// Entry pairs an opcode with the authority it requires and the decoder of its
// payload.
type Entry[T any] struct {
	Opcode uint8
	Name   string
	Level  guard.Level
	Decode func(*codec.Packer) (T, error)
	New    func() T
}

// Registry maps opcodes to entries. Entries are independent of each other, so
// adding an opcode never touches an existing one.
type Registry[T any] struct {
	name string

	byOpcode map[uint8]*Entry[T]
	byName   map[string]uint8
	byType   map[string]uint8
}

func New[T any](name string) *Registry[T] {
	return &Registry[T]{
		name:     name,
		byOpcode: map[uint8]*Entry[T]{},
		byName:   map[string]uint8{},
		byType:   map[string]uint8{},
	}
}

func (r *Registry[T]) Name() string {
	return r.name
}

func (r *Registry[T]) Register(e *Entry[T]) error {
	if e.Decode == nil || e.New == nil {
		return fmt.Errorf("%w: %s has no decoder", codec.ErrFieldNotPopulated, e.Name)
	}
	if _, ok := r.byOpcode[e.Opcode]; ok {
		return fmt.Errorf("%w: opcode %d in %s registry", codec.ErrDuplicateItem, e.Opcode, r.name)
	}
	if _, ok := r.byName[e.Name]; ok {
		return fmt.Errorf("%w: %s in %s registry", codec.ErrDuplicateItem, e.Name, r.name)
	}
	k := fmt.Sprintf("%T", e.New())
	if _, ok := r.byType[k]; ok {
		return fmt.Errorf("%w: type %s in %s registry", codec.ErrDuplicateItem, k, r.name)
	}
	r.byOpcode[e.Opcode] = e
	r.byName[e.Name] = e.Opcode
	r.byType[k] = e.Opcode
	return nil
}

// Lookup never falls through: an unknown opcode is ErrInvalidCommand.
func (r *Registry[T]) Lookup(opcode uint8) (*Entry[T], error) {
	e, ok := r.byOpcode[opcode]
	if !ok {
		return nil, fmt.Errorf("%w: opcode %d not in %s registry", ErrInvalidCommand, opcode, r.name)
	}
	return e, nil
}

func (r *Registry[T]) LookupName(name string) (*Entry[T], bool) {
	opcode, ok := r.byName[name]
	if !ok {
		return nil, false
	}
	return r.byOpcode[opcode], true
}

func (r *Registry[T]) LookupType(o T) (*Entry[T], bool) {
	opcode, ok := r.byType[fmt.Sprintf("%T", o)]
	if !ok {
		return nil, false
	}
	return r.byOpcode[opcode], true
}

// Entries returns every entry in opcode order.
func (r *Registry[T]) Entries() []*Entry[T] {
	opcodes := maps.Keys(r.byOpcode)
	slices.Sort(opcodes)
	entries := make([]*Entry[T], len(opcodes))
	for i, op := range opcodes {
		entries[i] = r.byOpcode[op]
	}
	return entries
}
