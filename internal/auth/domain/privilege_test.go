package domain

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPrivilegeSetUnion(t *testing.T) {
	read := PrivilegeSet{Read: true}
	write := PrivilegeSet{Create: true, Update: true}

	got := read.Union(write)
	require.Equal(t, PrivilegeSet{Create: true, Read: true, Update: true}, got)

	// Union is commutative and idempotent.
	require.Equal(t, got, write.Union(read))
	require.Equal(t, got, got.Union(got))
}

func TestPrivilegeSetSubsetOf(t *testing.T) {
	caps := PrivilegeSet{Create: true, Read: true, Update: true, Delete: true}

	require.True(t, PrivilegeSet{Read: true}.SubsetOf(caps))
	require.True(t, PrivilegeSet{}.SubsetOf(caps))
	require.True(t, caps.SubsetOf(caps))
	require.False(t, PrivilegeSet{Print: true}.SubsetOf(caps))
	require.False(t, PrivilegeSet{Read: true, Export: true}.SubsetOf(caps))
}

func TestPrivilegeSetHas(t *testing.T) {
	p := PrivilegeSet{Read: true, Export: true}

	require.True(t, p.Has(ActionRead))
	require.True(t, p.Has(ActionExport))
	require.False(t, p.Has(ActionCreate))
	require.False(t, p.Has("unknown-action"))
}
