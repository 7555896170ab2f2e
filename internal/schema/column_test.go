package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeColumn(t *testing.T) {
	def := "((0))"
	comment := "number of units"

	raw := RawColumn{
		Name:          "quantity",
		TypeName:      "int",
		Unsigned:      true,
		Autoincrement: false,
		Nullable:      true,
		Default:       &def,
		Comment:       &comment,
	}

	col, err := NormalizeColumn(SQLServerTypes, raw)
	require.NoError(t, err)

	assert.Equal(t, "quantity", col.Name)
	assert.Equal(t, TypeInteger, col.Type)
	assert.True(t, col.Unsigned)
	assert.True(t, col.Nullable)
	assert.False(t, col.Autoincrement)
	require.NotNil(t, col.Default)
	assert.Equal(t, "((0))", *col.Default)
	require.NotNil(t, col.Comment)
	assert.Equal(t, comment, *col.Comment)

	def = "changed"
	assert.Equal(t, "((0))", *col.Default, "default must be copied")
}

func TestNormalizeColumnUnsignedOnlyForIntegers(t *testing.T) {
	tests := []struct {
		typeName string
		unsigned bool
		want     bool
	}{
		{"bigint", true, true},
		{"bigint", false, false},
		{"tinyint", true, true},
		{"decimal", true, false},
		{"varchar", true, false},
		{"bit", true, false},
		{"datetime2", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.typeName, func(t *testing.T) {
			col, err := NormalizeColumn(SQLServerTypes, RawColumn{Name: "c", TypeName: tt.typeName, Unsigned: tt.unsigned})
			require.NoError(t, err)
			assert.Equal(t, tt.want, col.Unsigned)
		})
	}
}

func TestNormalizeColumnUnmappedType(t *testing.T) {
	_, err := NormalizeColumn(SQLServerTypes, RawColumn{Name: "shape", TypeName: "geometry"})
	assert.ErrorIs(t, err, ErrUnmappedType)
}

func TestNormalizeColumnAbsentOptionals(t *testing.T) {
	col, err := NormalizeColumn(SQLServerTypes, RawColumn{Name: "id", TypeName: "int", Autoincrement: true})
	require.NoError(t, err)
	assert.Nil(t, col.Default)
	assert.Nil(t, col.Comment)
	assert.True(t, col.Autoincrement)
	assert.False(t, col.Nullable)
}
