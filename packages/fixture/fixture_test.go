package fixture

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNew(t *testing.T) {
	v := New(time.Unix(1718000123, 0))

	assert.Equal(t, "1718000123", v.Suffix)
	assert.Equal(t, "D000123", v.DeptCode)
	assert.Equal(t, "行政部0123", v.DeptName)
	assert.Equal(t, "A-123", v.RoomNo)
	assert.Equal(t, "E000123", v.EmpNo)
	assert.Equal(t, "员工0123", v.EmpName)
	assert.Equal(t, "AS000123", v.AssetNo)
	assert.Equal(t, "笔记本0123", v.AssetName)
}

func TestFromSuffix_Short(t *testing.T) {
	v := FromSuffix("42")

	assert.Equal(t, "D42", v.DeptCode)
	assert.Equal(t, "A-42", v.RoomNo)
}

func TestNew_DiffersAcrossSeconds(t *testing.T) {
	a := New(time.Unix(1718000123, 0))
	b := New(time.Unix(1718000124, 0))

	assert.NotEqual(t, a.DeptCode, b.DeptCode)
	assert.NotEqual(t, a.EmpNo, b.EmpNo)
}
