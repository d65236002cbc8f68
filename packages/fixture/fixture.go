// Package fixture derives the entity field values a probe run submits.
//
// Every value carries a suffix taken from the run's start time in unix
// seconds, so repeated runs against the same server do not collide on the
// unique columns (deptCode, roomNo, empNo, assetNo).
package fixture

import (
	"strconv"
	"time"
)

// Values are the generated field values for one run.
type Values struct {
	Suffix    string
	DeptCode  string
	DeptName  string
	RoomNo    string
	EmpNo     string
	EmpName   string
	AssetNo   string
	AssetName string
}

// New builds the values for a run starting at now.
func New(now time.Time) Values {
	return FromSuffix(strconv.FormatInt(now.Unix(), 10))
}

// FromSuffix builds the values from an explicit suffix string.
func FromSuffix(suffix string) Values {
	return Values{
		Suffix:    suffix,
		DeptCode:  "D" + last(suffix, 6),
		DeptName:  "行政部" + last(suffix, 4),
		RoomNo:    "A-" + last(suffix, 3),
		EmpNo:     "E" + last(suffix, 6),
		EmpName:   "员工" + last(suffix, 4),
		AssetNo:   "AS" + last(suffix, 6),
		AssetName: "笔记本" + last(suffix, 4),
	}
}

// last returns the trailing n bytes of s, or all of s when it is shorter.
func last(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[len(s)-n:]
}
