// This file is part of gnunet-go, a GNUnet-implementation in Golang.
// Copyright (C) 2019, 2020 Bernd Fix  >Y<
//
// gnunet-go is free software: you can redistribute it and/or modify it
// under the terms of the GNU Affero General Public License as published
// by the Free Software Foundation, either version 3 of the License,
// or (at your option) any later version.
//
// gnunet-go is distributed in the hope that it will be useful, but
// WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the GNU
// Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.
//
// SPDX-License-Identifier: AGPL3.0-or-later

package util

import (
	"math"
	"time"
)

//----------------------------------------------------------------------
// Absolute time
//----------------------------------------------------------------------

// AbsoluteTime refers to a unique point in time. The value is the
// elapsed time in microseconds since the Unix epoch.
type AbsoluteTime struct {
	Val uint64
}

// NewAbsoluteTime set the point in time to the given time value
func NewAbsoluteTime(t time.Time) AbsoluteTime {
	secs := t.Unix()
	usecs := t.Nanosecond() / 1000
	return AbsoluteTime{
		Val: uint64(secs*1000000) + uint64(usecs),
	}
}

// AbsoluteTimeNow returns the current point in time.
func AbsoluteTimeNow() AbsoluteTime {
	return NewAbsoluteTime(time.Now())
}

// AbsoluteTimeNever returns the time defined as "never"
func AbsoluteTimeNever() AbsoluteTime {
	return AbsoluteTime{math.MaxUint64}
}

// String returns a human-readable notation of an absolute time.
func (t AbsoluteTime) String() string {
	if t.Val == math.MaxUint64 {
		return "Never"
	}
	ts := time.Unix(int64(t.Val/(1000*1000)), int64((t.Val%(1000*1000))*1000))
	return ts.Format(time.RFC3339Nano)
}

// Add a duration to an absolute time yielding a new absolute time.
func (t AbsoluteTime) Add(d time.Duration) AbsoluteTime {
	return AbsoluteTime{
		Val: t.Val + uint64(d.Microseconds()),
	}
}

// Since returns the duration elapsed between t and now.
func (t AbsoluteTime) Since() time.Duration {
	now := AbsoluteTimeNow()
	if now.Val <= t.Val {
		return 0
	}
	return time.Duration(now.Val-t.Val) * time.Microsecond
}

// Compare two absolute times: -1 if t < other, 0 if equal, 1 if t > other.
func (t AbsoluteTime) Compare(other AbsoluteTime) int {
	switch {
	case t.Val < other.Val:
		return -1
	case t.Val > other.Val:
		return 1
	default:
		return 0
	}
}

// Expired returns true if the timestamp is in the past. The teacher's
// original Expired() compared a microsecond Val against time.Now().Unix()
// (seconds), a unit mismatch that made it effectively never trip; this
// version compares like units.
func (t AbsoluteTime) Expired() bool {
	if t.Val == math.MaxUint64 {
		return false
	}
	return t.Val < AbsoluteTimeNow().Val
}
