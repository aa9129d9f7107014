// This file is part of gnunet-go, a GNUnet-implementation in Golang.
// Copyright (C) 2019-2022 Bernd Fix  >Y<
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
	"reflect"
	"testing"
)

func TestKNearestLine(t *testing.T) {
	others := map[int]Point{
		1: {10, 0},
		2: {20, 0},
		3: {30, 0},
	}
	got := KNearest(Point{0, 0}, others, 2)
	want := []int{1, 2}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}

func TestKNearestClampsToAvailable(t *testing.T) {
	others := map[int]Point{1: {1, 1}}
	got := KNearest(Point{0, 0}, others, 5)
	if !reflect.DeepEqual(got, []int{1}) {
		t.Fatalf("got %v", got)
	}
}

func TestKNearestDeterministicTieBreak(t *testing.T) {
	others := map[int]Point{
		5: {10, 0},
		2: {0, 10},
	}
	got := KNearest(Point{0, 0}, others, 2)
	want := []int{2, 5}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("got %v, want %v", got, want)
	}
}
