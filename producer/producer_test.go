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

package producer

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStaticJSONAnswersKnownName(t *testing.T) {
	p := NewStaticJSON(map[string]string{"/sensor/1/ecg": `{"bpm":72}`})
	payload, ok := p.Answer("/sensor/1/ecg")
	assert.True(t, ok)
	assert.Equal(t, `{"bpm":72}`, payload)
}

func TestStaticJSONMissesUnknownName(t *testing.T) {
	p := NewStaticJSON(map[string]string{"/sensor/1/ecg": `{"bpm":72}`})
	_, ok := p.Answer("/sensor/1/glucose")
	assert.False(t, ok)
}

func TestDefaultVitalsUsesPrefix(t *testing.T) {
	p := DefaultVitals("/sensor/1")
	_, ok := p.Answer("/sensor/1/vitals/spo2")
	assert.True(t, ok)
}

func TestFuncSatisfiedByAnswer(t *testing.T) {
	p := NewStaticJSON(map[string]string{"/a": "b"})
	var f Func = p.Answer
	payload, ok := f("/a")
	assert.True(t, ok)
	assert.Equal(t, "b", payload)
}
