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

package config

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"regexp"
	"strings"

	"github.com/Anupal/distributed-ndn/util"

	"github.com/bfix/gospel/logger"
)

///////////////////////////////////////////////////////////////////////
// Topology configuration

// TopologyConfig describes the fixed deployment grid the mesh is laid
// out on.
type TopologyConfig struct {
	Width  int `json:"width"`
	Height int `json:"height"`
}

///////////////////////////////////////////////////////////////////////
// Endpoint configuration

// EndpointConfig is a TCP (host, port) pair.
type EndpointConfig struct {
	Host string `json:"host"`
	Port int    `json:"port"`
}

// String returns the endpoint in "host:port" notation.
func (e *EndpointConfig) String() string {
	return fmt.Sprintf("%s:%d", e.Host, e.Port)
}

///////////////////////////////////////////////////////////////////////
// Node configuration

// NodeConfig is the per-node identity and policy configuration.
type NodeConfig struct {
	Label    int            `json:"label"`
	X        int            `json:"x"`
	Y        int            `json:"y"`
	Endpoint EndpointConfig `json:"endpoint"`
	Prefix   string         `json:"prefix"` // owned data-name prefix

	K             int `json:"k"`            // minimum physical-layer neighbors to keep
	HelloDelaySec int `json:"helloDelay"`    // HELLO_DELAY, seconds
	MaxHelloCount int `json:"maxHelloCount"` // MAX_HELLO_COUNT

	// HelloTimeoutSec is reserved but unused by the core: aging of FIB
	// entries is tied to MAX_HELLO_COUNT ticks, not to a wall-clock
	// timeout (spec Design Notes, open question (a)).
	HelloTimeoutSec int `json:"helloTimeout,omitempty"`

	KeyPath           string `json:"keyPath"`           // per-node RSA keypair (PEM, optionally sealed)
	MembershipKeyPath string `json:"membershipKeyPath"` // shared group signing key (PEM, optionally sealed)

	IsGateway         bool            `json:"isGateway,omitempty"`
	GatewayKeyPath    string          `json:"gatewayKeyPath,omitempty"`
	GatewayPeer       *EndpointConfig `json:"gatewayPeer,omitempty"`
	GatewayNamePrefix string          `json:"gatewayPrefix,omitempty"`
}

///////////////////////////////////////////////////////////////////////

// Environ holds environment-style string substitutions applied to every
// string-valued config field (e.g. "${DATA_DIR}/member.pem").
type Environ map[string]string

// Config is the aggregated deployment configuration: the fixed grid plus
// every participating node's identity and policy.
type Config struct {
	Env      Environ        `json:"environ"`
	Topology TopologyConfig `json:"topology"`
	Nodes    []NodeConfig   `json:"nodes"`
}

// Cfg is the global configuration, set by ParseConfig.
var Cfg *Config

// ByLabel returns the NodeConfig with the given label, if present.
func (c *Config) ByLabel(label int) (NodeConfig, bool) {
	for _, n := range c.Nodes {
		if n.Label == label {
			return n, true
		}
	}
	return NodeConfig{}, false
}

// Coordinates returns the (x,y) position of every node keyed by label,
// excluding the given label -- the input to util.KNearest.
func (c *Config) Coordinates(exclude int) map[int]util.Point {
	out := make(map[int]util.Point, len(c.Nodes))
	for _, n := range c.Nodes {
		if n.Label == exclude {
			continue
		}
		out[n.Label] = util.Point{X: n.X, Y: n.Y}
	}
	return out
}

// ParseConfig reads a JSON-encoded configuration file and maps it to the
// Config data structure, applying environment-style substitutions.
func ParseConfig(fileName string) (err error) {
	file, err := os.ReadFile(fileName)
	if err != nil {
		return
	}
	return ParseConfigBytes(file)
}

// ParseConfigBytes parses configuration already read into memory (used
// directly by tests that don't want a file on disk).
func ParseConfigBytes(data []byte) (err error) {
	Cfg = new(Config)
	if err = json.Unmarshal(data, Cfg); err == nil {
		applySubstitutions(Cfg, Cfg.Env)
	}
	return
}

var rxSubst = regexp.MustCompile(`\$\{([^\}]*)\}`)

// substString substitutes "${VAR}" occurrences with actual values.
func substString(s string, env map[string]string) string {
	matches := rxSubst.FindAllStringSubmatch(s, -1)
	for _, m := range matches {
		if len(m[1]) != 0 {
			subst, ok := env[m[1]]
			if !ok {
				continue
			}
			s = strings.Replace(s, "${"+m[1]+"}", subst, -1)
		}
	}
	return s
}

// applySubstitutions traverses the configuration data structure and
// applies string substitutions to every string-valued field.
func applySubstitutions(x interface{}, env map[string]string) {
	var process func(v reflect.Value)
	process = func(v reflect.Value) {
		for i := 0; i < v.NumField(); i++ {
			fld := v.Field(i)
			if !fld.CanSet() {
				continue
			}
			switch fld.Kind() {
			case reflect.String:
				s := fld.Interface().(string)
				for {
					s1 := substString(s, env)
					if s1 == s {
						break
					}
					logger.Printf(logger.DBG, "[config] %s --> %s\n", s, s1)
					fld.SetString(s1)
					s = s1
				}
			case reflect.Struct:
				process(fld)
			case reflect.Slice:
				for j := 0; j < fld.Len(); j++ {
					e := fld.Index(j)
					if e.Kind() == reflect.Struct {
						process(e)
					}
				}
			case reflect.Ptr:
				e := fld.Elem()
				if e.IsValid() {
					process(e)
				}
			}
		}
	}
	v := reflect.ValueOf(x)
	switch v.Kind() {
	case reflect.Ptr:
		e := v.Elem()
		if e.IsValid() {
			process(e)
		}
	case reflect.Struct:
		process(v)
	}
}
