// Copyright the Ward authors.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0

// Package config models Ward's declarative configuration: permission
// declarations (with their restrictions) and enforcement selectors, plus
// the recursive-descent parser that turns the project's config-file
// syntax into these values.
package config

import (
	"sort"
	"strings"

	"github.com/consensys/ward/pkg/permission"
)

// Declaration is everything a config file says about one permission name.
type Declaration struct {
	// Implicit holds when every function not explicitly waiving this
	// permission is treated as if it declared Need(p).
	Implicit bool
	// Description is the free-text description attached to the
	// declaration, if any.
	Description *string
	// Restrictions are the restriction clauses attached to this
	// permission, evaluated for every function whose inferred state has
	// Uses(p).
	Restrictions []Restriction
}

// mergeDeclaration combines two declarations of the same permission name:
// Implicit ORs, Description joins with "; " (nil on both sides stays nil),
// Restrictions concatenate in order.
func mergeDeclaration(a, b Declaration) Declaration {
	merged := Declaration{
		Implicit:     a.Implicit || b.Implicit,
		Restrictions: append(append([]Restriction{}, a.Restrictions...), b.Restrictions...),
	}

	switch {
	case a.Description == nil:
		merged.Description = b.Description
	case b.Description == nil:
		merged.Description = a.Description
	default:
		joined := *a.Description + "; " + *b.Description
		merged.Description = &joined
	}

	return merged
}

// Restriction reads as `uses(name) ⟹ expression`: every function whose
// inferred state holds Uses(name) must satisfy expression, else a
// restriction-violation Error is reported (citing Description, if set).
type Restriction struct {
	Name        permission.Name
	Expression  Expression
	Description *string
}

// Enforcement selects which functions are held to their declared
// permission action set exactly (§4.5): any mismatch between a selected
// function's inferred and declared actions is an Error.
type Enforcement interface {
	// Matches reports whether a function at the given path with the
	// given name is selected by this enforcement rule.
	Matches(path, name string) bool
}

// EnforcePath selects every function whose declaring path ends with Suffix.
type EnforcePath struct{ Suffix string }

// Matches implements Enforcement.
func (e EnforcePath) Matches(path, name string) bool {
	return strings.HasSuffix(path, e.Suffix)
}

// EnforceFunction selects every function named exactly Name.
type EnforceFunction struct{ Name string }

// Matches implements Enforcement.
func (e EnforceFunction) Matches(path, name string) bool {
	return name == e.Name
}

// EnforcePathFunction selects functions matching both a path suffix and a name.
type EnforcePathFunction struct {
	Suffix string
	Name   string
}

// Matches implements Enforcement.
func (e EnforcePathFunction) Matches(path, name string) bool {
	return strings.HasSuffix(path, e.Suffix) && name == e.Name
}

// Config is the whole-program, merged configuration: every declaration
// read from every --config file, and the full list of enforcement rules.
type Config struct {
	Declarations map[permission.Name]Declaration
	Enforcements []Enforcement
}

// New constructs an empty Config.
func New() *Config {
	return &Config{Declarations: make(map[permission.Name]Declaration)}
}

// Declare merges decl into the declaration recorded for name, applying the
// declaration merge rule if one is already present.
func (c *Config) Declare(name permission.Name, decl Declaration) {
	if existing, ok := c.Declarations[name]; ok {
		decl = mergeDeclaration(existing, decl)
	}

	c.Declarations[name] = decl
}

// Enforce appends an enforcement rule.
func (c *Config) Enforce(e Enforcement) {
	c.Enforcements = append(c.Enforcements, e)
}

// Merge folds other into c in place, applying Declare's merge rule to
// every declaration and appending other's enforcements after c's own.
func (c *Config) Merge(other *Config) {
	for _, name := range other.sortedNames() {
		c.Declare(name, other.Declarations[name])
	}

	c.Enforcements = append(c.Enforcements, other.Enforcements...)
}

// ImplicitNames returns the permission names declared implicit, sorted for
// deterministic iteration.
func (c *Config) ImplicitNames() []permission.Name {
	var names []permission.Name

	for _, name := range c.sortedNames() {
		if c.Declarations[name].Implicit {
			names = append(names, name)
		}
	}

	return names
}

// IsEnforced reports whether a function at path/name is selected by any
// enforcement rule (§4.5).
func (c *Config) IsEnforced(path, name string) bool {
	for _, e := range c.Enforcements {
		if e.Matches(path, name) {
			return true
		}
	}

	return false
}

func (c *Config) sortedNames() []permission.Name {
	names := make([]permission.Name, 0, len(c.Declarations))
	for name := range c.Declarations {
		names = append(names, name)
	}

	sort.Slice(names, func(i, j int) bool { return names[i] < names[j] })

	return names
}
