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
package graph

import "fmt"

// CallMapUnitParseError reports a malformed unit encountered while parsing
// a call-graph document: a missing field, a wrong JSON type, or a calls
// node with neither a "call" nor a "choice" key.
type CallMapUnitParseError struct {
	Unit   string
	Reason string
}

func (e CallMapUnitParseError) Error() string {
	if e.Unit == "" {
		return fmt.Sprintf("call graph: %s", e.Reason)
	}

	return fmt.Sprintf("call graph: unit %q: %s", e.Unit, e.Reason)
}
