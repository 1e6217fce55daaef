// Copyright 2016 DeepFabric, Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// See the License for the specific language governing permissions and
// limitations under the License.

package util

// MatchPattern returns true if the value matches the glob style pattern,
// supports '*', '?', '[...]' with ranges and '^' negation, and '\' escape.
func MatchPattern(pattern, value []byte) bool {
	for len(pattern) > 0 {
		switch pattern[0] {
		case '*':
			for len(pattern) > 1 && pattern[1] == '*' {
				pattern = pattern[1:]
			}
			if len(pattern) == 1 {
				return true
			}
			for i := 0; i <= len(value); i++ {
				if MatchPattern(pattern[1:], value[i:]) {
					return true
				}
			}
			return false
		case '?':
			if len(value) == 0 {
				return false
			}
			value = value[1:]
			pattern = pattern[1:]
		case '[':
			if len(value) == 0 {
				return false
			}
			matched, rest := matchClass(pattern[1:], value[0])
			if !matched {
				return false
			}
			pattern = rest
			value = value[1:]
		default:
			if pattern[0] == '\\' && len(pattern) > 1 {
				pattern = pattern[1:]
			}
			if len(value) == 0 || pattern[0] != value[0] {
				return false
			}
			pattern = pattern[1:]
			value = value[1:]
		}
	}

	return len(value) == 0
}

func matchClass(pattern []byte, c byte) (bool, []byte) {
	not := len(pattern) > 0 && pattern[0] == '^'
	if not {
		pattern = pattern[1:]
	}

	matched := false
	for len(pattern) > 0 && pattern[0] != ']' {
		switch {
		case pattern[0] == '\\' && len(pattern) > 1:
			matched = matched || pattern[1] == c
			pattern = pattern[2:]
		case len(pattern) > 2 && pattern[1] == '-' && pattern[2] != ']':
			lo, hi := pattern[0], pattern[2]
			if lo > hi {
				lo, hi = hi, lo
			}
			matched = matched || (c >= lo && c <= hi)
			pattern = pattern[3:]
		default:
			matched = matched || pattern[0] == c
			pattern = pattern[1:]
		}
	}

	if len(pattern) > 0 {
		// skip ']'
		pattern = pattern[1:]
	}

	return matched != not, pattern
}
