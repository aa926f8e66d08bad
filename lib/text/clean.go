/*
 * Copyright 2022 Medicines Discovery Catapult
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *     http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package text

import (
	"strings"
	"unicode/utf8"
)

// decorations are the runes which Clean strips from either end of a token.
// Full-width and CJK punctuation is not included, so "，" and "！" stay part
// of the core.
var decorations = map[rune]struct{}{
	' ':  {},
	'!':  {},
	'"':  {},
	'#':  {},
	'$':  {},
	'%':  {},
	'&':  {},
	'\'': {},
	'(':  {},
	')':  {},
	'*':  {},
	'+':  {},
	',':  {},
	'-':  {},
	'.':  {},
	'/':  {},
	':':  {},
	';':  {},
	'<':  {},
	'=':  {},
	'>':  {},
	'?':  {},
	'@':  {},
	'[':  {},
	'\\': {},
	']':  {},
	'^':  {},
	'_':  {},
	'`':  {},
	'{':  {},
	'|':  {},
	'}':  {},
	'~':  {},
	'•':  {},
	'‘':  {},
	'’':  {},
	'“':  {},
	'”':  {},
	'„':  {},
	'–':  {},
	'—':  {},
	'…':  {},
}

// IsDecoration reports whether Clean strips r from the ends of a token.
func IsDecoration(r rune) bool {
	_, ok := decorations[r]
	return ok
}

// Clean splits token into its matchable core and the decoration around it, so
// that prefix + core + suffix == token. If lowercase is true only the core is
// lowercased.
func Clean(token string, lowercase bool) (core, prefix, suffix string) {
	start := 0
	for start < len(token) {
		r, size := utf8.DecodeRuneInString(token[start:])
		if !IsDecoration(r) {
			break
		}
		start += size
	}

	end := len(token)
	for end > start {
		r, size := utf8.DecodeLastRuneInString(token[start:end])
		if !IsDecoration(r) {
			break
		}
		end -= size
	}

	core = token[start:end]
	if lowercase {
		core = strings.ToLower(core)
	}
	return core, token[:start], token[end:]
}
