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

package blocklist

import (
	"io/ioutil"
	"strings"

	"github.com/rs/zerolog/log"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/text"
	"gopkg.in/yaml.v2"
)

// Blocklist holds terms which are never annotated, whatever their
// difficulty.
type Blocklist struct {
	CaseSensitive   map[string]bool
	CaseInsensitive map[string]bool
}

// Allowed returns true if term is not blocklisted. Keys are compared in NFC.
func (blocklist Blocklist) Allowed(term string) bool {
	term = text.NormalizeKey(term)
	if _, ok := blocklist.CaseSensitive[term]; ok {
		return false
	}

	if _, ok := blocklist.CaseInsensitive[strings.ToLower(term)]; ok {
		return false
	}

	return true
}

func (blocklist Blocklist) Len() int {
	return len(blocklist.CaseSensitive) + len(blocklist.CaseInsensitive)
}

// Load returns an unmarshalled blocklist from a YAML file at the given path.
func Load(path string) (*Blocklist, error) {
	bytes, err := ioutil.ReadFile(path)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("could not read blocklist")
		return nil, err
	}

	bl, err := Parse(bytes)
	if err != nil {
		log.Error().Err(err).Str("path", path).Msg("could not load blocklist")
		return nil, err
	}

	log.Info().Str("path", path).Int("terms", bl.Len()).Msg("blocklist set")
	return bl, nil
}

// Parse reads a blocklist of the form
//
//	case_sensitive: [...]
//	case_insensitive: [...]
func Parse(data []byte) (*Blocklist, error) {
	type yamlBlocklist struct {
		CaseSensitive   []string `yaml:"case_sensitive"`
		CaseInsensitive []string `yaml:"case_insensitive"`
	}

	yamlBl := yamlBlocklist{}
	if err := yaml.UnmarshalStrict(data, &yamlBl); err != nil {
		return nil, err
	}

	res := Blocklist{
		CaseSensitive:   map[string]bool{},
		CaseInsensitive: map[string]bool{},
	}

	for _, v := range yamlBl.CaseSensitive {
		res.CaseSensitive[text.NormalizeKey(v)] = true
	}
	for _, v := range yamlBl.CaseInsensitive {
		res.CaseInsensitive[strings.ToLower(text.NormalizeKey(v))] = true
	}

	return &res, nil
}
