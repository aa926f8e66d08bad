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

// Package remote stores lexicons in Redis or Elasticsearch.
package remote

import (
	"context"
	"errors"
	"fmt"

	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/dict"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/lexicon"
)

// ErrNotFound is returned by a Client when the store has no data for a
// language.
var ErrNotFound = errors.New("language not in store")

// DecodeError is returned by a Client for an entry it cannot decode.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("could not decode %q: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}

type Client interface {
	NewSetPipeline(size int) SetPipeline
	ScanDefinitions(ctx context.Context, language string, onDefinition func(lexicon.Definition) error) error
	ScanLemmas(ctx context.Context, language string, onLemma func(dict.Lemma) error) error
	Ready() bool
}

type Pipeline interface {
	Size() int
}

type SetPipeline interface {
	SetDefinition(language string, def lexicon.Definition) error
	SetLemma(language string, lemma dict.Lemma) error
	ExecSet() error
	Pipeline
}

const (
	RedisBackend         = "redis"
	ElasticsearchBackend = "elasticsearch"
)

type Config struct {
	Backend       string              `mapstructure:"backend"`
	Redis         RedisConfig         `mapstructure:"redis"`
	Elasticsearch ElasticsearchConfig `mapstructure:"elasticsearch"`
}

// NewClient returns the client for the configured backend.
func NewClient(conf Config) (Client, error) {
	switch conf.Backend {
	case RedisBackend:
		return NewRedisClient(conf.Redis), nil
	case ElasticsearchBackend:
		return NewElasticsearchClient(conf.Elasticsearch)
	default:
		return nil, fmt.Errorf("unknown lexicon backend %q", conf.Backend)
	}
}
