package remote

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/go-redis/redis"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/dict"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/lexicon"
)

const scanCount = 1000

type RedisConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
}

// DefinitionsKey is the hash holding the definitions of a language, keyed
// by term.
func DefinitionsKey(language string) string {
	return fmt.Sprintf("gloss:%s:definitions", language)
}

// LemmasKey is the hash mapping inflected forms of a language to lemmas.
func LemmasKey(language string) string {
	return fmt.Sprintf("gloss:%s:lemmas", language)
}

func NewRedisClient(conf RedisConfig) Client {
	return &redisClient{
		Client: redis.NewClient(&redis.Options{
			Addr: fmt.Sprintf("%s:%d", conf.Host, conf.Port)}),
	}
}

type redisClient struct {
	*redis.Client
}

type redisSetPipeline struct {
	pipe redis.Pipeliner
	size int
}

func (r *redisClient) NewSetPipeline(size int) SetPipeline {
	return &redisSetPipeline{
		pipe: r.Pipeline(),
	}
}

func (r *redisClient) Ready() bool {
	return r.Ping().Err() == nil
}

func (r *redisClient) ScanDefinitions(ctx context.Context, language string, onDefinition func(lexicon.Definition) error) error {
	return r.scan(ctx, DefinitionsKey(language), func(field, value string) error {
		var def lexicon.Definition
		if err := json.Unmarshal([]byte(value), &def); err != nil {
			return &DecodeError{Key: field, Err: err}
		}
		if def.Term == "" {
			def.Term = field
		}
		return onDefinition(def)
	})
}

func (r *redisClient) ScanLemmas(ctx context.Context, language string, onLemma func(dict.Lemma) error) error {
	return r.scan(ctx, LemmasKey(language), func(field, value string) error {
		return onLemma(dict.Lemma{Form: field, Lemma: value})
	})
}

// scan walks every field of the hash at key with HSCAN.
func (r *redisClient) scan(ctx context.Context, key string, onField func(field, value string) error) error {
	var cursor uint64
	seen := false
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		fields, next, err := r.HScan(key, cursor, "", scanCount).Result()
		if err != nil {
			return err
		}
		for i := 0; i+1 < len(fields); i += 2 {
			seen = true
			if err := onField(fields[i], fields[i+1]); err != nil {
				return err
			}
		}
		if next == 0 {
			break
		}
		cursor = next
	}
	if !seen {
		return ErrNotFound
	}
	return nil
}

func (r *redisSetPipeline) SetDefinition(language string, def lexicon.Definition) error {
	b, err := json.Marshal(def)
	if err != nil {
		return err
	}
	r.pipe.HSet(DefinitionsKey(language), def.Term, b)
	r.size++
	return nil
}

func (r *redisSetPipeline) SetLemma(language string, lemma dict.Lemma) error {
	r.pipe.HSet(LemmasKey(language), lemma.Form, lemma.Lemma)
	r.size++
	return nil
}

func (r *redisSetPipeline) ExecSet() error {
	if r.size == 0 {
		return nil
	}
	_, err := r.pipe.Exec()
	r.size = 0
	return err
}

func (r *redisSetPipeline) Size() int {
	return r.size
}
