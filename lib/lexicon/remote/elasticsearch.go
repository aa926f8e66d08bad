package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/elastic/go-elasticsearch/v7"
	"github.com/elastic/go-elasticsearch/v7/esapi"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/dict"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/lexicon"
)

const (
	scrollKeepAlive = time.Minute
	scrollSize      = 1000
	matchAll        = `{"query":{"match_all":{}}}`
)

type ElasticsearchConfig struct {
	Host  string `mapstructure:"host"`
	Port  int    `mapstructure:"port"`
	Index string `mapstructure:"index"`
}

// DefinitionsIndex and LemmasIndex name the indices of a language.
func DefinitionsIndex(index, language string) string {
	return fmt.Sprintf("%s-%s", index, strings.ToLower(language))
}

func LemmasIndex(index, language string) string {
	return fmt.Sprintf("%s-%s-lemmas", index, strings.ToLower(language))
}

type esHit struct {
	ID     string          `json:"_id"`
	Source json.RawMessage `json:"_source"`
}

type esScrollResponse struct {
	ScrollID string `json:"_scroll_id"`
	Hits     struct {
		Hits []esHit `json:"hits"`
	} `json:"hits"`
}

type esBulkResponse struct {
	Errors bool `json:"errors"`
	Items  []map[string]struct {
		Status int `json:"status"`
		Error  struct {
			Type   string `json:"type"`
			Reason string `json:"reason"`
		} `json:"error"`
	} `json:"items"`
}

func NewElasticsearchClient(conf ElasticsearchConfig) (Client, error) {
	c, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: []string{fmt.Sprintf("http://%s:%d", conf.Host, conf.Port)},
	})
	if err != nil {
		return nil, err
	}
	index := conf.Index
	if index == "" {
		index = "gloss"
	}
	return &esClient{
		Client: c,
		index:  index,
	}, nil
}

type esClient struct {
	*elasticsearch.Client
	index string
}

func (e *esClient) Ready() bool {
	res, err := e.Info()
	if err != nil {
		return false
	}
	defer res.Body.Close()
	return res.StatusCode == http.StatusOK
}

func (e *esClient) NewSetPipeline(size int) SetPipeline {
	return &esPipeline{
		esClient: e,
		buf:      bytes.NewBuffer(nil),
	}
}

func (e *esClient) ScanDefinitions(ctx context.Context, language string, onDefinition func(lexicon.Definition) error) error {
	return e.scroll(ctx, DefinitionsIndex(e.index, language), func(hit esHit) error {
		var def lexicon.Definition
		if err := json.Unmarshal(hit.Source, &def); err != nil {
			return &DecodeError{Key: hit.ID, Err: err}
		}
		return onDefinition(def)
	})
}

func (e *esClient) ScanLemmas(ctx context.Context, language string, onLemma func(dict.Lemma) error) error {
	return e.scroll(ctx, LemmasIndex(e.index, language), func(hit esHit) error {
		var lemma dict.Lemma
		if err := json.Unmarshal(hit.Source, &lemma); err != nil {
			return &DecodeError{Key: hit.ID, Err: err}
		}
		return onLemma(lemma)
	})
}

// scroll walks every document of index with the scroll API.
func (e *esClient) scroll(ctx context.Context, index string, onHit func(esHit) error) error {
	res, err := e.Search(
		e.Search.WithContext(ctx),
		e.Search.WithIndex(index),
		e.Search.WithBody(strings.NewReader(matchAll)),
		e.Search.WithSize(scrollSize),
		e.Search.WithScroll(scrollKeepAlive),
	)
	if err != nil {
		return err
	}

	var scrollID string
	defer func() {
		if scrollID != "" {
			if res, err := e.ClearScroll(e.ClearScroll.WithScrollID(scrollID)); err == nil {
				res.Body.Close()
			}
		}
	}()

	for {
		page, err := decodeScroll(res)
		if err != nil {
			return err
		}
		scrollID = page.ScrollID
		if len(page.Hits.Hits) == 0 {
			return nil
		}
		for _, hit := range page.Hits.Hits {
			if err := onHit(hit); err != nil {
				return err
			}
		}

		res, err = e.Scroll(
			e.Scroll.WithContext(ctx),
			e.Scroll.WithScrollID(scrollID),
			e.Scroll.WithScroll(scrollKeepAlive),
		)
		if err != nil {
			return err
		}
	}
}

func decodeScroll(res *esapi.Response) (*esScrollResponse, error) {
	defer res.Body.Close()
	if res.StatusCode == http.StatusNotFound {
		return nil, ErrNotFound
	} else if res.IsError() {
		return nil, errors.New(res.String())
	}
	var page esScrollResponse
	if err := json.NewDecoder(res.Body).Decode(&page); err != nil {
		return nil, err
	}
	return &page, nil
}

type esPipeline struct {
	*esClient
	buf  *bytes.Buffer
	size int
}

func (p *esPipeline) SetDefinition(language string, def lexicon.Definition) error {
	return p.add(DefinitionsIndex(p.index, language), def.Term, def)
}

func (p *esPipeline) SetLemma(language string, lemma dict.Lemma) error {
	return p.add(LemmasIndex(p.index, language), lemma.Form, lemma)
}

func (p *esPipeline) add(index, id string, doc interface{}) error {
	action, err := json.Marshal(map[string]interface{}{
		"index": map[string]string{"_index": index, "_id": id},
	})
	if err != nil {
		return err
	}
	source, err := json.Marshal(doc)
	if err != nil {
		return err
	}
	p.buf.Write(action)
	p.buf.WriteByte('\n')
	p.buf.Write(source)
	p.buf.WriteByte('\n')
	p.size++
	return nil
}

func (p *esPipeline) ExecSet() error {
	if p.size == 0 {
		return nil
	}
	defer func() {
		p.buf.Reset()
		p.size = 0
	}()

	res, err := p.Bulk(p.buf, p.Bulk.WithRefresh("wait_for"))
	if err != nil {
		return err
	}
	defer res.Body.Close()
	if res.StatusCode != http.StatusOK {
		return errors.New(res.String())
	}

	var bulk esBulkResponse
	if err := json.NewDecoder(res.Body).Decode(&bulk); err != nil && err != io.EOF {
		return err
	}
	if bulk.Errors {
		for _, item := range bulk.Items {
			for _, result := range item {
				if result.Error.Reason != "" {
					return fmt.Errorf("bulk index failed: %s: %s", result.Error.Type, result.Error.Reason)
				}
			}
		}
		return errors.New("bulk index failed")
	}
	return nil
}

func (p *esPipeline) Size() int {
	return p.size
}
