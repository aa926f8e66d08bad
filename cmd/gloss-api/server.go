package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-openapi/strfmt"
	"github.com/go-openapi/swag"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/gloss"
)

const (
	optionsKey      = "annotation_options"
	requestIDHeader = "X-Request-Id"

	contentTypeText = "text/plain"
	contentTypeHTML = "text/html"

	responseHead = 64 << 10
)

type HttpError struct {
	code int
	error
}

func (e HttpError) Error() string {
	return e.error.Error()
}

func NewHttpError(code int, err error) HttpError {
	return HttpError{
		code:  code,
		error: err,
	}
}

type server struct {
	controller controller
	gatherer   prometheus.Gatherer
	started    time.Time
}

func (s server) RegisterRoutes(r *gin.Engine) {
	r.Use(requestID, s.observeRequest)
	r.GET("/healthz", s.Healthz)
	r.GET("/languages", s.ListLanguages)
	r.GET("/lexicon/:language/:term", s.GetOptions, s.GetDefinition)
	r.POST("/text", validateBody, s.GetOptions, s.AnnotateText)
	r.POST("/html", validateBody, s.GetOptions, s.AnnotateHTML)
	r.POST("/tokens", validateBody, s.Tokenize)
	if s.gatherer != nil {
		r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.gatherer, promhttp.HandlerOpts{})))
	}
}

func (s server) Healthz(c *gin.Context) {
	c.JSON(http.StatusOK, map[string]interface{}{
		"status":    "ok",
		"languages": len(s.controller.lexicons),
		"started":   strfmt.DateTime(s.started),
	})
}

func (s server) ListLanguages(c *gin.Context) {
	c.JSON(http.StatusOK, s.controller.Languages())
}

// GetOptions reads the annotation options of a request from its query
// string, falling back to the configured defaults.
func (s server) GetOptions(c *gin.Context) {
	opts := s.controller.defaultOptions()

	if language := c.Param("language"); language != "" {
		opts.Language = language
	} else if language, ok := c.GetQuery("language"); ok {
		opts.Language = language
	}
	if formatter, ok := c.GetQuery("formatter"); ok {
		if !swag.ContainsStringsCI(gloss.Names, formatter) {
			handleError(c, NewHttpError(http.StatusBadRequest, fmt.Errorf("formatter must be one of %v", gloss.Names)))
			return
		}
		opts.Formatter = formatter
	}

	ints := map[string]*int{
		"min_difficulty":    &opts.Options.MinDifficulty,
		"max_phrase_length": &opts.Options.MaxPhraseLength,
	}
	for name, target := range ints {
		value, ok := c.GetQuery(name)
		if !ok {
			continue
		}
		n, err := strconv.Atoi(value)
		if err != nil {
			handleError(c, NewHttpError(http.StatusBadRequest, errors.New(name+" must be an integer")))
			return
		}
		*target = n
	}

	if value, ok := c.GetQuery("detail"); ok {
		switch value {
		case gloss.Short.String(), "1":
			opts.Options.MaxDefinitionDetail = gloss.Short
		case gloss.Long.String(), "2":
			opts.Options.MaxDefinitionDetail = gloss.Long
		default:
			handleError(c, NewHttpError(http.StatusBadRequest, errors.New("detail must be short or long")))
			return
		}
	}
	if value, ok := c.GetQuery("pronunciation"); ok {
		b, err := strconv.ParseBool(value)
		if err != nil {
			handleError(c, NewHttpError(http.StatusBadRequest, errors.New("pronunciation must be true or false")))
			return
		}
		opts.Options.IncludePronunciation = b
	}

	c.Set(optionsKey, opts)
	c.Next()
}

func (s server) AnnotateText(c *gin.Context) {
	if c.ContentType() != contentTypeText {
		handleError(c, NewHttpError(http.StatusBadRequest, errors.New("invalid content type - must be text/plain")))
		return
	}
	opts, ok := requestOptionsFrom(c)
	if !ok {
		return
	}

	res, err := s.controller.AnnotateText(c.Request.Context(), c.Request.Body, opts)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// AnnotateHTML streams the response. Errors found after the first
// responseHead bytes were sent can only be logged.
func (s server) AnnotateHTML(c *gin.Context) {
	if c.ContentType() != contentTypeHTML {
		handleError(c, NewHttpError(http.StatusBadRequest, errors.New("invalid content type - must be text/html")))
		return
	}
	opts, ok := requestOptionsFrom(c)
	if !ok {
		return
	}

	size := c.Request.ContentLength
	if size < 0 {
		size = 0
	}
	c.Header("Content-Type", "text/html; charset=utf-8")
	w := &headWriter{w: c.Writer, limit: responseHead}
	_, err := s.controller.AnnotateHTML(c.Request.Context(), c.Request.Body, size, w, opts)
	if err == nil {
		if err := w.Flush(); err != nil {
			log.Error().Err(err).Str(lib.RequestIDKey, c.GetString(lib.RequestIDKey)).Msg("could not write response")
		}
		return
	}
	if !w.flushed {
		c.Writer.Header().Del("Content-Type")
		handleError(c, err)
		return
	}
	log.Error().Err(err).Str(lib.RequestIDKey, c.GetString(lib.RequestIDKey)).Msg("html annotation failed mid stream")
	_ = c.Error(err)
	c.Abort()
}

func (s server) Tokenize(c *gin.Context) {
	tokens, err := s.controller.Tokenize(c.Request.Body)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, tokens)
}

func (s server) GetDefinition(c *gin.Context) {
	opts, ok := requestOptionsFrom(c)
	if !ok {
		return
	}
	// Lookups are not gated unless asked for.
	if _, set := c.GetQuery("min_difficulty"); !set {
		opts.Options.MinDifficulty = 0
	}

	def, err := s.controller.Definition(c.Param("term"), opts)
	if err != nil {
		handleError(c, err)
		return
	}
	c.JSON(http.StatusOK, def)
}

func (s server) observeRequest(c *gin.Context) {
	start := time.Now()
	c.Next()
	if s.controller.metrics == nil {
		return
	}
	route := c.FullPath()
	if route == "" {
		route = "unmatched"
	}
	s.controller.metrics.ObserveRequest(route, strconv.Itoa(c.Writer.Status()), time.Since(start))
}

func requestOptionsFrom(c *gin.Context) (requestOptions, bool) {
	v, ok := c.Get(optionsKey)
	if !ok {
		handleError(c, errors.New("annotation options are unset"))
		return requestOptions{}, false
	}
	return v.(requestOptions), true
}

// requestID keeps a valid incoming X-Request-Id and generates one otherwise.
func requestID(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if _, err := uuid.Parse(id); err != nil {
		id = uuid.New().String()
	}
	c.Set(lib.RequestIDKey, id)
	c.Header(requestIDHeader, id)
	c.Next()
}

// headWriter holds back the first limit bytes written to w.
type headWriter struct {
	w       io.Writer
	head    bytes.Buffer
	limit   int
	flushed bool
}

func (h *headWriter) Write(p []byte) (int, error) {
	if h.flushed {
		return h.w.Write(p)
	}
	h.head.Write(p)
	if h.head.Len() < h.limit {
		return len(p), nil
	}
	return len(p), h.Flush()
}

func (h *headWriter) Flush() error {
	if h.flushed {
		return nil
	}
	h.flushed = true
	_, err := h.w.Write(h.head.Bytes())
	h.head.Reset()
	return err
}

func validateBody(c *gin.Context) {
	if c.Request.Body == nil {
		handleError(c, NewHttpError(http.StatusBadRequest, errors.New("request body missing")))
	} else if _, err := c.Request.Body.Read(nil); err == io.EOF {
		handleError(c, NewHttpError(http.StatusBadRequest, errors.New("request body missing")))
	} else {
		c.Next()
	}
}

func handleError(c *gin.Context, err error) {
	if err == nil {
		abort(c, http.StatusInternalServerError, errors.New("abort called on nil error"))
		return
	}
	var httpErr HttpError
	if errors.As(err, &httpErr) {
		abort(c, httpErr.code, httpErr.error)
		return
	}
	abort(c, http.StatusInternalServerError, err)
}

func abort(c *gin.Context, code int, err error) {
	switch {
	case code <= 500:
		c.JSON(code, map[string]interface{}{
			"status":  code,
			"message": err.Error(),
		})
		c.Abort()
	default:
		_ = c.AbortWithError(code, err)
	}
}
