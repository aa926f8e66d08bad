package job

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/gen/mocks"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/annotate"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/dict"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/document"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/gloss"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/lexicon"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/metrics"
	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/rewrite"
)

const resources = "../../testdata/resources"

type JobSuite struct {
	suite.Suite
	lexicon *lexicon.Lexicon
	dir     string
}

func TestJobSuite(t *testing.T) {
	suite.Run(t, new(JobSuite))
}

func (s *JobSuite) SetupSuite() {
	lex, err := dict.NewFileLoader(resources, dict.WordwiseDictionaryFormat).Load(context.Background(), "en")
	s.Require().NoError(err)
	s.lexicon = lex
}

func (s *JobSuite) SetupTest() {
	dir, err := ioutil.TempDir("", "gloss-job")
	s.Require().NoError(err)
	s.dir = dir
}

func (s *JobSuite) TearDownTest() {
	os.RemoveAll(s.dir)
}

func (s *JobSuite) job(formatter string) Job {
	a, err := Annotator(s.lexicon, formatter, "", annotate.DefaultOptions(), nil)
	s.Require().NoError(err)
	return Job{Annotator: a, Config: Config{Options: rewrite.DefaultOptions()}}
}

func (s *JobSuite) write(name, content string) string {
	path := filepath.Join(s.dir, name)
	s.Require().NoError(ioutil.WriteFile(path, []byte(content), 0600))
	return path
}

func (s *JobSuite) read(path string) string {
	b, err := ioutil.ReadFile(path)
	s.Require().NoError(err)
	return string(b)
}

func (s *JobSuite) TestRunHTML() {
	input := s.write("chapter.html", "<html><head><title>utter</title></head><body><p>no one uttering a <em>sociable</em> word</p></body></html>")
	output := filepath.Join(s.dir, "chapter.glossed.html")

	reg := prometheus.NewRegistry()
	j := s.job(gloss.RubyFormatter)
	j.Metrics = metrics.New(reg)

	var reports []rewrite.Progress
	j.Progress = rewrite.ProgressFunc(func(p rewrite.Progress) { reports = append(reports, p) })

	stats, err := j.Run(context.Background(), input, output, HTMLFormat)
	s.Require().NoError(err)

	s.Equal("<html><head><title>utter</title></head><body><p>no one <ruby>uttering<rt>complete and total</rt></ruby> a <em><ruby>sociable<rt>involving friendly relations</rt></ruby></em> word</p></body></html>", s.read(output))
	s.NoFileExists(output + ".partial")
	s.Equal(int64(3), stats.Transformed)
	s.Require().NotEmpty(reports)
	s.Equal(1.0, reports[len(reports)-1].Fraction())
	s.Equal(1.0, testutil.ToFloat64(j.Metrics.DocumentsTotal.WithLabelValues("html", "ok")))
}

func (s *JobSuite) TestRunText() {
	input := s.write("notes.txt", "utter  nonsense\r\n\nin someone's pocket\n")
	output := filepath.Join(s.dir, "notes.out.txt")

	_, err := s.job(gloss.BracketFormatter).Run(context.Background(), input, output, TextFormat)
	s.Require().NoError(err)
	s.Equal("utter [complete and total] nonsense\r\n\nin someone's pocket [under someone's control]\n", s.read(output))
}

func (s *JobSuite) TestRunEPUB() {
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	for _, e := range []struct {
		name   string
		method uint16
		body   string
	}{
		{"mimetype", zip.Store, "application/epub+zip"},
		{"OEBPS/content.opf", zip.Deflate, "<package><title>versatile</title></package>"},
		{"OEBPS/one.xhtml", zip.Deflate, "<p>a versatile tool</p>"},
		{"OEBPS/two.xhtml", zip.Deflate, "<p>riboses</p>"},
	} {
		w, err := zw.CreateHeader(&zip.FileHeader{Name: e.name, Method: e.method})
		s.Require().NoError(err)
		_, err = io.WriteString(w, e.body)
		s.Require().NoError(err)
	}
	s.Require().NoError(zw.Close())
	input := s.write("book.epub", buf.String())
	output := DefaultOutput(input)

	j := s.job(gloss.RubyFormatter)
	var last rewrite.Progress
	j.Progress = rewrite.ProgressFunc(func(p rewrite.Progress) { last = p })

	_, err := j.Run(context.Background(), input, output, EPUBFormat)
	s.Require().NoError(err)
	s.Equal(int64(len("<p>a versatile tool</p><p>riboses</p>")), last.Total)
	s.Equal(last.Total, last.Bytes)

	zr, err := zip.OpenReader(output)
	s.Require().NoError(err)
	defer zr.Close()

	got := map[string]string{}
	var names []string
	for _, f := range zr.File {
		names = append(names, f.Name)
		r, err := f.Open()
		s.Require().NoError(err)
		b, err := ioutil.ReadAll(r)
		s.Require().NoError(err)
		r.Close()
		got[f.Name] = string(b)
	}
	s.Equal([]string{"mimetype", "OEBPS/content.opf", "OEBPS/one.xhtml", "OEBPS/two.xhtml"}, names)
	s.Equal(zip.Store, zr.File[0].Method)
	s.Equal("<package><title>versatile</title></package>", got["OEBPS/content.opf"])
	s.Equal("<p>a <ruby>versatile<rt>able to do different things</rt></ruby> tool</p>", got["OEBPS/one.xhtml"])
	s.Equal("<p><ruby>riboses<rt>a type of sugar</rt></ruby></p>", got["OEBPS/two.xhtml"])
}

func (s *JobSuite) TestRunFootnotes() {
	input := s.write("chapter.html", "<p>utter riboses</p>")
	output := filepath.Join(s.dir, "out.html")

	_, err := s.job(gloss.FootnoteFormatter).Run(context.Background(), input, output, HTMLFormat)
	s.Require().NoError(err)
	s.Equal(`<p>utter<sup>[1]</sup> riboses<sup>[2]</sup></p><aside class="gloss-notes"><ol><li value="1">utter: complete and total</li><li value="2">ribose: a type of sugar</li></ol></aside>`, s.read(output))
}

func (s *JobSuite) TestRunFailureRemovesPartialOutput() {
	input := s.write("bad.html", "<p>utter \xff</p>")
	output := filepath.Join(s.dir, "bad.out.html")

	_, err := s.job(gloss.RubyFormatter).Run(context.Background(), input, output, HTMLFormat)
	var formatErr *document.FormatError
	s.Require().True(errors.As(err, &formatErr), "unexpected error %v", err)
	s.NoFileExists(output)
	s.NoFileExists(output + ".partial")
}

func (s *JobSuite) TestRunFailureKeepsPartialOutput() {
	input := s.write("bad.html", "<p>utter</p><p>\xff</p>")
	output := filepath.Join(s.dir, "bad.out.html")

	j := s.job(gloss.RubyFormatter)
	j.Config.KeepPartial = true
	_, err := j.Run(context.Background(), input, output, HTMLFormat)
	s.Error(err)
	s.NoFileExists(output)
	s.FileExists(output + ".partial")
}

func (s *JobSuite) TestRunMissingInput() {
	_, err := s.job(gloss.RubyFormatter).Run(context.Background(), filepath.Join(s.dir, "missing.html"), filepath.Join(s.dir, "out.html"), HTMLFormat)
	var ioErr *document.IOError
	s.Require().True(errors.As(err, &ioErr))
	s.Equal(document.SourceSide, ioErr.Side)
}

func (s *JobSuite) TestRunUnsupportedFormat() {
	input := s.write("book.mobi", "BOOKMOBI")
	_, err := s.job(gloss.RubyFormatter).Run(context.Background(), input, filepath.Join(s.dir, "out.mobi"), Format("mobi"))
	s.True(errors.Is(err, ErrUnsupportedFormat))
	s.NoFileExists(filepath.Join(s.dir, "out.mobi.partial"))
}

func (s *JobSuite) TestRunCancelled() {
	input := s.write("chapter.html", "<p>utter</p>")
	output := filepath.Join(s.dir, "out.html")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := s.job(gloss.RubyFormatter).Run(ctx, input, output, HTMLFormat)
	s.True(errors.Is(err, context.Canceled))
	s.NoFileExists(output)
}

func (s *JobSuite) TestNewAnnotator() {
	loader, err := NewLoader(LexiconConfig{Dir: resources, Format: dict.WordwiseDictionaryFormat})
	s.Require().NoError(err)

	_, err = NewAnnotator(context.Background(), loader, "xx", gloss.RubyFormatter, "", annotate.DefaultOptions(), nil)
	s.True(lexicon.IsKind(err, lexicon.NotFound))

	_, err = NewAnnotator(context.Background(), loader, "en", "sidebar", "", annotate.DefaultOptions(), nil)
	s.Error(err)

	blocklist := s.write("blocklist.yml", "case_insensitive:\n  - utter\n")
	a, err := NewAnnotator(context.Background(), loader, "en", gloss.RubyFormatter, blocklist, annotate.DefaultOptions(), metrics.New(prometheus.NewRegistry()))
	s.Require().NoError(err)
	s.Equal("utter", a.AnnotateText("utter"))

	_, err = NewLoader(LexiconConfig{Backend: "cassandra"})
	s.Error(err)
}

func (s *JobSuite) TestNewAnnotatorLoaderError() {
	loader := &mocks.Loader{}
	unavailable := &lexicon.LoadError{Kind: lexicon.Unavailable, Language: "en", Err: errors.New("connection refused")}
	loader.On("Load", mock.Anything, "en").Return(nil, unavailable)

	_, err := NewAnnotator(context.Background(), loader, "en", gloss.RubyFormatter, "", annotate.DefaultOptions(), nil)
	s.True(lexicon.IsKind(err, lexicon.Unavailable))
	loader.AssertExpectations(s.T())
}

func (s *JobSuite) TestNewAnnotatorUsesLoadedLexicon() {
	loader := &mocks.Loader{}
	loader.On("Load", mock.Anything, "en").Return(s.lexicon, nil)

	a, err := NewAnnotator(context.Background(), loader, "en", gloss.BracketFormatter, "", annotate.DefaultOptions(), nil)
	s.Require().NoError(err)
	s.Equal("sociable [involving friendly relations]", a.AnnotateText("sociable"))
}

func (s *JobSuite) TestRewriteHTMLLeavesRawTextUntouched() {
	input := "<body><script src=\"a.js\"/>\n<div class=\"x\">\n  <p>a pictorial record</p>\n</div></body>"
	var out bytes.Buffer
	_, err := s.job(gloss.RubyFormatter).RewriteHTML(context.Background(), strings.NewReader(input), 0, &out, nil)
	s.Require().NoError(err)
	s.Equal(input, out.String())

	input = "<body><script src=\"a.js\"/></script>\n<p>a pictorial record</p></body>"
	out.Reset()
	_, err = s.job(gloss.RubyFormatter).RewriteHTML(context.Background(), strings.NewReader(input), 0, &out, nil)
	s.Require().NoError(err)
	s.Equal("<body><script src=\"a.js\"/></script>\n<p>a <ruby>pictorial<rt>relating to a drawing</rt></ruby> record</p></body>", out.String())
}
