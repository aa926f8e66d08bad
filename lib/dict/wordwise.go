package dict

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gitlab.mdcatapult.io/informatics/software-engineering/word-gloss/lib/lexicon"
)

const (
	wordwiseTermColumn = iota + 1
	wordwisePronunciationColumn
	wordwiseLongGlossColumn
	wordwiseShortGlossColumn
	wordwiseUsageExamplesColumn
	wordwiseDifficultyColumn
	wordwiseColumns
)

const (
	lemmaBaseColumn = iota
	lemmaFormColumn
	lemmaColumns
)

func NewWordwiseReader() wordwiseReader {
	return wordwiseReader{}
}

type wordwiseReader struct{}

func (w wordwiseReader) ReadDefinitions(r io.Reader, stop <-chan struct{}) (chan lexicon.Definition, chan error) {
	entries := make(chan lexicon.Definition)
	errors := make(chan error)
	go w.readDefinitions(r, stop, entries, errors)
	return entries, errors
}

func (w wordwiseReader) ReadLemmas(r io.Reader, stop <-chan struct{}) (chan Lemma, chan error) {
	entries := make(chan Lemma)
	errors := make(chan error)
	go w.readLemmas(r, stop, entries, errors)
	return entries, errors
}

func (w wordwiseReader) readDefinitions(r io.Reader, stop <-chan struct{}, entries chan lexicon.Definition, errors chan error) {
	err := readCSV(r, wordwiseColumns, func(record []string) error {
		difficulty, err := strconv.Atoi(strings.TrimSpace(record[wordwiseDifficultyColumn]))
		if err != nil {
			return fmt.Errorf("invalid difficulty: %w", err)
		}
		def := lexicon.Definition{
			Term:          record[wordwiseTermColumn],
			Pronunciation: record[wordwisePronunciationColumn],
			LongGloss:     record[wordwiseLongGlossColumn],
			ShortGloss:    record[wordwiseShortGlossColumn],
			UsageExamples: record[wordwiseUsageExamplesColumn],
			Difficulty:    difficulty,
		}
		select {
		case entries <- def:
			return nil
		case <-stop:
			return errStopped
		}
	})
	sendErr(err, stop, errors)
}

func (w wordwiseReader) readLemmas(r io.Reader, stop <-chan struct{}, entries chan Lemma, errors chan error) {
	err := readCSV(r, lemmaColumns, func(record []string) error {
		lemma := Lemma{
			Form:  record[lemmaFormColumn],
			Lemma: record[lemmaBaseColumn],
		}
		select {
		case entries <- lemma:
			return nil
		case <-stop:
			return errStopped
		}
	})
	sendErr(err, stop, errors)
}

// readCSV skips the header row and calls onRecord for every other row. Rows
// with fewer than minColumns fields are parse errors.
func readCSV(r io.Reader, minColumns int, onRecord func([]string) error) error {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	header := true
	for {
		record, err := reader.Read()
		if err == io.EOF {
			return nil
		} else if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return &RowError{Line: parseErr.Line, Err: parseErr.Err}
			}
			return err
		}
		line, _ := reader.FieldPos(0)

		if header {
			header = false
			continue
		}
		if len(record) < minColumns {
			return &RowError{Line: line, Err: fmt.Errorf("expected %d columns, got %d", minColumns, len(record))}
		}
		if err := onRecord(record); err == errStopped {
			return err
		} else if err != nil {
			return &RowError{Line: line, Err: err}
		}
	}
}
