package forest

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
)

// Parser reads forest records from a JSON-lines stream. Malformed lines are
// collected and skipped rather than ending the parse.
type Parser struct {
	scanner *bufio.Scanner
	lineNum int
	errors  []error
}

// NewParser creates a parser from an io.Reader.
func NewParser(r io.Reader) *Parser {
	scanner := bufio.NewScanner(r)
	const maxCapacity = 4 * 1024 * 1024
	scanner.Buffer(make([]byte, 0, 64*1024), maxCapacity)
	return &Parser{scanner: scanner}
}

// Next reads the next valid record. It returns nil, nil at EOF.
func (p *Parser) Next() (*Record, error) {
	for p.scanner.Scan() {
		p.lineNum++
		line := p.scanner.Bytes()
		if len(line) == 0 || line[0] == '#' {
			continue
		}

		var rec Record
		if err := json.Unmarshal(line, &rec); err != nil {
			p.errors = append(p.errors, fmt.Errorf("line %d: %w", p.lineNum, err))
			continue
		}
		if err := rec.Validate(); err != nil {
			p.errors = append(p.errors, fmt.Errorf("line %d: %w", p.lineNum, err))
			continue
		}
		return &rec, nil
	}

	if err := p.scanner.Err(); err != nil {
		return nil, fmt.Errorf("line %d: read: %w", p.lineNum+1, err)
	}
	return nil, nil
}

// ReadAll reads every remaining valid record.
func (p *Parser) ReadAll() ([]Record, error) {
	var records []Record
	for {
		rec, err := p.Next()
		if err != nil {
			return records, err
		}
		if rec == nil {
			return records, nil
		}
		records = append(records, *rec)
	}
}

// Errors returns the per-line errors encountered so far.
func (p *Parser) Errors() []error {
	return p.errors
}

// LineNum returns the number of lines consumed.
func (p *Parser) LineNum() int {
	return p.lineNum
}
