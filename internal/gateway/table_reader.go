package gateway

import (
	"bytes"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	"payrecon/internal/domain"
)

const (
	// Bytes of the file head fed to statistical encoding detection.
	encodingSniffSize = 10 * 1024
	// Bytes trial-decoded per encoding candidate.
	trialSampleSize = 1024
	// Bytes of decoded text used for delimiter sniffing.
	delimiterSniffSize = 1024
	// Lines considered by the delimiter sniffer.
	maxSniffLines = 10
)

// FileTableRepository loads uploaded files into normalized tables without
// being told their format: spreadsheet parsing is attempted first at
// several header positions, then delimited text with detected encoding
// and delimiter.
type FileTableRepository struct {
	encoding  domain.EncodingConfig
	delimiter domain.DelimiterConfig
	log       *zap.Logger
}

// NewFileTableRepository creates a repository using the config's encoding
// and delimiter preferences. A nil logger disables diagnostics.
func NewFileTableRepository(cfg domain.Config, log *zap.Logger) *FileTableRepository {
	if log == nil {
		log = zap.NewNop()
	}
	return &FileTableRepository{
		encoding:  cfg.Encoding,
		delimiter: cfg.Delimiter,
		log:       log,
	}
}

// Load turns the file at path into a table, or returns a typed
// *domain.IngestionError carrying the path and the parameters that were
// tried.
func (r *FileTableRepository) Load(ctx context.Context, path string) (*domain.Table, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, &domain.IngestionError{Path: path, Err: err}
	}
	if t, ok := r.trySpreadsheet(path); ok {
		return t, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.loadDelimited(path)
}

// trySpreadsheet attempts a spreadsheet parse at header row 0, then 1,
// then with positional column names. Exported reports sometimes prepend a
// banner row above the real header, which is why the retries exist.
func (r *FileTableRepository) trySpreadsheet(path string) (*domain.Table, bool) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		r.log.Debug("not a spreadsheet, falling back to delimited text",
			zap.String("path", path), zap.Error(err))
		return nil, false
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil || len(rows) == 0 {
		return nil, false
	}
	for _, headerRow := range []int{0, 1, -1} {
		columns, data, ok := splitHeader(rows, headerRow)
		if !ok || !acceptHeader(columns) {
			continue
		}
		r.log.Debug("spreadsheet parse accepted",
			zap.String("path", path), zap.Int("header_row", headerRow))
		return buildTable(columns, data), true
	}
	return nil, false
}

// splitHeader picks the candidate header row and the data rows below it.
// headerRow -1 means no header inference: columns get positional names.
func splitHeader(rows [][]string, headerRow int) ([]string, [][]string, bool) {
	if headerRow < 0 {
		width := len(rows[0])
		columns := make([]string, width)
		for i := range columns {
			columns[i] = strconv.Itoa(i)
		}
		return columns, rows, true
	}
	if len(rows) <= headerRow {
		return nil, nil, false
	}
	return headerNames(rows[headerRow]), rows[headerRow+1:], true
}

// headerNames converts a raw header row into column names, synthesizing
// "Unnamed: <i>" for blank cells the way frame loaders do.
func headerNames(cells []string) []string {
	names := make([]string, len(cells))
	for i, c := range cells {
		if strings.TrimSpace(c) == "" {
			names[i] = fmt.Sprintf("Unnamed: %d", i)
		} else {
			names[i] = c
		}
	}
	return names
}

var dataTokenPattern = regexp.MustCompile(`^[A-Za-z]+\d+$`)

// acceptHeader rejects candidate headers that look like data: a single
// column, a synthetic name for a blank first cell, a purely numeric first
// cell, or an ID-shaped first cell such as "D001".
func acceptHeader(columns []string) bool {
	if len(columns) <= 1 {
		return false
	}
	first := columns[0]
	if strings.HasPrefix(first, "Unnamed") {
		return false
	}
	if isAllDigits(first) {
		return false
	}
	if dataTokenPattern.MatchString(first) {
		return false
	}
	return true
}

func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

// buildTable assembles rows keyed by trimmed column names. Short rows are
// padded with empty cells; cells beyond the header width are dropped.
func buildTable(columns []string, data [][]string) *domain.Table {
	trimmed := make([]string, len(columns))
	for i, c := range columns {
		trimmed[i] = strings.TrimSpace(c)
	}
	t := &domain.Table{Columns: trimmed, Rows: make([]domain.Row, 0, len(data))}
	for _, cells := range data {
		row := make(domain.Row, len(trimmed))
		for i, name := range trimmed {
			if i < len(cells) {
				row[name] = cells[i]
			} else {
				row[name] = ""
			}
		}
		t.Rows = append(t.Rows, row)
	}
	return t
}

// loadDelimited parses the file as delimited text, resolving encoding and
// delimiter first. On failure it retries once with a byte-preserving
// latin1 decode and malformed-row skipping.
func (r *FileTableRepository) loadDelimited(path string) (*domain.Table, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, &domain.IngestionError{Path: path, Err: err}
	}

	sniff := raw
	if len(sniff) > encodingSniffSize {
		sniff = sniff[:encodingSniffSize]
	}
	encName := detectEncoding(sniff, r.encoding, r.log)
	enc := encodingByName(encName)
	if enc == nil {
		enc = charmap.ISO8859_1
	}
	delim := detectDelimiter(decodedSample(sniff, enc), r.delimiter)
	r.log.Debug("delimited text parse",
		zap.String("path", path),
		zap.String("encoding", encName),
		zap.String("delimiter", delim))

	t, err := parseDelimited(raw, enc, delim, false)
	if err == nil {
		return t, nil
	}
	r.log.Warn("delimited parse failed, retrying with byte-preserving fallback",
		zap.String("path", path),
		zap.String("encoding", encName),
		zap.Error(err))

	t, retryErr := parseDelimited(raw, charmap.ISO8859_1, delim, true)
	if retryErr == nil {
		return t, nil
	}
	return nil, &domain.IngestionError{
		Path:      path,
		Encoding:  encName,
		Delimiter: delim,
		Err:       errors.Join(err, retryErr),
	}
}

func decodedSample(sniff []byte, enc encoding.Encoding) string {
	decoded, _, err := transform.Bytes(enc.NewDecoder(), sniff)
	if err != nil {
		decoded = sniff
	}
	if len(decoded) > delimiterSniffSize {
		decoded = decoded[:delimiterSniffSize]
	}
	return string(decoded)
}

// parseDelimited reads the whole byte slice as delimited text. In strict
// mode a row wider than the header is an error, matching frame-loader
// behavior; with skipMalformed such rows are dropped instead. Short rows
// are padded in both modes.
func parseDelimited(raw []byte, enc encoding.Encoding, delim string, skipMalformed bool) (*domain.Table, error) {
	reader := csv.NewReader(transform.NewReader(bytes.NewReader(raw), enc.NewDecoder()))
	reader.Comma = []rune(delim)[0]
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = skipMalformed

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("reading header: %w", err)
	}
	columns := headerNames(header)

	var data [][]string
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			if skipMalformed {
				continue
			}
			return nil, fmt.Errorf("reading record: %w", err)
		}
		if len(record) > len(columns) {
			if skipMalformed {
				continue
			}
			return nil, fmt.Errorf("record has %d fields, header has %d", len(record), len(columns))
		}
		data = append(data, record)
	}
	return buildTable(columns, data), nil
}
