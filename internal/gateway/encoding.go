package gateway

import (
	"bytes"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"go.uber.org/zap"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"payrecon/internal/domain"
)

// Statistical detection below this confidence is re-validated by trial
// decoding against the configured candidate list.
const minDetectionConfidence = 70

// detectEncoding resolves the byte encoding of a delimited file from a
// sample of its head. High-confidence statistical detection wins;
// otherwise each configured candidate is trial-decoded in order, and the
// statistical guess is kept as the last resort.
func detectEncoding(sample []byte, cfg domain.EncodingConfig, log *zap.Logger) string {
	detector := chardet.NewTextDetector()
	best, err := detector.DetectBest(sample)
	if err == nil && best.Confidence >= minDetectionConfidence {
		return strings.ToLower(best.Charset)
	}

	trial := sample
	if len(trial) > trialSampleSize {
		trial = trial[:trialSampleSize]
	}
	if name, ok := trialDecode(trial, cfg.TryOrder); ok {
		log.Debug("encoding resolved by trial decode", zap.String("encoding", name))
		return name
	}
	if err == nil && best.Charset != "" {
		return strings.ToLower(best.Charset)
	}
	if cfg.Default != "" {
		return cfg.Default
	}
	return "utf-8"
}

// trialDecode returns the first candidate encoding that decodes the
// sample cleanly.
func trialDecode(sample []byte, tryOrder []string) (string, bool) {
	for _, name := range tryOrder {
		enc := encodingByName(name)
		if enc == nil {
			continue
		}
		if decodesCleanly(sample, enc) {
			return name, true
		}
	}
	return "", false
}

// encodingByName maps a configured encoding name to a decoder. Covers the
// names the config schema has historically used, then defers to the
// WHATWG index.
func encodingByName(name string) encoding.Encoding {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "utf-8", "utf8", "ascii":
		return unicode.UTF8
	case "utf-8-sig":
		return unicode.UTF8BOM
	case "gbk", "gb2312", "cp936", "windows-936":
		return simplifiedchinese.GBK
	case "gb18030", "gb-18030":
		return simplifiedchinese.GB18030
	case "latin1", "latin-1", "iso-8859-1", "iso8859-1":
		return charmap.ISO8859_1
	default:
		enc, err := htmlindex.Get(strings.TrimSpace(name))
		if err != nil {
			return nil
		}
		return enc
	}
}

// decodesCleanly reports whether the sample decodes without errors or
// replacement runes. The sample may end mid-character; a candidate
// rejected only for a truncated trailing byte is acceptable loss, the
// next candidate or the statistical guess still applies.
func decodesCleanly(sample []byte, enc encoding.Encoding) bool {
	if enc == unicode.UTF8 || enc == unicode.UTF8BOM {
		return utf8.Valid(bytes.TrimPrefix(sample, []byte{0xEF, 0xBB, 0xBF}))
	}
	decoded, _, err := transform.Bytes(enc.NewDecoder(), sample)
	if err != nil {
		return false
	}
	return !bytes.ContainsRune(decoded, utf8.RuneError)
}

// detectDelimiter sniffs the column delimiter from a decoded sample,
// preferring the first configured candidate that splits every sampled
// line into the same number of fields. Comma is the default.
func detectDelimiter(sample string, cfg domain.DelimiterConfig) string {
	candidates := cfg.TryOrder
	if len(candidates) == 0 {
		candidates = []string{",", "\t", ";", "|"}
	}
	lines := sampleLines(sample)
	if len(lines) == 0 {
		return ","
	}
	for _, delim := range candidates {
		if consistentCount(lines, delim) {
			return delim
		}
	}
	// No candidate is consistent; fall back to the one that appears at
	// all in the first line, then to comma.
	for _, delim := range candidates {
		if strings.Contains(lines[0], delim) {
			return delim
		}
	}
	return ","
}

func sampleLines(sample string) []string {
	raw := strings.Split(strings.ReplaceAll(sample, "\r\n", "\n"), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
		if len(lines) == maxSniffLines {
			break
		}
	}
	// The sample is cut at a byte budget; the last line may be truncated
	// and would skew the field count.
	if len(lines) > 1 && !strings.HasSuffix(sample, "\n") {
		lines = lines[:len(lines)-1]
	}
	return lines
}

func consistentCount(lines []string, delim string) bool {
	want := strings.Count(lines[0], delim)
	if want == 0 {
		return false
	}
	for _, line := range lines[1:] {
		if strings.Count(line, delim) != want {
			return false
		}
	}
	return true
}
