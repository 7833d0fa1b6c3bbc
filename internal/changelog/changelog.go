// Package changelog extracts release notes from a CHANGELOG.md.
//
// The publish pipeline has always taken the THIRD blank-line-delimited
// record of the changelog as the release notes: record one is the
// "# Changelog" title, record two the latest "## <version>" heading, record
// three the notes under it. Record splitting reproduces awk paragraph mode
// (RS="") so existing changelogs keep producing byte-identical notes:
// records are separated by a newline followed by one or more empty lines,
// leading empty lines are skipped, and a whitespace-only line is content,
// not a separator.
package changelog

import (
	"io"
	"os"
	"regexp"
	"strings"
)

// notesRecord is the 1-based index of the record holding the release notes.
const notesRecord = 3

var recordSep = regexp.MustCompile(`\n{2,}`)

// Extract returns the release-notes record of the changelog, or the empty
// string when the changelog has fewer than three records (awk prints nothing
// and succeeds; so do we).
func Extract(r io.Reader) (string, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return "", err
	}

	recs := records(string(data))
	if len(recs) < notesRecord {
		return "", nil
	}
	return recs[notesRecord-1], nil
}

// ExtractFile is Extract on a changelog file path.
func ExtractFile(path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()
	return Extract(f)
}

// records splits text into paragraph-mode records.
func records(text string) []string {
	text = strings.TrimLeft(text, "\n")

	parts := recordSep.Split(text, -1)
	recs := make([]string, 0, len(parts))
	for _, part := range parts {
		// The final line's terminator belongs to the line, not the record.
		part = strings.TrimSuffix(part, "\n")
		if part == "" {
			continue
		}
		recs = append(recs, part)
	}
	return recs
}
