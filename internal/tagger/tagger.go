// Package tagger embeds movie metadata into MKV files using mkvpropedit.
package tagger

import (
	"context"
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/mydehq/plexify/internal/types"
)

const binaryName = "mkvpropedit"

// TagInfo contains the metadata to embed into an MKV file.
type TagInfo struct {
	Title  string // Segment title and Matroska TITLE
	Year   string // DATE_RELEASED, optional
	IMDbID string // IMDB, optional
}

// FromRecord builds tag info from a resolved movie record.
func FromRecord(rec types.MovieRecord) TagInfo {
	return TagInfo{Title: rec.Title, Year: rec.Year, IMDbID: rec.ExternalID}
}

// IsAvailable returns true if mkvpropedit is found in $PATH.
func IsAvailable() bool {
	_, err := exec.LookPath(binaryName)
	return err == nil
}

// TagFile embeds metadata into a single MKV file using mkvpropedit.
// Non-MKV files are silently skipped (returns nil).
func TagFile(ctx context.Context, path string, info TagInfo) error {
	if !isMKV(path) {
		return nil
	}

	// mkvpropedit --tags only reads from a file
	tmpFile, err := os.CreateTemp("", "plexify-tags-*.xml")
	if err != nil {
		return fmt.Errorf("failed to create temp tag file: %w", err)
	}
	defer os.Remove(tmpFile.Name())

	if err := writeTagXML(tmpFile, info); err != nil {
		tmpFile.Close()
		return fmt.Errorf("failed to write tag XML: %w", err)
	}
	tmpFile.Close()

	args := []string{
		path,
		"--edit", "info",
		"--set", fmt.Sprintf("title=%s", info.Title),
		"--tags", fmt.Sprintf("all:%s", tmpFile.Name()),
	}

	cmd := exec.CommandContext(ctx, binaryName, args...)
	if out, err := cmd.CombinedOutput(); err != nil {
		return fmt.Errorf("mkvpropedit failed: %w\noutput: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// Hook adapts TagFile to run after a planned move. It is a no-op when
// mkvpropedit is missing.
func Hook() func(ctx context.Context, c types.PathChange) error {
	if !IsAvailable() {
		return func(context.Context, types.PathChange) error { return nil }
	}
	return func(ctx context.Context, c types.PathChange) error {
		return TagFile(ctx, c.Target, FromRecord(c.Record))
	}
}

func isMKV(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".mkv")
}

const tagXMLTemplate = `<?xml version="1.0" encoding="UTF-8"?>
<!DOCTYPE Tags SYSTEM "matroskatags.dtd">
<Tags>
  <Tag>
    <Targets>
      <TargetTypeValue>50</TargetTypeValue>
      <TargetType>MOVIE</TargetType>
    </Targets>
    <Simple>
      <Name>TITLE</Name>
      <String>{{esc .Title}}</String>
    </Simple>{{if .Year}}
    <Simple>
      <Name>DATE_RELEASED</Name>
      <String>{{esc .Year}}</String>
    </Simple>{{end}}{{if .IMDbID}}
    <Simple>
      <Name>IMDB</Name>
      <String>{{esc .IMDbID}}</String>
    </Simple>{{end}}
  </Tag>
</Tags>
`

var tagTmpl = template.Must(template.New("tags").Funcs(template.FuncMap{
	"esc": func(s string) (string, error) {
		var b strings.Builder
		err := xml.EscapeText(&b, []byte(s))
		return b.String(), err
	},
}).Parse(tagXMLTemplate))

func writeTagXML(w io.Writer, info TagInfo) error {
	return tagTmpl.Execute(w, info)
}
