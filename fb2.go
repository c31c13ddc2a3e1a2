package main

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const fb2Namespace = "http://www.gribuser.ru/xml/fictionbook/2.0"

var (
	descriptionName = xml.Name{Space: fb2Namespace, Local: "description"}
	titleInfoName   = xml.Name{Space: fb2Namespace, Local: "title-info"}
)

// ErrMetadataNotFound is returned for well-formed documents without a
// description/title-info block.
var ErrMetadataNotFound = errors.New("metadata block description/title-info not found")

// ParseError wraps an XML syntax or charset failure for a single file.
type ParseError struct {
	Path string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("failed to parse %s: %v", e.Path, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// RawMetadata is the unprocessed title and author data of one book.
type RawMetadata struct {
	Titles  []string
	Authors []string
}

type fb2Author struct {
	FirstNames []string `xml:"http://www.gribuser.ru/xml/fictionbook/2.0 first-name"`
	LastNames  []string `xml:"http://www.gribuser.ru/xml/fictionbook/2.0 last-name"`
}

type fb2TitleInfo struct {
	Authors    []fb2Author `xml:"http://www.gribuser.ru/xml/fictionbook/2.0 author"`
	BookTitles []string    `xml:"http://www.gribuser.ru/xml/fictionbook/2.0 book-title"`
}

// extractMetadata reads the title-info block of the FB2 file at path.
func extractMetadata(path string) (*RawMetadata, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	info, err := decodeTitleInfo(f)
	if errors.Is(err, ErrMetadataNotFound) {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err != nil {
		return nil, &ParseError{Path: path, Err: err}
	}

	var lastNames, firstNames []string
	for _, author := range info.Authors {
		lastNames = append(lastNames, nonEmpty(author.LastNames)...)
		firstNames = append(firstNames, nonEmpty(author.FirstNames)...)
	}

	return &RawMetadata{
		Titles:  nonEmpty(info.BookTitles),
		Authors: pairAuthors(lastNames, firstNames),
	}, nil
}

// decodeTitleInfo streams the document, decoding the first
// description/title-info element. The rest of the document is still read so
// that malformed XML anywhere in the file is reported.
func decodeTitleInfo(r io.Reader) (*fb2TitleInfo, error) {
	// A BOM switches decoding to the matching Unicode encoding; otherwise
	// bytes pass through untouched for the charset declared in the prolog.
	dec := xml.NewDecoder(transform.NewReader(r, unicode.BOMOverride(transform.Nop)))
	dec.CharsetReader = charsetReader

	var (
		info       *fb2TitleInfo
		stack      []xml.Name
		sawRoot    bool
		rootClosed bool
	)
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if rootClosed {
				return nil, extraContentError(dec)
			}
			sawRoot = true
			if info == nil && t.Name == titleInfoName && len(stack) > 0 && stack[len(stack)-1] == descriptionName {
				var ti fb2TitleInfo
				if err := dec.DecodeElement(&ti, &t); err != nil {
					return nil, err
				}
				info = &ti
				continue
			}
			stack = append(stack, t.Name)
		case xml.EndElement:
			stack = stack[:len(stack)-1]
			rootClosed = len(stack) == 0
		case xml.CharData:
			// encoding/xml accepts text and elements outside the root
			if len(stack) == 0 && strings.TrimSpace(string(t)) != "" {
				return nil, extraContentError(dec)
			}
		}
	}

	if !sawRoot {
		return nil, errors.New("document is empty")
	}
	if info == nil {
		return nil, ErrMetadataNotFound
	}
	return info, nil
}

func extraContentError(dec *xml.Decoder) error {
	line, _ := dec.InputPos()
	return &xml.SyntaxError{Msg: "extra content outside the root element", Line: line}
}

// charsetReader converts legacy encodings (windows-1251, koi8-r, ...) declared
// in the XML prolog to UTF-8.
func charsetReader(label string, input io.Reader) (io.Reader, error) {
	// Already converted by the BOM override
	if strings.HasPrefix(strings.ToLower(label), "utf-16") {
		return input, nil
	}
	enc, err := htmlindex.Get(label)
	if err != nil {
		return nil, fmt.Errorf("unsupported charset %q: %w", label, err)
	}
	return enc.NewDecoder().Reader(input), nil
}

// pairAuthors zips last and first names in document order. Pairs missing
// either side are dropped.
func pairAuthors(lastNames, firstNames []string) []string {
	n := min(len(lastNames), len(firstNames))
	authors := make([]string, 0, n)
	for i := range n {
		last, first := lastNames[i], firstNames[i]
		if last == "" || first == "" {
			continue
		}
		authors = append(authors, last+" "+first)
	}
	return authors
}

func nonEmpty(values []string) []string {
	var out []string
	for _, v := range values {
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
