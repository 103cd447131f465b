// Package store reads and writes line-oriented, comma-delimited record files.
//
// Every file has one header line followed by one record per line. Fields are
// not quoted or escaped, so a field containing the delimiter produces a row
// with the wrong arity, which Read skips. Nothing is cached: every Read parses
// the file from disk and every write is visible to the next Read.
//
// The store assumes a single process owns the files. No locking is done.
package store

import (
	"bufio"
	"errors"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strings"
)

// Delimiter separates the fields of a row.
const Delimiter = ","

// MaxLineLength is the longest data line, in bytes, Read accepts as a row.
// Longer lines are skipped like any other malformed row.
const MaxLineLength = 64 * 1024

// Row is the raw fields of one record.
type Row []string

func (r Row) String() string {
	return strings.Join(r, Delimiter)
}

// Table is the result of one Read.
type Table struct {
	Header  string
	Rows    []Row
	Skipped int // malformed rows dropped: wrong number of fields or longer than MaxLineLength
}

// File is one record file holding rows of a fixed arity.
type File struct {
	path   string
	arity  int
	logger *slog.Logger
}

// Open returns a File for path. The file is not touched until an operation runs.
func Open(path string, arity int, logger *slog.Logger) *File {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &File{path: path, arity: arity, logger: logger.With("file", path)}
}

// Path returns the file's location on disk.
func (f *File) Path() string { return f.path }

// Arity returns the expected number of fields per row.
func (f *File) Arity() int { return f.arity }

// Init creates the file containing only header when it does not exist yet.
func (f *File) Init(header string) error {
	file, err := os.OpenFile(f.path, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if errors.Is(err, fs.ErrExist) {
		return nil
	}
	if err != nil {
		return ioErr("create", f.path, err)
	}
	if _, err := file.WriteString(header); err != nil {
		file.Close()
		return ioErr("write", f.path, err)
	}
	if err := file.Close(); err != nil {
		return ioErr("close", f.path, err)
	}
	return nil
}

// Read parses every data row of the file, in file order.
func (f *File) Read() (*Table, error) {
	file, err := os.Open(f.path)
	if err != nil {
		return nil, ioErr("open", f.path, err)
	}
	defer file.Close()

	t := &Table{}
	r := bufio.NewReader(file)
	lineNo := 0
	for {
		line, err := r.ReadString('\n')
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, ioErr("read", f.path, err)
		}
		if line == "" && err != nil {
			break
		}
		lineNo++
		f.parseLine(t, lineNo, strings.TrimRight(line, "\r\n"))
		if err != nil {
			break
		}
	}

	if t.Skipped > 0 {
		f.logger.Warn("skipped malformed rows", "count", t.Skipped)
	}
	return t, nil
}

func (f *File) parseLine(t *Table, lineNo int, line string) {
	if lineNo == 1 {
		t.Header = line
		return
	}
	if strings.TrimSpace(line) == "" {
		return
	}
	if len(line) > MaxLineLength {
		f.logger.Debug("skipping oversized row", "line", lineNo, "bytes", len(line))
		t.Skipped++
		return
	}
	fields := strings.Split(line, Delimiter)
	if len(fields) != f.arity {
		f.logger.Debug("skipping row with wrong field count", "line", lineNo, "fields", len(fields), "want", f.arity)
		t.Skipped++
		return
	}
	t.Rows = append(t.Rows, Row(fields))
}

// Append writes row at the end of the file, preceded by a newline.
func (f *File) Append(row Row) error {
	file, err := os.OpenFile(f.path, os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return ioErr("open", f.path, err)
	}
	if _, err := file.WriteString("\n" + row.String()); err != nil {
		file.Close()
		return ioErr("append", f.path, err)
	}
	if err := file.Close(); err != nil {
		return ioErr("close", f.path, err)
	}
	return nil
}

// Rewrite replaces the whole file with header followed by rows, in order.
func (f *File) Rewrite(header string, rows []Row) error {
	file, err := os.OpenFile(f.path, os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return ioErr("open", f.path, err)
	}

	w := bufio.NewWriter(file)
	w.WriteString(header)
	for _, r := range rows {
		w.WriteString("\n")
		w.WriteString(r.String())
	}
	if err := w.Flush(); err != nil {
		file.Close()
		return ioErr("rewrite", f.path, err)
	}
	if err := file.Close(); err != nil {
		return ioErr("close", f.path, err)
	}
	return nil
}
