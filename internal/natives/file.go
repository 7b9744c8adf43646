package natives

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	cerrors "github.com/carbon-lang/carbon/internal/errors"
	"github.com/carbon-lang/carbon/internal/value"
)

// fileObject is the native Object backing a Carbon `File` instance: thin
// wrapper over *os.File with an encoding-aware reader/writer pair, so
// non-UTF8 script sources can still read/write UTF-16 files via
// golang.org/x/text without any script-visible transcoding step.
type fileObject struct {
	value.BaseObject
	f       *os.File
	reader  *bufio.Reader
	writer  *bufio.Writer
	encoder io.Writer
	decoder io.Reader
	closed  bool
}

func fileErr(op string, err error) error {
	return &cerrors.SourceError{Kind: cerrors.IoError, Message: fmt.Sprintf("%s: %v", op, err)}
}

func newFile(args []value.Var) (value.Object, error) {
	if len(args) < 2 {
		return nil, &cerrors.SourceError{Kind: cerrors.InvalidArgCount, Message: "File(path, mode[, encoding]) requires at least 2 arguments"}
	}
	path := args[0].AsString()
	mode := args[1].AsString()
	encName := "utf8"
	if len(args) > 2 {
		encName = args[2].AsString()
	}

	var flag int
	switch mode {
	case "read":
		flag = os.O_RDONLY
	case "write":
		flag = os.O_WRONLY | os.O_CREATE | os.O_TRUNC
	case "append":
		flag = os.O_WRONLY | os.O_CREATE | os.O_APPEND
	case "binary":
		flag = os.O_RDWR | os.O_CREATE
	default:
		return nil, &cerrors.SourceError{Kind: cerrors.AttributeError, Message: fmt.Sprintf("unknown File mode %q", mode)}
	}

	f, err := os.OpenFile(path, flag, 0o644)
	if err != nil {
		return nil, fileErr("open "+path, err)
	}

	obj := &fileObject{BaseObject: value.BaseObject{Name: "File"}, f: f}

	switch encName {
	case "utf16le":
		obj.reader = bufio.NewReader(transform.NewReader(f, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()))
		obj.writer = bufio.NewWriter(transform.NewWriter(f, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewEncoder()))
	case "utf16be":
		obj.reader = bufio.NewReader(transform.NewReader(f, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewDecoder()))
		obj.writer = bufio.NewWriter(transform.NewWriter(f, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM).NewEncoder()))
	default:
		obj.reader = bufio.NewReader(f)
		obj.writer = bufio.NewWriter(f)
	}

	return obj, nil
}

func (fo *fileObject) TypeName() string { return "File" }

func (fo *fileObject) CallMethod(name string, args []value.Var) (value.Var, error) {
	switch name {
	case "read_line":
		line, err := fo.reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return value.Null(), fileErr("read_line", err)
		}
		if line == "" && err == io.EOF {
			return value.Null(), nil
		}
		return value.String(trimNewline(line)), nil
	case "read_all":
		data, err := io.ReadAll(fo.reader)
		if err != nil {
			return value.Null(), fileErr("read_all", err)
		}
		return value.String(string(data)), nil
	case "write":
		if len(args) != 1 {
			return value.Null(), &cerrors.SourceError{Kind: cerrors.InvalidArgCount, Message: "write(text) takes exactly 1 argument"}
		}
		if _, err := fo.writer.WriteString(args[0].AsString()); err != nil {
			return value.Null(), fileErr("write", err)
		}
		return value.Null(), nil
	case "close":
		return value.Null(), fo.close()
	default:
		return fo.BaseObject.CallMethod(name, args)
	}
}

func (fo *fileObject) close() error {
	if fo.closed {
		return nil
	}
	fo.closed = true
	if err := fo.writer.Flush(); err != nil {
		return fileErr("flush", err)
	}
	return fo.f.Close()
}

func trimNewline(s string) string {
	for len(s) > 0 && (s[len(s)-1] == '\n' || s[len(s)-1] == '\r') {
		s = s[:len(s)-1]
	}
	return s
}

func init() {
	Register("File", newFile)
	Bind("File", "read_line", BindData{Kind: BindMethod})
	Bind("File", "read_all", BindData{Kind: BindMethod})
	Bind("File", "write", BindData{Kind: BindMethod})
	Bind("File", "close", BindData{Kind: BindMethod})
}
