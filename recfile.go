// Package recfile reads and writes fixed-layout record files.
//
// A record file holds rows of a fixed size, each made of the same ordered
// fields. A field is a scalar number, a fixed-size array of numbers, or a
// fixed-length byte string. Files come in two forms:
//
//   - Binary: rows are packed back to back, every row exactly RowSize bytes.
//   - Delimited: one text line per row, with a delimiter string between
//     elements. A delimiter starting with whitespace selects whitespace-tokenized
//     lines.
//
// The empty delimiter selects the binary form. Both forms read into, and write
// from, the same packed binary buffer layout described by a schema.
//
// # Core Features
//
//   - Field and row subsets with forward-only skip-ahead
//   - Bulk binary reads when the whole file or whole rows are wanted
//   - Byte-exact binary round trips, precision-bounded text round trips
//   - Optional stream compression (Zstd, S2, LZ4)
//   - Schemas declared in Go or in YAML
//   - Strict or lenient handling of malformed schemas and row lists
//
// # Basic Usage
//
// Declaring a schema and writing rows:
//
//	import "github.com/arloliu/recfile"
//
//	sch, _ := recfile.NewSchema(
//	    schema.FieldSpec{Name: "id", Type: format.TypeInt64},
//	    schema.FieldSpec{Name: "pos", Type: format.TypeFloat32, Count: 3},
//	    schema.FieldSpec{Name: "tag", Type: format.TypeString, ElemSize: 8},
//	)
//
//	// rows holds n packed rows of sch.RowSize() bytes
//	err := recfile.WriteFile("points.txt", ",", rows, sch)
//
// Reading a subset back:
//
//	res, err := recfile.ReadFile("points.txt", ",", sch, n,
//	    []int64{0, 10, 20}, []string{"id", "tag"})
//	// res.Data holds 3 rows laid out as res.Schema
//
// # Package Structure
//
// This package provides convenient top-level wrappers around the rowio and
// schema packages. For sessions that read several times, share a handle or
// tune buffering, use rowio directly.
package recfile

import (
	"fmt"
	"os"

	"github.com/arloliu/recfile/format"
	"github.com/arloliu/recfile/rowio"
	"github.com/arloliu/recfile/schema"
)

// Open starts a session over a caller-supplied handle. The handle is never closed
// by the session. See rowio.Open.
func Open(handle any, mode format.Mode, delim string, opts ...rowio.Option) (*rowio.Session, error) {
	return rowio.Open(handle, mode, delim, opts...)
}

// OpenFile opens the file at path and starts a session that owns it.
// See rowio.OpenFile.
//
// Example:
//
//	sess, err := recfile.OpenFile("data.bin", format.ModeRead, "",
//	    rowio.WithSchema(sch), rowio.WithRowCount(1000))
//	if err != nil {
//	    return err
//	}
//	defer sess.Close()
func OpenFile(path string, mode format.Mode, delim string, opts ...rowio.Option) (*rowio.Session, error) {
	return rowio.OpenFile(path, mode, delim, opts...)
}

// NewSchema builds a strict schema from field specs, packing offsets in order.
func NewSchema(specs ...schema.FieldSpec) (*schema.Schema, error) {
	return schema.Build(format.PolicyStrict, specs)
}

// NewLenientSchema builds a schema that drops malformed specs instead of failing.
// Dropped fields are logged through schema.WithLogger.
func NewLenientSchema(specs []schema.FieldSpec, opts ...schema.Option) (*schema.Schema, error) {
	return schema.Build(format.PolicyLenient, specs, opts...)
}

// LoadSchema reads a YAML schema document from the file at path.
//
// Example document:
//
//	policy: strict
//	fields:
//	  - {name: id, type: int64}
//	  - {name: pos, type: float32, count: 3}
//	  - {name: tag, type: string, size: 8}
func LoadSchema(path string, opts ...schema.Option) (*schema.Schema, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	sch, err := schema.LoadYAML(f, opts...)
	if err != nil {
		return nil, fmt.Errorf("load schema %s: %w", path, err)
	}

	return sch, nil
}

// ReadFile reads the selected rows and fields of the record file at path.
//
// Empty rows or fields select everything. rowCount is the number of rows the
// file holds.
func ReadFile(path, delim string, sch *schema.Schema, rowCount int64, rows []int64, fields []string, opts ...rowio.Option) (*rowio.Result, error) {
	opts = append(opts[:len(opts):len(opts)], rowio.WithSchema(sch), rowio.WithRowCount(rowCount))

	sess, err := rowio.OpenFile(path, format.ModeRead, delim, opts...)
	if err != nil {
		return nil, err
	}

	res, err := sess.Read(rows, fields)
	if cerr := sess.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		return nil, err
	}

	return res, nil
}

// WriteFile creates or truncates the file at path and writes the packed rows in data.
func WriteFile(path, delim string, data []byte, sch *schema.Schema, opts ...rowio.Option) error {
	return writeFile(path, format.ModeWrite, delim, data, sch, opts)
}

// AppendFile writes the packed rows in data after the current content of the
// file at path, creating it when missing.
func AppendFile(path, delim string, data []byte, sch *schema.Schema, opts ...rowio.Option) error {
	return writeFile(path, format.ModeAppend, delim, data, sch, opts)
}

func writeFile(path string, mode format.Mode, delim string, data []byte, sch *schema.Schema, opts []rowio.Option) error {
	sess, err := rowio.OpenFile(path, mode, delim, opts...)
	if err != nil {
		return err
	}

	err = sess.Write(data, sch)
	if cerr := sess.Close(); err == nil {
		err = cerr
	}

	return err
}
