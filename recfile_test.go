package recfile

import (
	"encoding/binary"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/arloliu/recfile/endian"
	"github.com/arloliu/recfile/errs"
	"github.com/arloliu/recfile/format"
	"github.com/arloliu/recfile/rowio"
	"github.com/arloliu/recfile/schema"
)

// pointSchema is [id:int64, pos:float32[3], tag:string8], 28 bytes per row.
func pointSchema(t *testing.T) *schema.Schema {
	t.Helper()

	sch, err := NewSchema(
		schema.FieldSpec{Name: "id", Type: format.TypeInt64},
		schema.FieldSpec{Name: "pos", Type: format.TypeFloat32, Count: 3},
		schema.FieldSpec{Name: "tag", Type: format.TypeString, ElemSize: 8},
	)
	require.NoError(t, err)
	require.Equal(t, 28, sch.RowSize())

	return sch
}

func points(n int) []byte {
	out := make([]byte, 0, n*28)
	for i := range n {
		out = binary.LittleEndian.AppendUint64(out, uint64(1000+i))
		for j := range 3 {
			out = binary.LittleEndian.AppendUint32(out, math.Float32bits(float32(i)+float32(j)/4))
		}
		out = append(out, []byte("point-"+string(rune('a'+i)))[:7]...)
		out = append(out, 'x')
	}

	return out
}

func TestWriteReadFile(t *testing.T) {
	sch := pointSchema(t)
	data := points(6)
	le := rowio.WithByteOrder(endian.GetLittleEndianEngine())

	for _, delim := range []string{"", ",", " "} {
		t.Run(format.KindOf(delim).String(), func(t *testing.T) {
			require := require.New(t)

			path := filepath.Join(t.TempDir(), "points")
			require.NoError(WriteFile(path, delim, data, sch, le))

			res, err := ReadFile(path, delim, sch, 6, nil, nil, le)
			require.NoError(err)
			require.Equal(data, res.Data)
			require.Equal(int64(6), res.Rows)

			res, err = ReadFile(path, delim, sch, 6, []int64{1, 4}, []string{"tag", "id"}, le)
			require.NoError(err)
			require.Equal([]string{"id", "tag"}, res.Schema.Names())

			var want []byte
			for _, r := range []int{1, 4} {
				row := data[r*28 : (r+1)*28]
				want = append(want, row[:8]...)
				want = append(want, row[20:]...)
			}
			require.Equal(want, res.Data)
		})
	}
}

func TestAppendFile(t *testing.T) {
	require := require.New(t)

	sch := pointSchema(t)
	data := points(5)
	path := filepath.Join(t.TempDir(), "points.bin")

	require.NoError(AppendFile(path, "", data[:2*28], sch))
	require.NoError(AppendFile(path, "", data[2*28:], sch))

	res, err := ReadFile(path, "", sch, 5, nil, nil)
	require.NoError(err)
	require.Equal(data, res.Data)
	require.Equal(format.StrategyWholeFileBinary, res.Strategy)
}

func TestReadFile_Errors(t *testing.T) {
	sch := pointSchema(t)
	path := filepath.Join(t.TempDir(), "short.bin")
	require.NoError(t, WriteFile(path, "", points(2), sch))

	_, err := ReadFile(path, "", sch, 3, nil, nil)
	require.ErrorIs(t, err, errs.ErrTruncatedFile)

	_, err = ReadFile(path, "", sch, 2, nil, []string{"nope"})
	require.ErrorIs(t, err, errs.ErrNoMatchingFields)

	_, err = ReadFile(filepath.Join(t.TempDir(), "missing"), "", sch, 2, nil, nil)
	require.ErrorIs(t, err, errs.ErrOpen)
}

func TestWriteFile_UnsupportedType(t *testing.T) {
	sch, err := NewSchema(schema.FieldSpec{Name: "h", Type: format.TypeFloat16})
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "half.txt")
	err = WriteFile(path, ",", make([]byte, 4), sch)
	require.ErrorIs(t, err, errs.ErrUnsupportedType)

	// the binary form carries any type
	require.NoError(t, WriteFile(path, "", make([]byte, 4), sch))
}

func TestLoadSchema(t *testing.T) {
	require := require.New(t)

	path := filepath.Join(t.TempDir(), "points.yaml")
	doc := "fields:\n" +
		"  - {name: id, type: int64}\n" +
		"  - {name: pos, type: float32, count: 3}\n" +
		"  - {name: tag, type: string, size: 8}\n"
	require.NoError(os.WriteFile(path, []byte(doc), 0o600))

	sch, err := LoadSchema(path)
	require.NoError(err)
	require.True(sch.Equal(pointSchema(t)))

	_, err = LoadSchema(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(err, os.ErrNotExist)

	require.NoError(os.WriteFile(path, []byte("fields:\n  - {name: x, type: int128}\n"), 0o600))
	_, err = LoadSchema(path)
	require.ErrorIs(err, errs.ErrMalformedField)
}

func TestNewLenientSchema(t *testing.T) {
	sch, err := NewLenientSchema([]schema.FieldSpec{
		{Name: "a", Type: format.TypeInt16},
		{Name: "bad", Type: format.TypeString},
		{Name: "b", Type: format.TypeUint8, Count: 2},
	})
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, sch.Names())
	require.Equal(t, 4, sch.RowSize())

	_, err = NewSchema(schema.FieldSpec{Name: "bad", Type: format.TypeString})
	require.ErrorIs(t, err, errs.ErrMalformedField)
}
