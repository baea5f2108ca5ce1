package rowio

import (
	"fmt"

	"github.com/arloliu/recfile/errs"
	"github.com/arloliu/recfile/format"
	"github.com/arloliu/recfile/selection"
)

// chooseStrategy picks the cheapest read strategy for a selection.
//
// Binary files with every field selected are read in row-sized blocks: one block
// for the whole file when every row is selected too, one block per row otherwise.
// Anything else goes field by field. Delimited files always do, since their
// tokens have no fixed byte width.
func chooseStrategy(kind format.FileKind, sel *selection.Selection) format.Strategy {
	if kind.IsBinary() && sel.AllFields() {
		if sel.AllRows() {
			return format.StrategyWholeFileBinary
		}

		return format.StrategyWholeRowBinary
	}

	return format.StrategyPerField
}

// cursor hands out consecutive slices of a destination buffer.
type cursor struct {
	buf []byte
	off int
}

// next returns the following n bytes of the buffer and advances past them.
func (c *cursor) next(n int) ([]byte, error) {
	if n < 0 || n > c.remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, %d left", errs.ErrBufferSize, n, c.off, c.remaining())
	}
	b := c.buf[c.off : c.off+n : c.off+n]
	c.off += n

	return b, nil
}

func (c *cursor) remaining() int {
	return len(c.buf) - c.off
}
