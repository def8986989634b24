package segmenter

import (
	"crypto/sha1"
	"encoding/hex"
	"strconv"
)

// ObjectID derives the stable identifier incremental syncs match on. The
// input is the document URL alone when the document has no anchor, and
// url + "#" + anchor + "-" + position otherwise, so anchored documents
// stay distinct when a heading repeats on a page. SHA-1 is an identity
// join key here, not a security boundary.
func ObjectID(url string, anchor *string, position int) string {
	input := url
	if anchor != nil {
		input = url + "#" + *anchor + "-" + strconv.Itoa(position)
	}
	sum := sha1.Sum([]byte(input))
	return hex.EncodeToString(sum[:])
}
