package segmenter

// Tag roles drive the walk. Block tags flush the accumulator and recurse,
// inline tags recurse without flushing, headings update the hierarchy
// stack, and anything else is skipped entirely (scripts, styles, media,
// embedded SVG and custom elements contribute nothing).

var headingLevels = map[string]int{
	"h1": 1, "h2": 2, "h3": 3, "h4": 4, "h5": 5, "h6": 6,
}

var blockTags = map[string]bool{
	"address": true, "article": true, "aside": true, "blockquote": true,
	"caption": true, "dd": true, "details": true, "dialog": true,
	"div": true, "dl": true, "dt": true, "fieldset": true,
	"figcaption": true, "figure": true, "footer": true, "form": true,
	"header": true, "hgroup": true, "hr": true, "legend": true,
	"li": true, "main": true, "ol": true, "p": true, "pre": true,
	"section": true, "summary": true, "table": true, "tbody": true,
	"td": true, "tfoot": true, "th": true, "thead": true, "tr": true,
	"ul": true,
}

var inlineTags = map[string]bool{
	"a": true, "abbr": true, "b": true, "bdi": true, "bdo": true,
	"br": true, "cite": true, "code": true, "data": true, "del": true,
	"dfn": true, "em": true, "i": true, "ins": true, "kbd": true,
	"mark": true, "q": true, "rp": true, "rt": true, "ruby": true,
	"s": true, "samp": true, "small": true, "span": true, "strong": true,
	"sub": true, "sup": true, "time": true, "u": true, "var": true,
	"wbr": true,
}

// Descendants of these blocks keep their whitespace verbatim instead of
// being collapsed at flush time, so code samples survive intact.
var preserveTags = map[string]bool{
	"pre": true,
}
