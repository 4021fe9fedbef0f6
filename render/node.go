package render

// BlockType discriminates the closed set of block kinds the renderer
// understands. Every type listed here has a shape contract in validate.go and
// a production rule in blocks.go; a completeness test keeps the sets aligned.
type BlockType string

const (
	TypeParagraph        BlockType = "paragraph"
	TypeHeading1         BlockType = "heading_1"
	TypeHeading2         BlockType = "heading_2"
	TypeHeading3         BlockType = "heading_3"
	TypeBulletedListItem BlockType = "bulleted_list_item"
	TypeNumberedListItem BlockType = "numbered_list_item"
	TypeToDo             BlockType = "to_do"
	TypeToggle           BlockType = "toggle"
	TypeQuote            BlockType = "quote"
	TypeCallout          BlockType = "callout"
	TypeCode             BlockType = "code"
	TypeImage            BlockType = "image"
	TypeVideo            BlockType = "video"
	TypeEmbed            BlockType = "embed"
	TypeEquation         BlockType = "equation"
	TypeDivider          BlockType = "divider"
	TypeTable            BlockType = "table"
	TypeTableRow         BlockType = "table_row"
	TypeColumnList       BlockType = "column_list"
	TypeColumn           BlockType = "column"
	TypeBookmark         BlockType = "bookmark"
	TypeLinkPreview      BlockType = "link_preview"
	TypeChildPage        BlockType = "child_page"
)

// BlockTypes enumerates the closed set in declaration order.
var BlockTypes = []BlockType{
	TypeParagraph,
	TypeHeading1,
	TypeHeading2,
	TypeHeading3,
	TypeBulletedListItem,
	TypeNumberedListItem,
	TypeToDo,
	TypeToggle,
	TypeQuote,
	TypeCallout,
	TypeCode,
	TypeImage,
	TypeVideo,
	TypeEmbed,
	TypeEquation,
	TypeDivider,
	TypeTable,
	TypeTableRow,
	TypeColumnList,
	TypeColumn,
	TypeBookmark,
	TypeLinkPreview,
	TypeChildPage,
}

// SpanType discriminates inline content units.
type SpanType string

const (
	SpanText     SpanType = "text"
	SpanMention  SpanType = "mention"
	SpanEquation SpanType = "equation"
)

// Annotations is the style flag set carried by a span. Each flag is
// independent; Color holds the remote color tag ("default" means unset).
type Annotations struct {
	Bold          bool
	Italic        bool
	Strikethrough bool
	Underline     bool
	Code          bool
	Color         string
}

// MentionType discriminates cross-reference spans.
type MentionType string

const (
	MentionPage MentionType = "page"
	MentionUser MentionType = "user"
	MentionDate MentionType = "date"
)

// DateRange is the payload of a date mention. End and TimeZone may be empty.
type DateRange struct {
	Start    string
	End      string
	TimeZone string
}

// Mention is the payload of a cross-reference span.
type Mention struct {
	Type     MentionType
	PageID   string
	UserID   string
	UserName string
	Date     *DateRange
}

// Span is one immutable inline content unit. Text carries the literal text
// for text and mention spans; Expression carries the raw source of equation
// spans, which renders unescaped.
type Span struct {
	Type        SpanType
	Text        string
	Href        string
	Annotations Annotations
	Mention     *Mention
	Expression  string
}

// Typed payloads produced by shape validation. Each mirrors exactly the
// fields its production rule consumes.

type Paragraph struct {
	Spans []Span
	Color string
}

type Heading struct {
	Level int
	Spans []Span
	Color string
}

type ListItem struct {
	Spans []Span
	Color string
}

type ToDo struct {
	Spans   []Span
	Checked bool
	Color   string
}

type Toggle struct {
	Spans []Span
	Color string
}

type Quote struct {
	Spans []Span
	Color string
}

// Icon is a callout icon: either an emoji literal or an image URL.
type Icon struct {
	Emoji string
	URL   string
}

type Callout struct {
	Spans []Span
	Icon  *Icon
	Color string
}

type Code struct {
	Spans    []Span
	Caption  []Span
	Language string
}

// Media covers image and video payloads. URL is resolved from whichever of
// the external or hosted-file variants the source carries.
type Media struct {
	URL     string
	Caption []Span
}

type Table struct {
	Width           int
	HasColumnHeader bool
	HasRowHeader    bool
}

// TableRow is one flat row child of a table. It carries a single cell's span
// sequence; the table rule regroups row children into rows of Table.Width
// cells.
type TableRow struct {
	Spans []Span
}

type Bookmark struct {
	URL     string
	Caption []Span
}

type LinkPreview struct {
	URL string
}

type Embed struct {
	URL     string
	Caption []Span
}

type Equation struct {
	Expression string
}

type ChildPage struct {
	Title string
}

type Divider struct{}

type ColumnList struct{}

type Column struct{}
