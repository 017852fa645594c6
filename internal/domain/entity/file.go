package entity

// FileKind tags a retrieved file so downstream code can dispatch on the
// tag instead of probing the payload for capabilities.
type FileKind string

const (
	FileKindTabular  FileKind = "tabular"
	FileKindDocument FileKind = "document"
	FileKindImage    FileKind = "image"
	FileKindJSON     FileKind = "json"
	FileKindText     FileKind = "text"
)

// RetrievedFile is one downloaded and classified file. It lives for the
// duration of a single quiz iteration and is never persisted across
// iterations. Raw holds the payload; only Summary is ever inlined into
// reasoning prompts.
type RetrievedFile struct {
	SourceURL string
	Kind      FileKind
	Summary   string
	Raw       []byte
}
