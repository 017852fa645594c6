package entity

// QuizTask identifies one page in a quiz chain. It is created by the caller
// or by a previous verdict's next URL and consumed once per iteration.
type QuizTask struct {
	URL string
}

// Identity carries the credentials forwarded with every submission.
type Identity struct {
	Email  string
	Secret string
}

type TaskType string

const (
	TaskTypeDownloadFile   TaskType = "download_file"
	TaskTypeWebScraping    TaskType = "web_scraping"
	TaskTypeDataAnalysis   TaskType = "data_analysis"
	TaskTypeAPICall        TaskType = "api_call"
	TaskTypeVisualization  TaskType = "visualization"
	TaskTypeTextProcessing TaskType = "text_processing"
	TaskTypeUnknown        TaskType = "unknown"
)

// NormalizeTaskType maps free-form service output onto the known task
// types, falling back to unknown.
func NormalizeTaskType(s string) TaskType {
	switch TaskType(s) {
	case TaskTypeDownloadFile, TaskTypeWebScraping, TaskTypeDataAnalysis,
		TaskTypeAPICall, TaskTypeVisualization, TaskTypeTextProcessing:
		return TaskType(s)
	}
	return TaskTypeUnknown
}

type AnswerFormat string

const (
	FormatNumber      AnswerFormat = "number"
	FormatString      AnswerFormat = "string"
	FormatBoolean     AnswerFormat = "boolean"
	FormatJSON        AnswerFormat = "json"
	FormatBase64Image AnswerFormat = "base64_image"
)

// NormalizeAnswerFormat maps free-form service output onto one of the five
// answer formats, falling back to string.
func NormalizeAnswerFormat(s string) AnswerFormat {
	switch AnswerFormat(s) {
	case FormatNumber, FormatBoolean, FormatJSON, FormatBase64Image:
		return AnswerFormat(s)
	}
	return FormatString
}

// ParsedQuestion is the structured interpretation of a quiz question.
// Every field is always populated; the interpreter substitutes safe
// defaults for anything missing or invalid.
type ParsedQuestion struct {
	TaskType          TaskType
	FilesToDownload   []string
	SubmitURL         string
	AnswerFormat      AnswerFormat
	AnalysisRequired  string
	ExpectedAnswerKey string
}

// DefaultParsedQuestion is the fallback interpretation used whenever the
// reasoning service response cannot be used.
func DefaultParsedQuestion(question string) ParsedQuestion {
	return ParsedQuestion{
		TaskType:          TaskTypeUnknown,
		FilesToDownload:   []string{},
		SubmitURL:         "",
		AnswerFormat:      FormatString,
		AnalysisRequired:  question,
		ExpectedAnswerKey: "answer",
	}
}

// Answer is a typed value extracted from a reasoning response. Value's
// dynamic type is determined by Format: int or float64 for number, bool
// for boolean, any JSON value for json, string otherwise. It is immutable
// once extracted.
type Answer struct {
	Format AnswerFormat
	Value  any
}

// Verdict is the judge's response to a submission and the sole driver of
// chain transitions. Missing fields in the judge response are tolerated as
// zero values.
type Verdict struct {
	Correct bool
	NextURL string
	Reason  string
}
