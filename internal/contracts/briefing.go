package contracts

import "time"

// Stage names one step of the lookup pipeline
type Stage string

const (
	StageInput     Stage = "input"     // 입력 검증
	StageResolve   Stage = "resolve"   // 한글 → 영문 회사명
	StageLookup    Stage = "lookup"    // 회사명 → CIK
	StageLocate    Stage = "locate"    // CIK → 최신 10-K
	StageSummarize Stage = "summarize" // 10-K → 한국어 요약
)

// Stages lists the pipeline steps in execution order
var Stages = []Stage{StageResolve, StageLookup, StageLocate, StageSummarize}

// Company is one entry of the SEC company directory
type Company struct {
	CIK    string `json:"cik"` // 10 digits, zero padded
	Ticker string `json:"ticker"`
	Title  string `json:"title"`
}

// Filing is a located annual report
// ⭐ SSOT: 공시 문서 참조는 이 구조체로만 전달
type Filing struct {
	CIK             string `json:"cik"`
	Form            string `json:"form"`
	AccessionNumber string `json:"accession_number"` // as published, with dashes
	PrimaryDocument string `json:"primary_document"`
	FilingDate      string `json:"filing_date,omitempty"`
	ReportDate      string `json:"report_date,omitempty"`
	URL             string `json:"url"`
}

// Status is the outcome of a run
type Status string

const (
	StatusSucceeded Status = "succeeded"
	StatusFailed    Status = "failed"
)

// Briefing is the result of one lookup run
// ⭐ SSOT: 파이프라인 실행 결과는 이 구조체 하나로 표현
type Briefing struct {
	ID           string      `json:"id"`
	Query        string      `json:"query"`
	ResolvedName string      `json:"resolved_name,omitempty"`
	Company      *Company    `json:"company,omitempty"`
	Filing       *Filing     `json:"filing,omitempty"`
	Summary      string      `json:"summary,omitempty"`
	Truncated    bool        `json:"truncated"`
	Cached       bool        `json:"cached"`
	Model        string      `json:"model,omitempty"`
	Status       Status      `json:"status"`
	FailureKind  FailureKind `json:"failure_kind,omitempty"`
	FailureStage Stage       `json:"failure_stage,omitempty"`
	Message      string      `json:"message,omitempty"` // user facing, Korean
	Error        string      `json:"error,omitempty"`   // diagnostic
	StartedAt    time.Time   `json:"started_at"`
	FinishedAt   time.Time   `json:"finished_at"`
}

// Succeeded reports whether the run produced a summary
func (b *Briefing) Succeeded() bool {
	return b.Status == StatusSucceeded
}

// Duration returns how long the run took
func (b *Briefing) Duration() time.Duration {
	if b.FinishedAt.IsZero() {
		return 0
	}
	return b.FinishedAt.Sub(b.StartedAt)
}
