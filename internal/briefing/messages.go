package briefing

import "github.com/wonny/finbrief/internal/contracts"

// User-facing messages
const (
	MsgEmptyInput      = "회사 이름을 입력해주세요."
	MsgResolveFailed   = "회사 이름을 영문으로 변환할 수 없습니다."
	MsgCIKNotFound     = "해당 회사의 CIK를 찾을 수 없습니다."
	MsgFilingNotFound  = "해당 회사의 최신 10-K 보고서를 찾을 수 없습니다."
	MsgSummaryFailed   = "요약 실패: 데이터를 처리할 수 없습니다."
	MsgTimeout         = "요청 시간이 초과되었습니다. 잠시 후 다시 시도해주세요."
	MsgUpstreamFailure = "외부 서비스에 연결할 수 없습니다. 잠시 후 다시 시도해주세요."
	MsgCanceled        = "요청이 취소되었습니다."
	MsgSucceeded       = "요약 완료!"
)

// Message maps a failed stage to what the user sees
func Message(stage contracts.Stage, kind contracts.FailureKind) string {
	switch kind {
	case contracts.KindInvalidInput:
		return MsgEmptyInput
	case contracts.KindCanceled:
		return MsgCanceled
	}

	switch stage {
	case contracts.StageSummarize:
		return MsgSummaryFailed
	case contracts.StageLookup:
		if kind == contracts.KindNotFound {
			return MsgCIKNotFound
		}
	case contracts.StageLocate:
		if kind == contracts.KindNotFound {
			return MsgFilingNotFound
		}
	case contracts.StageResolve:
		if kind == contracts.KindNotFound {
			return MsgResolveFailed
		}
	}

	if kind == contracts.KindTimeout {
		return MsgTimeout
	}
	return MsgUpstreamFailure
}
