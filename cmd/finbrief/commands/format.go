package commands

import (
	"fmt"

	"github.com/wonny/finbrief/internal/contracts"
)

// ═══════════════════════════════════════════════════════════
// Common Formatting Utilities
// 모든 커맨드가 동일한 출력 포맷을 사용하도록 통일
// ═══════════════════════════════════════════════════════════

// PrintProgress prints a progress step with counter
// Example: [finbrief] CIK 조회 [2/4]
func PrintProgress(tag string, message string, current int, total int) {
	fmt.Printf("[%s] %s [%d/%d]\n", tag, message, current, total)
}

// PrintSeparator prints a visual separator
func PrintSeparator() {
	fmt.Println("───────────────────────────────────────────────────────────")
}

// PrintDoubleSeparator prints a double-line separator
func PrintDoubleSeparator() {
	fmt.Println("═══════════════════════════════════════════════════════════")
}

// PrintWarning prints a warning message
func PrintWarning(message string) {
	fmt.Println()
	fmt.Printf("⚠️  %s\n", message)
	fmt.Println()
}

// PrintSuccess prints a success message
func PrintSuccess(message string) {
	fmt.Printf("✅ %s\n", message)
}

// PrintError prints an error message
func PrintError(message string) {
	fmt.Printf("❌ %s\n", message)
}

// PrintKeyValue prints key-value pairs
func PrintKeyValue(key string, value string, keyWidth int) {
	fmt.Printf("   %-*s : %s\n", keyWidth, key, value)
}

// PrintBriefing prints a run the way the search page shows it
func PrintBriefing(b *contracts.Briefing) {
	if b.FailureKind == contracts.KindInvalidInput {
		PrintWarning(b.Message)
		return
	}

	fmt.Println()
	PrintDoubleSeparator()
	fmt.Printf("  찾는 회사 이름(한글): %s\n", b.Query)
	if b.ResolvedName != "" {
		fmt.Printf("  찾는 회사 이름(영문): %s\n", b.ResolvedName)
	}
	PrintSeparator()

	if !b.Succeeded() {
		PrintError(b.Message)
		return
	}

	PrintKeyValue("Company", fmt.Sprintf("%s (%s)", b.Company.Title, b.Company.CIK), 9)
	PrintKeyValue("Filing", fmt.Sprintf("%s %s", b.Filing.Form, b.Filing.FilingDate), 9)
	PrintKeyValue("URL", b.Filing.URL, 9)
	if b.Truncated {
		PrintKeyValue("Note", "문서가 길어 앞부분만 요약했습니다", 9)
	}
	if b.Cached {
		PrintKeyValue("Cache", "hit", 9)
	}
	PrintSeparator()

	PrintSuccess(b.Message)
	fmt.Println()
	fmt.Println("### 회사 정보 요약")
	fmt.Println()
	fmt.Println(b.Summary)
	fmt.Println()
	fmt.Printf("(%s, %.1fs)\n", b.Model, b.Duration().Seconds())
}
