package commands

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/wonny/finbrief/internal/contracts"
	"github.com/wonny/finbrief/pkg/logger"
)

// lookupCmd represents the lookup command
var lookupCmd = &cobra.Command{
	Use:   "lookup [회사 이름]",
	Short: "회사 한 곳을 조회하고 10-K 요약 출력",
	Long: `웹 페이지와 같은 파이프라인을 한 번 실행하고 결과를 출력합니다.

Example:
  go run ./cmd/finbrief lookup 애플
  go run ./cmd/finbrief lookup 마이크로소프트 -v`,
	Args: cobra.MinimumNArgs(1),
	RunE: runLookup,
}

func init() {
	rootCmd.AddCommand(lookupCmd)
}

var stageLabels = map[contracts.Stage]string{
	contracts.StageResolve:   "회사 이름 변환",
	contracts.StageLookup:    "CIK 조회",
	contracts.StageLocate:    "최신 10-K 탐색",
	contracts.StageSummarize: "10-K 요약 중입니다. 잠시만 기다려주세요...",
}

func runLookup(cmd *cobra.Command, args []string) error {
	query := strings.Join(args, " ")

	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	// Keep stdout for the result; logs only when asked for
	if !verbose {
		cfg.LogLevel = "warn"
	}
	log := logger.New(cfg)

	ctx := context.Background()
	a, err := newApp(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer a.Close()

	step := 0
	b := a.pipeline.Run(ctx, query, func(stage contracts.Stage) {
		step++
		PrintProgress("finbrief", stageLabels[stage], step, len(contracts.Stages))
	})

	PrintBriefing(b)

	if !b.Succeeded() {
		return fmt.Errorf("%s: %s", b.FailureStage, b.FailureKind)
	}
	return nil
}
