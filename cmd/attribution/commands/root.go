package commands

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/wonny/aegis/v13/attribution/pkg/config"
	"github.com/wonny/aegis/v13/attribution/pkg/logger"
	"github.com/wonny/aegis/v13/attribution/pkg/metrics"
)

// app 커맨드 공통 상태 (전역 플래그 + 초기화된 의존성)
type app struct {
	// Global flags
	env     string
	output  string
	verbose bool
	metrics bool

	cfg           *config.Config
	log           *logger.Logger
	registry      *prometheus.Registry
	engineMetrics *metrics.Metrics
}

// NewRootCmd builds a fresh command tree (플래그 상태는 트리마다 독립)
func NewRootCmd() *cobra.Command {
	a := &app{}

	rootCmd := &cobra.Command{
		Use:   "attribution",
		Short: "Aegis v13 - 성과 기여도 분석 및 리스크 통계 엔진",
		Long: `Aegis v13 Attribution CLI

종목별/섹터별 기여도, Brinson-Fachler 초과수익 분해,
리스크 통계(상관계수, 표준편차, 베타, 샤프, MDD)와 EMA를 계산합니다.

Usage:
  go run ./cmd/attribution [command]

Examples:
  go run ./cmd/attribution holdings --demo
  go run ./cmd/attribution sectors --demo --output json
  go run ./cmd/attribution brinson --pw 0.6 --bw 0.5 --pr 0.08 --br 0.05
  go run ./cmd/attribution risk --demo
  go run ./cmd/attribution ema --values 10,20,30 --alpha 0.5`,
		SilenceUsage:       true,
		PersistentPreRunE:  a.setup,
		PersistentPostRunE: a.report,
	}

	rootCmd.PersistentFlags().StringVar(&a.env, "env", "", "environment override (development|staging|production)")
	rootCmd.PersistentFlags().StringVarP(&a.output, "output", "o", "text", "출력 형식 (text, json)")
	rootCmd.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "verbose output (debug 로그)")
	rootCmd.PersistentFlags().BoolVar(&a.metrics, "metrics", false, "실행 후 엔진 지표 출력 (stderr)")

	rootCmd.AddCommand(
		newHoldingsCmd(a),
		newSectorsCmd(a),
		newBrinsonCmd(a),
		newRiskCmd(a),
		newEMACmd(a),
	)

	return rootCmd
}

// Execute runs the CLI. This is called by main.main()
func Execute() error {
	return NewRootCmd().Execute()
}

// setup 설정/로거 초기화 (모든 서브커맨드 공통)
func (a *app) setup(cmd *cobra.Command, args []string) error {
	if a.output != "text" && a.output != "json" {
		return fmt.Errorf("unsupported output format %q (text, json)", a.output)
	}

	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if a.env != "" {
		cfg.Env = a.env
	}
	if a.verbose {
		cfg.LogLevel = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid --env: %w", err)
	}

	a.cfg = cfg
	a.log = logger.New(cfg).WithField("command", cmd.Name())

	a.registry = prometheus.NewRegistry()
	a.engineMetrics = metrics.New()
	return a.engineMetrics.Register(a.registry)
}

// report --metrics 지정 시 수집된 지표를 stderr에 출력
func (a *app) report(cmd *cobra.Command, args []string) error {
	if !a.metrics {
		return nil
	}

	samples, err := metrics.Snapshot(a.registry)
	if err != nil {
		return err
	}

	w := cmd.ErrOrStderr()
	printHeader(w, "Engine Metrics")
	for _, s := range samples {
		printKeyValue(w, s.Name, fnum(s.Value, 0), 56)
	}
	return nil
}

func (a *app) jsonOutput() bool {
	return a.output == "json"
}
