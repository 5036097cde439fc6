package cli

import (
	"bytes"
	"context"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"rentab/internal/cache"
	"rentab/internal/config"
	apperrors "rentab/internal/errors"
	"rentab/internal/sweep"
)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cfg := config.Default()
	cfg.UI.ColorEnabled = false

	root := NewRootCmd(cfg, zerolog.Nop())
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)

	err := root.Execute()
	return out.String(), err
}

func TestEvaluate_Text(t *testing.T) {
	out, err := run(t, "evaluate")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, want := range []string{
		"Performance indicators",
		"Gross yield        7.29%",
		"Net yield          -0.75%",
		"Monthly cash flow  -86.94 €",
		"811.94 €",
		"Loan fits within the debt-to-income limit",
		"Resale after 20 years: 208,032.64 €",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestEvaluate_JSON(t *testing.T) {
	out, err := run(t, "evaluate", "--json", "--price", "100000", "--works", "10000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got evaluationOutput
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if got.Result.LoanAmount != 110000 || got.Result.PurchasePrice != 100000 {
		t.Errorf("flags not applied: %+v", got.Result)
	}
	if got.Result.GrossYield != 10.2 {
		t.Errorf("expected gross yield 10.2, got %.2f", got.Result.GrossYield)
	}
	if len(got.Projection.Years) != 21 {
		t.Errorf("expected 21 projection points, got %d", len(got.Projection.Years))
	}
}

func TestEvaluate_NotaryFees(t *testing.T) {
	out, err := run(t, "evaluate", "--json", "--notary-included=false", "--notary-fees", "10")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got evaluationOutput
	_ = json.Unmarshal([]byte(out), &got)
	if math.Abs(got.Result.PurchasePrice-154000) > 0.01 {
		t.Errorf("expected price with notary fees 154000, got %.2f", got.Result.PurchasePrice)
	}
}

func TestEvaluate_ScenarioFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "flat.yaml")
	content := "purchase_price: 200000\nmonthly_rent: 1100\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("writing scenario: %v", err)
	}

	out, err := run(t, "evaluate", "--json", "--scenario", path, "--rent", "1200")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got evaluationOutput
	_ = json.Unmarshal([]byte(out), &got)
	if got.Result.PurchasePrice != 200000 {
		t.Errorf("scenario file not applied: %.2f", got.Result.PurchasePrice)
	}
	if got.Result.MonthlyRent != 1200 {
		t.Errorf("flag should override the file, got rent %.2f", got.Result.MonthlyRent)
	}
	if got.Result.AnnualRate != 3.5 {
		t.Errorf("unset field should keep the default, got %.2f", got.Result.AnnualRate)
	}
}

func TestEvaluate_Errors(t *testing.T) {
	if _, err := run(t, "evaluate", "--scenario", filepath.Join(t.TempDir(), "missing.yaml")); !apperrors.Is(err, apperrors.ErrScenarioNotFound) {
		t.Errorf("expected scenario not found, got %v", err)
	}
	if _, err := run(t, "evaluate", "--age", "0"); !apperrors.IsInvalidArgument(err) {
		t.Errorf("expected invalid argument, got %v", err)
	}
	if _, err := run(t, "evaluate", "--holding-years", "1152921504606846976"); !apperrors.IsInvalidArgument(err) {
		t.Errorf("oversized holding period: expected invalid argument, got %v", err)
	}
	if _, err := run(t, "evaluate", "--down-payment", "0", "--rent", "2000"); !apperrors.IsComputationFailed(err) {
		t.Errorf("expected computation failed, got %v", err)
	}
	if _, err := run(t, "evaluate", "extra"); err == nil {
		t.Error("positional arguments should be rejected")
	}
}

func TestSweep(t *testing.T) {
	out, err := run(t, "sweep", "--json", "--rates", "2.5:4.5:0.25", "--durations", "15,20", "--workers", "2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var cells []sweep.Cell
	if err := json.Unmarshal([]byte(out), &cells); err != nil {
		t.Fatalf("output is not JSON: %v\n%s", err, out)
	}
	if len(cells) != 18 {
		t.Fatalf("expected 18 cells, got %d", len(cells))
	}
	for i := 1; i < len(cells); i++ {
		prev, cur := cells[i-1], cells[i]
		if prev.Duration == cur.Duration && prev.Result.MonthlyPayment >= cur.Result.MonthlyPayment {
			t.Errorf("payment should rise with the rate: %+v then %+v", prev, cur)
		}
	}

	text, err := run(t, "sweep", "--rates", "3,4")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "Best IRR") || !strings.Contains(text, "3.00%") {
		t.Errorf("unexpected table output:\n%s", text)
	}

	if _, err := run(t, "sweep", "--rates", "4:2:1"); !apperrors.IsInvalidArgument(err) {
		t.Errorf("expected invalid argument, got %v", err)
	}
}

func TestReport(t *testing.T) {
	dir := t.TempDir()

	md, err := run(t, "report")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(md, "# Rental investment evaluation") || !strings.Contains(md, "| Gross yield | 7.29% |") {
		t.Errorf("unexpected markdown:\n%s", md)
	}

	path := filepath.Join(dir, "report.html")
	out, err := run(t, "report", "--html", "--out", path, "--rates", "3,4", "--title", "Lyon")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "Report written to") {
		t.Errorf("expected confirmation, got %q", out)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	page := string(data)
	if !strings.Contains(page, "<title>Lyon</title>") || !strings.Contains(page, "Rate sensitivity") {
		t.Errorf("unexpected html report:\n%s", page)
	}
}

func TestProfile(t *testing.T) {
	out, err := run(t, "profile", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got map[string]float64
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got["max_monthly_payment"] != 1320 {
		t.Errorf("expected max payment 1320, got %.2f", got["max_monthly_payment"])
	}
	if math.Abs(got["max_affordable_loan"]-227602.01) > 0.5 {
		t.Errorf("expected max loan about 227602, got %.2f", got["max_affordable_loan"])
	}

	text, err := run(t, "profile")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "Monthly Revenue: 4000.00€") {
		t.Errorf("unexpected profile output:\n%s", text)
	}
}

func TestLoan(t *testing.T) {
	out, err := run(t, "loan", "--json")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	var got struct {
		Capital        float64 `json:"capital"`
		MonthlyPayment float64 `json:"monthly_payment"`
		Affordable     bool    `json:"affordable"`
	}
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("output is not JSON: %v", err)
	}
	if got.Capital != 140000 || math.Abs(got.MonthlyPayment-811.94) > 0.01 || !got.Affordable {
		t.Errorf("unexpected loan summary: %+v", got)
	}

	text, err := run(t, "loan", "--amount", "300000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(text, "Capital: 300000.00€") || !strings.Contains(text, "Not affordable") {
		t.Errorf("unexpected loan output:\n%s", text)
	}

	if _, err := run(t, "loan", "--amount", "-1"); !apperrors.IsInvalidArgument(err) {
		t.Errorf("expected invalid argument, got %v", err)
	}
}

func TestScenarioRoundTrip(t *testing.T) {
	out, err := run(t, "scenario", "--price", "180000")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(out, "purchase_price: 180000") {
		t.Errorf("unexpected yaml:\n%s", out)
	}

	path := filepath.Join(t.TempDir(), "s.yaml")
	if err := os.WriteFile(path, []byte(out), 0644); err != nil {
		t.Fatalf("writing scenario: %v", err)
	}
	if _, err := run(t, "evaluate", "--scenario", path); err != nil {
		t.Errorf("printed scenario should load back: %v", err)
	}
}

func TestVersionAndConfig(t *testing.T) {
	out, err := run(t, "version")
	if err != nil || !strings.Contains(out, "rentab v"+Version) {
		t.Errorf("unexpected version output %q (%v)", out, err)
	}

	dir := t.TempDir()
	out, err = run(t, "config", "path", "--config", dir)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if strings.TrimSpace(out) != filepath.Join(dir, "config.toml") {
		t.Errorf("unexpected config path %q", out)
	}

	out, err = run(t, "config", "validate")
	if err != nil || !strings.Contains(out, "Configuration is valid") {
		t.Errorf("unexpected validate output %q (%v)", out, err)
	}

	out, err = run(t, "config", "show")
	if err != nil || !strings.Contains(out, "Notary fees:      8.00%") {
		t.Errorf("unexpected show output %q (%v)", out, err)
	}
}

func TestLogCacheStats(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	mem := cache.NewMemoryCache()
	_ = mem.Set(context.Background(), "k", []byte("v"), 0)
	logCacheStats(logger, mem)
	logCacheStats(logger, cache.NewGuardedCache(cache.NewMemoryCache(), cache.DefaultBreakerConfig()))

	out := buf.String()
	for _, want := range []string{`"entries":1`, `"circuit":"CLOSED"`, `"rejected":0`} {
		if !strings.Contains(out, want) {
			t.Errorf("missing %s in %s", want, out)
		}
	}
}

func TestConfigDirFromArgs(t *testing.T) {
	tests := []struct {
		args []string
		want string
	}{
		{nil, ""},
		{[]string{"evaluate"}, ""},
		{[]string{"--config", "/tmp/a", "evaluate"}, "/tmp/a"},
		{[]string{"evaluate", "--config=/tmp/b"}, "/tmp/b"},
		{[]string{"evaluate", "--", "--config", "/tmp/c"}, ""},
		{[]string{"evaluate", "--config"}, ""},
	}

	for _, tt := range tests {
		if got := ConfigDirFromArgs(tt.args); got != tt.want {
			t.Errorf("ConfigDirFromArgs(%v) = %q, want %q", tt.args, got, tt.want)
		}
	}
}

func TestTableAlignment(t *testing.T) {
	var buf bytes.Buffer
	output := &Output{writer: &buf}

	table := NewTable(output, "A", "LONG HEADER")
	table.AddRow("140,000.00 €", "x")
	table.Render()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if displayWidth(lines[0]) > displayWidth(lines[1]) {
		t.Errorf("header wider than separator:\n%s", buf.String())
	}
	if !strings.HasPrefix(lines[2], "140,000.00 €  x") {
		t.Errorf("unexpected row %q", lines[2])
	}
}
