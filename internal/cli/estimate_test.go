package cli

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gea/studyabroad/internal/estimator"
)

func init() {
	now = func() time.Time { return time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC) }
}

func run(t *testing.T, args ...string) (string, string, int) {
	t.Helper()
	var out, errOut bytes.Buffer
	code := Run(&out, &errOut, args)
	return out.String(), errOut.String(), code
}

func TestRun_DefaultReport(t *testing.T) {
	out, errOut, code := run(t)

	require.Equal(t, 0, code, errOut)
	assert.Contains(t, out, "STUDY ABROAD COST ESTIMATION REPORT")
	assert.Contains(t, out, "Generated: March 1, 2025")
}

func TestRun_Help(t *testing.T) {
	out, _, code := run(t, "--help")

	assert.Equal(t, 0, code)
	assert.Contains(t, out, "Usage: estimate")
	assert.Contains(t, out, "--tuition-fee")
}

func TestRun_JSONWithFlagOverrides(t *testing.T) {
	out, errOut, code := run(t, "--json", "--tuition-fee", "500000", "--loan-amount", "1000000", "--exam-type", "pte")
	require.Equal(t, 0, code, errOut)

	var e estimator.Estimate
	require.NoError(t, json.Unmarshal([]byte(out), &e))
	assert.Equal(t, estimator.Number(500000), e.Inputs.TuitionFee)
	assert.True(t, e.LoanCoversTuition)
	assert.Equal(t, 18000.0, e.ExamFee)
	assert.Equal(t, 7500.0, e.BankProcessingFee)
}

func TestRun_InputsFileJSONC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inputs.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{
  // translation of transcripts
  "translationPages": 3,
  "bankValuation": false,
}`), 0o600))

	out, errOut, code := run(t, "--json", "--inputs", path, "--notary-pages", "5")
	require.Equal(t, 0, code, errOut)

	var e estimator.Estimate
	require.NoError(t, json.Unmarshal([]byte(out), &e))
	assert.Equal(t, 1200.0, e.TranslationCost)
	assert.Equal(t, 50.0, e.NotaryCost)
	assert.False(t, e.Inputs.BankValuation)
	assert.True(t, e.Inputs.CAReport, "omitted fields keep defaults")
}

func TestRun_BoolFlag(t *testing.T) {
	out, errOut, code := run(t, "--json", "--ca-report=false")
	require.Equal(t, 0, code, errOut)

	var e estimator.Estimate
	require.NoError(t, json.Unmarshal([]byte(out), &e))
	assert.False(t, e.Inputs.CAReport)
	assert.True(t, e.Inputs.BankValuation)
}

func TestRun_ValidationErrors(t *testing.T) {
	out, errOut, code := run(t, "--loan-amount", "-5", "--tuition-fee", "-1")

	assert.Equal(t, 1, code)
	assert.Empty(t, out)
	assert.Contains(t, errOut, "Loan amount cannot be negative")
	assert.Contains(t, errOut, "Tuition fee cannot be negative")
}

func TestRun_WritesReportFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.txt")

	out, errOut, code := run(t, "--out", path)
	require.Equal(t, 0, code, errOut)
	assert.Equal(t, path+"\n", out)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "TOTAL ESTIMATED COST")
}

func TestRun_Errors(t *testing.T) {
	tests := []struct {
		name string
		args []string
	}{
		{"unknown flag", []string{"--bogus"}},
		{"missing inputs file", []string{"--inputs", filepath.Join(t.TempDir(), "absent.json")}},
		{"unknown exam type", []string{"--exam-type", "duolingo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, errOut, code := run(t, tt.args...)
			assert.Equal(t, 1, code)
			assert.Contains(t, errOut, "error:")
		})
	}
}

func TestLoadInputs_InvalidJSONC(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.jsonc")
	require.NoError(t, os.WriteFile(path, []byte(`{"tuitionFee": `), 0o600))

	_, err := loadInputs(path)
	assert.Error(t, err)
}
