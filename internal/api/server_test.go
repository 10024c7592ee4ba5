package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/rgehrsitz/finplan/internal/advice"
	"github.com/rgehrsitz/finplan/internal/calculation"
	"github.com/rgehrsitz/finplan/internal/config"
)

func newTestServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	rules, err := config.NewRuleLoader().Resolve(config.DefaultRulesVersion)
	require.NoError(t, err)
	engine, err := calculation.NewCalculationEngine(rules)
	require.NoError(t, err)
	return NewServer(engine, append([]Option{WithVersion("test")}, opts...)...)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) ErrorBody {
	t.Helper()
	var resp ErrorResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	return resp.Error
}

func TestSIP(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodPost, "/api/sip", `{"contribution": 10000, "years": 10, "annualRatePercent": 12}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.NotEmpty(t, w.Header().Get(RequestIDHeader))

	var resp struct {
		Data struct {
			FinalValue       decimal.Decimal `json:"finalValue"`
			TotalContributed decimal.Decimal `json:"totalContributed"`
			Series           []any           `json:"series"`
		} `json:"data"`
		Meta Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 2323390.76, resp.Data.FinalValue.InexactFloat64(), 0.01)
	assert.True(t, resp.Data.TotalContributed.Equal(decimal.NewFromInt(1200000)))
	assert.Len(t, resp.Data.Series, 10)
	assert.Equal(t, "test", resp.Meta.EngineVersion)
	assert.Equal(t, w.Header().Get(RequestIDHeader), resp.Meta.RequestID)
}

func TestGoalAndLoan(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodPost, "/api/goal", `{"targetAmount": 2323390.7635, "years": 10, "annualRatePercent": 12, "monthlyIncome": 20000}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var goal struct {
		Data struct {
			RequiredContribution decimal.Decimal `json:"requiredContribution"`
			Affordability        struct {
				Affordable bool `json:"affordable"`
			} `json:"affordability"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &goal))
	assert.InDelta(t, 10000, goal.Data.RequiredContribution.InexactFloat64(), 0.001)
	assert.False(t, goal.Data.Affordability.Affordable)

	w = do(t, s, http.MethodPost, "/api/loan", `{"principal": 500000, "years": 5, "annualRatePercent": 10, "every": 12}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var loan struct {
		Data struct {
			Installment decimal.Decimal `json:"installment"`
			Schedule    []struct {
				PeriodIndex      int             `json:"periodIndex"`
				RemainingBalance decimal.Decimal `json:"remainingBalance"`
			} `json:"schedule"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &loan))
	assert.InDelta(t, 10623.52, loan.Data.Installment.InexactFloat64(), 0.01)
	require.NotEmpty(t, loan.Data.Schedule)
	last := loan.Data.Schedule[len(loan.Data.Schedule)-1]
	assert.Equal(t, 60, last.PeriodIndex)
	assert.True(t, last.RemainingBalance.IsZero())
}

func TestTax(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodPost, "/api/tax", `{"grossIncome": 800000, "rentPaid": 180000, "section80C": 100000, "section80D": 0, "hraReceived": 120000, "basicSalary": 400000}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			RecommendedRegime string          `json:"recommendedRegime"`
			Savings           decimal.Decimal `json:"savings"`
			OldRegime         struct {
				TaxableIncome decimal.Decimal `json:"taxableIncome"`
			} `json:"oldRegime"`
		} `json:"data"`
		Meta Meta `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "old", resp.Data.RecommendedRegime)
	assert.True(t, resp.Data.Savings.Equal(decimal.NewFromInt(6500)))
	assert.True(t, resp.Data.OldRegime.TaxableIncome.Equal(decimal.NewFromInt(580000)))
	assert.Equal(t, "fy2023-24", resp.Meta.RulesVersion)
}

func TestTax_CurrentRegime(t *testing.T) {
	s := newTestServer(t)
	body := func(current string) string {
		return `{"grossIncome": 800000, "rentPaid": 180000, "section80C": 100000, "hraReceived": 120000, "basicSalary": 400000, "currentRegime": "` + current + `"}`
	}

	type taxData struct {
		CurrentRegime string           `json:"currentRegime"`
		SwitchSavings *decimal.Decimal `json:"switchSavings"`
		OldRegime     struct {
			MarginalRate decimal.Decimal `json:"marginalRate"`
		} `json:"oldRegime"`
	}
	var resp struct {
		Data taxData `json:"data"`
	}

	w := do(t, s, http.MethodPost, "/api/tax", body("New Regime"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "new", resp.Data.CurrentRegime)
	require.NotNil(t, resp.Data.SwitchSavings)
	assert.True(t, resp.Data.SwitchSavings.Equal(decimal.NewFromInt(6500)))
	assert.True(t, resp.Data.OldRegime.MarginalRate.Equal(decimal.RequireFromString("0.2")))

	resp.Data = taxData{}
	w = do(t, s, http.MethodPost, "/api/tax", body("OLD"))
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Data.SwitchSavings)
	assert.True(t, resp.Data.SwitchSavings.IsZero())

	w = do(t, s, http.MethodPost, "/api/tax", body("flat"))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidJSON, decodeError(t, w).Code)
}

func TestBudget(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodPost, "/api/budget",
		`{"monthlyIncome": 100000, "rent": 30000, "food": 15000, "transport": 5000, "entertainment": 5000, "other": 10000}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			TotalExpenses  decimal.Decimal `json:"totalExpenses"`
			Savings        decimal.Decimal `json:"savings"`
			SavingsPercent decimal.Decimal `json:"savingsPercent"`
			MeetsTarget    bool            `json:"meetsTarget"`
			Allocations    []any           `json:"allocations"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Data.TotalExpenses.Equal(decimal.NewFromInt(65000)))
	assert.True(t, resp.Data.Savings.Equal(decimal.NewFromInt(35000)))
	assert.True(t, resp.Data.SavingsPercent.Equal(decimal.NewFromInt(35)))
	assert.True(t, resp.Data.MeetsTarget)
	assert.Len(t, resp.Data.Allocations, 6)

	w = do(t, s, http.MethodPost, "/api/budget", `{"monthlyIncome": 50000, "food": -1}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	body := decodeError(t, w)
	assert.Equal(t, CodeInvalidArgument, body.Code)
	assert.Equal(t, "food", body.Field)
}

func TestLoanCompare(t *testing.T) {
	s := newTestServer(t)
	body := `{"base": {"name": "Bank A", "principal": 500000, "years": 5, "annualRatePercent": 10},
		"alternatives": [{"name": "Bank B", "principal": 500000, "years": 5, "annualRatePercent": 9.5}],
		"templates": ["tenure_minus_2y"]}`
	w := do(t, s, http.MethodPost, "/api/loan/compare", body)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			BaseOfferName      string   `json:"baseOfferName"`
			AlternativeResults []any    `json:"alternativeResults"`
			Recommendations    []string `json:"recommendations"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "Bank A", resp.Data.BaseOfferName)
	assert.Len(t, resp.Data.AlternativeResults, 2)
	assert.NotEmpty(t, resp.Data.Recommendations)

	w = do(t, s, http.MethodPost, "/api/loan/compare", `{"base": {"principal": 500000, "years": 5, "annualRatePercent": 10}, "templates": ["tenure_minus_5y"]}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, CodeInvalidArgument, decodeError(t, w).Code)
}

func TestSensitivity(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodPost, "/api/sensitivity",
		`{"target": "loan", "amount": 500000, "years": 5, "baseRatePercent": 10, "sweep": {"minPercent": 8, "maxPercent": 12, "stepPercent": 1}}`)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var resp struct {
		Data struct {
			Points []struct {
				AnnualRatePercent decimal.Decimal `json:"annualRatePercent"`
			} `json:"points"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.Len(t, resp.Data.Points, 5)
	assert.True(t, resp.Data.Points[0].AnnualRatePercent.Equal(decimal.NewFromInt(8)))
}

func TestErrorMapping(t *testing.T) {
	s := newTestServer(t)
	tests := []struct {
		name   string
		path   string
		body   string
		status int
		code   string
		field  string
	}{
		{"malformed json", "/api/sip", `{"contribution": `, http.StatusBadRequest, CodeInvalidJSON, ""},
		{"unknown field", "/api/sip", `{"contribution": 1, "years": 1, "bogus": true}`, http.StatusBadRequest, CodeInvalidJSON, ""},
		{"negative contribution", "/api/sip", `{"contribution": -1, "years": 10, "annualRatePercent": 12}`, http.StatusBadRequest, CodeInvalidArgument, "contribution"},
		{"zero principal", "/api/loan", `{"principal": 0, "years": 5, "annualRatePercent": 10}`, http.StatusBadRequest, CodeInvalidArgument, "principal"},
		{"negative rent", "/api/tax", `{"grossIncome": 1, "rentPaid": -5}`, http.StatusBadRequest, CodeInvalidArgument, "rentPaid"},
		{"goal rate at -100% per period", "/api/sensitivity",
			`{"target": "goal", "amount": 100000, "years": 5, "baseRatePercent": 10, "sweep": {"minPercent": -1200, "maxPercent": 0, "stepPercent": 600}}`,
			http.StatusUnprocessableEntity, CodeDomainError, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, s, http.MethodPost, tt.path, tt.body)
			assert.Equal(t, tt.status, w.Code, w.Body.String())
			body := decodeError(t, w)
			assert.Equal(t, tt.code, body.Code)
			assert.Equal(t, tt.field, body.Field)
			assert.NotEmpty(t, body.RequestID)
		})
	}
}

func TestMethodAndRoute(t *testing.T) {
	s := newTestServer(t)
	assert.Equal(t, http.StatusMethodNotAllowed, do(t, s, http.MethodGet, "/api/sip", "").Code)
	assert.Equal(t, http.StatusNotFound, do(t, s, http.MethodGet, "/nope", "").Code)
}

func TestInfoEndpoints(t *testing.T) {
	s := newTestServer(t)

	w := do(t, s, http.MethodGet, "/health", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"healthy"`)

	w = do(t, s, http.MethodGet, "/version", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"rulesVersion":"fy2023-24"`)

	w = do(t, s, http.MethodGet, "/rules", "")
	require.Equal(t, http.StatusOK, w.Code)
	var rules struct {
		Active  string   `json:"active"`
		Builtin []string `json:"builtin"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &rules))
	assert.Equal(t, "fy2023-24", rules.Active)
	assert.Contains(t, rules.Builtin, "fy2023-24-full")

	w = do(t, s, http.MethodGet, "/rules/fy2023-24-full", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"fy2023-24-full"`)

	w = do(t, s, http.MethodGet, "/rules/fy1999", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.Equal(t, CodeNotFound, decodeError(t, w).Code)
}

type stubAdvisor struct {
	err error
	got advice.Request
}

func (s *stubAdvisor) Advise(_ context.Context, req advice.Request) (advice.Summary, error) {
	s.got = req
	if s.err != nil {
		return nil, s.err
	}
	return advice.TextSummary{Text: "- Increase the SIP every year"}, nil
}

func TestAdvice(t *testing.T) {
	stub := &stubAdvisor{}
	s := newTestServer(t, WithAdvisor(stub))

	w := do(t, s, http.MethodPost, "/api/sip?advice=true", `{"contribution": 1000, "years": 1, "annualRatePercent": 12}`)
	require.Equal(t, http.StatusOK, w.Code)
	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Advice)
	assert.Equal(t, advice.KindText, resp.Advice.Kind)
	assert.Equal(t, []string{"Increase the SIP every year"}, resp.Advice.Tips)
	assert.Equal(t, "sip", stub.got.Tool)
	assert.Equal(t, resp.Meta.RequestID, stub.got.RequestID)

	// without the flag the advisor is not called
	stub.got = advice.Request{}
	w = do(t, s, http.MethodPost, "/api/sip", `{"contribution": 1000, "years": 1, "annualRatePercent": 12}`)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Empty(t, stub.got.Tool)

	// advice failures do not fail the calculation
	stub.err = errors.New("service down")
	w = do(t, s, http.MethodPost, "/api/sip?advice=true", `{"contribution": 1000, "years": 1, "annualRatePercent": 12}`)
	require.Equal(t, http.StatusOK, w.Code)
	resp = Response{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Advice)
	assert.Equal(t, "service down", resp.Meta.AdviceError)
}

func TestRequestIDPropagation(t *testing.T) {
	s := newTestServer(t)
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set(RequestIDHeader, "abc-123")
	w := httptest.NewRecorder()
	s.ServeHTTP(w, req)
	assert.Equal(t, "abc-123", w.Header().Get(RequestIDHeader))
}

func TestRequestLogging(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	s := newTestServer(t, WithLogger(zap.New(core)))

	do(t, s, http.MethodGet, "/health", "")
	do(t, s, http.MethodPost, "/api/sip", `{"contribution": -1, "years": 1}`)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "request completed", entries[0].Message)
	assert.Equal(t, int64(200), entries[0].ContextMap()["status"])
	assert.Equal(t, "request rejected", entries[1].Message)
	assert.Equal(t, "/api/sip", entries[1].ContextMap()["path"])
	assert.NotEmpty(t, entries[1].ContextMap()["request_id"])
}

func TestRateLimit(t *testing.T) {
	rl := NewRateLimiter(2, time.Hour)
	defer rl.Stop()
	s := newTestServer(t, WithRateLimiter(rl))

	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", "").Code)
	assert.Equal(t, http.StatusOK, do(t, s, http.MethodGet, "/health", "").Code)
	w := do(t, s, http.MethodGet, "/health", "")
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, CodeRateLimited, decodeError(t, w).Code)
}

func TestRateLimiter_Refill(t *testing.T) {
	now := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	rl := NewRateLimiter(1, time.Minute)
	defer rl.Stop()
	rl.now = func() time.Time { return now }

	assert.True(t, rl.Allow("a"))
	assert.False(t, rl.Allow("a"))
	assert.True(t, rl.Allow("b"))

	now = now.Add(time.Minute)
	assert.True(t, rl.Allow("a"))

	now = now.Add(2 * time.Hour)
	rl.cleanup()
	assert.Empty(t, rl.clients)
}

func TestAdvice_NotConfigured(t *testing.T) {
	s := newTestServer(t)
	w := do(t, s, http.MethodPost, "/api/loan?advice=true", `{"principal": 500000, "years": 5, "annualRatePercent": 10}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Nil(t, resp.Advice)
	assert.Equal(t, "advice is not configured", resp.Meta.AdviceError)
}

func TestAdvice_Fallback(t *testing.T) {
	s := newTestServer(t, WithAdvisor(advice.FallbackAdvisor{}))
	w := do(t, s, http.MethodPost, "/api/tax?advice=true", `{"grossIncome": 800000, "rentPaid": 180000, "section80C": 100000, "hraReceived": 120000, "basicSalary": 400000}`)
	require.Equal(t, http.StatusOK, w.Code)

	var resp Response
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	require.NotNil(t, resp.Advice)
	assert.Contains(t, resp.Advice.Text, "₹6,500")
}
