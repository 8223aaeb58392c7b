package httpapi

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nmorales/patrimonio-backend/internal/domain"
	"github.com/nmorales/patrimonio-backend/internal/numfmt"
	"github.com/nmorales/patrimonio-backend/internal/usecase/networth"
	"github.com/nmorales/patrimonio-backend/internal/usecase/projection"
)

// SuggestedRate handles GET /rates/suggested
func (s *Server) SuggestedRate(c *gin.Context) {
	suggested, err := s.Rates.SuggestedRate(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	body := gin.H{"suggested": suggested.String()}
	if lastUsed, ok := s.Rates.LastUsedRate(); ok {
		body["lastUsed"] = lastUsed.String()
	}

	c.JSON(http.StatusOK, body)
}

type addRateRequest struct {
	// Rate uses the Argentine convention: "1.234,50"
	Rate string `json:"rate" binding:"required"`
	Date string `json:"date" binding:"required"`
}

// AddRate handles POST /rates
func (s *Server) AddRate(c *gin.Context) {
	var req addRateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	rate, err := numfmt.Normalize(req.Rate, numfmt.Argentine)
	if err != nil {
		respondError(c, err)
		return
	}

	rateDate, err := parseDate(req.Date)
	if err != nil {
		badRequest(c, "date must be YYYY-MM-DD")
		return
	}

	if err := s.Rates.AddRate(c.Request.Context(), rateDate, rate); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"rate": rate.String(), "date": req.Date})
}

// GetNetWorth handles GET /networth
func (s *Server) GetNetWorth(c *gin.Context) {
	result, err := s.NetWorth.NetWorth(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, netWorthBody(result))
}

// GetNetWorthFiscal handles GET /networth/fiscal
func (s *Server) GetNetWorthFiscal(c *gin.Context) {
	result, err := s.NetWorth.NetWorthFiscal(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, netWorthBody(result))
}

func netWorthBody(result *networth.Result) gin.H {
	assets := make([]gin.H, 0, len(result.Assets))
	for _, a := range result.Assets {
		assets = append(assets, gin.H{
			"id":     a.Asset.ID,
			"name":   a.Asset.Name,
			"netUsd": a.NetUSD.String(),
		})
	}

	investments := make([]gin.H, 0, len(result.Investments))
	for _, inv := range result.Investments {
		investments = append(investments, gin.H{
			"id":         inv.Investment.ID,
			"name":       inv.Investment.Name,
			"capitalUsd": inv.State.Capital.String(),
			"resultUsd":  inv.State.Result.String(),
		})
	}

	return gin.H{
		"totalUsd":       result.TotalUSD.String(),
		"assetTotalUsd":  result.AssetTotalUSD.String(),
		"investTotalUsd": result.InvestTotalUSD.String(),
		"assets":         assets,
		"investments":    investments,
	}
}

// GetScenarioProjection handles GET /projection?opening=&rate=&inflation=&horizon=.
// Without an explicit opening the projection starts from the current total
// patrimony.
func (s *Server) GetScenarioProjection(c *gin.Context) {
	var opening decimal.Decimal
	if raw := c.Query("opening"); raw != "" {
		normalized, err := numfmt.Normalize(raw, numfmt.Plain)
		if err != nil {
			respondError(c, err)
			return
		}
		opening = normalized
	} else {
		current, err := s.NetWorth.NetWorth(c.Request.Context())
		if err != nil {
			respondError(c, err)
			return
		}
		opening = current.TotalUSD
	}

	horizon := 10
	if h := c.Query("horizon"); h != "" {
		parsed, err := strconv.Atoi(h)
		if err != nil || parsed < 0 {
			badRequest(c, "invalid horizon")
			return
		}
		horizon = parsed
	}
	if horizon > projection.OpenEndedHorizonYears {
		horizon = projection.OpenEndedHorizonYears
	}

	inflation, err := queryDecimal(c, "inflation", decimal.Zero)
	if err != nil {
		respondError(c, err)
		return
	}
	if inflation.LessThanOrEqual(decimal.NewFromInt(-100)) {
		badRequest(c, "inflation must be greater than -100")
		return
	}

	if rateStr := c.Query("rate"); rateStr != "" {
		rate, err := numfmt.Normalize(rateStr, numfmt.Plain)
		if err != nil {
			respondError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"series": seriesBody(projection.ProjectScenario(opening, rate, inflation, horizon))})
		return
	}

	// No explicit rate: return the three standard scenarios
	scenarios := s.Projections.StandardScenarios(opening, inflation, horizon)
	body := make([]gin.H, 0, len(scenarios))
	for _, sc := range scenarios {
		body = append(body, gin.H{
			"name":          sc.Name,
			"annualRatePct": sc.AnnualRatePct.String(),
			"series":        seriesBody(sc.Series),
		})
	}
	c.JSON(http.StatusOK, gin.H{"scenarios": body})
}

type addTramoRequest struct {
	FundID    string  `json:"fundId" binding:"required"`
	StartDate string  `json:"startDate" binding:"required"`
	EndDate   *string `json:"endDate,omitempty"`
	// Rates use the plain convention; amounts the Argentine one
	ExpectedRateAnnualPct     string `json:"expectedRateAnnualPct" binding:"required"`
	AssumedInflationAnnualPct string `json:"assumedInflationAnnualPct" binding:"required"`
	MonthlyContributionUSD    string `json:"monthlyContributionUsd" binding:"required"`
	OpeningCapitalUSD         string `json:"openingCapitalUsd" binding:"required"`
}

// AddTramo handles POST /projection/tramos
func (s *Server) AddTramo(c *gin.Context) {
	var req addTramoRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid request body: "+err.Error())
		return
	}

	fundID, err := uuid.Parse(req.FundID)
	if err != nil {
		badRequest(c, "invalid fundId")
		return
	}

	startDate, err := parseDate(req.StartDate)
	if err != nil {
		badRequest(c, "startDate must be YYYY-MM-DD")
		return
	}

	tramo := &domain.Tramo{
		ID:        uuid.New(),
		FundID:    fundID,
		StartDate: startDate,
	}

	if req.EndDate != nil {
		endDate, err := parseDate(*req.EndDate)
		if err != nil {
			badRequest(c, "endDate must be YYYY-MM-DD")
			return
		}
		tramo.EndDate = &endDate
	}

	if tramo.ExpectedRateAnnualPct, err = numfmt.Normalize(req.ExpectedRateAnnualPct, numfmt.Plain); err != nil {
		respondError(c, err)
		return
	}
	if tramo.AssumedInflationAnnualPct, err = numfmt.Normalize(req.AssumedInflationAnnualPct, numfmt.Plain); err != nil {
		respondError(c, err)
		return
	}
	if tramo.MonthlyContributionUSD, err = numfmt.Normalize(req.MonthlyContributionUSD, numfmt.Argentine); err != nil {
		respondError(c, err)
		return
	}
	if tramo.OpeningCapitalUSD, err = numfmt.Normalize(req.OpeningCapitalUSD, numfmt.Argentine); err != nil {
		respondError(c, err)
		return
	}

	if err := s.Projections.AddTramo(c.Request.Context(), tramo); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"id": tramo.ID, "fundId": tramo.FundID})
}

// GetFundProjection handles GET /projection/tramos/:fundId?fundStart=
func (s *Server) GetFundProjection(c *gin.Context) {
	fundID, ok := parseUUIDParam(c, "fundId")
	if !ok {
		return
	}

	fundStart, err := parseDate(c.Query("fundStart"))
	if err != nil {
		badRequest(c, "fundStart must be YYYY-MM-DD")
		return
	}

	series, err := s.Projections.ProjectFund(c.Request.Context(), fundID, fundStart)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"series": seriesBody(series)})
}

func seriesBody(series []projection.Point) []gin.H {
	body := make([]gin.H, 0, len(series))
	for _, p := range series {
		body = append(body, gin.H{
			"year":         p.Year,
			"nominalUsd":   p.Nominal.String(),
			"realUsd":      p.Real.String(),
			"variationPct": p.VariationPct.StringFixed(2),
		})
	}
	return body
}

func queryDecimal(c *gin.Context, name string, fallback decimal.Decimal) (decimal.Decimal, error) {
	raw := c.Query(name)
	if raw == "" {
		return fallback, nil
	}
	return numfmt.Normalize(raw, numfmt.Plain)
}
