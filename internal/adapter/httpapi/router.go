package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nmorales/patrimonio-backend/internal/usecase/asset"
	"github.com/nmorales/patrimonio-backend/internal/usecase/investment"
	"github.com/nmorales/patrimonio-backend/internal/usecase/movement"
	"github.com/nmorales/patrimonio-backend/internal/usecase/months"
	"github.com/nmorales/patrimonio-backend/internal/usecase/networth"
	"github.com/nmorales/patrimonio-backend/internal/usecase/projection"
	"github.com/nmorales/patrimonio-backend/internal/usecase/rates"
)

// Server bundles the usecase services behind the HTTP surface
type Server struct {
	Assets      *asset.AssetService
	Investments *investment.InvestmentService
	Movements   *movement.MovementService
	Months      *months.MonthService
	Rates       *rates.RateService
	NetWorth    *networth.NetWorthService
	Projections *projection.ProjectionService
}

// NewRouter builds the gin engine with CORS and every route registered
func NewRouter(s *Server, allowedOrigin string) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())

	corsConfig := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if allowedOrigin == "" || allowedOrigin == "*" {
		corsConfig.AllowAllOrigins = true
		corsConfig.AllowCredentials = false
	} else {
		corsConfig.AllowOrigins = []string{allowedOrigin}
	}
	r.Use(cors.New(corsConfig))

	r.POST("/assets", s.CreateAsset)
	r.GET("/assets", s.ListAssets)
	r.PUT("/assets/:id", s.UpdateAsset)
	r.DELETE("/assets/:id", s.DeleteAsset)
	r.POST("/assets/:id/valuations", s.AddValuation)
	r.POST("/assets/:id/liability", s.AttachLiability)
	r.GET("/assets/:id/liability", s.GetLiability)

	r.POST("/investments", s.CreateInvestment)
	r.GET("/investments", s.ListInvestments)
	r.PUT("/investments/:id", s.UpdateInvestment)
	r.DELETE("/investments/:id", s.DeleteInvestment)
	r.POST("/investments/:id/events", s.AddInvestmentEvent)
	r.GET("/investments/:id/state", s.GetInvestmentState)

	r.POST("/concepts", s.CreateConcept)
	r.GET("/concepts", s.ListConcepts)
	r.POST("/movements", s.PostMovement)
	r.GET("/months/:year/:month/summary", s.MonthSummary)
	r.POST("/months/:year/:month/close", s.CloseMonth)

	r.GET("/rates/suggested", s.SuggestedRate)
	r.POST("/rates", s.AddRate)

	r.GET("/networth", s.GetNetWorth)
	r.GET("/networth/fiscal", s.GetNetWorthFiscal)

	r.GET("/projection", s.GetScenarioProjection)
	r.POST("/projection/tramos", s.AddTramo)
	r.GET("/projection/tramos/:fundId", s.GetFundProjection)

	return r
}
