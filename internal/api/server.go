package api

import (
	"context"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/yt-insights/ytreport/internal/config"
	apperrors "github.com/yt-insights/ytreport/internal/errors"
	"github.com/yt-insights/ytreport/internal/logging"
	"github.com/yt-insights/ytreport/internal/models"
	"github.com/yt-insights/ytreport/internal/report"
)

// APIKeyHeader carries a per-request YouTube API key
const APIKeyHeader = "X-API-Key"

// ProviderFactory opens a provider session for an API key
type ProviderFactory func(ctx context.Context, apiKey string) (Provider, error)

// YouTubeProviders is the ProviderFactory backed by the YouTube Data API
func YouTubeProviders(ctx context.Context, apiKey string) (Provider, error) {
	client, err := NewYouTubeClient(ctx, apiKey)
	if err != nil {
		return nil, err
	}
	return client, nil
}

// ReportArchive stores generated report snapshots
type ReportArchive interface {
	SaveReport(r *models.Report) error
	RecentReports(limit int) ([]models.ReportSnapshot, error)
}

// Server represents the API server
type Server struct {
	router    *gin.Engine
	cfg       *config.Config
	providers ProviderFactory
	archive   ReportArchive
}

// ReportResponse is the JSON body of GET /report
type ReportResponse struct {
	*models.Report
	Summary models.ReportSummary `json:"summary"`
	Charts  []report.BarChart    `json:"charts"`
}

// NewServer creates a new API server. archive may be nil.
func NewServer(cfg *config.Config, providers ProviderFactory, archive ReportArchive) *Server {
	router := gin.New()
	router.Use(gin.Recovery(), requestLogger())

	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	server := &Server{
		router:    router,
		cfg:       cfg,
		providers: providers,
		archive:   archive,
	}

	// Setup routes
	server.setupRoutes()

	return server
}

// corsConfig allows the configured origins, or every origin without
// credentials when none are configured.
func corsConfig(origins []string) cors.Config {
	cc := cors.Config{
		AllowMethods:  []string{"GET", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", APIKeyHeader},
		ExposeHeaders: []string{"Content-Length", "Content-Disposition"},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		cc.AllowAllOrigins = true
		return cc
	}
	cc.AllowOrigins = origins
	cc.AllowCredentials = true
	return cc
}

// setupRoutes configures all the routes for the server
func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"archive": s.archive != nil,
		})
	})

	// Report endpoints
	s.router.GET("/report", s.getReport)
	s.router.GET("/report/csv", s.getReportCSV)
	s.router.GET("/report/pdf", s.getReportPDF)

	// Archive endpoints
	s.router.GET("/reports/history", s.getReportHistory)
}

// Handler exposes the router for tests and embedding
func (s *Server) Handler() http.Handler {
	return s.router
}

// Start starts the server on the specified port
func (s *Server) Start(port string) error {
	logging.Logger.Info().Str("port", port).Msg("server starting")
	return s.router.Run(":" + port)
}

func (s *Server) sessionOptions() SessionOptions {
	return SessionOptions{
		Uploads: UploadOptions{MaxItems: s.cfg.MaxUploads, MaxPages: s.cfg.MaxUploadPages},
		Batch:   BatchOptions{Strict: s.cfg.StrictBatch},
	}
}

// buildReport runs a report session for the request's channel. On failure it
// writes the error response and returns nil.
func (s *Server) buildReport(c *gin.Context) *models.Report {
	channel := strings.TrimSpace(c.Query("channel"))
	if channel == "" {
		writeError(c, apperrors.New(apperrors.CodeInvalidArg, "channel query parameter is required"))
		return nil
	}

	apiKey := strings.TrimSpace(c.GetHeader(APIKeyHeader))
	if apiKey == "" {
		apiKey = s.cfg.YouTubeAPIKey
	}
	if apiKey == "" {
		writeError(c, apperrors.New(apperrors.CodeUnauthorized, "API key is required"))
		return nil
	}

	ctx := c.Request.Context()
	provider, err := s.providers(ctx, apiKey)
	if err != nil {
		writeError(c, err)
		return nil
	}

	r, err := NewSession(provider, s.sessionOptions()).Run(ctx, channel)
	if err != nil {
		writeError(c, err)
		return nil
	}
	return r
}

// getReport handles requests for a full channel report
func (s *Server) getReport(c *gin.Context) {
	r := s.buildReport(c)
	if r == nil {
		return
	}

	if s.archive != nil {
		if err := s.archive.SaveReport(r); err != nil {
			logging.Logger.Warn().Err(err).Str("channel_id", r.ChannelID).Msg("failed to archive report")
		}
	}

	charts := report.BuildCharts(r.Statistics)
	if charts == nil {
		charts = []report.BarChart{}
	}
	c.JSON(http.StatusOK, ReportResponse{
		Report:  r,
		Summary: models.Summarize(r.Statistics.Rows),
		Charts:  charts,
	})
}

// getReportCSV handles requests for the CSV export
func (s *Server) getReportCSV(c *gin.Context) {
	r := s.exportableReport(c)
	if r == nil {
		return
	}

	data, err := report.CSVBytes(r.Statistics)
	if err != nil {
		writeError(c, apperrors.Wrap(err, apperrors.CodeInternal, "failed to build CSV report"))
		return
	}
	attach(c, report.FileName(r.Profile.Name, "csv"), "text/csv; charset=utf-8", data)
}

// getReportPDF handles requests for the PDF export
func (s *Server) getReportPDF(c *gin.Context) {
	r := s.exportableReport(c)
	if r == nil {
		return
	}

	data, err := report.RenderPDF(r.Profile, r.Statistics)
	if err != nil {
		writeError(c, apperrors.Wrap(err, apperrors.CodeInternal, "failed to build PDF report"))
		return
	}
	attach(c, report.FileName(r.Profile.Name, "pdf"), "application/pdf", data)
}

// exportableReport builds a report and requires it to have statistics rows
func (s *Server) exportableReport(c *gin.Context) *models.Report {
	r := s.buildReport(c)
	if r == nil {
		return nil
	}
	if !r.HasStatistics() {
		c.JSON(http.StatusNotFound, gin.H{
			"error":    "No detailed video stats available.",
			"warnings": r.Warnings,
		})
		return nil
	}
	return r
}

// getReportHistory handles requests for archived report summaries
func (s *Server) getReportHistory(c *gin.Context) {
	if s.archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "report archive is not configured"})
		return
	}

	limit := 10
	if v := c.Query("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n <= 0 {
			writeError(c, apperrors.New(apperrors.CodeInvalidArg, "limit must be a positive integer"))
			return
		}
		limit = min(n, 100)
	}

	snapshots, err := s.archive.RecentReports(limit)
	if err != nil {
		writeError(c, apperrors.Wrap(err, apperrors.CodeInternal, "failed to list reports"))
		return
	}
	c.JSON(http.StatusOK, gin.H{"reports": snapshots})
}

func attach(c *gin.Context, filename, contentType string, data []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, contentType, data)
}

// StatusFor maps an error code to an HTTP status
func StatusFor(err error) int {
	switch apperrors.CodeOf(err) {
	case apperrors.CodeInvalidArg:
		return http.StatusBadRequest
	case apperrors.CodeUnauthorized:
		return http.StatusUnauthorized
	case apperrors.CodeNotFound:
		return http.StatusNotFound
	case apperrors.CodeExternal:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func writeError(c *gin.Context, err error) {
	status := StatusFor(err)
	if status >= http.StatusInternalServerError {
		logging.Logger.Error().Err(err).Str("path", c.FullPath()).Msg("request failed")
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// requestLogger logs each request as structured JSON via zerolog
func requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()

		c.Next()

		status := c.Writer.Status()
		evt := logging.Logger.Info()
		if status >= 500 {
			evt = logging.Logger.Error()
		} else if status >= 400 {
			evt = logging.Logger.Warn()
		}

		evt.
			Str("method", c.Request.Method).
			Str("path", c.Request.URL.Path).
			Int("status", status).
			Dur("duration_ms", time.Since(start)).
			Int("bytes_sent", c.Writer.Size()).
			Msg("request")
	}
}
