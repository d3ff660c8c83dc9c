// Package server exposes the compliance engine over HTTP. Routing and
// validation live here; every decision comes from the engine unchanged.
package server

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/meridiancap/tradegate/internal/advisor"
	"github.com/meridiancap/tradegate/internal/audit"
	"github.com/meridiancap/tradegate/internal/config"
	"github.com/meridiancap/tradegate/internal/directory"
	"github.com/meridiancap/tradegate/internal/engine"
	"github.com/meridiancap/tradegate/internal/journal"
	"github.com/meridiancap/tradegate/internal/model"
	"github.com/meridiancap/tradegate/internal/policy"
	"github.com/meridiancap/tradegate/internal/preclear"
	"github.com/meridiancap/tradegate/internal/rules"
)

// Server wires the engine, stores, and HTTP surface together.
type Server struct {
	cfg *config.Config

	mu    sync.RWMutex // guards dir and rulebook across hot reloads
	dir   *directory.Directory
	rules *rules.Store

	engine   *engine.Engine
	preclear *preclear.Store
	auditLog *audit.Log
	journal  *journal.Journal

	router *gin.Engine
	srv    *http.Server
}

// New builds a server from configuration: loads the employee roster and
// rules, selects the reasoning strategy, and opens the optional audit
// log and journal.
func New(cfg *config.Config) (*Server, error) {
	dir, err := directory.Load(cfg.EmployeeDB)
	if err != nil {
		return nil, fmt.Errorf("load employee roster: %w", err)
	}
	rulebook, err := rules.Load(cfg.RulesDir)
	if err != nil {
		return nil, fmt.Errorf("load rules: %w", err)
	}

	preclearDir := cfg.PreclearDir
	if preclearDir == "" {
		preclearDir = preclear.DefaultDir()
	}
	preclearStore, err := preclear.NewStore(preclearDir)
	if err != nil {
		return nil, fmt.Errorf("create preclearance store: %w", err)
	}

	var auditLog *audit.Log
	if cfg.AuditLog != "" {
		auditLog, err = audit.Open(cfg.AuditLog)
		if err != nil {
			return nil, fmt.Errorf("open audit log: %w", err)
		}
	}

	var jnl *journal.Journal
	if cfg.JournalDB != "" {
		jnl, err = journal.Open(cfg.JournalDB)
		if err != nil {
			return nil, fmt.Errorf("open journal: %w", err)
		}
	}

	s := &Server{
		cfg:      cfg,
		dir:      dir,
		rules:    rulebook,
		preclear: preclearStore,
		auditLog: auditLog,
		journal:  jnl,
	}
	// The engine reads stores through the server so hot reloads are
	// visible without rebuilding it.
	s.engine = engine.New(s, s, selectAdvisor(cfg), cfg.Firm)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(RequestLogger())
	r.Use(RateLimitMiddleware())
	r.Use(CORSMiddleware())
	s.router = r
	s.routes()

	s.srv = &http.Server{
		Addr:    cfg.ListenAddr,
		Handler: r,
	}
	return s, nil
}

// selectAdvisor picks the reasoning strategy at construction time:
// the live service when configured, the deterministic evaluator
// otherwise. Absent credentials never fail startup.
func selectAdvisor(cfg *config.Config) advisor.Advisor {
	llm := advisor.LLMConfig{
		APIURL:    cfg.LLM.APIURL,
		APIKey:    cfg.LLM.APIKey,
		Model:     cfg.LLM.Model,
		MaxTokens: cfg.LLM.MaxTokens,
		Timeout:   cfg.LLM.Timeout.Std(),
	}
	if llm.Configured() {
		return advisor.NewLLM(llm)
	}
	return advisor.NewHeuristic()
}

// Get implements engine.EmployeeLookup against the current roster.
func (s *Server) Get(employeeID string) *model.EmployeeRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.dir.Get(employeeID)
}

// Rules implements engine.RulesLookup against the current rulebook.
func (s *Server) Rules(firm string) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rules.Rules(firm)
}

// Reload re-reads the employee roster and rules and swaps them
// atomically. Called by the fsnotify watcher on file change.
func (s *Server) Reload() error {
	dir, err := directory.Load(s.cfg.EmployeeDB)
	if err != nil {
		return fmt.Errorf("reload employee roster: %w", err)
	}
	rulebook, err := rules.Load(s.cfg.RulesDir)
	if err != nil {
		return fmt.Errorf("reload rules: %w", err)
	}

	s.mu.Lock()
	s.dir = dir
	s.rules = rulebook
	s.mu.Unlock()
	return nil
}

// Handler returns the HTTP handler, for tests.
func (s *Server) Handler() http.Handler { return s.router }

// Start begins serving. Blocks until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.srv.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.srv.Addr, err)
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = s.srv.Shutdown(shutdownCtx)
	}()

	if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close releases the audit log and journal.
func (s *Server) Close() error {
	var errs []error
	if s.auditLog != nil {
		errs = append(errs, s.auditLog.Close())
	}
	if s.journal != nil {
		errs = append(errs, s.journal.Close())
	}
	return errors.Join(errs...)
}

func (s *Server) routes() {
	api := s.router.Group("/api")
	{
		api.POST("/check-trade", s.checkTrade)
		api.GET("/employee/:id", s.getEmployee)
		api.GET("/employees", s.listEmployees)
		api.GET("/search/employees", s.searchEmployees)
		api.GET("/rules/:firm", s.getRules)
		api.GET("/health", s.health)
	}
}

type checkTradeRequest struct {
	EmployeeID string  `json:"employee_id" binding:"required"`
	Ticker     string  `json:"ticker" binding:"required"`
	Action     string  `json:"action" binding:"required"`
	Date       string  `json:"date" binding:"required"`
	Quantity   float64 `json:"quantity" binding:"omitempty,gt=0"`
}

type requestEcho struct {
	Ticker   string  `json:"ticker"`
	Action   string  `json:"action"`
	Date     string  `json:"date"`
	Quantity float64 `json:"quantity"`
}

type checkTradeResponse struct {
	model.ComplianceDecision
	Employee model.EmployeeSummary `json:"employee"`
	Request  requestEcho           `json:"request"`
}

// dateLayouts are the accepted trade-date formats, tried in order.
var dateLayouts = []string{time.RFC3339, "2006-01-02T15:04:05", "2006-01-02"}

func parseTradeDate(s string) (time.Time, error) {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", s)
}

func (s *Server) checkTrade(c *gin.Context) {
	var req checkTradeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "invalid request body",
			"hint":  "employee_id, ticker, action, and date are required; date format ISO 8601",
			"example": gin.H{
				"employee_id": "MCP003",
				"ticker":      "AAPL",
				"action":      "buy",
				"date":        "2026-03-02T14:30:00",
				"quantity":    100,
			},
		})
		return
	}

	action, err := model.ParseTradeAction(req.Action)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	tradeDate, err := parseTradeDate(req.Date)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{
			"error":    "invalid date format",
			"expected": "ISO 8601 (YYYY-MM-DDTHH:MM:SS or YYYY-MM-DD)",
			"received": req.Date,
		})
		return
	}

	trade := model.TradeRequest{
		EmployeeID: req.EmployeeID,
		Ticker:     req.Ticker,
		Action:     action,
		TradeDate:  tradeDate,
		Quantity:   req.Quantity,
	}

	// Snapshot the record up front: a hot reload may remove the
	// employee mid-request, and the response must describe the roster
	// the decision was made against.
	emp := s.Get(trade.EmployeeID)

	decision, err := s.engine.Decide(c.Request.Context(), trade)
	switch {
	case errors.Is(err, engine.ErrEmployeeNotFound) || emp == nil:
		c.JSON(http.StatusNotFound, gin.H{
			"error": fmt.Sprintf("Employee %s not found", req.EmployeeID),
			"hint":  "Use a valid employee ID",
		})
		return
	case err != nil:
		s.record(c, trade, decision)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":    decision.Reason,
			"decision": decision,
		})
		return
	}

	s.record(c, trade, decision)
	if decision.Decision == model.RequiresPreclearance {
		// File a pending request for the compliance officer queue.
		// Failure to file never blocks the decision response.
		if err := s.preclear.File(trade.EmployeeID, trade.Ticker, decision.Reason, decision.Conditions); err != nil {
			log.Printf("file preclearance %s/%s: %v", trade.EmployeeID, trade.Ticker, err)
		}
	}

	c.JSON(http.StatusOK, checkTradeResponse{
		ComplianceDecision: decision,
		Employee:           emp.Summary(),
		Request: requestEcho{
			Ticker:   trade.Ticker,
			Action:   string(trade.Action),
			Date:     trade.TradeDate.Format(time.RFC3339),
			Quantity: trade.Quantity,
		},
	})
}

// record writes the decision to the audit log and journal when enabled.
func (s *Server) record(c *gin.Context, trade model.TradeRequest, d model.ComplianceDecision) {
	requestID := c.GetString("RequestID")
	if s.auditLog != nil {
		if err := s.auditLog.Record(audit.Entry{
			RequestID:  requestID,
			EmployeeID: trade.EmployeeID,
			Ticker:     trade.Ticker,
			Action:     string(trade.Action),
			Decision:   string(d.Decision),
			Confidence: d.Confidence,
			Reason:     d.Reason,
			Advisor:    s.engine.AdvisorName(),
		}); err != nil {
			log.Printf("audit record: %v", err)
		}
	}
	if s.journal != nil {
		if err := s.journal.Record(journal.Check{
			RequestID:  requestID,
			EmployeeID: trade.EmployeeID,
			Ticker:     trade.Ticker,
			Action:     string(trade.Action),
			Decision:   string(d.Decision),
			Confidence: d.Confidence,
			Reason:     d.Reason,
			Advisor:    s.engine.AdvisorName(),
		}); err != nil {
			log.Printf("journal record: %v", err)
		}
	}
}

func (s *Server) getEmployee(c *gin.Context) {
	id := c.Param("id")
	emp := s.Get(id)
	if emp == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("Employee %s not found", id)})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"profile": gin.H{
			"employee_id":   emp.EmployeeID,
			"name":          emp.Name,
			"title":         emp.Title,
			"department":    emp.Department,
			"tier":          emp.Tier,
			"tier_label":    policy.TierLabel(emp.Tier),
			"years_at_firm": emp.YearsAtFirm,
		},
		"restricted_securities": emp.RestrictedSecurities,
		"active_deals":          emp.ActiveDeals,
		"coverage_list":         emp.CoverageList,
		"notes":                 emp.Notes,
	})
}

func (s *Server) listEmployees(c *gin.Context) {
	s.mu.RLock()
	dir := s.dir
	s.mu.RUnlock()

	var recs []*model.EmployeeRecord
	if tierStr := c.Query("tier"); tierStr != "" {
		tier, err := strconv.Atoi(tierStr)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "tier must be an integer (1-4)"})
			return
		}
		recs = dir.ListByTier(tier)
	} else {
		recs = dir.All()
	}

	out := make([]gin.H, len(recs))
	for i, e := range recs {
		out[i] = gin.H{
			"employee_id":                 e.EmployeeID,
			"name":                        e.Name,
			"title":                       e.Title,
			"tier":                        e.Tier,
			"department":                  e.Department,
			"restricted_securities_count": len(e.RestrictedSecurities),
		}
	}
	c.JSON(http.StatusOK, gin.H{"count": len(out), "employees": out})
}

func (s *Server) searchEmployees(c *gin.Context) {
	query := c.Query("q")
	if query == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": `query parameter "q" is required`})
		return
	}

	s.mu.RLock()
	results := s.dir.Search(query)
	s.mu.RUnlock()

	out := make([]gin.H, len(results))
	for i, e := range results {
		out[i] = gin.H{
			"employee_id": e.EmployeeID,
			"name":        e.Name,
			"title":       e.Title,
			"department":  e.Department,
		}
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "count": len(out), "results": out})
}

func (s *Server) getRules(c *gin.Context) {
	firm := c.Param("firm")

	s.mu.RLock()
	rulebook := s.rules
	s.mu.RUnlock()

	if !rulebook.Has(firm) {
		c.JSON(http.StatusNotFound, gin.H{"error": fmt.Sprintf("no rules on file for %s", firm)})
		return
	}
	c.JSON(http.StatusOK, gin.H{"firm": firm, "content": rulebook.Rules(firm)})
}

func (s *Server) health(c *gin.Context) {
	s.mu.RLock()
	loaded := s.dir.Len()
	s.mu.RUnlock()

	c.JSON(http.StatusOK, gin.H{
		"status":           "healthy",
		"service":          "tradegate",
		"timestamp":        time.Now().UTC().Format(time.RFC3339),
		"employees_loaded": loaded,
		"firm":             s.cfg.Firm,
		"advisor":          s.engine.AdvisorName(),
	})
}
