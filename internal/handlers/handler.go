package handlers

import (
	"crypto/rand"
	"html/template"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "expense_tracker/docs"
	"expense_tracker/internal/logger"
	"expense_tracker/internal/service"
	"expense_tracker/web"
)

const defaultCookieName = "session"

// Handler wires HTTP layer to services and logging.
type Handler struct {
	services *service.Service
	log      *logger.Logger

	cookieName   string
	secureCookie bool
	limiter      *ipRateLimiter

	flashKey       []byte
	trustedProxies []string
}

// Option tweaks a Handler at construction.
type Option func(*Handler)

// WithSessionCookie sets the session cookie name and its Secure flag.
func WithSessionCookie(name string, secure bool) Option {
	return func(h *Handler) {
		if name != "" {
			h.cookieName = name
		}
		h.secureCookie = secure
	}
}

// WithRateLimit sets the per-IP token bucket used on credential endpoints.
func WithRateLimit(rps float64, burst int) Option {
	return func(h *Handler) {
		h.limiter = newIPRateLimiter(rate.Limit(rps), burst)
	}
}

// WithFlashKey sets the HMAC key signing flash cookies.
// Without it a random per-process key is used.
func WithFlashKey(key []byte) Option {
	return func(h *Handler) {
		if len(key) > 0 {
			h.flashKey = key
		}
	}
}

// WithTrustedProxies lists the proxy IPs/CIDRs whose X-Forwarded-For is honored.
// By default no proxy is trusted and the client IP is the peer address.
func WithTrustedProxies(proxies []string) Option {
	return func(h *Handler) {
		h.trustedProxies = proxies
	}
}

// NewHandler constructs a new HTTP handler with dependencies.
// A nil logger discards output.
func NewHandler(services *service.Service, log *logger.Logger, opts ...Option) *Handler {
	if log == nil {
		log = logger.Nop()
	}
	h := &Handler{
		services:   services,
		log:        log,
		cookieName: defaultCookieName,
		limiter:    newIPRateLimiter(rate.Limit(1), 5),
	}
	for _, opt := range opts {
		opt(h)
	}
	if h.flashKey == nil {
		h.flashKey = make([]byte, 32)
		if _, err := rand.Read(h.flashKey); err != nil {
			panic("handlers: no entropy for flash key: " + err.Error())
		}
	}
	return h
}

// InitRoutes builds and returns the Gin router with all routes registered.
func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.New()
	// gin trusts every proxy by default; client IPs key the rate limiter
	if err := router.SetTrustedProxies(h.trustedProxies); err != nil {
		h.log.Errorw("trusted_proxies_invalid", "err", err, "proxies", h.trustedProxies)
		_ = router.SetTrustedProxies(nil)
	}
	router.Use(gin.Recovery(), h.requestLogger)
	router.SetHTMLTemplate(template.Must(template.ParseFS(web.Templates, "templates/*.html")))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health endpoint
	router.GET("/health", h.health)

	// HTML pages (cookie session)
	h.registerPageRoutes(router)

	// Auth endpoints
	h.registerAuthRoutes(router)

	// Versioned API endpoints (protected)
	h.registerAPIRoutes(router)

	router.NoRoute(h.notFound)

	return router
}

func (h *Handler) registerPageRoutes(r *gin.Engine) {
	r.GET("/", h.optionalSession, h.indexPage)
	r.GET("/register", h.optionalSession, h.registerPage)
	r.POST("/register", h.rateLimit, h.optionalSession, h.registerSubmit)
	r.GET("/login", h.optionalSession, h.loginPage)
	r.POST("/login", h.rateLimit, h.optionalSession, h.loginSubmit)

	private := r.Group("/", h.requireSession)
	{
		private.GET("/logout", h.logout)
		private.GET("/add", h.addExpensePage)
		private.POST("/add", h.addExpenseSubmit)
		private.GET("/expenses", h.viewExpensesPage)
		private.GET("/update/:id", h.updateExpensePage)
		private.POST("/update/:id", h.updateExpenseSubmit)
		private.GET("/delete/:id", h.deleteExpense)
	}
}

func (h *Handler) registerAuthRoutes(r *gin.Engine) {
	auth := r.Group("/auth", h.rateLimit)
	{
		auth.POST("/sign-up", h.signUp)
		auth.POST("/sign-in", h.signIn)
	}
}

func (h *Handler) registerAPIRoutes(r *gin.Engine) {
	api := r.Group("/api/v1", h.userIdMiddleware)
	{
		api.GET("/categories", h.listCategories)
		h.registerExpenseRoutes(api)
		api.GET("/summary", h.getSummary)
		api.GET("/activity", h.getActivity)
		// WebSocket connection (HTTP upgrade) on the same port
		api.GET("/ws", h.wsConnect)
	}
}

func (h *Handler) registerExpenseRoutes(api *gin.RouterGroup) {
	expenses := api.Group("/expenses")
	{
		expenses.GET("", h.listExpenses)
		expenses.POST("", h.createExpense)
		expenses.GET("/:id", h.getExpense)
		expenses.PUT("/:id", h.updateExpense)
		expenses.DELETE("/:id", h.deleteExpenseAPI)
	}
}
