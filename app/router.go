// Package app wires the services into the HTTP router
package app

import (
	"context"
	"fmt"
	"strings"
	"time"

	"greanix/footprint-api/app/footprint"
	"greanix/footprint-api/app/root"
	"greanix/footprint-api/app/user"
	"greanix/footprint-api/db"
	"greanix/footprint-api/internal"
	"greanix/footprint-api/internal/account"
	"greanix/footprint-api/internal/cache"
	footprints "greanix/footprint-api/internal/footprint"
	"greanix/footprint-api/internal/service"
	"greanix/footprint-api/internal/store"
	"greanix/footprint-api/pkg/middleware"
	"greanix/footprint-api/pkg/security"

	ginCache "github.com/chenyahui/gin-cache"
	"github.com/chenyahui/gin-cache/persist"
	"github.com/gin-contrib/cors"
	ginzap "github.com/gin-contrib/zap"
	"github.com/gin-gonic/gin"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

const maxBodySize = 1 << 20

// Options holds the router settings that don't belong to any service
type Options struct {
	CORSOrigins []string
	RateLimit   int
	Turnstile   middleware.TurnstileConfig
}

// NewRouter builds every dependency from the loaded configuration and returns
// the ready engine
func NewRouter(ctx context.Context) (*gin.Engine, error) {
	gdb, err := db.New(db.Config{
		Driver: viper.GetString("database.driver"),
		DSN:    viper.GetString("database.dsn"),
		Debug:  viper.GetString("app.log_level") == "debug",
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database, %w", err)
	}

	hasher, err := security.NewHasher(viper.GetString("security.hash_algorithm"), viper.GetInt("security.bcrypt_cost"))
	if err != nil {
		return nil, fmt.Errorf("failed to initialize password hasher, %w", err)
	}

	st := store.NewGormStore(gdb, hasher)

	var mailer service.Mailer
	if viper.GetBool("mail.enabled") {
		mailer = service.NewSMTPMailer(service.MailConfig{
			Host:          viper.GetString("mail.host"),
			Port:          viper.GetInt("mail.port"),
			SenderAddress: viper.GetString("mail.sender_address"),
			Password:      viper.GetString("mail.password"),
			ResetURL:      viper.GetString("mail.reset_url"),
		})
	} else {
		mailer = &service.LogMailer{ResetURL: viper.GetString("mail.reset_url")}
	}

	historyCache, err := cache.New(ctx, cache.Config{
		Type:          viper.GetString("cache.type"),
		TTL:           viper.GetDuration("cache.ttl"),
		RedisAddr:     viper.GetString("redis.addr"),
		RedisPassword: viper.GetString("redis.password"),
		RedisDB:       viper.GetInt("redis.db"),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize history cache, %w", err)
	}

	resets := account.NewResetManager(st, mailer, viper.GetDuration("security.reset_token_ttl"))

	d := &internal.Deps{
		DB:            gdb,
		Store:         st,
		Sessions:      security.NewSessions(viper.GetString("security.jwt_secret"), viper.GetDuration("security.session_ttl")),
		Accounts:      account.NewService(st, hasher, resets, viper.GetInt("security.password_max_length")),
		Footprints:    footprints.NewService(st, historyCache, viper.GetDuration("cache.ttl")),
		SecureCookies: viper.GetBool("host.ssl.enabled"),
	}

	return NewEngine(d, Options{
		CORSOrigins: strings.Split(viper.GetString("host.cors"), ","),
		RateLimit:   viper.GetInt("security.rate_limit"),
		Turnstile: middleware.TurnstileConfig{
			Enabled:     viper.GetBool("turnstile.enabled"),
			SecretToken: viper.GetString("turnstile.secret_token"),
			VerifyURL:   viper.GetString("turnstile.verify_url"),
		},
	}), nil
}

// NewEngine registers every route on a fresh gin engine
func NewEngine(d *internal.Deps, o Options) *gin.Engine {
	router := gin.New()

	router.Use(
		cors.New(cors.Config{
			AllowOrigins:     o.CORSOrigins,
			AllowMethods:     []string{"GET", "HEAD", "POST", "OPTIONS"},
			AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "TurnstileToken"},
			ExposeHeaders:    []string{"Content-Length", middleware.RequestIDHeader},
			AllowCredentials: true,
			MaxAge:           12 * time.Hour,
		}),
		gin.Recovery(),
		middleware.NewRequestIDMiddleware(),
		ginzap.GinzapWithConfig(zap.L(), &ginzap.Config{
			TimeFormat: "15:04:05.000",
			UTC:        true,
			Skipper: func(c *gin.Context) bool {
				return c.Request.Method == "HEAD"
			},
			Context: func(c *gin.Context) []zapcore.Field {
				fields := []zapcore.Field{}

				if v := c.GetString("requestID"); v != "" {
					fields = append(fields, zap.String("request_id", v))
				}

				if v := c.GetString("accountID"); v != "" {
					fields = append(fields, zap.String("account_id", v))
				}

				return fields
			},
		}),
	)

	router.HandleMethodNotAllowed = true
	router.RedirectFixedPath = true

	auth := middleware.NewAuthMiddleware(d.Sessions)
	turnstile := middleware.NewTurnstileMiddleware(o.Turnstile)
	rateLimiter := middleware.NewRateLimiter(middleware.RateLimiterConfig{
		RequestsPerSecond: o.RateLimit,
		Burst:             o.RateLimit * 2,
	}).Middleware()
	bodyLimit := middleware.BodySizeLimiter(maxBodySize)
	routeCache := persist.NewMemoryStore(time.Minute)

	a := router.Group("", rateLimiter, bodyLimit)
	{
		// POST /signup				-> Creates a new account
		a.POST("/signup", turnstile, func(c *gin.Context) { user.UserSignup(c, d) })

		// POST /login				-> Checks credentials and returns a session token
		a.POST("/login", func(c *gin.Context) { user.UserLogin(c, d) })

		// POST /request-password-reset		-> Mails a reset link if the account exists
		a.POST("/request-password-reset", turnstile, func(c *gin.Context) { user.UserRequestReset(c, d) })

		// POST /reset-password			-> Consumes a reset token and sets a new password
		a.POST("/reset-password", func(c *gin.Context) { user.UserResetPassword(c, d) })
	}

	m := router.Group("/api")
	{
		heartbeat := root.NewHeartbeat(time.Now())

		// HEAD /api/heartbeat 			-> Used to check if the server is alive
		m.HEAD("/heartbeat", heartbeat)
		m.GET("/heartbeat", ginCache.CacheByRequestURI(routeCache, time.Second), heartbeat)

		// POST /api/save-footprint		-> Appends a footprint record to the session's account
		m.POST("/save-footprint", bodyLimit, auth, func(c *gin.Context) { footprint.FootprintSave(c, d) })

		// GET /api/user-data/:accountId	-> Returns the username and footprint history
		m.GET("/user-data/:accountId", auth, func(c *gin.Context) { footprint.FootprintHistory(c, d) })
	}

	return router
}
